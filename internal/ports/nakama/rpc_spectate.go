package nakama

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"battleroyale/internal/app"

	"github.com/heroiclabs/nakama-common/runtime"
)

// spectateService is lazily built from environment credentials on first use.
var spectateService *app.SpectateService

type spectateTokenResponse struct {
	Token string `json:"token"`
}

// RpcGetSpectateToken issues a signed token that grants read-only access to
// a running match's broadcast stream.
// Payload: {"match_id": "..."}
func RpcGetSpectateToken(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, payload string) (string, error) {
	userID, _ := ctx.Value(runtime.RUNTIME_CTX_USER_ID).(string)
	if userID == "" {
		return "", runtime.NewError("Authentication required", 16) // UNAUTHENTICATED
	}

	var req struct {
		MatchID string `json:"match_id"`
	}
	if err := json.Unmarshal([]byte(payload), &req); err != nil || req.MatchID == "" {
		return "", runtime.NewError("match_id required", 3) // INVALID_ARGUMENT
	}

	if spectateService == nil {
		env, _ := ctx.Value(runtime.RUNTIME_CTX_ENV).(map[string]string)
		secret := env["br_spectate_secret"]
		issuer := env["br_spectate_issuer"]
		if secret == "" || issuer == "" {
			secret = "test-secret"
			issuer = "test-issuer"
			logger.Warn("Spectate credentials missing from env, using test defaults.")
		}
		spectateService = app.NewSpectateService(secret, issuer, time.Hour)
	}

	token, err := spectateService.GenerateToken(userID, req.MatchID)
	if err != nil {
		logger.Error("RpcGetSpectateToken [User:%s]: %v", userID, err)
		return "", runtime.NewError("Internal error", 13) // INTERNAL
	}

	b, _ := json.Marshal(spectateTokenResponse{Token: token})
	return string(b), nil
}
