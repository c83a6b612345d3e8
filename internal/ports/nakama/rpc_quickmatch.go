package nakama

import (
	"context"
	"database/sql"
	"encoding/json"

	"github.com/heroiclabs/nakama-common/runtime"
)

// QuickMatchResponse is the payload returned to clients when requesting a
// joinable match.
type QuickMatchResponse struct {
	MatchID string `json:"match_id"`
	IsNew   bool   `json:"is_new"`
}

func rpcQuickMatch(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, payload string) (string, error) {
	userID, _ := ctx.Value(runtime.RUNTIME_CTX_USER_ID).(string)

	// Find any match of our game still in the lobby with open seats.
	query := "+label.open:>=1 +label.game:battleroyale +label.phase:waiting"

	limit := 10
	authoritative := true
	minSize := 0
	maxSize := 0 // no size constraint; label.open already filters full matches

	matches, err := nk.MatchList(ctx, limit, authoritative, "", &minSize, &maxSize, query)
	if err != nil {
		logger.Error("rpcQuickMatch [User:%s]: MatchList error: %v", userID, err)
		return "", runtime.NewError("Failed to list matches", 13) // INTERNAL
	}

	if len(matches) > 0 {
		resp := QuickMatchResponse{MatchID: matches[0].MatchId, IsNew: false}
		b, _ := json.Marshal(resp)
		return string(b), nil
	}

	params := map[string]interface{}{}
	if payload != "" {
		var req struct {
			World string `json:"world"`
		}
		if err := json.Unmarshal([]byte(payload), &req); err == nil && req.World != "" {
			params["world"] = req.World
		}
	}

	matchID, err := nk.MatchCreate(ctx, MatchNameBattleRoyale, params)
	if err != nil {
		logger.Error("rpcQuickMatch [User:%s]: MatchCreate error: %v", userID, err)
		return "", runtime.NewError("Failed to create match", 13)
	}

	logger.Info("rpcQuickMatch [User:%s]: Created new match %s", userID, matchID)
	resp := QuickMatchResponse{MatchID: matchID, IsNew: true}
	b, _ := json.Marshal(resp)
	return string(b), nil
}
