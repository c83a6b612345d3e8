package app

import (
	"fmt"
	"time"

	"github.com/form3tech-oss/jwt-go"
	"github.com/google/uuid"
)

// SpectateService issues signed, short-lived tokens that grant read-only
// spectate access to a match stream. The token is verified by the spectator
// gateway, not by this module.
type SpectateService struct {
	secret string
	issuer string
	ttl    time.Duration
}

const SpectateRole = "spectator"

func NewSpectateService(secret, issuer string, ttl time.Duration) *SpectateService {
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &SpectateService{
		secret: secret,
		issuer: issuer,
		ttl:    ttl,
	}
}

// GenerateToken returns an HS256 token binding the user to a match id.
func (s *SpectateService) GenerateToken(userID, matchID string) (string, error) {
	if s == nil {
		return "", fmt.Errorf("spectate service is nil")
	}
	if userID == "" {
		return "", fmt.Errorf("user is required")
	}
	if matchID == "" {
		return "", fmt.Errorf("match id is required")
	}
	if s.secret == "" || s.issuer == "" {
		return "", fmt.Errorf("spectate config is incomplete")
	}

	claims := jwt.MapClaims{
		"iss":  s.issuer,
		"sub":  userID,
		"exp":  time.Now().Add(s.ttl).Unix(),
		"jti":  uuid.NewString(),
		"mid":  matchID,
		"role": SpectateRole,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.secret))
}
