package app

import (
	"testing"
	"time"

	"github.com/form3tech-oss/jwt-go"
)

func parseSpectateClaims(t *testing.T, tokenString, secret string) jwt.MapClaims {
	t.Helper()
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		return []byte(secret), nil
	})
	if err != nil {
		t.Fatalf("parse token error: %v", err)
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		t.Fatalf("token claims invalid")
	}
	return claims
}

func stringClaim(t *testing.T, claims jwt.MapClaims, key string) string {
	t.Helper()
	val, ok := claims[key].(string)
	if !ok {
		t.Fatalf("claim %q missing or not a string", key)
	}
	return val
}

func TestSpectateServiceGenerateToken(t *testing.T) {
	secret := "test-secret"
	svc := NewSpectateService(secret, "battleroyale", 30*time.Minute)

	tokenString, err := svc.GenerateToken("user123", "match-456")
	if err != nil {
		t.Fatalf("generate token error: %v", err)
	}

	claims := parseSpectateClaims(t, tokenString, secret)
	if got := stringClaim(t, claims, "sub"); got != "user123" {
		t.Fatalf("sub = %s, want user123", got)
	}
	if got := stringClaim(t, claims, "mid"); got != "match-456" {
		t.Fatalf("mid = %s, want match-456", got)
	}
	if got := stringClaim(t, claims, "role"); got != SpectateRole {
		t.Fatalf("role = %s, want %s", got, SpectateRole)
	}
	if got := stringClaim(t, claims, "iss"); got != "battleroyale" {
		t.Fatalf("iss = %s, want battleroyale", got)
	}
	if stringClaim(t, claims, "jti") == "" {
		t.Fatalf("jti empty")
	}
}

func TestSpectateServiceRejectsIncompleteInput(t *testing.T) {
	svc := NewSpectateService("secret", "issuer", time.Hour)

	tests := []struct {
		name    string
		userID  string
		matchID string
	}{
		{name: "missing user", userID: "", matchID: "m1"},
		{name: "missing match", userID: "u1", matchID: ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := svc.GenerateToken(tt.userID, tt.matchID); err == nil {
				t.Fatalf("expected error")
			}
		})
	}

	unconfigured := NewSpectateService("", "", time.Hour)
	if _, err := unconfigured.GenerateToken("u1", "m1"); err == nil {
		t.Fatalf("expected error for incomplete config")
	}
}
