package identity

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

type storedTokens struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token,omitempty"`
	IDToken      string `json:"id_token,omitempty"`
	TokenType    string `json:"token_type,omitempty"`
	ExpiresAt    int64  `json:"expires_at,omitempty"`
}

func newStoredTokens(tokens ExchangedTokens, now time.Time) storedTokens {
	stored := storedTokens{
		AccessToken:  tokens.AccessToken,
		RefreshToken: tokens.RefreshToken,
		IDToken:      tokens.IDToken,
		TokenType:    tokens.TokenType,
	}
	if tokens.ExpiresIn > 0 {
		stored.ExpiresAt = now.Add(time.Duration(tokens.ExpiresIn) * time.Second).Unix()
	}

	return stored
}

func decodeStoredTokens(secretValue string) (storedTokens, error) {
	var tokens storedTokens
	if err := json.Unmarshal([]byte(secretValue), &tokens); err != nil {
		return storedTokens{}, fmt.Errorf("decode identity tokens: %w", err)
	}
	if strings.TrimSpace(tokens.AccessToken) == "" {
		return storedTokens{}, fmt.Errorf("identity tokens missing access_token")
	}

	return tokens, nil
}

func encodeStoredTokens(tokens storedTokens) (string, error) {
	payload, err := json.Marshal(tokens)
	if err != nil {
		return "", fmt.Errorf("encode identity tokens: %w", err)
	}

	return string(payload), nil
}

// expiry prefers the recorded expires_at and falls back to the ID token's exp claim.
// The ID token signature is not checked; it was received directly from the token endpoint.
func (t storedTokens) expiry() (time.Time, bool) {
	if t.ExpiresAt > 0 {
		return time.Unix(t.ExpiresAt, 0), true
	}
	if t.IDToken == "" {
		return time.Time{}, false
	}

	var claims jwt.RegisteredClaims
	if _, _, err := jwt.NewParser().ParseUnverified(t.IDToken, &claims); err != nil {
		return time.Time{}, false
	}
	if claims.ExpiresAt == nil {
		return time.Time{}, false
	}

	return claims.ExpiresAt.Time, true
}

func (t storedTokens) expired(now time.Time) bool {
	expiresAt, ok := t.expiry()
	if !ok {
		return false
	}

	return !expiresAt.After(now)
}
