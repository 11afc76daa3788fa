package mocks

import (
	"encoding/json"
	"errors"
	"time"

	"github.com/archivo-labs/archivo-core/internal/core/domain"
)

// MockAuthAdapter signs tokens by JSON-encoding the claims. Good enough for
// service tests; real signing lives in the jwt adapter.
type MockAuthAdapter struct {
	APIKey      string
	GenerateErr error
}

func NewMockAuthAdapter(apiKey string) *MockAuthAdapter {
	return &MockAuthAdapter{APIKey: apiKey}
}

func (m *MockAuthAdapter) GenerateToken(claims *domain.TokenClaims) (string, error) {
	if m.GenerateErr != nil {
		return "", m.GenerateErr
	}
	data, err := json.Marshal(claims)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

func (m *MockAuthAdapter) ValidateToken(token string) (*domain.TokenClaims, error) {
	var claims domain.TokenClaims
	if err := json.Unmarshal([]byte(token), &claims); err != nil {
		return nil, errors.Join(domain.ErrTokenInvalid, err)
	}
	return &claims, nil
}

func (m *MockAuthAdapter) VerifyAPIKey(key string) bool {
	return key != "" && key == m.APIKey
}

// ExpiredToken returns a token whose expiry is already in the past.
func (m *MockAuthAdapter) ExpiredToken(subject string) string {
	token, _ := m.GenerateToken(&domain.TokenClaims{
		Subject:   subject,
		IssuedAt:  time.Now().Add(-2 * time.Hour).Unix(),
		ExpiresAt: time.Now().Add(-time.Hour).Unix(),
	})
	return token
}
