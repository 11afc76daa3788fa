package domain

import "time"

// TokenClaims is the payload carried inside an issued access token.
type TokenClaims struct {
	// Subject identifies the caller the token was issued to (e.g. the web
	// frontend's client name).
	Subject   string `json:"subject"`
	IssuedAt  int64  `json:"issued_at"`
	ExpiresAt int64  `json:"expires_at"`
}

// Expired reports whether the claims are past their expiry.
func (c *TokenClaims) Expired() bool {
	return time.Now().Unix() >= c.ExpiresAt
}

// TokenRequest exchanges the shared API key for an access token.
type TokenRequest struct {
	APIKey string `json:"api_key"`
	Client string `json:"client,omitempty"`
}

// TokenResponse carries a freshly issued access token.
type TokenResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}
