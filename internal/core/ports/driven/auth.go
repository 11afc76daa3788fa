package driven

import "github.com/archivo-labs/archivo-core/internal/core/domain"

// AuthAdapter handles token signing and API key verification for the HTTP
// surface.
type AuthAdapter interface {
	// GenerateToken creates a signed access token from claims.
	GenerateToken(claims *domain.TokenClaims) (string, error)

	// ValidateToken parses and verifies a token, returning its claims.
	// Returns domain.ErrTokenExpired or domain.ErrTokenInvalid on failure.
	ValidateToken(token string) (*domain.TokenClaims, error)

	// VerifyAPIKey checks a presented API key against the configured hash.
	VerifyAPIKey(key string) bool
}
