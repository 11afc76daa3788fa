package driving

import (
	"context"

	"github.com/archivo-labs/archivo-core/internal/core/domain"
)

// AuthService issues and validates access tokens for the HTTP surface.
type AuthService interface {
	// IssueToken exchanges the configured API key for a signed token.
	IssueToken(ctx context.Context, req domain.TokenRequest) (*domain.TokenResponse, error)

	// ValidateToken verifies a bearer token and returns its claims.
	ValidateToken(ctx context.Context, token string) (*domain.TokenClaims, error)
}
