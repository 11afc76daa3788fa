package services

import (
	"context"
	"time"

	"github.com/archivo-labs/archivo-core/internal/core/domain"
	"github.com/archivo-labs/archivo-core/internal/core/ports/driven"
	"github.com/archivo-labs/archivo-core/internal/core/ports/driving"
)

// Ensure authService implements AuthService
var _ driving.AuthService = (*authService)(nil)

// authService exchanges the configured API key for short-lived tokens.
type authService struct {
	adapter  driven.AuthAdapter
	tokenTTL time.Duration
}

// NewAuthService creates a new AuthService.
func NewAuthService(adapter driven.AuthAdapter, tokenTTL time.Duration) driving.AuthService {
	if tokenTTL <= 0 {
		tokenTTL = 12 * time.Hour
	}
	return &authService{adapter: adapter, tokenTTL: tokenTTL}
}

// IssueToken verifies the API key and returns a signed token.
func (s *authService) IssueToken(ctx context.Context, req domain.TokenRequest) (*domain.TokenResponse, error) {
	if !s.adapter.VerifyAPIKey(req.APIKey) {
		return nil, domain.ErrUnauthorized
	}

	subject := req.Client
	if subject == "" {
		subject = "archivo-web"
	}

	now := time.Now()
	expires := now.Add(s.tokenTTL)
	token, err := s.adapter.GenerateToken(&domain.TokenClaims{
		Subject:   subject,
		IssuedAt:  now.Unix(),
		ExpiresAt: expires.Unix(),
	})
	if err != nil {
		return nil, err
	}

	return &domain.TokenResponse{Token: token, ExpiresAt: expires}, nil
}

// ValidateToken verifies a bearer token and returns its claims.
func (s *authService) ValidateToken(ctx context.Context, token string) (*domain.TokenClaims, error) {
	claims, err := s.adapter.ValidateToken(token)
	if err != nil {
		return nil, err
	}
	if claims.Expired() {
		return nil, domain.ErrTokenExpired
	}
	return claims, nil
}
