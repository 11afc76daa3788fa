package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/archivo-labs/archivo-core/internal/core/domain"
	"github.com/archivo-labs/archivo-core/internal/core/ports/driven"
)

// Ensure Adapter implements AuthAdapter
var _ driven.AuthAdapter = (*Adapter)(nil)

// jwtClaims wraps domain.TokenClaims for JWT compatibility
type jwtClaims struct {
	jwt.RegisteredClaims
}

// Adapter signs access tokens with HS256 and verifies the configured API
// key against its bcrypt hash. The plaintext key never lives in config.
type Adapter struct {
	jwtSecret  []byte
	apiKeyHash []byte
}

// NewAdapter creates an auth adapter. apiKeyHash is the bcrypt hash of the
// API key clients exchange for tokens.
func NewAdapter(jwtSecret, apiKeyHash string) *Adapter {
	return &Adapter{
		jwtSecret:  []byte(jwtSecret),
		apiKeyHash: []byte(apiKeyHash),
	}
}

// HashAPIKey generates a bcrypt hash for an API key. Used by deployment
// tooling to produce the configured hash.
func HashAPIKey(key string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(key), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// VerifyAPIKey checks a presented API key against the configured hash
func (a *Adapter) VerifyAPIKey(key string) bool {
	if len(a.apiKeyHash) == 0 || key == "" {
		return false
	}
	return bcrypt.CompareHashAndPassword(a.apiKeyHash, []byte(key)) == nil
}

// GenerateToken creates a signed JWT from domain claims
func (a *Adapter) GenerateToken(claims *domain.TokenClaims) (string, error) {
	jc := jwtClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   claims.Subject,
			IssuedAt:  jwt.NewNumericDate(time.Unix(claims.IssuedAt, 0)),
			ExpiresAt: jwt.NewNumericDate(time.Unix(claims.ExpiresAt, 0)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jc)
	return token.SignedString(a.jwtSecret)
}

// ValidateToken parses a JWT and extracts domain claims
func (a *Adapter) ValidateToken(tokenString string) (*domain.TokenClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &jwtClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return a.jwtSecret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, domain.ErrTokenExpired
		}
		return nil, domain.ErrTokenInvalid
	}

	claims, ok := token.Claims.(*jwtClaims)
	if !ok || !token.Valid {
		return nil, domain.ErrTokenInvalid
	}

	return &domain.TokenClaims{
		Subject:   claims.Subject,
		IssuedAt:  claims.IssuedAt.Unix(),
		ExpiresAt: claims.ExpiresAt.Unix(),
	}, nil
}
