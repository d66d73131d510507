package auth

import (
	"context"
	"time"
)

// MockJWTService is a JWTService whose behaviour is supplied by function
// fields. Nil fields fall back to the fixed values.
type MockJWTService struct {
	GenerateTokenFunc func(ctx context.Context, subject string, lifetime time.Duration) (string, error)
	ValidateTokenFunc func(ctx context.Context, tokenString string) (*Claims, error)

	Token           string
	TokenError      error
	Claims          *Claims
	ValidationError error
}

var _ JWTService = (*MockJWTService)(nil)

// GenerateToken implements the JWTService.GenerateToken method.
func (m *MockJWTService) GenerateToken(ctx context.Context, subject string, lifetime time.Duration) (string, error) {
	if m.GenerateTokenFunc != nil {
		return m.GenerateTokenFunc(ctx, subject, lifetime)
	}
	return m.Token, m.TokenError
}

// ValidateToken implements the JWTService.ValidateToken method.
func (m *MockJWTService) ValidateToken(ctx context.Context, tokenString string) (*Claims, error) {
	if m.ValidateTokenFunc != nil {
		return m.ValidateTokenFunc(ctx, tokenString)
	}
	return m.Claims, m.ValidationError
}
