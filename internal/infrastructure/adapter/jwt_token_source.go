package adapter

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var ErrTokenExpired = errors.New("access token expired, sign in again")

// JWTTokenSource hands out a fixed bearer token and refuses it locally once its exp claim has
// passed. The signature is not checked; that is the server's job.
type JWTTokenSource struct {
	token string
	now   func() time.Time
}

func NewJWTTokenSource(token string) *JWTTokenSource {
	return &JWTTokenSource{token: strings.TrimSpace(token), now: time.Now}
}

func (s *JWTTokenSource) Token() (string, error) {
	if s.token == "" {
		return "", errors.New("no access token configured")
	}

	expiresAt, err := s.ExpiresAt()
	if err != nil {
		return "", err
	}
	if !expiresAt.IsZero() && !s.now().Before(expiresAt) {
		return "", ErrTokenExpired
	}
	return s.token, nil
}

// ExpiresAt returns the zero time when the token carries no exp claim.
func (s *JWTTokenSource) ExpiresAt() (time.Time, error) {
	claims := jwt.RegisteredClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(s.token, &claims); err != nil {
		return time.Time{}, fmt.Errorf("failed to parse access token: %w", err)
	}
	if claims.ExpiresAt == nil {
		return time.Time{}, nil
	}
	return claims.ExpiresAt.Time, nil
}
