// Package auth issues and validates the bearer tokens that protect the
// admin API. Tokens are operator-scoped: they name the operator in the
// subject claim and carry no other identity.
package auth

import (
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// TokenExpiry is how long operator tokens are valid. Admin sessions are
// short-lived; operators mint a fresh token per session.
const TokenExpiry = 12 * time.Hour

// Predefined token errors.
var (
	ErrInvalidToken = errors.New("invalid token")
	ErrTokenExpired = errors.New("token has expired")
)

// Claims represents the claims in operator tokens.
type Claims struct {
	jwt.RegisteredClaims
}

// Service handles operator token creation and validation.
type Service struct {
	signingKey []byte
	issuer     string
	audience   string
}

// Config holds configuration for the token service.
type Config struct {
	// SigningKey is the secret key used to sign tokens. Required.
	SigningKey string

	// Issuer is the issuer claim for tokens.
	Issuer string

	// Audience is the audience claim for tokens.
	Audience string
}

// NewService creates a new token service.
func NewService(cfg Config) *Service {
	return &Service{
		signingKey: []byte(cfg.SigningKey),
		issuer:     cfg.Issuer,
		audience:   cfg.Audience,
	}
}

// GenerateToken creates a signed token for the named operator.
func (s *Service) GenerateToken(operator string) (string, time.Time, error) {
	now := time.Now()
	expiresAt := now.Add(TokenExpiry)

	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    s.issuer,
			Subject:   operator,
			Audience:  jwt.ClaimStrings{s.audience},
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			NotBefore: jwt.NewNumericDate(now),
			ID:        generateTokenID(),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(s.signingKey)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("signing token: %w", err)
	}

	return tokenString, expiresAt, nil
}

// ValidateToken validates a token and returns the operator it names.
func (s *Service) ValidateToken(tokenString string) (string, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return s.signingKey, nil
	}, jwt.WithValidMethods([]string{"HS256"}),
		jwt.WithIssuer(s.issuer),
		jwt.WithAudience(s.audience),
		jwt.WithExpirationRequired(),
	)

	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return "", ErrTokenExpired
		}
		return "", fmt.Errorf("%w: %s", ErrInvalidToken, err.Error())
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return "", ErrInvalidToken
	}

	return claims.Subject, nil
}

// generateTokenID generates a unique token ID.
func generateTokenID() string {
	bytes := make([]byte, 16)
	if _, err := rand.Read(bytes); err != nil {
		return ""
	}
	return base64.RawURLEncoding.EncodeToString(bytes)
}
