package services

import (
	"crypto/rsa"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"bank-gateway/internal/models"

	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrInvalidToken = errors.New("invalid token")
	ErrEmptyToken   = errors.New("empty token")
)

// TokenService validates and decodes bearer credentials issued by the
// identity authority. The gateway never signs tokens itself; it only holds
// the authority's public key, read-only after startup.
type TokenService struct {
	publicKey *rsa.PublicKey
}

// NewTokenService creates a token service from the authority's public key
func NewTokenService(publicKey *rsa.PublicKey) TokenVerifier {
	return &TokenService{publicKey: publicKey}
}

// Verify reports whether the token's signature validates against the known
// public key and the token is unexpired. Any decoding error, signature
// mismatch, or expiry yields false. An absent token is treated identically
// to an invalid one: every state-changing or personalized operation fails
// closed on false.
func (ts *TokenService) Verify(tokenString string) bool {
	if tokenString == "" {
		return false
	}

	token, err := jwt.ParseWithClaims(tokenString, &models.IdentityClaims{}, ts.keyFunc)
	if err != nil {
		slog.Debug("token verification failed", "error", err)
		return false
	}

	return token.Valid
}

// DecodeUnverified parses claims without checking the signature. Display
// use only; a prior Verify in the same request is what establishes trust.
// Never authorize an action from these claims.
func (ts *TokenService) DecodeUnverified(tokenString string) (*models.IdentityClaims, error) {
	if tokenString == "" {
		return nil, ErrEmptyToken
	}

	parser := jwt.NewParser()
	token, _, err := parser.ParseUnverified(tokenString, &models.IdentityClaims{})
	if err != nil {
		return nil, fmt.Errorf("failed to parse token: %w", err)
	}

	claims, ok := token.Claims.(*models.IdentityClaims)
	if !ok {
		return nil, ErrInvalidToken
	}

	return claims, nil
}

// CookieMaxAge returns exp - iat of the token, sizing the client-side
// cookie lifetime exactly to the credential's validity window.
func (ts *TokenService) CookieMaxAge(tokenString string) (time.Duration, error) {
	claims, err := ts.DecodeUnverified(tokenString)
	if err != nil {
		return 0, err
	}

	if claims.ExpiresAt == nil || claims.IssuedAt == nil {
		return 0, ErrInvalidToken
	}

	return claims.ExpiresAt.Time.Sub(claims.IssuedAt.Time), nil
}

func (ts *TokenService) keyFunc(token *jwt.Token) (interface{}, error) {
	// RSA only: an explicit method allow-list prevents algorithm downgrade
	if _, ok := token.Method.(*jwt.SigningMethodRSA); !ok {
		return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
	}
	return ts.publicKey, nil
}
