// ABOUTME: JWT session verification for the token-management API
// ABOUTME: Uses HS256 signing with configurable secret

package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Session errors
var (
	ErrInvalidSession = errors.New("invalid session token")
	ErrExpiredSession = errors.New("session token expired")
	ErrMissingClaim   = errors.New("missing required claim")
)

// SessionVerifier validates admin session tokens and extracts the user ID.
type SessionVerifier interface {
	Verify(tokenString string) (userID string, err error)
}

// JWTSessions implements SessionVerifier using HS256 signed JWTs.
type JWTSessions struct {
	secret []byte
}

// NewJWTSessions creates a session signer/verifier with the given secret.
func NewJWTSessions(secret []byte) *JWTSessions {
	return &JWTSessions{secret: secret}
}

// Verify validates the token and extracts the user ID from the "sub" claim.
func (s *JWTSessions) Verify(tokenString string) (string, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		// Validate the signing method is HS256
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.secret, nil
	})

	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return "", ErrExpiredSession
		}
		return "", fmt.Errorf("%w: %v", ErrInvalidSession, err)
	}

	if !token.Valid {
		return "", ErrInvalidSession
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return "", ErrInvalidSession
	}

	sub, ok := claims["sub"].(string)
	if !ok || sub == "" {
		return "", fmt.Errorf("%w: sub", ErrMissingClaim)
	}

	return sub, nil
}

// Generate creates a new session token for the given user ID with expiration.
func (s *JWTSessions) Generate(userID string, expiresIn time.Duration) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"sub": userID,
		"iat": now.Unix(),
		"exp": now.Add(expiresIn).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secret)
}
