// ABOUTME: API token issuance and lifecycle management service
// ABOUTME: Secrets are returned exactly once; reads expose only a short preview

package auth

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/slugline-app/slugline-gateway/internal/store"
)

// ErrEmptyScopes is returned when issuance is attempted with no scopes.
var ErrEmptyScopes = errors.New("at least one scope is required")

// ErrNotOwner is returned when a caller manages a token they do not own.
var ErrNotOwner = errors.New("token not found")

// secretPrefix marks issued secrets so they are recognizable in logs and
// support requests without revealing anything.
const secretPrefix = "slg_"

// previewLength is how many trailing characters of the secret survive
// issuance for display purposes.
const previewLength = 4

// TokenService issues, lists, toggles, and deletes API tokens. All
// operations are scoped to the owning user: a caller can only see and manage
// their own tokens.
type TokenService struct {
	tokens store.TokenStore
	logger *slog.Logger
}

// NewTokenService creates a TokenService over the given token store.
func NewTokenService(tokens store.TokenStore, logger *slog.Logger) *TokenService {
	if logger == nil {
		logger = slog.Default()
	}
	return &TokenService{
		tokens: tokens,
		logger: logger,
	}
}

// Issue creates a new token for userID with the given scopes. The returned
// record carries the full secret in Token; this is the only time the secret
// is ever exposed. A zero ttl means the token never expires.
func (s *TokenService) Issue(ctx context.Context, userID, name string, scopes []string, ttl time.Duration) (*store.APIToken, error) {
	if userID == "" {
		return nil, errors.New("user id is required")
	}
	if name == "" {
		return nil, errors.New("token name is required")
	}
	if len(scopes) == 0 {
		return nil, ErrEmptyScopes
	}

	secret, err := newSecret()
	if err != nil {
		return nil, fmt.Errorf("generating token secret: %w", err)
	}

	now := time.Now().UTC()
	token := &store.APIToken{
		ID:           uuid.New().String(),
		UserID:       userID,
		Name:         name,
		Token:        secret,
		TokenPreview: "..." + secret[len(secret)-previewLength:],
		Scopes:       append([]string(nil), scopes...),
		IsActive:     true,
		CreatedAt:    now,
	}
	if ttl > 0 {
		expires := now.Add(ttl)
		token.ExpiresAt = &expires
	}

	if err := s.tokens.CreateAPIToken(ctx, token); err != nil {
		return nil, fmt.Errorf("storing token: %w", err)
	}

	s.logger.Info("issued api token",
		"token_id", token.ID,
		"user_id", userID,
		"name", name,
		"scopes", scopes,
	)
	return token, nil
}

// List returns the caller's tokens with secrets redacted: only the preview
// and metadata survive.
func (s *TokenService) List(ctx context.Context, userID string) ([]*store.APIToken, error) {
	tokens, err := s.tokens.ListAPITokens(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("listing tokens: %w", err)
	}

	for _, t := range tokens {
		t.Token = ""
	}
	return tokens, nil
}

// Toggle flips a token's active flag. Deactivation is reversible, unlike
// deletion. Returns ErrNotOwner if the token does not exist or belongs to a
// different user.
func (s *TokenService) Toggle(ctx context.Context, userID, tokenID string) (*store.APIToken, error) {
	token, err := s.ownedToken(ctx, userID, tokenID)
	if err != nil {
		return nil, err
	}

	if err := s.tokens.SetAPITokenActive(ctx, tokenID, !token.IsActive); err != nil {
		return nil, fmt.Errorf("toggling token: %w", err)
	}

	token.IsActive = !token.IsActive
	token.Token = ""

	s.logger.Info("toggled api token", "token_id", tokenID, "is_active", token.IsActive)
	return token, nil
}

// Delete permanently removes a token. Returns ErrNotOwner if the token does
// not exist or belongs to a different user.
func (s *TokenService) Delete(ctx context.Context, userID, tokenID string) error {
	if _, err := s.ownedToken(ctx, userID, tokenID); err != nil {
		return err
	}

	if err := s.tokens.DeleteAPIToken(ctx, tokenID); err != nil {
		return fmt.Errorf("deleting token: %w", err)
	}

	s.logger.Info("deleted api token", "token_id", tokenID)
	return nil
}

// ownedToken loads a token and verifies ownership. Missing and foreign
// tokens are indistinguishable to the caller.
func (s *TokenService) ownedToken(ctx context.Context, userID, tokenID string) (*store.APIToken, error) {
	token, err := s.tokens.GetAPIToken(ctx, tokenID)
	if errors.Is(err, store.ErrNotFound) {
		return nil, ErrNotOwner
	}
	if err != nil {
		return nil, fmt.Errorf("loading token: %w", err)
	}
	if token.UserID != userID {
		return nil, ErrNotOwner
	}
	return token, nil
}

// newSecret generates a 32-byte random bearer secret, base64url-encoded with
// a recognizable prefix.
func newSecret() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return secretPrefix + base64.RawURLEncoding.EncodeToString(buf), nil
}
