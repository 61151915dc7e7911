// ABOUTME: Token authority validating bearer credentials against ordered strategies
// ABOUTME: Legacy shared-secret first, then store-backed scoped tokens; fails closed

package auth

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/slugline-app/slugline-gateway/internal/store"
)

// WildcardScope grants access to every registered function.
const WildcardScope = "*"

// AuthResult is the outcome of credential validation. Both authenticator
// strategies yield this same shape so the ambiguity between them stays
// explicit in code rather than implied by header format.
type AuthResult struct {
	Valid   bool
	Scopes  []string
	TokenID string // empty for the legacy shared-secret path
	Legacy  bool
}

// invalid is the zero-value failure result.
var invalid = AuthResult{}

// Authenticator is one credential validation strategy. The boolean reports
// whether the strategy reached a decision; false means the next strategy in
// order should be consulted.
type Authenticator interface {
	Authenticate(ctx context.Context, credential string) (AuthResult, bool)
}

// Authority validates bearer credentials by trying its authenticators in order.
type Authority struct {
	strategies []Authenticator
	logger     *slog.Logger
}

// Config contains configuration options for the Authority.
type Config struct {
	Tokens store.TokenStore
	Logger *slog.Logger

	// LegacyAPIKey, when non-empty, enables the deprecated static
	// shared-secret path that grants wildcard scope.
	LegacyAPIKey string
}

// New creates an Authority with the legacy strategy (if configured) ahead of
// the store-backed token strategy.
func New(cfg Config) *Authority {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	var strategies []Authenticator
	if cfg.LegacyAPIKey != "" {
		strategies = append(strategies, &legacyAuthenticator{secret: cfg.LegacyAPIKey})
	}
	strategies = append(strategies, &tokenAuthenticator{
		tokens: cfg.Tokens,
		logger: logger,
	})

	return &Authority{
		strategies: strategies,
		logger:     logger,
	}
}

// ValidateRequest extracts the bearer credential from the request's
// Authorization header and validates it. A missing or malformed header is
// invalid unless the raw header value matches the legacy shared secret.
func (a *Authority) ValidateRequest(ctx context.Context, r *http.Request) AuthResult {
	raw := r.Header.Get("Authorization")
	token, ok := extractBearerToken(raw)
	if !ok {
		// A malformed header can still carry the bare legacy secret.
		token = raw
	}
	return a.ValidateCredential(ctx, token)
}

// ValidateCredential runs the credential through each strategy in order and
// returns the first decision reached. No decision means invalid.
func (a *Authority) ValidateCredential(ctx context.Context, credential string) AuthResult {
	if credential == "" {
		return invalid
	}

	for _, strategy := range a.strategies {
		if result, decided := strategy.Authenticate(ctx, credential); decided {
			return result
		}
	}
	return invalid
}

// Authorized reports whether the granted scopes permit invoking the named
// function: either the wildcard or the exact name must be present.
func Authorized(scopes []string, functionName string) bool {
	for _, s := range scopes {
		if s == WildcardScope || s == functionName {
			return true
		}
	}
	return false
}

// extractBearerToken extracts a bearer token from the Authorization header.
// The boolean reports whether the header was a well-formed "Bearer <token>".
func extractBearerToken(authHeader string) (string, bool) {
	if authHeader == "" {
		return "", false
	}
	if !strings.HasPrefix(authHeader, "Bearer ") {
		return "", false
	}
	token := strings.TrimPrefix(authHeader, "Bearer ")
	if token == "" {
		return "", false
	}
	return token, true
}

// legacyAuthenticator matches a static shared secret and grants wildcard
// scope. Deprecated: exists for backward compatibility with deployments that
// predate scoped tokens; treat as a lower-trust authentication method.
type legacyAuthenticator struct {
	secret string
}

func (l *legacyAuthenticator) Authenticate(_ context.Context, credential string) (AuthResult, bool) {
	if credential != l.secret {
		// Not ours; let the token strategy decide.
		return invalid, false
	}
	return AuthResult{
		Valid:  true,
		Scopes: []string{WildcardScope},
		Legacy: true,
	}, true
}

// tokenAuthenticator validates store-backed scoped API tokens. It is the
// terminal strategy: it always reaches a decision.
type tokenAuthenticator struct {
	tokens store.TokenStore
	logger *slog.Logger
}

func (t *tokenAuthenticator) Authenticate(ctx context.Context, credential string) (AuthResult, bool) {
	record, err := t.tokens.GetAPITokenBySecret(ctx, credential)
	if errors.Is(err, store.ErrNotFound) {
		return invalid, true
	}
	if err != nil {
		// Store unreachable or corrupt: fail closed.
		t.logger.Error("token lookup failed, failing closed", "error", err)
		return invalid, true
	}

	if !record.IsActive {
		return invalid, true
	}

	now := time.Now()
	if record.ExpiresAt != nil && record.ExpiresAt.Before(now) {
		return invalid, true
	}

	// Record usage: one atomic increment per successful authentication.
	// A failed touch is logged but does not invalidate the caller.
	if err := t.tokens.TouchAPIToken(ctx, record.ID, now); err != nil {
		t.logger.Warn("failed to record token usage", "token_id", record.ID, "error", err)
	}

	return AuthResult{
		Valid:   true,
		Scopes:  record.Scopes,
		TokenID: record.ID,
	}, true
}
