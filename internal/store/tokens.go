// ABOUTME: SQLite implementation for API token credential persistence
// ABOUTME: Stores scoped bearer tokens with atomic server-side usage counting

package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"
)

// CreateAPIToken inserts a new API token credential.
// Returns ErrDuplicateToken if the secret collides with an existing token.
func (s *SQLiteStore) CreateAPIToken(ctx context.Context, t *APIToken) error {
	scopesJSON, err := json.Marshal(t.Scopes)
	if err != nil {
		return fmt.Errorf("encoding scopes: %w", err)
	}

	query := `
		INSERT INTO api_tokens (
			id, user_id, name, token, token_preview, scopes,
			is_active, expires_at, created_at, last_used_at, call_count
		)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err = s.db.ExecContext(ctx, query,
		t.ID,
		t.UserID,
		t.Name,
		t.Token,
		t.TokenPreview,
		string(scopesJSON),
		t.IsActive,
		nullTime(t.ExpiresAt),
		t.CreatedAt.UTC().Format(time.RFC3339),
		nullTime(t.LastUsedAt),
		t.CallCount,
	)
	if err != nil {
		if isConstraintViolation(err) {
			return ErrDuplicateToken
		}
		return fmt.Errorf("inserting api token: %w", err)
	}

	s.logger.Debug("created api token", "id", t.ID, "user_id", t.UserID, "name", t.Name)
	return nil
}

// GetAPIToken retrieves a token by ID.
// Returns ErrNotFound if the token doesn't exist.
func (s *SQLiteStore) GetAPIToken(ctx context.Context, id string) (*APIToken, error) {
	row := s.db.QueryRowContext(ctx, selectAPIToken+` WHERE id = ?`, id)
	return scanAPIToken(row)
}

// GetAPITokenBySecret retrieves a token by its full secret string.
// Returns ErrNotFound if no token matches.
func (s *SQLiteStore) GetAPITokenBySecret(ctx context.Context, secret string) (*APIToken, error) {
	row := s.db.QueryRowContext(ctx, selectAPIToken+` WHERE token = ?`, secret)
	return scanAPIToken(row)
}

// ListAPITokens returns all tokens owned by a user, newest first
func (s *SQLiteStore) ListAPITokens(ctx context.Context, userID string) ([]*APIToken, error) {
	query := selectAPIToken + ` WHERE user_id = ? ORDER BY created_at DESC`

	rows, err := s.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("querying api tokens: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var tokens []*APIToken
	for rows.Next() {
		t, err := scanAPIToken(rows)
		if err != nil {
			return nil, err
		}
		tokens = append(tokens, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating api token rows: %w", err)
	}

	return tokens, nil
}

// SetAPITokenActive toggles a token's active flag.
// Returns ErrNotFound if the token doesn't exist.
func (s *SQLiteStore) SetAPITokenActive(ctx context.Context, id string, active bool) error {
	result, err := s.db.ExecContext(ctx, `UPDATE api_tokens SET is_active = ? WHERE id = ?`, active, id)
	if err != nil {
		return fmt.Errorf("updating api token active flag: %w", err)
	}
	return checkAffected(result)
}

// DeleteAPIToken permanently removes a token.
// Returns ErrNotFound if the token doesn't exist.
func (s *SQLiteStore) DeleteAPIToken(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM api_tokens WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting api token: %w", err)
	}
	return checkAffected(result)
}

// TouchAPIToken increments call_count and stamps last_used_at for a token.
// The increment runs server-side in a single UPDATE so concurrent
// authentications against the same token never lose counts.
func (s *SQLiteStore) TouchAPIToken(ctx context.Context, id string, usedAt time.Time) error {
	query := `
		UPDATE api_tokens
		SET call_count = call_count + 1, last_used_at = ?
		WHERE id = ?
	`

	result, err := s.db.ExecContext(ctx, query, usedAt.UTC().Format(time.RFC3339), id)
	if err != nil {
		return fmt.Errorf("touching api token: %w", err)
	}
	return checkAffected(result)
}

const selectAPIToken = `
	SELECT id, user_id, name, token, token_preview, scopes,
	       is_active, expires_at, created_at, last_used_at, call_count
	FROM api_tokens
`

func scanAPIToken(row scanner) (*APIToken, error) {
	var t APIToken
	var scopesJSON, createdAt string
	var expiresAt, lastUsedAt sql.NullString

	err := row.Scan(
		&t.ID,
		&t.UserID,
		&t.Name,
		&t.Token,
		&t.TokenPreview,
		&scopesJSON,
		&t.IsActive,
		&expiresAt,
		&createdAt,
		&lastUsedAt,
		&t.CallCount,
	)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scanning api token row: %w", err)
	}

	if err := json.Unmarshal([]byte(scopesJSON), &t.Scopes); err != nil {
		return nil, fmt.Errorf("decoding scopes: %w", err)
	}

	if t.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, err
	}
	if expiresAt.Valid {
		parsed, err := parseTime(expiresAt.String)
		if err != nil {
			return nil, err
		}
		t.ExpiresAt = &parsed
	}
	if lastUsedAt.Valid {
		parsed, err := parseTime(lastUsedAt.String)
		if err != nil {
			return nil, err
		}
		t.LastUsedAt = &parsed
	}

	return &t, nil
}

// nullTime converts an optional time to a NULL-able sql value
func nullTime(t *time.Time) sql.NullString {
	if t == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: t.UTC().Format(time.RFC3339), Valid: true}
}
