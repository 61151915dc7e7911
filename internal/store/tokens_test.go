package store

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createTestToken(t *testing.T, s *SQLiteStore, id, secret string) *APIToken {
	t.Helper()
	tok := &APIToken{
		ID:           id,
		UserID:       "user-1",
		Name:         "writers-room",
		Token:        secret,
		TokenPreview: "..." + secret[len(secret)-4:],
		Scopes:       []string{"scene.createScene", "scene.listScenes"},
		IsActive:     true,
		CreatedAt:    now(),
	}
	require.NoError(t, s.CreateAPIToken(context.Background(), tok))
	return tok
}

func TestStore_APITokenCRUD(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	createTestToken(t, s, "tok-1", "slg_secret_abcd")

	byID, err := s.GetAPIToken(ctx, "tok-1")
	require.NoError(t, err)
	assert.Equal(t, "writers-room", byID.Name)
	assert.Equal(t, "...abcd", byID.TokenPreview)
	assert.Equal(t, []string{"scene.createScene", "scene.listScenes"}, byID.Scopes)
	assert.True(t, byID.IsActive)
	assert.Zero(t, byID.CallCount)
	assert.Nil(t, byID.LastUsedAt)
	assert.Nil(t, byID.ExpiresAt)

	bySecret, err := s.GetAPITokenBySecret(ctx, "slg_secret_abcd")
	require.NoError(t, err)
	assert.Equal(t, "tok-1", bySecret.ID)

	require.NoError(t, s.SetAPITokenActive(ctx, "tok-1", false))
	toggled, err := s.GetAPIToken(ctx, "tok-1")
	require.NoError(t, err)
	assert.False(t, toggled.IsActive)

	require.NoError(t, s.DeleteAPIToken(ctx, "tok-1"))
	_, err = s.GetAPIToken(ctx, "tok-1")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestStore_APITokenExpiry(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	expires := now().Add(24 * time.Hour)
	tok := &APIToken{
		ID:        "tok-exp",
		UserID:    "user-1",
		Name:      "short-lived",
		Token:     "slg_secret_wxyz",
		Scopes:    []string{"*"},
		IsActive:  true,
		ExpiresAt: &expires,
		CreatedAt: now(),
	}
	require.NoError(t, s.CreateAPIToken(ctx, tok))

	got, err := s.GetAPIToken(ctx, "tok-exp")
	require.NoError(t, err)
	require.NotNil(t, got.ExpiresAt)
	assert.True(t, got.ExpiresAt.Equal(expires))
}

func TestStore_DuplicateTokenSecret(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	createTestToken(t, s, "tok-1", "slg_secret_dupe")

	dupe := &APIToken{
		ID:        "tok-2",
		UserID:    "user-2",
		Name:      "other",
		Token:     "slg_secret_dupe",
		Scopes:    []string{"*"},
		IsActive:  true,
		CreatedAt: now(),
	}
	err := s.CreateAPIToken(ctx, dupe)
	assert.ErrorIs(t, err, ErrDuplicateToken)
}

func TestStore_ListAPITokens_FilterByUser(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		tok := &APIToken{
			ID:        fmt.Sprintf("tok-%d", i),
			UserID:    "user-1",
			Name:      fmt.Sprintf("token-%d", i),
			Token:     fmt.Sprintf("slg_secret_%04d", i),
			Scopes:    []string{"*"},
			IsActive:  true,
			CreatedAt: now(),
		}
		require.NoError(t, s.CreateAPIToken(ctx, tok))
	}
	createTestToken(t, s, "tok-other", "slg_secret_other")

	mine, err := s.ListAPITokens(ctx, "user-1")
	require.NoError(t, err)
	assert.Len(t, mine, 4)

	none, err := s.ListAPITokens(ctx, "user-9")
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestStore_TouchAPIToken(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	createTestToken(t, s, "tok-1", "slg_secret_abcd")

	usedAt := now()
	require.NoError(t, s.TouchAPIToken(ctx, "tok-1", usedAt))
	require.NoError(t, s.TouchAPIToken(ctx, "tok-1", usedAt.Add(time.Minute)))

	got, err := s.GetAPIToken(ctx, "tok-1")
	require.NoError(t, err)
	assert.Equal(t, int64(2), got.CallCount)
	require.NotNil(t, got.LastUsedAt)
	assert.True(t, got.LastUsedAt.Equal(usedAt.Add(time.Minute)))
}

func TestStore_TouchAPIToken_NotFound(t *testing.T) {
	s := setupTestStore(t)

	err := s.TouchAPIToken(context.Background(), "missing", now())
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestStore_TouchAPIToken_ConcurrentIncrements(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	createTestToken(t, s, "tok-1", "slg_secret_abcd")

	const workers = 20
	var wg sync.WaitGroup
	errs := make(chan error, workers)

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			errs <- s.TouchAPIToken(ctx, "tok-1", time.Now().UTC())
		}()
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		require.NoError(t, err)
	}

	got, err := s.GetAPIToken(ctx, "tok-1")
	require.NoError(t, err)
	assert.Equal(t, int64(workers), got.CallCount)
}
