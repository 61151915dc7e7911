package auth

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIssue_ReturnsSecretOnce(t *testing.T) {
	s := setupTokenStore(t)
	svc := NewTokenService(s, nil)
	ctx := context.Background()

	issued, err := svc.Issue(ctx, "user-1", "writers-room", []string{"scene.createScene"}, 0)
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(issued.Token, "slg_"))
	assert.True(t, strings.HasPrefix(issued.TokenPreview, "..."))
	assert.Equal(t, issued.TokenPreview, "..."+issued.Token[len(issued.Token)-4:])
	assert.True(t, issued.IsActive)
	assert.Nil(t, issued.ExpiresAt)

	// Subsequent reads only ever expose the preview.
	listed, err := svc.List(ctx, "user-1")
	require.NoError(t, err)
	require.Len(t, listed, 1)
	assert.Empty(t, listed[0].Token)
	assert.Equal(t, issued.TokenPreview, listed[0].TokenPreview)
}

func TestIssue_UniqueSecrets(t *testing.T) {
	s := setupTokenStore(t)
	svc := NewTokenService(s, nil)
	ctx := context.Background()

	seen := make(map[string]bool)
	for i := 0; i < 5; i++ {
		issued, err := svc.Issue(ctx, "user-1", "tok", []string{"*"}, 0)
		require.NoError(t, err)
		assert.False(t, seen[issued.Token])
		seen[issued.Token] = true
	}
}

func TestIssue_WithTTL(t *testing.T) {
	s := setupTokenStore(t)
	svc := NewTokenService(s, nil)

	issued, err := svc.Issue(context.Background(), "user-1", "short-lived", []string{"*"}, time.Hour)
	require.NoError(t, err)

	require.NotNil(t, issued.ExpiresAt)
	assert.WithinDuration(t, time.Now().Add(time.Hour), *issued.ExpiresAt, time.Minute)
}

func TestIssue_Validation(t *testing.T) {
	s := setupTokenStore(t)
	svc := NewTokenService(s, nil)
	ctx := context.Background()

	_, err := svc.Issue(ctx, "", "tok", []string{"*"}, 0)
	assert.Error(t, err)

	_, err = svc.Issue(ctx, "user-1", "", []string{"*"}, 0)
	assert.Error(t, err)

	_, err = svc.Issue(ctx, "user-1", "tok", nil, 0)
	assert.ErrorIs(t, err, ErrEmptyScopes)
}

func TestToggle_FlipsActiveFlag(t *testing.T) {
	s := setupTokenStore(t)
	svc := NewTokenService(s, nil)
	ctx := context.Background()

	issued, err := svc.Issue(ctx, "user-1", "tok", []string{"*"}, 0)
	require.NoError(t, err)

	toggled, err := svc.Toggle(ctx, "user-1", issued.ID)
	require.NoError(t, err)
	assert.False(t, toggled.IsActive)
	assert.Empty(t, toggled.Token)

	// Deactivation is immediately enforced on validation.
	authority := New(Config{Tokens: s})
	assert.False(t, authority.ValidateCredential(ctx, issued.Token).Valid)

	restored, err := svc.Toggle(ctx, "user-1", issued.ID)
	require.NoError(t, err)
	assert.True(t, restored.IsActive)
	assert.True(t, authority.ValidateCredential(ctx, issued.Token).Valid)
}

func TestDelete_RemovesToken(t *testing.T) {
	s := setupTokenStore(t)
	svc := NewTokenService(s, nil)
	ctx := context.Background()

	issued, err := svc.Issue(ctx, "user-1", "tok", []string{"*"}, 0)
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, "user-1", issued.ID))

	listed, err := svc.List(ctx, "user-1")
	require.NoError(t, err)
	assert.Empty(t, listed)

	authority := New(Config{Tokens: s})
	assert.False(t, authority.ValidateCredential(ctx, issued.Token).Valid)
}

func TestOwnership_ForeignTokensInvisible(t *testing.T) {
	s := setupTokenStore(t)
	svc := NewTokenService(s, nil)
	ctx := context.Background()

	issued, err := svc.Issue(ctx, "user-1", "tok", []string{"*"}, 0)
	require.NoError(t, err)

	_, err = svc.Toggle(ctx, "user-2", issued.ID)
	assert.ErrorIs(t, err, ErrNotOwner)

	err = svc.Delete(ctx, "user-2", issued.ID)
	assert.ErrorIs(t, err, ErrNotOwner)

	// Missing tokens look identical to foreign ones.
	_, err = svc.Toggle(ctx, "user-1", "no-such-id")
	assert.ErrorIs(t, err, ErrNotOwner)
}
