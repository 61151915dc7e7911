package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setupTestStore creates a temporary SQLite store for testing.
func setupTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "test.db")

	store, err := NewSQLiteStore(dbPath)
	require.NoError(t, err)

	t.Cleanup(func() {
		store.Close()
	})

	return store
}

func now() time.Time {
	return time.Now().UTC().Truncate(time.Second)
}

func createTestProject(t *testing.T, s *SQLiteStore, id string) *Project {
	t.Helper()
	p := &Project{
		ID:        id,
		OwnerID:   "user-1",
		Title:     "Cold Open",
		Format:    ProjectFormatSeries,
		CreatedAt: now(),
		UpdatedAt: now(),
	}
	require.NoError(t, s.CreateProject(context.Background(), p))
	return p
}

func TestStore_ProjectCRUD(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	createTestProject(t, s, "proj-1")

	retrieved, err := s.GetProject(ctx, "proj-1")
	require.NoError(t, err)
	assert.Equal(t, "Cold Open", retrieved.Title)
	assert.Equal(t, ProjectFormatSeries, retrieved.Format)

	retrieved.Title = "Warm Open"
	retrieved.Description = "A heist gone sideways"
	require.NoError(t, s.UpdateProject(ctx, retrieved))

	updated, err := s.GetProject(ctx, "proj-1")
	require.NoError(t, err)
	assert.Equal(t, "Warm Open", updated.Title)
	assert.Equal(t, "A heist gone sideways", updated.Description)

	require.NoError(t, s.DeleteProject(ctx, "proj-1"))

	_, err = s.GetProject(ctx, "proj-1")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestStore_GetProject_NotFound(t *testing.T) {
	s := setupTestStore(t)

	_, err := s.GetProject(context.Background(), "nope")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestStore_ListProjects_FilterByOwner(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	for _, p := range []*Project{
		{ID: "p1", OwnerID: "user-1", Title: "One", CreatedAt: now(), UpdatedAt: now()},
		{ID: "p2", OwnerID: "user-2", Title: "Two", CreatedAt: now(), UpdatedAt: now()},
	} {
		require.NoError(t, s.CreateProject(ctx, p))
	}

	all, err := s.ListProjects(ctx, "")
	require.NoError(t, err)
	assert.Len(t, all, 2)

	mine, err := s.ListProjects(ctx, "user-1")
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, "p1", mine[0].ID)
}

func TestStore_SceneOrdering(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	createTestProject(t, s, "proj-1")
	require.NoError(t, s.CreateEpisode(ctx, &Episode{
		ID: "ep-1", ProjectID: "proj-1", Title: "Pilot", Number: 1,
		CreatedAt: now(), UpdatedAt: now(),
	}))

	for i, id := range []string{"sc-c", "sc-a", "sc-b"} {
		require.NoError(t, s.CreateScene(ctx, &Scene{
			ID:        id,
			EpisodeID: "ep-1",
			Title:     "Scene " + id,
			Position:  3 - i, // insert in reverse position order
			CreatedAt: now(),
			UpdatedAt: now(),
		}))
	}

	scenes, err := s.ListScenes(ctx, "ep-1")
	require.NoError(t, err)
	require.Len(t, scenes, 3)
	assert.Equal(t, "sc-b", scenes[0].ID)
	assert.Equal(t, "sc-a", scenes[1].ID)
	assert.Equal(t, "sc-c", scenes[2].ID)
}

func TestStore_SceneUpdateAndDelete(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	sc := &Scene{
		ID: "sc-1", EpisodeID: "ep-1", Title: "Opening",
		Slugline: "INT. WAREHOUSE - NIGHT", Position: 1,
		CreatedAt: now(), UpdatedAt: now(),
	}
	require.NoError(t, s.CreateScene(ctx, sc))

	sc.Body = "The crew waits in darkness."
	require.NoError(t, s.UpdateScene(ctx, sc))

	got, err := s.GetScene(ctx, "sc-1")
	require.NoError(t, err)
	assert.Equal(t, "The crew waits in darkness.", got.Body)
	assert.Equal(t, "INT. WAREHOUSE - NIGHT", got.Slugline)

	require.NoError(t, s.DeleteScene(ctx, "sc-1"))
	assert.ErrorIs(t, s.DeleteScene(ctx, "sc-1"), ErrNotFound)
}

func TestStore_DeleteProjectCascades(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	createTestProject(t, s, "proj-1")
	require.NoError(t, s.CreateEpisode(ctx, &Episode{
		ID: "ep-1", ProjectID: "proj-1", Title: "Pilot", Number: 1,
		CreatedAt: now(), UpdatedAt: now(),
	}))
	require.NoError(t, s.CreateScene(ctx, &Scene{
		ID: "sc-1", EpisodeID: "ep-1", Title: "Opening", Position: 1,
		CreatedAt: now(), UpdatedAt: now(),
	}))
	require.NoError(t, s.CreateCharacter(ctx, &Character{
		ID: "ch-1", ProjectID: "proj-1", Name: "Vera",
		CreatedAt: now(), UpdatedAt: now(),
	}))
	require.NoError(t, s.CreateWorldCategory(ctx, &WorldCategory{
		ID: "wc-1", ProjectID: "proj-1", Name: "The Docks", Kind: WorldKindLocation,
		CreatedAt: now(), UpdatedAt: now(),
	}))

	require.NoError(t, s.DeleteProject(ctx, "proj-1"))

	_, err := s.GetEpisode(ctx, "ep-1")
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = s.GetScene(ctx, "sc-1")
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = s.GetCharacter(ctx, "ch-1")
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = s.GetWorldCategory(ctx, "wc-1")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestStore_WorldCategoryKindFilter(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	for _, w := range []*WorldCategory{
		{ID: "w1", ProjectID: "p1", Name: "The Docks", Kind: WorldKindLocation, CreatedAt: now(), UpdatedAt: now()},
		{ID: "w2", ProjectID: "p1", Name: "Harbor Guild", Kind: WorldKindFaction, CreatedAt: now(), UpdatedAt: now()},
		{ID: "w3", ProjectID: "p1", Name: "Old Lighthouse", Kind: WorldKindLocation, CreatedAt: now(), UpdatedAt: now()},
	} {
		require.NoError(t, s.CreateWorldCategory(ctx, w))
	}

	all, err := s.ListWorldCategories(ctx, "p1", "")
	require.NoError(t, err)
	assert.Len(t, all, 3)

	locations, err := s.ListWorldCategories(ctx, "p1", WorldKindLocation)
	require.NoError(t, err)
	require.Len(t, locations, 2)
	for _, w := range locations {
		assert.Equal(t, WorldKindLocation, w.Kind)
	}
}

func TestStore_Users(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	u := &User{ID: "u1", Email: "vera@example.com", DisplayName: "Vera", CreatedAt: now()}
	require.NoError(t, s.CreateUser(ctx, u))

	got, err := s.GetUser(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, "vera@example.com", got.Email)

	_, err = s.GetUser(ctx, "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}
