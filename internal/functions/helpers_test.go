// ABOUTME: Shared test helpers for function module tests
// ABOUTME: Uses a real SQLite store for integration-level handler testing

package functions

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/slugline-app/slugline-gateway/internal/registry"
	"github.com/slugline-app/slugline-gateway/internal/store"
)

func newTestStore(t *testing.T) *store.SQLiteStore {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "functions-test.db")

	s, err := store.NewSQLiteStore(dbPath)
	if err != nil {
		t.Fatalf("creating test store: %v", err)
	}
	t.Cleanup(func() { s.Close() })

	return s
}

// findHandler locates a handler by short name within a module.
func findHandler(mod registry.Module, name string) registry.Handler {
	for _, fn := range mod.Functions {
		if fn.Name == name {
			return fn.Handler
		}
	}
	return nil
}

// mustCreateProject creates a project through the project handler and
// returns its id.
func mustCreateProject(t *testing.T, s *store.SQLiteStore, title string) string {
	t.Helper()
	handler := findHandler(ProjectModule(s), "createProject")
	result, err := handler(context.Background(), map[string]any{
		"title":  title,
		"format": "series",
	})
	if err != nil {
		t.Fatalf("creating project: %v", err)
	}
	return result.(*store.Project).ID
}

// mustCreateEpisode creates an episode under a project and returns its id.
func mustCreateEpisode(t *testing.T, s *store.SQLiteStore, projectID, title string) string {
	t.Helper()
	handler := findHandler(EpisodeModule(s), "createEpisode")
	result, err := handler(context.Background(), map[string]any{
		"project_id": projectID,
		"title":      title,
	})
	if err != nil {
		t.Fatalf("creating episode: %v", err)
	}
	return result.(*store.Episode).ID
}
