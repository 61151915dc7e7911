// ABOUTME: Episode module: episodes group scenes within a project
// ABOUTME: Registers as episode.* in the function catalogue

package functions

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/slugline-app/slugline-gateway/internal/registry"
	"github.com/slugline-app/slugline-gateway/internal/store"
)

// EpisodeModule builds the episode function module over the given store.
func EpisodeModule(s store.ProjectStore) registry.Module {
	h := &episodeHandlers{store: s}
	return registry.Module{
		Key: "episode",
		Functions: []registry.Function{
			{
				Name:        "createEpisode",
				Description: "Create an episode within a project",
				Parameters: map[string]registry.ParamSpec{
					"project_id": {Type: "string", Description: "Parent project id", Required: true},
					"title":      {Type: "string", Description: "Episode title", Required: true},
					"number":     {Type: "integer", Description: "Episode number within the project"},
				},
				Handler: h.CreateEpisode,
			},
			{
				Name:        "listEpisodes",
				Description: "List a project's episodes in order",
				Parameters: map[string]registry.ParamSpec{
					"project_id": {Type: "string", Description: "Parent project id", Required: true},
				},
				Handler: h.ListEpisodes,
			},
			{
				Name:        "deleteEpisode",
				Description: "Delete an episode and its scenes",
				Parameters: map[string]registry.ParamSpec{
					"episode_id": {Type: "string", Description: "Episode id", Required: true},
				},
				Handler: h.DeleteEpisode,
			},
		},
	}
}

type episodeHandlers struct {
	store store.ProjectStore
}

func (h *episodeHandlers) CreateEpisode(ctx context.Context, args map[string]any) (any, error) {
	projectID := stringArg(args, "project_id")
	if projectID == "" {
		return nil, errors.New("Project ID is required")
	}
	title := stringArg(args, "title")
	if title == "" {
		return nil, errors.New("Episode title is required")
	}

	if _, err := h.store.GetProject(ctx, projectID); errors.Is(err, store.ErrNotFound) {
		return nil, fmt.Errorf("Project %s not found", projectID)
	} else if err != nil {
		return nil, err
	}

	number, hasNumber := intArg(args, "number")
	if !hasNumber {
		existing, err := h.store.ListEpisodes(ctx, projectID)
		if err != nil {
			return nil, err
		}
		number = len(existing) + 1
	}

	now := time.Now().UTC()
	episode := &store.Episode{
		ID:        uuid.New().String(),
		ProjectID: projectID,
		Title:     title,
		Number:    number,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := h.store.CreateEpisode(ctx, episode); err != nil {
		return nil, err
	}
	return episode, nil
}

func (h *episodeHandlers) ListEpisodes(ctx context.Context, args map[string]any) (any, error) {
	projectID := stringArg(args, "project_id")
	if projectID == "" {
		return nil, errors.New("Project ID is required")
	}

	episodes, err := h.store.ListEpisodes(ctx, projectID)
	if err != nil {
		return nil, err
	}
	return map[string]any{"episodes": episodes, "count": len(episodes)}, nil
}

func (h *episodeHandlers) DeleteEpisode(ctx context.Context, args map[string]any) (any, error) {
	id := stringArg(args, "episode_id")
	if id == "" {
		return nil, errors.New("Episode ID is required")
	}

	err := h.store.DeleteEpisode(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return nil, fmt.Errorf("Episode %s not found", id)
	}
	if err != nil {
		return nil, err
	}
	return map[string]string{"id": id, "status": "deleted"}, nil
}
