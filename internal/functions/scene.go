// ABOUTME: Scene module: scenes live within episodes and carry position ordering
// ABOUTME: Registers as scene.* in the function catalogue

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

// SceneModule builds the scene function module over the given store.
func SceneModule(s store.SceneStore) registry.Module {
	h := &sceneHandlers{store: s}
	return registry.Module{
		Key: "scene",
		Functions: []registry.Function{
			{
				Name:        "createScene",
				Description: "Create a scene within an episode",
				Parameters: map[string]registry.ParamSpec{
					"episode_id": {Type: "string", Description: "Parent episode id", Required: true},
					"title":      {Type: "string", Description: "Scene title", Required: true},
					"slugline":   {Type: "string", Description: "Scene heading, e.g. INT. WAREHOUSE - NIGHT"},
					"body":       {Type: "string", Description: "Scene text"},
					"position":   {Type: "integer", Description: "Ordering position; appended to the end when omitted"},
				},
				Handler: h.CreateScene,
			},
			{
				Name:        "getScene",
				Description: "Fetch a scene by id",
				Parameters: map[string]registry.ParamSpec{
					"scene_id": {Type: "string", Description: "Scene id", Required: true},
				},
				Handler: h.GetScene,
			},
			{
				Name:        "listScenes",
				Description: "List an episode's scenes in position order",
				Parameters: map[string]registry.ParamSpec{
					"episode_id": {Type: "string", Description: "Parent episode id", Required: true},
				},
				Handler: h.ListScenes,
			},
			{
				Name:        "updateScene",
				Description: "Update a scene's title, slugline, body, or position",
				Parameters: map[string]registry.ParamSpec{
					"scene_id": {Type: "string", Description: "Scene id", Required: true},
					"title":    {Type: "string", Description: "New title"},
					"slugline": {Type: "string", Description: "New scene heading"},
					"body":     {Type: "string", Description: "New scene text"},
					"position": {Type: "integer", Description: "New ordering position"},
				},
				Handler: h.UpdateScene,
			},
			{
				Name:        "deleteScene",
				Description: "Delete a scene",
				Parameters: map[string]registry.ParamSpec{
					"scene_id": {Type: "string", Description: "Scene id", Required: true},
				},
				Handler: h.DeleteScene,
			},
		},
	}
}

type sceneHandlers struct {
	store store.SceneStore
}

func (h *sceneHandlers) CreateScene(ctx context.Context, args map[string]any) (any, error) {
	episodeID := stringArg(args, "episode_id")
	if episodeID == "" {
		return nil, errors.New("Episode ID is required")
	}
	title := stringArg(args, "title")
	if title == "" {
		return nil, errors.New("Scene title is required")
	}

	position, hasPosition := intArg(args, "position")
	if !hasPosition {
		existing, err := h.store.ListScenes(ctx, episodeID)
		if err != nil {
			return nil, err
		}
		position = len(existing) + 1
	}

	now := time.Now().UTC()
	scene := &store.Scene{
		ID:        uuid.New().String(),
		EpisodeID: episodeID,
		Title:     title,
		Slugline:  stringArg(args, "slugline"),
		Body:      stringArg(args, "body"),
		Position:  position,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := h.store.CreateScene(ctx, scene); err != nil {
		return nil, err
	}
	return scene, nil
}

func (h *sceneHandlers) GetScene(ctx context.Context, args map[string]any) (any, error) {
	id := stringArg(args, "scene_id")
	if id == "" {
		return nil, errors.New("Scene ID is required")
	}

	scene, err := h.store.GetScene(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return nil, fmt.Errorf("Scene %s not found", id)
	}
	if err != nil {
		return nil, err
	}
	return scene, nil
}

func (h *sceneHandlers) ListScenes(ctx context.Context, args map[string]any) (any, error) {
	episodeID := stringArg(args, "episode_id")
	if episodeID == "" {
		return nil, errors.New("Episode ID is required")
	}

	scenes, err := h.store.ListScenes(ctx, episodeID)
	if err != nil {
		return nil, err
	}
	return map[string]any{"scenes": scenes, "count": len(scenes)}, nil
}

func (h *sceneHandlers) UpdateScene(ctx context.Context, args map[string]any) (any, error) {
	id := stringArg(args, "scene_id")
	if id == "" {
		return nil, errors.New("Scene ID is required")
	}

	scene, err := h.store.GetScene(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return nil, fmt.Errorf("Scene %s not found", id)
	}
	if err != nil {
		return nil, err
	}

	if title := stringArg(args, "title"); title != "" {
		scene.Title = title
	}
	if slugline := stringArg(args, "slugline"); slugline != "" {
		scene.Slugline = slugline
	}
	if body := stringArg(args, "body"); body != "" {
		scene.Body = body
	}
	if position, ok := intArg(args, "position"); ok {
		scene.Position = position
	}
	scene.UpdatedAt = time.Now().UTC()

	if err := h.store.UpdateScene(ctx, scene); err != nil {
		return nil, err
	}
	return scene, nil
}

func (h *sceneHandlers) DeleteScene(ctx context.Context, args map[string]any) (any, error) {
	id := stringArg(args, "scene_id")
	if id == "" {
		return nil, errors.New("Scene ID is required")
	}

	err := h.store.DeleteScene(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return nil, fmt.Errorf("Scene %s not found", id)
	}
	if err != nil {
		return nil, err
	}
	return map[string]string{"id": id, "status": "deleted"}, nil
}
