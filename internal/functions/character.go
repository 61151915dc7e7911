// ABOUTME: Character module: characters belong to projects
// ABOUTME: Registers as character.* in the function catalogue

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

// CharacterModule builds the character function module over the given store.
func CharacterModule(s store.CharacterStore) registry.Module {
	h := &characterHandlers{store: s}
	return registry.Module{
		Key: "character",
		Functions: []registry.Function{
			{
				Name:        "createCharacter",
				Description: "Create a character within a project",
				Parameters: map[string]registry.ParamSpec{
					"project_id": {Type: "string", Description: "Parent project id", Required: true},
					"name":       {Type: "string", Description: "Character name", Required: true},
					"role":       {Type: "string", Description: "Narrative role, e.g. protagonist"},
					"bio":        {Type: "string", Description: "Character biography"},
				},
				Handler: h.CreateCharacter,
			},
			{
				Name:        "listCharacters",
				Description: "List a project's characters",
				Parameters: map[string]registry.ParamSpec{
					"project_id": {Type: "string", Description: "Parent project id", Required: true},
				},
				Handler: h.ListCharacters,
			},
			{
				Name:        "updateCharacter",
				Description: "Update a character's name, role, or bio",
				Parameters: map[string]registry.ParamSpec{
					"character_id": {Type: "string", Description: "Character id", Required: true},
					"name":         {Type: "string", Description: "New name"},
					"role":         {Type: "string", Description: "New role"},
					"bio":          {Type: "string", Description: "New biography"},
				},
				Handler: h.UpdateCharacter,
			},
			{
				Name:        "deleteCharacter",
				Description: "Delete a character",
				Parameters: map[string]registry.ParamSpec{
					"character_id": {Type: "string", Description: "Character id", Required: true},
				},
				Handler: h.DeleteCharacter,
			},
		},
	}
}

type characterHandlers struct {
	store store.CharacterStore
}

func (h *characterHandlers) CreateCharacter(ctx context.Context, args map[string]any) (any, error) {
	projectID := stringArg(args, "project_id")
	if projectID == "" {
		return nil, errors.New("Project ID is required")
	}
	name := stringArg(args, "name")
	if name == "" {
		return nil, errors.New("Character name is required")
	}

	now := time.Now().UTC()
	character := &store.Character{
		ID:        uuid.New().String(),
		ProjectID: projectID,
		Name:      name,
		Role:      stringArg(args, "role"),
		Bio:       stringArg(args, "bio"),
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := h.store.CreateCharacter(ctx, character); err != nil {
		return nil, err
	}
	return character, nil
}

func (h *characterHandlers) ListCharacters(ctx context.Context, args map[string]any) (any, error) {
	projectID := stringArg(args, "project_id")
	if projectID == "" {
		return nil, errors.New("Project ID is required")
	}

	characters, err := h.store.ListCharacters(ctx, projectID)
	if err != nil {
		return nil, err
	}
	return map[string]any{"characters": characters, "count": len(characters)}, nil
}

func (h *characterHandlers) UpdateCharacter(ctx context.Context, args map[string]any) (any, error) {
	id := stringArg(args, "character_id")
	if id == "" {
		return nil, errors.New("Character ID is required")
	}

	character, err := h.store.GetCharacter(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return nil, fmt.Errorf("Character %s not found", id)
	}
	if err != nil {
		return nil, err
	}

	if name := stringArg(args, "name"); name != "" {
		character.Name = name
	}
	if role := stringArg(args, "role"); role != "" {
		character.Role = role
	}
	if bio := stringArg(args, "bio"); bio != "" {
		character.Bio = bio
	}
	character.UpdatedAt = time.Now().UTC()

	if err := h.store.UpdateCharacter(ctx, character); err != nil {
		return nil, err
	}
	return character, nil
}

func (h *characterHandlers) DeleteCharacter(ctx context.Context, args map[string]any) (any, error) {
	id := stringArg(args, "character_id")
	if id == "" {
		return nil, errors.New("Character ID is required")
	}

	err := h.store.DeleteCharacter(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return nil, fmt.Errorf("Character %s not found", id)
	}
	if err != nil {
		return nil, err
	}
	return map[string]string{"id": id, "status": "deleted"}, nil
}
