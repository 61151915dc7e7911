// ABOUTME: World module: typed worldbuilding category entries per project
// ABOUTME: Registers as world.* in the function catalogue

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

var worldKinds = []string{
	store.WorldKindLocation,
	store.WorldKindFaction,
	store.WorldKindLore,
	store.WorldKindItem,
	store.WorldKindCustom,
}

// WorldModule builds the worldbuilding function module over the given store.
func WorldModule(s store.WorldStore) registry.Module {
	h := &worldHandlers{store: s}
	return registry.Module{
		Key: "world",
		Functions: []registry.Function{
			{
				Name:        "createCategory",
				Description: "Create a worldbuilding category entry",
				Parameters: map[string]registry.ParamSpec{
					"project_id": {Type: "string", Description: "Parent project id", Required: true},
					"name":       {Type: "string", Description: "Category name", Required: true},
					"kind":       {Type: "string", Description: "Category kind", Enum: worldKinds},
					"content":    {Type: "string", Description: "Category body text"},
				},
				Handler: h.CreateCategory,
			},
			{
				Name:        "listCategories",
				Description: "List a project's worldbuilding categories",
				Parameters: map[string]registry.ParamSpec{
					"project_id": {Type: "string", Description: "Parent project id", Required: true},
					"kind":       {Type: "string", Description: "Filter by kind", Enum: worldKinds},
				},
				Handler: h.ListCategories,
			},
			{
				Name:        "updateCategory",
				Description: "Update a worldbuilding category's name or content",
				Parameters: map[string]registry.ParamSpec{
					"category_id": {Type: "string", Description: "Category id", Required: true},
					"name":        {Type: "string", Description: "New name"},
					"content":     {Type: "string", Description: "New body text"},
				},
				Handler: h.UpdateCategory,
			},
			{
				Name:        "deleteCategory",
				Description: "Delete a worldbuilding category",
				Parameters: map[string]registry.ParamSpec{
					"category_id": {Type: "string", Description: "Category id", Required: true},
				},
				Handler: h.DeleteCategory,
			},
		},
	}
}

type worldHandlers struct {
	store store.WorldStore
}

func (h *worldHandlers) CreateCategory(ctx context.Context, args map[string]any) (any, error) {
	projectID := stringArg(args, "project_id")
	if projectID == "" {
		return nil, errors.New("Project ID is required")
	}
	name := stringArg(args, "name")
	if name == "" {
		return nil, errors.New("Category name is required")
	}

	kind := stringArg(args, "kind")
	if kind == "" {
		kind = store.WorldKindCustom
	}
	if err := oneOf(kind, worldKinds...); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	category := &store.WorldCategory{
		ID:        uuid.New().String(),
		ProjectID: projectID,
		Name:      name,
		Kind:      kind,
		Content:   stringArg(args, "content"),
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := h.store.CreateWorldCategory(ctx, category); err != nil {
		return nil, err
	}
	return category, nil
}

func (h *worldHandlers) ListCategories(ctx context.Context, args map[string]any) (any, error) {
	projectID := stringArg(args, "project_id")
	if projectID == "" {
		return nil, errors.New("Project ID is required")
	}

	kind := stringArg(args, "kind")
	if kind != "" {
		if err := oneOf(kind, worldKinds...); err != nil {
			return nil, err
		}
	}

	categories, err := h.store.ListWorldCategories(ctx, projectID, kind)
	if err != nil {
		return nil, err
	}
	return map[string]any{"categories": categories, "count": len(categories)}, nil
}

func (h *worldHandlers) UpdateCategory(ctx context.Context, args map[string]any) (any, error) {
	id := stringArg(args, "category_id")
	if id == "" {
		return nil, errors.New("Category ID is required")
	}

	category, err := h.store.GetWorldCategory(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return nil, fmt.Errorf("Category %s not found", id)
	}
	if err != nil {
		return nil, err
	}

	if name := stringArg(args, "name"); name != "" {
		category.Name = name
	}
	if content := stringArg(args, "content"); content != "" {
		category.Content = content
	}
	category.UpdatedAt = time.Now().UTC()

	if err := h.store.UpdateWorldCategory(ctx, category); err != nil {
		return nil, err
	}
	return category, nil
}

func (h *worldHandlers) DeleteCategory(ctx context.Context, args map[string]any) (any, error) {
	id := stringArg(args, "category_id")
	if id == "" {
		return nil, errors.New("Category ID is required")
	}

	err := h.store.DeleteWorldCategory(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return nil, fmt.Errorf("Category %s not found", id)
	}
	if err != nil {
		return nil, err
	}
	return map[string]string{"id": id, "status": "deleted"}, nil
}
