// ABOUTME: Project module: CRUD over screenwriting projects
// ABOUTME: Registers as project.* in the function catalogue

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

// ProjectModule builds the project function module over the given store.
func ProjectModule(s store.ProjectStore) registry.Module {
	h := &projectHandlers{store: s}
	return registry.Module{
		Key: "project",
		Functions: []registry.Function{
			{
				Name:        "createProject",
				Description: "Create a new screenwriting project",
				Parameters: map[string]registry.ParamSpec{
					"title":       {Type: "string", Description: "Project title", Required: true},
					"description": {Type: "string", Description: "Short project description"},
					"format":      {Type: "string", Description: "Project format", Enum: []string{store.ProjectFormatFilm, store.ProjectFormatSeries, store.ProjectFormatShort}},
					"user_id":     {Type: "string", Description: "Owning user id"},
				},
				Handler: h.CreateProject,
			},
			{
				Name:        "getProject",
				Description: "Fetch a project by id",
				Parameters: map[string]registry.ParamSpec{
					"project_id": {Type: "string", Description: "Project id", Required: true},
				},
				Handler: h.GetProject,
			},
			{
				Name:        "listProjects",
				Description: "List projects, optionally filtered by owner",
				Parameters: map[string]registry.ParamSpec{
					"user_id": {Type: "string", Description: "Filter by owning user id"},
				},
				Handler: h.ListProjects,
			},
			{
				Name:        "updateProject",
				Description: "Update a project's title, description, or format",
				Parameters: map[string]registry.ParamSpec{
					"project_id":  {Type: "string", Description: "Project id", Required: true},
					"title":       {Type: "string", Description: "New title"},
					"description": {Type: "string", Description: "New description"},
					"format":      {Type: "string", Description: "New format", Enum: []string{store.ProjectFormatFilm, store.ProjectFormatSeries, store.ProjectFormatShort}},
				},
				Handler: h.UpdateProject,
			},
			{
				Name:        "deleteProject",
				Description: "Delete a project and everything in it",
				Parameters: map[string]registry.ParamSpec{
					"project_id": {Type: "string", Description: "Project id", Required: true},
				},
				Handler: h.DeleteProject,
			},
		},
	}
}

type projectHandlers struct {
	store store.ProjectStore
}

func (h *projectHandlers) CreateProject(ctx context.Context, args map[string]any) (any, error) {
	title := stringArg(args, "title")
	if title == "" {
		return nil, errors.New("Project title is required")
	}

	format := stringArg(args, "format")
	if format != "" {
		if err := oneOf(format, store.ProjectFormatFilm, store.ProjectFormatSeries, store.ProjectFormatShort); err != nil {
			return nil, err
		}
	}

	now := time.Now().UTC()
	project := &store.Project{
		ID:          uuid.New().String(),
		OwnerID:     stringArg(args, "user_id"),
		Title:       title,
		Description: stringArg(args, "description"),
		Format:      format,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := h.store.CreateProject(ctx, project); err != nil {
		return nil, err
	}
	return project, nil
}

func (h *projectHandlers) GetProject(ctx context.Context, args map[string]any) (any, error) {
	id := stringArg(args, "project_id")
	if id == "" {
		return nil, errors.New("Project ID is required")
	}

	project, err := h.store.GetProject(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return nil, fmt.Errorf("Project %s not found", id)
	}
	if err != nil {
		return nil, err
	}
	return project, nil
}

func (h *projectHandlers) ListProjects(ctx context.Context, args map[string]any) (any, error) {
	projects, err := h.store.ListProjects(ctx, stringArg(args, "user_id"))
	if err != nil {
		return nil, err
	}
	return map[string]any{"projects": projects, "count": len(projects)}, nil
}

func (h *projectHandlers) UpdateProject(ctx context.Context, args map[string]any) (any, error) {
	id := stringArg(args, "project_id")
	if id == "" {
		return nil, errors.New("Project ID is required")
	}

	project, err := h.store.GetProject(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return nil, fmt.Errorf("Project %s not found", id)
	}
	if err != nil {
		return nil, err
	}

	// Only update fields that were provided
	if title := stringArg(args, "title"); title != "" {
		project.Title = title
	}
	if desc := stringArg(args, "description"); desc != "" {
		project.Description = desc
	}
	if format := stringArg(args, "format"); format != "" {
		if err := oneOf(format, store.ProjectFormatFilm, store.ProjectFormatSeries, store.ProjectFormatShort); err != nil {
			return nil, err
		}
		project.Format = format
	}
	project.UpdatedAt = time.Now().UTC()

	if err := h.store.UpdateProject(ctx, project); err != nil {
		return nil, err
	}
	return project, nil
}

func (h *projectHandlers) DeleteProject(ctx context.Context, args map[string]any) (any, error) {
	id := stringArg(args, "project_id")
	if id == "" {
		return nil, errors.New("Project ID is required")
	}

	err := h.store.DeleteProject(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return nil, fmt.Errorf("Project %s not found", id)
	}
	if err != nil {
		return nil, err
	}
	return map[string]string{"id": id, "status": "deleted"}, nil
}
