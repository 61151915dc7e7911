// ABOUTME: Store interface and data types for slugline-gateway persistence
// ABOUTME: Defines project/scene/character/world/user entities and the API token record

package store

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound is returned when a requested entity does not exist
var ErrNotFound = errors.New("not found")

// ErrDuplicateToken is returned when an API token secret collides with an existing one
var ErrDuplicateToken = errors.New("token already exists")

// Project format constants
const (
	ProjectFormatFilm   = "film"
	ProjectFormatSeries = "series"
	ProjectFormatShort  = "short"
)

// Project represents a screenwriting project
type Project struct {
	ID          string    `json:"id"`
	OwnerID     string    `json:"owner_id"`
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	Format      string    `json:"format,omitempty"` // "film", "series", "short"
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Episode represents one episode within a project. Film and short projects
// carry a single implicit episode; series projects have many.
type Episode struct {
	ID        string    `json:"id"`
	ProjectID string    `json:"project_id"`
	Title     string    `json:"title"`
	Number    int       `json:"number"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Scene represents a single scene within an episode
type Scene struct {
	ID        string    `json:"id"`
	EpisodeID string    `json:"episode_id"`
	Title     string    `json:"title"`
	Slugline  string    `json:"slugline,omitempty"` // e.g. "INT. WAREHOUSE - NIGHT"
	Body      string    `json:"body,omitempty"`
	Position  int       `json:"position"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Character represents a character within a project
type Character struct {
	ID        string    `json:"id"`
	ProjectID string    `json:"project_id"`
	Name      string    `json:"name"`
	Role      string    `json:"role,omitempty"`
	Bio       string    `json:"bio,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// World category kind constants
const (
	WorldKindLocation = "location"
	WorldKindFaction  = "faction"
	WorldKindLore     = "lore"
	WorldKindItem     = "item"
	WorldKindCustom   = "custom"
)

// WorldCategory represents one typed worldbuilding category entry
type WorldCategory struct {
	ID        string    `json:"id"`
	ProjectID string    `json:"project_id"`
	Name      string    `json:"name"`
	Kind      string    `json:"kind"` // "location", "faction", "lore", "item", "custom"
	Content   string    `json:"content,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// User represents an account that owns projects and API tokens
type User struct {
	ID          string    `json:"id"`
	Email       string    `json:"email"`
	DisplayName string    `json:"display_name"`
	CreatedAt   time.Time `json:"created_at"`
}

// APIToken represents a scoped bearer credential for the MCP gateway.
// The Token field holds the full secret and is only populated at issuance;
// reads return TokenPreview plus metadata.
type APIToken struct {
	ID           string     `json:"id"`
	UserID       string     `json:"user_id"`
	Name         string     `json:"name"`
	Token        string     `json:"token,omitempty"`
	TokenPreview string     `json:"token_preview"`
	Scopes       []string   `json:"scopes"`
	IsActive     bool       `json:"is_active"`
	ExpiresAt    *time.Time `json:"expires_at,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
	LastUsedAt   *time.Time `json:"last_used_at,omitempty"`
	CallCount    int64      `json:"call_count"`
}

// ProjectStore provides access to projects and episodes
type ProjectStore interface {
	CreateProject(ctx context.Context, p *Project) error
	GetProject(ctx context.Context, id string) (*Project, error)
	ListProjects(ctx context.Context, ownerID string) ([]*Project, error)
	UpdateProject(ctx context.Context, p *Project) error
	DeleteProject(ctx context.Context, id string) error

	CreateEpisode(ctx context.Context, e *Episode) error
	GetEpisode(ctx context.Context, id string) (*Episode, error)
	ListEpisodes(ctx context.Context, projectID string) ([]*Episode, error)
	DeleteEpisode(ctx context.Context, id string) error
}

// SceneStore provides access to scenes
type SceneStore interface {
	CreateScene(ctx context.Context, sc *Scene) error
	GetScene(ctx context.Context, id string) (*Scene, error)
	ListScenes(ctx context.Context, episodeID string) ([]*Scene, error)
	UpdateScene(ctx context.Context, sc *Scene) error
	DeleteScene(ctx context.Context, id string) error
}

// CharacterStore provides access to characters
type CharacterStore interface {
	CreateCharacter(ctx context.Context, c *Character) error
	GetCharacter(ctx context.Context, id string) (*Character, error)
	ListCharacters(ctx context.Context, projectID string) ([]*Character, error)
	UpdateCharacter(ctx context.Context, c *Character) error
	DeleteCharacter(ctx context.Context, id string) error
}

// WorldStore provides access to worldbuilding categories
type WorldStore interface {
	CreateWorldCategory(ctx context.Context, w *WorldCategory) error
	GetWorldCategory(ctx context.Context, id string) (*WorldCategory, error)
	ListWorldCategories(ctx context.Context, projectID, kind string) ([]*WorldCategory, error)
	UpdateWorldCategory(ctx context.Context, w *WorldCategory) error
	DeleteWorldCategory(ctx context.Context, id string) error
}

// UserStore provides access to users
type UserStore interface {
	CreateUser(ctx context.Context, u *User) error
	GetUser(ctx context.Context, id string) (*User, error)
}

// TokenStore provides access to API token credentials
type TokenStore interface {
	CreateAPIToken(ctx context.Context, t *APIToken) error
	GetAPIToken(ctx context.Context, id string) (*APIToken, error)
	GetAPITokenBySecret(ctx context.Context, secret string) (*APIToken, error)
	ListAPITokens(ctx context.Context, userID string) ([]*APIToken, error)
	SetAPITokenActive(ctx context.Context, id string, active bool) error
	DeleteAPIToken(ctx context.Context, id string) error

	// TouchAPIToken records a successful authentication: increments
	// call_count by one server-side and stamps last_used_at. The increment
	// must be atomic so concurrent authentications never lose updates.
	TouchAPIToken(ctx context.Context, id string, usedAt time.Time) error
}

// Store is the full persistence interface implemented by SQLiteStore
type Store interface {
	ProjectStore
	SceneStore
	CharacterStore
	WorldStore
	UserStore
	TokenStore

	Close() error
}
