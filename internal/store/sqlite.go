// ABOUTME: SQLite implementation of the Store interface using modernc.org/sqlite
// ABOUTME: Provides project/scene/character/world persistence with automatic schema creation

package store

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"
)

// SQLiteStore implements the Store interface using SQLite
type SQLiteStore struct {
	db     *sql.DB
	logger *slog.Logger
}

// NewSQLiteStore creates a new SQLite store at the given path.
// The schema is automatically created if it doesn't exist.
// Parent directories are created if needed.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	logger := slog.Default().With("component", "store")

	// Ensure parent directory exists
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("creating database directory: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	// Enable WAL mode for better concurrent performance
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enabling WAL mode: %w", err)
	}

	// Enable foreign keys
	if _, err := db.Exec("PRAGMA foreign_keys=ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enabling foreign keys: %w", err)
	}

	s := &SQLiteStore{
		db:     db,
		logger: logger,
	}

	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}

	logger.Info("SQLite store initialized", "path", path)
	return s, nil
}

// createSchema creates the database tables if they don't exist
func (s *SQLiteStore) createSchema() error {
	schema := `
		CREATE TABLE IF NOT EXISTS users (
			id TEXT PRIMARY KEY,
			email TEXT NOT NULL UNIQUE,
			display_name TEXT NOT NULL,
			created_at DATETIME NOT NULL
		);

		CREATE TABLE IF NOT EXISTS projects (
			id TEXT PRIMARY KEY,
			owner_id TEXT NOT NULL,
			title TEXT NOT NULL,
			description TEXT,
			format TEXT,
			created_at DATETIME NOT NULL,
			updated_at DATETIME NOT NULL
		);

		CREATE INDEX IF NOT EXISTS idx_projects_owner
			ON projects(owner_id);

		CREATE TABLE IF NOT EXISTS episodes (
			id TEXT PRIMARY KEY,
			project_id TEXT NOT NULL,
			title TEXT NOT NULL,
			number INTEGER NOT NULL DEFAULT 0,
			created_at DATETIME NOT NULL,
			updated_at DATETIME NOT NULL,
			FOREIGN KEY (project_id) REFERENCES projects(id)
		);

		CREATE INDEX IF NOT EXISTS idx_episodes_project
			ON episodes(project_id);

		CREATE TABLE IF NOT EXISTS scenes (
			id TEXT PRIMARY KEY,
			episode_id TEXT NOT NULL,
			title TEXT NOT NULL,
			slugline TEXT,
			body TEXT,
			position INTEGER NOT NULL DEFAULT 0,
			created_at DATETIME NOT NULL,
			updated_at DATETIME NOT NULL
		);

		CREATE INDEX IF NOT EXISTS idx_scenes_episode
			ON scenes(episode_id);

		CREATE INDEX IF NOT EXISTS idx_scenes_episode_position
			ON scenes(episode_id, position);

		CREATE TABLE IF NOT EXISTS characters (
			id TEXT PRIMARY KEY,
			project_id TEXT NOT NULL,
			name TEXT NOT NULL,
			role TEXT,
			bio TEXT,
			created_at DATETIME NOT NULL,
			updated_at DATETIME NOT NULL
		);

		CREATE INDEX IF NOT EXISTS idx_characters_project
			ON characters(project_id);

		CREATE TABLE IF NOT EXISTS world_categories (
			id TEXT PRIMARY KEY,
			project_id TEXT NOT NULL,
			name TEXT NOT NULL,
			kind TEXT NOT NULL,
			content TEXT,
			created_at DATETIME NOT NULL,
			updated_at DATETIME NOT NULL
		);

		CREATE INDEX IF NOT EXISTS idx_world_categories_project
			ON world_categories(project_id);

		CREATE INDEX IF NOT EXISTS idx_world_categories_project_kind
			ON world_categories(project_id, kind);

		CREATE TABLE IF NOT EXISTS api_tokens (
			id TEXT PRIMARY KEY,
			user_id TEXT NOT NULL,
			name TEXT NOT NULL,
			token TEXT NOT NULL UNIQUE,
			token_preview TEXT NOT NULL,
			scopes TEXT NOT NULL,
			is_active INTEGER NOT NULL DEFAULT 1,
			expires_at DATETIME,
			created_at DATETIME NOT NULL,
			last_used_at DATETIME,
			call_count INTEGER NOT NULL DEFAULT 0
		);

		CREATE INDEX IF NOT EXISTS idx_api_tokens_user
			ON api_tokens(user_id);
	`

	if _, err := s.db.Exec(schema); err != nil {
		return fmt.Errorf("executing schema: %w", err)
	}

	return nil
}

// Close closes the underlying database connection
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// Projects

// CreateProject inserts a new project
func (s *SQLiteStore) CreateProject(ctx context.Context, p *Project) error {
	query := `
		INSERT INTO projects (id, owner_id, title, description, format, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`

	_, err := s.db.ExecContext(ctx, query,
		p.ID,
		p.OwnerID,
		p.Title,
		nullString(p.Description),
		nullString(p.Format),
		p.CreatedAt.UTC().Format(time.RFC3339),
		p.UpdatedAt.UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("inserting project: %w", err)
	}

	s.logger.Debug("created project", "id", p.ID, "title", p.Title)
	return nil
}

// GetProject retrieves a project by ID.
// Returns ErrNotFound if the project doesn't exist.
func (s *SQLiteStore) GetProject(ctx context.Context, id string) (*Project, error) {
	query := `
		SELECT id, owner_id, title, description, format, created_at, updated_at
		FROM projects WHERE id = ?
	`

	row := s.db.QueryRowContext(ctx, query, id)
	return scanProject(row)
}

// ListProjects returns all projects owned by the given user, newest first.
// An empty ownerID returns all projects.
func (s *SQLiteStore) ListProjects(ctx context.Context, ownerID string) ([]*Project, error) {
	query := `
		SELECT id, owner_id, title, description, format, created_at, updated_at
		FROM projects
	`
	args := []any{}
	if ownerID != "" {
		query += " WHERE owner_id = ?"
		args = append(args, ownerID)
	}
	query += " ORDER BY created_at DESC"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying projects: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var projects []*Project
	for rows.Next() {
		p, err := scanProject(rows)
		if err != nil {
			return nil, err
		}
		projects = append(projects, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating project rows: %w", err)
	}

	return projects, nil
}

// UpdateProject updates a project's mutable fields.
// Returns ErrNotFound if the project doesn't exist.
func (s *SQLiteStore) UpdateProject(ctx context.Context, p *Project) error {
	query := `
		UPDATE projects SET title = ?, description = ?, format = ?, updated_at = ?
		WHERE id = ?
	`

	result, err := s.db.ExecContext(ctx, query,
		p.Title,
		nullString(p.Description),
		nullString(p.Format),
		p.UpdatedAt.UTC().Format(time.RFC3339),
		p.ID,
	)
	if err != nil {
		return fmt.Errorf("updating project: %w", err)
	}

	return checkAffected(result)
}

// DeleteProject removes a project and its episodes, scenes, characters, and
// world categories. The cascade is the handler's deletion contract, not the
// gateway core's.
func (s *SQLiteStore) DeleteProject(ctx context.Context, id string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	// Children first: episodes reference projects.
	if _, err := tx.ExecContext(ctx,
		`DELETE FROM scenes WHERE episode_id IN (SELECT id FROM episodes WHERE project_id = ?)`, id); err != nil {
		return fmt.Errorf("deleting project scenes: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM episodes WHERE project_id = ?`, id); err != nil {
		return fmt.Errorf("deleting project episodes: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM characters WHERE project_id = ?`, id); err != nil {
		return fmt.Errorf("deleting project characters: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM world_categories WHERE project_id = ?`, id); err != nil {
		return fmt.Errorf("deleting project world categories: %w", err)
	}

	result, err := tx.ExecContext(ctx, `DELETE FROM projects WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting project: %w", err)
	}
	if err := checkAffected(result); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing project delete: %w", err)
	}

	s.logger.Debug("deleted project", "id", id)
	return nil
}

// Episodes

// CreateEpisode inserts a new episode
func (s *SQLiteStore) CreateEpisode(ctx context.Context, e *Episode) error {
	query := `
		INSERT INTO episodes (id, project_id, title, number, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`

	_, err := s.db.ExecContext(ctx, query,
		e.ID,
		e.ProjectID,
		e.Title,
		e.Number,
		e.CreatedAt.UTC().Format(time.RFC3339),
		e.UpdatedAt.UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("inserting episode: %w", err)
	}

	return nil
}

// GetEpisode retrieves an episode by ID.
// Returns ErrNotFound if the episode doesn't exist.
func (s *SQLiteStore) GetEpisode(ctx context.Context, id string) (*Episode, error) {
	query := `
		SELECT id, project_id, title, number, created_at, updated_at
		FROM episodes WHERE id = ?
	`

	var e Episode
	var createdAt, updatedAt string
	err := s.db.QueryRowContext(ctx, query, id).Scan(
		&e.ID, &e.ProjectID, &e.Title, &e.Number, &createdAt, &updatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("querying episode: %w", err)
	}

	if e.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, err
	}
	if e.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return nil, err
	}
	return &e, nil
}

// ListEpisodes returns all episodes for a project ordered by number
func (s *SQLiteStore) ListEpisodes(ctx context.Context, projectID string) ([]*Episode, error) {
	query := `
		SELECT id, project_id, title, number, created_at, updated_at
		FROM episodes WHERE project_id = ?
		ORDER BY number ASC, created_at ASC
	`

	rows, err := s.db.QueryContext(ctx, query, projectID)
	if err != nil {
		return nil, fmt.Errorf("querying episodes: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var episodes []*Episode
	for rows.Next() {
		var e Episode
		var createdAt, updatedAt string
		if err := rows.Scan(&e.ID, &e.ProjectID, &e.Title, &e.Number, &createdAt, &updatedAt); err != nil {
			return nil, fmt.Errorf("scanning episode row: %w", err)
		}
		if e.CreatedAt, err = parseTime(createdAt); err != nil {
			return nil, err
		}
		if e.UpdatedAt, err = parseTime(updatedAt); err != nil {
			return nil, err
		}
		episodes = append(episodes, &e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating episode rows: %w", err)
	}

	return episodes, nil
}

// DeleteEpisode removes an episode and its scenes.
// Returns ErrNotFound if the episode doesn't exist.
func (s *SQLiteStore) DeleteEpisode(ctx context.Context, id string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	result, err := tx.ExecContext(ctx, `DELETE FROM episodes WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting episode: %w", err)
	}
	if err := checkAffected(result); err != nil {
		return err
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM scenes WHERE episode_id = ?`, id); err != nil {
		return fmt.Errorf("deleting episode scenes: %w", err)
	}

	return tx.Commit()
}

// Scenes

// CreateScene inserts a new scene
func (s *SQLiteStore) CreateScene(ctx context.Context, sc *Scene) error {
	query := `
		INSERT INTO scenes (id, episode_id, title, slugline, body, position, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err := s.db.ExecContext(ctx, query,
		sc.ID,
		sc.EpisodeID,
		sc.Title,
		nullString(sc.Slugline),
		nullString(sc.Body),
		sc.Position,
		sc.CreatedAt.UTC().Format(time.RFC3339),
		sc.UpdatedAt.UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("inserting scene: %w", err)
	}

	s.logger.Debug("created scene", "id", sc.ID, "episode_id", sc.EpisodeID)
	return nil
}

// GetScene retrieves a scene by ID.
// Returns ErrNotFound if the scene doesn't exist.
func (s *SQLiteStore) GetScene(ctx context.Context, id string) (*Scene, error) {
	query := `
		SELECT id, episode_id, title, slugline, body, position, created_at, updated_at
		FROM scenes WHERE id = ?
	`

	row := s.db.QueryRowContext(ctx, query, id)
	return scanScene(row)
}

// ListScenes returns all scenes for an episode ordered by position
func (s *SQLiteStore) ListScenes(ctx context.Context, episodeID string) ([]*Scene, error) {
	query := `
		SELECT id, episode_id, title, slugline, body, position, created_at, updated_at
		FROM scenes WHERE episode_id = ?
		ORDER BY position ASC, created_at ASC
	`

	rows, err := s.db.QueryContext(ctx, query, episodeID)
	if err != nil {
		return nil, fmt.Errorf("querying scenes: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var scenes []*Scene
	for rows.Next() {
		sc, err := scanScene(rows)
		if err != nil {
			return nil, err
		}
		scenes = append(scenes, sc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating scene rows: %w", err)
	}

	return scenes, nil
}

// UpdateScene updates a scene's mutable fields.
// Returns ErrNotFound if the scene doesn't exist.
func (s *SQLiteStore) UpdateScene(ctx context.Context, sc *Scene) error {
	query := `
		UPDATE scenes SET title = ?, slugline = ?, body = ?, position = ?, updated_at = ?
		WHERE id = ?
	`

	result, err := s.db.ExecContext(ctx, query,
		sc.Title,
		nullString(sc.Slugline),
		nullString(sc.Body),
		sc.Position,
		sc.UpdatedAt.UTC().Format(time.RFC3339),
		sc.ID,
	)
	if err != nil {
		return fmt.Errorf("updating scene: %w", err)
	}

	return checkAffected(result)
}

// DeleteScene removes a scene.
// Returns ErrNotFound if the scene doesn't exist.
func (s *SQLiteStore) DeleteScene(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM scenes WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting scene: %w", err)
	}
	return checkAffected(result)
}

// Characters

// CreateCharacter inserts a new character
func (s *SQLiteStore) CreateCharacter(ctx context.Context, c *Character) error {
	query := `
		INSERT INTO characters (id, project_id, name, role, bio, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`

	_, err := s.db.ExecContext(ctx, query,
		c.ID,
		c.ProjectID,
		c.Name,
		nullString(c.Role),
		nullString(c.Bio),
		c.CreatedAt.UTC().Format(time.RFC3339),
		c.UpdatedAt.UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("inserting character: %w", err)
	}

	return nil
}

// GetCharacter retrieves a character by ID.
// Returns ErrNotFound if the character doesn't exist.
func (s *SQLiteStore) GetCharacter(ctx context.Context, id string) (*Character, error) {
	query := `
		SELECT id, project_id, name, role, bio, created_at, updated_at
		FROM characters WHERE id = ?
	`

	row := s.db.QueryRowContext(ctx, query, id)
	return scanCharacter(row)
}

// ListCharacters returns all characters for a project ordered by name
func (s *SQLiteStore) ListCharacters(ctx context.Context, projectID string) ([]*Character, error) {
	query := `
		SELECT id, project_id, name, role, bio, created_at, updated_at
		FROM characters WHERE project_id = ?
		ORDER BY name ASC
	`

	rows, err := s.db.QueryContext(ctx, query, projectID)
	if err != nil {
		return nil, fmt.Errorf("querying characters: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var characters []*Character
	for rows.Next() {
		c, err := scanCharacter(rows)
		if err != nil {
			return nil, err
		}
		characters = append(characters, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating character rows: %w", err)
	}

	return characters, nil
}

// UpdateCharacter updates a character's mutable fields.
// Returns ErrNotFound if the character doesn't exist.
func (s *SQLiteStore) UpdateCharacter(ctx context.Context, c *Character) error {
	query := `
		UPDATE characters SET name = ?, role = ?, bio = ?, updated_at = ?
		WHERE id = ?
	`

	result, err := s.db.ExecContext(ctx, query,
		c.Name,
		nullString(c.Role),
		nullString(c.Bio),
		c.UpdatedAt.UTC().Format(time.RFC3339),
		c.ID,
	)
	if err != nil {
		return fmt.Errorf("updating character: %w", err)
	}

	return checkAffected(result)
}

// DeleteCharacter removes a character.
// Returns ErrNotFound if the character doesn't exist.
func (s *SQLiteStore) DeleteCharacter(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM characters WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting character: %w", err)
	}
	return checkAffected(result)
}

// World categories

// CreateWorldCategory inserts a new world category
func (s *SQLiteStore) CreateWorldCategory(ctx context.Context, w *WorldCategory) error {
	query := `
		INSERT INTO world_categories (id, project_id, name, kind, content, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`

	_, err := s.db.ExecContext(ctx, query,
		w.ID,
		w.ProjectID,
		w.Name,
		w.Kind,
		nullString(w.Content),
		w.CreatedAt.UTC().Format(time.RFC3339),
		w.UpdatedAt.UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("inserting world category: %w", err)
	}

	return nil
}

// GetWorldCategory retrieves a world category by ID.
// Returns ErrNotFound if the category doesn't exist.
func (s *SQLiteStore) GetWorldCategory(ctx context.Context, id string) (*WorldCategory, error) {
	query := `
		SELECT id, project_id, name, kind, content, created_at, updated_at
		FROM world_categories WHERE id = ?
	`

	row := s.db.QueryRowContext(ctx, query, id)
	return scanWorldCategory(row)
}

// ListWorldCategories returns world categories for a project, optionally
// filtered by kind, ordered by name.
func (s *SQLiteStore) ListWorldCategories(ctx context.Context, projectID, kind string) ([]*WorldCategory, error) {
	query := `
		SELECT id, project_id, name, kind, content, created_at, updated_at
		FROM world_categories WHERE project_id = ?
	`
	args := []any{projectID}
	if kind != "" {
		query += " AND kind = ?"
		args = append(args, kind)
	}
	query += " ORDER BY name ASC"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying world categories: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var categories []*WorldCategory
	for rows.Next() {
		w, err := scanWorldCategory(rows)
		if err != nil {
			return nil, err
		}
		categories = append(categories, w)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating world category rows: %w", err)
	}

	return categories, nil
}

// UpdateWorldCategory updates a world category's mutable fields.
// Returns ErrNotFound if the category doesn't exist.
func (s *SQLiteStore) UpdateWorldCategory(ctx context.Context, w *WorldCategory) error {
	query := `
		UPDATE world_categories SET name = ?, content = ?, updated_at = ?
		WHERE id = ?
	`

	result, err := s.db.ExecContext(ctx, query,
		w.Name,
		nullString(w.Content),
		w.UpdatedAt.UTC().Format(time.RFC3339),
		w.ID,
	)
	if err != nil {
		return fmt.Errorf("updating world category: %w", err)
	}

	return checkAffected(result)
}

// DeleteWorldCategory removes a world category.
// Returns ErrNotFound if the category doesn't exist.
func (s *SQLiteStore) DeleteWorldCategory(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM world_categories WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting world category: %w", err)
	}
	return checkAffected(result)
}

// Users

// CreateUser inserts a new user
func (s *SQLiteStore) CreateUser(ctx context.Context, u *User) error {
	query := `
		INSERT INTO users (id, email, display_name, created_at)
		VALUES (?, ?, ?, ?)
	`

	_, err := s.db.ExecContext(ctx, query,
		u.ID,
		u.Email,
		u.DisplayName,
		u.CreatedAt.UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("inserting user: %w", err)
	}

	return nil
}

// GetUser retrieves a user by ID.
// Returns ErrNotFound if the user doesn't exist.
func (s *SQLiteStore) GetUser(ctx context.Context, id string) (*User, error) {
	query := `SELECT id, email, display_name, created_at FROM users WHERE id = ?`

	var u User
	var createdAt string
	err := s.db.QueryRowContext(ctx, query, id).Scan(&u.ID, &u.Email, &u.DisplayName, &createdAt)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("querying user: %w", err)
	}

	if u.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, err
	}
	return &u, nil
}

// scanner abstracts *sql.Row and *sql.Rows for shared scan helpers
type scanner interface {
	Scan(dest ...any) error
}

func scanProject(row scanner) (*Project, error) {
	var p Project
	var description, format sql.NullString
	var createdAt, updatedAt string

	err := row.Scan(&p.ID, &p.OwnerID, &p.Title, &description, &format, &createdAt, &updatedAt)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scanning project row: %w", err)
	}

	p.Description = description.String
	p.Format = format.String
	if p.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, err
	}
	if p.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return nil, err
	}
	return &p, nil
}

func scanScene(row scanner) (*Scene, error) {
	var sc Scene
	var slugline, body sql.NullString
	var createdAt, updatedAt string

	err := row.Scan(&sc.ID, &sc.EpisodeID, &sc.Title, &slugline, &body, &sc.Position, &createdAt, &updatedAt)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scanning scene row: %w", err)
	}

	sc.Slugline = slugline.String
	sc.Body = body.String
	if sc.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, err
	}
	if sc.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return nil, err
	}
	return &sc, nil
}

func scanCharacter(row scanner) (*Character, error) {
	var c Character
	var role, bio sql.NullString
	var createdAt, updatedAt string

	err := row.Scan(&c.ID, &c.ProjectID, &c.Name, &role, &bio, &createdAt, &updatedAt)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scanning character row: %w", err)
	}

	c.Role = role.String
	c.Bio = bio.String
	if c.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, err
	}
	if c.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return nil, err
	}
	return &c, nil
}

func scanWorldCategory(row scanner) (*WorldCategory, error) {
	var w WorldCategory
	var content sql.NullString
	var createdAt, updatedAt string

	err := row.Scan(&w.ID, &w.ProjectID, &w.Name, &w.Kind, &content, &createdAt, &updatedAt)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scanning world category row: %w", err)
	}

	w.Content = content.String
	if w.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, err
	}
	if w.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return nil, err
	}
	return &w, nil
}

// nullString converts an empty string to a NULL-able sql value
func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

// parseTime parses an RFC3339 timestamp stored by this package
func parseTime(s string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("parsing timestamp %q: %w", s, err)
	}
	return t, nil
}

// checkAffected converts a zero-row update/delete into ErrNotFound
func checkAffected(result sql.Result) error {
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("getting rows affected: %w", err)
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

// isConstraintViolation reports whether err is a SQLite uniqueness violation
func isConstraintViolation(err error) bool {
	if err == nil {
		return false
	}
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}

// Ensure SQLiteStore implements the Store interface
var _ Store = (*SQLiteStore)(nil)
