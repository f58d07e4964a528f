// Package sqlite provides a SQLite implementation of the GameStore interface.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite" // Pure Go SQLite driver

	"github.com/otterworks/gamescout/internal/domain/entities"
	"github.com/otterworks/gamescout/internal/domain/ports"
)

// timeNow returns the current time (can be mocked in tests).
var timeNow = time.Now

// Repository implements ports.GameStore using SQLite.
type Repository struct {
	db   *sql.DB
	path string
}

// NewRepository creates a new SQLite repository.
func NewRepository(path string) (*Repository, error) {
	if path == "" {
		return nil, errors.New("sqlite path is required")
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening sqlite database: %w", err)
	}

	// Enable foreign keys for referential integrity
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enabling foreign keys: %w", err)
	}

	// Enable WAL mode for better concurrent read/write performance
	if _, err := db.Exec("PRAGMA journal_mode = WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enabling WAL mode: %w", err)
	}

	// Set busy timeout to avoid "database is locked" errors
	if _, err := db.Exec("PRAGMA busy_timeout = 5000"); err != nil {
		db.Close()
		return nil, fmt.Errorf("setting busy timeout: %w", err)
	}

	return &Repository{
		db:   db,
		path: path,
	}, nil
}

// Close closes the database connection.
func (r *Repository) Close() error {
	return r.db.Close()
}

// Path returns the database file path.
func (r *Repository) Path() string {
	return r.path
}

// EnsureSchema creates the database schema if it doesn't exist.
func (r *Repository) EnsureSchema(ctx context.Context) error {
	schema := `
	-- Games (researchable subjects)
	CREATE TABLE IF NOT EXISTS games (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		name TEXT NOT NULL UNIQUE COLLATE NOCASE,
		status TEXT NOT NULL DEFAULT 'created',
		store_dir TEXT NOT NULL DEFAULT '',
		description TEXT,
		metadata_json TEXT,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
		updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
		last_researched_at TIMESTAMP
	);
	CREATE INDEX IF NOT EXISTS idx_games_status ON games(status);

	-- Sources (discovered documents and references per game)
	CREATE TABLE IF NOT EXISTS sources (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		game_id INTEGER NOT NULL REFERENCES games(id) ON DELETE CASCADE,
		source_type TEXT NOT NULL,
		origin_url TEXT NOT NULL,
		title TEXT NOT NULL DEFAULT '',
		local_path TEXT,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	);
	CREATE INDEX IF NOT EXISTS idx_sources_game ON sources(game_id);

	-- Conversation log (append-only)
	CREATE TABLE IF NOT EXISTS conversation (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		role TEXT NOT NULL,
		text TEXT NOT NULL,
		game_id INTEGER REFERENCES games(id),
		timestamp TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	);
	CREATE INDEX IF NOT EXISTS idx_conversation_game ON conversation(game_id);
	`

	_, err := r.db.ExecContext(ctx, schema)
	if err != nil {
		return fmt.Errorf("creating schema: %w", err)
	}
	return nil
}

// CreateGame inserts a new game in status created.
func (r *Repository) CreateGame(ctx context.Context, name, storeDir string) (*entities.Game, error) {
	now := timeNow().UTC()
	query := `
		INSERT INTO games (name, status, store_dir, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?)
	`
	result, err := r.db.ExecContext(ctx, query,
		name,
		string(entities.StatusCreated),
		storeDir,
		now,
		now,
	)
	if err != nil {
		return nil, fmt.Errorf("creating game: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("reading game id: %w", err)
	}
	return &entities.Game{
		ID:        id,
		Name:      name,
		Status:    entities.StatusCreated,
		StoreDir:  storeDir,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

// SetStoreDir updates the game's store directory.
func (r *Repository) SetStoreDir(ctx context.Context, gameID int64, dir string) error {
	return r.updateGame(ctx,
		`UPDATE games SET store_dir = ?, updated_at = ? WHERE id = ?`,
		dir, timeNow().UTC(), gameID)
}

// GameByID finds a game by ID.
func (r *Repository) GameByID(ctx context.Context, gameID int64) (*entities.Game, error) {
	row := r.db.QueryRowContext(ctx, selectGame+` WHERE id = ?`, gameID)
	return scanGame(row)
}

// GameByName finds a game by case-insensitive name.
func (r *Repository) GameByName(ctx context.Context, name string) (*entities.Game, error) {
	row := r.db.QueryRowContext(ctx,
		selectGame+` WHERE LOWER(name) = ?`,
		entities.NormalizeName(name))
	return scanGame(row)
}

// ListGames lists games ordered by name, optionally filtered by status.
func (r *Repository) ListGames(ctx context.Context, status *entities.GameStatus) ([]*entities.Game, error) {
	query := selectGame
	var args []any
	if status != nil {
		query += ` WHERE status = ?`
		args = append(args, string(*status))
	}
	query += ` ORDER BY name COLLATE NOCASE ASC`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying games: %w", err)
	}
	defer rows.Close()

	games := make([]*entities.Game, 0, 16)
	for rows.Next() {
		game, err := scanGame(rows)
		if err != nil {
			return nil, err
		}
		games = append(games, game)
	}
	return games, rows.Err()
}

// ListGameNames lists all game names ordered by name.
func (r *Repository) ListGameNames(ctx context.Context) ([]string, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT name FROM games ORDER BY name COLLATE NOCASE ASC`)
	if err != nil {
		return nil, fmt.Errorf("querying game names: %w", err)
	}
	defer rows.Close()

	names := make([]string, 0, 16)
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("scanning game name: %w", err)
		}
		names = append(names, name)
	}
	return names, rows.Err()
}

// UpdateStatus sets the game's status.
func (r *Repository) UpdateStatus(ctx context.Context, gameID int64, status entities.GameStatus) error {
	return r.updateGame(ctx,
		`UPDATE games SET status = ?, updated_at = ? WHERE id = ?`,
		string(status), timeNow().UTC(), gameID)
}

// UpdateDescription sets the game's description.
func (r *Repository) UpdateDescription(ctx context.Context, gameID int64, description string) error {
	return r.updateGame(ctx,
		`UPDATE games SET description = ?, updated_at = ? WHERE id = ?`,
		description, timeNow().UTC(), gameID)
}

// UpdateMetadata replaces the game's metadata.
func (r *Repository) UpdateMetadata(ctx context.Context, gameID int64, md *entities.GameMetadata) error {
	data, err := json.Marshal(md)
	if err != nil {
		return fmt.Errorf("marshaling metadata: %w", err)
	}
	return r.updateGame(ctx,
		`UPDATE games SET metadata_json = ?, updated_at = ? WHERE id = ?`,
		string(data), timeNow().UTC(), gameID)
}

// TouchResearched records the completion time of a research run.
func (r *Repository) TouchResearched(ctx context.Context, gameID int64) error {
	now := timeNow().UTC()
	return r.updateGame(ctx,
		`UPDATE games SET last_researched_at = ?, updated_at = ? WHERE id = ?`,
		now, now, gameID)
}

// AddSource inserts a source record and fills its ID and creation time.
func (r *Repository) AddSource(ctx context.Context, src *entities.SourceRecord) error {
	now := timeNow().UTC()
	query := `
		INSERT INTO sources (game_id, source_type, origin_url, title, local_path, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`
	result, err := r.db.ExecContext(ctx, query,
		src.GameID,
		string(src.Type),
		src.OriginURL,
		src.Title,
		src.LocalPath,
		now,
	)
	if err != nil {
		return fmt.Errorf("adding source: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("reading source id: %w", err)
	}
	src.ID = id
	src.CreatedAt = now
	return nil
}

// DeleteSources removes all sources for a game.
func (r *Repository) DeleteSources(ctx context.Context, gameID int64) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM sources WHERE game_id = ?`, gameID)
	if err != nil {
		return fmt.Errorf("deleting sources: %w", err)
	}
	return nil
}

// ListSources lists sources for a game in insertion order.
func (r *Repository) ListSources(ctx context.Context, gameID int64) ([]*entities.SourceRecord, error) {
	query := `
		SELECT id, game_id, source_type, origin_url, title, local_path, created_at
		FROM sources
		WHERE game_id = ?
		ORDER BY id ASC
	`
	rows, err := r.db.QueryContext(ctx, query, gameID)
	if err != nil {
		return nil, fmt.Errorf("querying sources: %w", err)
	}
	defer rows.Close()

	sources := make([]*entities.SourceRecord, 0, 16)
	for rows.Next() {
		var (
			src        entities.SourceRecord
			sourceType string
			localPath  sql.NullString
		)
		if err := rows.Scan(
			&src.ID,
			&src.GameID,
			&sourceType,
			&src.OriginURL,
			&src.Title,
			&localPath,
			&src.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scanning source: %w", err)
		}
		src.Type = entities.SourceType(sourceType)
		if localPath.Valid {
			src.LocalPath = &localPath.String
		}
		sources = append(sources, &src)
	}
	return sources, rows.Err()
}

// AppendConversation appends an entry to the conversation log.
func (r *Repository) AppendConversation(ctx context.Context, entry *entities.ConversationEntry) error {
	now := timeNow().UTC()
	query := `
		INSERT INTO conversation (role, text, game_id, timestamp)
		VALUES (?, ?, ?, ?)
	`
	result, err := r.db.ExecContext(ctx, query,
		string(entry.Role),
		entry.Text,
		entry.GameID,
		now,
	)
	if err != nil {
		return fmt.Errorf("appending conversation entry: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("reading conversation id: %w", err)
	}
	entry.ID = id
	entry.Timestamp = now
	return nil
}

// RecentConversation returns the most recent entries, oldest first.
func (r *Repository) RecentConversation(ctx context.Context, limit int) ([]*entities.ConversationEntry, error) {
	query := `
		SELECT id, role, text, game_id, timestamp
		FROM conversation
		ORDER BY id DESC
		LIMIT ?
	`
	rows, err := r.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("querying conversation: %w", err)
	}
	defer rows.Close()

	entries := make([]*entities.ConversationEntry, 0, limit)
	for rows.Next() {
		var (
			entry  entities.ConversationEntry
			role   string
			gameID sql.NullInt64
		)
		if err := rows.Scan(&entry.ID, &role, &entry.Text, &gameID, &entry.Timestamp); err != nil {
			return nil, fmt.Errorf("scanning conversation entry: %w", err)
		}
		entry.Role = entities.Role(role)
		if gameID.Valid {
			entry.GameID = &gameID.Int64
		}
		entries = append(entries, &entry)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	// Reverse into chronological order.
	for i, j := 0, len(entries)-1; i < j; i, j = i+1, j-1 {
		entries[i], entries[j] = entries[j], entries[i]
	}
	return entries, nil
}

// LastTaggedGameID returns the game ID of the most recent tagged entry
// within the last window entries. Returns ErrNotFound when no entry in the
// window carries a tag.
func (r *Repository) LastTaggedGameID(ctx context.Context, window int) (int64, error) {
	query := `
		SELECT game_id FROM (
			SELECT id, game_id FROM conversation ORDER BY id DESC LIMIT ?
		)
		WHERE game_id IS NOT NULL
		ORDER BY id DESC
		LIMIT 1
	`
	var gameID int64
	err := r.db.QueryRowContext(ctx, query, window).Scan(&gameID)
	if err == sql.ErrNoRows {
		return 0, ports.ErrNotFound
	}
	if err != nil {
		return 0, fmt.Errorf("scanning tagged game id: %w", err)
	}
	return gameID, nil
}

// updateGame runs an UPDATE statement and maps zero affected rows to
// ErrNotFound.
func (r *Repository) updateGame(ctx context.Context, query string, args ...any) error {
	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("updating game: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return ports.ErrNotFound
	}
	return nil
}

const selectGame = `
	SELECT id, name, status, store_dir, description, metadata_json, created_at, updated_at, last_researched_at
	FROM games`

// scanner covers *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanGame(row scanner) (*entities.Game, error) {
	var (
		game        entities.Game
		status      string
		description sql.NullString
		metadata    sql.NullString
		researched  sql.NullTime
	)
	err := row.Scan(
		&game.ID,
		&game.Name,
		&status,
		&game.StoreDir,
		&description,
		&metadata,
		&game.CreatedAt,
		&game.UpdatedAt,
		&researched,
	)
	if err == sql.ErrNoRows {
		return nil, ports.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scanning game: %w", err)
	}

	game.Status = entities.GameStatus(status)
	if description.Valid {
		game.Description = &description.String
	}
	if metadata.Valid && metadata.String != "" {
		var md entities.GameMetadata
		if err := json.Unmarshal([]byte(metadata.String), &md); err != nil {
			return nil, fmt.Errorf("unmarshaling metadata: %w", err)
		}
		game.Metadata = &md
	}
	if researched.Valid {
		game.LastResearchedAt = &researched.Time
	}
	return &game, nil
}
