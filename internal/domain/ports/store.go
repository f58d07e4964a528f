package ports

import (
	"context"

	"github.com/otterworks/gamescout/internal/domain/entities"
)

// GameStore defines the interface for the relational entity store. It is the
// single source of truth for game status and exclusively owns the Game and
// SourceRecord lifecycles. Implementations must serialize concurrent writers
// at the storage layer.
type GameStore interface {
	// EnsureSchema creates the database schema if it doesn't exist.
	EnsureSchema(ctx context.Context) error

	// Close closes the database connection.
	Close() error

	// Game operations

	// CreateGame inserts a new game in status created and returns it with
	// its assigned ID and store directory.
	CreateGame(ctx context.Context, name, storeDir string) (*entities.Game, error)

	// SetStoreDir updates the game's store directory.
	SetStoreDir(ctx context.Context, gameID int64, dir string) error

	// GameByID finds a game by ID. Returns ErrNotFound if missing.
	GameByID(ctx context.Context, gameID int64) (*entities.Game, error)

	// GameByName finds a game by case-insensitive name match.
	// Returns ErrNotFound if missing.
	GameByName(ctx context.Context, name string) (*entities.Game, error)

	// ListGames lists games ordered by name, optionally filtered by status.
	ListGames(ctx context.Context, status *entities.GameStatus) ([]*entities.Game, error)

	// ListGameNames lists all game names ordered by name.
	ListGameNames(ctx context.Context) ([]string, error)

	// UpdateStatus sets the game's status.
	UpdateStatus(ctx context.Context, gameID int64, status entities.GameStatus) error

	// UpdateDescription sets the game's description.
	UpdateDescription(ctx context.Context, gameID int64, description string) error

	// UpdateMetadata replaces the game's structured metadata.
	UpdateMetadata(ctx context.Context, gameID int64, md *entities.GameMetadata) error

	// TouchResearched records the completion time of a research run.
	TouchResearched(ctx context.Context, gameID int64) error

	// Source operations

	// AddSource inserts a source record and assigns its ID.
	AddSource(ctx context.Context, src *entities.SourceRecord) error

	// DeleteSources removes all source records for a game. Used when an
	// explicit re-research overwrites a prior run.
	DeleteSources(ctx context.Context, gameID int64) error

	// ListSources lists source records for a game ordered by ID.
	ListSources(ctx context.Context, gameID int64) ([]*entities.SourceRecord, error)

	// Conversation operations

	// AppendConversation appends an entry to the conversation log.
	AppendConversation(ctx context.Context, entry *entities.ConversationEntry) error

	// RecentConversation returns the most recent entries, oldest first.
	RecentConversation(ctx context.Context, limit int) ([]*entities.ConversationEntry, error)

	// LastTaggedGameID scans the most recent window entries for the latest
	// one tagged with a game. Returns ErrNotFound when none is tagged.
	LastTaggedGameID(ctx context.Context, window int) (int64, error)
}
