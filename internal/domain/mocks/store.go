// Package mocks provides mock implementations for testing.
package mocks

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/otterworks/gamescout/internal/domain/entities"
	"github.com/otterworks/gamescout/internal/domain/ports"
)

// GameStore is an in-memory mock implementation of ports.GameStore.
type GameStore struct {
	mu sync.Mutex

	Games        map[int64]*entities.Game
	Sources      map[int64][]*entities.SourceRecord
	Conversation []*entities.ConversationEntry

	nextGameID   int64
	nextSourceID int64

	// Errors to inject per operation.
	CreateGameErr     error
	UpdateStatusErr   error
	UpdateMetadataErr error
	AddSourceErr      error

	// Call tracking.
	StatusHistory map[int64][]entities.GameStatus
}

// NewGameStore returns an empty in-memory store.
func NewGameStore() *GameStore {
	return &GameStore{
		Games:         make(map[int64]*entities.Game),
		Sources:       make(map[int64][]*entities.SourceRecord),
		StatusHistory: make(map[int64][]entities.GameStatus),
	}
}

// EnsureSchema is a no-op.
func (m *GameStore) EnsureSchema(ctx context.Context) error { return nil }

// Close is a no-op.
func (m *GameStore) Close() error { return nil }

// CreateGame inserts a new game in status created.
func (m *GameStore) CreateGame(ctx context.Context, name, storeDir string) (*entities.Game, error) {
	if m.CreateGameErr != nil {
		return nil, m.CreateGameErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextGameID++
	game := &entities.Game{
		ID:        m.nextGameID,
		Name:      name,
		Status:    entities.StatusCreated,
		StoreDir:  storeDir,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}
	m.Games[game.ID] = game
	return cloneGame(game), nil
}

// SetStoreDir updates the game's store directory.
func (m *GameStore) SetStoreDir(ctx context.Context, gameID int64, dir string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	game, ok := m.Games[gameID]
	if !ok {
		return ports.ErrNotFound
	}
	game.StoreDir = dir
	return nil
}

// GameByID finds a game by ID.
func (m *GameStore) GameByID(ctx context.Context, gameID int64) (*entities.Game, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	game, ok := m.Games[gameID]
	if !ok {
		return nil, ports.ErrNotFound
	}
	return cloneGame(game), nil
}

// GameByName finds a game by case-insensitive name.
func (m *GameStore) GameByName(ctx context.Context, name string) (*entities.Game, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	want := entities.NormalizeName(name)
	for _, game := range m.Games {
		if entities.NormalizeName(game.Name) == want {
			return cloneGame(game), nil
		}
	}
	return nil, ports.ErrNotFound
}

// ListGames lists games ordered by name.
func (m *GameStore) ListGames(ctx context.Context, status *entities.GameStatus) ([]*entities.Game, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var games []*entities.Game
	for _, game := range m.Games {
		if status != nil && game.Status != *status {
			continue
		}
		games = append(games, cloneGame(game))
	}
	sort.Slice(games, func(i, j int) bool {
		return strings.ToLower(games[i].Name) < strings.ToLower(games[j].Name)
	})
	return games, nil
}

// ListGameNames lists all game names ordered by name.
func (m *GameStore) ListGameNames(ctx context.Context) ([]string, error) {
	games, err := m.ListGames(ctx, nil)
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(games))
	for _, game := range games {
		names = append(names, game.Name)
	}
	return names, nil
}

// UpdateStatus sets the game's status and records the transition.
func (m *GameStore) UpdateStatus(ctx context.Context, gameID int64, status entities.GameStatus) error {
	if m.UpdateStatusErr != nil {
		return m.UpdateStatusErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	game, ok := m.Games[gameID]
	if !ok {
		return ports.ErrNotFound
	}
	game.Status = status
	game.UpdatedAt = time.Now()
	m.StatusHistory[gameID] = append(m.StatusHistory[gameID], status)
	return nil
}

// UpdateDescription sets the game's description.
func (m *GameStore) UpdateDescription(ctx context.Context, gameID int64, description string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	game, ok := m.Games[gameID]
	if !ok {
		return ports.ErrNotFound
	}
	game.Description = &description
	return nil
}

// UpdateMetadata replaces the game's metadata.
func (m *GameStore) UpdateMetadata(ctx context.Context, gameID int64, md *entities.GameMetadata) error {
	if m.UpdateMetadataErr != nil {
		return m.UpdateMetadataErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	game, ok := m.Games[gameID]
	if !ok {
		return ports.ErrNotFound
	}
	game.Metadata = md
	return nil
}

// TouchResearched records the completion time of a research run.
func (m *GameStore) TouchResearched(ctx context.Context, gameID int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	game, ok := m.Games[gameID]
	if !ok {
		return ports.ErrNotFound
	}
	now := time.Now()
	game.LastResearchedAt = &now
	return nil
}

// AddSource inserts a source record.
func (m *GameStore) AddSource(ctx context.Context, src *entities.SourceRecord) error {
	if m.AddSourceErr != nil {
		return m.AddSourceErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextSourceID++
	src.ID = m.nextSourceID
	src.CreatedAt = time.Now()
	cp := *src
	m.Sources[src.GameID] = append(m.Sources[src.GameID], &cp)
	return nil
}

// DeleteSources removes all sources for a game.
func (m *GameStore) DeleteSources(ctx context.Context, gameID int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.Sources, gameID)
	return nil
}

// ListSources lists sources for a game ordered by ID.
func (m *GameStore) ListSources(ctx context.Context, gameID int64) ([]*entities.SourceRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	records := m.Sources[gameID]
	out := make([]*entities.SourceRecord, 0, len(records))
	for _, r := range records {
		cp := *r
		out = append(out, &cp)
	}
	return out, nil
}

// AppendConversation appends an entry to the log.
func (m *GameStore) AppendConversation(ctx context.Context, entry *entities.ConversationEntry) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	entry.ID = int64(len(m.Conversation) + 1)
	entry.Timestamp = time.Now()
	cp := *entry
	m.Conversation = append(m.Conversation, &cp)
	return nil
}

// RecentConversation returns the most recent entries, oldest first.
func (m *GameStore) RecentConversation(ctx context.Context, limit int) ([]*entities.ConversationEntry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	start := len(m.Conversation) - limit
	if start < 0 {
		start = 0
	}
	var out []*entities.ConversationEntry
	for _, e := range m.Conversation[start:] {
		cp := *e
		out = append(out, &cp)
	}
	return out, nil
}

// LastTaggedGameID returns the most recently tagged game within the window.
func (m *GameStore) LastTaggedGameID(ctx context.Context, window int) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	start := len(m.Conversation) - window
	if start < 0 {
		start = 0
	}
	for i := len(m.Conversation) - 1; i >= start; i-- {
		if m.Conversation[i].GameID != nil {
			return *m.Conversation[i].GameID, nil
		}
	}
	return 0, ports.ErrNotFound
}

func cloneGame(game *entities.Game) *entities.Game {
	cp := *game
	return &cp
}
