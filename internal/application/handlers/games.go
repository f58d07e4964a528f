package handlers

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/otterworks/gamescout/internal/domain/entities"
	"github.com/otterworks/gamescout/internal/domain/ports"
)

// GamesHandler handles read-only game catalog operations.
type GamesHandler struct {
	store ports.GameStore
}

// NewGamesHandler creates a new GamesHandler.
func NewGamesHandler(store ports.GameStore) *GamesHandler {
	return &GamesHandler{store: store}
}

// HandleList returns all games, optionally filtered by status. An empty
// status string means no filter.
func (h *GamesHandler) HandleList(ctx context.Context, status string) ([]*entities.Game, error) {
	if status == "" {
		return h.store.ListGames(ctx, nil)
	}
	s := entities.GameStatus(strings.ToLower(status))
	if !s.Valid() {
		return nil, fmt.Errorf("unknown status %q", status)
	}
	return h.store.ListGames(ctx, &s)
}

// HandleGet returns one game by ID.
func (h *GamesHandler) HandleGet(ctx context.Context, gameID int64) (*entities.Game, error) {
	return h.store.GameByID(ctx, gameID)
}

// HandleSources returns the source records of a game.
func (h *GamesHandler) HandleSources(ctx context.Context, gameID int64) ([]*entities.SourceRecord, error) {
	if _, err := h.store.GameByID(ctx, gameID); err != nil {
		return nil, err
	}
	return h.store.ListSources(ctx, gameID)
}

// HandleFiles lists the artifact filenames stored for a game.
func (h *GamesHandler) HandleFiles(ctx context.Context, gameID int64) ([]string, error) {
	game, err := h.store.GameByID(ctx, gameID)
	if err != nil {
		return nil, err
	}
	if game.StoreDir == "" {
		return nil, nil
	}

	dirEntries, err := os.ReadDir(game.StoreDir)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("listing store directory: %w", err)
	}

	names := make([]string, 0, len(dirEntries))
	for _, e := range dirEntries {
		if !e.IsDir() {
			names = append(names, e.Name())
		}
	}
	return names, nil
}

// HandleFilePath resolves a stored artifact to its absolute path. The name
// must be a bare filename inside the game's store directory; anything that
// would escape it is rejected.
func (h *GamesHandler) HandleFilePath(ctx context.Context, gameID int64, name string) (string, error) {
	game, err := h.store.GameByID(ctx, gameID)
	if err != nil {
		return "", err
	}
	if game.StoreDir == "" {
		return "", ports.ErrNotFound
	}

	if name == "" || name != filepath.Base(name) || strings.HasPrefix(name, ".") {
		return "", errors.New("invalid file name")
	}

	path := filepath.Join(game.StoreDir, name)
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		return "", ports.ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("checking file: %w", err)
	}
	if info.IsDir() {
		return "", ports.ErrNotFound
	}
	return path, nil
}
