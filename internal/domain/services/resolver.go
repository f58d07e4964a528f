package services

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/agnivade/levenshtein"
	"go.uber.org/zap"

	"github.com/otterworks/gamescout/internal/domain/entities"
	"github.com/otterworks/gamescout/internal/domain/ports"
)

const (
	// FuzzyThreshold is the minimum normalized similarity for a name match.
	FuzzyThreshold = 0.6
	// HistoryWindow bounds how far back conversation history is scanned for
	// a tagged game.
	HistoryWindow = 200
)

// ResolverService maps free-text user input to a known game. It never
// creates games; an input that matches nothing resolves to nil without error.
type ResolverService struct {
	store      ports.GameStore
	classifier ports.Classifier
	log        *zap.Logger
}

// NewResolverService creates a new resolver service.
func NewResolverService(store ports.GameStore, classifier ports.Classifier, log *zap.Logger) *ResolverService {
	return &ResolverService{
		store:      store,
		classifier: classifier,
		log:        log,
	}
}

// Resolve identifies the game the user text refers to. Resolution tries, in
// order: structured name extraction with fuzzy matching against known games,
// then the most recent tagged entry in the conversation history. A nil game
// with nil error means unresolved, which callers treat as general chat.
func (s *ResolverService) Resolve(ctx context.Context, userText string) (*entities.Game, error) {
	names, err := s.store.ListGameNames(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing game names: %w", err)
	}

	if name, ok := s.extractAndMatch(ctx, userText, names); ok {
		game, err := s.store.GameByName(ctx, name)
		if err != nil {
			return nil, fmt.Errorf("loading matched game %q: %w", name, err)
		}
		return game, nil
	}

	gameID, err := s.store.LastTaggedGameID(ctx, HistoryWindow)
	if errors.Is(err, ports.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("scanning conversation history: %w", err)
	}

	game, err := s.store.GameByID(ctx, gameID)
	if errors.Is(err, ports.ErrNotFound) {
		// Tagged game was deleted out from under the log.
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("loading game %d from history: %w", gameID, err)
	}
	s.log.Debug("resolved game from conversation history",
		zap.Int64("game_id", game.ID),
		zap.String("name", game.Name))
	return game, nil
}

// extractAndMatch runs the structured extraction and fuzzy-matches the
// candidate against known names. Extraction failures are logged and treated
// as "no candidate" so resolution can fall through to history.
func (s *ResolverService) extractAndMatch(ctx context.Context, userText string, names []string) (string, bool) {
	if len(names) == 0 {
		return "", false
	}

	extraction, err := s.classifier.ExtractGameName(ctx, userText, names)
	if err != nil {
		s.log.Warn("game name extraction failed", zap.Error(err))
		return "", false
	}
	if extraction == nil || extraction.Name == "" {
		return "", false
	}

	match, ok := BestMatch(extraction.Name, names)
	if !ok {
		s.log.Debug("extracted name matched no known game",
			zap.String("candidate", extraction.Name),
			zap.String("confidence", string(extraction.Confidence)))
		return "", false
	}
	return match, true
}

// BestMatch fuzzy-matches a candidate name against known names using
// normalized Levenshtein similarity. Ties resolve to the lexicographically
// first name; matches below FuzzyThreshold are rejected.
func BestMatch(candidate string, names []string) (string, bool) {
	sorted := append([]string(nil), names...)
	sort.Strings(sorted)

	best := ""
	bestScore := 0.0
	for _, name := range sorted {
		score := similarity(candidate, name)
		if score > bestScore {
			best = name
			bestScore = score
		}
	}
	if bestScore < FuzzyThreshold {
		return "", false
	}
	return best, true
}

// similarity is 1 - editDistance/maxLen over normalized names, in [0,1].
func similarity(a, b string) float64 {
	na, nb := entities.NormalizeName(a), entities.NormalizeName(b)
	if na == nb {
		return 1
	}
	longest := len([]rune(na))
	if l := len([]rune(nb)); l > longest {
		longest = l
	}
	if longest == 0 {
		return 0
	}
	dist := levenshtein.ComputeDistance(na, nb)
	return 1 - float64(dist)/float64(longest)
}
