package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/otterworks/gamescout/internal/domain/entities"
	"github.com/otterworks/gamescout/internal/domain/mocks"
	"github.com/otterworks/gamescout/internal/domain/ports"
)

func TestBestMatch(t *testing.T) {
	names := []string{"Catan", "Carcassonne", "Wingspan"}

	tests := []struct {
		candidate string
		want      string
		ok        bool
	}{
		{"Catan", "Catan", true},
		{"catan", "Catan", true},
		{"Katan", "Catan", true},
		{"wingspam", "Wingspan", true},
		{"Monopoly", "", false},
		{"", "", false},
	}
	for _, tt := range tests {
		got, ok := BestMatch(tt.candidate, names)
		assert.Equal(t, tt.ok, ok, tt.candidate)
		assert.Equal(t, tt.want, got, tt.candidate)
	}
}

func TestBestMatchThreshold(t *testing.T) {
	// "cat" vs "catan": distance 2 over length 5 -> 0.6 exactly, accepted.
	got, ok := BestMatch("cat", []string{"Catan"})
	assert.True(t, ok)
	assert.Equal(t, "Catan", got)

	// "ca" vs "catan": distance 3 over length 5 -> 0.4, rejected.
	_, ok = BestMatch("ca", []string{"Catan"})
	assert.False(t, ok)
}

func TestBestMatchTieLexicographic(t *testing.T) {
	// Both names are one edit away from the candidate; the tie resolves to
	// the lexicographically first name regardless of input order.
	got, ok := BestMatch("dart", []string{"dark", "darn"})
	require.True(t, ok)
	assert.Equal(t, "dark", got)

	got, ok = BestMatch("dart", []string{"darn", "dark"})
	require.True(t, ok)
	assert.Equal(t, "dark", got)
}

func newResolverFixture(t *testing.T) (*ResolverService, *mocks.GameStore, *mocks.Classifier) {
	t.Helper()
	store := mocks.NewGameStore()
	classifier := &mocks.Classifier{}
	return NewResolverService(store, classifier, zap.NewNop()), store, classifier
}

func TestResolveByExtraction(t *testing.T) {
	resolver, store, classifier := newResolverFixture(t)
	ctx := context.Background()

	_, err := store.CreateGame(ctx, "Catan", "")
	require.NoError(t, err)
	classifier.Extraction = &ports.NameExtraction{Name: "catan", Confidence: ports.ConfidenceHigh}

	game, err := resolver.Resolve(ctx, "how do I trade in catan?")
	require.NoError(t, err)
	require.NotNil(t, game)
	assert.Equal(t, "Catan", game.Name)
}

func TestResolveFuzzyTypo(t *testing.T) {
	resolver, store, classifier := newResolverFixture(t)
	ctx := context.Background()

	_, err := store.CreateGame(ctx, "Carcassonne", "")
	require.NoError(t, err)
	classifier.Extraction = &ports.NameExtraction{Name: "Carcasone", Confidence: ports.ConfidenceMedium}

	game, err := resolver.Resolve(ctx, "rules for carcasone?")
	require.NoError(t, err)
	require.NotNil(t, game)
	assert.Equal(t, "Carcassonne", game.Name)
}

func TestResolveFallsBackToHistory(t *testing.T) {
	resolver, store, classifier := newResolverFixture(t)
	ctx := context.Background()

	game, err := store.CreateGame(ctx, "Wingspan", "")
	require.NoError(t, err)
	require.NoError(t, store.AppendConversation(ctx, &entities.ConversationEntry{
		Role: entities.RoleAssistant, Text: "about wingspan", GameID: &game.ID,
	}))
	classifier.Extraction = &ports.NameExtraction{Name: "", Confidence: ports.ConfidenceLow}

	resolved, err := resolver.Resolve(ctx, "what about the eggs?")
	require.NoError(t, err)
	require.NotNil(t, resolved)
	assert.Equal(t, game.ID, resolved.ID)
}

func TestResolveHistoryPrefersMostRecent(t *testing.T) {
	resolver, store, classifier := newResolverFixture(t)
	ctx := context.Background()

	older, err := store.CreateGame(ctx, "Catan", "")
	require.NoError(t, err)
	newer, err := store.CreateGame(ctx, "Wingspan", "")
	require.NoError(t, err)
	require.NoError(t, store.AppendConversation(ctx, &entities.ConversationEntry{
		Role: entities.RoleAssistant, Text: "a", GameID: &older.ID,
	}))
	require.NoError(t, store.AppendConversation(ctx, &entities.ConversationEntry{
		Role: entities.RoleUser, Text: "b", GameID: nil,
	}))
	require.NoError(t, store.AppendConversation(ctx, &entities.ConversationEntry{
		Role: entities.RoleAssistant, Text: "c", GameID: &newer.ID,
	}))
	classifier.Extraction = nil

	resolved, err := resolver.Resolve(ctx, "and how long does it take?")
	require.NoError(t, err)
	require.NotNil(t, resolved)
	assert.Equal(t, newer.ID, resolved.ID)
}

func TestResolveUnresolvedIsNilNil(t *testing.T) {
	resolver, store, classifier := newResolverFixture(t)
	ctx := context.Background()

	_, err := store.CreateGame(ctx, "Catan", "")
	require.NoError(t, err)
	classifier.Extraction = &ports.NameExtraction{Name: "Monopoly", Confidence: ports.ConfidenceHigh}

	game, err := resolver.Resolve(ctx, "tell me about monopoly")
	require.NoError(t, err)
	assert.Nil(t, game)
}

func TestResolveExtractionErrorFallsThrough(t *testing.T) {
	resolver, store, classifier := newResolverFixture(t)
	ctx := context.Background()

	game, err := store.CreateGame(ctx, "Catan", "")
	require.NoError(t, err)
	require.NoError(t, store.AppendConversation(ctx, &entities.ConversationEntry{
		Role: entities.RoleAssistant, Text: "x", GameID: &game.ID,
	}))
	classifier.ExtractionErr = errors.New("model unavailable")

	resolved, err := resolver.Resolve(ctx, "anything")
	require.NoError(t, err)
	require.NotNil(t, resolved)
	assert.Equal(t, game.ID, resolved.ID)
}

func TestResolveNoGamesNoHistory(t *testing.T) {
	resolver, _, _ := newResolverFixture(t)

	game, err := resolver.Resolve(context.Background(), "hello there")
	require.NoError(t, err)
	assert.Nil(t, game)
}
