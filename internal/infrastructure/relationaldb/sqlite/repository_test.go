package sqlite

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/otterworks/gamescout/internal/domain/entities"
	"github.com/otterworks/gamescout/internal/domain/ports"
)

func newTestRepo(t *testing.T) *Repository {
	t.Helper()
	repo, err := NewRepository(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { repo.Close() })
	require.NoError(t, repo.EnsureSchema(context.Background()))
	return repo
}

func TestNewRepositoryRequiresPath(t *testing.T) {
	_, err := NewRepository("")
	assert.Error(t, err)
}

func TestCreateAndFindGame(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	game, err := repo.CreateGame(ctx, "Catan", "/data/games/1")
	require.NoError(t, err)
	assert.Positive(t, game.ID)
	assert.Equal(t, entities.StatusCreated, game.Status)

	byID, err := repo.GameByID(ctx, game.ID)
	require.NoError(t, err)
	assert.Equal(t, "Catan", byID.Name)
	assert.Equal(t, "/data/games/1", byID.StoreDir)
	assert.Nil(t, byID.Description)
	assert.Nil(t, byID.Metadata)
	assert.Nil(t, byID.LastResearchedAt)

	byName, err := repo.GameByName(ctx, "  cAtAn ")
	require.NoError(t, err)
	assert.Equal(t, game.ID, byName.ID)
}

func TestCreateGameDuplicateNameFails(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	_, err := repo.CreateGame(ctx, "Catan", "")
	require.NoError(t, err)
	_, err = repo.CreateGame(ctx, "CATAN", "")
	assert.Error(t, err, "names are unique case-insensitively")
}

func TestGameNotFound(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	_, err := repo.GameByID(ctx, 42)
	assert.True(t, errors.Is(err, ports.ErrNotFound))

	_, err = repo.GameByName(ctx, "nope")
	assert.True(t, errors.Is(err, ports.ErrNotFound))

	err = repo.UpdateStatus(ctx, 42, entities.StatusReady)
	assert.True(t, errors.Is(err, ports.ErrNotFound))
}

func TestUpdateGameFields(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	game, err := repo.CreateGame(ctx, "Catan", "")
	require.NoError(t, err)

	require.NoError(t, repo.SetStoreDir(ctx, game.ID, "/data/games/1"))
	require.NoError(t, repo.UpdateStatus(ctx, game.ID, entities.StatusResearching))
	require.NoError(t, repo.UpdateDescription(ctx, game.ID, "A trading game."))

	difficulty := 2.3
	videoURL := "https://youtu.be/abcdefghijk"
	require.NoError(t, repo.UpdateMetadata(ctx, game.ID, &entities.GameMetadata{
		DifficultyScore:  &difficulty,
		TutorialVideoURL: &videoURL,
	}))
	require.NoError(t, repo.TouchResearched(ctx, game.ID))

	got, err := repo.GameByID(ctx, game.ID)
	require.NoError(t, err)
	assert.Equal(t, "/data/games/1", got.StoreDir)
	assert.Equal(t, entities.StatusResearching, got.Status)
	require.NotNil(t, got.Description)
	assert.Equal(t, "A trading game.", *got.Description)
	require.NotNil(t, got.Metadata)
	assert.Equal(t, &difficulty, got.Metadata.DifficultyScore)
	assert.Nil(t, got.Metadata.PlayerCount)
	assert.Equal(t, &videoURL, got.Metadata.TutorialVideoURL)
	assert.NotNil(t, got.LastResearchedAt)
}

func TestListGamesFilterAndOrder(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	wingspan, err := repo.CreateGame(ctx, "Wingspan", "")
	require.NoError(t, err)
	_, err = repo.CreateGame(ctx, "azul", "")
	require.NoError(t, err)
	_, err = repo.CreateGame(ctx, "Catan", "")
	require.NoError(t, err)
	require.NoError(t, repo.UpdateStatus(ctx, wingspan.ID, entities.StatusReady))

	all, err := repo.ListGames(ctx, nil)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "azul", all[0].Name)
	assert.Equal(t, "Catan", all[1].Name)
	assert.Equal(t, "Wingspan", all[2].Name)

	ready := entities.StatusReady
	filtered, err := repo.ListGames(ctx, &ready)
	require.NoError(t, err)
	require.Len(t, filtered, 1)
	assert.Equal(t, "Wingspan", filtered[0].Name)

	names, err := repo.ListGameNames(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"azul", "Catan", "Wingspan"}, names)
}

func TestSourcesRoundTrip(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	game, err := repo.CreateGame(ctx, "Catan", "")
	require.NoError(t, err)

	localPath := "/data/games/1/rules.html"
	first := &entities.SourceRecord{
		GameID: game.ID, Type: entities.SourceWebpage,
		OriginURL: "https://example.com/rules", Title: "Rules",
		LocalPath: &localPath,
	}
	require.NoError(t, repo.AddSource(ctx, first))
	assert.Positive(t, first.ID)

	require.NoError(t, repo.AddSource(ctx, &entities.SourceRecord{
		GameID: game.ID, Type: entities.SourceLink, OriginURL: "https://example.com/forum",
	}))

	sources, err := repo.ListSources(ctx, game.ID)
	require.NoError(t, err)
	require.Len(t, sources, 2)
	assert.Equal(t, entities.SourceWebpage, sources[0].Type)
	require.NotNil(t, sources[0].LocalPath)
	assert.Equal(t, localPath, *sources[0].LocalPath)
	assert.Nil(t, sources[1].LocalPath)

	require.NoError(t, repo.DeleteSources(ctx, game.ID))
	sources, err = repo.ListSources(ctx, game.ID)
	require.NoError(t, err)
	assert.Empty(t, sources)
}

func TestConversationLogAndTaggedLookup(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	catan, err := repo.CreateGame(ctx, "Catan", "")
	require.NoError(t, err)
	wingspan, err := repo.CreateGame(ctx, "Wingspan", "")
	require.NoError(t, err)

	require.NoError(t, repo.AppendConversation(ctx, &entities.ConversationEntry{
		Role: entities.RoleUser, Text: "how do I trade?",
	}))
	require.NoError(t, repo.AppendConversation(ctx, &entities.ConversationEntry{
		Role: entities.RoleAssistant, Text: "about catan", GameID: &catan.ID,
	}))
	require.NoError(t, repo.AppendConversation(ctx, &entities.ConversationEntry{
		Role: entities.RoleAssistant, Text: "about wingspan", GameID: &wingspan.ID,
	}))
	require.NoError(t, repo.AppendConversation(ctx, &entities.ConversationEntry{
		Role: entities.RoleUser, Text: "thanks",
	}))

	recent, err := repo.RecentConversation(ctx, 3)
	require.NoError(t, err)
	require.Len(t, recent, 3)
	assert.Equal(t, "about catan", recent[0].Text, "chronological order, oldest first")
	assert.Equal(t, "thanks", recent[2].Text)

	gameID, err := repo.LastTaggedGameID(ctx, 200)
	require.NoError(t, err)
	assert.Equal(t, wingspan.ID, gameID)

	// A window of 1 only sees the untagged "thanks" entry.
	_, err = repo.LastTaggedGameID(ctx, 1)
	assert.True(t, errors.Is(err, ports.ErrNotFound))
}

func TestLastTaggedGameIDEmptyLog(t *testing.T) {
	repo := newTestRepo(t)

	_, err := repo.LastTaggedGameID(context.Background(), 200)
	assert.True(t, errors.Is(err, ports.ErrNotFound))
}
