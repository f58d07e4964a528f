package services

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/otterworks/gamescout/internal/domain/entities"
	"github.com/otterworks/gamescout/internal/domain/ports"
)

const (
	// MaxResearchSources caps the candidate list from web research.
	MaxResearchSources = 30
	// MetadataContentCap bounds the page text handed to metadata extraction.
	MetadataContentCap = 8000
	// descriptionSourceCap and descriptionCharCap bound the summary fed to
	// description generation.
	descriptionSourceCap = 5
	descriptionCharCap   = 1000
	// downloadWorkers bounds parallel source downloads.
	downloadWorkers = 4
)

// videoQueryTemplates are the fixed phrasing variants for tutorial search.
var videoQueryTemplates = []string{
	"how to play %s tutorial",
	"%s board game rules",
	"learn to play %s",
}

// ResearchResult summarizes a completed research run.
type ResearchResult struct {
	GameID      int64                  `json:"game_id"`
	Name        string                 `json:"name"`
	Status      entities.GameStatus    `json:"status"`
	SourceCount int                    `json:"source_count"`
	Downloaded  int                    `json:"downloaded"`
	Linked      int                    `json:"linked"`
	Chunks      int                    `json:"chunks"`
	Description string                 `json:"description,omitempty"`
	Metadata    *entities.GameMetadata `json:"metadata,omitempty"`
}

// ResearchDeps bundles the collaborators of the research pipeline.
type ResearchDeps struct {
	Store       ports.GameStore
	Fetcher     ports.Fetcher
	Web         ports.WebSearcher
	Classifier  ports.Classifier
	Reference   ports.ReferenceLookup
	Videos      ports.VideoSearcher // nil when no video-search credentials are configured
	Validator   ports.VideoValidator
	Transcripts ports.TranscriptFetcher
	Ingestor    *IngestService
	// ExtractText converts fetched HTML to plain text.
	ExtractText func([]byte) string
	// GamesDir is the root under which per-game store directories live.
	GamesDir string
}

// ResearchService drives the end-to-end research workflow for a game.
type ResearchService struct {
	deps ResearchDeps
	log  *zap.Logger
}

// NewResearchService creates a new research service.
func NewResearchService(deps ResearchDeps, log *zap.Logger) *ResearchService {
	return &ResearchService{deps: deps, log: log}
}

// Research runs the full research pipeline for the named game. An existing
// ready game short-circuits unless force is set; force re-runs the pipeline
// and overwrites prior sources, metadata and index. Partial success is
// success: a run that discovers nothing usable still completes as ready.
func (s *ResearchService) Research(ctx context.Context, name string, force bool) (*ResearchResult, error) {
	game, err := s.getOrCreate(ctx, name)
	if err != nil {
		return nil, err
	}
	log := s.log.With(zap.Int64("game_id", game.ID), zap.String("name", game.Name))

	if game.Status == entities.StatusReady && !force {
		log.Info("game already researched, skipping")
		return s.existingResult(ctx, game)
	}

	// Persist the researching state before any network call so a crash
	// mid-run is observable.
	if game.Status != entities.StatusResearching {
		if !game.Status.CanTransitionTo(entities.StatusResearching) {
			return nil, fmt.Errorf("game %q in status %s cannot be researched", game.Name, game.Status)
		}
		if err := s.deps.Store.UpdateStatus(ctx, game.ID, entities.StatusResearching); err != nil {
			return nil, s.fail(ctx, game.ID, fmt.Errorf("marking game researching: %w", err))
		}
	}

	if force {
		if err := s.deps.Store.DeleteSources(ctx, game.ID); err != nil {
			return nil, s.fail(ctx, game.ID, fmt.Errorf("clearing prior sources: %w", err))
		}
	}

	referenceURL := s.lookupReference(ctx, game.Name)
	log.Info("reference lookup finished", zap.String("url", referenceURL))

	// Fan out the three independent fetch tasks. Each task settles with its
	// own result or error; no failure cancels a sibling.
	var (
		wg       sync.WaitGroup
		links    []ports.SourceLink
		linksErr error
		metadata *entities.GameMetadata
		mdErr    error
		video    *ports.VideoCandidate
	)
	wg.Add(3)
	go func() {
		defer wg.Done()
		links, linksErr = s.deps.Web.ResearchLinks(ctx, game.Name, MaxResearchSources)
	}()
	go func() {
		defer wg.Done()
		metadata, mdErr = s.fetchMetadata(ctx, game.Name, referenceURL)
	}()
	go func() {
		defer wg.Done()
		video = s.findTutorial(ctx, game.Name)
	}()
	wg.Wait()

	if linksErr != nil {
		log.Warn("web research failed, continuing with seed sources only", zap.Error(linksErr))
		links = nil
	}
	if mdErr != nil {
		log.Warn("metadata fetch failed, omitting metadata fields", zap.Error(mdErr))
		metadata = nil
	}
	if video != nil && !s.deps.Validator.ValidateVideo(ctx, video.URL) {
		log.Warn("tutorial video failed validation, dropping", zap.String("url", video.URL))
		video = nil
	}

	seeds := s.seedSources(game.Name, referenceURL, links)
	downloaded, linked := s.saveSources(ctx, game, seeds)
	log.Info("sources saved",
		zap.Int("candidates", len(seeds)),
		zap.Int("downloaded", downloaded),
		zap.Int("linked", linked))

	chunks, err := s.deps.Ingestor.Ingest(ctx, game.ID)
	if err != nil {
		// The index is a derived artifact; its failure does not fail the run.
		log.Warn("index rebuild failed", zap.Error(err))
	}

	description := s.generateDescription(ctx, game)

	if metadata == nil {
		metadata = &entities.GameMetadata{}
	}
	if video != nil {
		videoURL := video.URL
		metadata.TutorialVideoURL = &videoURL
	}

	if err := s.deps.Store.UpdateMetadata(ctx, game.ID, metadata); err != nil {
		return nil, s.fail(ctx, game.ID, fmt.Errorf("persisting metadata: %w", err))
	}
	if description != "" {
		if err := s.deps.Store.UpdateDescription(ctx, game.ID, description); err != nil {
			return nil, s.fail(ctx, game.ID, fmt.Errorf("persisting description: %w", err))
		}
	}
	if err := s.deps.Store.UpdateStatus(ctx, game.ID, entities.StatusReady); err != nil {
		return nil, s.fail(ctx, game.ID, fmt.Errorf("marking game ready: %w", err))
	}
	if err := s.deps.Store.TouchResearched(ctx, game.ID); err != nil {
		log.Warn("updating research timestamp failed", zap.Error(err))
	}

	sources, err := s.deps.Store.ListSources(ctx, game.ID)
	if err != nil {
		return nil, fmt.Errorf("listing sources: %w", err)
	}

	return &ResearchResult{
		GameID:      game.ID,
		Name:        game.Name,
		Status:      entities.StatusReady,
		SourceCount: len(sources),
		Downloaded:  downloaded,
		Linked:      linked,
		Chunks:      chunks,
		Description: description,
		Metadata:    metadata,
	}, nil
}

// getOrCreate finds the game by case-insensitive name or creates it, keying
// its store directory by the assigned ID.
func (s *ResearchService) getOrCreate(ctx context.Context, name string) (*entities.Game, error) {
	game, err := s.deps.Store.GameByName(ctx, name)
	if err == nil {
		return game, nil
	}
	if !errors.Is(err, ports.ErrNotFound) {
		return nil, fmt.Errorf("looking up game: %w", err)
	}

	game, err = s.deps.Store.CreateGame(ctx, strings.TrimSpace(name), "")
	if err != nil {
		return nil, fmt.Errorf("creating game: %w", err)
	}

	dir := filepath.Join(s.deps.GamesDir, strconv.FormatInt(game.ID, 10))
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, s.fail(ctx, game.ID, fmt.Errorf("creating store directory: %w", err))
	}
	if err := s.deps.Store.SetStoreDir(ctx, game.ID, dir); err != nil {
		return nil, s.fail(ctx, game.ID, fmt.Errorf("persisting store directory: %w", err))
	}
	game.StoreDir = dir
	return game, nil
}

// referenceStrategy is one named leg of the reference-lookup fallback chain.
type referenceStrategy struct {
	name   string
	lookup func(ctx context.Context, name string) (string, error)
}

// referenceStrategies returns the ordered fallback chain: the structured
// exact-match API first, then a scoped web search. The fallback fires
// unconditionally on primary failure; the primary is never retried.
func (s *ResearchService) referenceStrategies() []referenceStrategy {
	return []referenceStrategy{
		{name: "reference_api_exact", lookup: s.deps.Reference.LookupExact},
		{name: "web_search", lookup: s.deps.Web.FindReferenceURL},
	}
}

func (s *ResearchService) lookupReference(ctx context.Context, name string) string {
	for _, strat := range s.referenceStrategies() {
		u, err := strat.lookup(ctx, name)
		if err != nil {
			s.log.Info("reference strategy failed",
				zap.String("strategy", strat.name),
				zap.Error(err))
			continue
		}
		if u != "" {
			return u
		}
	}
	return ""
}

// fetchMetadata fetches the reference page and extracts structured fields
// from its visible text. If the page is unreachable or extraction fails,
// metadata is omitted entirely, never fabricated from other results.
func (s *ResearchService) fetchMetadata(ctx context.Context, name, referenceURL string) (*entities.GameMetadata, error) {
	if referenceURL == "" {
		return nil, nil
	}

	res, err := s.deps.Fetcher.Get(ctx, referenceURL)
	if err != nil {
		return nil, fmt.Errorf("fetching reference page: %w", err)
	}

	content := s.deps.ExtractText(res.Body)
	if len(content) > MetadataContentCap {
		content = content[:MetadataContentCap]
	}

	md, err := s.deps.Classifier.ExtractMetadata(ctx, name, content)
	if err != nil {
		return nil, fmt.Errorf("extracting metadata: %w", err)
	}
	if md == nil {
		md = &entities.GameMetadata{}
	}
	// The page was reachable, so the link is safe to surface.
	md.ReferenceURL = &referenceURL
	return md, nil
}

// findTutorial runs the tutorial-video fallback chain: the video-search API
// with deterministic ranking, then a generic web search.
func (s *ResearchService) findTutorial(ctx context.Context, name string) *ports.VideoCandidate {
	if s.deps.Videos != nil {
		queries := make([]string, 0, len(videoQueryTemplates))
		for _, tpl := range videoQueryTemplates {
			queries = append(queries, fmt.Sprintf(tpl, name))
		}
		candidates, err := s.deps.Videos.SearchVideos(ctx, queries)
		if err == nil {
			if best, score := BestVideo(candidates, name); best != nil {
				s.log.Info("tutorial video ranked",
					zap.String("title", best.Title),
					zap.Float64("score", score))
				return best
			}
		} else {
			s.log.Warn("video search failed, falling back to web search", zap.Error(err))
		}
	}

	candidate, err := s.deps.Web.FindTutorialVideo(ctx, name)
	if err != nil {
		s.log.Info("no tutorial video found", zap.Error(err))
		return nil
	}
	return candidate
}

// seedSources combines deterministic seeds with discovered links and
// deduplicates by normalized URL, preserving first-seen order.
func (s *ResearchService) seedSources(name, referenceURL string, links []ports.SourceLink) []ports.SourceLink {
	seeds := []ports.SourceLink{{
		Title: name + " (Wikipedia)",
		URL:   "https://en.wikipedia.org/wiki/" + url.PathEscape(strings.ReplaceAll(strings.TrimSpace(name), " ", "_")),
		Type:  entities.SourceWebpage,
	}}
	if referenceURL != "" {
		seeds = append(seeds, ports.SourceLink{
			Title: name + " (reference)",
			URL:   referenceURL,
			Type:  entities.SourceWebpage,
		})
	}
	seeds = append(seeds, links...)

	seen := make(map[string]bool, len(seeds))
	uniq := make([]ports.SourceLink, 0, len(seeds))
	for _, link := range seeds {
		key := normalizeURL(link.URL)
		if key == "" || seen[key] {
			continue
		}
		seen[key] = true
		uniq = append(uniq, link)
	}
	return uniq
}

// saveSources downloads or records each deduplicated source. Downloads run
// in a bounded worker pool; any single source's failure is logged and
// skipped, never aborting the run.
func (s *ResearchService) saveSources(ctx context.Context, game *entities.Game, links []ports.SourceLink) (downloaded, linked int) {
	var mu sync.Mutex
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(downloadWorkers)

	for i, link := range links {
		g.Go(func() error {
			d, l := s.saveSource(gctx, game, link, i)
			mu.Lock()
			downloaded += d
			linked += l
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait() // workers never return errors; failures are per-source
	return downloaded, linked
}

// saveSource dispatches one source by its declared type and content:
// videos get transcripts fetched, documents and webpages are downloaded,
// everything else is recorded as a reference-only link.
func (s *ResearchService) saveSource(ctx context.Context, game *entities.Game, link ports.SourceLink, ordinal int) (downloaded, linked int) {
	if videoID := ExtractVideoID(link.URL); videoID != "" {
		return s.saveVideoSource(ctx, game, link, videoID)
	}

	if link.Type == entities.SourceLink {
		s.recordSource(ctx, game.ID, entities.SourceLink, link, nil)
		return 0, 1
	}

	res, err := s.deps.Fetcher.Get(ctx, link.URL)
	if err != nil {
		s.log.Warn("source fetch failed, recording as link",
			zap.String("url", link.URL),
			zap.Error(err))
		s.recordSource(ctx, game.ID, entities.SourceLink, link, nil)
		return 0, 1
	}

	ct := strings.ToLower(res.ContentType)
	switch {
	case strings.Contains(ct, "application/pdf") || strings.HasSuffix(strings.ToLower(link.URL), ".pdf"):
		path := filepath.Join(game.StoreDir, sourceFilename(link.URL, ordinal, ".pdf"))
		if err := os.WriteFile(path, res.Body, 0o644); err != nil {
			s.log.Warn("writing document failed", zap.String("url", link.URL), zap.Error(err))
			s.recordSource(ctx, game.ID, entities.SourceLink, link, nil)
			return 0, 1
		}
		s.recordSource(ctx, game.ID, entities.SourceDocument, link, &path)
		return 1, 0

	case strings.Contains(ct, "text/plain"):
		path := filepath.Join(game.StoreDir, sourceFilename(link.URL, ordinal, ".txt"))
		if err := os.WriteFile(path, res.Body, 0o644); err != nil {
			s.log.Warn("writing text failed", zap.String("url", link.URL), zap.Error(err))
			s.recordSource(ctx, game.ID, entities.SourceLink, link, nil)
			return 0, 1
		}
		s.recordSource(ctx, game.ID, entities.SourceText, link, &path)
		return 1, 0

	default:
		htmlPath := filepath.Join(game.StoreDir, sourceFilename(link.URL, ordinal, ".html"))
		if err := os.WriteFile(htmlPath, res.Body, 0o644); err != nil {
			s.log.Warn("writing page failed", zap.String("url", link.URL), zap.Error(err))
			s.recordSource(ctx, game.ID, entities.SourceLink, link, nil)
			return 0, 1
		}
		text := s.deps.ExtractText(res.Body)
		txtPath := strings.TrimSuffix(htmlPath, ".html") + ".txt"
		if err := os.WriteFile(txtPath, []byte(text), 0o644); err != nil {
			s.log.Warn("writing page text failed", zap.String("url", link.URL), zap.Error(err))
		}
		s.recordSource(ctx, game.ID, entities.SourceWebpage, link, &htmlPath)
		return 1, 0
	}
}

// saveVideoSource stores a video's transcript as a text artifact when
// captions exist, otherwise records the video as reference-only.
func (s *ResearchService) saveVideoSource(ctx context.Context, game *entities.Game, link ports.SourceLink, videoID string) (downloaded, linked int) {
	transcript, err := s.deps.Transcripts.FetchTranscript(ctx, videoID)
	if err != nil || strings.TrimSpace(transcript) == "" {
		if err != nil {
			s.log.Info("no transcript for video",
				zap.String("video_id", videoID),
				zap.Error(err))
		}
		s.recordSource(ctx, game.ID, entities.SourceVideo, link, nil)
		return 0, 1
	}

	path := filepath.Join(game.StoreDir, "youtube_"+videoID+".txt")
	content := fmt.Sprintf("YouTube Video: %s\nURL: %s\n\n%s", link.Title, link.URL, transcript)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		s.log.Warn("writing transcript failed", zap.String("video_id", videoID), zap.Error(err))
		s.recordSource(ctx, game.ID, entities.SourceVideo, link, nil)
		return 0, 1
	}
	s.recordSource(ctx, game.ID, entities.SourceVideo, link, &path)
	return 1, 0
}

func (s *ResearchService) recordSource(ctx context.Context, gameID int64, sourceType entities.SourceType, link ports.SourceLink, localPath *string) {
	err := s.deps.Store.AddSource(ctx, &entities.SourceRecord{
		GameID:    gameID,
		Type:      sourceType,
		OriginURL: link.URL,
		Title:     link.Title,
		LocalPath: localPath,
	})
	if err != nil {
		s.log.Warn("recording source failed",
			zap.String("url", link.URL),
			zap.Error(err))
	}
}

// generateDescription summarizes the first few text-bearing sources into a
// short description. Failures are logged and leave the description empty.
func (s *ResearchService) generateDescription(ctx context.Context, game *entities.Game) string {
	sources, err := s.deps.Store.ListSources(ctx, game.ID)
	if err != nil {
		s.log.Warn("listing sources for description failed", zap.Error(err))
		return ""
	}

	var parts []string
	for _, src := range sources {
		if len(parts) >= descriptionSourceCap {
			break
		}
		path, ok := src.TextArtifactPath()
		if !ok {
			continue
		}
		data, err := os.ReadFile(path)
		if err != nil {
			continue
		}
		text := string(data)
		if len(text) > descriptionCharCap {
			text = text[:descriptionCharCap]
		}
		parts = append(parts, fmt.Sprintf("Source: %s\n%s", src.Title, text))
	}
	if len(parts) == 0 {
		return ""
	}

	description, err := s.deps.Classifier.GenerateDescription(ctx, game.Name, strings.Join(parts, "\n\n"))
	if err != nil {
		s.log.Warn("description generation failed", zap.Error(err))
		return ""
	}
	return strings.TrimSpace(description)
}

// existingResult builds the short-circuit result for an already-ready game.
func (s *ResearchService) existingResult(ctx context.Context, game *entities.Game) (*ResearchResult, error) {
	sources, err := s.deps.Store.ListSources(ctx, game.ID)
	if err != nil {
		return nil, fmt.Errorf("listing sources: %w", err)
	}
	result := &ResearchResult{
		GameID:      game.ID,
		Name:        game.Name,
		Status:      game.Status,
		SourceCount: len(sources),
		Metadata:    game.Metadata,
	}
	if game.Description != nil {
		result.Description = *game.Description
	}
	return result, nil
}

// fail flips the game to failed and returns the original error.
func (s *ResearchService) fail(ctx context.Context, gameID int64, err error) error {
	if statusErr := s.deps.Store.UpdateStatus(ctx, gameID, entities.StatusFailed); statusErr != nil {
		s.log.Error("marking game failed also failed",
			zap.Int64("game_id", gameID),
			zap.Error(statusErr))
	}
	return err
}

// normalizeURL canonicalizes a URL for in-run deduplication.
func normalizeURL(raw string) string {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil || u.Host == "" {
		return strings.TrimSpace(raw)
	}
	u.Fragment = ""
	u.Scheme = strings.ToLower(u.Scheme)
	u.Host = strings.ToLower(u.Host)
	u.Path = strings.TrimSuffix(u.Path, "/")
	return u.String()
}

// sourceFilename derives a safe local filename from a URL, falling back to
// an ordinal-based name when the URL path has no usable base.
func sourceFilename(rawURL string, ordinal int, ext string) string {
	base := ""
	if u, err := url.Parse(rawURL); err == nil {
		base = filepath.Base(u.Path)
	}
	if base == "" || base == "." || base == "/" {
		base = fmt.Sprintf("source_%d", ordinal)
	}
	base = url.PathEscape(base)
	if !strings.HasSuffix(strings.ToLower(base), ext) {
		base += ext
	}
	return base
}
