package entities

import (
	"strings"
	"time"
)

// SourceType categorizes a discovered source.
type SourceType string

// Known source types. Unknown declared types map to SourceOther.
const (
	SourceDocument SourceType = "document"
	SourceWebpage  SourceType = "webpage"
	SourceLink     SourceType = "link"
	SourceVideo    SourceType = "video"
	SourceText     SourceType = "text"
	SourceOther    SourceType = "other"
)

// SourceRecord is one discovered document or reference tied to a game.
// LocalPath is nil for reference-only sources that were never downloaded.
// Duplicate origin URLs are tolerated across runs; deduplication happens
// within a single research run only.
type SourceRecord struct {
	ID        int64      `json:"id"`
	GameID    int64      `json:"game_id"`
	Type      SourceType `json:"source_type"`
	OriginURL string     `json:"origin_url"`
	Title     string     `json:"title,omitempty"`
	LocalPath *string    `json:"local_path,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
}

// TextArtifactPath returns the path of the plain-text artifact for this
// source, if one exists. Webpages keep their extracted text in a companion
// .txt next to the saved HTML; video transcripts and plain-text sources are
// stored as .txt directly. Binary documents have no text artifact: their
// extraction is best-effort and currently unimplemented.
func (s *SourceRecord) TextArtifactPath() (string, bool) {
	if s.LocalPath == nil {
		return "", false
	}
	path := *s.LocalPath
	switch s.Type {
	case SourceWebpage:
		if strings.HasSuffix(path, ".html") {
			return strings.TrimSuffix(path, ".html") + ".txt", true
		}
		return "", false
	case SourceVideo, SourceText:
		if strings.HasSuffix(path, ".txt") {
			return path, true
		}
		return "", false
	default:
		return "", false
	}
}
