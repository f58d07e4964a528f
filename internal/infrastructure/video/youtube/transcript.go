package youtube

import (
	"context"
	"encoding/xml"
	"fmt"
	"html"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/otterworks/gamescout/internal/domain/ports"
)

// DefaultTimedTextEndpoint serves auto-generated and uploaded captions.
const DefaultTimedTextEndpoint = "https://video.google.com/timedtext"

const transcriptTimeout = 20 * time.Second

var videoIDPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?:youtube\.com/watch\?v=|youtu\.be/)([a-zA-Z0-9_-]{11})`),
	regexp.MustCompile(`youtube\.com/embed/([a-zA-Z0-9_-]{11})`),
}

// extractVideoID extracts the video ID from a YouTube URL, or "".
func extractVideoID(videoURL string) string {
	for _, p := range videoIDPatterns {
		if m := p.FindStringSubmatch(videoURL); m != nil {
			return m[1]
		}
	}
	return ""
}

// Transcripts implements ports.TranscriptFetcher via the timedtext endpoint.
type Transcripts struct {
	client   *http.Client
	endpoint string
	language string
}

// NewTranscripts creates a transcript fetcher for English captions.
func NewTranscripts() *Transcripts {
	return &Transcripts{
		client:   &http.Client{Timeout: transcriptTimeout},
		endpoint: DefaultTimedTextEndpoint,
		language: "en",
	}
}

// NewTranscriptsWithEndpoint creates a fetcher against a custom endpoint.
func NewTranscriptsWithEndpoint(endpoint string) *Transcripts {
	t := NewTranscripts()
	t.endpoint = endpoint
	return t
}

// timedText mirrors the timedtext XML document.
type timedText struct {
	XMLName xml.Name `xml:"transcript"`
	Texts   []string `xml:"text"`
}

// FetchTranscript fetches the caption track of a video and joins it into
// plain text. Videos without captions return ErrNotFound.
func (t *Transcripts) FetchTranscript(ctx context.Context, videoID string) (string, error) {
	fetchURL := fmt.Sprintf("%s?lang=%s&v=%s",
		t.endpoint, url.QueryEscape(t.language), url.QueryEscape(videoID))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fetchURL, nil)
	if err != nil {
		return "", fmt.Errorf("building transcript request: %w", err)
	}
	resp, err := t.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("fetching transcript: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("fetching transcript for %s: status %d: %w",
			videoID, resp.StatusCode, ports.ErrNotFound)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("reading transcript: %w", err)
	}
	// The endpoint answers 200 with an empty body when no caption track
	// exists for the requested language.
	if len(strings.TrimSpace(string(body))) == 0 {
		return "", fmt.Errorf("no captions for %s: %w", videoID, ports.ErrNotFound)
	}

	var doc timedText
	if err := xml.Unmarshal(body, &doc); err != nil {
		return "", fmt.Errorf("parsing transcript for %s: %w", videoID, err)
	}

	parts := make([]string, 0, len(doc.Texts))
	for _, text := range doc.Texts {
		text = strings.TrimSpace(html.UnescapeString(text))
		if text != "" {
			parts = append(parts, text)
		}
	}
	if len(parts) == 0 {
		return "", fmt.Errorf("empty captions for %s: %w", videoID, ports.ErrNotFound)
	}
	return strings.Join(parts, " "), nil
}
