package youtube

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"time"
)

// DefaultOEmbedEndpoint is YouTube's oEmbed endpoint. It answers 200 for
// public, embeddable videos and 4xx for removed or private ones, which makes
// it a cheap existence check that needs no API key.
const DefaultOEmbedEndpoint = "https://www.youtube.com/oembed"

// validationTimeout bounds a single validation request.
const validationTimeout = 10 * time.Second

// Validator implements ports.VideoValidator via the oEmbed endpoint.
type Validator struct {
	client   *http.Client
	endpoint string
}

// NewValidator creates a new oEmbed-based validator.
func NewValidator() *Validator {
	return &Validator{
		client:   &http.Client{Timeout: validationTimeout},
		endpoint: DefaultOEmbedEndpoint,
	}
}

// NewValidatorWithEndpoint creates a validator against a custom endpoint.
func NewValidatorWithEndpoint(endpoint string) *Validator {
	v := NewValidator()
	v.endpoint = endpoint
	return v
}

// ValidateVideo reports whether the video URL points at a watchable video.
// Any request failure counts as invalid; a dead link in stored metadata is
// worse than a dropped one.
func (v *Validator) ValidateVideo(ctx context.Context, videoURL string) bool {
	id := extractVideoID(videoURL)
	if id == "" {
		return false
	}

	checkURL := fmt.Sprintf("%s?url=%s&format=json",
		v.endpoint,
		url.QueryEscape("https://www.youtube.com/watch?v="+id))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, checkURL, nil)
	if err != nil {
		return false
	}
	resp, err := v.client.Do(req)
	if err != nil {
		return false
	}
	defer resp.Body.Close()

	return resp.StatusCode == http.StatusOK
}
