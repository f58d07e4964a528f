package youtube

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/otterworks/gamescout/internal/domain/ports"
	"github.com/otterworks/gamescout/internal/infrastructure/config"
)

func TestNewClientRequiresAPIKey(t *testing.T) {
	_, err := NewClient(context.Background(), config.YouTubeConfig{})
	assert.Error(t, err)
}

func TestExtractVideoID(t *testing.T) {
	assert.Equal(t, "dQw4w9WgXcQ", extractVideoID("https://www.youtube.com/watch?v=dQw4w9WgXcQ"))
	assert.Equal(t, "dQw4w9WgXcQ", extractVideoID("https://youtu.be/dQw4w9WgXcQ?t=10"))
	assert.Equal(t, "dQw4w9WgXcQ", extractVideoID("https://www.youtube.com/embed/dQw4w9WgXcQ"))
	assert.Empty(t, extractVideoID("https://vimeo.com/12345"))
	assert.Empty(t, extractVideoID(""))
}

func TestValidateVideo(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("url") == "https://www.youtube.com/watch?v=okokokokok1" {
			w.Write([]byte(`{"title": "ok"}`))
			return
		}
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	v := NewValidatorWithEndpoint(srv.URL)
	ctx := context.Background()

	assert.True(t, v.ValidateVideo(ctx, "https://www.youtube.com/watch?v=okokokokok1"))
	assert.False(t, v.ValidateVideo(ctx, "https://www.youtube.com/watch?v=gonegonegon"))
	assert.False(t, v.ValidateVideo(ctx, "https://example.com/not-youtube"))
}

func TestFetchTranscript(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Query().Get("v") {
		case "hascaptions":
			w.Write([]byte(`<?xml version="1.0" encoding="utf-8"?>
<transcript>
  <text start="0" dur="2.5">welcome to this tutorial</text>
  <text start="2.5" dur="3">today we learn &amp; play</text>
  <text start="5.5" dur="1">  </text>
</transcript>`))
		case "nocaptions":
			// 200 with empty body, as the real endpoint does.
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer srv.Close()

	f := NewTranscriptsWithEndpoint(srv.URL)
	ctx := context.Background()

	transcript, err := f.FetchTranscript(ctx, "hascaptions")
	require.NoError(t, err)
	assert.Equal(t, "welcome to this tutorial today we learn & play", transcript)

	_, err = f.FetchTranscript(ctx, "nocaptions")
	assert.True(t, errors.Is(err, ports.ErrNotFound))

	_, err = f.FetchTranscript(ctx, "missing")
	assert.True(t, errors.Is(err, ports.ErrNotFound))
}
