package fetch

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGet(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Contains(t, r.Header.Get("User-Agent"), "gamescout")
		switch r.URL.Path {
		case "/page":
			w.Header().Set("Content-Type", "text/html; charset=utf-8")
			w.Write([]byte("<html><body>hello</body></html>"))
		case "/missing":
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer srv.Close()

	c := NewClient(0)
	ctx := context.Background()

	res, err := c.Get(ctx, srv.URL+"/page")
	require.NoError(t, err)
	assert.Equal(t, "text/html; charset=utf-8", res.ContentType)
	assert.Contains(t, string(res.Body), "hello")

	_, err = c.Get(ctx, srv.URL+"/missing")
	assert.Error(t, err)
}

func TestHTMLToText(t *testing.T) {
	doc := []byte(`<!DOCTYPE html>
<html>
<head><title>ignored</title><style>p { color: red }</style></head>
<body>
  <nav>skip this menu</nav>
  <h1>Setup</h1>
  <p>Each   player takes <b>five</b> cards.</p>
  <script>console.log("nope")</script>
  <ul><li>Shuffle the deck</li><li>Deal</li></ul>
</body>
</html>`)

	text := HTMLToText(doc)
	assert.Contains(t, text, "Setup")
	assert.Contains(t, text, "Each player takes five cards.")
	assert.Contains(t, text, "Shuffle the deck")
	assert.NotContains(t, text, "console.log")
	assert.NotContains(t, text, "color: red")
	assert.NotContains(t, text, "skip this menu")
	assert.NotContains(t, text, "ignored")
}

func TestHTMLToTextMalformed(t *testing.T) {
	text := HTMLToText([]byte("<p>unclosed <b>tags everywhere"))
	assert.Contains(t, text, "unclosed")
	assert.Contains(t, text, "tags everywhere")
}

func TestHTMLToTextEmpty(t *testing.T) {
	assert.Empty(t, HTMLToText(nil))
}
