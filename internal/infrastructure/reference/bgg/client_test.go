package bgg

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/otterworks/gamescout/internal/domain/ports"
)

func TestLookupExactFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/xmlapi2/search", r.URL.Path)
		assert.Equal(t, "Catan", r.URL.Query().Get("query"))
		assert.Equal(t, "1", r.URL.Query().Get("exact"))
		w.Write([]byte(`<?xml version="1.0" encoding="utf-8"?>
<items total="1" termsofuse="https://boardgamegeek.com/xmlapi/termsofuse">
  <item type="boardgame" id="13">
    <name type="primary" value="CATAN"/>
    <yearpublished value="1995"/>
  </item>
</items>`))
	}))
	defer srv.Close()

	c := NewClientWithBaseURL(srv.URL)
	url, err := c.LookupExact(context.Background(), "Catan")
	require.NoError(t, err)
	assert.Equal(t, "https://boardgamegeek.com/boardgame/13", url)
}

func TestLookupExactNoMatch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<items total="0" termsofuse="https://boardgamegeek.com/xmlapi/termsofuse"></items>`))
	}))
	defer srv.Close()

	c := NewClientWithBaseURL(srv.URL)
	_, err := c.LookupExact(context.Background(), "Nonexistent Game")
	assert.True(t, errors.Is(err, ports.ErrNotFound))
}

func TestLookupExactAuthRequired(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	c := NewClientWithBaseURL(srv.URL)
	_, err := c.LookupExact(context.Background(), "Catan")
	assert.True(t, errors.Is(err, ports.ErrAuthRequired))
}

func TestLookupExactServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	c := NewClientWithBaseURL(srv.URL)
	_, err := c.LookupExact(context.Background(), "Catan")
	require.Error(t, err)
	assert.False(t, errors.Is(err, ports.ErrAuthRequired))
	assert.False(t, errors.Is(err, ports.ErrNotFound))
}

func TestLookupExactSkipsNonBoardgameItems(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<items total="2">
  <item type="boardgameexpansion" id="999"><name type="primary" value="Catan: Seafarers"/></item>
  <item type="boardgame" id="13"><name type="primary" value="CATAN"/></item>
</items>`))
	}))
	defer srv.Close()

	c := NewClientWithBaseURL(srv.URL)
	url, err := c.LookupExact(context.Background(), "Catan")
	require.NoError(t, err)
	assert.Equal(t, "https://boardgamegeek.com/boardgame/13", url)
}
