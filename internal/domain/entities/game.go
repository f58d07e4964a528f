// Package entities contains core domain data structures.
package entities

import (
	"strings"
	"time"
)

// GameStatus represents the research lifecycle state of a game.
type GameStatus string

// Game lifecycle states. Status only advances forward: created games pass
// through researching before they can become ready, and failed is reachable
// from any non-terminal state. A ready game re-enters researching only
// through an explicit re-research request.
const (
	StatusCreated     GameStatus = "created"
	StatusResearching GameStatus = "researching"
	StatusReady       GameStatus = "ready"
	StatusFailed      GameStatus = "failed"
)

// Valid reports whether s is a known lifecycle state.
func (s GameStatus) Valid() bool {
	switch s {
	case StatusCreated, StatusResearching, StatusReady, StatusFailed:
		return true
	}
	return false
}

// Terminal reports whether s is a terminal state.
func (s GameStatus) Terminal() bool {
	return s == StatusFailed
}

// CanTransitionTo reports whether the lifecycle permits moving from s to next.
func (s GameStatus) CanTransitionTo(next GameStatus) bool {
	switch s {
	case StatusCreated:
		return next == StatusResearching || next == StatusFailed
	case StatusResearching:
		return next == StatusReady || next == StatusFailed
	case StatusReady:
		// Explicit re-research only.
		return next == StatusResearching
	default:
		return false
	}
}

// GameMetadata holds structured fields extracted during research. Every field
// is optional: a field that could not be fetched from its authoritative page
// is left nil, never fabricated from other search results.
type GameMetadata struct {
	DifficultyScore  *float64 `json:"difficulty_score,omitempty"`
	PlayerCount      *string  `json:"player_count,omitempty"`
	ReferenceURL     *string  `json:"reference_url,omitempty"`
	TutorialVideoURL *string  `json:"tutorial_video_url,omitempty"`
}

// Game is the researchable subject tracked by the system.
type Game struct {
	ID          int64      `json:"id"`
	Name        string     `json:"name"`
	Status      GameStatus `json:"status"`
	// StoreDir is keyed by ID, never by name, so names with path-hostile
	// characters cannot collide on disk.
	StoreDir         string        `json:"store_dir"`
	Description      *string       `json:"description,omitempty"`
	Metadata         *GameMetadata `json:"metadata,omitempty"`
	CreatedAt        time.Time     `json:"created_at"`
	UpdatedAt        time.Time     `json:"updated_at"`
	LastResearchedAt *time.Time    `json:"last_researched_at,omitempty"`
}

// NormalizeName converts a name to lowercase for case-insensitive matching.
func NormalizeName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}
