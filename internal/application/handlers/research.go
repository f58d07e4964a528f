// Package handlers wires domain services into application-level operations
// shared by the CLI and the HTTP API.
package handlers

import (
	"context"
	"errors"
	"strings"

	"github.com/otterworks/gamescout/internal/domain/services"
)

// ResearchHandler handles research operations at the application layer.
type ResearchHandler struct {
	research *services.ResearchService
}

// NewResearchHandler creates a new ResearchHandler.
func NewResearchHandler(research *services.ResearchService) *ResearchHandler {
	return &ResearchHandler{research: research}
}

// HandleResearch runs the research pipeline for the named game.
func (h *ResearchHandler) HandleResearch(ctx context.Context, name string, force bool) (*services.ResearchResult, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, errors.New("game name is required")
	}
	return h.research.Research(ctx, name, force)
}
