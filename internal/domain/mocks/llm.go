package mocks

import (
	"context"

	"github.com/otterworks/gamescout/internal/domain/entities"
	"github.com/otterworks/gamescout/internal/domain/ports"
)

// Classifier is a mock implementation of ports.Classifier.
type Classifier struct {
	Extraction    *ports.NameExtraction
	ExtractionErr error

	Metadata    *entities.GameMetadata
	MetadataErr error

	Description    string
	DescriptionErr error

	ExtractMetadataCallCount int
	LastPageContent          string
}

// ExtractGameName returns the configured extraction or error.
func (m *Classifier) ExtractGameName(ctx context.Context, userText string, knownNames []string) (*ports.NameExtraction, error) {
	if m.ExtractionErr != nil {
		return nil, m.ExtractionErr
	}
	return m.Extraction, nil
}

// ExtractMetadata returns the configured metadata or error.
func (m *Classifier) ExtractMetadata(ctx context.Context, gameName, pageContent string) (*entities.GameMetadata, error) {
	m.ExtractMetadataCallCount++
	m.LastPageContent = pageContent
	if m.MetadataErr != nil {
		return nil, m.MetadataErr
	}
	return m.Metadata, nil
}

// GenerateDescription returns the configured description or error.
func (m *Classifier) GenerateDescription(ctx context.Context, gameName, sourcesSummary string) (string, error) {
	if m.DescriptionErr != nil {
		return "", m.DescriptionErr
	}
	return m.Description, nil
}

// Generator is a mock implementation of ports.Generator.
type Generator struct {
	Result *ports.GenerationResult
	Err    error

	LastGameName string
	LastContext  string
}

// Answer returns the configured result or error.
func (m *Generator) Answer(ctx context.Context, gameName, question, contextText string) (*ports.GenerationResult, error) {
	m.LastGameName = gameName
	m.LastContext = contextText
	if m.Err != nil {
		return nil, m.Err
	}
	return m.Result, nil
}
