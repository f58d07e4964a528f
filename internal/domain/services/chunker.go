// Package services contains domain business logic.
package services

import "strings"

const (
	// DefaultChunkWords is the chunk size in word units.
	DefaultChunkWords = 1000
	// DefaultChunkOverlap is the word overlap between consecutive chunks of
	// the same source document.
	DefaultChunkOverlap = 200
)

// SplitWords splits text into fixed-size overlapping word-unit chunks.
// Overlap only applies between consecutive chunks of the same text; the
// split is deterministic, so re-chunking identical text yields identical
// chunks.
func SplitWords(text string, chunkWords, overlap int) []string {
	words := strings.Fields(text)
	if len(words) == 0 {
		return nil
	}
	if chunkWords <= 0 {
		chunkWords = DefaultChunkWords
	}
	if overlap < 0 || overlap >= chunkWords {
		overlap = 0
	}
	if len(words) <= chunkWords {
		return []string{strings.Join(words, " ")}
	}

	step := chunkWords - overlap
	var chunks []string
	for start := 0; start < len(words); start += step {
		end := start + chunkWords
		if end > len(words) {
			end = len(words)
		}
		chunks = append(chunks, strings.Join(words[start:end], " "))
		if end == len(words) {
			break
		}
	}
	return chunks
}
