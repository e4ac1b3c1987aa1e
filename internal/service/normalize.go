package service

import (
	"strings"

	"github.com/courseloop/coursegw/internal/domain"
)

// TypeFilterAll disables client-side type filtering.
const TypeFilterAll = "all"

const defaultResultType = "text"

// NormalizeResults maps backend result records to the stable client-facing
// shape. It is total: missing or mistyped fields degrade to defaults instead
// of failing, and input order is preserved (the backend already ranked the
// results, so no re-ranking happens here).
func NormalizeResults(raw []domain.DocumentChunk, filterType string) []domain.SearchResult {
	results := make([]domain.SearchResult, 0, len(raw))
	for i := range raw {
		result := normalizeOne(&raw[i])
		if !matchesType(result.Type, filterType) {
			continue
		}
		results = append(results, result)
	}
	return results
}

func normalizeOne(chunk *domain.DocumentChunk) domain.SearchResult {
	source := chunk.SourceString()

	title := chunk.Title
	if title == "" {
		title = source
	}
	if title == "" {
		title = "Untitled"
	}

	resultType := chunk.MetadataType()
	if resultType == "" {
		resultType = defaultResultType
	}

	url := ""
	if strings.HasPrefix(source, "http") {
		url = source
	}

	return domain.SearchResult{
		ID:       chunk.ID,
		Title:    title,
		CourseID: chunk.CourseID,
		Type:     resultType,
		URL:      url,
		Snippet:  chunk.Snippet,
		Score:    chunk.ScoreValue(),
	}
}

func matchesType(resultType, filterType string) bool {
	if filterType == "" || filterType == TypeFilterAll {
		return true
	}
	return resultType == filterType
}
