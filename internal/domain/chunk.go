package domain

import "encoding/json"

// SearchMode selects the retrieval strategy used by the search backend.
type SearchMode string

const (
	SearchModeLexical SearchMode = "lexical"
	SearchModeVector  SearchMode = "vector"
	SearchModeHybrid  SearchMode = "hybrid"
)

// IsValid reports whether the mode is one the search backend accepts.
func (m SearchMode) IsValid() bool {
	switch m {
	case SearchModeLexical, SearchModeVector, SearchModeHybrid:
		return true
	}
	return false
}

// ParseSearchMode maps a request string to a SearchMode, defaulting to lexical.
func ParseSearchMode(value string) SearchMode {
	mode := SearchMode(value)
	if !mode.IsValid() {
		return SearchModeLexical
	}
	return mode
}

// DocumentChunk is a retrievable unit of text owned by the search backend.
// The gateway never creates or mutates chunks; it only reads them off
// retrieval responses. Fields the backend may omit are pointers or have
// zero-value semantics so malformed records degrade instead of failing.
type DocumentChunk struct {
	ID         string          `json:"id"`
	CourseID   string          `json:"course_id"`
	Source     json.RawMessage `json:"source,omitempty"`
	ChunkIndex *int            `json:"chunk_index,omitempty"`
	Title      string          `json:"title,omitempty"`
	Content    string          `json:"content,omitempty"`
	Snippet    string          `json:"snippet,omitempty"`
	Metadata   map[string]any  `json:"metadata,omitempty"`
	Score      *float64        `json:"score,omitempty"`
}

// SourceString returns the chunk source when it is a JSON string, and ""
// otherwise. Backends have been observed sending non-string sources; those
// must not break normalization.
func (c *DocumentChunk) SourceString() string {
	if len(c.Source) == 0 {
		return ""
	}
	var s string
	if err := json.Unmarshal(c.Source, &s); err != nil {
		return ""
	}
	return s
}

// ScoreValue returns the relevance score, defaulting to 0 when absent.
func (c *DocumentChunk) ScoreValue() float64 {
	if c.Score == nil {
		return 0
	}
	return *c.Score
}

// MetadataType returns metadata["type"] when present and a non-empty string.
func (c *DocumentChunk) MetadataType() string {
	if c.Metadata == nil {
		return ""
	}
	if t, ok := c.Metadata["type"].(string); ok {
		return t
	}
	return ""
}

// SearchResult is the stable client-facing result shape produced by the
// normalizer. URL is populated only when the chunk source looks like a URL.
type SearchResult struct {
	ID       string  `json:"id"`
	Title    string  `json:"title"`
	CourseID string  `json:"courseId"`
	Type     string  `json:"type"`
	URL      string  `json:"url,omitempty"`
	Snippet  string  `json:"snippet"`
	Score    float64 `json:"score"`
}

// AnswerResult pairs a generated answer with the chunks it was grounded on.
// The sources order is the citation numbering: [i] in the answer refers to
// Sources[i-1].
type AnswerResult struct {
	Answer  string          `json:"answer"`
	Sources []DocumentChunk `json:"sources"`
}
