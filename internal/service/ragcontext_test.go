package service

import (
	"fmt"
	"strings"
	"testing"

	"github.com/courseloop/coursegw/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func intPtr(n int) *int { return &n }

func TestBuildContext_Labels(t *testing.T) {
	chunks := []domain.DocumentChunk{
		{ID: "d1", Title: "Attention", ChunkIndex: intPtr(3), Content: "attention transformers attention"},
		{ID: "d2", Content: "unrelated database indexing btree"},
	}

	context := BuildContext(chunks)

	blocks := strings.Split(context, "\n\n")
	require.Len(t, blocks, 2)
	assert.Equal(t, "SOURCE[1] id=d1 title=Attention chunk=3\nattention transformers attention", blocks[0])
	assert.Equal(t, "SOURCE[2] id=d2 title=n/a chunk=n/a\nunrelated database indexing btree", blocks[1])
}

func TestBuildContext_LabelCountMatchesInput(t *testing.T) {
	chunks := make([]domain.DocumentChunk, 7)
	for i := range chunks {
		chunks[i] = domain.DocumentChunk{ID: fmt.Sprintf("d%d", i), ChunkIndex: intPtr(i), Content: "content"}
	}

	context := BuildContext(chunks)

	for i := 1; i <= len(chunks); i++ {
		assert.Contains(t, context, fmt.Sprintf("SOURCE[%d] id=d%d title=n/a chunk=%d", i, i-1, i-1))
	}
	assert.Equal(t, len(chunks), strings.Count(context, "SOURCE["))
}

func TestBuildContext_Empty(t *testing.T) {
	assert.Equal(t, "", BuildContext(nil))
}

func TestBuildPrompt_GroundingTemplate(t *testing.T) {
	chunks := []domain.DocumentChunk{{ID: "d1", Content: "attention is all you need"}}

	prompt := BuildPrompt(chunks, "What is attention?")

	assert.Contains(t, prompt, "Use ONLY the provided sources")
	assert.Contains(t, prompt, "say you don't know")
	assert.Contains(t, prompt, "Citations: list SOURCE numbers you used")
	assert.Contains(t, prompt, "SOURCES:\nSOURCE[1] id=d1 title=n/a chunk=n/a\nattention is all you need")
	assert.Contains(t, prompt, "QUESTION:\nWhat is attention?")
}

func TestBuildPrompt_EmptySources(t *testing.T) {
	prompt := BuildPrompt(nil, "What is attention?")

	assert.Contains(t, prompt, "SOURCES:\n\n")
	assert.NotContains(t, prompt, "SOURCE[")
}

func TestValidateCitations(t *testing.T) {
	tests := []struct {
		name        string
		answer      string
		n           int
		wantAnswer  string
		wantDropped []string
	}{
		{
			name:       "all in range",
			answer:     "Attention weighs tokens. [1], [2]",
			n:          2,
			wantAnswer: "Attention weighs tokens. [1], [2]",
		},
		{
			name:        "out of range stripped",
			answer:      "see [1] and [7]",
			n:           2,
			wantAnswer:  "see [1] and",
			wantDropped: []string{"[7]"},
		},
		{
			name:        "zero index stripped",
			answer:      "see [0] here",
			n:           3,
			wantAnswer:  "see here",
			wantDropped: []string{"[0]"},
		},
		{
			name:        "no sources at all",
			answer:      "I don't know. [1]",
			n:           0,
			wantAnswer:  "I don't know.",
			wantDropped: []string{"[1]"},
		},
		{
			name:        "index larger than int stripped",
			answer:      "see [1] and [99999999999999999999]",
			n:           2,
			wantAnswer:  "see [1] and",
			wantDropped: []string{"[99999999999999999999]"},
		},
		{
			name:       "no citations",
			answer:     "I don't know.",
			n:          0,
			wantAnswer: "I don't know.",
		},
		{
			name:        "multiline preserved",
			answer:      "Answer line. [3]\nCitations: [1], [3]",
			n:           2,
			wantAnswer:  "Answer line.\nCitations: [1],",
			wantDropped: []string{"[3]", "[3]"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, dropped := ValidateCitations(tt.answer, tt.n)
			assert.Equal(t, tt.wantAnswer, got)
			assert.Equal(t, tt.wantDropped, dropped)
		})
	}
}
