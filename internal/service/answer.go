package service

import (
	"context"
	"fmt"
	"log"

	"github.com/courseloop/coursegw/internal/domain"
	"github.com/courseloop/coursegw/internal/searchsvc"
	"github.com/courseloop/coursegw/internal/telemetry"
)

// DefaultTopK is the retrieval depth used when the caller does not ask for
// a specific one.
const DefaultTopK = 5

// Retriever is the slice of the search client the orchestrator needs.
type Retriever interface {
	RagSearch(ctx context.Context, input searchsvc.SearchInput) (*searchsvc.SearchResponse, error)
}

// Generator is the slice of the generation client the orchestrator needs.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// AnswerInput describes one grounded-answer request.
type AnswerInput struct {
	CourseID string
	Question string
	TopK     int
	// Mode selects the retrieval strategy; zero value falls back to lexical.
	Mode      domain.SearchMode
	AuthToken string
}

// AnswerService drives the retrieve-then-generate flow. Per invocation it
// makes exactly one retrieval call and one generation call; resilience
// wrappers belong outside.
type AnswerService struct {
	retriever Retriever
	generator Generator
}

func NewAnswerService(retriever Retriever, generator Generator) *AnswerService {
	return &AnswerService{retriever: retriever, generator: generator}
}

// Answer retrieves chunks for the question, builds the grounding prompt,
// invokes the generation backend, and returns the answer together with the
// exact chunks it was grounded on. Sources keep retrieval order, so citation
// [i] in the answer dereferences Sources[i-1].
//
// An empty retrieval result still proceeds: the prompt's empty SOURCES
// section makes the model answer "I don't know" instead of silently
// succeeding with citations that point at nothing.
func (s *AnswerService) Answer(ctx context.Context, input AnswerInput) (*domain.AnswerResult, error) {
	topK := input.TopK
	if topK <= 0 {
		topK = DefaultTopK
	}
	mode := input.Mode
	if !mode.IsValid() {
		mode = domain.SearchModeLexical
	}

	ctx, span := telemetry.StartSpan(ctx, "AnswerService.Answer", telemetry.SpanAttributes{
		CourseID:  input.CourseID,
		Mode:      string(mode),
		Operation: "answer",
	})
	defer span.End()

	retrieveCtx, retrieveSpan := telemetry.StartSpan(ctx, "AnswerService.Retrieve", telemetry.SpanAttributes{
		CourseID:  input.CourseID,
		Mode:      string(mode),
		Operation: "retrieve",
	})
	resp, err := s.retriever.RagSearch(retrieveCtx, searchsvc.SearchInput{
		CourseID:  input.CourseID,
		Query:     input.Question,
		Mode:      mode,
		PageSize:  topK,
		AuthToken: input.AuthToken,
	})
	if err != nil {
		retrieveSpan.SetError(err)
		retrieveSpan.End()
		// Keep the upstream/transport classification for the HTTP layer.
		return nil, fmt.Errorf("retrieval failed: %w", err)
	}
	retrieveSpan.End()

	sources := resp.Results
	prompt := BuildPrompt(sources, input.Question)

	generateCtx, generateSpan := telemetry.StartSpan(ctx, "AnswerService.Generate", telemetry.SpanAttributes{
		CourseID:  input.CourseID,
		Operation: "generate",
	})
	answer, err := s.generator.Generate(generateCtx, prompt)
	if err != nil {
		generateSpan.SetError(err)
		generateSpan.End()
		return nil, domain.NewDomainErrorWithCause(domain.ErrCodeGeneration, "generation failed", err)
	}
	generateSpan.End()
	if answer == "" {
		telemetry.CaptureError(ctx, domain.ErrEmptyAnswer)
		return nil, domain.ErrEmptyAnswer
	}

	cleaned, dropped := ValidateCitations(answer, len(sources))
	if len(dropped) > 0 {
		log.Printf("answer: dropped out-of-range citations %v (sources=%d, course=%s)", dropped, len(sources), input.CourseID)
	}

	if sources == nil {
		sources = []domain.DocumentChunk{}
	}
	return &domain.AnswerResult{Answer: cleaned, Sources: sources}, nil
}
