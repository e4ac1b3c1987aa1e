package service

import (
	"context"
	"errors"
	"testing"

	"github.com/courseloop/coursegw/internal/domain"
	"github.com/courseloop/coursegw/internal/searchsvc"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockRetriever struct {
	mock.Mock
}

func (m *MockRetriever) RagSearch(ctx context.Context, input searchsvc.SearchInput) (*searchsvc.SearchResponse, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*searchsvc.SearchResponse), args.Error(1)
}

type MockGenerator struct {
	mock.Mock
}

func (m *MockGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	args := m.Called(ctx, prompt)
	return args.String(0), args.Error(1)
}

func TestAnswer_Success(t *testing.T) {
	retriever := new(MockRetriever)
	generator := new(MockGenerator)
	svc := NewAnswerService(retriever, generator)

	chunks := []domain.DocumentChunk{
		{ID: "d1", CourseID: "RAG101", Content: "attention transformers attention"},
		{ID: "d2", CourseID: "RAG101", Content: "unrelated database indexing btree"},
	}

	retriever.On("RagSearch", mock.Anything, searchsvc.SearchInput{
		CourseID: "RAG101",
		Query:    "What is attention?",
		Mode:     domain.SearchModeLexical,
		PageSize: 5,
	}).Return(&searchsvc.SearchResponse{Results: chunks}, nil)

	generator.On("Generate", mock.Anything, mock.MatchedBy(func(prompt string) bool {
		return prompt == BuildPrompt(chunks, "What is attention?")
	})).Return("Attention weighs token relevance. [1]", nil)

	result, err := svc.Answer(context.Background(), AnswerInput{
		CourseID: "RAG101",
		Question: "What is attention?",
	})

	require.NoError(t, err)
	assert.Equal(t, "Attention weighs token relevance. [1]", result.Answer)
	// Sources are the exact retrieved chunks in retrieval order; citation
	// numbers in the answer stay dereferenceable.
	assert.Equal(t, chunks, result.Sources)
	retriever.AssertExpectations(t)
	generator.AssertExpectations(t)
}

func TestAnswer_EmptyRetrievalStillAnswers(t *testing.T) {
	retriever := new(MockRetriever)
	generator := new(MockGenerator)
	svc := NewAnswerService(retriever, generator)

	retriever.On("RagSearch", mock.Anything, mock.Anything).
		Return(&searchsvc.SearchResponse{Results: nil}, nil)
	generator.On("Generate", mock.Anything, mock.Anything).
		Return("I don't know.", nil)

	result, err := svc.Answer(context.Background(), AnswerInput{CourseID: "RAG101", Question: "q"})

	require.NoError(t, err)
	assert.Equal(t, "I don't know.", result.Answer)
	assert.NotNil(t, result.Sources)
	assert.Empty(t, result.Sources)
}

func TestAnswer_RetrievalFailure(t *testing.T) {
	retriever := new(MockRetriever)
	generator := new(MockGenerator)
	svc := NewAnswerService(retriever, generator)

	upstreamErr := &searchsvc.UpstreamError{Status: 500, Body: "index unavailable"}
	retriever.On("RagSearch", mock.Anything, mock.Anything).Return(nil, upstreamErr)

	result, err := svc.Answer(context.Background(), AnswerInput{CourseID: "c", Question: "q"})

	require.Error(t, err)
	assert.Nil(t, result)
	var gotUpstream *searchsvc.UpstreamError
	assert.ErrorAs(t, err, &gotUpstream)
	generator.AssertNotCalled(t, "Generate", mock.Anything, mock.Anything)
}

func TestAnswer_GenerationFailure(t *testing.T) {
	retriever := new(MockRetriever)
	generator := new(MockGenerator)
	svc := NewAnswerService(retriever, generator)

	retriever.On("RagSearch", mock.Anything, mock.Anything).
		Return(&searchsvc.SearchResponse{Results: []domain.DocumentChunk{{ID: "d1"}}}, nil)
	generator.On("Generate", mock.Anything, mock.Anything).
		Return("", errors.New("model overloaded"))

	_, err := svc.Answer(context.Background(), AnswerInput{CourseID: "c", Question: "q"})

	require.Error(t, err)
	var domainErr *domain.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, domain.ErrCodeGeneration, domainErr.Code)
}

func TestAnswer_EmptyGeneration(t *testing.T) {
	retriever := new(MockRetriever)
	generator := new(MockGenerator)
	svc := NewAnswerService(retriever, generator)

	retriever.On("RagSearch", mock.Anything, mock.Anything).
		Return(&searchsvc.SearchResponse{Results: nil}, nil)
	generator.On("Generate", mock.Anything, mock.Anything).Return("", nil)

	_, err := svc.Answer(context.Background(), AnswerInput{CourseID: "c", Question: "q"})

	assert.ErrorIs(t, err, domain.ErrEmptyAnswer)
}

func TestAnswer_StripsOutOfRangeCitations(t *testing.T) {
	retriever := new(MockRetriever)
	generator := new(MockGenerator)
	svc := NewAnswerService(retriever, generator)

	retriever.On("RagSearch", mock.Anything, mock.Anything).
		Return(&searchsvc.SearchResponse{Results: []domain.DocumentChunk{{ID: "d1"}}}, nil)
	generator.On("Generate", mock.Anything, mock.Anything).
		Return("Grounded claim. [1] Hallucinated claim. [9]", nil)

	result, err := svc.Answer(context.Background(), AnswerInput{CourseID: "c", Question: "q"})

	require.NoError(t, err)
	assert.Equal(t, "Grounded claim. [1] Hallucinated claim.", result.Answer)
}

func TestAnswer_TopKAndModeForwarded(t *testing.T) {
	retriever := new(MockRetriever)
	generator := new(MockGenerator)
	svc := NewAnswerService(retriever, generator)

	retriever.On("RagSearch", mock.Anything, searchsvc.SearchInput{
		CourseID:  "IR201",
		Query:     "q",
		Mode:      domain.SearchModeHybrid,
		PageSize:  3,
		AuthToken: "tok",
	}).Return(&searchsvc.SearchResponse{Results: nil}, nil)
	generator.On("Generate", mock.Anything, mock.Anything).Return("I don't know.", nil)

	_, err := svc.Answer(context.Background(), AnswerInput{
		CourseID:  "IR201",
		Question:  "q",
		TopK:      3,
		Mode:      domain.SearchModeHybrid,
		AuthToken: "tok",
	})

	require.NoError(t, err)
	retriever.AssertExpectations(t)
}
