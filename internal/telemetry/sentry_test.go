package telemetry

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInit_EmptyDSNIsNoOp(t *testing.T) {
	shutdown, err := Init(Config{})
	require.NoError(t, err)
	require.NotNil(t, shutdown)
	shutdown()
}

func TestStartSpan_WithoutInit(t *testing.T) {
	ctx, span := StartSpan(context.Background(), "AnswerService.Answer", SpanAttributes{
		CourseID:  "RAG101",
		Mode:      "lexical",
		Operation: "answer",
	})
	require.NotNil(t, span)
	require.NotNil(t, ctx)

	// Child spans hang off the span's context.
	childCtx, child := StartSpan(ctx, "AnswerService.Retrieve", SpanAttributes{Operation: "retrieve"})
	require.NotNil(t, child)
	assert.NotEqual(t, context.Background(), childCtx)

	child.SetError(errors.New("backend down"))
	child.End()
	span.End()
}

func TestSpan_NilInnerIsSafe(t *testing.T) {
	var span Span
	span.SetError(errors.New("ignored"))
	span.End()
}

func TestCaptureError_WithoutHub(t *testing.T) {
	assert.NotPanics(t, func() {
		CaptureError(context.Background(), errors.New("stray"))
	})
}
