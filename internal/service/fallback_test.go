package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFirstOf_FastCallWins(t *testing.T) {
	got, err := FirstOf(context.Background(), time.Second, func(ctx context.Context) (string, error) {
		return "ok", nil
	}, "fallback")

	require.NoError(t, err)
	assert.Equal(t, "ok", got)
}

func TestFirstOf_TimeoutReturnsFallback(t *testing.T) {
	got, err := FirstOf(context.Background(), 10*time.Millisecond, func(ctx context.Context) (string, error) {
		select {
		case <-time.After(time.Second):
			return "late", nil
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}, "fallback")

	require.NoError(t, err)
	assert.Equal(t, "fallback", got)
}

func TestFirstOf_ErrorPropagates(t *testing.T) {
	wantErr := errors.New("probe failed")
	_, err := FirstOf(context.Background(), time.Second, func(ctx context.Context) (bool, error) {
		return false, wantErr
	}, true)

	assert.ErrorIs(t, err, wantErr)
}
