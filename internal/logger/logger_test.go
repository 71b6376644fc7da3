package logger

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestNew(t *testing.T) {
	quiet, err := New(false)
	require.NoError(t, err)
	assert.False(t, quiet.Core().Enabled(zap.DebugLevel))
	assert.False(t, quiet.Core().Enabled(zap.ErrorLevel))

	loud, err := New(true)
	require.NoError(t, err)
	assert.True(t, loud.Core().Enabled(zap.DebugLevel))
}

func TestFromContext_DefaultsToNop(t *testing.T) {
	l := FromContext(context.Background())
	require.NotNil(t, l)
	assert.False(t, l.Core().Enabled(zap.ErrorLevel))
}

func TestWith_AddsFields(t *testing.T) {
	ctx, logs := TestContext()
	ctx = With(ctx, zap.String("file", "agents/executor.md"))

	FromContext(ctx).Debug("counted", zap.Int("tokens", 42))

	entries := logs.All()
	require.Len(t, entries, 1)
	assert.Equal(t, "counted", entries[0].Message)
	fields := entries[0].ContextMap()
	assert.Equal(t, "agents/executor.md", fields["file"])
	assert.Equal(t, int64(42), fields["tokens"])
}
