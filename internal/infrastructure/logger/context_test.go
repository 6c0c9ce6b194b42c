package logger

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestWithContextRoundTrip(t *testing.T) {
	log := zap.NewNop()
	ctx := WithContext(context.Background(), log)

	assert.Equal(t, log, FromContext(ctx))
}

func TestFromContextWithoutLogger(t *testing.T) {
	log := FromContext(context.Background())

	require.NotNil(t, log)
	assert.NotPanics(t, func() { log.Info("noop") })
}

func TestWithRequestID(t *testing.T) {
	core, recorded := observer.New(zapcore.InfoLevel)

	ctx, tagged := WithRequestID(context.Background(), zap.New(core), "req-101")

	assert.Equal(t, "req-101", GetRequestID(ctx))
	assert.Equal(t, tagged, FromContext(ctx))

	tagged.Info("unit advanced")
	entries := recorded.All()
	require.Len(t, entries, 1)
	assert.Equal(t, "req-101", entries[0].ContextMap()["request_id"])
}

func TestWithUserID(t *testing.T) {
	core, recorded := observer.New(zapcore.InfoLevel)

	ctx, tagged := WithUserID(context.Background(), zap.New(core), "officer-5")

	assert.Equal(t, "officer-5", GetUserID(ctx))

	tagged.Info("reversal approved")
	entries := recorded.All()
	require.Len(t, entries, 1)
	assert.Equal(t, "officer-5", entries[0].ContextMap()["user_id"])
}

func TestGettersOnEmptyContext(t *testing.T) {
	ctx := context.Background()

	assert.Empty(t, GetRequestID(ctx))
	assert.Empty(t, GetUserID(ctx))
}

func TestTagsStack(t *testing.T) {
	core, recorded := observer.New(zapcore.InfoLevel)

	ctx, _ := WithRequestID(context.Background(), zap.New(core), "req-7")
	ctx, tagged := WithUserID(ctx, FromContext(ctx), "officer-2")

	tagged.Info("unit settled")
	entries := recorded.All()
	require.Len(t, entries, 1)
	fields := entries[0].ContextMap()
	assert.Equal(t, "req-7", fields["request_id"])
	assert.Equal(t, "officer-2", fields["user_id"])

	assert.Equal(t, "req-7", GetRequestID(ctx))
	assert.Equal(t, "officer-2", GetUserID(ctx))
}
