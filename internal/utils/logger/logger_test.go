package logger

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/exp/slog"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name          string
		env           string
		expectedLevel slog.Level
	}{
		{
			name:          "local environment",
			env:           EnvLocal,
			expectedLevel: slog.LevelDebug,
		},
		{
			name:          "dev environment",
			env:           EnvDev,
			expectedLevel: slog.LevelDebug,
		},
		{
			name:          "unknown environment falls back to info",
			env:           "staging",
			expectedLevel: slog.LevelInfo,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			log := New(tt.env)
			require.NotNil(t, log)
			ctx := context.Background()
			assert.Equal(t, tt.expectedLevel <= slog.LevelDebug, log.Enabled(ctx, slog.LevelDebug))
			assert.Equal(t, tt.expectedLevel <= slog.LevelInfo, log.Enabled(ctx, slog.LevelInfo))
		})
	}
}

func TestSetupPrettySlog(t *testing.T) {
	log := setupPrettySlog()
	require.NotNil(t, log)

	ctx := context.Background()
	assert.True(t, log.Enabled(ctx, slog.LevelDebug))
}

func TestNewLoggerLevels(t *testing.T) {
	ctx := context.Background()

	prodLogger := New(EnvProd)
	assert.False(t, prodLogger.Enabled(ctx, slog.LevelDebug))
	assert.True(t, prodLogger.Enabled(ctx, slog.LevelInfo))

	devLogger := New(EnvDev)
	assert.True(t, devLogger.Enabled(ctx, slog.LevelDebug))
	assert.True(t, devLogger.Enabled(ctx, slog.LevelInfo))

	localLogger := New(EnvLocal)
	assert.True(t, localLogger.Enabled(ctx, slog.LevelDebug))
}
