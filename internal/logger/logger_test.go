package logger

import (
	"bytes"
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	slogmulti "github.com/samber/slog-multi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildHandlersWritesLogFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pathfinder.log")
	var stdout bytes.Buffer

	handlers, closer := buildHandlers(&stdout, Options{IsDev: true, LogFile: path})
	require.Len(t, handlers, 2)

	log := slog.New(slogmulti.Fanout(handlers...))
	log.Info("roadmap adapted", "strategy", "redistribute")
	require.NoError(t, closer.Close())

	assert.Contains(t, stdout.String(), "roadmap adapted")

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"strategy":"redistribute"`)
}

func TestBuildHandlersProductionLevel(t *testing.T) {
	var stdout bytes.Buffer

	handlers, _ := buildHandlers(&stdout, Options{})
	require.Len(t, handlers, 1)

	assert.False(t, handlers[0].Enabled(context.Background(), slog.LevelDebug))
	assert.True(t, handlers[0].Enabled(context.Background(), slog.LevelInfo))
}
