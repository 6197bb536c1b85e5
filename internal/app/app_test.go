package app

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"walkin_queue/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildMemory(t *testing.T) {
	cfg := config.Config{Store: "memory", Engine: config.DefaultEngine(), NotifyChannel: "sms"}
	a, err := Build(context.Background(), cfg, slog.New(slog.NewTextHandler(io.Discard, nil)))
	require.NoError(t, err)
	defer a.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	require.NoError(t, a.Start(ctx))
	assert.NoError(t, a.Health(ctx))
	assert.Error(t, a.Migrate(ctx))

	require.NoError(t, a.Service.RefreshAllWaitTimes(ctx))
	res, err := a.Service.CleanupActiveEntries(ctx)
	require.NoError(t, err)
	assert.Zero(t, res.Closed)
}
