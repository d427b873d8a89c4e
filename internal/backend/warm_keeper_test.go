package backend

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"lingo-gate/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type pingCounter struct {
	pings int64
	err   error
}

func (p *pingCounter) Chat(ctx context.Context, messages []Message, format any) (string, error) {
	return "pong", p.err
}

func (p *pingCounter) Ping(ctx context.Context) error {
	atomic.AddInt64(&p.pings, 1)
	return p.err
}

func TestWarmKeeperPreloadsModel(t *testing.T) {
	t.Setenv("PRELOAD_MODEL", "true")
	t.Setenv("BACKEND_HEALTH_CHECK_ENABLE", "false")

	manager, err := config.NewManager()
	require.NoError(t, err)

	client := &pingCounter{}
	keeper := NewWarmKeeper(client, manager)
	keeper.Start()
	require.Eventually(t, func() bool {
		return atomic.LoadInt64(&client.pings) == 1
	}, 5*time.Second, 10*time.Millisecond)
	keeper.Stop(context.Background())

	assert.Equal(t, int64(1), atomic.LoadInt64(&client.pings))
}

func TestWarmKeeperDisabled(t *testing.T) {
	t.Setenv("PRELOAD_MODEL", "false")
	t.Setenv("BACKEND_HEALTH_CHECK_ENABLE", "false")

	manager, err := config.NewManager()
	require.NoError(t, err)

	client := &pingCounter{}
	keeper := NewWarmKeeper(client, manager)
	keeper.Start()
	keeper.Stop(context.Background())

	assert.Zero(t, atomic.LoadInt64(&client.pings))
}
