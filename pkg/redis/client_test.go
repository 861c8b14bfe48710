package redis

import (
	"context"
	"testing"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Proton-105/webapp-bot/pkg/config"
)

func TestNew_InstrumentsCommands(t *testing.T) {
	mr := miniredis.RunT(t)

	client, err := New(context.Background(), config.RedisConfig{Enabled: true, Addr: mr.Addr()})
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })

	before := testutil.ToFloat64(redisRequestsTotal.WithLabelValues("setnx"))
	require.NoError(t, client.SetNX(context.Background(), "k", 1, 0).Err())
	assert.Equal(t, before+1, testutil.ToFloat64(redisRequestsTotal.WithLabelValues("setnx")))
}

func TestNew_FailsWhenUnreachable(t *testing.T) {
	mr := miniredis.RunT(t)
	addr := mr.Addr()
	mr.Close()

	_, err := New(context.Background(), config.RedisConfig{Enabled: true, Addr: addr})
	assert.Error(t, err)
}
