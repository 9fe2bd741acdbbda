package eventbus

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/amirasaad/ledger/pkg/domain/events"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupRedisBus(t *testing.T) (*RedisEventBus, *redis.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	bus := NewRedisEventBus(client, "ledger:events", "ledger", nil)
	bus.block = 50 * time.Millisecond
	t.Cleanup(func() {
		_ = bus.Close()
		_ = client.Close()
	})
	return bus, client
}

func TestRedisEventBus_EmitAppendsToStream(t *testing.T) {
	bus, client := setupRedisBus(t)
	ctx := context.Background()

	require.NoError(t, bus.Emit(ctx, sampleTransactionEvent()))
	require.NoError(t, bus.Emit(ctx, sampleTransactionEvent()))

	n, err := client.XLen(ctx, "ledger:events").Result()
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)
}

func TestRedisEventBus_HandlerReceivesEvent(t *testing.T) {
	bus, _ := setupRedisBus(t)

	var mu sync.Mutex
	var received []string
	bus.Register(events.TransactionCreated, func(ctx context.Context, e events.Event) error {
		mu.Lock()
		defer mu.Unlock()
		received = append(received, e.(*events.TransactionEvent).TransactionID)
		return nil
	})

	require.NoError(t, bus.Emit(context.Background(), sampleTransactionEvent()))

	assert.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(received) == 1 && received[0] == "T1"
	}, 3*time.Second, 20*time.Millisecond)
}

func TestRedisEventBus_FailedHandlerGoesToDLQ(t *testing.T) {
	bus, client := setupRedisBus(t)
	bus.Register(events.TransactionCreated, func(ctx context.Context, e events.Event) error {
		return errors.New("downstream unavailable")
	})

	require.NoError(t, bus.Emit(context.Background(), sampleTransactionEvent()))

	assert.Eventually(t, func() bool {
		n, err := client.XLen(context.Background(), "ledger:events-DLQ").Result()
		return err == nil && n == 1
	}, 3*time.Second, 20*time.Millisecond)
}
