package pubsub

import (
	"context"
	"testing"
	"time"

	"github.com/casualjim/muse/pkg/natsx"
	"github.com/nats-io/nats.go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupNATS(t *testing.T) *nats.Conn {
	nc, err := natsx.NewClient()
	if err != nil {
		t.Skipf("nats server not available: %v", err)
	}
	t.Cleanup(func() {
		nc.Close()
	})
	return nc
}

func TestNATSBroker(t *testing.T) {
	t.Run("creates broker instance", func(t *testing.T) {
		nc := setupNATS(t)
		broker := NATS(nc)
		require.NotNil(t, broker)
	})
}

func TestNATSTopic(t *testing.T) {
	t.Run("ignores invalid messages", func(t *testing.T) {
		nc := setupNATS(t)
		broker := NATS(nc)
		topic := broker.Topic(context.Background(), "test.invalid")

		ctx := context.Background()
		recorder := newRecordingHook()
		sub, err := topic.Subscribe(ctx, recorder)
		require.NoError(t, err)
		defer sub.Unsubscribe()

		// Signal hook is ready
		recorder.signalReady()

		// Publish invalid JSON data directly using NATS client
		err = nc.Publish("test.invalid", []byte("invalid json"))
		require.NoError(t, err)

		// Wait a bit to ensure no events are processed
		time.Sleep(100 * time.Millisecond)
		recorder.mu.Lock()
		assert.Empty(t, recorder.requested)
		assert.Empty(t, recorder.chunks)
		assert.Empty(t, recorder.completed)
		recorder.mu.Unlock()
	})
}
