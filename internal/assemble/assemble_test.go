package assemble

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/casualjim/muse/fault"
	"github.com/casualjim/muse/provider"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func feed(chunks ...provider.Chunk) <-chan provider.Chunk {
	ch := make(chan provider.Chunk, len(chunks))
	for _, c := range chunks {
		ch <- c
	}
	close(ch)
	return ch
}

func TestBytes(t *testing.T) {
	t.Run("concatenates in arrival order", func(t *testing.T) {
		got, err := Bytes(context.Background(), feed(
			provider.Chunk{Data: []byte("ab")},
			provider.Chunk{Data: []byte("cd")},
			provider.Chunk{Data: []byte("ef")},
		), nil)
		require.NoError(t, err)
		assert.Equal(t, []byte("abcdef"), got)
	})

	t.Run("empty stream yields empty artifact", func(t *testing.T) {
		got, err := Bytes(context.Background(), feed(), nil)
		require.NoError(t, err)
		assert.Empty(t, got)
	})

	t.Run("mid stream error discards the partial buffer", func(t *testing.T) {
		got, err := Bytes(context.Background(), feed(
			provider.Chunk{Data: []byte("ab")},
			provider.Chunk{Err: errors.New("connection dropped")},
		), nil)
		require.Error(t, err)
		assert.True(t, fault.IsStreamInterrupted(err))
		assert.Nil(t, got)
	})

	t.Run("error chunk overrides earlier classification", func(t *testing.T) {
		cause := fault.New(fault.QuotaExceeded, "credits spent")
		_, err := Bytes(context.Background(), feed(provider.Chunk{Err: cause}), nil)
		require.Error(t, err)
		assert.True(t, fault.IsStreamInterrupted(err))
		assert.ErrorIs(t, err, cause)
	})

	t.Run("observes every accepted chunk", func(t *testing.T) {
		var indexes []int
		var sizes []int
		_, err := Bytes(context.Background(), feed(
			provider.Chunk{Data: []byte("ab")},
			provider.Chunk{Data: []byte("c")},
		), func(index, size int) {
			indexes = append(indexes, index)
			sizes = append(sizes, size)
		})
		require.NoError(t, err)
		assert.Equal(t, []int{0, 1}, indexes)
		assert.Equal(t, []int{2, 1}, sizes)
	})

	t.Run("context cancellation interrupts the drain", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		ch := make(chan provider.Chunk)

		done := make(chan struct{})
		var err error
		go func() {
			defer close(done)
			_, err = Bytes(ctx, ch, nil)
		}()

		cancel()
		select {
		case <-done:
		case <-time.After(time.Second):
			t.Fatal("assembler did not unwind after cancellation")
		}
		assert.ErrorIs(t, err, context.Canceled)
	})
}
