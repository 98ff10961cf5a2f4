// Package assemble implements the completion strategy for streaming
// providers: it drains an ordered chunk sequence into one complete
// artifact.
package assemble

import (
	"bytes"
	"context"

	"github.com/casualjim/muse/fault"
	"github.com/casualjim/muse/provider"
)

// Bytes concatenates chunks in arrival order until the channel closes.
// No chunk is dropped, reordered or deduplicated. A chunk carrying an
// error discards everything accumulated so far and returns
// fault.StreamInterrupted: a partial artifact must never surface as
// success. Context termination returns the context error for the caller
// to classify. observe, when non nil, is called once per accepted chunk
// with its index and size.
//
// Bytes holds no retry logic; a broken stream is restarted only by
// re-invoking the provider.
func Bytes(ctx context.Context, chunks <-chan provider.Chunk, observe func(index, size int)) ([]byte, error) {
	var buf bytes.Buffer
	index := 0
	for {
		select {
		case chunk, hasMore := <-chunks:
			if !hasMore {
				return buf.Bytes(), nil
			}
			if chunk.Err != nil {
				return nil, fault.Override(chunk.Err, fault.StreamInterrupted)
			}
			buf.Write(chunk.Data)
			if observe != nil {
				observe(index, len(chunk.Data))
			}
			index++
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
}
