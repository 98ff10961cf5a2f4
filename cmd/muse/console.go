package main

import (
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/casualjim/muse/events"
	"github.com/fatih/color"
)

// consoleHook renders generation progress for humans. The broker already
// buffers delivery, so rendering never blocks the run itself.
type consoleHook struct {
	mu sync.Mutex
	w  io.Writer

	streamed int
}

func newConsoleHook(w io.Writer) *consoleHook {
	return &consoleHook{w: w}
}

func (c *consoleHook) OnRequested(ctx context.Context, e events.Requested) {
	c.mu.Lock()
	defer c.mu.Unlock()
	fmt.Fprintf(c.w, "%s %s %s\n", color.CyanString(e.Provider), e.Kind, color.HiBlackString(e.RunID.String()))
}

func (c *consoleHook) OnChunk(ctx context.Context, e events.Chunk) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.streamed += e.Size
	fmt.Fprintf(c.w, "\r%s %d bytes", color.YellowString("streaming"), c.streamed)
}

func (c *consoleHook) OnJobUpdate(ctx context.Context, e events.JobUpdate) {
	c.mu.Lock()
	defer c.mu.Unlock()
	fmt.Fprintf(c.w, "%s attempt %d: %s\n", color.YellowString("polling"), e.Attempt, e.State)
}

func (c *consoleHook) OnCompleted(ctx context.Context, e events.Completed) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.endStream()
	fmt.Fprintf(c.w, "%s %s (%d bytes)\n", color.GreenString("completed"), e.Provider, e.Size)
}

func (c *consoleHook) OnFailed(ctx context.Context, e events.Failed) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.endStream()
	fmt.Fprintf(c.w, "%s %s: %s\n", color.RedString("failed"), e.Code, e.Message)
}

// endStream terminates the in-place streaming line. Callers hold mu.
func (c *consoleHook) endStream() {
	if c.streamed > 0 {
		fmt.Fprintln(c.w)
		c.streamed = 0
	}
}
