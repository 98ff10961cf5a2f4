package events

import (
	"context"
	"log/slog"
	"slices"
)

// Hook defines the interface for observing the progress of generation
// runs. This interface is deliberately designed without a base "no-op"
// implementation to ensure consumers make explicit decisions about
// handling each event type.
//
// Design decisions:
//  1. All methods must be implemented: when new event types are added,
//     every implementation has to be updated, a compile-time safety net.
//  2. No provided no-op implementation: a NoOpHook would undermine the
//     interface's primary benefit of forcing conscious decisions about
//     event handling.
//  3. Complete coverage: the interface covers every event variant so none
//     can be accidentally missed.
type Hook interface {
	OnRequested(context.Context, Requested)

	OnChunk(context.Context, Chunk)

	OnJobUpdate(context.Context, JobUpdate)

	OnCompleted(context.Context, Completed)

	OnFailed(context.Context, Failed)
}

// LoggingHook returns a Hook that writes every event to slog.
func LoggingHook() Hook {
	return loggingHook{}
}

type loggingHook struct{}

func (loggingHook) OnRequested(ctx context.Context, e Requested) {
	slog.InfoContext(ctx, "generation requested",
		slog.String("run_id", e.RunID.String()),
		slog.String("provider", e.Provider),
		slog.String("kind", e.Kind.String()),
	)
}

func (loggingHook) OnChunk(ctx context.Context, e Chunk) {
	slog.DebugContext(ctx, "chunk received",
		slog.String("run_id", e.RunID.String()),
		slog.Int("index", e.Index),
		slog.Int("size", e.Size),
	)
}

func (loggingHook) OnJobUpdate(ctx context.Context, e JobUpdate) {
	slog.DebugContext(ctx, "job update",
		slog.String("run_id", e.RunID.String()),
		slog.String("job_id", e.JobID),
		slog.String("state", e.State.String()),
		slog.Int("attempt", e.Attempt),
	)
}

func (loggingHook) OnCompleted(ctx context.Context, e Completed) {
	slog.InfoContext(ctx, "generation completed",
		slog.String("run_id", e.RunID.String()),
		slog.String("provider", e.Provider),
		slog.Int("size", e.Size),
		slog.String("mime", e.MIME),
	)
}

func (loggingHook) OnFailed(ctx context.Context, e Failed) {
	slog.ErrorContext(ctx, "generation failed",
		slog.String("run_id", e.RunID.String()),
		slog.String("provider", e.Provider),
		slog.String("code", string(e.Code)),
		slog.String("message", e.Message),
	)
}

func NewCompositeHook(hooks ...Hook) Hook {
	return CompositeHook(hooks)
}

// CompositeHook allows combining multiple hooks into a single hook
// implementation. Note: this is provided as a utility for combining
// hooks, not as a way to avoid implementing the full interface.
type CompositeHook []Hook

func (c CompositeHook) OnRequested(ctx context.Context, e Requested) {
	for h := range slices.Values(c) {
		h.OnRequested(ctx, e)
	}
}

func (c CompositeHook) OnChunk(ctx context.Context, e Chunk) {
	for h := range slices.Values(c) {
		h.OnChunk(ctx, e)
	}
}

func (c CompositeHook) OnJobUpdate(ctx context.Context, e JobUpdate) {
	for h := range slices.Values(c) {
		h.OnJobUpdate(ctx, e)
	}
}

func (c CompositeHook) OnCompleted(ctx context.Context, e Completed) {
	for h := range slices.Values(c) {
		h.OnCompleted(ctx, e)
	}
}

func (c CompositeHook) OnFailed(ctx context.Context, e Failed) {
	for h := range slices.Values(c) {
		h.OnFailed(ctx, e)
	}
}
