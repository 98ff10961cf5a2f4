package events

import (
	"context"
	"sync"
	"testing"

	"github.com/casualjim/muse/content"
	"github.com/casualjim/muse/fault"
	"github.com/casualjim/muse/provider"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

type recordingHook struct {
	mu        sync.Mutex
	requested []Requested
	chunks    []Chunk
	jobs      []JobUpdate
	completed []Completed
	failed    []Failed
}

func (r *recordingHook) OnRequested(_ context.Context, e Requested) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.requested = append(r.requested, e)
}

func (r *recordingHook) OnChunk(_ context.Context, e Chunk) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.chunks = append(r.chunks, e)
}

func (r *recordingHook) OnJobUpdate(_ context.Context, e JobUpdate) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.jobs = append(r.jobs, e)
}

func (r *recordingHook) OnCompleted(_ context.Context, e Completed) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.completed = append(r.completed, e)
}

func (r *recordingHook) OnFailed(_ context.Context, e Failed) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.failed = append(r.failed, e)
}

func TestCompositeHook(t *testing.T) {
	ctx := context.Background()
	first := &recordingHook{}
	second := &recordingHook{}
	hook := NewCompositeHook(first, second)

	runID := uuid.New()
	hook.OnRequested(ctx, Requested{RunID: runID, Provider: "suno", Kind: content.Music})
	hook.OnChunk(ctx, Chunk{RunID: runID, Provider: "suno", Index: 0, Size: 10})
	hook.OnJobUpdate(ctx, JobUpdate{RunID: runID, Provider: "veo", State: provider.JobRunning, Attempt: 1})
	hook.OnCompleted(ctx, Completed{RunID: runID, Provider: "suno", Kind: content.Music, Size: 10})
	hook.OnFailed(ctx, Failed{RunID: runID, Provider: "suno", Kind: content.Music, Code: fault.Timeout})

	for _, recorder := range []*recordingHook{first, second} {
		assert.Len(t, recorder.requested, 1)
		assert.Len(t, recorder.chunks, 1)
		assert.Len(t, recorder.jobs, 1)
		assert.Len(t, recorder.completed, 1)
		assert.Len(t, recorder.failed, 1)
	}
}

func TestCompositeHookEmpty(t *testing.T) {
	hook := NewCompositeHook()
	assert.NotPanics(t, func() {
		hook.OnRequested(context.Background(), Requested{})
	})
}

func TestLoggingHook(t *testing.T) {
	ctx := context.Background()
	hook := LoggingHook()
	runID := uuid.New()

	assert.NotPanics(t, func() {
		hook.OnRequested(ctx, Requested{RunID: runID, Provider: "openai", Kind: content.Image})
		hook.OnChunk(ctx, Chunk{RunID: runID, Provider: "suno", Index: 2, Size: 64})
		hook.OnJobUpdate(ctx, JobUpdate{RunID: runID, Provider: "veo", JobID: "op/2", State: provider.JobPending, Attempt: 1})
		hook.OnCompleted(ctx, Completed{RunID: runID, Provider: "openai", Kind: content.Image, Size: 64})
		hook.OnFailed(ctx, Failed{RunID: runID, Provider: "openai", Kind: content.Image, Code: fault.TransientAPI, Message: "502"})
	})
}
