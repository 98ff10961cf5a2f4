package main

import (
	"bytes"
	"context"
	"testing"

	"github.com/casualjim/muse/content"
	"github.com/casualjim/muse/events"
	"github.com/casualjim/muse/fault"
	"github.com/casualjim/muse/pkg/uuidx"
	"github.com/casualjim/muse/provider"
	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type nopProvider struct{}

func (nopProvider) Generate(context.Context, provider.Invocation) (provider.Outcome, error) {
	return nil, nil
}

func TestConsoleHook(t *testing.T) {
	color.NoColor = true

	ctx := context.Background()
	runID := uuidx.New()

	t.Run("renders the request and completion", func(t *testing.T) {
		var buf bytes.Buffer
		hook := newConsoleHook(&buf)

		hook.OnRequested(ctx, events.Requested{RunID: runID, Provider: "suno", Kind: content.Music})
		hook.OnCompleted(ctx, events.Completed{RunID: runID, Provider: "suno", Kind: content.Music, Size: 2048})

		out := buf.String()
		assert.Contains(t, out, "suno music")
		assert.Contains(t, out, runID.String())
		assert.Contains(t, out, "completed suno (2048 bytes)")
	})

	t.Run("accumulates streamed bytes", func(t *testing.T) {
		var buf bytes.Buffer
		hook := newConsoleHook(&buf)

		hook.OnChunk(ctx, events.Chunk{RunID: runID, Provider: "suno", Index: 0, Size: 100})
		hook.OnChunk(ctx, events.Chunk{RunID: runID, Provider: "suno", Index: 1, Size: 150})
		hook.OnCompleted(ctx, events.Completed{RunID: runID, Provider: "suno", Size: 250})

		assert.Contains(t, buf.String(), "streaming 250 bytes")
	})

	t.Run("renders job progress", func(t *testing.T) {
		var buf bytes.Buffer
		hook := newConsoleHook(&buf)

		hook.OnJobUpdate(ctx, events.JobUpdate{RunID: runID, Provider: "veo", JobID: "op-1", State: provider.JobRunning, Attempt: 1})

		assert.Contains(t, buf.String(), "polling attempt 1: running")
	})

	t.Run("renders failures with their code", func(t *testing.T) {
		var buf bytes.Buffer
		hook := newConsoleHook(&buf)

		hook.OnFailed(ctx, events.Failed{RunID: runID, Provider: "veo", Code: fault.QuotaExceeded, Message: "out of credits"})

		assert.Contains(t, buf.String(), "failed quota_exceeded: out of credits")
	})
}

func TestListProviders(t *testing.T) {
	color.NoColor = true

	require.NoError(t, provider.Register(provider.Descriptor{
		Name:         "inkjet",
		Kind:         content.Image,
		Capabilities: provider.Capabilities{Mode: provider.Direct},
		Provider:     nopProvider{},
	}))

	var buf bytes.Buffer
	listProviders(&buf)

	assert.Contains(t, buf.String(), "image: ")
	assert.Contains(t, buf.String(), "inkjet")
}
