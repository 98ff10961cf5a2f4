/*
Package muse orchestrates generative media providers behind a single entry
point. Music, video and image backends register capability descriptors; the
Studio resolves a request to one of them, drives the provider's completion
model to a finished artifact and reports the run as a Result.

The package ties together several abstractions:

  - Providers: backends that turn a prompt into media bytes
  - Capabilities: declared completion model and optional features
  - Studio: the orchestration loop from request to result
  - Events: per-run progress reporting over pub/sub topics
  - Faults: one classified error taxonomy across all layers

# Basic Usage

A typical run registers adapters, builds a Studio and generates:

	_ = provider.Register(provider.Descriptor{
		Name:         "suno",
		Kind:         content.Music,
		Capabilities: provider.Capabilities{Mode: provider.Streaming, Vocals: true},
		Provider:     sunoAdapter,
	})

	studio := muse.New(
		muse.WithTimeout(2*time.Minute),
		muse.WithHook(events.LoggingHook()),
	)

	result := studio.Generate(ctx, muse.Request{
		Kind:     content.Music,
		Provider: "suno",
		Prompt:   "a slow blues in E minor",
		Options:  provider.Options{Vocals: true},
	})
	if !result.Success() {
		// result.Err carries the classified failure
	}

# Completion Models

Generate never returns a Go error; every run, successful or not, produces a
Result. How the artifact is obtained depends on the capability a provider
declared at registration:

1. Direct
  - One blocking call, one blob back

2. Streaming
  - The provider emits ordered chunks over a channel
  - The Studio concatenates them; a mid-stream error discards the partial
    artifact and the run fails as stream_interrupted

3. Polling
  - The provider submits a job and hands back a handle
  - The Studio polls with bounded backoff until the job finishes, fetches
    the artifact on success and cancels abandoned jobs best effort

# Observability

Every run publishes lifecycle events (requested, chunk progress, job
updates, completed, failed) to a topic named after the run id. Hooks attach
to those topics; artifact bytes never travel through the event plane. The
pubsub package ships an in-process broker and a NATS backed one for fan out
across processes.

# Thread Safety

The package is designed to be thread-safe when used correctly:
  - A Studio can be shared across goroutines
  - Registries are safe for concurrent registration and resolution
  - Hooks should be implemented in a thread-safe manner
  - Context is used for cancellation and deadlines

For more information about specific components, see their respective
documentation:
  - provider.Descriptor for registering backends
  - events.Hook for observing run progress
  - fault.Error for the failure taxonomy
*/
package muse
