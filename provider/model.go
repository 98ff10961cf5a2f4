package provider

import (
	"context"

	"github.com/google/uuid"
)

// Provider defines the interface for media generation backends (e.g. OpenAI,
// Suno, Google Veo). Implementations handle the specifics of one backend's
// protocol while the orchestration layer drives every provider the same way.
//
// Generate performs or submits one generation. The returned Outcome variant
// must match the provider's declared completion mode: Blob for direct,
// Stream for streaming, Pending for polling. Errors returned here are
// classified by the adapter into the fault taxonomy wherever the backend
// gives enough signal; the orchestrator coerces whatever remains.
type Provider interface {
	Generate(context.Context, Invocation) (Outcome, error)
}

// Invocation encapsulates all parameters for a single generation call.
// It is constructed per call, immutable, and owned by the call that made it.
type Invocation struct {
	// RunID uniquely identifies this generation for tracking and logging
	RunID uuid.UUID

	// Prompt is the natural language description of the artifact to produce
	Prompt string

	// Options carries the recognized generation options. The orchestrator
	// validates them against the provider's declared capabilities before
	// the invocation is built, so adapters can trust what they receive.
	Options Options

	// Prevents unkeyed literals
	_ struct{}
}

// Options is the fixed set of recognized generation options. Adapters read
// the fields that apply to their backend and ignore the rest; options that
// require an undeclared capability are rejected before dispatch.
type Options struct {
	// Model overrides the adapter's default backend model name.
	Model string

	// Style is a free form style hint woven into the backend request.
	Style string

	// DurationSeconds bounds the length of time based artifacts.
	DurationSeconds int

	// AspectRatio selects the frame shape for visual artifacts, e.g. "16:9".
	AspectRatio string

	// Vocals requests sung vocals. Requires the Vocals capability.
	Vocals bool

	// ReferenceURL points at a reference artifact, such as the first frame
	// for image-to-video generation. Requires the ReferenceInput capability.
	ReferenceURL string

	// Realtime requests playback rate chunk delivery. Requires the
	// Realtime capability.
	Realtime bool
}
