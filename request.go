package muse

import (
	"time"

	"github.com/casualjim/muse/content"
	"github.com/casualjim/muse/provider"
)

// Request describes one generation run. It is constructed per call,
// immutable and owned by the invocation that created it.
type Request struct {
	// Kind selects the registry section the provider is resolved from.
	Kind content.Kind
	// Provider is the registered name of the backend to use.
	Provider string
	// Prompt is the natural language description of the artifact.
	Prompt string
	// Options carries the recognized generation options. Options that
	// require a capability the provider does not declare fail the run
	// before any backend call.
	Options provider.Options
	// Timeout bounds the whole run. Zero means the Studio default applies.
	Timeout time.Duration

	_ struct{} // Prevents unkeyed literals
}
