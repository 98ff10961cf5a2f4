package provider

import (
	"errors"
	"fmt"

	"github.com/casualjim/muse/fault"
)

// Mode identifies how a provider completes work. Exactly one mode applies
// per provider.
type Mode string

const (
	// Direct providers return the complete artifact from a single call.
	Direct Mode = "direct"
	// Streaming providers return an ordered sequence of binary chunks.
	Streaming Mode = "streaming"
	// Polling providers submit a job and report status until it is terminal.
	Polling Mode = "polling"
)

// Valid reports whether m is one of the known completion modes.
func (m Mode) Valid() bool {
	switch m {
	case Direct, Streaming, Polling:
		return true
	default:
		return false
	}
}

func (m Mode) String() string {
	return string(m)
}

// Capabilities is the fixed set of flags a provider declares at
// registration. Declared once, never mutated.
type Capabilities struct {
	// Mode is the provider's completion model.
	Mode Mode

	// Vocals indicates the provider can produce sung vocals (music only).
	Vocals bool

	// ReferenceInput indicates the provider accepts a reference artifact,
	// such as a first frame image for video generation.
	ReferenceInput bool

	// Realtime indicates chunks arrive at playback rate. Only meaningful
	// for streaming providers.
	Realtime bool
}

// Validate checks internal consistency of the declaration.
func (c Capabilities) Validate() error {
	if !c.Mode.Valid() {
		return fmt.Errorf("unknown completion mode %q", c.Mode)
	}
	if c.Realtime && c.Mode != Streaming {
		return errors.New("realtime delivery requires the streaming completion mode")
	}
	return nil
}

// Supports checks the requested options against the declared capabilities.
// A mismatch returns fault.UnsupportedCapability naming the offending
// option. Runs before any backend call is made.
func (c Capabilities) Supports(o Options) error {
	if o.Vocals && !c.Vocals {
		return fault.New(fault.UnsupportedCapability, "provider does not support vocals")
	}
	if o.ReferenceURL != "" && !c.ReferenceInput {
		return fault.New(fault.UnsupportedCapability, "provider does not support reference input")
	}
	if o.Realtime && !c.Realtime {
		return fault.New(fault.UnsupportedCapability, "provider does not support realtime delivery")
	}
	return nil
}
