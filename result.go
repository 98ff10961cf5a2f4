package muse

import (
	"github.com/casualjim/muse/content"
	"github.com/casualjim/muse/fault"
	"github.com/google/uuid"
	"github.com/tidwall/gjson"
)

// Payload is the finished artifact: bytes, a locator handle, or both.
// Providers that host results remotely set Location and leave Data empty.
type Payload struct {
	Data     []byte
	Location string
	MIME     string
}

// Result is the sole value crossing the Generate boundary. Exactly one of
// Payload and Err is set.
type Result struct {
	RunID    uuid.UUID
	Provider string
	Kind     content.Kind
	Payload  *Payload
	Err      *fault.Error
	// Meta echoes provider reported metadata verbatim, untouched by the
	// orchestration layer.
	Meta gjson.Result
}

// Success reports whether the run produced an artifact.
func (r Result) Success() bool {
	return r.Err == nil && r.Payload != nil
}
