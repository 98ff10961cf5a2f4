package provider

import (
	"github.com/tidwall/gjson"
)

// Outcome is the raw, provider specific result of an invocation. It is a
// sealed union: Blob, Stream and Pending are the only variants. The
// orchestrator consumes the outcome according to the provider's declared
// completion mode and never exposes it past the result boundary.
type Outcome interface {
	outcome()
}

// Blob is the outcome of a direct provider: the complete artifact. Either
// Data holds the bytes or Location points at where the backend stored them;
// both may be set when the backend returns a download URI alongside bytes.
type Blob struct {
	Data     []byte
	MIME     string
	Location string

	// Meta carries backend specific response details (revised prompts,
	// seed values, model versions) for logging and result metadata.
	Meta gjson.Result
}

func (Blob) outcome() {}

// Stream is the outcome of a streaming provider: an ordered, finite chunk
// sequence. The channel closing marks clean end of sequence; a Chunk with a
// non-nil Err marks abnormal termination and no further chunks follow it.
type Stream struct {
	C    <-chan Chunk
	MIME string
}

func (Stream) outcome() {}

// Chunk is one fragment of a streamed artifact, in arrival order.
type Chunk struct {
	Data []byte
	Err  error
}

// Pending is the outcome of a polling provider: a submitted job whose
// progress the polling engine will watch until it is terminal.
type Pending struct {
	Job Job
}

func (Pending) outcome() {}
