package events

import (
	"fmt"

	"github.com/casualjim/muse/content"
	"github.com/casualjim/muse/fault"
	"github.com/casualjim/muse/provider"
	"github.com/go-openapi/strfmt"
	"github.com/google/uuid"
	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"
)

var (
	requestedJSON = []byte(`{"type":"requested"}`)
	chunkJSON     = []byte(`{"type":"chunk"}`)
	jobJSON       = []byte(`{"type":"job_update"}`)
	completedJSON = []byte(`{"type":"completed"}`)
	failedJSON    = []byte(`{"type":"failed"}`)
)

// Event is the sealed interface implemented by every progress event.
type Event interface {
	event()
}

// Requested reports that a generation run was accepted and dispatched to
// a provider.
type Requested struct {
	RunID     uuid.UUID       `json:"run_id"`
	Provider  string          `json:"provider"`
	Kind      content.Kind    `json:"kind"`
	Prompt    string          `json:"prompt"`
	Timestamp strfmt.DateTime `json:"timestamp,omitempty"`
}

func (Requested) event() {}

// Chunk reports one streamed fragment. It carries the fragment's index
// and size, never the bytes themselves.
type Chunk struct {
	RunID     uuid.UUID       `json:"run_id"`
	Provider  string          `json:"provider"`
	Index     int             `json:"index"`
	Size      int             `json:"size"`
	Timestamp strfmt.DateTime `json:"timestamp,omitempty"`
}

func (Chunk) event() {}

// JobUpdate reports the observed state of a polled job after a status
// query.
type JobUpdate struct {
	RunID     uuid.UUID         `json:"run_id"`
	Provider  string            `json:"provider"`
	JobID     string            `json:"job_id"`
	State     provider.JobState `json:"state"`
	Attempt   int               `json:"attempt"`
	Timestamp strfmt.DateTime   `json:"timestamp,omitempty"`
}

func (JobUpdate) event() {}

// Completed reports that a run produced an artifact. Size is the byte
// count when the payload carries bytes; Location is set when the backend
// stored the artifact elsewhere.
type Completed struct {
	RunID     uuid.UUID       `json:"run_id"`
	Provider  string          `json:"provider"`
	Kind      content.Kind    `json:"kind"`
	Size      int             `json:"size"`
	Location  string          `json:"location,omitempty"`
	MIME      string          `json:"mime,omitempty"`
	Timestamp strfmt.DateTime `json:"timestamp,omitempty"`
}

func (Completed) event() {}

// Failed reports that a run resolved to a failure. Code is stable for
// branching; Message is for humans.
type Failed struct {
	RunID     uuid.UUID       `json:"run_id"`
	Provider  string          `json:"provider"`
	Kind      content.Kind    `json:"kind"`
	Code      fault.Code      `json:"code"`
	Message   string          `json:"message"`
	Timestamp strfmt.DateTime `json:"timestamp,omitempty"`
}

func (Failed) event() {}

// MarshalJSON implements custom JSON marshaling for Requested
func (r Requested) MarshalJSON() ([]byte, error) {
	result := requestedJSON

	var err error
	result, err = sjson.SetBytes(result, "run_id", r.RunID.String())
	if err != nil {
		return nil, err
	}

	result, err = sjson.SetBytes(result, "provider", r.Provider)
	if err != nil {
		return nil, err
	}

	result, err = sjson.SetBytes(result, "kind", string(r.Kind))
	if err != nil {
		return nil, err
	}

	result, err = sjson.SetBytes(result, "prompt", r.Prompt)
	if err != nil {
		return nil, err
	}

	if !r.Timestamp.IsZero() {
		result, err = sjson.SetBytes(result, "timestamp", r.Timestamp.String())
		if err != nil {
			return nil, err
		}
	}

	return result, nil
}

// UnmarshalJSON implements custom JSON unmarshaling for Requested
func (r *Requested) UnmarshalJSON(data []byte) error {
	if !gjson.ValidBytes(data) {
		return fmt.Errorf("invalid json: %s", data)
	}

	msgType := gjson.GetBytes(data, "type")
	if !msgType.Exists() || msgType.String() != "requested" {
		return fmt.Errorf("missing or invalid type, expected 'requested'")
	}

	if err := readRunID(data, &r.RunID); err != nil {
		return err
	}

	prov := gjson.GetBytes(data, "provider")
	if !prov.Exists() {
		return fmt.Errorf("missing required field 'provider'")
	}
	r.Provider = prov.String()

	kind := gjson.GetBytes(data, "kind")
	if !kind.Exists() {
		return fmt.Errorf("missing required field 'kind'")
	}
	r.Kind = content.Kind(kind.String())

	prompt := gjson.GetBytes(data, "prompt")
	if !prompt.Exists() {
		return fmt.Errorf("missing required field 'prompt'")
	}
	r.Prompt = prompt.String()

	return readTimestamp(data, &r.Timestamp)
}

// MarshalJSON implements custom JSON marshaling for Chunk
func (c Chunk) MarshalJSON() ([]byte, error) {
	result := chunkJSON

	var err error
	result, err = sjson.SetBytes(result, "run_id", c.RunID.String())
	if err != nil {
		return nil, err
	}

	result, err = sjson.SetBytes(result, "provider", c.Provider)
	if err != nil {
		return nil, err
	}

	result, err = sjson.SetBytes(result, "index", c.Index)
	if err != nil {
		return nil, err
	}

	result, err = sjson.SetBytes(result, "size", c.Size)
	if err != nil {
		return nil, err
	}

	if !c.Timestamp.IsZero() {
		result, err = sjson.SetBytes(result, "timestamp", c.Timestamp.String())
		if err != nil {
			return nil, err
		}
	}

	return result, nil
}

// UnmarshalJSON implements custom JSON unmarshaling for Chunk
func (c *Chunk) UnmarshalJSON(data []byte) error {
	if !gjson.ValidBytes(data) {
		return fmt.Errorf("invalid json: %s", data)
	}

	msgType := gjson.GetBytes(data, "type")
	if !msgType.Exists() || msgType.String() != "chunk" {
		return fmt.Errorf("missing or invalid type, expected 'chunk'")
	}

	if err := readRunID(data, &c.RunID); err != nil {
		return err
	}

	prov := gjson.GetBytes(data, "provider")
	if !prov.Exists() {
		return fmt.Errorf("missing required field 'provider'")
	}
	c.Provider = prov.String()

	index := gjson.GetBytes(data, "index")
	if !index.Exists() {
		return fmt.Errorf("missing required field 'index'")
	}
	c.Index = int(index.Int())

	size := gjson.GetBytes(data, "size")
	if !size.Exists() {
		return fmt.Errorf("missing required field 'size'")
	}
	c.Size = int(size.Int())

	return readTimestamp(data, &c.Timestamp)
}

// MarshalJSON implements custom JSON marshaling for JobUpdate
func (j JobUpdate) MarshalJSON() ([]byte, error) {
	result := jobJSON

	var err error
	result, err = sjson.SetBytes(result, "run_id", j.RunID.String())
	if err != nil {
		return nil, err
	}

	result, err = sjson.SetBytes(result, "provider", j.Provider)
	if err != nil {
		return nil, err
	}

	result, err = sjson.SetBytes(result, "job_id", j.JobID)
	if err != nil {
		return nil, err
	}

	result, err = sjson.SetBytes(result, "state", string(j.State))
	if err != nil {
		return nil, err
	}

	result, err = sjson.SetBytes(result, "attempt", j.Attempt)
	if err != nil {
		return nil, err
	}

	if !j.Timestamp.IsZero() {
		result, err = sjson.SetBytes(result, "timestamp", j.Timestamp.String())
		if err != nil {
			return nil, err
		}
	}

	return result, nil
}

// UnmarshalJSON implements custom JSON unmarshaling for JobUpdate
func (j *JobUpdate) UnmarshalJSON(data []byte) error {
	if !gjson.ValidBytes(data) {
		return fmt.Errorf("invalid json: %s", data)
	}

	msgType := gjson.GetBytes(data, "type")
	if !msgType.Exists() || msgType.String() != "job_update" {
		return fmt.Errorf("missing or invalid type, expected 'job_update'")
	}

	if err := readRunID(data, &j.RunID); err != nil {
		return err
	}

	prov := gjson.GetBytes(data, "provider")
	if !prov.Exists() {
		return fmt.Errorf("missing required field 'provider'")
	}
	j.Provider = prov.String()

	jobID := gjson.GetBytes(data, "job_id")
	if !jobID.Exists() {
		return fmt.Errorf("missing required field 'job_id'")
	}
	j.JobID = jobID.String()

	state := gjson.GetBytes(data, "state")
	if !state.Exists() {
		return fmt.Errorf("missing required field 'state'")
	}
	j.State = provider.JobState(state.String())

	attempt := gjson.GetBytes(data, "attempt")
	if !attempt.Exists() {
		return fmt.Errorf("missing required field 'attempt'")
	}
	j.Attempt = int(attempt.Int())

	return readTimestamp(data, &j.Timestamp)
}

// MarshalJSON implements custom JSON marshaling for Completed
func (c Completed) MarshalJSON() ([]byte, error) {
	result := completedJSON

	var err error
	result, err = sjson.SetBytes(result, "run_id", c.RunID.String())
	if err != nil {
		return nil, err
	}

	result, err = sjson.SetBytes(result, "provider", c.Provider)
	if err != nil {
		return nil, err
	}

	result, err = sjson.SetBytes(result, "kind", string(c.Kind))
	if err != nil {
		return nil, err
	}

	result, err = sjson.SetBytes(result, "size", c.Size)
	if err != nil {
		return nil, err
	}

	if c.Location != "" {
		result, err = sjson.SetBytes(result, "location", c.Location)
		if err != nil {
			return nil, err
		}
	}

	if c.MIME != "" {
		result, err = sjson.SetBytes(result, "mime", c.MIME)
		if err != nil {
			return nil, err
		}
	}

	if !c.Timestamp.IsZero() {
		result, err = sjson.SetBytes(result, "timestamp", c.Timestamp.String())
		if err != nil {
			return nil, err
		}
	}

	return result, nil
}

// UnmarshalJSON implements custom JSON unmarshaling for Completed
func (c *Completed) UnmarshalJSON(data []byte) error {
	if !gjson.ValidBytes(data) {
		return fmt.Errorf("invalid json: %s", data)
	}

	msgType := gjson.GetBytes(data, "type")
	if !msgType.Exists() || msgType.String() != "completed" {
		return fmt.Errorf("missing or invalid type, expected 'completed'")
	}

	if err := readRunID(data, &c.RunID); err != nil {
		return err
	}

	prov := gjson.GetBytes(data, "provider")
	if !prov.Exists() {
		return fmt.Errorf("missing required field 'provider'")
	}
	c.Provider = prov.String()

	kind := gjson.GetBytes(data, "kind")
	if !kind.Exists() {
		return fmt.Errorf("missing required field 'kind'")
	}
	c.Kind = content.Kind(kind.String())

	size := gjson.GetBytes(data, "size")
	if !size.Exists() {
		return fmt.Errorf("missing required field 'size'")
	}
	c.Size = int(size.Int())

	if location := gjson.GetBytes(data, "location"); location.Exists() {
		c.Location = location.String()
	}

	if mime := gjson.GetBytes(data, "mime"); mime.Exists() {
		c.MIME = mime.String()
	}

	return readTimestamp(data, &c.Timestamp)
}

// MarshalJSON implements custom JSON marshaling for Failed
func (f Failed) MarshalJSON() ([]byte, error) {
	result := failedJSON

	var err error
	result, err = sjson.SetBytes(result, "run_id", f.RunID.String())
	if err != nil {
		return nil, err
	}

	result, err = sjson.SetBytes(result, "provider", f.Provider)
	if err != nil {
		return nil, err
	}

	result, err = sjson.SetBytes(result, "kind", string(f.Kind))
	if err != nil {
		return nil, err
	}

	result, err = sjson.SetBytes(result, "code", string(f.Code))
	if err != nil {
		return nil, err
	}

	result, err = sjson.SetBytes(result, "message", f.Message)
	if err != nil {
		return nil, err
	}

	if !f.Timestamp.IsZero() {
		result, err = sjson.SetBytes(result, "timestamp", f.Timestamp.String())
		if err != nil {
			return nil, err
		}
	}

	return result, nil
}

// UnmarshalJSON implements custom JSON unmarshaling for Failed
func (f *Failed) UnmarshalJSON(data []byte) error {
	if !gjson.ValidBytes(data) {
		return fmt.Errorf("invalid json: %s", data)
	}

	msgType := gjson.GetBytes(data, "type")
	if !msgType.Exists() || msgType.String() != "failed" {
		return fmt.Errorf("missing or invalid type, expected 'failed'")
	}

	if err := readRunID(data, &f.RunID); err != nil {
		return err
	}

	prov := gjson.GetBytes(data, "provider")
	if !prov.Exists() {
		return fmt.Errorf("missing required field 'provider'")
	}
	f.Provider = prov.String()

	kind := gjson.GetBytes(data, "kind")
	if !kind.Exists() {
		return fmt.Errorf("missing required field 'kind'")
	}
	f.Kind = content.Kind(kind.String())

	code := gjson.GetBytes(data, "code")
	if !code.Exists() {
		return fmt.Errorf("missing required field 'code'")
	}
	f.Code = fault.Code(code.String())

	message := gjson.GetBytes(data, "message")
	if !message.Exists() {
		return fmt.Errorf("missing required field 'message'")
	}
	f.Message = message.String()

	return readTimestamp(data, &f.Timestamp)
}

func readRunID(data []byte, dst *uuid.UUID) error {
	runID := gjson.GetBytes(data, "run_id")
	if !runID.Exists() {
		return fmt.Errorf("missing required field 'run_id'")
	}
	if err := dst.UnmarshalText([]byte(runID.String())); err != nil {
		return fmt.Errorf("invalid run_id: %w", err)
	}
	return nil
}

func readTimestamp(data []byte, dst *strfmt.DateTime) error {
	if timestamp := gjson.GetBytes(data, "timestamp"); timestamp.Exists() {
		if err := dst.UnmarshalText([]byte(timestamp.String())); err != nil {
			return fmt.Errorf("invalid timestamp: %w", err)
		}
	}
	return nil
}
