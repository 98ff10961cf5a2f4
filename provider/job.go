package provider

import "context"

// JobState enumerates the backend reported lifecycle of an asynchronous
// generation job.
type JobState string

const (
	JobPending   JobState = "pending"
	JobRunning   JobState = "running"
	JobSucceeded JobState = "succeeded"
	JobFailed    JobState = "failed"
)

// Terminal reports whether the state is final from the backend's view.
func (s JobState) Terminal() bool {
	return s == JobSucceeded || s == JobFailed
}

func (s JobState) String() string {
	return string(s)
}

// JobStatus is one observation of a job's state.
type JobStatus struct {
	State JobState

	// Reason carries the backend reported failure message when State is
	// JobFailed, empty otherwise.
	Reason string
}

// Job tracks one asynchronous unit of backend work from submission until a
// terminal state. Instances are created by a polling provider's Generate
// and die with the call that created them; nothing is persisted.
type Job interface {
	// ID returns the backend's opaque identifier for this job.
	ID() string

	// Status queries the backend for the job's current state.
	Status(context.Context) (JobStatus, error)

	// Fetch retrieves the finished artifact. Only valid after Status
	// reported JobSucceeded, and called at most once per job.
	Fetch(context.Context) (Blob, error)

	// Cancel asks the backend to abandon the job. Best effort; errors are
	// logged, not surfaced.
	Cancel(context.Context) error
}
