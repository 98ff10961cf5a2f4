// Package poll implements the completion strategy for job based
// providers: it watches a submitted job until the backend reports a
// terminal state or the attempt and deadline budget runs out.
package poll

import (
	"context"
	"log/slog"
	"time"

	"github.com/casualjim/muse/fault"
	"github.com/casualjim/muse/pkg/slogx"
	"github.com/casualjim/muse/provider"
)

// transientPause separates the single sub-retry of a flaky status query
// from the attempt it belongs to.
const transientPause = 500 * time.Millisecond

// cancelGrace bounds the best effort cancel of an abandoned job.
const cancelGrace = 5 * time.Second

// Policy bounds how long and how often a job is polled.
type Policy struct {
	// Initial is the wait between the first and second status query.
	Initial time.Duration

	// Multiplier grows the wait after every attempt.
	Multiplier float64

	// MaxInterval caps the grown wait.
	MaxInterval time.Duration

	// MaxAttempts bounds the number of status queries.
	MaxAttempts int

	// Budget bounds the engine's total wall clock time. Zero means only
	// MaxAttempts and the caller's context bound the watch.
	Budget time.Duration
}

func (p Policy) withDefaults() Policy {
	if p.Initial <= 0 {
		p.Initial = 5 * time.Second
	}
	if p.Multiplier < 1 {
		p.Multiplier = 1.5
	}
	if p.MaxInterval <= 0 {
		p.MaxInterval = 30 * time.Second
	}
	if p.MaxAttempts <= 0 {
		p.MaxAttempts = 60
	}
	return p
}

// Observer is notified after every status query that reached the backend.
type Observer func(attempt int, status provider.JobStatus)

// Wait drives job to completion under policy.
//
// Each attempt queries status once. A transient query failure is retried
// once after a short pause without consuming the attempt; a second
// consecutive transient failure at the same attempt surfaces instead of
// looping. Failures the adapter classified as policy (quota, provider
// reported, configuration) surface immediately.
//
// A succeeded job is fetched exactly once. A failed job surfaces
// fault.ProviderFailure carrying the backend's reason. Exhausting
// MaxAttempts or Budget while the job is still non terminal surfaces
// fault.PollingExhausted, which is distinct from fault.Timeout: only the
// caller's context produces Timeout. Whenever the watch abandons a job
// that may still be running it cancels it best effort.
func Wait(ctx context.Context, job provider.Job, policy Policy, observe Observer) (provider.Blob, error) {
	policy = policy.withDefaults()

	engineCtx := ctx
	if policy.Budget > 0 {
		var cancel context.CancelFunc
		engineCtx, cancel = context.WithTimeout(ctx, policy.Budget)
		defer cancel()
	}

	interval := policy.Initial
	for attempt := 1; attempt <= policy.MaxAttempts; attempt++ {
		status, err := job.Status(engineCtx)
		if err != nil {
			if aerr := abandonErr(ctx, engineCtx, job, policy, attempt); aerr != nil {
				return provider.Blob{}, aerr
			}
			coerced := fault.Coerce(err)
			if !fault.Retryable(coerced) {
				return provider.Blob{}, coerced
			}
			if werr := wait(engineCtx, transientPause); werr != nil {
				return provider.Blob{}, abandonErr(ctx, engineCtx, job, policy, attempt)
			}
			status, err = job.Status(engineCtx)
			if err != nil {
				if aerr := abandonErr(ctx, engineCtx, job, policy, attempt); aerr != nil {
					return provider.Blob{}, aerr
				}
				return provider.Blob{}, fault.Coerce(err)
			}
		}

		if observe != nil {
			observe(attempt, status)
		}

		switch status.State {
		case provider.JobSucceeded:
			blob, err := job.Fetch(engineCtx)
			if err != nil {
				return provider.Blob{}, fault.Coerce(err)
			}
			return blob, nil
		case provider.JobFailed:
			reason := status.Reason
			if reason == "" {
				reason = "job failed without a reason"
			}
			return provider.Blob{}, fault.New(fault.ProviderFailure, reason)
		}

		if attempt == policy.MaxAttempts {
			break
		}
		if werr := wait(engineCtx, interval); werr != nil {
			return provider.Blob{}, abandonErr(ctx, engineCtx, job, policy, attempt)
		}
		interval = min(time.Duration(float64(interval)*policy.Multiplier), policy.MaxInterval)
	}

	cancelJob(ctx, job)
	return provider.Blob{}, fault.Newf(fault.PollingExhausted, "job %s still not terminal after %d attempts", job.ID(), policy.MaxAttempts)
}

// abandonErr classifies a context termination while the job was still
// being watched, cancelling the job best effort. The caller's context
// maps to Timeout or Cancelled; only the engine's own budget maps to
// PollingExhausted. Returns nil when neither context is done.
func abandonErr(ctx, engineCtx context.Context, job provider.Job, policy Policy, attempt int) error {
	switch {
	case ctx.Err() != nil:
		cancelJob(ctx, job)
		return fault.FromContext(ctx.Err())
	case engineCtx.Err() != nil:
		cancelJob(ctx, job)
		return fault.Newf(fault.PollingExhausted, "job %s still not terminal after %s budget (%d attempts)", job.ID(), policy.Budget, attempt)
	default:
		return nil
	}
}

// cancelJob asks the backend to abandon a job the engine will no longer
// watch. Best effort: failures are logged, never surfaced.
func cancelJob(ctx context.Context, job provider.Job) {
	cctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), cancelGrace)
	defer cancel()
	if err := job.Cancel(cctx); err != nil {
		slog.DebugContext(cctx, "best effort job cancel failed", slog.String("job_id", job.ID()), slogx.Error(err))
	}
}

// wait suspends for d or until ctx terminates, whichever comes first.
func wait(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
