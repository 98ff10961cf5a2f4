package muse

import (
	"context"
	"log/slog"
	"time"

	"github.com/casualjim/muse/content"
	"github.com/casualjim/muse/events"
	"github.com/casualjim/muse/fault"
	"github.com/casualjim/muse/internal/assemble"
	"github.com/casualjim/muse/internal/poll"
	"github.com/casualjim/muse/pkg/slogx"
	"github.com/casualjim/muse/pkg/uuidx"
	"github.com/casualjim/muse/provider"
	"github.com/casualjim/muse/pubsub"
	"github.com/go-openapi/strfmt"
	"github.com/google/uuid"
)

// Generate runs one request end to end. It always returns a Result; every
// failure travels inside it as a *fault.Error, never as a Go error or a
// panic across this boundary.
//
// The run is observable while in flight: lifecycle events go to the topic
// named after the run id, and the hook configured on the Studio is
// subscribed to that topic for the duration of the call.
func (s *Studio) Generate(ctx context.Context, req Request) Result {
	runID := uuidx.New()

	// Event delivery outlives a cancelled caller so the terminal event
	// still reaches subscribers.
	pubCtx := context.WithoutCancel(ctx)
	topic := s.broker.Topic(pubCtx, runID.String())
	if s.hook != nil {
		sub, err := topic.Subscribe(pubCtx, s.hook)
		if err != nil {
			slog.ErrorContext(ctx, "failed to subscribe hook", slogx.Error(err))
		} else {
			defer sub.Unsubscribe()
		}
	}

	desc, err := s.registry.Resolve(req.Kind, req.Provider)
	if err != nil {
		return s.fail(pubCtx, topic, runID, req.Provider, req.Kind, err)
	}

	if err := desc.Capabilities.Supports(req.Options); err != nil {
		return s.fail(pubCtx, topic, runID, desc.Name, desc.Kind, err)
	}

	timeout := s.timeout
	if req.Timeout > 0 {
		timeout = req.Timeout
	}
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	s.publish(pubCtx, topic, events.Requested{
		RunID:     runID,
		Provider:  desc.Name,
		Kind:      desc.Kind,
		Prompt:    req.Prompt,
		Timestamp: strfmt.DateTime(time.Now()),
	})

	outcome, err := desc.Provider.Generate(ctx, provider.Invocation{
		RunID:   runID,
		Prompt:  req.Prompt,
		Options: req.Options,
	})
	if err != nil {
		return s.fail(pubCtx, topic, runID, desc.Name, desc.Kind, err)
	}

	blob, err := s.complete(ctx, pubCtx, topic, runID, desc, outcome)
	if err != nil {
		return s.fail(pubCtx, topic, runID, desc.Name, desc.Kind, err)
	}

	s.publish(pubCtx, topic, events.Completed{
		RunID:     runID,
		Provider:  desc.Name,
		Kind:      desc.Kind,
		Size:      len(blob.Data),
		Location:  blob.Location,
		MIME:      blob.MIME,
		Timestamp: strfmt.DateTime(time.Now()),
	})
	slog.InfoContext(ctx, "generation complete",
		slog.String("run_id", runID.String()),
		slog.String("provider", desc.Name),
		slogx.Stringer("kind", desc.Kind),
		slog.Int("size", len(blob.Data)),
	)

	return Result{
		RunID:    runID,
		Provider: desc.Name,
		Kind:     desc.Kind,
		Payload:  &Payload{Data: blob.Data, Location: blob.Location, MIME: blob.MIME},
		Meta:     blob.Meta,
	}
}

// complete drives the declared completion model to a finished blob. An
// outcome that contradicts the declared mode is a contract violation and
// fails the run instead of panicking.
func (s *Studio) complete(ctx, pubCtx context.Context, topic pubsub.Topic, runID uuid.UUID, desc provider.Descriptor, outcome provider.Outcome) (provider.Blob, error) {
	switch out := outcome.(type) {
	case provider.Blob:
		if desc.Capabilities.Mode != provider.Direct {
			return provider.Blob{}, modeViolation(desc, out)
		}
		return out, nil

	case provider.Stream:
		if desc.Capabilities.Mode != provider.Streaming {
			// Drain so the producer can exit.
			go func() {
				for range out.C {
				}
			}()
			return provider.Blob{}, modeViolation(desc, out)
		}
		data, err := assemble.Bytes(ctx, out.C, func(index, size int) {
			s.publish(pubCtx, topic, events.Chunk{
				RunID:     runID,
				Provider:  desc.Name,
				Index:     index,
				Size:      size,
				Timestamp: strfmt.DateTime(time.Now()),
			})
		})
		if err != nil {
			return provider.Blob{}, err
		}
		return provider.Blob{Data: data, MIME: out.MIME}, nil

	case provider.Pending:
		if desc.Capabilities.Mode != provider.Polling {
			if cerr := out.Job.Cancel(pubCtx); cerr != nil {
				slog.DebugContext(ctx, "best effort job cancel failed", slog.String("job_id", out.Job.ID()), slogx.Error(cerr))
			}
			return provider.Blob{}, modeViolation(desc, out)
		}
		return poll.Wait(ctx, out.Job, s.pollPolicy.engine(), func(attempt int, status provider.JobStatus) {
			s.publish(pubCtx, topic, events.JobUpdate{
				RunID:     runID,
				Provider:  desc.Name,
				JobID:     out.Job.ID(),
				State:     status.State,
				Attempt:   attempt,
				Timestamp: strfmt.DateTime(time.Now()),
			})
		})

	default:
		return provider.Blob{}, fault.Newf(fault.ProviderFailure, "provider %s returned no outcome", desc.Name)
	}
}

func modeViolation(desc provider.Descriptor, outcome provider.Outcome) error {
	return fault.Newf(fault.ProviderFailure, "provider %s declares %s completion but returned %T", desc.Name, desc.Capabilities.Mode, outcome)
}

func (s *Studio) fail(ctx context.Context, topic pubsub.Topic, runID uuid.UUID, name string, kind content.Kind, err error) Result {
	ferr := fault.Coerce(err)
	s.publish(ctx, topic, events.Failed{
		RunID:     runID,
		Provider:  name,
		Kind:      kind,
		Code:      ferr.Code,
		Message:   ferr.Message,
		Timestamp: strfmt.DateTime(time.Now()),
	})
	slog.ErrorContext(ctx, "generation failed",
		slog.String("run_id", runID.String()),
		slog.String("provider", name),
		slogx.Stringer("kind", kind),
		slog.String("code", string(ferr.Code)),
		slogx.Error(ferr),
	)
	return Result{RunID: runID, Provider: name, Kind: kind, Err: ferr}
}

func (s *Studio) publish(ctx context.Context, topic pubsub.Topic, event events.Event) {
	if err := topic.Publish(ctx, event); err != nil {
		slog.ErrorContext(ctx, "failed to publish event", slogx.Error(err))
	}
}
