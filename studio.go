package muse

import (
	"time"

	"github.com/casualjim/muse/content"
	"github.com/casualjim/muse/events"
	"github.com/casualjim/muse/internal/poll"
	"github.com/casualjim/muse/provider"
	"github.com/casualjim/muse/pubsub"
	"github.com/fogfish/opts"
)

// PollPolicy bounds the polling loop for job backed providers. Zero fields
// fall back to the engine defaults.
type PollPolicy struct {
	// Initial is the delay before the second status query.
	Initial time.Duration
	// Multiplier grows the delay after every attempt.
	Multiplier float64
	// MaxInterval caps the grown delay.
	MaxInterval time.Duration
	// MaxAttempts bounds the number of status queries.
	MaxAttempts int
	// Budget bounds the total wall clock time spent polling.
	Budget time.Duration
}

func (p PollPolicy) engine() poll.Policy {
	return poll.Policy{
		Initial:     p.Initial,
		Multiplier:  p.Multiplier,
		MaxInterval: p.MaxInterval,
		MaxAttempts: p.MaxAttempts,
		Budget:      p.Budget,
	}
}

// Studio coordinates providers, the event plane and the completion
// strategies. Safe for concurrent use.
type Studio struct {
	registry   *provider.Registry
	broker     pubsub.Broker
	hook       events.Hook
	timeout    time.Duration
	pollPolicy PollPolicy
}

var (
	// WithRegistry points the studio at a provider registry other than the
	// process wide default.
	WithRegistry = opts.ForName[Studio, *provider.Registry]("registry")
	// WithBroker replaces the in-process event broker, e.g. with the NATS
	// backed one.
	WithBroker = opts.ForName[Studio, pubsub.Broker]("broker")
	// WithHook subscribes a hook to every run's topic.
	WithHook = opts.ForName[Studio, events.Hook]("hook")
	// WithTimeout sets the default wall clock bound for runs that do not
	// carry their own.
	WithTimeout = opts.ForName[Studio, time.Duration]("timeout")
	// WithPollPolicy tunes the polling loop for job backed providers.
	WithPollPolicy = opts.ForName[Studio, PollPolicy]("pollPolicy")
)

// New creates a Studio. Without options it resolves against the default
// registry, publishes to an in-process broker and applies no timeout.
func New(options ...opts.Option[Studio]) *Studio {
	studio := &Studio{
		registry: provider.Default,
		broker:   pubsub.Local(),
	}
	if err := opts.Apply(studio, options); err != nil {
		panic(err)
	}
	return studio
}

// Providers lists the provider names registered for kind in the default
// registry, in registration order.
func Providers(kind content.Kind) []string {
	return provider.Names(kind)
}
