package pubsub

import (
	"context"

	"github.com/casualjim/muse/events"
)

// Broker hands out topics. Implementations must be safe for concurrent use
// and must return the same Topic instance for the same id.
type Broker interface {
	// Topic returns the topic with the given id, creating it when it does
	// not exist yet.
	Topic(ctx context.Context, id string) Topic
}

// Topic is a named event channel within a broker.
type Topic interface {
	// Publish delivers the event to every current subscriber.
	Publish(ctx context.Context, event events.Event) error
	// Subscribe attaches a hook to the topic until Unsubscribe is called.
	Subscribe(ctx context.Context, hook events.Hook) (Subscription, error)
}

// Subscription represents an active subscription to a topic.
type Subscription interface {
	// ID uniquely identifies the subscription within its topic.
	ID() string
	// Unsubscribe detaches the hook. Safe to call more than once.
	Unsubscribe()
}
