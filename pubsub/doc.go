// Package pubsub implements a pub/sub broker for distributing generation
// progress events to interested subscribers. Every generation run gets its
// own topic keyed by run id; hooks subscribed to the topic observe the
// run's lifecycle without coupling to the orchestration code.
//
// Design decisions:
//   - Context-first: all operations accept context.Context for
//     cancellation/timeout
//   - Topic-based: events are distributed through named topics for logical
//     separation, one topic per generation run
//   - Hook integration: direct support for events.Hook for event handling
//   - Subscription management: explicit subscription lifecycle with cleanup
//   - Slow subscriber eviction: a subscriber that cannot keep up within the
//     configured window is unsubscribed instead of blocking the run
//   - Two transports: an in-process broker for single binary deployments
//     and a NATS backed broker for fan out across processes
//
// Example usage:
//
//	broker := pubsub.Local()
//	topic := broker.Topic(ctx, runID.String())
//
//	sub, err := topic.Subscribe(ctx, events.LoggingHook())
//	if err != nil {
//	    return err
//	}
//	defer sub.Unsubscribe()
//
//	_ = topic.Publish(ctx, events.Requested{RunID: runID, Provider: "suno"})
package pubsub
