package pubsub

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/alphadose/haxmap"
	"github.com/casualjim/muse/events"
	"github.com/casualjim/muse/pkg/slogx"
	"github.com/casualjim/muse/pkg/uuidx"
	"github.com/nats-io/nats.go"
)

type natsBroker struct {
	client *nats.Conn
	topics *haxmap.Map[string, *natsTopic]
}

// NATS creates a broker that distributes events over a NATS connection.
// Topic ids map directly to NATS subjects, so subscribers in other
// processes observe the same runs.
func NATS(client *nats.Conn) Broker {
	return &natsBroker{
		client: client,
		topics: haxmap.New[string, *natsTopic](),
	}
}

func (b *natsBroker) Topic(ctx context.Context, id string) Topic {
	top, _ := b.topics.GetOrCompute(id, func() *natsTopic {
		return &natsTopic{
			subject: id,
			client:  b.client,
		}
	})
	return top
}

type natsTopic struct {
	client  *nats.Conn
	subject string
}

func (t *natsTopic) Publish(ctx context.Context, event events.Event) error {
	eb, err := events.ToJSON(event)
	if err != nil {
		return err
	}
	return t.client.Publish(t.subject, eb)
}

func (t *natsTopic) Subscribe(ctx context.Context, hook events.Hook) (Subscription, error) {
	if hook == nil {
		return nil, fmt.Errorf("hook is required")
	}
	ch := make(chan events.Event, 50)
	nsub, err := t.client.Subscribe(t.subject, func(msg *nats.Msg) {
		event, err := events.FromJSON(msg.Data)
		if err != nil {
			slog.Error("failed to unmarshal event", slogx.Error(err))
			return
		}

		ch <- event

		if msg.Reply != "" {
			if nerr := msg.Ack(); nerr != nil {
				slog.Error("failed to ack message", slogx.Error(nerr))
				return
			}
		}
	})
	if err != nil {
		return nil, err
	}
	nsub.SetClosedHandler(func(_ string) { close(ch) })

	sub := &natsSubscription{
		id:   uuidx.NewString(),
		sub:  nsub,
		ctx:  ctx,
		ch:   ch,
		hook: hook,
	}
	go sub.forwardToHook()
	return sub, nil
}

type natsSubscription struct {
	id   string
	sub  *nats.Subscription
	ctx  context.Context
	ch   chan events.Event
	hook events.Hook
}

func (n *natsSubscription) ID() string {
	return n.id
}

func (n *natsSubscription) Unsubscribe() {
	if err := n.sub.Unsubscribe(); err != nil {
		slog.Error("failed to unsubscribe", slogx.Error(err), slog.String("subscription", n.id))
	}
}

func (n *natsSubscription) forwardToHook() {
	for {
		select {
		case event, ok := <-n.ch:
			if !ok {
				return
			}
			switch event := event.(type) {
			case events.Requested:
				n.hook.OnRequested(n.ctx, event)
			case events.Chunk:
				n.hook.OnChunk(n.ctx, event)
			case events.JobUpdate:
				n.hook.OnJobUpdate(n.ctx, event)
			case events.Completed:
				n.hook.OnCompleted(n.ctx, event)
			case events.Failed:
				n.hook.OnFailed(n.ctx, event)
			default:
				panic(fmt.Sprintf("unknown event type: %T", event))
			}
		case <-n.ctx.Done():
			return
		}
	}
}
