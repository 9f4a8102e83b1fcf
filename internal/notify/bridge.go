package notify

import (
	"context"
	"encoding/json"

	"github.com/christa-jose1/student-migration-portal/internal/hub"
	"github.com/christa-jose1/student-migration-portal/pkg/log"
	"github.com/christa-jose1/student-migration-portal/pkg/pubsub"
)

// Frame is the envelope forwarded to websocket clients.
type Frame struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

// Bridge subscribes to the event bus and forwards every event to the
// local hub. Running the bus through the bridge even for locally
// produced events keeps a single delivery path regardless of which
// instance handled the originating request.
type Bridge struct {
	subscriber pubsub.Subscriber
	hub        *hub.Hub
}

// NewBridge creates a bridge between the event bus and the hub.
func NewBridge(subscriber pubsub.Subscriber, h *hub.Hub) *Bridge {
	return &Bridge{subscriber: subscriber, hub: h}
}

// Run consumes events until the context is cancelled.
func (b *Bridge) Run(ctx context.Context) error {
	broadcast, err := b.subscriber.Subscribe(ctx, pubsub.ChannelBroadcast)
	if err != nil {
		return err
	}
	personal, err := b.subscriber.SubscribePattern(ctx, pubsub.PatternUsers)
	if err != nil {
		return err
	}

	l := log.Ctx(ctx)
	l.Info().Msg("notification bridge started")

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case event, ok := <-broadcast:
			if !ok {
				return nil
			}
			b.forward(ctx, event)
		case event, ok := <-personal:
			if !ok {
				return nil
			}
			b.forward(ctx, event)
		}
	}
}

func (b *Bridge) forward(ctx context.Context, event *pubsub.Event) {
	frame := Frame{Type: event.Type, Payload: event.Payload}

	var err error
	if event.UserID == "" {
		err = b.hub.Broadcast(frame)
	} else {
		err = b.hub.SendToUser(event.UserID, frame)
	}
	if err != nil {
		l := log.Ctx(ctx)
		l.Warn().Err(err).Str(log.FieldEvent, event.Type).Msg("failed to forward event to hub")
	}
}
