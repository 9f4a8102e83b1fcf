package notify

import (
	"context"

	"github.com/christa-jose1/student-migration-portal/internal/domain"
	"github.com/christa-jose1/student-migration-portal/pkg/log"
	"github.com/christa-jose1/student-migration-portal/pkg/pubsub"
)

// Notifier fans chat lifecycle events out to connected clients. All
// notifications are best-effort hints: a failed publish is logged and
// swallowed, never surfaced to the caller, because the write that
// triggered it has already been committed.
type Notifier interface {
	ChatCreated(ctx context.Context, chat *domain.Chat)
	MessageAppended(ctx context.Context, chatID string, message domain.Message)
	ChatDeleted(ctx context.Context, chat *domain.Chat)
}

// Fanout publishes chat events to the event bus. The hub bridge on
// each instance forwards them to local websocket connections, so the
// fanout itself never touches the hub directly.
type Fanout struct {
	publisher pubsub.Publisher
}

// NewFanout creates a Fanout backed by the given publisher.
func NewFanout(publisher pubsub.Publisher) *Fanout {
	return &Fanout{publisher: publisher}
}

// ChatCreated notifies both participants on their personal channels.
func (f *Fanout) ChatCreated(ctx context.Context, chat *domain.Chat) {
	for _, userID := range chat.Participants {
		event, err := pubsub.NewEvent(pubsub.EventNewChat, userID, chat)
		if err != nil {
			f.logFailure(ctx, pubsub.EventNewChat, userID, err)
			continue
		}
		if err := f.publisher.Publish(ctx, pubsub.UserChannel(userID), event); err != nil {
			f.logFailure(ctx, pubsub.EventNewChat, userID, err)
		}
	}
}

// MessageAppended notifies every connected client; receivers filter by
// the chats they have open.
func (f *Fanout) MessageAppended(ctx context.Context, chatID string, message domain.Message) {
	payload := pubsub.NewMessagePayload{ChatID: chatID, Message: message}
	event, err := pubsub.NewEvent(pubsub.EventNewMessage, "", payload)
	if err != nil {
		f.logFailure(ctx, pubsub.EventNewMessage, "", err)
		return
	}
	if err := f.publisher.Publish(ctx, pubsub.ChannelBroadcast, event); err != nil {
		f.logFailure(ctx, pubsub.EventNewMessage, "", err)
	}
}

// ChatDeleted notifies both former participants on their personal
// channels so open views can clear themselves.
func (f *Fanout) ChatDeleted(ctx context.Context, chat *domain.Chat) {
	payload := pubsub.ChatDeletedPayload{ChatID: chat.ID}
	for _, userID := range chat.Participants {
		event, err := pubsub.NewEvent(pubsub.EventChatDeleted, userID, payload)
		if err != nil {
			f.logFailure(ctx, pubsub.EventChatDeleted, userID, err)
			continue
		}
		if err := f.publisher.Publish(ctx, pubsub.UserChannel(userID), event); err != nil {
			f.logFailure(ctx, pubsub.EventChatDeleted, userID, err)
		}
	}
}

func (f *Fanout) logFailure(ctx context.Context, eventType, userID string, err error) {
	l := log.Ctx(ctx)
	l.Warn().Err(err).
		Str(log.FieldEvent, eventType).
		Str(log.FieldUserID, userID).
		Msg("failed to publish notification")
}
