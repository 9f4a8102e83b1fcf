package client

import (
	"context"
	"encoding/json"
	"time"

	"github.com/gorilla/websocket"

	"github.com/christa-jose1/student-migration-portal/pkg/log"
)

// Event is one notification received over the socket.
type Event struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

// Stream is a live connection to the portal's notification socket. It
// joins the user's room on connect and reconnects with backoff until
// its context is cancelled.
type Stream struct {
	url    string
	userID string
	events chan Event
}

// NewStream creates a Stream for the given websocket URL and user.
func NewStream(url, userID string) *Stream {
	return &Stream{
		url:    url,
		userID: userID,
		events: make(chan Event, 64),
	}
}

// Events returns the channel notifications arrive on. The channel is
// closed when Run returns.
func (s *Stream) Events() <-chan Event {
	return s.events
}

// Run connects and keeps the stream alive until ctx is cancelled.
func (s *Stream) Run(ctx context.Context) {
	defer close(s.events)

	backoff := time.Second
	for {
		joined, err := s.connect(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			l := log.Ctx(ctx)
			l.Warn().Err(err).Dur("retry_in", backoff).Msg("event stream disconnected")
		}

		select {
		case <-ctx.Done():
			return
		case <-time.After(backoff):
		}
		backoff = nextBackoff(backoff, joined)
	}
}

// nextBackoff doubles the retry delay up to 30s while connects keep
// failing, and drops back to one second once a session made it past
// the join.
func nextBackoff(current time.Duration, joined bool) time.Duration {
	if joined {
		return time.Second
	}
	if current < 30*time.Second {
		return current * 2
	}
	return current
}

// connect dials, joins the user's room, and pumps events until the
// connection drops. The returned bool reports whether the session got
// past the join.
func (s *Stream) connect(ctx context.Context) (bool, error) {
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, s.url, nil)
	if err != nil {
		return false, err
	}
	defer conn.Close()

	join := map[string]string{"type": "join", "userId": s.userID}
	if err := conn.WriteJSON(join); err != nil {
		return false, err
	}

	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			conn.Close()
		case <-done:
		}
	}()

	for {
		var event Event
		if err := conn.ReadJSON(&event); err != nil {
			return true, err
		}
		select {
		case s.events <- event:
		default:
			// Consumer is behind; the view refetches on demand anyway.
		}
	}
}
