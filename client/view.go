package client

import (
	"encoding/json"
	"time"

	"github.com/christa-jose1/student-migration-portal/internal/domain"
	"github.com/christa-jose1/student-migration-portal/pkg/timefmt"
)

// View states. A view starts with no selection, enters Loading when a
// chat is selected, and reaches Loaded once the fetch completes.
type ViewState int

const (
	StateNoChatSelected ViewState = iota
	StateLoading
	StateLoaded
)

// Section groups consecutive messages sharing a calendar-day label.
type Section struct {
	Label    string
	Messages []domain.MessageView
}

// ConversationView is the client-side state of one open conversation.
// It is updated from HTTP responses and live events; it never talks to
// the network itself.
type ConversationView struct {
	state   ViewState
	chatID  string
	chat    *domain.ChatView
	loadErr error
	sendErr error
	now     func() time.Time
}

// NewConversationView creates an empty view.
func NewConversationView() *ConversationView {
	return &ConversationView{state: StateNoChatSelected, now: time.Now}
}

// State returns the current view state.
func (v *ConversationView) State() ViewState {
	return v.state
}

// ChatID returns the selected chat id, or "" when nothing is selected.
func (v *ConversationView) ChatID() string {
	return v.chatID
}

// Chat returns the loaded conversation, or nil before load completes.
func (v *ConversationView) Chat() *domain.ChatView {
	return v.chat
}

// LoadErr returns the error of the last failed load, if any.
func (v *ConversationView) LoadErr() error {
	return v.loadErr
}

// SendErr returns the inline error of the last failed send, if any.
func (v *ConversationView) SendErr() error {
	return v.sendErr
}

// Select begins loading the given chat. Selecting clears any previous
// conversation and errors.
func (v *ConversationView) Select(chatID string) {
	v.state = StateLoading
	v.chatID = chatID
	v.chat = nil
	v.loadErr = nil
	v.sendErr = nil
}

// LoadSucceeded installs the fetched conversation. A response for a
// chat that is no longer selected is dropped.
func (v *ConversationView) LoadSucceeded(chat *domain.ChatView) {
	if v.state != StateLoading || chat.ID != v.chatID {
		return
	}
	v.state = StateLoaded
	v.chat = chat
}

// LoadFailed records a failed load; the selection is kept so the fetch
// can be retried.
func (v *ConversationView) LoadFailed(err error) {
	if v.state != StateLoading {
		return
	}
	v.loadErr = err
}

// SendSucceeded replaces the conversation with the server's updated
// copy and clears any inline send error.
func (v *ConversationView) SendSucceeded(chat *domain.ChatView) {
	if v.state != StateLoaded || chat.ID != v.chatID {
		return
	}
	v.chat = chat
	v.sendErr = nil
}

// SendFailed records an inline error. The conversation stays visible;
// nothing already rendered is lost.
func (v *ConversationView) SendFailed(err error) {
	v.sendErr = err
}

// ApplyEvent folds a live notification into the view. It reports
// whether the caller should refetch: a new message for a chat that is
// not currently loaded means the chat list is stale.
func (v *ConversationView) ApplyEvent(event Event) bool {
	switch event.Type {
	case "newMessage":
		var payload struct {
			ChatID  string         `json:"chatId"`
			Message domain.Message `json:"message"`
		}
		if err := json.Unmarshal(event.Payload, &payload); err != nil {
			return false
		}
		if v.state == StateLoaded && payload.ChatID == v.chatID {
			v.appendMessage(payload.Message)
			return false
		}
		return true

	case "chatDeleted":
		var payload struct {
			ChatID string `json:"chatId"`
		}
		if err := json.Unmarshal(event.Payload, &payload); err != nil {
			return false
		}
		if payload.ChatID == v.chatID {
			v.state = StateNoChatSelected
			v.chatID = ""
			v.chat = nil
			v.sendErr = nil
		}
		return true

	case "newChat":
		return true
	}
	return false
}

func (v *ConversationView) appendMessage(msg domain.Message) {
	// The same message can arrive over HTTP and the socket; keep one.
	for _, m := range v.chat.Messages {
		if m.ID == msg.ID {
			return
		}
	}
	v.chat.Messages = append(v.chat.Messages, domain.AnnotateMessage(msg, v.now(), ""))
	v.chat.LastMessage = msg.Content
	v.chat.UpdatedAt = msg.CreatedAt
}

// Sections groups the loaded messages under calendar-day dividers, in
// order: Today, Yesterday, a weekday name within the last week, or the
// full date.
func (v *ConversationView) Sections() []Section {
	if v.chat == nil {
		return nil
	}

	now := v.now()
	var sections []Section
	for _, m := range v.chat.Messages {
		label := timefmt.DateBucket(m.CreatedAt, now)
		if n := len(sections); n > 0 && sections[n-1].Label == label {
			sections[n-1].Messages = append(sections[n-1].Messages, m)
			continue
		}
		sections = append(sections, Section{Label: label, Messages: []domain.MessageView{m}})
	}
	return sections
}
