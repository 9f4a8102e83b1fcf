package domain

import (
	"time"

	"github.com/christa-jose1/student-migration-portal/pkg/timefmt"
)

// PlaceholderMessage seeds a chat created without an initial message.
const PlaceholderMessage = "Chat started"

// Message is one entry in a chat's embedded message list. Messages are
// append-only; only the IsRead flag ever changes after insertion.
type Message struct {
	ID         string    `json:"_id"`
	SenderID   string    `json:"senderId"`
	Content    string    `json:"content"`
	IsRead     bool      `json:"isRead"`
	Attachment string    `json:"attachment,omitempty"`
	CreatedAt  time.Time `json:"createdAt"`
}

// Chat is a two-party conversation aggregate. Participants always holds
// exactly two distinct user ids; the pair identifies the chat as a set.
type Chat struct {
	ID           string    `json:"_id"`
	Participants []string  `json:"participants"`
	Messages     []Message `json:"messages"`
	LastMessage  string    `json:"lastMessage"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// HasParticipant reports whether userID is one of the two participants.
func (c *Chat) HasParticipant(userID string) bool {
	for _, p := range c.Participants {
		if p == userID {
			return true
		}
	}
	return false
}

// OtherParticipant returns the counterpart of userID, or "" when userID
// is not a participant.
func (c *Chat) OtherParticipant(userID string) string {
	if !c.HasParticipant(userID) {
		return ""
	}
	for _, p := range c.Participants {
		if p != userID {
			return p
		}
	}
	return ""
}

// UnreadCount counts messages addressed to userID that are still unread.
func (c *Chat) UnreadCount(userID string) int {
	n := 0
	for _, m := range c.Messages {
		if m.SenderID != userID && !m.IsRead {
			n++
		}
	}
	return n
}

// Participant pairs a user id with its display name for API responses.
type Participant struct {
	ID   string `json:"_id"`
	Name string `json:"name"`
}

// MessageView is a Message annotated for display. TimeAgo is derived at
// response time and never stored.
type MessageView struct {
	Message
	SenderName string `json:"senderName,omitempty"`
	TimeAgo    string `json:"timeAgo"`
}

// ChatView is the API shape of a chat aggregate.
type ChatView struct {
	ID           string        `json:"_id"`
	Participants []Participant `json:"participants"`
	Messages     []MessageView `json:"messages"`
	LastMessage  string        `json:"lastMessage"`
	UnreadCount  int           `json:"unreadCount"`
	CreatedAt    time.Time     `json:"createdAt"`
	UpdatedAt    time.Time     `json:"updatedAt"`
}

// AnnotateMessage derives the display form of a message as of now.
func AnnotateMessage(m Message, now time.Time, senderName string) MessageView {
	return MessageView{
		Message:    m,
		SenderName: senderName,
		TimeAgo:    timefmt.TimeAgo(m.CreatedAt, now),
	}
}

// CreateChatRequest initiates (or re-opens) a chat between two users.
type CreateChatRequest struct {
	ParticipantIDs []string `json:"participantIds" binding:"required"`
	Message        string   `json:"message"`
}

// AppendMessageRequest adds a message to an existing chat.
type AppendMessageRequest struct {
	SenderID   string `json:"senderId" binding:"required"`
	Content    string `json:"content" binding:"required"`
	Attachment string `json:"attachment"`
}

// MarkReadRequest marks the counterpart's messages as read.
type MarkReadRequest struct {
	ReaderID string `json:"readerId" binding:"required"`
}
