package pubsub

import "fmt"

// Channel naming conventions for chat notifications.
const (
	// Per-user personal channel: newChat / chatDeleted land here.
	ChannelUser = "chat:user:%s"

	// Shared broadcast channel: newMessage lands here.
	ChannelBroadcast = "chat:events"

	// Pattern covering every personal channel, for the hub bridge.
	PatternUsers = "chat:user:*"
)

// Event types mirrored to connected websocket clients.
const (
	EventNewChat     = "newChat"
	EventNewMessage  = "newMessage"
	EventChatDeleted = "chatDeleted"
)

// UserChannel returns the personal channel name for a user.
func UserChannel(userID string) string {
	return fmt.Sprintf(ChannelUser, userID)
}

// NewMessagePayload carries a freshly appended message.
type NewMessagePayload struct {
	ChatID  string      `json:"chatId"`
	Message interface{} `json:"message"`
}

// ChatDeletedPayload carries the id of a removed chat.
type ChatDeletedPayload struct {
	ChatID string `json:"chatId"`
}
