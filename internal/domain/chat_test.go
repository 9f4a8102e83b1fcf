package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func Test_Chat_Participants(t *testing.T) {
	req := require.New(t)
	chat := &Chat{Participants: []string{"u1", "u2"}}

	req.True(chat.HasParticipant("u1"))
	req.True(chat.HasParticipant("u2"))
	req.False(chat.HasParticipant("u3"))

	req.Equal("u2", chat.OtherParticipant("u1"))
	req.Equal("u1", chat.OtherParticipant("u2"))
	req.Equal("", chat.OtherParticipant("u3"))
}

func Test_Chat_UnreadCount(t *testing.T) {
	chat := &Chat{
		Participants: []string{"u1", "u2"},
		Messages: []Message{
			{SenderID: "u1", Content: "hi", IsRead: false},
			{SenderID: "u2", Content: "hello", IsRead: false},
			{SenderID: "u2", Content: "there", IsRead: true},
			{SenderID: "u2", Content: "?", IsRead: false},
		},
	}

	require.Equal(t, 2, chat.UnreadCount("u1"))
	require.Equal(t, 1, chat.UnreadCount("u2"))
}

func Test_AnnotateMessage(t *testing.T) {
	req := require.New(t)
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	msg := Message{ID: "m1", SenderID: "u1", Content: "hi", CreatedAt: now.Add(-2 * time.Hour)}

	view := AnnotateMessage(msg, now, "Alice")
	req.Equal("2 hours ago", view.TimeAgo)
	req.Equal("Alice", view.SenderName)
	req.Equal("hi", view.Content)
}

func Test_Post_ToggleLike(t *testing.T) {
	req := require.New(t)
	post := &Post{Likes: []string{"u1"}}

	req.True(post.ToggleLike("u2"))
	req.ElementsMatch([]string{"u1", "u2"}, post.Likes)

	req.False(post.ToggleLike("u1"))
	req.Equal([]string{"u2"}, post.Likes)
}
