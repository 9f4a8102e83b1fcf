package service

import "errors"

var (
	// ErrInvalidParticipants is returned when the participant pair of a
	// chat is not exactly two distinct user ids.
	ErrInvalidParticipants = errors.New("chat requires exactly two distinct participants")

	// ErrNotParticipant is returned when a user acts on a chat they do
	// not belong to.
	ErrNotParticipant = errors.New("user is not a participant of this chat")

	// ErrEmptyContent is returned when a message has no content.
	ErrEmptyContent = errors.New("message content must not be empty")

	// ErrUserExists is returned when a signup collides with an existing
	// email or provider id.
	ErrUserExists = errors.New("user already exists")

	// ErrNotAuthor is returned when a non-admin deletes someone else's
	// post.
	ErrNotAuthor = errors.New("only the author can modify this post")
)
