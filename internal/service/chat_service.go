package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/christa-jose1/student-migration-portal/internal/domain"
	"github.com/christa-jose1/student-migration-portal/internal/notify"
	"github.com/christa-jose1/student-migration-portal/internal/repository"
	"github.com/christa-jose1/student-migration-portal/pkg/log"
)

// ChatService implements two-party conversations. Creation is
// idempotent on the participant pair, messages are append-only, and
// every mutation fans a notification out after the write commits.
type ChatService struct {
	chats    repository.ChatRepository
	users    repository.UserRepository
	notifier notify.Notifier
	now      func() time.Time
}

// NewChatService creates a ChatService.
func NewChatService(chats repository.ChatRepository, users repository.UserRepository, notifier notify.Notifier) *ChatService {
	return &ChatService{
		chats:    chats,
		users:    users,
		notifier: notifier,
		now:      time.Now,
	}
}

// CreateOrGet starts a chat between two users, or returns the existing
// one when the pair already has a conversation. The boolean reports
// whether a new chat was created.
func (s *ChatService) CreateOrGet(ctx context.Context, req domain.CreateChatRequest) (*domain.ChatView, bool, error) {
	if len(req.ParticipantIDs) != 2 {
		return nil, false, ErrInvalidParticipants
	}
	first, second := req.ParticipantIDs[0], req.ParticipantIDs[1]
	if first == "" || second == "" || first == second {
		return nil, false, ErrInvalidParticipants
	}

	existing, err := s.chats.FindByParticipants(ctx, first, second)
	if err == nil {
		view, verr := s.buildView(ctx, existing, "")
		return view, false, verr
	}
	if !errors.Is(err, repository.ErrChatNotFound) {
		return nil, false, err
	}

	content := strings.TrimSpace(req.Message)
	if content == "" {
		content = domain.PlaceholderMessage
	}
	now := s.now()
	chat := &domain.Chat{
		Participants: []string{first, second},
		Messages: []domain.Message{{
			SenderID:  first,
			Content:   content,
			CreatedAt: now,
		}},
		LastMessage: content,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.chats.Create(ctx, chat); err != nil {
		return nil, false, err
	}

	l := log.Ctx(ctx)
	l.Info().Str(log.FieldChatID, chat.ID).Str(log.FieldUserID, first).Msg("chat created")

	s.notifier.ChatCreated(ctx, chat)

	view, err := s.buildView(ctx, chat, "")
	return view, true, err
}

// ListForUser returns the user's conversations, most recently active
// first, annotated with display names and unread counts.
func (s *ChatService) ListForUser(ctx context.Context, userID string) ([]domain.ChatView, error) {
	if userID == "" {
		return nil, repository.ErrUserNotFound
	}
	chats, err := s.chats.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	ids := make([]string, 0, len(chats)*2)
	for _, c := range chats {
		ids = append(ids, c.Participants...)
	}
	names, err := s.users.FindManyByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	now := s.now()
	views := make([]domain.ChatView, 0, len(chats))
	for i := range chats {
		views = append(views, *assembleView(&chats[i], names, userID, now))
	}
	return views, nil
}

// Get returns one conversation with display annotations.
func (s *ChatService) Get(ctx context.Context, chatID, requesterID string) (*domain.ChatView, error) {
	chat, err := s.chats.FindByID(ctx, chatID)
	if err != nil {
		return nil, err
	}
	if requesterID != "" && !chat.HasParticipant(requesterID) {
		return nil, ErrNotParticipant
	}
	return s.buildView(ctx, chat, requesterID)
}

// AppendMessage adds a message to an existing chat. The sender must be
// a participant and the content must not be blank.
func (s *ChatService) AppendMessage(ctx context.Context, chatID string, req domain.AppendMessageRequest) (*domain.ChatView, error) {
	if strings.TrimSpace(req.Content) == "" {
		return nil, ErrEmptyContent
	}

	chat, err := s.chats.FindByID(ctx, chatID)
	if err != nil {
		return nil, err
	}
	if !chat.HasParticipant(req.SenderID) {
		return nil, ErrNotParticipant
	}

	msg := domain.Message{
		SenderID:   req.SenderID,
		Content:    req.Content,
		Attachment: req.Attachment,
		CreatedAt:  s.now(),
	}
	updated, err := s.chats.AppendMessage(ctx, chatID, msg)
	if err != nil {
		return nil, err
	}

	appended := updated.Messages[len(updated.Messages)-1]
	s.notifier.MessageAppended(ctx, updated.ID, appended)

	return s.buildView(ctx, updated, req.SenderID)
}

// MarkRead flags every message the counterpart sent as read.
func (s *ChatService) MarkRead(ctx context.Context, chatID, readerID string) (*domain.ChatView, error) {
	chat, err := s.chats.FindByID(ctx, chatID)
	if err != nil {
		return nil, err
	}
	if !chat.HasParticipant(readerID) {
		return nil, ErrNotParticipant
	}

	updated, err := s.chats.MarkRead(ctx, chatID, chat.OtherParticipant(readerID))
	if err != nil {
		return nil, err
	}
	return s.buildView(ctx, updated, readerID)
}

// Delete removes a conversation permanently and notifies both former
// participants.
func (s *ChatService) Delete(ctx context.Context, chatID, requesterID string) error {
	chat, err := s.chats.FindByID(ctx, chatID)
	if err != nil {
		return err
	}
	if !chat.HasParticipant(requesterID) {
		return ErrNotParticipant
	}

	deleted, err := s.chats.Delete(ctx, chatID)
	if err != nil {
		return err
	}

	l := log.Ctx(ctx)
	l.Info().Str(log.FieldChatID, chatID).Str(log.FieldUserID, requesterID).Msg("chat deleted")

	s.notifier.ChatDeleted(ctx, deleted)
	return nil
}

func (s *ChatService) buildView(ctx context.Context, chat *domain.Chat, viewerID string) (*domain.ChatView, error) {
	names, err := s.users.FindManyByIDs(ctx, chat.Participants)
	if err != nil {
		return nil, err
	}
	return assembleView(chat, names, viewerID, s.now()), nil
}

// assembleView annotates a chat for the given viewer. Missing directory
// entries degrade to empty names rather than failing the request.
func assembleView(chat *domain.Chat, names map[string]domain.User, viewerID string, now time.Time) *domain.ChatView {
	participants := make([]domain.Participant, 0, len(chat.Participants))
	for _, id := range chat.Participants {
		participants = append(participants, domain.Participant{ID: id, Name: names[id].Name})
	}

	messages := make([]domain.MessageView, 0, len(chat.Messages))
	for _, m := range chat.Messages {
		messages = append(messages, domain.AnnotateMessage(m, now, names[m.SenderID].Name))
	}

	view := &domain.ChatView{
		ID:           chat.ID,
		Participants: participants,
		Messages:     messages,
		LastMessage:  chat.LastMessage,
		CreatedAt:    chat.CreatedAt,
		UpdatedAt:    chat.UpdatedAt,
	}
	if viewerID != "" {
		view.UnreadCount = chat.UnreadCount(viewerID)
	}
	return view
}
