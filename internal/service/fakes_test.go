package service

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/christa-jose1/student-migration-portal/internal/domain"
	"github.com/christa-jose1/student-migration-portal/internal/repository"
)

// memChatRepo is an in-memory ChatRepository with the same semantics
// as the mongo implementation: canonical sorted participant storage,
// set-based lookup, append-only messages.
type memChatRepo struct {
	mu    sync.Mutex
	seq   int
	chats map[string]*domain.Chat
}

func newMemChatRepo() *memChatRepo {
	return &memChatRepo{chats: make(map[string]*domain.Chat)}
}

func (r *memChatRepo) nextID(prefix string) string {
	r.seq++
	return fmt.Sprintf("%s-%d", prefix, r.seq)
}

func (r *memChatRepo) Create(_ context.Context, chat *domain.Chat) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	chat.ID = r.nextID("chat")
	sorted := append([]string(nil), chat.Participants...)
	sort.Strings(sorted)
	chat.Participants = sorted
	for i := range chat.Messages {
		if chat.Messages[i].ID == "" {
			chat.Messages[i].ID = r.nextID("msg")
		}
	}
	r.chats[chat.ID] = cloneChat(chat)
	return nil
}

func (r *memChatRepo) FindByParticipants(_ context.Context, idA, idB string) (*domain.Chat, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	want := []string{idA, idB}
	sort.Strings(want)
	for _, c := range r.chats {
		if len(c.Participants) == 2 && c.Participants[0] == want[0] && c.Participants[1] == want[1] {
			return cloneChat(c), nil
		}
	}
	return nil, repository.ErrChatNotFound
}

func (r *memChatRepo) FindByID(_ context.Context, id string) (*domain.Chat, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	c, ok := r.chats[id]
	if !ok {
		return nil, repository.ErrChatNotFound
	}
	return cloneChat(c), nil
}

func (r *memChatRepo) ListByUser(_ context.Context, userID string) ([]domain.Chat, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var out []domain.Chat
	for _, c := range r.chats {
		if c.HasParticipant(userID) {
			out = append(out, *cloneChat(c))
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].UpdatedAt.After(out[j].UpdatedAt)
	})
	return out, nil
}

func (r *memChatRepo) AppendMessage(_ context.Context, chatID string, msg domain.Message) (*domain.Chat, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	c, ok := r.chats[chatID]
	if !ok {
		return nil, repository.ErrChatNotFound
	}
	if msg.ID == "" {
		msg.ID = r.nextID("msg")
	}
	c.Messages = append(c.Messages, msg)
	c.LastMessage = msg.Content
	c.UpdatedAt = msg.CreatedAt
	return cloneChat(c), nil
}

func (r *memChatRepo) MarkRead(_ context.Context, chatID, senderID string) (*domain.Chat, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	c, ok := r.chats[chatID]
	if !ok {
		return nil, repository.ErrChatNotFound
	}
	for i := range c.Messages {
		if c.Messages[i].SenderID == senderID {
			c.Messages[i].IsRead = true
		}
	}
	return cloneChat(c), nil
}

func (r *memChatRepo) Delete(_ context.Context, chatID string) (*domain.Chat, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	c, ok := r.chats[chatID]
	if !ok {
		return nil, repository.ErrChatNotFound
	}
	delete(r.chats, chatID)
	return c, nil
}

func cloneChat(c *domain.Chat) *domain.Chat {
	dup := *c
	dup.Participants = append([]string(nil), c.Participants...)
	dup.Messages = append([]domain.Message(nil), c.Messages...)
	return &dup
}

// memUserRepo is an in-memory UserRepository.
type memUserRepo struct {
	mu    sync.Mutex
	seq   int
	users map[string]*domain.User
}

func newMemUserRepo() *memUserRepo {
	return &memUserRepo{users: make(map[string]*domain.User)}
}

func (r *memUserRepo) seed(users ...domain.User) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range users {
		u := users[i]
		if u.ID == "" {
			r.seq++
			u.ID = fmt.Sprintf("user-%d", r.seq)
		}
		r.users[u.ID] = &u
	}
}

func (r *memUserRepo) Create(_ context.Context, user *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, u := range r.users {
		if u.UID == user.UID || u.Email == user.Email {
			return repository.ErrDuplicate
		}
	}
	r.seq++
	user.ID = fmt.Sprintf("user-%d", r.seq)
	dup := *user
	r.users[user.ID] = &dup
	return nil
}

func (r *memUserRepo) FindByID(_ context.Context, id string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	u, ok := r.users[id]
	if !ok {
		return nil, repository.ErrUserNotFound
	}
	dup := *u
	return &dup, nil
}

func (r *memUserRepo) FindByUID(_ context.Context, uid string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, u := range r.users {
		if u.UID == uid {
			dup := *u
			return &dup, nil
		}
	}
	return nil, repository.ErrUserNotFound
}

func (r *memUserRepo) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, u := range r.users {
		if u.Email == email {
			dup := *u
			return &dup, nil
		}
	}
	return nil, repository.ErrUserNotFound
}

func (r *memUserRepo) FindManyByIDs(_ context.Context, ids []string) (map[string]domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make(map[string]domain.User, len(ids))
	for _, id := range ids {
		if u, ok := r.users[id]; ok {
			out[id] = *u
		}
	}
	return out, nil
}

func (r *memUserRepo) List(_ context.Context) ([]domain.DirectoryEntry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]domain.DirectoryEntry, 0, len(r.users))
	for _, u := range r.users {
		out = append(out, domain.DirectoryEntry{ID: u.ID, Name: u.Name})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *memUserRepo) UpdateRole(_ context.Context, email, role string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, u := range r.users {
		if u.Email == email {
			u.Role = role
			dup := *u
			return &dup, nil
		}
	}
	return nil, repository.ErrUserNotFound
}

func (r *memUserRepo) DeleteByUID(_ context.Context, uid string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for id, u := range r.users {
		if u.UID == uid {
			delete(r.users, id)
			return nil
		}
	}
	return repository.ErrUserNotFound
}

func (r *memUserRepo) update(id string, fn func(*domain.User)) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	u, ok := r.users[id]
	if !ok {
		return nil, repository.ErrUserNotFound
	}
	fn(u)
	dup := *u
	return &dup, nil
}

func (r *memUserRepo) ApplyCourse(_ context.Context, userID, country, course string, universities []string) (*domain.User, error) {
	return r.update(userID, func(u *domain.User) {
		u.CountriesChosen = []string{country}
		u.Courses = append(u.Courses, course)
		u.Universities = append(u.Universities, universities...)
	})
}

func remove(values []string, target string) []string {
	out := values[:0]
	for _, v := range values {
		if v != target {
			out = append(out, v)
		}
	}
	return out
}

func (r *memUserRepo) RemoveCourse(_ context.Context, userID, course string) (*domain.User, error) {
	return r.update(userID, func(u *domain.User) { u.Courses = remove(u.Courses, course) })
}

func (r *memUserRepo) RemoveCountry(_ context.Context, userID, country string) (*domain.User, error) {
	return r.update(userID, func(u *domain.User) { u.CountriesChosen = remove(u.CountriesChosen, country) })
}

func (r *memUserRepo) RemoveUniversity(_ context.Context, userID, university string) (*domain.User, error) {
	return r.update(userID, func(u *domain.User) { u.Universities = remove(u.Universities, university) })
}

func (r *memUserRepo) UpdatePhone(_ context.Context, userID, phone string) (*domain.User, error) {
	return r.update(userID, func(u *domain.User) { u.Phone = phone })
}

func (r *memUserRepo) UpdateEducation(_ context.Context, userID, education string) (*domain.User, error) {
	return r.update(userID, func(u *domain.User) { u.Education = education })
}

// recordNotifier captures notifications for assertions.
type recordNotifier struct {
	mu       sync.Mutex
	created  []*domain.Chat
	appended []domain.Message
	deleted  []*domain.Chat
}

func (n *recordNotifier) ChatCreated(_ context.Context, chat *domain.Chat) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.created = append(n.created, chat)
}

func (n *recordNotifier) MessageAppended(_ context.Context, _ string, message domain.Message) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.appended = append(n.appended, message)
}

func (n *recordNotifier) ChatDeleted(_ context.Context, chat *domain.Chat) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.deleted = append(n.deleted, chat)
}

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}
