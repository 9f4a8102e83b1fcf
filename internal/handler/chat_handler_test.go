package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sort"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"github.com/christa-jose1/student-migration-portal/internal/domain"
	"github.com/christa-jose1/student-migration-portal/internal/middleware"
	"github.com/christa-jose1/student-migration-portal/internal/repository"
	"github.com/christa-jose1/student-migration-portal/internal/service"
	"github.com/christa-jose1/student-migration-portal/pkg/jwt"
)

// stubChatRepo keeps chats in memory with the same lookup semantics as
// the mongo repository.
type stubChatRepo struct {
	seq   int
	chats map[string]*domain.Chat
}

func newStubChatRepo() *stubChatRepo {
	return &stubChatRepo{chats: make(map[string]*domain.Chat)}
}

func (r *stubChatRepo) Create(_ context.Context, chat *domain.Chat) error {
	r.seq++
	chat.ID = fmt.Sprintf("chat-%d", r.seq)
	sort.Strings(chat.Participants)
	for i := range chat.Messages {
		r.seq++
		chat.Messages[i].ID = fmt.Sprintf("msg-%d", r.seq)
	}
	dup := *chat
	r.chats[chat.ID] = &dup
	return nil
}

func (r *stubChatRepo) FindByParticipants(_ context.Context, idA, idB string) (*domain.Chat, error) {
	want := []string{idA, idB}
	sort.Strings(want)
	for _, c := range r.chats {
		if len(c.Participants) == 2 && c.Participants[0] == want[0] && c.Participants[1] == want[1] {
			return c, nil
		}
	}
	return nil, repository.ErrChatNotFound
}

func (r *stubChatRepo) FindByID(_ context.Context, id string) (*domain.Chat, error) {
	c, ok := r.chats[id]
	if !ok {
		return nil, repository.ErrChatNotFound
	}
	return c, nil
}

func (r *stubChatRepo) ListByUser(_ context.Context, userID string) ([]domain.Chat, error) {
	var out []domain.Chat
	for _, c := range r.chats {
		if c.HasParticipant(userID) {
			out = append(out, *c)
		}
	}
	return out, nil
}

func (r *stubChatRepo) AppendMessage(_ context.Context, chatID string, msg domain.Message) (*domain.Chat, error) {
	c, ok := r.chats[chatID]
	if !ok {
		return nil, repository.ErrChatNotFound
	}
	r.seq++
	msg.ID = fmt.Sprintf("msg-%d", r.seq)
	c.Messages = append(c.Messages, msg)
	c.LastMessage = msg.Content
	c.UpdatedAt = msg.CreatedAt
	return c, nil
}

func (r *stubChatRepo) MarkRead(_ context.Context, chatID, senderID string) (*domain.Chat, error) {
	c, ok := r.chats[chatID]
	if !ok {
		return nil, repository.ErrChatNotFound
	}
	for i := range c.Messages {
		if c.Messages[i].SenderID == senderID {
			c.Messages[i].IsRead = true
		}
	}
	return c, nil
}

func (r *stubChatRepo) Delete(_ context.Context, chatID string) (*domain.Chat, error) {
	c, ok := r.chats[chatID]
	if !ok {
		return nil, repository.ErrChatNotFound
	}
	delete(r.chats, chatID)
	return c, nil
}

// stubUserRepo serves name lookups only; the remaining methods are
// unused by the chat service.
type stubUserRepo struct {
	users map[string]domain.User
}

func (r *stubUserRepo) Create(context.Context, *domain.User) error { return nil }

func (r *stubUserRepo) FindByID(_ context.Context, id string) (*domain.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, repository.ErrUserNotFound
	}
	return &u, nil
}

func (r *stubUserRepo) FindByUID(context.Context, string) (*domain.User, error) {
	return nil, repository.ErrUserNotFound
}

func (r *stubUserRepo) FindByEmail(context.Context, string) (*domain.User, error) {
	return nil, repository.ErrUserNotFound
}

func (r *stubUserRepo) FindManyByIDs(_ context.Context, ids []string) (map[string]domain.User, error) {
	out := make(map[string]domain.User)
	for _, id := range ids {
		if u, ok := r.users[id]; ok {
			out[id] = u
		}
	}
	return out, nil
}

func (r *stubUserRepo) List(context.Context) ([]domain.DirectoryEntry, error) { return nil, nil }

func (r *stubUserRepo) UpdateRole(context.Context, string, string) (*domain.User, error) {
	return nil, repository.ErrUserNotFound
}

func (r *stubUserRepo) DeleteByUID(context.Context, string) error { return nil }

func (r *stubUserRepo) ApplyCourse(context.Context, string, string, string, []string) (*domain.User, error) {
	return nil, repository.ErrUserNotFound
}

func (r *stubUserRepo) RemoveCourse(context.Context, string, string) (*domain.User, error) {
	return nil, repository.ErrUserNotFound
}

func (r *stubUserRepo) RemoveCountry(context.Context, string, string) (*domain.User, error) {
	return nil, repository.ErrUserNotFound
}

func (r *stubUserRepo) RemoveUniversity(context.Context, string, string) (*domain.User, error) {
	return nil, repository.ErrUserNotFound
}

func (r *stubUserRepo) UpdatePhone(context.Context, string, string) (*domain.User, error) {
	return nil, repository.ErrUserNotFound
}

func (r *stubUserRepo) UpdateEducation(context.Context, string, string) (*domain.User, error) {
	return nil, repository.ErrUserNotFound
}

type noopNotifier struct{}

func (noopNotifier) ChatCreated(context.Context, *domain.Chat)               {}
func (noopNotifier) MessageAppended(context.Context, string, domain.Message) {}
func (noopNotifier) ChatDeleted(context.Context, *domain.Chat)               {}

func newChatRouter(t *testing.T) (*gin.Engine, string) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	chats := newStubChatRepo()
	users := &stubUserRepo{users: map[string]domain.User{
		"alice": {ID: "alice", Name: "Alice"},
		"bob":   {ID: "bob", Name: "Bob"},
	}}
	svc := service.NewChatService(chats, users, noopNotifier{})

	tokens := jwt.NewManager("test-secret", time.Hour, "migration-portal")
	token, _, err := tokens.Generate("alice", "a@example.com", "Alice", domain.RoleUser)
	require.NoError(t, err)

	r := gin.New()
	api := r.Group("/api")
	api.Use(middleware.RequireAuth(tokens))
	NewChatHandler(svc).RegisterRoutes(api)
	return r, token
}

func doJSON(t *testing.T, r *gin.Engine, token, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	hr := httptest.NewRequest(method, path, reader)
	hr.Header.Set("Content-Type", "application/json")
	hr.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, hr)
	return w
}

func decodeData(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()

	var envelope struct {
		Success bool                   `json:"success"`
		Data    map[string]interface{} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
	require.True(t, envelope.Success)
	return envelope.Data
}

func Test_Create_Chat_Returns_201_Then_200(t *testing.T) {
	req := require.New(t)
	r, token := newChatRouter(t)

	w := doJSON(t, r, token, http.MethodPost, "/api/chats", domain.CreateChatRequest{
		ParticipantIDs: []string{"alice", "bob"},
		Message:        "hello",
	})
	req.Equal(http.StatusCreated, w.Code)
	first := decodeData(t, w)

	w = doJSON(t, r, token, http.MethodPost, "/api/chats", domain.CreateChatRequest{
		ParticipantIDs: []string{"bob", "alice"},
	})
	req.Equal(http.StatusOK, w.Code)
	req.Equal(first["_id"], decodeData(t, w)["_id"])
}

func Test_Create_Chat_Validates_Participants(t *testing.T) {
	req := require.New(t)
	r, token := newChatRouter(t)

	w := doJSON(t, r, token, http.MethodPost, "/api/chats", domain.CreateChatRequest{
		ParticipantIDs: []string{"alice"},
	})
	req.Equal(http.StatusBadRequest, w.Code)

	w = doJSON(t, r, token, http.MethodPost, "/api/chats", map[string]interface{}{})
	req.Equal(http.StatusBadRequest, w.Code)
}

func Test_Chat_Routes_Require_Auth(t *testing.T) {
	req := require.New(t)
	r, _ := newChatRouter(t)

	hr := httptest.NewRequest(http.MethodGet, "/api/chats/user/alice", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, hr)
	req.Equal(http.StatusUnauthorized, w.Code)
}

func Test_Append_And_Read_Flow_Over_HTTP(t *testing.T) {
	req := require.New(t)
	r, token := newChatRouter(t)

	w := doJSON(t, r, token, http.MethodPost, "/api/chats", domain.CreateChatRequest{
		ParticipantIDs: []string{"alice", "bob"},
		Message:        "hi bob",
	})
	req.Equal(http.StatusCreated, w.Code)
	chatID := decodeData(t, w)["_id"].(string)

	w = doJSON(t, r, token, http.MethodPut, "/api/chats/"+chatID+"/message", domain.AppendMessageRequest{
		SenderID: "alice", Content: "you there?",
	})
	req.Equal(http.StatusOK, w.Code)
	req.Equal("you there?", decodeData(t, w)["lastMessage"])

	w = doJSON(t, r, token, http.MethodPut, "/api/chats/"+chatID+"/read", domain.MarkReadRequest{ReaderID: "bob"})
	req.Equal(http.StatusOK, w.Code)
	req.Equal(float64(0), decodeData(t, w)["unreadCount"])

	w = doJSON(t, r, token, http.MethodPut, "/api/chats/"+chatID+"/message", domain.AppendMessageRequest{
		SenderID: "mallory", Content: "intruding",
	})
	req.Equal(http.StatusForbidden, w.Code)
}

func Test_Get_Unknown_Chat_Returns_404(t *testing.T) {
	req := require.New(t)
	r, token := newChatRouter(t)

	w := doJSON(t, r, token, http.MethodGet, "/api/chats/missing", nil)
	req.Equal(http.StatusNotFound, w.Code)
}

func Test_Delete_Chat_Over_HTTP(t *testing.T) {
	req := require.New(t)
	r, token := newChatRouter(t)

	w := doJSON(t, r, token, http.MethodPost, "/api/chats", domain.CreateChatRequest{
		ParticipantIDs: []string{"alice", "bob"},
	})
	req.Equal(http.StatusCreated, w.Code)
	chatID := decodeData(t, w)["_id"].(string)

	w = doJSON(t, r, token, http.MethodDelete, "/api/chats/"+chatID, nil)
	req.Equal(http.StatusOK, w.Code)

	w = doJSON(t, r, token, http.MethodGet, "/api/chats/"+chatID, nil)
	req.Equal(http.StatusNotFound, w.Code)
}
