package log

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

func Test_Gin_Middleware_Completion_Line(t *testing.T) {
	req := require.New(t)
	gin.SetMode(gin.TestMode)

	var buf bytes.Buffer
	logger := zerolog.New(&buf)

	r := gin.New()
	r.Use(GinMiddleware(logger))
	r.GET("/chats/:chatId", func(c *gin.Context) {
		c.Set(FieldUserID, "alice")
		c.Status(http.StatusOK)
	})

	hr := httptest.NewRequest(http.MethodGet, "/chats/chat-7", nil)
	hr.Header.Set(headerRequestID, "req-42")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, hr)

	req.Equal("req-42", w.Header().Get(headerRequestID))

	var line map[string]interface{}
	req.NoError(json.Unmarshal(buf.Bytes(), &line))
	req.Equal("req-42", line[FieldRequestID])
	req.Equal("/chats/chat-7", line[FieldPath])
	req.Equal("chat-7", line[FieldChatID])
	req.Equal("alice", line[FieldUserID])
	req.Equal(float64(http.StatusOK), line[FieldStatus])
}

func Test_Ctx_Returns_Scoped_Logger(t *testing.T) {
	req := require.New(t)

	var buf bytes.Buffer
	logger := zerolog.New(&buf)

	ctx := WithLogger(context.Background(), logger)
	scoped := Ctx(ctx)
	scoped.Info().Msg("scoped")
	req.Contains(buf.String(), "scoped")
}
