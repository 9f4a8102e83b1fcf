package handler

import (
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/christa-jose1/student-migration-portal/internal/hub"
	"github.com/christa-jose1/student-migration-portal/pkg/log"
)

// clientCommand is the only message clients send over the socket: a
// join binding the connection to the caller's notification room.
type clientCommand struct {
	Type   string `json:"type"`
	UserID string `json:"userId"`
}

// WSHandler upgrades connections and binds them to user rooms.
type WSHandler struct {
	hub      *hub.Hub
	config   hub.Config
	upgrader websocket.Upgrader
}

// NewWSHandler creates a WSHandler serving the given hub.
func NewWSHandler(h *hub.Hub, cfg hub.Config, allowedOrigins []string) *WSHandler {
	origins := make(map[string]bool, len(allowedOrigins))
	for _, o := range allowedOrigins {
		origins[o] = true
	}
	return &WSHandler{
		hub:    h,
		config: cfg,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				return origin == "" || origins[origin] || origins["*"]
			},
		},
	}
}

// RegisterRoutes mounts the websocket endpoint.
func (h *WSHandler) RegisterRoutes(r *gin.Engine) {
	r.GET("/ws", h.Serve)
}

// Serve upgrades the connection and pumps events until it closes.
func (h *WSHandler) Serve(c *gin.Context) {
	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		l := log.Ctx(c.Request.Context())
		l.Warn().Err(err).Msg("websocket upgrade failed")
		return
	}

	client := hub.NewClient(uuid.New().String(), h.hub, conn, h.config)
	h.hub.Register(client)

	go client.WritePump()
	go client.ReadPump(h.handleCommand)
}

func (h *WSHandler) handleCommand(client *hub.Client, data []byte) {
	var cmd clientCommand
	if err := json.Unmarshal(data, &cmd); err != nil {
		l := log.L()
		l.Debug().Err(err).Str("client_id", client.ID).Msg("ignoring malformed client message")
		return
	}

	if cmd.Type == "join" && cmd.UserID != "" {
		h.hub.Join(client, cmd.UserID)
	}
}
