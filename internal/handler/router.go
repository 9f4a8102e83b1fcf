package handler

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/christa-jose1/student-migration-portal/internal/middleware"
	"github.com/christa-jose1/student-migration-portal/pkg/jwt"
	"github.com/christa-jose1/student-migration-portal/pkg/log"
	"github.com/christa-jose1/student-migration-portal/pkg/response"
)

// Handlers groups everything the router mounts.
type Handlers struct {
	Chat    *ChatHandler
	User    *UserHandler
	Post    *PostHandler
	Catalog *CatalogHandler
	WS      *WSHandler
}

// NewRouter assembles the full HTTP surface: public identity and
// catalog reads, authenticated API, admin API, websocket endpoint, and
// a health probe.
func NewRouter(logger zerolog.Logger, tokens *jwt.Manager, allowedOrigins []string, h Handlers) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(log.GinMiddleware(logger))
	r.Use(cors.New(cors.Config{
		AllowOrigins:     allowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	r.GET("/health", func(c *gin.Context) {
		response.Success(c, gin.H{"status": "ok"})
	})

	public := r.Group("/api")
	h.User.RegisterPublicRoutes(public)
	h.Catalog.RegisterPublicRoutes(public)

	authed := r.Group("/api")
	authed.Use(middleware.RequireAuth(tokens))
	h.Chat.RegisterRoutes(authed)
	h.User.RegisterRoutes(authed)
	h.Post.RegisterRoutes(authed)

	admin := r.Group("/api/admin")
	admin.Use(middleware.RequireAuth(tokens), middleware.RequireAdmin())
	h.User.RegisterAdminRoutes(admin)
	h.Post.RegisterAdminRoutes(admin)
	h.Catalog.RegisterAdminRoutes(admin)

	h.WS.RegisterRoutes(r)

	return r
}
