// Package handler exposes the complaint service over HTTP and the live feed
// over WebSocket.
package handler

import (
	"civicchain/backend/internal/ai"
	"civicchain/backend/internal/complaint"
	"civicchain/backend/internal/feed"
	"civicchain/backend/internal/metrics"
	"net/http"
	"slices"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/rs/cors"
	"go.uber.org/zap"
)

// Handler містить сервіси, яким делегують HTTP роути
type Handler struct {
	Complaints *complaint.Service
	Assistant  *ai.Assistant
	Hub        *feed.ManagerService
	Tokens     *TokenIssuer

	allowedOrigins []string
	upgrader       websocket.Upgrader
	logger         *zap.Logger
}

// NewHandler створює Handler. assistant може бути nil, тоді /api/chat
// відповідає ai.UnavailableNotice
func NewHandler(svc *complaint.Service, assistant *ai.Assistant, hub *feed.ManagerService, tokens *TokenIssuer, allowedOrigins []string, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	h := &Handler{
		Complaints:     svc,
		Assistant:      assistant,
		Hub:            hub,
		Tokens:         tokens,
		allowedOrigins: allowedOrigins,
		logger:         logger,
	}
	h.upgrader = websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin:     h.checkOrigin,
	}
	return h
}

// NewRouter будує gin engine. nil limiter вимикає обмеження частоти для
// подання скарг і чату
func NewRouter(h *Handler, limiter *RateLimiter) *gin.Engine {
	useJSONFieldNames()

	r := gin.New()
	r.Use(gin.Recovery(), RequestID(), RequestLogger(h.logger), Metrics())

	limited := func(next gin.HandlerFunc) []gin.HandlerFunc {
		if limiter == nil {
			return []gin.HandlerFunc{next}
		}
		return []gin.HandlerFunc{limiter.Handler(), next}
	}

	r.GET("/healthz", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"status": "ok"}) })
	r.GET("/metrics", gin.WrapH(metrics.Handler()))

	api := r.Group("/api")
	api.GET("/complaints", h.ListComplaints)
	api.POST("/complaints", limited(h.CreateComplaint)...)
	api.GET("/complaints/:id", h.GetComplaint)
	api.PATCH("/complaints/:id/status", h.UpdateComplaintStatus)
	api.POST("/complaints/:id/donate", h.Donate)

	api.POST("/users", h.RegisterUser)
	api.GET("/users/:address", h.GetUser)
	api.GET("/leaderboard", h.Leaderboard)

	api.POST("/chat", limited(h.Chat)...)
	api.POST("/session", h.CreateSession)

	r.GET("/ws/feed", h.ServeFeed)

	return r
}

// WithCORS додає CORS для вказаних доменів. "*" дозволяє будь-який
func WithCORS(next http.Handler, allowedOrigins []string) http.Handler {
	c := cors.New(cors.Options{
		AllowedOrigins: allowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPatch, http.MethodOptions},
		AllowedHeaders: []string{"Content-Type", "Authorization", requestIDHeader},
		ExposedHeaders: []string{requestIDHeader},
	})
	return c.Handler(next)
}

func (h *Handler) checkOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" || len(h.allowedOrigins) == 0 || slices.Contains(h.allowedOrigins, "*") {
		return true
	}
	return slices.Contains(h.allowedOrigins, origin)
}
