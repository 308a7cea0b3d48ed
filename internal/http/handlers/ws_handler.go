package handlers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"

	"github.com/ignatzorin/bantuin-gateway/internal/cache"
	"github.com/ignatzorin/bantuin-gateway/internal/domain/entity"
	"github.com/ignatzorin/bantuin-gateway/internal/interface/http/response"
	"github.com/ignatzorin/bantuin-gateway/internal/logger"
	"github.com/ignatzorin/bantuin-gateway/internal/pkg/apperror"
	"github.com/ignatzorin/bantuin-gateway/internal/pkg/token"
	"github.com/ignatzorin/bantuin-gateway/internal/ws"
)

// ProfileLookup возвращает профиль владельца токена.
type ProfileLookup func(ctx context.Context, rawToken string) (*entity.User, error)

// WSHandler отвечает за установку WebSocket соединений.
type WSHandler struct {
	hub      *ws.Hub
	lookup   ProfileLookup
	profiles *cache.Cache[*entity.User]
	ttl      time.Duration
	upgrader websocket.Upgrader
}

// NewWSHandler создаёт новый хэндлер. Профили кэшируются по отпечатку токена на ttl.
func NewWSHandler(hub *ws.Hub, lookup ProfileLookup, profiles *cache.Cache[*entity.User], ttl time.Duration, allowedOrigins []string) *WSHandler {
	origins := make(map[string]struct{}, len(allowedOrigins))
	for _, o := range allowedOrigins {
		origins[o] = struct{}{}
	}
	return &WSHandler{
		hub:      hub,
		lookup:   lookup,
		profiles: profiles,
		ttl:      ttl,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				if origin == "" {
					return true
				}
				_, ok := origins[origin]
				return ok
			},
		},
	}
}

// Handle обслуживает GET /api/ws?token=...
func (h *WSHandler) Handle(c *gin.Context) {
	rawToken := c.Query("token")
	if rawToken == "" {
		rawToken = token.FromHeader(c.GetHeader("Authorization"))
	}
	if rawToken == "" {
		response.AbortWithError(c, apperror.ErrUnauthorized)
		return
	}

	key := cache.ProfileKey(token.Fingerprint(rawToken))
	user, err := h.profiles.GetOrSet(c.Request.Context(), key, h.ttl,
		func(ctx context.Context) (*entity.User, error) {
			return h.lookup(ctx, rawToken)
		})
	if err != nil {
		switch {
		case apperror.IsUnauthorized(err), apperror.IsUpstreamRejected(err):
			response.AbortWithError(c, apperror.ErrUnauthorized)
		case apperror.IsUnavailable(err), errors.Is(err, apperror.ErrNotConfigured):
			response.AbortWithError(c, err)
		default:
			response.Generic(c)
		}
		return
	}
	if user == nil || user.ID == "" {
		h.profiles.Delete(key)
		response.AbortWithError(c, apperror.ErrUnauthorized)
		return
	}

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		// Upgrade уже записал ответ клиенту
		logger.Entry().WithFields(logrus.Fields{"error": err.Error()}).Warn("ws: upgrade failed")
		return
	}

	client := ws.NewClient(conn, h.hub, user.ID, rawToken)
	h.hub.Register(client)
	logger.Entry().WithFields(logrus.Fields{
		"user":     user.ID,
		"online":   h.hub.Connected(),
		"profiles": h.profiles.Len(),
	}).Debug("ws: client connected")

	client.Run(c.Request.Context())
}
