package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ignatzorin/bantuin-gateway/internal/cache"
	"github.com/ignatzorin/bantuin-gateway/internal/domain/entity"
	"github.com/ignatzorin/bantuin-gateway/internal/notifications"
	"github.com/ignatzorin/bantuin-gateway/internal/pkg/apperror"
	"github.com/ignatzorin/bantuin-gateway/internal/ws"
)

func newWSServer(t *testing.T, lookup ProfileLookup, unread int) *httptest.Server {
	t.Helper()
	gin.SetMode(gin.TestMode)

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	hub := ws.NewHub(ctx, func(string) notifications.CountSource {
		return notifications.CountSourceFunc(func(context.Context) (int, error) { return unread, nil })
	}, time.Hour)
	go hub.Run()

	profiles := cache.New[*entity.User](0)
	r := gin.New()
	r.GET("/api/ws", NewWSHandler(hub, lookup, profiles, time.Minute, nil).Handle)

	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return srv
}

func TestWSHandler_MissingToken(t *testing.T) {
	srv := newWSServer(t, func(context.Context, string) (*entity.User, error) {
		t.Fatal("профиль не должен запрашиваться")
		return nil, nil
	}, 0)

	resp, err := http.Get(srv.URL + "/api/ws")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestWSHandler_RejectedToken(t *testing.T) {
	srv := newWSServer(t, func(context.Context, string) (*entity.User, error) {
		return nil, apperror.Upstream(http.StatusUnauthorized, "Token tidak valid")
	}, 0)

	resp, err := http.Get(srv.URL + "/api/ws?token=expired")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestWSHandler_PushesUnreadCount(t *testing.T) {
	var lookups atomic.Int32
	srv := newWSServer(t, func(_ context.Context, raw string) (*entity.User, error) {
		lookups.Add(1)
		assert.Equal(t, "good-token", raw)
		return &entity.User{ID: "user-1", FullName: "Sari"}, nil
	}, 4)

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/api/ws?token=good-token"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer conn.Close()

	_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, raw, err := conn.ReadMessage()
	require.NoError(t, err)

	var msg struct {
		Type string         `json:"type"`
		Data map[string]int `json:"data"`
	}
	require.NoError(t, json.Unmarshal(raw, &msg))
	assert.Equal(t, ws.EventUnreadCount, msg.Type)
	assert.Equal(t, 4, msg.Data["count"])
	assert.EqualValues(t, 1, lookups.Load())
}
