package ws

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/ignatzorin/bantuin-gateway/internal/goroutine"
	"github.com/ignatzorin/bantuin-gateway/internal/logger"
	"github.com/ignatzorin/bantuin-gateway/internal/notifications"
	"github.com/ignatzorin/bantuin-gateway/internal/pkg/apperror"
	"github.com/ignatzorin/bantuin-gateway/internal/pkg/token"
)

// EventUnreadCount событие со счётчиком непрочитанных уведомлений.
const EventUnreadCount = "unread_count"

// SourceFactory возвращает источник счётчика для токена пользователя.
type SourceFactory func(token string) notifications.CountSource

// Hub управляет всеми WebSocket клиентами. Для каждого пользователя с открытыми
// соединениями работает один poller уведомлений.
type Hub struct {
	mu         sync.RWMutex
	clients    map[string]map[*Client]struct{}
	pollers    map[string]func()
	register   chan *Client
	unregister chan *Client
	broadcast  chan message

	newSource SourceFactory
	interval  time.Duration
	ctx       context.Context
}

type message struct {
	userID  string
	payload []byte
}

// NewHub создаёт новый хаб. newSource может быть nil, тогда опрос не запускается.
func NewHub(ctx context.Context, newSource SourceFactory, interval time.Duration) *Hub {
	return &Hub{
		clients:    make(map[string]map[*Client]struct{}),
		pollers:    make(map[string]func()),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan message, 32),
		newSource:  newSource,
		interval:   interval,
		ctx:        ctx,
	}
}

// Run запускает главный цикл хаба до отмены контекста.
func (h *Hub) Run() {
	defer h.shutdown()
	for {
		select {
		case client := <-h.register:
			h.addClient(client)
		case client := <-h.unregister:
			h.removeClient(client)
		case msg := <-h.broadcast:
			h.send(msg.userID, msg.payload)
		case <-h.ctx.Done():
			return
		}
	}
}

// Register добавляет клиента.
func (h *Hub) Register(client *Client) {
	select {
	case h.register <- client:
	case <-h.ctx.Done():
	}
}

// Unregister удаляет клиента.
func (h *Hub) Unregister(client *Client) {
	select {
	case h.unregister <- client:
	case <-h.ctx.Done():
	}
}

// Connected количество пользователей с открытыми соединениями.
func (h *Hub) Connected() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// BroadcastToUser отправляет событие всем соединениям пользователя.
// Формат сообщения: {"type": event, "data": data}.
func (h *Hub) BroadcastToUser(userID string, event string, data any) error {
	raw, err := json.Marshal(map[string]any{
		"type": event,
		"data": data,
	})
	if err != nil {
		return fmt.Errorf("ws: не удалось сериализовать сообщение: %w", err)
	}

	select {
	case h.broadcast <- message{userID: userID, payload: raw}:
	case <-h.ctx.Done():
	}
	return nil
}

func (h *Hub) addClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.clients[client.userID]; !ok {
		h.clients[client.userID] = make(map[*Client]struct{})
	}
	h.clients[client.userID][client] = struct{}{}

	if _, running := h.pollers[client.userID]; running || h.newSource == nil {
		return
	}
	userID := client.userID
	source := &userSource{hub: h, userID: userID, token: client.token, src: h.newSource(client.token)}
	poller := notifications.NewPoller(source, h.interval, func(count int) {
		if err := h.BroadcastToUser(userID, EventUnreadCount, map[string]int{"count": count}); err != nil {
			logger.Entry().WithField("error", err.Error()).Warn("ws: unread count push failed")
		}
	}, client.fingerprint)
	h.pollers[userID] = poller.Start(h.ctx)

	logger.Entry().WithFields(logrus.Fields{"user": client.fingerprint}).Debug("ws: poller started")
}

func (h *Hub) removeClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	clients, ok := h.clients[client.userID]
	if !ok {
		return
	}
	if _, present := clients[client]; !present {
		return
	}
	delete(clients, client)
	close(client.send)

	if len(clients) > 0 {
		return
	}
	delete(h.clients, client.userID)
	if stop, running := h.pollers[client.userID]; running {
		delete(h.pollers, client.userID)
		// stop ждёт poller, а тот может ждать канал broadcast этого цикла
		goroutine.SafeGo("ws.poller.stop", stop)
	}
}

func (h *Hub) send(userID string, payload []byte) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for client := range h.clients[userID] {
		select {
		case client.send <- payload:
		default:
			goroutine.SafeGo("ws.client.close", client.Close)
		}
	}
}

// liveToken возвращает токен другого открытого соединения пользователя, отличный от bad.
func (h *Hub) liveToken(userID, bad string) string {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for client := range h.clients[userID] {
		if client.token != bad {
			return client.token
		}
	}
	return ""
}

// userSource опрашивает счётчик токеном одного из соединений пользователя.
// Если backend отверг токен, источник переходит на токен другого живого соединения.
type userSource struct {
	hub    *Hub
	userID string

	mu    sync.Mutex
	token string
	src   notifications.CountSource
}

func (s *userSource) current() (string, notifications.CountSource) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.token, s.src
}

func (s *userSource) UnreadCount(ctx context.Context) (int, error) {
	tok, src := s.current()
	count, err := src.UnreadCount(ctx)
	if err == nil || !apperror.IsUnauthorized(err) {
		return count, err
	}

	next := s.hub.liveToken(s.userID, tok)
	if next == "" {
		return 0, err
	}
	s.mu.Lock()
	s.token, s.src = next, s.hub.newSource(next)
	src = s.src
	s.mu.Unlock()

	logger.Entry().WithFields(logrus.Fields{
		"from": token.Fingerprint(tok),
		"to":   token.Fingerprint(next),
	}).Info("ws: poller token rejected, switched to another connection")
	return src.UnreadCount(ctx)
}

func (h *Hub) shutdown() {
	h.mu.Lock()
	stops := make([]func(), 0, len(h.pollers))
	for userID, stop := range h.pollers {
		stops = append(stops, stop)
		delete(h.pollers, userID)
	}
	h.mu.Unlock()

	for _, stop := range stops {
		goroutine.SafeGo("ws.poller.stop", stop)
	}
}
