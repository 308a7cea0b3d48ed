// Package session хранит знание о текущем пользователе поверх сохранённого bearer токена.
//
// Токен читается и пишется только через TokenStore, которым владеет Session.
// Подписчики получают снимок State после каждого изменения.
package session

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/singleflight"

	"github.com/ignatzorin/bantuin-gateway/internal/domain/entity"
	"github.com/ignatzorin/bantuin-gateway/internal/dto"
	"github.com/ignatzorin/bantuin-gateway/internal/goroutine"
	"github.com/ignatzorin/bantuin-gateway/internal/logger"
	"github.com/ignatzorin/bantuin-gateway/internal/pkg/apperror"
	"github.com/ignatzorin/bantuin-gateway/internal/pkg/token"
	"github.com/ignatzorin/bantuin-gateway/internal/validation"
)

// API операции backend, нужные сессии.
type API interface {
	Profile(ctx context.Context) (*entity.User, error)
	Logout(ctx context.Context) error
	ActivateSeller(ctx context.Context, req dto.ActivateSellerRequest) error
}

// ClientFactory возвращает клиента backend, авторизованного токеном.
type ClientFactory func(token string) API

// State снимок сессии. User == nil означает анонимного пользователя.
type State struct {
	User    *entity.User
	Loading bool
}

// Session владеет токеном и профилем текущего пользователя.
type Session struct {
	store     TokenStore
	newClient ClientFactory
	now       func() time.Time

	mu    sync.RWMutex
	state State

	flight singleflight.Group

	subsMu  sync.Mutex
	subsSeq int
	subs    map[int]func(State)
}

func New(store TokenStore, newClient ClientFactory) *Session {
	return &Session{
		store:     store,
		newClient: newClient,
		now:       time.Now,
		subs:      make(map[int]func(State)),
	}
}

// State возвращает текущий снимок.
func (s *Session) State() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// User возвращает текущего пользователя или nil.
func (s *Session) User() *entity.User {
	return s.State().User
}

// Token возвращает сохранённый токен. Запись токена доступна только через SignIn и Logout.
func (s *Session) Token() string {
	tok, err := s.store.Load()
	if err != nil {
		logger.Entry().WithField("error", err.Error()).Warn("session: token read failed")
		return ""
	}
	return tok
}

// Subscribe регистрирует обработчик изменений состояния.
func (s *Session) Subscribe(fn func(State)) (unsubscribe func()) {
	s.subsMu.Lock()
	defer s.subsMu.Unlock()

	id := s.subsSeq
	s.subsSeq++
	s.subs[id] = fn

	return func() {
		s.subsMu.Lock()
		defer s.subsMu.Unlock()
		delete(s.subs, id)
	}
}

func (s *Session) set(state State) {
	s.mu.Lock()
	s.state = state
	s.mu.Unlock()

	s.subsMu.Lock()
	fns := make([]func(State), 0, len(s.subs))
	for _, fn := range s.subs {
		fns = append(fns, fn)
	}
	s.subsMu.Unlock()

	for _, fn := range fns {
		fn(state)
	}
}

// Bootstrap загружает профиль при старте, если токен сохранён.
func (s *Session) Bootstrap(ctx context.Context) error {
	return s.Refresh(ctx)
}

// Refresh перечитывает профиль. Одновременно выполняется не более одного запроса,
// остальные вызовы ждут его результат.
// Отклонённый backend токен удаляется, сессия становится анонимной, ошибка не возвращается.
func (s *Session) Refresh(ctx context.Context) error {
	_, err, _ := s.flight.Do("profile", func() (interface{}, error) {
		return nil, s.refresh(ctx)
	})
	return err
}

func (s *Session) refresh(ctx context.Context) error {
	tok, err := s.store.Load()
	if err != nil {
		s.set(State{})
		return err
	}
	if tok == "" {
		s.set(State{})
		return nil
	}

	if claims, ok := token.Parse(tok); ok && claims.Expired(s.now()) {
		s.drop(tok, "expired")
		return nil
	}

	s.set(State{User: s.User(), Loading: true})

	user, err := s.newClient(tok).Profile(ctx)
	if current, lerr := s.store.Load(); lerr == nil && current != tok {
		// токен сменился, пока шёл запрос: ответ относится к старому токену
		return s.refresh(ctx)
	}
	switch {
	case err == nil:
		s.set(State{User: user})
		return nil
	case apperror.IsUpstreamRejected(err), apperror.IsUnauthorized(err):
		s.drop(tok, err.Error())
		return nil
	default:
		// сбой сети: токен сохраняется, Resume повторит попытку
		s.set(State{})
		return err
	}
}

// drop очищает токен, если его не успели заменить.
func (s *Session) drop(tok, reason string) {
	logger.Entry().WithFields(logrus.Fields{
		"user":   token.Fingerprint(tok),
		"reason": reason,
	}).Info("session: token rejected, signing out")

	if current, err := s.store.Load(); err == nil && current == tok {
		if err := s.store.Clear(); err != nil {
			logger.Entry().WithField("error", err.Error()).Warn("session: token clear failed")
		}
	}
	s.set(State{})
}

// Resume перепроверяет сессию, если токен есть, а профиль не загружен
// (например, после сетевого сбоя при старте).
func (s *Session) Resume(ctx context.Context) error {
	state := s.State()
	if state.User != nil || state.Loading || s.Token() == "" {
		return nil
	}
	return s.Refresh(ctx)
}

// SignIn сохраняет новый токен и загружает профиль.
func (s *Session) SignIn(ctx context.Context, tok string) error {
	if err := s.store.Save(tok); err != nil {
		return err
	}
	return s.Refresh(ctx)
}

// Logout инвалидирует токен на backend (ошибка только логируется) и всегда очищает локальное состояние.
func (s *Session) Logout(ctx context.Context) error {
	tok := s.Token()
	if tok != "" {
		if err := s.newClient(tok).Logout(ctx); err != nil {
			logger.Entry().WithFields(logrus.Fields{
				"user":  token.Fingerprint(tok),
				"error": err.Error(),
			}).Warn("session: server-side logout failed")
		}
	}

	err := s.store.Clear()
	s.set(State{})
	if err != nil {
		return fmt.Errorf("session: не удалось очистить токен: %w", err)
	}
	return nil
}

// ActivateSeller включает режим продавца и перечитывает профиль.
func (s *Session) ActivateSeller(ctx context.Context, req dto.ActivateSellerRequest) error {
	tok := s.Token()
	if tok == "" {
		return apperror.ErrUnauthorized
	}
	if err := validation.Struct(req); err != nil {
		return err
	}
	if err := s.newClient(tok).ActivateSeller(ctx, req); err != nil {
		return err
	}
	return s.Refresh(ctx)
}

// Run перепроверяет сессию при внешнем изменении токена и, если хранилище умеет,
// следит за ним до отмены ctx.
func (s *Session) Run(ctx context.Context) error {
	unsubscribe := s.store.Subscribe(func(ev TokenEvent) {
		if !ev.External {
			return
		}
		goroutine.SafeGoWithContext(ctx, "session.refresh", func(ctx context.Context) {
			if err := s.Refresh(ctx); err != nil && ctx.Err() == nil {
				logger.Entry().WithField("error", err.Error()).Warn("session: refresh after external change failed")
			}
		})
	})
	defer unsubscribe()

	if w, ok := s.store.(Watcher); ok {
		return w.Watch(ctx)
	}
	<-ctx.Done()
	return nil
}
