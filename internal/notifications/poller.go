// Package notifications опрашивает счётчик непрочитанных уведомлений.
package notifications

import (
	"context"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/ignatzorin/bantuin-gateway/internal/goroutine"
	"github.com/ignatzorin/bantuin-gateway/internal/logger"
)

// DefaultInterval период опроса по умолчанию.
const DefaultInterval = 30 * time.Second

// CountSource источник счётчика, обычно upstream.Client с токеном пользователя.
type CountSource interface {
	UnreadCount(ctx context.Context) (int, error)
}

// CountSourceFunc адаптер функции к CountSource.
type CountSourceFunc func(ctx context.Context) (int, error)

func (f CountSourceFunc) UnreadCount(ctx context.Context) (int, error) {
	return f(ctx)
}

// Poller периодически запрашивает счётчик и передаёт его в onCount.
// Ошибки логируются, следующий тик повторяет запрос.
type Poller struct {
	source   CountSource
	interval time.Duration
	onCount  func(int)
	name     string
}

// NewPoller создаёт poller. name попадает в логи (например, отпечаток токена).
func NewPoller(source CountSource, interval time.Duration, onCount func(int), name string) *Poller {
	if interval <= 0 {
		interval = DefaultInterval
	}
	return &Poller{
		source:   source,
		interval: interval,
		onCount:  onCount,
		name:     name,
	}
}

// Start делает первый запрос сразу и дальше раз в interval.
// Возвращённая stop отменяет опрос и ждёт завершения; после неё onCount не вызывается.
func (p *Poller) Start(ctx context.Context) (stop func()) {
	ctx, cancel := context.WithCancel(ctx)

	var (
		mu      sync.Mutex
		stopped bool
		wg      sync.WaitGroup
	)

	deliver := func(count int) {
		mu.Lock()
		defer mu.Unlock()
		if stopped || ctx.Err() != nil {
			return
		}
		p.onCount(count)
	}

	goroutine.DefaultRecoveryHandler.Group(&wg, "notifications.poller", func() {
		ticker := time.NewTicker(p.interval)
		defer ticker.Stop()

		for {
			p.fetch(ctx, deliver)
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
			}
		}
	})

	var once sync.Once
	return func() {
		once.Do(func() {
			mu.Lock()
			stopped = true
			mu.Unlock()
			cancel()
			wg.Wait()
		})
	}
}

func (p *Poller) fetch(ctx context.Context, deliver func(int)) {
	count, err := p.source.UnreadCount(ctx)
	if err != nil {
		if ctx.Err() == nil {
			logger.Entry().WithFields(logrus.Fields{
				"poller": p.name,
				"error":  err.Error(),
			}).Warn("unread count poll failed")
		}
		return
	}
	deliver(count)
}
