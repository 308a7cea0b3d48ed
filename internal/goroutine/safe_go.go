package goroutine

import (
	"context"
	"runtime/debug"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/ignatzorin/bantuin-gateway/internal/logger"
)

// Logger интерфейс для логирования паник
type Logger interface {
	WithFields(fields logrus.Fields) *logrus.Entry
}

// RecoveryHandler перехватывает panic в фоновых горутинах (poller, ws pumps)
type RecoveryHandler struct {
	logger Logger
}

// NewRecoveryHandler создает обработчик. nil означает глобальный logger.
func NewRecoveryHandler(log Logger) *RecoveryHandler {
	return &RecoveryHandler{logger: log}
}

func (rh *RecoveryHandler) entry() Logger {
	if rh.logger != nil {
		return rh.logger
	}
	return logger.Entry()
}

func (rh *RecoveryHandler) recover(name string) {
	if r := recover(); r != nil {
		rh.entry().WithFields(logrus.Fields{
			"goroutine": name,
			"panic":     r,
			"stack":     string(debug.Stack()),
		}).Error("panic in goroutine recovered")
	}
}

// SafeGo запускает горутину с обработкой panic
func (rh *RecoveryHandler) SafeGo(name string, fn func()) {
	go func() {
		defer rh.recover(name)
		fn()
	}()
}

// SafeGoWithContext запускает горутину с контекстом и обработкой panic
func (rh *RecoveryHandler) SafeGoWithContext(ctx context.Context, name string, fn func(context.Context)) {
	go func() {
		defer rh.recover(name)
		fn(ctx)
	}()
}

// Group запускает горутины через SafeGo и ждёт их завершения.
func (rh *RecoveryHandler) Group(wg *sync.WaitGroup, name string, fn func()) {
	wg.Add(1)
	rh.SafeGo(name, func() {
		defer wg.Done()
		fn()
	})
}

// DefaultRecoveryHandler пишет в глобальный logger
var DefaultRecoveryHandler = NewRecoveryHandler(nil)

// SafeGo - упрощенная функция для запуска безопасной горутины
func SafeGo(name string, fn func()) {
	DefaultRecoveryHandler.SafeGo(name, fn)
}

// SafeGoWithContext - упрощенная функция для запуска безопасной горутины с контекстом
func SafeGoWithContext(ctx context.Context, name string, fn func(context.Context)) {
	DefaultRecoveryHandler.SafeGoWithContext(ctx, name, fn)
}
