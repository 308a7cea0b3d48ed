package logger

import (
	"io"

	"github.com/sirupsen/logrus"
)

var Log *logrus.Logger

// Init инициализирует структурированный логгер.
func Init(level string) {
	Log = logrus.New()

	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		lvl = logrus.InfoLevel
	}
	Log.SetLevel(lvl)

	// Используем JSON формат для production, text для development
	Log.SetFormatter(&logrus.JSONFormatter{})
}

// SetTextFormatter устанавливает текстовый формат логов (для development и CLI).
func SetTextFormatter() {
	if Log != nil {
		Log.SetFormatter(&logrus.TextFormatter{
			FullTimestamp: true,
		})
	}
}

// Entry возвращает запись логгера, даже если Init ещё не вызывался (тесты, CLI).
func Entry() *logrus.Entry {
	if Log == nil {
		silent := logrus.New()
		silent.SetOutput(io.Discard)
		return logrus.NewEntry(silent)
	}
	return logrus.NewEntry(Log)
}
