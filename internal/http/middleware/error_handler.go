package middleware

import (
	"errors"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/ignatzorin/bantuin-gateway/internal/interface/http/response"
	"github.com/ignatzorin/bantuin-gateway/internal/logger"
	"github.com/ignatzorin/bantuin-gateway/internal/pkg/apperror"
)

// ErrorHandler обрабатывает ошибки, оставленные обработчиками через c.Error.
// Маскирует внутренние ошибки и возвращает конверт {success:false, message}.
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		// Проверяем, не был ли уже отправлен ответ
		if c.Writer.Written() || len(c.Errors) == 0 {
			return
		}

		err := c.Errors.Last().Err

		logger.Entry().WithFields(logrus.Fields{
			"error":      err.Error(),
			"path":       c.Request.URL.Path,
			"method":     c.Request.Method,
			"request_id": c.GetString(ContextRequestIDKey),
		}).Error("Request error")

		var appErr *apperror.AppError
		if errors.As(err, &appErr) && !containsInternalKeywords(appErr.Message) {
			response.Error(c, appErr)
			return
		}
		response.Error(c, apperror.New(apperror.ErrCodeInternal, "внутренняя ошибка сервера"))
	}
}

// containsInternalKeywords проверяет, содержит ли строка ключевые слова внутренних ошибок.
func containsInternalKeywords(s string) bool {
	keywords := []string{
		"dial tcp",
		"connection",
		"timeout",
		"panic",
		"runtime",
		"goroutine",
	}

	lower := strings.ToLower(s)
	for _, keyword := range keywords {
		if strings.Contains(lower, keyword) {
			return true
		}
	}
	return false
}
