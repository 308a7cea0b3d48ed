package middleware

import (
	"regexp"

	"github.com/gin-gonic/gin"

	"github.com/ignatzorin/bantuin-gateway/internal/interface/http/response"
)

var idPattern = regexp.MustCompile(`^[A-Za-z0-9_-]{1,64}$`)

// IDValidator проверяет, что параметры пути являются непрозрачными идентификаторами
// (cuid, uuid, числовые id) и безопасны для подстановки в путь backend.
// Использование: router.GET("/orders/:id", IDValidator("id"), handler)
func IDValidator(paramNames ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		for _, name := range paramNames {
			value := c.Param(name)
			if value == "" {
				response.BadRequest(c, "параметр "+name+" обязателен")
				return
			}
			if !idPattern.MatchString(value) {
				response.BadRequest(c, "параметр "+name+" имеет некорректный формат")
				return
			}
		}
		c.Next()
	}
}
