package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/ignatzorin/bantuin-gateway/internal/interface/http/response"
	"github.com/ignatzorin/bantuin-gateway/internal/pkg/token"
)

// Context ключи для gin.Context.
const (
	ContextUserIDKey      = "userID"
	ContextRoleKey        = "role"
	ContextFingerprintKey = "tokenFingerprint"
	ContextRequestIDKey   = "requestID"
)

// Identify разбирает заголовок Authorization, если он есть, и кладёт в контекст
// отпечаток токена и непроверенный subject. Запрос не отклоняется.
func Identify() gin.HandlerFunc {
	return func(c *gin.Context) {
		raw := token.FromHeader(c.GetHeader("Authorization"))
		if raw != "" {
			c.Set(ContextFingerprintKey, token.Fingerprint(raw))
			if claims, ok := token.Parse(raw); ok {
				c.Set(ContextUserIDKey, claims.Subject)
				c.Set(ContextRoleKey, claims.Role)
			}
		}
		c.Next()
	}
}

// RequireBearer отвечает 401, если заголовок Authorization отсутствует.
// Сам токен проверяет backend, шлюз лишь не пускает анонимные запросы дальше.
func RequireBearer() gin.HandlerFunc {
	return func(c *gin.Context) {
		if strings.TrimSpace(c.GetHeader("Authorization")) == "" {
			response.Unauthorized(c)
			return
		}
		c.Next()
	}
}
