package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ignatzorin/bantuin-gateway/internal/interface/http/response"
	"github.com/ignatzorin/bantuin-gateway/internal/pkg/apperror"
)

// LoginURLProvider отдаёт адрес входа через Google на стороне backend.
type LoginURLProvider interface {
	LoginURL() string
}

// AuthHandler отправляет пользователя на вход через Google.
// Сам OAuth обмен выполняет backend, шлюз только перенаправляет.
type AuthHandler struct {
	provider LoginURLProvider
}

// NewAuthHandler создаёт хэндлер.
func NewAuthHandler(provider LoginURLProvider) *AuthHandler {
	return &AuthHandler{provider: provider}
}

// GoogleLogin обрабатывает GET /auth/google.
func (h *AuthHandler) GoogleLogin(c *gin.Context) {
	target := h.provider.LoginURL()
	if target == "" {
		response.AbortWithError(c, apperror.ErrNotConfigured)
		return
	}
	c.Redirect(http.StatusFound, target)
}
