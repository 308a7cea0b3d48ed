package proxy

import (
	"github.com/gin-gonic/gin/binding"

	"github.com/ignatzorin/bantuin-gateway/internal/validation"
)

// bodyOf строит проверку тела по DTO с тегами binding.
// Используется движок gin, в котором зарегистрированы собственные правила (validation.RegisterGin).
func bodyOf[T any]() Precheck {
	return func(body []byte) error {
		var req T
		return validation.FromError(binding.JSON.BindBody(body, &req))
	}
}
