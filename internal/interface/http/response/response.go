package response

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ignatzorin/bantuin-gateway/internal/pkg/apperror"
)

// Response повторяет конверт backend API: {success, data} или {success:false, message}.
type Response struct {
	Success bool                  `json:"success"`
	Data    interface{}           `json:"data,omitempty"`
	Message string                `json:"message,omitempty"`
	Code    string                `json:"code,omitempty"`
	Fields  []apperror.FieldError `json:"fields,omitempty"`
}

func Success(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, Response{
		Success: true,
		Data:    data,
	})
}

func Error(c *gin.Context, err error) {
	var appErr *apperror.AppError
	if errors.As(err, &appErr) {
		c.JSON(appErr.HTTPStatus, Response{
			Success: false,
			Message: appErr.Message,
			Code:    string(appErr.Code),
			Fields:  appErr.Fields,
		})
		return
	}

	c.JSON(http.StatusInternalServerError, Response{
		Success: false,
		Message: "внутренняя ошибка сервера",
		Code:    string(apperror.ErrCodeInternal),
	})
}

// AbortWithError отправляет конверт ошибки и прерывает цепочку middleware.
func AbortWithError(c *gin.Context, err error) {
	Error(c, err)
	c.Abort()
}

func BadRequest(c *gin.Context, message string) {
	AbortWithError(c, apperror.New(apperror.ErrCodeBadRequest, message))
}

func Unauthorized(c *gin.Context) {
	AbortWithError(c, apperror.ErrUnauthorized)
}

// Generic отвечает 500 без подробностей: сетевые сбои и не-JSON ответы backend.
func Generic(c *gin.Context) {
	AbortWithError(c, apperror.ErrUpstreamGeneric)
}
