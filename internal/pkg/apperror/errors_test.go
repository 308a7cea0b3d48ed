package apperror

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestUpstream_KeepsStatusAndMessage(t *testing.T) {
	err := Upstream(http.StatusConflict, "Order sudah dibayar")

	assert.Equal(t, http.StatusConflict, err.HTTPStatus)
	assert.Equal(t, "Order sudah dibayar", err.Message)
	assert.True(t, IsUpstreamRejected(err))
}

func TestUpstream_EmptyMessageFallsBackToStatusText(t *testing.T) {
	err := Upstream(http.StatusBadGateway, "")
	assert.Equal(t, "Bad Gateway", err.Message)
}

func TestValidation_UsesFirstFieldMessage(t *testing.T) {
	err := Validation(
		FieldError{Field: "deliveryFiles", Message: "нужен хотя бы один файл"},
		FieldError{Field: "deliveryNote", Message: "слишком короткая заметка"},
	)

	assert.Equal(t, http.StatusBadRequest, err.HTTPStatus)
	assert.Equal(t, "нужен хотя бы один файл", err.Message)
	assert.Len(t, err.Fields, 2)
	assert.True(t, IsValidation(err))
}

func TestIsUnauthorized(t *testing.T) {
	assert.True(t, IsUnauthorized(ErrUnauthorized))
	assert.True(t, IsUnauthorized(Upstream(http.StatusUnauthorized, "Token expired")))
	assert.True(t, IsUnauthorized(fmt.Errorf("profile: %w", ErrUnauthorized)))
	assert.False(t, IsUnauthorized(Upstream(http.StatusForbidden, "Forbidden")))
	assert.False(t, IsUnauthorized(errors.New("boom")))
}

func TestWrap_Unwrap(t *testing.T) {
	cause := errors.New("dial tcp: connection refused")
	err := Wrap(cause, ErrCodeUpstreamUnavailable, "сервис недоступен")

	assert.ErrorIs(t, err, cause)
	assert.True(t, IsUnavailable(err))
	assert.Equal(t, http.StatusInternalServerError, err.HTTPStatus)
}

func TestConfigurationError_Is503(t *testing.T) {
	assert.Equal(t, http.StatusServiceUnavailable, ErrNotConfigured.HTTPStatus)
}
