package apperror

import (
	"errors"
	"fmt"
	"net/http"
)

type ErrorCode string

const (
	ErrCodeNotFound            ErrorCode = "NOT_FOUND"
	ErrCodeUnauthorized        ErrorCode = "UNAUTHORIZED"
	ErrCodeForbidden           ErrorCode = "FORBIDDEN"
	ErrCodeBadRequest          ErrorCode = "BAD_REQUEST"
	ErrCodeInternal            ErrorCode = "INTERNAL_ERROR"
	ErrCodeValidation          ErrorCode = "VALIDATION_ERROR"
	ErrCodeUpstreamRejected    ErrorCode = "UPSTREAM_REJECTED"
	ErrCodeUpstreamUnavailable ErrorCode = "UPSTREAM_UNAVAILABLE"
	ErrCodeConfiguration       ErrorCode = "CONFIGURATION_ERROR"
	ErrCodeActionNotAllowed    ErrorCode = "ACTION_NOT_ALLOWED"
)

// FieldError описывает ошибку валидации конкретного поля формы.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

type AppError struct {
	Code       ErrorCode
	Message    string
	HTTPStatus int
	Cause      error
	Fields     []FieldError
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (caused by: %v)", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

func New(code ErrorCode, message string) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		HTTPStatus: codeToHTTPStatus(code),
	}
}

func Wrap(err error, code ErrorCode, message string) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		HTTPStatus: codeToHTTPStatus(code),
		Cause:      err,
	}
}

// Validation собирает ошибки полей в одну ошибку. Сообщение берётся из первого поля.
func Validation(fields ...FieldError) *AppError {
	message := "некорректные данные"
	if len(fields) > 0 {
		message = fields[0].Message
	}
	return &AppError{
		Code:       ErrCodeValidation,
		Message:    message,
		HTTPStatus: http.StatusBadRequest,
		Fields:     fields,
	}
}

// Upstream описывает отказ backend API. Сообщение и статус сохраняются без изменений.
func Upstream(status int, message string) *AppError {
	if message == "" {
		message = http.StatusText(status)
	}
	return &AppError{
		Code:       ErrCodeUpstreamRejected,
		Message:    message,
		HTTPStatus: status,
	}
}

func codeToHTTPStatus(code ErrorCode) int {
	switch code {
	case ErrCodeNotFound:
		return http.StatusNotFound
	case ErrCodeUnauthorized:
		return http.StatusUnauthorized
	case ErrCodeForbidden, ErrCodeActionNotAllowed:
		return http.StatusForbidden
	case ErrCodeBadRequest, ErrCodeValidation:
		return http.StatusBadRequest
	case ErrCodeConfiguration:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func codeOf(err error) (ErrorCode, bool) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code, true
	}
	return "", false
}

func IsNotFound(err error) bool {
	code, ok := codeOf(err)
	return ok && code == ErrCodeNotFound
}

func IsValidation(err error) bool {
	code, ok := codeOf(err)
	return ok && code == ErrCodeValidation
}

func IsUpstreamRejected(err error) bool {
	code, ok := codeOf(err)
	return ok && code == ErrCodeUpstreamRejected
}

func IsUnavailable(err error) bool {
	code, ok := codeOf(err)
	return ok && code == ErrCodeUpstreamUnavailable
}

// IsUnauthorized истинна и для локального отсутствия токена, и для 401 от backend.
func IsUnauthorized(err error) bool {
	var appErr *AppError
	if !errors.As(err, &appErr) {
		return false
	}
	return appErr.Code == ErrCodeUnauthorized ||
		(appErr.Code == ErrCodeUpstreamRejected && appErr.HTTPStatus == http.StatusUnauthorized)
}

var (
	ErrUnauthorized     = New(ErrCodeUnauthorized, "требуется авторизация")
	ErrNotConfigured    = New(ErrCodeConfiguration, "API_URL не настроен, сервис временно недоступен")
	ErrUpstreamGeneric  = New(ErrCodeUpstreamUnavailable, "сервис временно недоступен, попробуйте ещё раз")
	ErrActionNotAllowed = New(ErrCodeActionNotAllowed, "действие недоступно для текущего статуса заказа")
)
