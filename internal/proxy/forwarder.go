// Package proxy содержит единственный параметризуемый форвардер запросов к backend
// и таблицу маршрутов шлюза.
package proxy

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/ignatzorin/bantuin-gateway/internal/http/middleware"
	"github.com/ignatzorin/bantuin-gateway/internal/interface/http/response"
	"github.com/ignatzorin/bantuin-gateway/internal/logger"
	"github.com/ignatzorin/bantuin-gateway/internal/pkg/apperror"
	"github.com/ignatzorin/bantuin-gateway/internal/upstream"
)

// DefaultMaxBodyBytes ограничение размера входящего тела по умолчанию.
const DefaultMaxBodyBytes = 1 << 20

// Precheck проверяет тело запроса до отправки в backend.
type Precheck func(body []byte) error

// QueryFilter нормализует строку запроса. nil означает передачу как есть.
type QueryFilter func(url.Values) url.Values

// Route описывает один проксируемый маршрут.
type Route struct {
	Method string
	// Path путь шлюза относительно /api в синтаксисе gin (/orders/:id/deliver).
	Path string
	// Upstream шаблон пути backend; пустой означает совпадение с Path.
	Upstream string
	Auth     bool
	Precheck Precheck
	Query    QueryFilter
}

func (r Route) upstreamTemplate() string {
	if r.Upstream != "" {
		return r.Upstream
	}
	return r.Path
}

// params возвращает имена параметров пути (:id -> id).
func (r Route) params() []string {
	var names []string
	for _, segment := range strings.Split(r.Path, "/") {
		if strings.HasPrefix(segment, ":") {
			names = append(names, segment[1:])
		}
	}
	return names
}

// Sender отправляет запрос в backend без интерпретации ответа.
type Sender interface {
	Forward(ctx context.Context, method, path, rawQuery string, header http.Header, body []byte) (*upstream.RawResponse, error)
	Configured() bool
}

// Forwarder пересылает запросы в backend и возвращает ответ без изменений.
type Forwarder struct {
	sender       Sender
	configured   bool
	maxBodyBytes int64
}

// NewForwarder создаёт форвардер поверх клиента backend.
func NewForwarder(sender Sender, maxBodyBytes int64) *Forwarder {
	if maxBodyBytes <= 0 {
		maxBodyBytes = DefaultMaxBodyBytes
	}
	return &Forwarder{
		sender:       sender,
		configured:   sender.Configured(),
		maxBodyBytes: maxBodyBytes,
	}
}

// Register подключает маршруты к группе: проверка авторизации, проверка параметров, пересылка.
func (f *Forwarder) Register(group gin.IRoutes, routes []Route) {
	for _, rt := range routes {
		chain := make([]gin.HandlerFunc, 0, 3)
		if rt.Auth {
			chain = append(chain, middleware.RequireBearer())
		}
		if names := rt.params(); len(names) > 0 {
			chain = append(chain, middleware.IDValidator(names...))
		}
		chain = append(chain, f.Handle(rt))
		group.Handle(rt.Method, rt.Path, chain...)
	}
}

// Handle возвращает обработчик для маршрута. Проверку Authorization выполняет Register.
func (f *Forwarder) Handle(rt Route) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !f.configured {
			response.AbortWithError(c, apperror.ErrNotConfigured)
			return
		}

		body, err := f.readBody(c)
		if err != nil {
			response.AbortWithError(c, err)
			return
		}

		if rt.Precheck != nil {
			if err := rt.Precheck(body); err != nil {
				logger.Entry().WithFields(logrus.Fields{
					"request_id": c.GetString(middleware.ContextRequestIDKey),
					"route":      rt.Method + " " + rt.Path,
					"error":      err.Error(),
				}).Debug("precheck rejected request")
				response.AbortWithError(c, err)
				return
			}
		}

		rawQuery := c.Request.URL.RawQuery
		if rt.Query != nil {
			rawQuery = rt.Query(c.Request.URL.Query()).Encode()
		}

		start := time.Now()
		resp, err := f.sender.Forward(c.Request.Context(), rt.Method, expand(rt.upstreamTemplate(), c), rawQuery, f.outboundHeader(c, body), body)
		fields := logrus.Fields{
			"request_id":  c.GetString(middleware.ContextRequestIDKey),
			"method":      rt.Method,
			"path":        rt.Path,
			"duration_ms": time.Since(start).Milliseconds(),
			"user":        c.GetString(middleware.ContextFingerprintKey),
		}
		if err != nil {
			fields["error"] = err.Error()
			logger.Entry().WithFields(fields).Error("upstream request failed")
			if errors.Is(err, apperror.ErrNotConfigured) {
				response.AbortWithError(c, err)
				return
			}
			response.Generic(c)
			return
		}

		fields["upstream_status"] = resp.Status
		trimmed := bytes.TrimSpace(resp.Body)
		if len(trimmed) > 0 && !json.Valid(trimmed) {
			logger.Entry().WithFields(fields).Error("upstream returned non-JSON body")
			response.Generic(c)
			return
		}
		logger.Entry().WithFields(fields).Info("proxied")

		if len(trimmed) == 0 {
			c.Status(resp.Status)
			return
		}
		c.Data(resp.Status, "application/json; charset=utf-8", resp.Body)
	}
}

func (f *Forwarder) readBody(c *gin.Context) ([]byte, error) {
	if c.Request.Body == nil {
		return nil, nil
	}
	body, err := io.ReadAll(http.MaxBytesReader(c.Writer, c.Request.Body, f.maxBodyBytes))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return nil, &apperror.AppError{
				Code:       apperror.ErrCodeBadRequest,
				Message:    "тело запроса слишком большое",
				HTTPStatus: http.StatusRequestEntityTooLarge,
			}
		}
		return nil, apperror.New(apperror.ErrCodeBadRequest, "не удалось прочитать тело запроса")
	}
	return body, nil
}

// outboundHeader переносит Authorization без изменений и служебные заголовки.
func (f *Forwarder) outboundHeader(c *gin.Context, body []byte) http.Header {
	header := http.Header{}
	header.Set("Accept", "application/json")
	if auth := c.GetHeader("Authorization"); auth != "" {
		header.Set("Authorization", auth)
	}
	if len(body) > 0 {
		contentType := c.GetHeader("Content-Type")
		if contentType == "" {
			contentType = "application/json"
		}
		header.Set("Content-Type", contentType)
	}
	if id := c.GetString(middleware.ContextRequestIDKey); id != "" {
		header.Set(middleware.RequestIDHeader, id)
	}
	return header
}

// expand подставляет параметры пути в шаблон backend, экранируя значения.
func expand(template string, c *gin.Context) string {
	segments := strings.Split(template, "/")
	for i, segment := range segments {
		if strings.HasPrefix(segment, ":") {
			segments[i] = url.PathEscape(c.Param(segment[1:]))
		}
	}
	return strings.Join(segments, "/")
}
