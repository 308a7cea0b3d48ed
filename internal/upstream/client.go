// Package upstream реализует HTTP клиент backend API Bantuin.
// Все вызовы разбирают конверт {success, data, message|error}; отказ backend
// возвращается как apperror с исходным статусом и сообщением.
package upstream

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/ignatzorin/bantuin-gateway/internal/domain/entity"
	"github.com/ignatzorin/bantuin-gateway/internal/pkg/apperror"
)

// MaxResponseSize ограничивает размер тела ответа backend.
const MaxResponseSize = 10 << 20

// Client обращается к backend API. Копия с токеном создаётся через WithToken.
type Client struct {
	baseURL    string
	httpClient *http.Client
	token      string
}

// NewClient создаёт клиент. Пустой baseURL допустим: вызовы вернут ErrNotConfigured.
func NewClient(baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: timeout,
			Transport: &http.Transport{
				Proxy:               http.ProxyFromEnvironment,
				MaxIdleConns:        100,
				MaxIdleConnsPerHost: 20,
				IdleConnTimeout:     90 * time.Second,
			},
		},
	}
}

// WithToken возвращает копию клиента, отправляющую Authorization: Bearer <token>.
func (c *Client) WithToken(token string) *Client {
	clone := *c
	clone.token = token
	return &clone
}

func (c *Client) Configured() bool {
	return c.baseURL != ""
}

func (c *Client) BaseURL() string {
	return c.baseURL
}

// RawResponse ответ backend без разбора, для прозрачной пересылки.
type RawResponse struct {
	Status int
	Header http.Header
	Body   []byte
}

// Forward отправляет запрос как есть и возвращает ответ без интерпретации статуса.
// Ошибка возвращается только при сетевом сбое или отсутствии конфигурации.
func (c *Client) Forward(ctx context.Context, method, path, rawQuery string, header http.Header, body []byte) (*RawResponse, error) {
	if !c.Configured() {
		return nil, apperror.ErrNotConfigured
	}

	target := c.baseURL + path
	if rawQuery != "" {
		target += "?" + rawQuery
	}

	var reader io.Reader
	if len(body) > 0 {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, target, reader)
	if err != nil {
		return nil, apperror.Wrap(err, apperror.ErrCodeInternal, "не удалось сформировать запрос")
	}
	for name, values := range header {
		for _, v := range values {
			req.Header.Add(name, v)
		}
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, apperror.Wrap(err, apperror.ErrCodeUpstreamUnavailable, apperror.ErrUpstreamGeneric.Message)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, MaxResponseSize))
	if err != nil {
		return nil, apperror.Wrap(err, apperror.ErrCodeUpstreamUnavailable, apperror.ErrUpstreamGeneric.Message)
	}

	return &RawResponse{Status: resp.StatusCode, Header: resp.Header, Body: raw}, nil
}

type envelope struct {
	Success    *bool              `json:"success"`
	Data       json.RawMessage    `json:"data"`
	Message    json.RawMessage    `json:"message"`
	Error      json.RawMessage    `json:"error"`
	Pagination *entity.Pagination `json:"pagination"`
}

// text возвращает сообщение об ошибке: message, затем error.
func (e *envelope) text() string {
	for _, raw := range []json.RawMessage{e.Message, e.Error} {
		if len(raw) == 0 {
			continue
		}
		var s string
		if err := json.Unmarshal(raw, &s); err == nil && s != "" {
			return s
		}
		var nested struct {
			Message string `json:"message"`
		}
		if err := json.Unmarshal(raw, &nested); err == nil && nested.Message != "" {
			return nested.Message
		}
	}
	return ""
}

// ErrorFromBody строит ошибку отказа по статусу и телу ответа backend.
func ErrorFromBody(status int, body []byte) error {
	var env envelope
	if err := json.Unmarshal(body, &env); err != nil {
		return apperror.Upstream(status, "")
	}
	return apperror.Upstream(status, env.text())
}

// call выполняет JSON запрос и разбирает конверт. out получает поле data.
func (c *Client) call(ctx context.Context, method, path string, query url.Values, in, out interface{}) (*entity.Pagination, error) {
	var body []byte
	if in != nil {
		var err error
		body, err = json.Marshal(in)
		if err != nil {
			return nil, apperror.Wrap(err, apperror.ErrCodeInternal, "не удалось сериализовать запрос")
		}
	}

	header := http.Header{}
	header.Set("Accept", "application/json")
	if in != nil {
		header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		header.Set("Authorization", "Bearer "+c.token)
	}

	rawQuery := ""
	if len(query) > 0 {
		rawQuery = query.Encode()
	}

	resp, err := c.Forward(ctx, method, path, rawQuery, header, body)
	if err != nil {
		return nil, err
	}

	if resp.Status < 200 || resp.Status > 299 {
		return nil, ErrorFromBody(resp.Status, resp.Body)
	}
	if len(bytes.TrimSpace(resp.Body)) == 0 {
		return nil, nil
	}

	var env envelope
	if err := json.Unmarshal(resp.Body, &env); err != nil {
		return nil, apperror.Wrap(err, apperror.ErrCodeUpstreamUnavailable, apperror.ErrUpstreamGeneric.Message)
	}
	if env.Success != nil && !*env.Success {
		return nil, apperror.Upstream(http.StatusBadRequest, env.text())
	}

	if out != nil && len(env.Data) > 0 && string(env.Data) != "null" {
		if err := json.Unmarshal(env.Data, out); err != nil {
			return nil, apperror.Wrap(err, apperror.ErrCodeUpstreamUnavailable, apperror.ErrUpstreamGeneric.Message)
		}
	}
	return env.Pagination, nil
}

// Ping проверяет доступность backend: ответ со статусом ниже 500 считается признаком жизни.
func (c *Client) Ping(ctx context.Context) error {
	resp, err := c.Forward(ctx, http.MethodGet, "/health", "", nil, nil)
	if err != nil {
		return err
	}
	if resp.Status >= 500 {
		return fmt.Errorf("upstream: health вернул %d", resp.Status)
	}
	return nil
}

// escape экранирует идентификатор для подстановки в путь.
func escape(id string) string {
	return url.PathEscape(id)
}

