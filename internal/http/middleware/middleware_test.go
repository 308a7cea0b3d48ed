package middleware

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ignatzorin/bantuin-gateway/internal/pkg/apperror"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestRequireBearer_MissingHeader(t *testing.T) {
	r := gin.New()
	called := false
	r.GET("/orders", RequireBearer(), func(c *gin.Context) { called = true })

	req, _ := http.NewRequest("GET", "/orders", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.False(t, called)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, false, body["success"])
	assert.Equal(t, "UNAUTHORIZED", body["code"])
}

func TestRequireBearer_WithHeader(t *testing.T) {
	r := gin.New()
	r.GET("/orders", RequireBearer(), func(c *gin.Context) { c.Status(http.StatusOK) })

	req, _ := http.NewRequest("GET", "/orders", nil)
	req.Header.Set("Authorization", "Bearer anything")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestIdentify_SetsFingerprint(t *testing.T) {
	r := gin.New()
	var fp string
	r.Use(Identify())
	r.GET("/x", func(c *gin.Context) { fp = c.GetString(ContextFingerprintKey) })

	req, _ := http.NewRequest("GET", "/x", nil)
	req.Header.Set("Authorization", "Bearer opaque-token")
	r.ServeHTTP(httptest.NewRecorder(), req)

	assert.Len(t, fp, 16)
}

func TestIDValidator(t *testing.T) {
	r := gin.New()
	r.GET("/orders/:id", IDValidator("id"), func(c *gin.Context) { c.Status(http.StatusOK) })

	cases := map[string]int{
		"/orders/clx1abc_09-Z":       http.StatusOK,
		"/orders/550e8400-e29b-41d4": http.StatusOK,
		"/orders/bad%20id":           http.StatusBadRequest,
		"/orders/abc$def":            http.StatusBadRequest,
	}
	for path, want := range cases {
		req, _ := http.NewRequest("GET", path, nil)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		assert.Equal(t, want, w.Code, path)
	}
}

func TestRequestID_GeneratesAndEchoes(t *testing.T) {
	r := gin.New()
	r.Use(RequestID())
	r.GET("/x", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/x", nil)
	r.ServeHTTP(w, req)
	assert.Len(t, w.Header().Get(RequestIDHeader), 36)

	w = httptest.NewRecorder()
	req, _ = http.NewRequest("GET", "/x", nil)
	req.Header.Set(RequestIDHeader, "req-123")
	r.ServeHTTP(w, req)
	assert.Equal(t, "req-123", w.Header().Get(RequestIDHeader))
}

func TestRateLimit_BlocksAfterLimit(t *testing.T) {
	store, closeFn, err := NewLimiterStore("")
	require.NoError(t, err)
	defer closeFn()

	r := gin.New()
	r.Use(RateLimitMiddleware(store, 2, time.Minute))
	r.GET("/x", func(c *gin.Context) { c.Status(http.StatusOK) })

	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		w := httptest.NewRecorder()
		req, _ := http.NewRequest("GET", "/x", nil)
		r.ServeHTTP(w, req)
		codes = append(codes, w.Code)
	}

	assert.Equal(t, []int{http.StatusOK, http.StatusOK, http.StatusTooManyRequests}, codes)
}

func TestNewLimiterStore_BadRedisURL(t *testing.T) {
	_, _, err := NewLimiterStore("not a url")
	assert.Error(t, err)
}

func TestErrorHandler_MasksInternalErrors(t *testing.T) {
	r := gin.New()
	r.Use(ErrorHandler())
	r.GET("/internal", func(c *gin.Context) { _ = c.Error(errors.New("dial tcp 10.0.0.1:443: connection refused")) })
	r.GET("/app", func(c *gin.Context) {
		_ = c.Error(apperror.New(apperror.ErrCodeNotFound, "заказ не найден"))
	})

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/internal", nil)
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.NotContains(t, w.Body.String(), "10.0.0.1")

	w = httptest.NewRecorder()
	req, _ = http.NewRequest("GET", "/app", nil)
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "заказ не найден")
}

func TestCORS_AllowsConfiguredOrigin(t *testing.T) {
	r := gin.New()
	r.Use(CORSMiddleware([]string{"https://bantuin.id"}))
	r.GET("/x", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("OPTIONS", "/x", nil)
	req.Header.Set("Origin", "https://bantuin.id")
	req.Header.Set("Access-Control-Request-Method", "GET")
	r.ServeHTTP(w, req)

	assert.Equal(t, "https://bantuin.id", w.Header().Get("Access-Control-Allow-Origin"))

	w = httptest.NewRecorder()
	req, _ = http.NewRequest("GET", "/x", nil)
	req.Header.Set("Origin", "https://evil.example")
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusForbidden, w.Code)
}
