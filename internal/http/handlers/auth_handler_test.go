package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

type staticLogin string

func (s staticLogin) LoginURL() string { return string(s) }

func TestAuthHandler_GoogleLogin_Redirects(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/auth/google", NewAuthHandler(staticLogin("https://api.bantuin.id/api/auth/google")).GoogleLogin)

	req, _ := http.NewRequest("GET", "/auth/google", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "https://api.bantuin.id/api/auth/google", w.Header().Get("Location"))
}

func TestAuthHandler_GoogleLogin_NotConfigured(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/auth/google", NewAuthHandler(staticLogin("")).GoogleLogin)

	req, _ := http.NewRequest("GET", "/auth/google", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Contains(t, w.Body.String(), "CONFIGURATION_ERROR")
}
