package router

import (
	"github.com/gin-gonic/gin"
	"github.com/ulule/limiter/v3"

	"github.com/ignatzorin/bantuin-gateway/internal/config"
	"github.com/ignatzorin/bantuin-gateway/internal/http/handlers"
	"github.com/ignatzorin/bantuin-gateway/internal/http/middleware"
	"github.com/ignatzorin/bantuin-gateway/internal/proxy"
)

func SetupRouter(
	cfg *config.Config,
	limiterStore limiter.Store,
	forwarder *proxy.Forwarder,
	healthHandler *handlers.HealthHandler,
	authHandler *handlers.AuthHandler,
	wsHandler *handlers.WSHandler,
) *gin.Engine {
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Identify())
	r.Use(middleware.AccessLog())
	r.Use(middleware.ErrorHandler())
	r.Use(middleware.CORSMiddleware(cfg.AllowedOrigins))

	r.GET("/health", healthHandler.Health)

	limited := r.Group("")
	limited.Use(middleware.RateLimitMiddleware(limiterStore, cfg.RateLimitLimit, cfg.RateLimitPeriod))

	limited.GET("/auth/google", authHandler.GoogleLogin)

	api := limited.Group("/api")
	api.GET("/ws", wsHandler.Handle)
	forwarder.Register(api, proxy.Routes())

	return r
}
