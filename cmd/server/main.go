package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/ignatzorin/bantuin-gateway/internal/cache"
	"github.com/ignatzorin/bantuin-gateway/internal/config"
	"github.com/ignatzorin/bantuin-gateway/internal/domain/entity"
	httpHandlers "github.com/ignatzorin/bantuin-gateway/internal/http/handlers"
	"github.com/ignatzorin/bantuin-gateway/internal/http/middleware"
	httpRouter "github.com/ignatzorin/bantuin-gateway/internal/http/router"
	"github.com/ignatzorin/bantuin-gateway/internal/logger"
	"github.com/ignatzorin/bantuin-gateway/internal/notifications"
	"github.com/ignatzorin/bantuin-gateway/internal/proxy"
	"github.com/ignatzorin/bantuin-gateway/internal/upstream"
	"github.com/ignatzorin/bantuin-gateway/internal/validation"
	"github.com/ignatzorin/bantuin-gateway/internal/ws"
)

func main() {
	// Готовим контекст для graceful shutdown.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		logrus.Fatalf("main: ошибка загрузки конфигурации: %v", err)
	}

	if cfg.IsProduction() {
		logger.Init("info")
	} else {
		logger.Init("debug")
		logger.SetTextFormatter()
	}
	log := logger.Entry()

	if err := validation.RegisterGin(); err != nil {
		log.Fatalf("main: %v", err)
	}

	if !cfg.UpstreamConfigured() {
		log.Warn("main: API_URL не задан, запросы к backend будут завершаться ошибкой")
	}
	client := upstream.NewClient(cfg.APIURL, cfg.UpstreamTimeout)

	limiterStore, closeLimiter, err := middleware.NewLimiterStore(cfg.RateLimitRedisURL)
	if err != nil {
		log.Fatalf("main: не удалось подготовить rate limiter: %v", err)
	}
	defer func() {
		if err := closeLimiter(); err != nil {
			log.WithField("error", err.Error()).Warn("main: ошибка закрытия хранилища rate limiter")
		}
	}()

	profiles := cache.New[*entity.User](time.Minute)
	defer profiles.Close()

	// Вебсокеты: один poller непрочитанных на пользователя.
	hub := ws.NewHub(ctx, func(token string) notifications.CountSource {
		return client.WithToken(token)
	}, cfg.NotificationPollInterval)
	go hub.Run()

	lookup := func(ctx context.Context, rawToken string) (*entity.User, error) {
		return client.WithToken(rawToken).Profile(ctx)
	}

	engine := httpRouter.SetupRouter(
		cfg,
		limiterStore,
		proxy.NewForwarder(client, cfg.MaxRequestBodySize),
		httpHandlers.NewHealthHandler(client),
		httpHandlers.NewAuthHandler(client),
		httpHandlers.NewWSHandler(hub, lookup, profiles, cfg.ProfileCacheTTL, cfg.AllowedOrigins),
	)

	server := &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		Handler:           engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Завершаем сервер при получении сигнала.
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			log.WithField("error", err.Error()).Error("main: ошибка остановки http сервера")
		}
	}()

	log.WithFields(logrus.Fields{
		"port":     cfg.HTTPPort,
		"upstream": cfg.APIURL,
		"env":      cfg.Env,
	}).Info("main: HTTP шлюз запущен")

	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatalf("main: сервер завершился с ошибкой: %v", err)
	}
}
