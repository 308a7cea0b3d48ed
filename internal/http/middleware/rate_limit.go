package middleware

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"github.com/ulule/limiter/v3"
	"github.com/ulule/limiter/v3/drivers/store/memory"
	sredis "github.com/ulule/limiter/v3/drivers/store/redis"

	"github.com/ignatzorin/bantuin-gateway/internal/interface/http/response"
	"github.com/ignatzorin/bantuin-gateway/internal/logger"
	"github.com/ignatzorin/bantuin-gateway/internal/pkg/apperror"
)

const limiterPrefix = "bantuin:limiter"

// NewLimiterStore возвращает redis хранилище, если задан redisURL, иначе in-memory.
// closeFn закрывает соединение с redis и безопасен для in-memory варианта.
func NewLimiterStore(redisURL string) (store limiter.Store, closeFn func() error, err error) {
	if redisURL == "" {
		return memory.NewStoreWithOptions(limiter.StoreOptions{Prefix: limiterPrefix}), func() error { return nil }, nil
	}

	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, nil, fmt.Errorf("middleware: некорректный RATE_LIMIT_REDIS_URL: %w", err)
	}
	client := redis.NewClient(opts)
	store, err = sredis.NewStoreWithOptions(client, limiter.StoreOptions{Prefix: limiterPrefix, MaxRetry: 3})
	if err != nil {
		_ = client.Close()
		return nil, nil, fmt.Errorf("middleware: не удалось подключить redis для rate limit: %w", err)
	}
	return store, client.Close, nil
}

// RateLimitMiddleware ограничивает количество запросов с одного IP.
// Токен шлюз не проверяет, поэтому ключом служит только адрес клиента.
func RateLimitMiddleware(store limiter.Store, limit int64, period time.Duration) gin.HandlerFunc {
	if limit <= 0 {
		limit = 120
	}
	if period <= 0 {
		period = 1 * time.Minute
	}

	instance := limiter.New(store, limiter.Rate{Period: period, Limit: limit})

	return func(c *gin.Context) {
		key := "ip:" + c.ClientIP()

		ctx, err := instance.Get(c.Request.Context(), key)
		if err != nil {
			// Хранилище лимитов недоступно: пропускаем запрос, чтобы не ронять шлюз.
			logger.Entry().WithFields(logrus.Fields{"error": err.Error()}).Warn("rate limit store unavailable")
			c.Next()
			return
		}

		c.Header("X-RateLimit-Limit", fmt.Sprintf("%d", ctx.Limit))
		c.Header("X-RateLimit-Remaining", fmt.Sprintf("%d", ctx.Remaining))
		c.Header("X-RateLimit-Reset", fmt.Sprintf("%d", ctx.Reset))

		if ctx.Reached {
			response.AbortWithError(c, &apperror.AppError{
				Code:       "RATE_LIMITED",
				Message:    "слишком много запросов, попробуйте позже",
				HTTPStatus: http.StatusTooManyRequests,
			})
			return
		}

		c.Next()
	}
}
