package config

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
)

// Config хранит все параметры запуска шлюза и CLI.
type Config struct {
	Env      string `env:"APP_ENV" env-default:"development"`
	HTTPPort string `env:"HTTP_PORT" env-default:"3000"`

	// APIURL базовый адрес backend API Bantuin, например https://api.bantuin.id/api.
	APIURL             string        `env:"API_URL"`
	UpstreamTimeout    time.Duration `env:"UPSTREAM_TIMEOUT" env-default:"15s"`
	MaxRequestBodySize int64         `env:"MAX_REQUEST_BODY_BYTES" env-default:"1048576"`

	AllowedOriginsRaw string `env:"CORS_ALLOWED_ORIGINS"`
	AllowedOrigins    []string

	RateLimitLimit    int64         `env:"RATE_LIMIT_LIMIT" env-default:"120"`
	RateLimitPeriod   time.Duration `env:"RATE_LIMIT_PERIOD" env-default:"1m"`
	RateLimitRedisURL string        `env:"RATE_LIMIT_REDIS_URL"`

	NotificationPollInterval time.Duration `env:"NOTIFICATION_POLL_INTERVAL" env-default:"30s"`
	ProfileCacheTTL          time.Duration `env:"PROFILE_CACHE_TTL" env-default:"1m"`

	TokenFile string `env:"BANTUIN_TOKEN_FILE"`
}

// Load читает переменные окружения и возвращает готовую конфигурацию.
// Отсутствие API_URL не считается фатальной ошибкой: проверяйте UpstreamConfigured.
func Load() (*Config, error) {
	// Загружаем .env только если он существует, иначе используем системные переменные.
	if err := godotenv.Load(".env"); err != nil {
		log.Printf("config: .env не найден, используем переменные окружения: %v", err)
	}

	cfg := &Config{}
	if err := cleanenv.ReadEnv(cfg); err != nil {
		return nil, fmt.Errorf("config: не удалось прочитать окружение: %w", err)
	}

	cfg.APIURL = strings.TrimRight(strings.TrimSpace(cfg.APIURL), "/")
	if cfg.APIURL == "" {
		log.Printf("config: ERROR - API_URL не задан, запросы к backend будут отклоняться")
	}

	if cfg.AllowedOriginsRaw == "" {
		if cfg.IsProduction() {
			return nil, fmt.Errorf("config: CORS_ALLOWED_ORIGINS обязателен в production")
		}
		cfg.AllowedOrigins = []string{"http://localhost:3000", "http://localhost:3001"}
	} else {
		for _, origin := range strings.Split(cfg.AllowedOriginsRaw, ",") {
			if origin = strings.TrimSpace(origin); origin != "" {
				cfg.AllowedOrigins = append(cfg.AllowedOrigins, origin)
			}
		}
	}

	if cfg.MaxRequestBodySize <= 0 {
		cfg.MaxRequestBodySize = 1 << 20
	}
	if cfg.NotificationPollInterval <= 0 {
		cfg.NotificationPollInterval = 30 * time.Second
	}

	if cfg.TokenFile == "" {
		cfg.TokenFile = defaultTokenFile()
	}

	return cfg, nil
}

// IsProduction сообщает, запущено ли приложение в production окружении.
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

// UpstreamConfigured сообщает, задан ли адрес backend API.
func (c *Config) UpstreamConfigured() bool {
	return c.APIURL != ""
}

// defaultTokenFile возвращает путь к файлу токена CLI в каталоге пользователя.
func defaultTokenFile() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		dir = "."
	}
	return filepath.Join(dir, "bantuin", "token")
}
