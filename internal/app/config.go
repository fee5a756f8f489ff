package app

import (
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"

	"github.com/yungbote/workstation-backend/internal/data/db"
	"github.com/yungbote/workstation-backend/internal/platform/logger"
)

type Config struct {
	LogMode      string `env:"LOG_MODE" envDefault:"development"`
	LogRedaction bool   `env:"LOG_REDACTION_ENABLED" envDefault:"true"`
	LogHashSalt  string `env:"LOG_HASH_SALT"`
	HTTPAddr     string `env:"HTTP_ADDR" envDefault:":8080"`

	// DBDriver is "postgres" or "sqlite".
	DBDriver   string            `env:"DB_DRIVER" envDefault:"postgres"`
	Postgres   db.PostgresConfig `envPrefix:"POSTGRES_"`
	SQLitePath string            `env:"SQLITE_PATH" envDefault:"workstation.db"`

	RedisAddr    string `env:"REDIS_ADDR"`
	RedisChannel string `env:"REDIS_CHANNEL" envDefault:"contract-events"`

	RoleDirectoryPath string        `env:"ROLE_DIRECTORY_PATH"`
	EventLogEnabled   bool          `env:"EVENT_LOG_ENABLED" envDefault:"true"`
	EventSinkTimeout  time.Duration `env:"EVENT_SINK_TIMEOUT" envDefault:"5s"`

	OtelEnabled     bool              `env:"OTEL_ENABLED" envDefault:"false"`
	OtelExporter    string            `env:"OTEL_EXPORTER" envDefault:"otlp"`
	OtelEndpoint    string            `env:"OTEL_EXPORTER_OTLP_ENDPOINT"`
	OtelHeaders     map[string]string `env:"OTEL_EXPORTER_OTLP_HEADERS"`
	OtelInsecure    bool              `env:"OTEL_EXPORTER_OTLP_INSECURE" envDefault:"false"`
	OtelServiceName string            `env:"OTEL_SERVICE_NAME" envDefault:"workstation-backend"`
	OtelSampleRatio float64           `env:"OTEL_SAMPLER_RATIO" envDefault:"1"`
	Environment     string            `env:"APP_ENV" envDefault:"development"`
	Version         string            `env:"APP_VERSION" envDefault:"dev"`

	MetricsEnabled bool     `env:"METRICS_ENABLED" envDefault:"true"`
	CORSOrigins    []string `env:"CORS_ALLOWED_ORIGINS" envSeparator:","`
}

func LoadConfig() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	cfg.DBDriver = strings.ToLower(strings.TrimSpace(cfg.DBDriver))
	switch cfg.DBDriver {
	case "postgres", "sqlite":
	default:
		return Config{}, fmt.Errorf("unsupported DB_DRIVER %q", cfg.DBDriver)
	}
	cfg.OtelExporter = strings.ToLower(strings.TrimSpace(cfg.OtelExporter))
	origins := cfg.CORSOrigins[:0]
	for _, o := range cfg.CORSOrigins {
		if o = strings.TrimSpace(o); o != "" {
			origins = append(origins, o)
		}
	}
	cfg.CORSOrigins = origins
	return cfg, nil
}

// NewLogger builds the process logger from the LOG_* settings.
func (c Config) NewLogger() (*logger.Logger, error) {
	log, err := logger.New(c.LogMode, logger.WithRedaction(c.LogRedaction), logger.WithHashSalt(c.LogHashSalt))
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}
	return log, nil
}
