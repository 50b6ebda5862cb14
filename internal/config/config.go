package config

import (
	"errors"
	"fmt"
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/caarlos0/env/v10"
	"go.uber.org/zap"

	"github.com/shestoi/magazyn/internal/repository"
	platformkafka "github.com/shestoi/magazyn/platform/kafka"
	"github.com/shestoi/magazyn/platform/observability"
)

// ErrInvalidConfig возвращается, если конфигурация отсутствует или некорректна
var ErrInvalidConfig = errors.New("invalid configuration")

// Env представляет окружение приложения
type Env string

const (
	// EnvLocal - локальное окружение (для разработки на хосте)
	EnvLocal Env = "local"
	// EnvDocker - Docker окружение (для запуска в контейнерах)
	EnvDocker Env = "docker"
)

// Драйверы таблицы инвентаря
const (
	DriverPostgREST = "postgrest"
	DriverPostgres  = "postgres"
	DriverMongo     = "mongo"
	DriverMemory    = "memory"
)

// ServiceName имя сервиса в логах и трассах
const ServiceName = "magazyn"

// Config содержит конфигурацию magazyn
type Config struct {
	AppEnv   Env    `env:"APP_ENV" envDefault:"local"`
	HTTPAddr string `env:"HTTP_ADDR"`

	// StoreDriver выбирает реализацию таблицы: postgrest|postgres|mongo|memory
	StoreDriver   string        `env:"STORE_DRIVER" envDefault:"postgrest"`
	SupabaseURL   string        `env:"SUPABASE_URL"`
	SupabaseKey   string        `env:"SUPABASE_KEY"`
	SupabaseTable string        `env:"SUPABASE_TABLE" envDefault:"magazyn"`
	StoreTimeout  time.Duration `env:"STORE_TIMEOUT" envDefault:"10s"`
	PostgresDSN   string        `env:"POSTGRES_DSN"`
	MongoURI      string        `env:"MONGO_URI"`
	MongoDB       string        `env:"MONGO_DB" envDefault:"magazyn"`

	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"5s"`

	LogLevel  string `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat string `env:"LOG_FORMAT"`

	Kafka platformkafka.Config

	OTelEnabled       bool    `env:"OTEL_ENABLED" envDefault:"false"`
	OTelEndpoint      string  `env:"OTEL_EXPORTER_OTLP_ENDPOINT"`
	OTelSamplingRatio float64 `env:"OTEL_SAMPLING_RATIO" envDefault:"1.0"`
}

// Load загружает конфигурацию из переменных окружения.
// Читает APP_ENV и устанавливает дефолты в зависимости от окружения.
func Load() (Config, error) {
	cfg, err := parse()
	if err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// LoadMigrations загружает конфигурацию для команд migrate и migrate:status.
// Проверяется только POSTGRES_DSN, STORE_DRIVER и ключи Supabase не нужны.
// Миграции создают только таблицу magazyn, поэтому другой SUPABASE_TABLE отклоняется.
func LoadMigrations() (Config, error) {
	cfg, err := parse()
	if err != nil {
		return Config{}, err
	}
	if cfg.PostgresDSN == "" {
		return Config{}, invalid("POSTGRES_DSN is required for migrations")
	}
	if cfg.SupabaseTable != repository.DefaultTable {
		return Config{}, invalid("migrations only create table %q, got SUPABASE_TABLE=%q", repository.DefaultTable, cfg.SupabaseTable)
	}
	return cfg, nil
}

func parse() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}

	cfg.trim()
	cfg.Kafka.Normalize()

	if cfg.AppEnv != EnvLocal && cfg.AppEnv != EnvDocker {
		return Config{}, fmt.Errorf("%w: APP_ENV=%q (must be 'local' or 'docker')", ErrInvalidConfig, cfg.AppEnv)
	}

	if cfg.HTTPAddr == "" {
		if cfg.AppEnv == EnvLocal {
			cfg.HTTPAddr = "127.0.0.1:8080"
		} else {
			cfg.HTTPAddr = "0.0.0.0:8080"
		}
	}
	if cfg.OTelEndpoint == "" {
		if cfg.AppEnv == EnvLocal {
			cfg.OTelEndpoint = "127.0.0.1:4317"
		} else {
			cfg.OTelEndpoint = "otel-collector:4317"
		}
	}
	if len(cfg.Kafka.Brokers) == 0 {
		cfg.Kafka.Brokers = platformkafka.DefaultBrokers(string(cfg.AppEnv))
	}
	return cfg, nil
}

// trim убирает пробелы и переводы строк вокруг значений (ключи часто копируют с хвостом)
func (c *Config) trim() {
	for _, s := range []*string{
		&c.HTTPAddr, &c.StoreDriver, &c.SupabaseURL, &c.SupabaseKey, &c.SupabaseTable,
		&c.PostgresDSN, &c.MongoURI, &c.MongoDB, &c.LogLevel, &c.LogFormat, &c.OTelEndpoint,
		&c.Kafka.Topic,
	} {
		*s = strings.TrimSpace(*s)
	}
	c.AppEnv = Env(strings.TrimSpace(string(c.AppEnv)))
	c.StoreDriver = strings.ToLower(c.StoreDriver)
}

// Validate проверяет корректность конфигурации
func (c Config) Validate() error {
	if c.HTTPAddr == "" {
		return invalid("HTTP_ADDR is required")
	}

	switch c.StoreDriver {
	case DriverPostgREST:
		if c.SupabaseURL == "" {
			return invalid("SUPABASE_URL is required")
		}
		u, err := url.Parse(c.SupabaseURL)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			return invalid("SUPABASE_URL must be an absolute http(s) URL, got %q", c.SupabaseURL)
		}
		if c.SupabaseKey == "" {
			return invalid("SUPABASE_KEY is required")
		}
		if c.SupabaseTable == "" {
			return invalid("SUPABASE_TABLE must not be empty")
		}
	case DriverPostgres:
		if c.PostgresDSN == "" {
			return invalid("POSTGRES_DSN is required for STORE_DRIVER=postgres")
		}
	case DriverMongo:
		if c.MongoURI == "" {
			return invalid("MONGO_URI is required for STORE_DRIVER=mongo")
		}
		if c.MongoDB == "" {
			return invalid("MONGO_DB must not be empty")
		}
	case DriverMemory:
	default:
		return invalid("STORE_DRIVER=%q (must be postgrest/postgres/mongo/memory)", c.StoreDriver)
	}

	if c.StoreTimeout <= 0 {
		return invalid("STORE_TIMEOUT must be positive")
	}
	if c.ShutdownTimeout <= 0 {
		return invalid("SHUTDOWN_TIMEOUT must be positive")
	}
	if c.OTelSamplingRatio < 0 || c.OTelSamplingRatio > 1 {
		return invalid("OTEL_SAMPLING_RATIO must be in [0, 1], got %v", c.OTelSamplingRatio)
	}
	if err := c.Kafka.Validate(); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	return nil
}

// Observability возвращает настройки OpenTelemetry
func (c Config) Observability() observability.Config {
	return observability.Config{
		Enabled:               c.OTelEnabled,
		OTLPEndpoint:          c.OTelEndpoint,
		SamplingRatio:         c.OTelSamplingRatio,
		ServiceName:           ServiceName,
		DeploymentEnvironment: string(c.AppEnv),
	}
}

// Log выводит конфигурацию в лог (с маскировкой секретов)
func (c Config) Log(logger *zap.Logger) {
	fields := []zap.Field{
		zap.String("app_env", string(c.AppEnv)),
		zap.String("http_addr", c.HTTPAddr),
		zap.String("store_driver", c.StoreDriver),
		zap.Duration("store_timeout", c.StoreTimeout),
		zap.Duration("shutdown_timeout", c.ShutdownTimeout),
		zap.Bool("kafka_enabled", c.Kafka.Enabled),
		zap.Bool("otel_enabled", c.OTelEnabled),
	}
	switch c.StoreDriver {
	case DriverPostgREST:
		fields = append(fields,
			zap.String("supabase_url", maskURL(c.SupabaseURL)),
			zap.Int("supabase_key_len", len(c.SupabaseKey)),
			zap.String("supabase_table", c.SupabaseTable),
		)
	case DriverPostgres:
		fields = append(fields, zap.String("postgres_dsn", maskDSN(c.PostgresDSN)))
	case DriverMongo:
		fields = append(fields,
			zap.String("mongo_uri", maskDSN(c.MongoURI)),
			zap.String("mongo_db", c.MongoDB),
		)
	}
	if c.Kafka.Enabled {
		fields = append(fields,
			zap.Strings("kafka_brokers", c.Kafka.Brokers),
			zap.String("kafka_topic", c.Kafka.Topic),
		)
	}
	if c.OTelEnabled {
		fields = append(fields,
			zap.String("otel_endpoint", c.OTelEndpoint),
			zap.Float64("otel_sampling_ratio", c.OTelSamplingRatio),
		)
	}
	logger.Info("Config loaded", fields...)
}

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidConfig, fmt.Sprintf(format, args...))
}

// maskURL оставляет начало адреса проекта, остальное скрывает
func maskURL(raw string) string {
	const visible = 30
	if len(raw) <= visible {
		return raw
	}
	return raw[:visible] + "..."
}

// keywordPassword находит password=... в DSN формата "host=db password=secret"
var keywordPassword = regexp.MustCompile(`(?i)(\bpassword\s*=\s*)('(?:[^'\\]|\\.)*'|\S+)`)

// maskDSN маскирует пароль в DSN/URI для безопасного логирования
func maskDSN(dsn string) string {
	u, err := url.Parse(dsn)
	if err != nil || u.User == nil {
		return keywordPassword.ReplaceAllString(dsn, "${1}***")
	}
	if _, ok := u.User.Password(); ok {
		u.User = url.UserPassword(u.User.Username(), "***")
	}
	return u.String()
}
