package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

const (
	AppEnvDev  = "dev"
	AppEnvProd = "prod"

	StorageDriverMemory = "memory"
	StorageDriverRedis  = "redis"
	StorageDriverSQL    = "sql"

	DBDriverSQLite   = "sqlite"
	DBDriverPostgres = "postgres"
)

const (
	EnvAppEnv        = "STOREFRONT_APP_ENV"
	EnvPort          = "STOREFRONT_APP_PORT"
	EnvLogLevel      = "STOREFRONT_LOG_LEVEL"
	EnvLogFormat     = "STOREFRONT_LOG_FORMAT"
	EnvStorageDriver = "STOREFRONT_STORAGE_DRIVER"
	EnvRedisURL      = "STOREFRONT_REDIS_URL"
	EnvRedisAddr     = "STOREFRONT_REDIS_ADDR"
	EnvDBDriver      = "STOREFRONT_DB_DRIVER"
	EnvDBDSN         = "STOREFRONT_DB_DSN"
	EnvAutoMigrate   = "STOREFRONT_AUTO_MIGRATE"
	EnvCatalogPath   = "STOREFRONT_CATALOG_PATH"
	EnvCORSOrigins   = "STOREFRONT_CORS_ALLOWED_ORIGINS"
	EnvRateLimitRPS  = "STOREFRONT_RATE_LIMIT_RPS"
)

type Config struct {
	App       AppConfig
	Storage   StorageConfig
	Redis     RedisConfig
	DB        DBConfig
	Catalog   CatalogConfig
	CORS      CORSConfig
	RateLimit RateLimitConfig
}

// Load reads the STOREFRONT_* environment. Fields carry their full variable names.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"STOREFRONT_APP_ENV" required:"true"`
	Port         string `envconfig:"STOREFRONT_APP_PORT" default:"8080"`
	LogLevel     string `envconfig:"STOREFRONT_LOG_LEVEL" default:"info"`
	LogFormat    string `envconfig:"STOREFRONT_LOG_FORMAT" default:"json"`
	LogWarnStack bool   `envconfig:"STOREFRONT_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type StorageConfig struct {
	Driver      string `envconfig:"STOREFRONT_STORAGE_DRIVER" default:"memory"`
	AutoMigrate bool   `envconfig:"STOREFRONT_AUTO_MIGRATE" default:"false"`
}

// NormalizedDriver returns the lower-cased storage driver.
func (s StorageConfig) NormalizedDriver() string {
	return strings.ToLower(strings.TrimSpace(s.Driver))
}

type RedisConfig struct {
	URL          string        `envconfig:"STOREFRONT_REDIS_URL"`
	Address      string        `envconfig:"STOREFRONT_REDIS_ADDR"`
	Password     string        `envconfig:"STOREFRONT_REDIS_PASSWORD"`
	DB           int           `envconfig:"STOREFRONT_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"STOREFRONT_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"STOREFRONT_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"STOREFRONT_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"STOREFRONT_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"STOREFRONT_REDIS_WRITE_TIMEOUT" default:"5s"`
	StateTTL     time.Duration `envconfig:"STOREFRONT_REDIS_STATE_TTL" default:"0"`
}

type DBConfig struct {
	Driver          string        `envconfig:"STOREFRONT_DB_DRIVER" default:"sqlite"`
	DSN             string        `envconfig:"STOREFRONT_DB_DSN" default:"file:storefront.db?cache=shared"`
	MaxOpenConns    int           `envconfig:"STOREFRONT_DB_MAX_OPEN_CONNS" default:"10"`
	MaxIdleConns    int           `envconfig:"STOREFRONT_DB_MAX_IDLE_CONNS" default:"5"`
	ConnMaxLifetime time.Duration `envconfig:"STOREFRONT_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"STOREFRONT_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

// NormalizedDriver returns the lower-cased SQL driver.
func (d DBConfig) NormalizedDriver() string {
	return strings.ToLower(strings.TrimSpace(d.Driver))
}

type CatalogConfig struct {
	// Path overrides the embedded seed catalog when set.
	Path string `envconfig:"STOREFRONT_CATALOG_PATH"`
}

type CORSConfig struct {
	AllowedOrigins []string `envconfig:"STOREFRONT_CORS_ALLOWED_ORIGINS" default:"http://localhost:3000"`
}

// RateLimitConfig throttles /api/v1 per shopper. A zero RPS disables it.
type RateLimitConfig struct {
	RequestsPerSecond float64       `envconfig:"STOREFRONT_RATE_LIMIT_RPS" default:"20"`
	Burst             int           `envconfig:"STOREFRONT_RATE_LIMIT_BURST" default:"40"`
	IdleTTL           time.Duration `envconfig:"STOREFRONT_RATE_LIMIT_IDLE_TTL" default:"3m"`
}

func (r RateLimitConfig) Enabled() bool {
	return r.RequestsPerSecond > 0 && r.Burst > 0
}

func (c *Config) validate() error {
	if c.RateLimit.RequestsPerSecond < 0 {
		return fmt.Errorf("%s must not be negative", EnvRateLimitRPS)
	}
	switch c.Storage.NormalizedDriver() {
	case StorageDriverMemory:
	case StorageDriverRedis:
		if c.Redis.URL == "" && c.Redis.Address == "" {
			return fmt.Errorf("either %s or %s is required for the redis storage driver", EnvRedisURL, EnvRedisAddr)
		}
	case StorageDriverSQL:
		switch c.DB.NormalizedDriver() {
		case DBDriverSQLite, DBDriverPostgres:
		default:
			return fmt.Errorf("unsupported %s %q", EnvDBDriver, c.DB.Driver)
		}
		if strings.TrimSpace(c.DB.DSN) == "" {
			return fmt.Errorf("%s is required for the sql storage driver", EnvDBDSN)
		}
	default:
		return fmt.Errorf("unsupported %s %q", EnvStorageDriver, c.Storage.Driver)
	}
	return nil
}
