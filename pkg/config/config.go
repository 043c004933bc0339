package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

const (
	EnvPrefix  = "krishi"
	AppEnvDev  = "dev"
	AppEnvProd = "prod"
)

type Config struct {
	App          AppConfig
	DB           DBConfig
	Redis        RedisConfig
	Ledger       LedgerConfig
	Advisory     AdvisoryConfig
	Analytics    AnalyticsConfig
	PubSub       PubSubConfig
	FeatureFlags FeatureFlagsConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.DB.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"KRISHI_APP_ENV" default:"dev"`
	Port         string `envconfig:"KRISHI_APP_PORT" default:"8000"`
	LogLevel     string `envconfig:"KRISHI_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"KRISHI_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	Driver string `envconfig:"KRISHI_DB_DRIVER" default:"sqlite"`
	DSN    string `envconfig:"KRISHI_DB_DSN"`

	SQLitePath string `envconfig:"KRISHI_DB_SQLITE_PATH" default:"data/krishi.db"`

	MaxOpenConns    int           `envconfig:"KRISHI_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"KRISHI_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"KRISHI_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"KRISHI_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

func (d DBConfig) validate() error {
	switch d.Driver {
	case "postgres":
		if d.DSN == "" {
			return fmt.Errorf("postgres driver requires KRISHI_DB_DSN")
		}
	case "sqlite":
		if d.SQLitePath == "" {
			return fmt.Errorf("sqlite driver requires KRISHI_DB_SQLITE_PATH")
		}
	default:
		return fmt.Errorf("unsupported db driver %q", d.Driver)
	}
	return nil
}

// RedisConfig is optional: when URL and Address are both empty the
// idempotency middleware is disabled rather than failing startup.
type RedisConfig struct {
	URL          string        `envconfig:"KRISHI_REDIS_URL"`
	Address      string        `envconfig:"KRISHI_REDIS_ADDR"`
	Password     string        `envconfig:"KRISHI_REDIS_PASSWORD"`
	DB           int           `envconfig:"KRISHI_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"KRISHI_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"KRISHI_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"KRISHI_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"KRISHI_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"KRISHI_REDIS_WRITE_TIMEOUT" default:"5s"`
}

func (r RedisConfig) Enabled() bool {
	return r.URL != "" || r.Address != ""
}

type LedgerConfig struct {
	FilePath string `envconfig:"KRISHI_LEDGER_FILE" default:"data/ledger.json"`
}

type AdvisoryConfig struct {
	FilePath string `envconfig:"KRISHI_ADVISORY_FILE" default:"data/advisories.json"`
}

type AnalyticsConfig struct {
	RiskThreshold int `envconfig:"KRISHI_ANALYTICS_RISK_THRESHOLD" default:"60"`
	PriorityTopN  int `envconfig:"KRISHI_ANALYTICS_PRIORITY_TOP_N" default:"20"`
}

// PubSubConfig enables publishing advisory-issued events when a topic is set.
type PubSubConfig struct {
	ProjectID     string `envconfig:"KRISHI_GCP_PROJECT_ID"`
	AdvisoryTopic string `envconfig:"KRISHI_PUBSUB_ADVISORY_TOPIC"`
}

func (p PubSubConfig) Enabled() bool {
	return p.ProjectID != "" && p.AdvisoryTopic != ""
}

type FeatureFlagsConfig struct {
	AutoMigrate bool `envconfig:"KRISHI_AUTO_MIGRATE" default:"false"`
}
