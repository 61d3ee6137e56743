package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// EnvPrefix is the envconfig prefix shared by every binary.
const EnvPrefix = "vendora"

const (
	AppEnvDev  = "development"
	AppEnvProd = "production"
)

type Config struct {
	App    AppConfig
	DB     DBConfig
	Redis  RedisConfig
	JWT    JWTConfig
	GCP    GCPConfig
	PubSub PubSubConfig
	Import ImportConfig
	Outbox OutboxConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"VENDORA_APP_ENV" default:"development"`
	Port         string `envconfig:"VENDORA_APP_PORT" default:"8080"`
	LogLevel     string `envconfig:"VENDORA_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"VENDORA_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"VENDORA_DB_DSN" required:"true"`
	Driver string `envconfig:"VENDORA_DB_DRIVER" default:"postgres"`

	MaxOpenConns    int           `envconfig:"VENDORA_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"VENDORA_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"VENDORA_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"VENDORA_DB_CONN_MAX_IDLE_TIME" default:"10m"`

	AutoMigrate bool `envconfig:"VENDORA_DB_AUTO_MIGRATE" default:"false"`
}

type RedisConfig struct {
	URL          string        `envconfig:"VENDORA_REDIS_URL" required:"true"`
	DB           int           `envconfig:"VENDORA_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"VENDORA_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"VENDORA_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"VENDORA_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"VENDORA_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"VENDORA_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type JWTConfig struct {
	Secret string `envconfig:"VENDORA_JWT_SECRET" required:"true"`
	Issuer string `envconfig:"VENDORA_JWT_ISSUER" default:"vendora"`
}

type GCPConfig struct {
	ProjectID string `envconfig:"VENDORA_GCP_PROJECT_ID" required:"true"`
}

type PubSubConfig struct {
	ImportsTopic             string `envconfig:"VENDORA_PUBSUB_IMPORTS_TOPIC" default:"vendora-catalog-imports"`
	ImportsSubscription      string `envconfig:"VENDORA_PUBSUB_IMPORTS_SUBSCRIPTION" default:"vendora-catalog-imports-worker"`
	NotificationTopic        string `envconfig:"VENDORA_PUBSUB_NOTIFICATION_TOPIC" default:"vendora-notification-events"`
	NotificationSubscription string `envconfig:"VENDORA_PUBSUB_NOTIFICATION_SUBSCRIPTION" default:"vendora-notification-worker"`
}

// ImportConfig bounds the feed import pipeline.
type ImportConfig struct {
	FetchTimeout     time.Duration `envconfig:"VENDORA_IMPORT_FETCH_TIMEOUT" default:"30s"`
	MaxFeedBytes     int64         `envconfig:"VENDORA_IMPORT_MAX_FEED_BYTES" default:"10485760"`
	ShopLockTTL      time.Duration `envconfig:"VENDORA_IMPORT_SHOP_LOCK_TTL" default:"5m"`
	WorkerConcurrent int           `envconfig:"VENDORA_IMPORT_WORKER_CONCURRENCY" default:"4"`
}

type OutboxConfig struct {
	BatchSize      int `envconfig:"VENDORA_OUTBOX_PUBLISH_BATCH_SIZE" default:"50"`
	PollIntervalMS int `envconfig:"VENDORA_OUTBOX_PUBLISH_POLL_MS" default:"500"`
	MaxAttempts    int `envconfig:"VENDORA_OUTBOX_MAX_ATTEMPTS" default:"10"`
}
