package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

// Config is the root configuration shared by every binary.
type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Database DatabaseConfig `yaml:"database"`
	Redis    RedisConfig    `yaml:"redis"`
	Kafka    KafkaConfig    `yaml:"kafka"`
	Remote   RemoteConfig   `yaml:"remote"`
	Instance InstanceConfig `yaml:"instance"`
	Log      LogConfig      `yaml:"log"`
}

type ServerConfig struct {
	Port            int           `yaml:"port"             env:"SERVER_PORT"             env-default:"8888"`
	ReadTimeout     time.Duration `yaml:"read_timeout"     env:"SERVER_READ_TIMEOUT"     env-default:"10s"`
	WriteTimeout    time.Duration `yaml:"write_timeout"    env:"SERVER_WRITE_TIMEOUT"    env-default:"10s"`
	IdleTimeout     time.Duration `yaml:"idle_timeout"     env:"SERVER_IDLE_TIMEOUT"     env-default:"120s"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" env:"SERVER_SHUTDOWN_TIMEOUT" env-default:"5s"`
}

type DatabaseConfig struct {
	ReadHost       string `yaml:"read_host"        env:"DB_READ_HOST"`
	WriteHost      string `yaml:"write_host"       env:"DB_WRITE_HOST"`
	ReadPort       string `yaml:"read_port"        env:"DB_READ_PORT"             env-default:"5432"`
	WritePort      string `yaml:"write_port"       env:"DB_WRITE_PORT"            env-default:"5432"`
	Name           string `yaml:"name"             env:"DB_NAME"`
	User           string `yaml:"user"             env:"DB_USER"`
	Password       string `yaml:"password"         env:"DB_PASSWORD"`
	MaxConnections int    `yaml:"max_connections"  env:"DB_MAX_POOL_CONNECTIONS"  env-default:"25"`
	MigrateOnStart bool   `yaml:"migrate_on_start" env:"DB_MIGRATE_ON_START"      env-default:"false"`
}

type RedisConfig struct {
	Hosts    string        `yaml:"hosts"     env:"REDIS_HOSTS"`
	PoolSize int           `yaml:"pool_size" env:"REDIS_POOL_SIZE"   env-default:"50"`
	TTL      time.Duration `yaml:"ttl"       env:"REDIS_DEFAULT_TTL" env-default:"120s"`
}

// Enabled is false when no hosts are configured; the entity cache is then bypassed.
func (c RedisConfig) Enabled() bool {
	return strings.TrimSpace(c.Hosts) != ""
}

type KafkaConfig struct {
	Brokers   string `yaml:"brokers"    env:"KAFKA_BROKERS"`
	GroupID   string `yaml:"group_id"   env:"KAFKA_ENTITY_CHANGES_CONSUMER_GROUP_ID" env-default:"mastodon-bridge-entity-changes"`
	Topic     string `yaml:"topic"      env:"KAFKA_ENTITY_CHANGES_TOPIC"             env-default:"entity-changes"`
	BatchSize int    `yaml:"batch_size" env:"KAFKA_BATCH_SIZE"                       env-default:"100"`
}

type RemoteConfig struct {
	Enabled   bool          `yaml:"enabled"    env:"REMOTE_FETCH_ENABLED"    env-default:"true"`
	Timeout   time.Duration `yaml:"timeout"    env:"REMOTE_FETCH_TIMEOUT"    env-default:"10s"`
	UserAgent string        `yaml:"user_agent" env:"REMOTE_FETCH_USER_AGENT" env-default:"mastodon-bridge/1.0"`
}

// InstanceConfig is reported as the "application" of every translated status.
type InstanceConfig struct {
	ApplicationName    string `yaml:"application_name"    env:"INSTANCE_APPLICATION_NAME"    env-default:"Kroeg"`
	ApplicationWebsite string `yaml:"application_website" env:"INSTANCE_APPLICATION_WEBSITE" env-default:"https://puckipedia.com/kroeg"`
}

type LogConfig struct {
	Level string `yaml:"level" env:"LOG_LEVEL" env-default:"info"`
}

// SlogLevel maps the configured level name; unknown names fall back to info.
func (c LogConfig) SlogLevel() slog.Level {
	switch strings.ToLower(c.Level) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// Load reads configuration from the YAML file at CONFIG_PATH (when set) and
// environment variables. Priority: ENV > YAML > defaults.
func Load() (*Config, error) {
	var cfg Config

	if path := os.Getenv("CONFIG_PATH"); path != "" {
		if err := cleanenv.ReadConfig(path, &cfg); err != nil {
			return nil, fmt.Errorf("config: read %s: %w", path, err)
		}
	} else if err := cleanenv.ReadEnv(&cfg); err != nil {
		return nil, fmt.Errorf("config: read env: %w", err)
	}

	return &cfg, nil
}

// ValidateDatabase checks the settings every postgres-backed binary needs.
func (c *Config) ValidateDatabase() error {
	var errs []error

	if c.Database.WriteHost == "" {
		errs = append(errs, errors.New("DB_WRITE_HOST can't be empty"))
	}
	if c.Database.Name == "" {
		errs = append(errs, errors.New("DB_NAME can't be empty"))
	}
	if c.Database.User == "" {
		errs = append(errs, errors.New("DB_USER can't be empty"))
	}
	if c.Database.MaxConnections <= 0 {
		errs = append(errs, errors.New("DB_MAX_POOL_CONNECTIONS must be positive"))
	}

	return errors.Join(errs...)
}

// ValidateKafka checks the settings the stream consumer needs.
func (c *Config) ValidateKafka() error {
	var errs []error

	if c.Kafka.Brokers == "" {
		errs = append(errs, errors.New("KAFKA_BROKERS can't be empty"))
	}
	if c.Kafka.Topic == "" {
		errs = append(errs, errors.New("KAFKA_ENTITY_CHANGES_TOPIC can't be empty"))
	}
	if c.Kafka.BatchSize <= 0 {
		errs = append(errs, errors.New("KAFKA_BATCH_SIZE must be positive"))
	}

	return errors.Join(errs...)
}

// ReadHostOrWrite returns the replica host, or the primary when no replica is configured.
func (c DatabaseConfig) ReadHostOrWrite() string {
	if c.ReadHost == "" {
		return c.WriteHost
	}
	return c.ReadHost
}
