package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
)

const (
	StoreMemory   = "memory"
	StoreSQLite   = "sqlite"
	StorePostgres = "postgres"

	CacheNone  = "none"
	CacheLocal = "local"
	CacheRedis = "redis"
)

type Config struct {
	Environment string `toml:"environment"`
	Host        string `toml:"host"`
	Port        int    `toml:"port"`
	MetricsPort int    `toml:"metrics_port"`
	// logging
	LogLevel      string `toml:"log_level"`
	LogsPath      string `toml:"logs_path"`
	LogToStdout   bool   `toml:"log_to_stdout"`
	LogFormatJSON bool   `toml:"log_format_json"`
	SentryEnabled bool   `toml:"sentry_enabled"`
	// storage
	StoreDriver         string `toml:"store_driver"`
	StoreTimeoutSeconds int    `toml:"store_timeout_seconds"`
	SQLitePath          string `toml:"sqlite_path"`
	PostgresHost        string `toml:"postgres_host"`
	PostgresPort        string `toml:"postgres_port"`
	PostgresDBName      string `toml:"postgres_db_name"`
	// redis, used by sessions, rate limiting and the stats cache
	RedisHost      string `toml:"redis_host"`
	RedisPort      string `toml:"redis_port"`
	StatsCache     string `toml:"stats_cache"`
	StatsCacheSize int    `toml:"stats_cache_size"`
	// tracker
	Timezone             string   `toml:"timezone"`
	AllowedOrigins       []string `toml:"allowed_origins"`
	LoginRateLimit       int      `toml:"login_rate_limit"`
	NotificationsEnabled bool     `toml:"notifications_enabled"`
	TelegramChatID       int64    `toml:"telegram_chat_id"`
	DriveBackupFolderID  string   `toml:"drive_backup_folder_id"`
}

type Toml struct {
	Development *Config
	Production  *Config
}

func (t *Toml) Get(env string) (*Config, error) {
	switch strings.ToLower(env) {
	case "dev", "development":
		return t.Development, nil
	case "prod", "production":
		return t.Production, nil
	default:
		return nil, fmt.Errorf("unknown env: %s", env)
	}
}

// Load reads the TOML file at path and returns the section for env,
// with defaults applied to the fields left empty.
func Load(env, path string) (*Config, error) {
	var t Toml
	if _, err := toml.DecodeFile(path, &t); err != nil {
		return nil, fmt.Errorf("decode config [%s]: %w", path, err)
	}

	cfg, err := t.Get(env)
	if err != nil {
		return nil, err
	}
	if cfg == nil {
		return nil, fmt.Errorf("config section for env [%s] missing", env)
	}

	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Host == "" {
		c.Host = "localhost"
	}
	if c.Port == 0 {
		c.Port = 9000
	}
	if c.MetricsPort == 0 {
		c.MetricsPort = 2112
	}
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
	if c.StoreDriver == "" {
		c.StoreDriver = StoreSQLite
	}
	if c.StoreTimeoutSeconds == 0 {
		c.StoreTimeoutSeconds = 5
	}
	if c.SQLitePath == "" {
		c.SQLitePath = "calisthenics.db"
	}
	if c.StatsCache == "" {
		c.StatsCache = CacheLocal
	}
	if c.StatsCacheSize == 0 {
		c.StatsCacheSize = 512 * 1024
	}
	if c.Timezone == "" {
		c.Timezone = "Local"
	}
	if c.LoginRateLimit == 0 {
		c.LoginRateLimit = 10
	}
}

func (c *Config) Validate() error {
	switch c.StoreDriver {
	case StoreMemory, StoreSQLite, StorePostgres:
	default:
		return fmt.Errorf("unknown store driver: %s", c.StoreDriver)
	}
	switch c.StatsCache {
	case CacheNone, CacheLocal, CacheRedis:
	default:
		return fmt.Errorf("unknown stats cache: %s", c.StatsCache)
	}
	if c.StoreDriver == StorePostgres && (c.PostgresHost == "" || c.PostgresDBName == "") {
		return errors.New("postgres store needs postgres_host and postgres_db_name")
	}
	if _, err := time.LoadLocation(c.Timezone); err != nil {
		return fmt.Errorf("timezone [%s]: %w", c.Timezone, err)
	}
	return nil
}

func (c *Config) StoreTimeout() time.Duration {
	return time.Duration(c.StoreTimeoutSeconds) * time.Second
}

// Location is the timezone calendar days are counted in.
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.Local
	}
	return loc
}
