package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

const EnvPrefix = "POS"

const (
	BackendRedis  = "redis"
	BackendMySQL  = "mysql"
	BackendSQLite = "sqlite"
	BackendMemory = "memory"
)

type Config struct {
	App     AppConfig
	HTTP    HTTPConfig
	GRPC    GRPCConfig
	Store   StoreConfig
	Redis   RedisConfig
	MySQL   MySQLConfig
	SQLite  SQLiteConfig
	Catalog CatalogConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.Store.validate(); err != nil {
		return nil, err
	}
	if _, err := cfg.App.Location(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"POS_APP_ENV" default:"dev"`
	LogLevel     string `envconfig:"POS_LOG_LEVEL" default:"info"`
	LogFormat    string `envconfig:"POS_LOG_FORMAT" default:"json"`
	LogWarnStack bool   `envconfig:"POS_LOG_WARN_STACK" default:"false"`
	Timezone     string `envconfig:"POS_TIMEZONE" default:"Local"`
}

// Location resolves the timezone used for sale dates and calendar periods.
func (a AppConfig) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(a.Timezone)
	if err != nil {
		return nil, fmt.Errorf("loading timezone %q: %w", a.Timezone, err)
	}
	return loc, nil
}

type HTTPConfig struct {
	Addr            string        `envconfig:"POS_HTTP_ADDR" default:":8080"`
	ShutdownTimeout time.Duration `envconfig:"POS_HTTP_SHUTDOWN_TIMEOUT" default:"5s"`
}

type GRPCConfig struct {
	Addr    string `envconfig:"POS_GRPC_ADDR" default:":50051"`
	Enabled bool   `envconfig:"POS_GRPC_ENABLED" default:"true"`
}

type StoreConfig struct {
	Backend      string        `envconfig:"POS_STORE_BACKEND" default:"sqlite"`
	Key          string        `envconfig:"POS_STORE_KEY" default:"pos:state"`
	WriteTimeout time.Duration `envconfig:"POS_STORE_WRITE_TIMEOUT" default:"5s"`
}

func (s *StoreConfig) validate() error {
	s.Backend = strings.ToLower(strings.TrimSpace(s.Backend))
	switch s.Backend {
	case BackendRedis, BackendMySQL, BackendSQLite, BackendMemory:
	default:
		return fmt.Errorf("unsupported store backend %q", s.Backend)
	}
	if strings.TrimSpace(s.Key) == "" {
		return fmt.Errorf("store key is required")
	}
	return nil
}

type RedisConfig struct {
	Addr         string        `envconfig:"POS_REDIS_ADDR" default:"localhost:6379"`
	Password     string        `envconfig:"POS_REDIS_PASSWORD"`
	DB           int           `envconfig:"POS_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"POS_REDIS_POOL_SIZE" default:"10"`
	DialTimeout  time.Duration `envconfig:"POS_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"POS_REDIS_READ_TIMEOUT" default:"3s"`
	WriteTimeout time.Duration `envconfig:"POS_REDIS_WRITE_TIMEOUT" default:"3s"`
}

type MySQLConfig struct {
	DSN             string        `envconfig:"POS_MYSQL_DSN" default:"root:root@tcp(localhost:3306)/posjournal?parseTime=true"`
	MaxOpenConns    int           `envconfig:"POS_MYSQL_MAX_OPEN_CONNS" default:"10"`
	MaxIdleConns    int           `envconfig:"POS_MYSQL_MAX_IDLE_CONNS" default:"5"`
	ConnMaxLifetime time.Duration `envconfig:"POS_MYSQL_CONN_MAX_LIFETIME" default:"5m"`
}

type SQLiteConfig struct {
	Path string `envconfig:"POS_SQLITE_PATH" default:"pos_journal.db"`
}

type CatalogConfig struct {
	// empty means the embedded default catalog
	Path string `envconfig:"POS_CATALOG_PATH"`
}
