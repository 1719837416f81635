package config

import (
	"os"
	"strings"
	"time"

	"github.com/iancoleman/strcase"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	"github.com/pkg/errors"
)

type Config struct {
	DatabaseBusyTimeout       time.Duration `koanf:"database_busy_timeout"`
	DatabaseConnectRetryCount int           `koanf:"database_connect_retry_count"`
	DatabaseConnectRetryDelay time.Duration `koanf:"database_connect_retry_delay"`
	DatabaseDebug             bool          `koanf:"database_debug"`
	DatabaseFilePath          string        `koanf:"database_file_path"`
	DatabaseMaxRetries        int           `koanf:"database_max_retries"`
	JWTSecret                 string        `koanf:"jwt_secret"`
	ServerHost                string        `koanf:"server_host"`
	ServerPort                int           `koanf:"server_port"`
}

// configKeys is the allowlist of environment variables that map onto config
// fields. Anything else in the environment is ignored.
var configKeys = []string{
	"DATABASE_BUSY_TIMEOUT",
	"DATABASE_CONNECT_RETRY_COUNT",
	"DATABASE_CONNECT_RETRY_DELAY",
	"DATABASE_DEBUG",
	"DATABASE_FILE_PATH",
	"DATABASE_MAX_RETRIES",
	"JWT_SECRET",
	"SERVER_HOST",
	"SERVER_PORT",
}

// New loads configuration with the following precedence: defaults, then the
// yaml file pointed at by CONFIG_FILE (if it exists), then environment
// variables.
func New() (*Config, error) {
	k := koanf.New(".")

	cfg := &Config{
		DatabaseBusyTimeout:       5 * time.Second,
		DatabaseConnectRetryCount: 5,
		DatabaseConnectRetryDelay: 2 * time.Second,
		DatabaseMaxRetries:        5,
		ServerHost:                "0.0.0.0",
		ServerPort:                8080,
	}

	configFile := os.Getenv("CONFIG_FILE")
	if configFile == "" {
		configFile = "./config.yaml"
	}
	if _, err := os.Stat(configFile); err == nil {
		if err := k.Load(file.Provider(configFile), yaml.Parser()); err != nil {
			return nil, errors.Wrap(err, "failed to load config file")
		}
	}

	err := k.Load(env.Provider("", ".", func(s string) string {
		for _, key := range configKeys {
			if s == key {
				return strings.ToLower(s)
			}
		}
		return ""
	}), nil)
	if err != nil {
		return nil, errors.Wrap(err, "failed to load environment")
	}

	if err := k.Unmarshal("", cfg); err != nil {
		return nil, errors.Wrap(err, "failed to unmarshal config")
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// NewForTest returns a config suitable for package tests: in-memory SQLite
// and a fixed JWT secret.
func NewForTest() *Config {
	return &Config{
		DatabaseBusyTimeout:       5 * time.Second,
		DatabaseConnectRetryCount: 1,
		DatabaseConnectRetryDelay: 10 * time.Millisecond,
		DatabaseFilePath:          ":memory:",
		DatabaseMaxRetries:        5,
		JWTSecret:                 "test-secret-key",
		ServerHost:                "127.0.0.1",
		ServerPort:                0,
	}
}

func (cfg *Config) validate() error {
	missing := []string{}
	if cfg.DatabaseFilePath == "" {
		missing = append(missing, "DatabaseFilePath")
	}
	if cfg.JWTSecret == "" {
		missing = append(missing, "JWTSecret")
	}
	if len(missing) == 0 {
		return nil
	}

	parts := make([]string, 0, len(missing))
	for _, field := range missing {
		snake := toSnakeCase(field)
		parts = append(parts, strings.ToUpper(snake)+" ("+snake+")")
	}
	return errors.Errorf("missing required config: %s", strings.Join(parts, ", "))
}

func toSnakeCase(s string) string {
	return strcase.ToSnake(s)
}
