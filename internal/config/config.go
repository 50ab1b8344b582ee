// Package config loads settings for the client and the proxy from
// defaults, an optional YAML file, .env files and ICFES_* environment
// variables, in increasing order of precedence.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"

	"github.com/torredebabel/icfes/internal/api"
	"github.com/torredebabel/icfes/internal/quiz"
)

// EnvPrefix prefixes every environment variable, e.g. ICFES_API_BASE_URL.
const EnvPrefix = "ICFES"

// Config holds all settings.
type Config struct {
	API    api.Config
	Quiz   quiz.Config
	Server ServerConfig
	Log    LogConfig

	// DB is the SQLite path. Empty means store.DefaultDBPath.
	DB string

	// Token is a bearer token that takes precedence over the stored
	// login credential.
	Token string

	// Battery optionally replaces the built-in vocational battery.
	Battery string
}

// ServerConfig holds proxy settings.
type ServerConfig struct {
	Addr        string
	BackendURL  string        // Default: "http://localhost:8000/api"
	Timeout     time.Duration // Default: 15s
	CORSOrigins string        // Default: "*"
}

// LogConfig holds logger settings.
type LogConfig struct {
	Level  string // Default: "info"
	Format string // "text" or "json"
	File   string
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		API:  api.DefaultConfig(),
		Quiz: quiz.DefaultConfig(),
		Server: ServerConfig{
			Addr:        ":3000",
			BackendURL:  "http://localhost:8000/api",
			Timeout:     15 * time.Second,
			CORSOrigins: "*",
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

func setDefaults(v *viper.Viper, d Config) {
	v.SetDefault("api.base_url", d.API.BaseURL)
	v.SetDefault("api.timeout", d.API.Timeout)
	v.SetDefault("quiz.advance_delay", d.Quiz.AdvanceDelay)
	v.SetDefault("server.addr", d.Server.Addr)
	v.SetDefault("server.backend_url", d.Server.BackendURL)
	v.SetDefault("server.timeout", d.Server.Timeout)
	v.SetDefault("server.cors_origins", d.Server.CORSOrigins)
	v.SetDefault("log.level", d.Log.Level)
	v.SetDefault("log.format", d.Log.Format)
	v.SetDefault("log.file", d.Log.File)
	v.SetDefault("db", d.DB)
	v.SetDefault("token", d.Token)
	v.SetDefault("battery", d.Battery)
}

// Load builds a Config. path names a YAML file that must exist; when
// empty, config.yaml is looked up in the working directory and in the
// user config directory and skipped if absent. A .env file in the working
// directory is loaded first without overriding the real environment.
func Load(path string) (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return Config{}, fmt.Errorf("load .env: %w", err)
	}

	v := viper.New()
	setDefaults(v, DefaultConfig())
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config %s: %w", path, err)
		}
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if dir, err := os.UserConfigDir(); err == nil {
			v.AddConfigPath(filepath.Join(dir, "icfes"))
		}
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return Config{}, fmt.Errorf("read config: %w", err)
			}
		}
	}

	cfg := Config{
		API: api.Config{
			BaseURL: v.GetString("api.base_url"),
			Timeout: v.GetDuration("api.timeout"),
		},
		Quiz: quiz.Config{
			AdvanceDelay: v.GetDuration("quiz.advance_delay"),
		},
		Server: ServerConfig{
			Addr:        v.GetString("server.addr"),
			BackendURL:  v.GetString("server.backend_url"),
			Timeout:     v.GetDuration("server.timeout"),
			CORSOrigins: v.GetString("server.cors_origins"),
		},
		Log: LogConfig{
			Level:  v.GetString("log.level"),
			Format: v.GetString("log.format"),
			File:   v.GetString("log.file"),
		},
		DB:      v.GetString("db"),
		Token:   v.GetString("token"),
		Battery: v.GetString("battery"),
	}
	return cfg, nil
}

// Validate checks that the config is usable.
func (c Config) Validate() error {
	if err := c.API.Validate(); err != nil {
		return err
	}
	if err := c.Quiz.Validate(); err != nil {
		return err
	}
	if err := c.Server.Validate(); err != nil {
		return err
	}
	return c.Log.Validate()
}

// Validate checks the proxy settings.
func (c ServerConfig) Validate() error {
	if c.Addr == "" {
		return errors.New("server address is required")
	}
	if c.BackendURL == "" {
		return errors.New("server backend URL is required")
	}
	u, err := url.Parse(c.BackendURL)
	if err != nil {
		return fmt.Errorf("invalid backend URL %q: %w", c.BackendURL, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("invalid backend URL %q: scheme must be http or https", c.BackendURL)
	}
	if c.Timeout <= 0 {
		return fmt.Errorf("server timeout must be positive, got %s", c.Timeout)
	}
	return nil
}

// Validate checks the logger settings.
func (c LogConfig) Validate() error {
	if _, err := logrus.ParseLevel(c.Level); err != nil {
		return fmt.Errorf("invalid log level: %w", err)
	}
	switch c.Format {
	case "text", "json":
	default:
		return fmt.Errorf("unknown log format %q (want text or json)", c.Format)
	}
	return nil
}
