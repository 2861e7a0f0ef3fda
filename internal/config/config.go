// Package config resolves gaji's settings from defaults, an optional
// .gaji.yaml, GAJI_* environment variables (including a local .env) and flags.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
	"golang.org/x/term"

	"github.com/faizmokh/gaji/internal/logging"
)

// Backends understood by Build.
const (
	BackendHTTP   = "http"
	BackendSQLite = "sqlite"
)

// Keys shared by flags, the config file and the environment.
const (
	KeyConfig   = "config"
	KeyAPIURL   = "api-url"
	KeyBackend  = "backend"
	KeyDBPath   = "db-path"
	KeyListen   = "listen"
	KeyLogLevel = "log-level"
	KeyColor    = "color"
)

const (
	DefaultAPIURL   = "http://localhost:8080"
	DefaultListen   = ":8080"
	DefaultLogLevel = "info"
	DefaultColor    = "auto"
)

// Config is the validated view of all settings.
type Config struct {
	APIURL   string `mapstructure:"api-url"`
	Backend  string `mapstructure:"backend"`
	DBPath   string `mapstructure:"db-path"`
	Listen   string `mapstructure:"listen"`
	LogLevel string `mapstructure:"log-level"`
	Color    string `mapstructure:"color"`
}

// LoadDotEnv reads a .env file from the working directory when present.
func LoadDotEnv(paths ...string) error {
	err := godotenv.Load(paths...)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("load .env: %w", err)
	}
	return nil
}

// NewViper returns a viper instance with gaji's defaults and environment
// binding. dbPath is the default SQLite location under the data directory.
func NewViper(dbPath string) *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix("GAJI")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	v.SetDefault(KeyAPIURL, DefaultAPIURL)
	v.SetDefault(KeyBackend, BackendHTTP)
	v.SetDefault(KeyDBPath, dbPath)
	v.SetDefault(KeyListen, DefaultListen)
	v.SetDefault(KeyLogLevel, DefaultLogLevel)
	v.SetDefault(KeyColor, DefaultColor)
	return v
}

// Load reads the optional config file and unmarshals every resolved value.
func Load(v *viper.Viper) (*Config, error) {
	if file := v.GetString(KeyConfig); file != "" {
		v.SetConfigFile(file)
	} else {
		v.SetConfigName(".gaji")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config file: %w", err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	cfg.Backend = strings.ToLower(strings.TrimSpace(cfg.Backend))
	cfg.Color = strings.ToLower(strings.TrimSpace(cfg.Color))
	return cfg, nil
}

// Validate reports every invalid setting at once.
func (c *Config) Validate() error {
	var problems []string

	switch c.Backend {
	case BackendHTTP:
		if u, err := url.Parse(c.APIURL); err != nil || u.Host == "" {
			problems = append(problems, fmt.Sprintf("invalid api-url '%s': must be an absolute URL", c.APIURL))
		} else if u.Scheme != "http" && u.Scheme != "https" {
			problems = append(problems, fmt.Sprintf("invalid api-url scheme '%s': must be 'http' or 'https'", u.Scheme))
		}
	case BackendSQLite:
		if strings.TrimSpace(c.DBPath) == "" {
			problems = append(problems, "db-path cannot be empty when using sqlite backend")
		}
	default:
		problems = append(problems, fmt.Sprintf("invalid backend '%s': must be one of [%s %s]", c.Backend, BackendHTTP, BackendSQLite))
	}

	if strings.TrimSpace(c.Listen) == "" {
		problems = append(problems, "listen address cannot be empty")
	}
	if !logging.ValidLevel(c.LogLevel) {
		problems = append(problems, fmt.Sprintf("invalid log-level '%s': must be debug, info, warn or error", c.LogLevel))
	}
	switch c.Color {
	case "auto", "yes", "no":
	default:
		problems = append(problems, fmt.Sprintf("invalid color '%s': must be auto, yes or no", c.Color))
	}

	if len(problems) > 0 {
		return fmt.Errorf("configuration validation failed:\n- %s", strings.Join(problems, "\n- "))
	}
	return nil
}

// UseColor decides whether table output to f is coloured.
func (c *Config) UseColor(f *os.File) bool {
	switch c.Color {
	case "yes":
		return true
	case "no":
		return false
	default:
		return f != nil && term.IsTerminal(int(f.Fd()))
	}
}
