package config

import (
	"crypto/rand"
	"encoding/hex"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

const DefaultGeminiModel = "gemini-2.5-flash"

type Config struct {
	RunAddress     string        `yaml:"run_address"`
	RemoteURL      string        `yaml:"orders_db_url"`
	RemoteKey      string        `yaml:"orders_db_key"`
	LocalPath      string        `yaml:"local_store_path"`
	GeminiAPIKey   string        `yaml:"gemini_api_key"`
	GeminiModel    string        `yaml:"gemini_model"`
	AMQPURL        string        `yaml:"amqp_url"`
	JWTSecret      string        `yaml:"jwt_secret"`
	PasswordHash   string        `yaml:"dashboard_password_hash"`
	ResyncInterval time.Duration `yaml:"resync_interval"`
	LogLevel       string        `yaml:"log_level"`
	LogFormat      string        `yaml:"log_format"`
}

func Default() *Config {
	return &Config{
		RunAddress:     "localhost:8080",
		LocalPath:      "./osboard.db",
		GeminiModel:    DefaultGeminiModel,
		ResyncInterval: time.Minute,
		LogLevel:       "info",
		LogFormat:      "text",
	}
}

// New parses command-line flags. Values come from, in increasing priority:
// defaults, the YAML file named by -c or CONFIG_PATH, flags, environment.
func New() (*Config, error) {
	return Parse(flag.CommandLine, os.Args[1:])
}

func Parse(fs *flag.FlagSet, args []string) (*Config, error) {
	cfg := Default()

	path := getEnv("CONFIG_PATH", configPathFromArgs(args))
	if path != "" {
		if err := cfg.LoadFile(path); err != nil {
			return nil, err
		}
	}

	fs.String("c", path, "path to YAML config file")
	fs.StringVar(&cfg.RunAddress, "a", cfg.RunAddress, "server address and port")
	fs.StringVar(&cfg.RemoteURL, "d", cfg.RemoteURL, "remote orders database URL")
	fs.StringVar(&cfg.RemoteKey, "k", cfg.RemoteKey, "remote orders database access key")
	fs.StringVar(&cfg.LocalPath, "l", cfg.LocalPath, "local fallback store file")
	fs.StringVar(&cfg.GeminiAPIKey, "g", cfg.GeminiAPIKey, "Gemini API key for reports")
	fs.StringVar(&cfg.GeminiModel, "m", cfg.GeminiModel, "Gemini model for reports")
	fs.StringVar(&cfg.AMQPURL, "q", cfg.AMQPURL, "AMQP URL for order events")
	fs.StringVar(&cfg.JWTSecret, "s", cfg.JWTSecret, "jwt signing key")
	fs.StringVar(&cfg.PasswordHash, "p", cfg.PasswordHash, "bcrypt hash of the dashboard password")
	fs.DurationVar(&cfg.ResyncInterval, "i", cfg.ResyncInterval, "store resync interval, 0 disables")
	if err := fs.Parse(args); err != nil {
		return nil, fmt.Errorf("parse flags: %w", err)
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) LoadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("decode config file: %w", err)
	}
	return nil
}

func (c *Config) applyEnv() error {
	c.RunAddress = getEnv("RUN_ADDRESS", c.RunAddress)
	c.RemoteURL = getEnv("ORDERS_DB_URL", c.RemoteURL)
	c.RemoteKey = getEnv("ORDERS_DB_KEY", c.RemoteKey)
	c.LocalPath = getEnv("LOCAL_STORE_PATH", c.LocalPath)
	c.GeminiAPIKey = getEnv("GEMINI_API_KEY", c.GeminiAPIKey)
	c.GeminiAPIKey = getEnv("API_KEY", c.GeminiAPIKey)
	c.GeminiModel = getEnv("GEMINI_MODEL", c.GeminiModel)
	c.AMQPURL = getEnv("AMQP_URL", c.AMQPURL)
	c.JWTSecret = getEnv("JWT_SECRET", c.JWTSecret)
	c.PasswordHash = getEnv("DASHBOARD_PASSWORD_HASH", c.PasswordHash)
	c.LogLevel = getEnv("LOG_LEVEL", c.LogLevel)
	c.LogFormat = getEnv("LOG_FORMAT", c.LogFormat)

	if v, ok := os.LookupEnv("RESYNC_INTERVAL"); ok {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("parse RESYNC_INTERVAL: %w", err)
		}
		c.ResyncInterval = d
	}
	return nil
}

// RemoteConfigured reports whether both the remote endpoint and its access
// key are present. Anything less selects the local fallback store.
func (c *Config) RemoteConfigured() bool {
	return c.RemoteURL != "" && c.RemoteKey != ""
}

func (c *Config) AuthEnabled() bool {
	return c.PasswordHash != ""
}

// EnsureJWTSecret fills an empty signing key with a random per-process one.
func (c *Config) EnsureJWTSecret() {
	if c.JWTSecret != "" {
		return
	}
	slog.Warn("JWT_SECRET not set, generating a per-process key; tokens will not survive a restart")
	c.JWTSecret = randomSecret()
}

func (c *Config) SlogLevel() slog.Level {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return slog.LevelInfo
	}
	return lvl
}

func configPathFromArgs(args []string) string {
	for i, a := range args {
		switch a {
		case "-c", "--c":
			if i+1 < len(args) {
				return args[i+1]
			}
		}
		for _, p := range []string{"-c=", "--c="} {
			if len(a) > len(p) && a[:len(p)] == p {
				return a[len(p):]
			}
		}
	}
	return ""
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func randomSecret() string {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return fmt.Sprintf("osboard-%d", time.Now().UnixNano())
	}
	return hex.EncodeToString(b)
}
