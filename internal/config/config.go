package config

import (
	"fmt"
	"log"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// AppConfig holds the resolved application configuration.
type AppConfig struct {
	AppEnv   string
	HTTPAddr string
	LogLevel slog.Level

	MongoDSN string
	MongoDB  string

	// HistorySamples caps how many records a history query returns.
	HistorySamples int

	ShutdownTimeout time.Duration
}

// fileConfig mirrors the optional YAML configuration file. Environment
// variables override anything set here.
type fileConfig struct {
	AppEnv   string `yaml:"app_env"`
	HTTPAddr string `yaml:"http_addr"`
	LogLevel string `yaml:"log_level"`
	Database struct {
		DSN      string `yaml:"dsn"`
		Database string `yaml:"database"`
	} `yaml:"database"`
	HistorySamples  int    `yaml:"history_samples"`
	ShutdownTimeout string `yaml:"shutdown_timeout"`
}

// Load reads configuration from the optional YAML file named by
// CONFIG_FILE (default config.yml) and the environment, with the
// environment taking precedence.
func Load() (*AppConfig, error) {
	if err := godotenv.Load(); err != nil {
		log.Printf("INFO: No .env file found or error loading it: %v", err)
	}

	file, err := loadFile(getenvDefault("CONFIG_FILE", "config.yml"))
	if err != nil {
		return nil, err
	}

	cfg := &AppConfig{}

	cfg.AppEnv = getenvDefault("APP_ENV", defaultString(file.AppEnv, "dev"))
	switch cfg.AppEnv {
	case "dev", "prod":
	default:
		return nil, fmt.Errorf("invalid APP_ENV %q (allowed: dev, prod)", cfg.AppEnv)
	}

	cfg.HTTPAddr = getenvDefault("HTTP_ADDR", defaultString(file.HTTPAddr, ":8080"))

	level, err := parseLogLevel(getenvDefault("LOG_LEVEL", defaultString(file.LogLevel, "info")))
	if err != nil {
		return nil, err
	}
	cfg.LogLevel = level

	cfg.MongoDSN = getenvDefault("MONGO_DSN", defaultString(file.Database.DSN, "mongodb://localhost:27017/"))
	if !strings.HasPrefix(cfg.MongoDSN, "mongodb://") && !strings.HasPrefix(cfg.MongoDSN, "mongodb+srv://") {
		return nil, fmt.Errorf("invalid MONGO_DSN %q: scheme must be mongodb:// or mongodb+srv://", cfg.MongoDSN)
	}
	cfg.MongoDB = getenvDefault("MONGO_DB", defaultString(file.Database.Database, "wind"))

	samplesDefault := "100"
	if file.HistorySamples > 0 {
		samplesDefault = strconv.Itoa(file.HistorySamples)
	}
	samplesStr := getenvDefault("HISTORY_SAMPLES", samplesDefault)
	samples, err := strconv.Atoi(samplesStr)
	if err != nil || samples <= 0 {
		return nil, fmt.Errorf("invalid HISTORY_SAMPLES %q: must be a positive integer", samplesStr)
	}
	cfg.HistorySamples = samples

	timeoutStr := getenvDefault("SHUTDOWN_TIMEOUT", defaultString(file.ShutdownTimeout, "10s"))
	timeout, err := time.ParseDuration(timeoutStr)
	if err != nil {
		return nil, fmt.Errorf("invalid SHUTDOWN_TIMEOUT %q: %w", timeoutStr, err)
	}
	cfg.ShutdownTimeout = timeout

	return cfg, nil
}

func loadFile(path string) (fileConfig, error) {
	var out fileConfig

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return out, nil
	}
	if err != nil {
		return out, fmt.Errorf("read config file %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &out); err != nil {
		return out, fmt.Errorf("parse config file %s: %w", path, err)
	}
	return out, nil
}

func parseLogLevel(s string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug, nil
	case "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("invalid LOG_LEVEL %q (allowed: debug, info, warn, error)", s)
	}
}

func getenvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func defaultString(v, def string) string {
	if v != "" {
		return v
	}
	return def
}
