// Package config loads application configuration from command-line flags,
// environment variables, a .env file and an optional YAML file.
package config

import (
	"bufio"
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds the application configuration.
type Config struct {
	App       AppConfig
	Logger    LoggerConfig
	Server    ServerConfig
	Data      DataConfig
	Cache     CacheConfig
	RateLimit RateLimitConfig
}

// AppConfig holds application-level configuration.
type AppConfig struct {
	Environment string
}

// LoggerConfig holds logging configuration.
type LoggerConfig struct {
	Level string
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Port           string        // default: 8080
	ReadTimeout    time.Duration // default: 15s
	WriteTimeout   time.Duration // default: 15s
	IdleTimeout    time.Duration // default: 60s
	AllowedOrigins []string      // CORS origins, default: *
}

// DataConfig describes where the bestseller dataset comes from.
type DataConfig struct {
	// CSVPath is the dataset file. A missing file triggers the synthetic fallback.
	CSVPath string
	// Watch reloads the dataset when CSVPath changes on disk.
	Watch bool
	// SettleDelay is how long the file must stay quiet before a reload.
	SettleDelay time.Duration
	// SyntheticSeed seeds the fallback generator.
	SyntheticSeed uint64
}

// CacheConfig holds report cache configuration.
type CacheConfig struct {
	// Path of the on-disk cache. Empty keeps the cache in memory.
	Path string
	TTL  time.Duration
}

// RateLimitConfig holds per-client request limits.
type RateLimitConfig struct {
	RPS   float64
	Burst int
}

// fileConfig mirrors the YAML config file. All values are optional strings
// so that they slot into the same precedence chain as env vars.
type fileConfig struct {
	Env      string `yaml:"env"`
	LogLevel string `yaml:"logLevel"`
	Server   struct {
		Port           string   `yaml:"port"`
		ReadTimeout    string   `yaml:"readTimeout"`
		WriteTimeout   string   `yaml:"writeTimeout"`
		IdleTimeout    string   `yaml:"idleTimeout"`
		AllowedOrigins []string `yaml:"allowedOrigins"`
	} `yaml:"server"`
	Data struct {
		CSVPath       string `yaml:"csvPath"`
		Watch         string `yaml:"watch"`
		SettleDelay   string `yaml:"settleDelay"`
		SyntheticSeed string `yaml:"syntheticSeed"`
	} `yaml:"data"`
	Cache struct {
		Path string `yaml:"path"`
		TTL  string `yaml:"ttl"`
	} `yaml:"cache"`
	RateLimit struct {
		RPS   string `yaml:"rps"`
		Burst string `yaml:"burst"`
	} `yaml:"rateLimit"`
}

// LoadConfig loads configuration with precedence:
// 1. Command-line flags (highest priority).
// 2. Environment variables.
// 3. .env file.
// 4. YAML config file (-config or CONFIG_FILE).
// 5. Default values (lowest priority).
func LoadConfig(args []string) (*Config, error) {
	fs := flag.NewFlagSet("bestsellers", flag.ContinueOnError)

	env := fs.String("env", "", "Environment (development, staging, production)")
	logLevel := fs.String("log-level", "", "Log level (debug, info, warn, error)")
	configFile := fs.String("config", "", "Path to YAML config file")
	envFile := fs.String("env-file", ".env", "Path to .env file")

	serverPort := fs.String("port", "", "Server port (default: 8080)")
	readTimeout := fs.String("read-timeout", "", "HTTP read timeout (default: 15s)")
	writeTimeout := fs.String("write-timeout", "", "HTTP write timeout (default: 15s)")
	idleTimeout := fs.String("idle-timeout", "", "HTTP idle timeout (default: 60s)")
	allowedOrigins := fs.String("allowed-origins", "", "Comma separated CORS origins (default: *)")

	csvPath := fs.String("csv", "", "Path to the bestsellers CSV (default: bestsellers.csv)")
	watch := fs.String("watch", "", "Reload the dataset when the CSV changes (default: true)")
	settleDelay := fs.String("settle-delay", "", "Quiet period before reloading a changed CSV (default: 500ms)")
	seed := fs.String("seed", "", "Seed for the synthetic fallback dataset (default: 42)")

	cachePath := fs.String("cache-path", "", "On-disk report cache directory (default: in-memory)")
	cacheTTL := fs.String("cache-ttl", "", "Report cache entry lifetime (default: 10m)")

	rateRPS := fs.String("rate-limit-rps", "", "Requests per second per client (default: 20)")
	rateBurst := fs.String("rate-limit-burst", "", "Burst size per client (default: 40)")

	if err := fs.Parse(args); err != nil {
		return nil, fmt.Errorf("parse flags: %w", err)
	}

	// Load .env file if it exists (silently ignore if not found).
	_ = loadEnvFile(*envFile)

	var file fileConfig
	if path := getConfigValue(*configFile, "CONFIG_FILE", ""); path != "" {
		loaded, err := loadFileConfig(path)
		if err != nil {
			return nil, err
		}
		file = *loaded
	}

	cfg := &Config{
		App: AppConfig{
			Environment: getConfigValue(*env, "ENV", orDefault(file.Env, "development")),
		},
		Logger: LoggerConfig{
			Level: getConfigValue(*logLevel, "LOG_LEVEL", orDefault(file.LogLevel, "info")),
		},
		Server: ServerConfig{
			Port:           getConfigValue(*serverPort, "SERVER_PORT", orDefault(file.Server.Port, "8080")),
			AllowedOrigins: splitList(getConfigValue(*allowedOrigins, "ALLOWED_ORIGINS", strings.Join(file.Server.AllowedOrigins, ","))),
		},
		Data: DataConfig{
			CSVPath: getConfigValue(*csvPath, "DATA_CSV_PATH", orDefault(file.Data.CSVPath, "bestsellers.csv")),
			Watch:   getBoolConfigValue(*watch, "DATA_WATCH", boolOrDefault(file.Data.Watch, true)),
		},
		Cache: CacheConfig{
			Path: getConfigValue(*cachePath, "CACHE_PATH", file.Cache.Path),
		},
	}

	if len(cfg.Server.AllowedOrigins) == 0 {
		cfg.Server.AllowedOrigins = []string{"*"}
	}

	durations := []struct {
		name   string
		flag   string
		envKey string
		file   string
		def    string
		target *time.Duration
	}{
		{"read timeout", *readTimeout, "SERVER_READ_TIMEOUT", file.Server.ReadTimeout, "15s", &cfg.Server.ReadTimeout},
		{"write timeout", *writeTimeout, "SERVER_WRITE_TIMEOUT", file.Server.WriteTimeout, "15s", &cfg.Server.WriteTimeout},
		{"idle timeout", *idleTimeout, "SERVER_IDLE_TIMEOUT", file.Server.IdleTimeout, "60s", &cfg.Server.IdleTimeout},
		{"settle delay", *settleDelay, "DATA_SETTLE_DELAY", file.Data.SettleDelay, "500ms", &cfg.Data.SettleDelay},
		{"cache ttl", *cacheTTL, "CACHE_TTL", file.Cache.TTL, "10m", &cfg.Cache.TTL},
	}
	for _, d := range durations {
		raw := getConfigValue(d.flag, d.envKey, orDefault(d.file, d.def))
		parsed, err := time.ParseDuration(raw)
		if err != nil {
			return nil, fmt.Errorf("invalid %s %q: %w", d.name, raw, err)
		}
		*d.target = parsed
	}

	seedStr := getConfigValue(*seed, "DATA_SYNTHETIC_SEED", orDefault(file.Data.SyntheticSeed, "42"))
	seedVal, err := strconv.ParseUint(seedStr, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid synthetic seed %q: %w", seedStr, err)
	}
	cfg.Data.SyntheticSeed = seedVal

	rpsStr := getConfigValue(*rateRPS, "RATE_LIMIT_RPS", orDefault(file.RateLimit.RPS, "20"))
	rps, err := strconv.ParseFloat(rpsStr, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid rate limit rps %q: %w", rpsStr, err)
	}
	cfg.RateLimit.RPS = rps

	burstStr := getConfigValue(*rateBurst, "RATE_LIMIT_BURST", orDefault(file.RateLimit.Burst, "40"))
	burst, err := strconv.Atoi(burstStr)
	if err != nil {
		return nil, fmt.Errorf("invalid rate limit burst %q: %w", burstStr, err)
	}
	cfg.RateLimit.Burst = burst

	if err := cfg.expandPaths(); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// Validate checks that all required config values are present and valid.
func (c *Config) Validate() error {
	validEnvs := map[string]bool{
		"development": true,
		"staging":     true,
		"production":  true,
	}
	if !validEnvs[c.App.Environment] {
		return fmt.Errorf("invalid environment: %q (must be development, staging, or production)", c.App.Environment)
	}

	validLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	if !validLevels[strings.ToLower(c.Logger.Level)] {
		return fmt.Errorf("invalid log level: %s (must be debug, info, warn, or error)", c.Logger.Level)
	}

	if c.Data.CSVPath == "" {
		return errors.New("data csv path cannot be empty")
	}

	if c.Data.SettleDelay < 0 {
		return errors.New("settle delay cannot be negative")
	}

	if c.Cache.TTL <= 0 {
		return errors.New("cache ttl must be positive")
	}

	if c.RateLimit.RPS <= 0 || c.RateLimit.Burst <= 0 {
		return errors.New("rate limit rps and burst must be positive")
	}

	return nil
}

// expandPaths expands ~ and makes configured paths absolute.
func (c *Config) expandPaths() error {
	csv, err := expandPath(c.Data.CSVPath)
	if err != nil {
		return fmt.Errorf("invalid csv path: %w", err)
	}
	c.Data.CSVPath = csv

	if c.Cache.Path != "" {
		cache, err := expandPath(c.Cache.Path)
		if err != nil {
			return fmt.Errorf("invalid cache path: %w", err)
		}
		c.Cache.Path = cache
	}
	return nil
}

func expandPath(path string) (string, error) {
	if path == "" {
		return "", nil
	}

	if strings.HasPrefix(path, "~/") {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to get home directory: %w", err)
		}
		path = filepath.Join(homeDir, path[2:])
	}

	if !filepath.IsAbs(path) {
		absPath, err := filepath.Abs(path)
		if err != nil {
			return "", fmt.Errorf("failed to get absolute path: %w", err)
		}
		path = absPath
	}

	return filepath.Clean(path), nil
}

func loadFileConfig(path string) (*fileConfig, error) {
	raw, err := os.ReadFile(path) //#nosec G304 -- config path is operator supplied
	if err != nil {
		return nil, fmt.Errorf("read config file %s: %w", path, err)
	}

	var cfg fileConfig
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return nil, fmt.Errorf("parse config file %s: %w", path, err)
	}
	return &cfg, nil
}

// getConfigValue returns the first non-empty value from flag, env var, or default.
func getConfigValue(flagValue, envKey, defaultValue string) string {
	if flagValue != "" {
		return flagValue
	}
	if envValue := os.Getenv(envKey); envValue != "" {
		return envValue
	}
	return defaultValue
}

// getBoolConfigValue returns a bool from flag, env var, or default.
// Accepts "true", "1", "yes" (case-insensitive) as true; anything else is false.
func getBoolConfigValue(flagValue, envKey string, defaultValue bool) bool {
	strValue := getConfigValue(flagValue, envKey, "")
	if strValue == "" {
		return defaultValue
	}
	return parseBool(strValue)
}

func parseBool(s string) bool {
	s = strings.ToLower(strings.TrimSpace(s))
	return s == "true" || s == "1" || s == "yes"
}

func boolOrDefault(s string, def bool) bool {
	if s == "" {
		return def
	}
	return parseBool(s)
}

func orDefault(value, def string) string {
	if value != "" {
		return value
	}
	return def
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// loadEnvFile loads environment variables from a .env file.
// Format: KEY=value (one per line, # for comments).
func loadEnvFile(path string) error {
	file, err := os.Open(path) //#nosec G304 -- .env path is operator supplied
	if err != nil {
		return err
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	lineNum := 0

	for scanner.Scan() {
		lineNum++
		line := strings.TrimSpace(scanner.Text())

		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		key, value, ok := strings.Cut(line, "=")
		if !ok {
			return fmt.Errorf("invalid format at line %d: %s", lineNum, line)
		}

		key = strings.TrimSpace(key)
		value = strings.Trim(strings.TrimSpace(value), `"'`)

		// Real environment variables win over .env entries.
		if os.Getenv(key) == "" {
			if err := os.Setenv(key, value); err != nil {
				return fmt.Errorf("failed to set env var %s: %w", key, err)
			}
		}
	}

	return scanner.Err()
}
