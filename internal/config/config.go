package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Server  ServerConfig  `yaml:"server"`
	Log     LogConfig     `yaml:"log"`
	Storage StorageConfig `yaml:"storage"`
	Weather WeatherConfig `yaml:"weather"`
	LLM     LLMConfig     `yaml:"llm"`
}

type ServerConfig struct {
	Port string `yaml:"port"`
}

type LogConfig struct {
	Level      string `yaml:"level"`
	File       string `yaml:"file"`
	MaxSizeMB  int    `yaml:"max_size_mb"`
	MaxBackups int    `yaml:"max_backups"`
	MaxAgeDays int    `yaml:"max_age_days"`
}

type StorageConfig struct {
	Backend      string `yaml:"backend"` // memory, file, sqlite, redis, firestore
	Path         string `yaml:"path"`    // file and sqlite backends
	RedisURL     string `yaml:"redis_url"`
	GCPProjectID string `yaml:"gcp_project"`
	KeyPrefix    string `yaml:"key_prefix"`
}

type WeatherConfig struct {
	URL      string        `yaml:"url"`
	ThreadID string        `yaml:"thread_id"`
	Timeout  time.Duration `yaml:"timeout"`
	CacheTTL time.Duration `yaml:"cache_ttl"`
}

type LLMConfig struct {
	Backend      string        `yaml:"backend"` // rest, genai, mock
	APIKey       string        `yaml:"api_key"`
	Model        string        `yaml:"model"`
	BaseURL      string        `yaml:"base_url"`
	GCPProjectID string        `yaml:"gcp_project"`
	GCPLocation  string        `yaml:"gcp_location"`
	Timeout      time.Duration `yaml:"timeout"`
}

const (
	DefaultWeatherURL = "https://millions-screeching-vultur.mastra.cloud/api/agents/weatherAgent/stream"
	DefaultGeminiURL  = "https://generativelanguage.googleapis.com"
)

// Default returns the configuration used when nothing is overridden.
func Default() *Config {
	return &Config{
		Server: ServerConfig{Port: "8080"},
		Log: LogConfig{
			Level:      "info",
			MaxSizeMB:  10,
			MaxBackups: 5,
			MaxAgeDays: 30,
		},
		Storage: StorageConfig{
			Backend:   "file",
			Path:      "weatherchat.json",
			RedisURL:  "redis://localhost:6379",
			KeyPrefix: "weatherchat:",
		},
		Weather: WeatherConfig{
			URL:      DefaultWeatherURL,
			ThreadID: "22-AI&DSB14-26",
			Timeout:  20 * time.Second,
		},
		LLM: LLMConfig{
			Backend:     "rest",
			Model:       "gemini-2.5-flash",
			BaseURL:     DefaultGeminiURL,
			GCPLocation: "us-central1",
			Timeout:     20 * time.Second,
		},
	}
}

// Load builds the config from defaults, an optional .env file, an optional
// YAML file and finally WEATHERCHAT_* environment variables.
func Load(path string) (*Config, error) {
	// A missing .env is the normal case outside local development.
	_ = godotenv.Load()

	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config %s: %w", path, err)
		}
	}

	applyEnv(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func applyEnv(cfg *Config) {
	cfg.Server.Port = getEnv("WEATHERCHAT_PORT", getEnv("PORT", cfg.Server.Port))

	cfg.Log.Level = getEnv("WEATHERCHAT_LOG_LEVEL", cfg.Log.Level)
	cfg.Log.File = getEnv("WEATHERCHAT_LOG_FILE", cfg.Log.File)
	cfg.Log.MaxSizeMB = getIntEnv("WEATHERCHAT_LOG_MAX_SIZE_MB", cfg.Log.MaxSizeMB)
	cfg.Log.MaxBackups = getIntEnv("WEATHERCHAT_LOG_MAX_BACKUPS", cfg.Log.MaxBackups)
	cfg.Log.MaxAgeDays = getIntEnv("WEATHERCHAT_LOG_MAX_AGE_DAYS", cfg.Log.MaxAgeDays)

	cfg.Storage.Backend = getEnv("WEATHERCHAT_STORAGE_BACKEND", cfg.Storage.Backend)
	cfg.Storage.Path = getEnv("WEATHERCHAT_STORAGE_PATH", cfg.Storage.Path)
	cfg.Storage.RedisURL = getEnv("WEATHERCHAT_REDIS_URL", cfg.Storage.RedisURL)
	cfg.Storage.GCPProjectID = getEnv("WEATHERCHAT_GCP_PROJECT", cfg.Storage.GCPProjectID)
	cfg.Storage.KeyPrefix = getEnv("WEATHERCHAT_KEY_PREFIX", cfg.Storage.KeyPrefix)

	cfg.Weather.URL = getEnv("WEATHERCHAT_WEATHER_URL", cfg.Weather.URL)
	cfg.Weather.ThreadID = getEnv("WEATHERCHAT_WEATHER_THREAD_ID", cfg.Weather.ThreadID)
	cfg.Weather.Timeout = getDurationEnv("WEATHERCHAT_WEATHER_TIMEOUT", cfg.Weather.Timeout)
	cfg.Weather.CacheTTL = getDurationEnv("WEATHERCHAT_WEATHER_CACHE_TTL", cfg.Weather.CacheTTL)

	cfg.LLM.Backend = getEnv("WEATHERCHAT_LLM_BACKEND", cfg.LLM.Backend)
	if getBoolEnv("WEATHERCHAT_USE_MOCK_LLM", false) {
		cfg.LLM.Backend = "mock"
	}
	cfg.LLM.APIKey = getEnv("WEATHERCHAT_GEMINI_API_KEY", getEnv("GEMINI_API_KEY", cfg.LLM.APIKey))
	cfg.LLM.Model = getEnv("WEATHERCHAT_MODEL_NAME", cfg.LLM.Model)
	cfg.LLM.BaseURL = getEnv("WEATHERCHAT_GEMINI_URL", cfg.LLM.BaseURL)
	cfg.LLM.GCPProjectID = getEnv("WEATHERCHAT_LLM_GCP_PROJECT", cfg.LLM.GCPProjectID)
	cfg.LLM.GCPLocation = getEnv("WEATHERCHAT_GCP_LOCATION", cfg.LLM.GCPLocation)
	cfg.LLM.Timeout = getDurationEnv("WEATHERCHAT_LLM_TIMEOUT", cfg.LLM.Timeout)
}

// Validate rejects backends nothing knows how to build.
func (c *Config) Validate() error {
	switch c.Storage.Backend {
	case "memory", "file", "sqlite", "redis":
	case "firestore":
		if c.Storage.GCPProjectID == "" {
			return fmt.Errorf("storage backend firestore requires WEATHERCHAT_GCP_PROJECT")
		}
	default:
		return fmt.Errorf("unknown storage backend %q", c.Storage.Backend)
	}

	switch c.LLM.Backend {
	case "rest", "genai", "mock":
	default:
		return fmt.Errorf("unknown llm backend %q", c.LLM.Backend)
	}

	if c.Weather.Timeout <= 0 || c.LLM.Timeout <= 0 {
		return fmt.Errorf("timeouts must be positive")
	}
	return nil
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getBoolEnv(key string, def bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	if v == "1" || v == "true" || v == "TRUE" {
		return true
	}
	return false
}

func getIntEnv(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

// getDurationEnv accepts Go durations ("15s") or plain milliseconds.
func getDurationEnv(key string, def time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	if d, err := time.ParseDuration(v); err == nil {
		return d
	}
	if ms, err := strconv.Atoi(v); err == nil {
		return time.Duration(ms) * time.Millisecond
	}
	return def
}
