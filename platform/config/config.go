// Package config provides application configuration loading.
// This is part of the platform layer and contains no business logic.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// =============================================================================
// Module-Specific Config Interfaces (Principle of Least Privilege)
// =============================================================================

// DatabaseConfig provides database connection settings.
type DatabaseConfig interface {
	GetDatabaseURL() string
}

// HTTPConfig provides settings for the HTTP server.
type HTTPConfig interface {
	GetHTTPAddr() string
	GetCORSAllowAll() bool
	GetCORSOrigins() []string
}

// LLMConfig provides settings for the external chat model used by screening.
type LLMConfig interface {
	GetLLMBaseURL() string
	GetLLMModel() string
	GetLLMTimeout() time.Duration
}

// ScreeningPoolConfig provides the worker pool shape for async screening.
type ScreeningPoolConfig interface {
	GetScreeningPoolCore() int
	GetScreeningPoolMax() int
	GetScreeningPoolQueue() int
}

// UploadConfig provides settings for resume blob storage.
type UploadConfig interface {
	GetResumeUploadDir() string
	GetMaxResumeSize() int64
}

// MinIOConfig provides settings for the optional S3-compatible resume backend.
type MinIOConfig interface {
	GetMinIOEndpoint() string
	GetMinIOAccessKey() string
	GetMinIOSecretKey() string
	GetMinIOUseSSL() bool
	GetMinIOResumeBucket() string
	IsMinIOEnabled() bool
}

// =============================================================================
// Config
// =============================================================================

// Config holds all application configuration loaded from the environment.
type Config struct {
	Env      string
	HTTPAddr string

	DatabaseURL string

	CORSAllowAll bool
	CORSOrigins  []string

	LLMBaseURL string
	LLMModel   string
	LLMTimeout time.Duration

	ScreeningPoolCore  int
	ScreeningPoolMax   int
	ScreeningPoolQueue int

	ResumeUploadDir string
	MaxResumeSize   int64

	MinIOEndpoint     string
	MinIOAccessKey    string
	MinIOSecretKey    string
	MinIOUseSSL       bool
	MinIOResumeBucket string
}

// Load reads configuration from the environment, with .env support for
// local development. It validates required settings and applies defaults.
func Load() (*Config, error) {
	// .env is optional; real environment variables take precedence
	_ = godotenv.Load()

	cfg := &Config{
		Env:      getEnv("ENV", "development"),
		HTTPAddr: ":" + getEnv("PORT", "8080"),

		DatabaseURL: getEnv("DATABASE_URL", ""),

		CORSAllowAll: strings.EqualFold(getEnv("CORS_ALLOW_ALL", "false"), "true"),
		CORSOrigins:  splitList(getEnv("CORS_ORIGINS", "")),

		LLMBaseURL: getEnv("OLLAMA_BASE_URL", "http://localhost:11434"),
		LLMModel:   getEnv("OLLAMA_MODEL", "llama2"),
		LLMTimeout: getDurationEnv("LLM_TIMEOUT", 90*time.Second),

		ScreeningPoolCore:  getIntEnv("SCREENING_POOL_CORE", 2),
		ScreeningPoolMax:   getIntEnv("SCREENING_POOL_MAX", 5),
		ScreeningPoolQueue: getIntEnv("SCREENING_POOL_QUEUE", 100),

		ResumeUploadDir: getEnv("RESUME_UPLOAD_DIR", "uploads/resumes"),
		MaxResumeSize:   getInt64Env("MAX_RESUME_SIZE_BYTES", 10<<20),

		MinIOEndpoint:     getEnv("MINIO_ENDPOINT", ""),
		MinIOAccessKey:    getEnv("MINIO_ACCESS_KEY", ""),
		MinIOSecretKey:    getEnv("MINIO_SECRET_KEY", ""),
		MinIOUseSSL:       strings.EqualFold(getEnv("MINIO_USE_SSL", "false"), "true"),
		MinIOResumeBucket: getEnv("MINIO_BUCKET_RESUMES", "candidate-resumes"),
	}

	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is required")
	}
	if cfg.ScreeningPoolCore < 1 {
		return nil, fmt.Errorf("SCREENING_POOL_CORE must be at least 1")
	}
	if cfg.ScreeningPoolMax < cfg.ScreeningPoolCore {
		return nil, fmt.Errorf("SCREENING_POOL_MAX must be >= SCREENING_POOL_CORE")
	}
	if cfg.ScreeningPoolQueue < 1 {
		return nil, fmt.Errorf("SCREENING_POOL_QUEUE must be at least 1")
	}

	return cfg, nil
}

// =============================================================================
// Interface implementations
// =============================================================================

func (c *Config) GetDatabaseURL() string { return c.DatabaseURL }

func (c *Config) GetHTTPAddr() string      { return c.HTTPAddr }
func (c *Config) GetCORSAllowAll() bool    { return c.CORSAllowAll }
func (c *Config) GetCORSOrigins() []string { return c.CORSOrigins }

func (c *Config) GetLLMBaseURL() string        { return c.LLMBaseURL }
func (c *Config) GetLLMModel() string          { return c.LLMModel }
func (c *Config) GetLLMTimeout() time.Duration { return c.LLMTimeout }

func (c *Config) GetScreeningPoolCore() int  { return c.ScreeningPoolCore }
func (c *Config) GetScreeningPoolMax() int   { return c.ScreeningPoolMax }
func (c *Config) GetScreeningPoolQueue() int { return c.ScreeningPoolQueue }

func (c *Config) GetResumeUploadDir() string { return c.ResumeUploadDir }
func (c *Config) GetMaxResumeSize() int64    { return c.MaxResumeSize }

func (c *Config) GetMinIOEndpoint() string     { return c.MinIOEndpoint }
func (c *Config) GetMinIOAccessKey() string    { return c.MinIOAccessKey }
func (c *Config) GetMinIOSecretKey() string    { return c.MinIOSecretKey }
func (c *Config) GetMinIOUseSSL() bool         { return c.MinIOUseSSL }
func (c *Config) GetMinIOResumeBucket() string { return c.MinIOResumeBucket }
func (c *Config) IsMinIOEnabled() bool {
	return c.MinIOEndpoint != "" && c.MinIOAccessKey != "" && c.MinIOSecretKey != ""
}

// =============================================================================
// Helpers
// =============================================================================

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getIntEnv(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func getInt64Env(key string, fallback int64) int64 {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			return n
		}
	}
	return fallback
}

func getDurationEnv(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}

func splitList(v string) []string {
	if strings.TrimSpace(v) == "" {
		return nil
	}
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
