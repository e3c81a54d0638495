package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/SAP-F-2025/student-records/internal/models"
	"github.com/SAP-F-2025/student-records/internal/validator"
)

// Config holds all application configuration. Values are read once at
// startup and stay constant for the process lifetime.
type Config struct {
	Environment string
	LogLevel    slog.Level
	LogFormat   string // "text" or "json"

	Database DatabaseConfig
	Students StudentConfig

	// Directory export files are written to
	ExportDir string
}

// DatabaseConfig holds the embedded database settings.
type DatabaseConfig struct {
	// Path of the SQLite file, created on first run
	Path        string
	BusyTimeout time.Duration
	LogQueries  bool
}

// StudentConfig holds the validation and classification rules.
type StudentConfig struct {
	Departments   []string
	MinGPA        float64
	MaxGPA        float64
	PassThreshold float64
}

// Rules returns the subset consumed by the validator.
func (s StudentConfig) Rules() validator.StudentRules {
	return validator.StudentRules{
		Departments: s.Departments,
		MinGPA:      s.MinGPA,
		MaxGPA:      s.MaxGPA,
	}
}

// LoadConfig loads configuration from an optional .env file and the environment.
func LoadConfig() (*Config, error) {
	envFile := getEnv("ENV_FILE", ".env")
	if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load %s: %w", envFile, err)
	}

	cfg := &Config{
		Environment: getEnv("APP_ENV", "development"),
		LogLevel:    getEnvLevel("LOG_LEVEL", slog.LevelInfo),
		LogFormat:   strings.ToLower(getEnv("LOG_FORMAT", "text")),
		Database: DatabaseConfig{
			Path:        getEnv("DB_PATH", "students.db"),
			BusyTimeout: getEnvDuration("DB_BUSY_TIMEOUT", 5*time.Second),
			LogQueries:  getEnvBool("DB_LOG_QUERIES", false),
		},
		Students: StudentConfig{
			Departments:   getEnvStringSlice("STUDENT_DEPARTMENTS", models.DefaultDepartments),
			MinGPA:        getEnvFloat("GPA_MIN", 0.0),
			MaxGPA:        getEnvFloat("GPA_MAX", 4.0),
			PassThreshold: getEnvFloat("PASS_THRESHOLD", models.DefaultPassThreshold),
		},
		ExportDir: getEnv("EXPORT_DIR", "."),
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation: %w", err)
	}

	return cfg, nil
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	var errs []string

	if strings.TrimSpace(c.Database.Path) == "" {
		errs = append(errs, "DB_PATH is required")
	}

	if len(c.Students.Departments) == 0 {
		errs = append(errs, "STUDENT_DEPARTMENTS must list at least one department")
	}

	if c.Students.MinGPA > c.Students.MaxGPA {
		errs = append(errs, "GPA_MIN must not exceed GPA_MAX")
	}

	if c.Students.PassThreshold < c.Students.MinGPA || c.Students.PassThreshold > c.Students.MaxGPA {
		errs = append(errs, "PASS_THRESHOLD must lie within [GPA_MIN, GPA_MAX]")
	}

	if c.LogFormat != "text" && c.LogFormat != "json" {
		errs = append(errs, "LOG_FORMAT must be text or json")
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration errors:\n  - %s", strings.Join(errs, "\n  - "))
	}

	return nil
}

// IsProduction returns true if running in production mode.
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

// --- Helper functions for environment variable parsing ---

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func getEnvBool(key string, defaultVal bool) bool {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal
	}
	b, err := strconv.ParseBool(val)
	if err != nil {
		return defaultVal
	}
	return b
}

func getEnvFloat(key string, defaultVal float64) float64 {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal
	}
	f, err := strconv.ParseFloat(strings.TrimSpace(val), 64)
	if err != nil {
		return defaultVal
	}
	return f
}

func getEnvDuration(key string, defaultVal time.Duration) time.Duration {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal
	}
	d, err := time.ParseDuration(val)
	if err != nil {
		return defaultVal
	}
	return d
}

func getEnvLevel(key string, defaultVal slog.Level) slog.Level {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal
	}
	var level slog.Level
	if err := level.UnmarshalText([]byte(val)); err != nil {
		return defaultVal
	}
	return level
}

func getEnvStringSlice(key string, defaultVal []string) []string {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal
	}

	parts := strings.Split(val, ",")
	result := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		result = append(result, p)
	}
	return result
}
