package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v2"
)

// DefaultFile is read when CONFIG_FILE is not set. A missing file is not an error.
const DefaultFile = "config/development.yaml"

type Config struct {
	Server   ServerConfig   `yaml:"server"`
	LLM      LLMConfig      `yaml:"llm"`
	CORS     CORSConfig     `yaml:"cors"`
	Database DatabaseConfig `yaml:"database"`
	Auth     AuthConfig     `yaml:"auth"`
}

type ServerConfig struct {
	Port            string        `yaml:"port"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
}

type LLMConfig struct {
	APIKey      string        `yaml:"api_key"`
	BaseURL     string        `yaml:"base_url"`
	Model       string        `yaml:"model"`
	Temperature float64       `yaml:"temperature"`
	MaxTokens   int           `yaml:"max_tokens"`
	Timeout     time.Duration `yaml:"timeout"`
}

type CORSConfig struct {
	AllowedOrigins []string `yaml:"allowed_origins"`
}

// DatabaseConfig holds the Postgres connection used for generation history.
type DatabaseConfig struct {
	Enabled  bool   `yaml:"enabled"`
	Host     string `yaml:"host"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	DBName   string `yaml:"dbname"`
	Port     string `yaml:"port"`
	SSLMode  string `yaml:"sslmode"`
}

// DSN renders the connection string in PostgreSQL key=value form.
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=%s",
		d.Host, d.User, d.Password, d.DBName, d.Port, d.SSLMode)
}

type AuthConfig struct {
	APIKey    string `yaml:"api_key"`
	JWTSecret string `yaml:"jwt_secret"`
}

func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Port:            "8080",
			ShutdownTimeout: 10 * time.Second,
		},
		LLM: LLMConfig{
			BaseURL:     "https://api.groq.com/openai/v1",
			Model:       "llama-3.1-8b-instant",
			Temperature: 0.2,
			Timeout:     60 * time.Second,
		},
		CORS: CORSConfig{
			AllowedOrigins: []string{"http://localhost:5173"},
		},
		Database: DatabaseConfig{
			Host:    "localhost",
			User:    "postgres",
			DBName:  "recipes",
			Port:    "5432",
			SSLMode: "disable",
		},
	}
}

// Load starts from Default, overlays the YAML file at path (if it exists) and
// then environment variables.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case errors.Is(err, os.ErrNotExist):
			// defaults + env only
		case err != nil:
			return nil, fmt.Errorf("read config %s: %w", path, err)
		default:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("parse config %s: %w", path, err)
			}
		}
	}

	if err := applyEnv(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// GetEnv returns the value of key, or fallback when it is unset or empty.
func GetEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		return value
	}
	return fallback
}

func applyEnv(cfg *Config) error {
	cfg.Server.Port = GetEnv("PORT", cfg.Server.Port)

	cfg.LLM.APIKey = GetEnv("LLM_API_KEY", cfg.LLM.APIKey)
	cfg.LLM.APIKey = GetEnv("GROQ_API_KEY", cfg.LLM.APIKey)
	cfg.LLM.BaseURL = GetEnv("LLM_BASE_URL", cfg.LLM.BaseURL)
	cfg.LLM.Model = GetEnv("LLM_MODEL", cfg.LLM.Model)

	if v := GetEnv("LLM_TEMPERATURE", ""); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("LLM_TEMPERATURE: %w", err)
		}
		cfg.LLM.Temperature = f
	}
	if v := GetEnv("LLM_MAX_TOKENS", ""); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("LLM_MAX_TOKENS: %w", err)
		}
		cfg.LLM.MaxTokens = n
	}
	if v := GetEnv("LLM_TIMEOUT", ""); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("LLM_TIMEOUT: %w", err)
		}
		cfg.LLM.Timeout = d
	}

	if v := GetEnv("CORS_ALLOWED_ORIGINS", ""); v != "" {
		var origins []string
		for _, o := range strings.Split(v, ",") {
			if o = strings.TrimSpace(o); o != "" {
				origins = append(origins, o)
			}
		}
		cfg.CORS.AllowedOrigins = origins
	}

	if v := GetEnv("HISTORY_ENABLED", ""); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("HISTORY_ENABLED: %w", err)
		}
		cfg.Database.Enabled = b
	}
	cfg.Database.Host = GetEnv("DB_HOST", cfg.Database.Host)
	cfg.Database.User = GetEnv("DB_USER", cfg.Database.User)
	cfg.Database.Password = GetEnv("DB_PASSWORD", cfg.Database.Password)
	cfg.Database.DBName = GetEnv("DB_NAME", cfg.Database.DBName)
	cfg.Database.Port = GetEnv("DB_PORT", cfg.Database.Port)
	cfg.Database.SSLMode = GetEnv("DB_SSLMODE", cfg.Database.SSLMode)

	cfg.Auth.APIKey = GetEnv("API_KEY", cfg.Auth.APIKey)
	cfg.Auth.JWTSecret = GetEnv("JWT_SECRET", cfg.Auth.JWTSecret)
	return nil
}
