package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/carnance/crm-sync-backend/internal/entity"
)

type ServerConfig struct {
	Port        string
	CORSOrigins []string
}

type CRMConfig struct {
	BaseURL  string
	APIToken string
	Timeout  time.Duration
}

type LLMConfig struct {
	BaseURL     string
	APIKey      string
	Model       string
	Timeout     time.Duration
	MaxTokens   int
	Temperature float64
	Stream      bool
}

type SMTPConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	From     string
	AlertTo  string
}

type Config struct {
	DatabaseURL     string
	RabbitMQURL     string
	Server          ServerConfig
	CRM             CRMConfig
	LLM             LLMConfig
	SMTP            SMTPConfig
	SyncConcurrency int
	SalesAgentsFile string
}

// Load reads everything from the environment. Call godotenv.Load first if a
// .env file is in play.
func Load() (*Config, error) {
	cfg := &Config{
		DatabaseURL: os.Getenv("DATABASE_URL"),
		RabbitMQURL: os.Getenv("RABBITMQ_URL"),
		Server: ServerConfig{
			Port:        envOr("PORT", "8080"),
			CORSOrigins: splitList(envOr("CORS_ORIGINS", "*")),
		},
		CRM: CRMConfig{
			BaseURL:  os.Getenv("CRM_BASE_URL"),
			APIToken: os.Getenv("CRM_API_TOKEN"),
			Timeout:  envDuration("CRM_TIMEOUT", 30*time.Second),
		},
		LLM: LLMConfig{
			BaseURL:     envOr("LLM_BASE_URL", "https://api.openai.com/v1"),
			APIKey:      os.Getenv("LLM_API_KEY"),
			Model:       envOr("LLM_MODEL", "gpt-3.5-turbo"),
			Timeout:     envDuration("LLM_TIMEOUT", 60*time.Second),
			MaxTokens:   envInt("LLM_MAX_TOKENS", 1000),
			Temperature: envFloat("LLM_TEMPERATURE", 0.7),
			Stream:      os.Getenv("LLM_STREAM") == "true",
		},
		SMTP: SMTPConfig{
			Host:     os.Getenv("MAIL_HOST"),
			Port:     envInt("MAIL_PORT", 587),
			User:     os.Getenv("MAIL_USER"),
			Password: os.Getenv("MAIL_PASS"),
			From:     os.Getenv("MAIL_FROM"),
			AlertTo:  os.Getenv("SYNC_ALERT_TO"),
		},
		SyncConcurrency: envInt("SYNC_CONCURRENCY", 4),
		SalesAgentsFile: os.Getenv("SALES_AGENTS_FILE"),
	}

	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is required")
	}
	if cfg.CRM.BaseURL == "" {
		return nil, fmt.Errorf("CRM_BASE_URL is required")
	}

	return cfg, nil
}

// LoadSalesAgents reads the agent roster JSON. An unset path just means no
// roster: agent matching stays disabled.
func LoadSalesAgents(path string) ([]entity.SalesAgent, error) {
	if path == "" {
		return nil, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading sales agents file: %w", err)
	}

	var agents []entity.SalesAgent
	if err := json.Unmarshal(data, &agents); err != nil {
		return nil, fmt.Errorf("parsing sales agents file: %w", err)
	}

	return agents, nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envFloat(key string, fallback float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return fallback
}

// envDuration accepts "30s"-style values or bare seconds.
func envDuration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	if d, err := time.ParseDuration(v); err == nil {
		return d
	}
	if n, err := strconv.Atoi(v); err == nil {
		return time.Duration(n) * time.Second
	}
	return fallback
}

func splitList(v string) []string {
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
