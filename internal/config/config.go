package config

import (
	"errors"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port           int
	NatsURL        string
	NatsToken      string
	DatabaseURL    string
	LogLevel       string
	LLMAPIKey      string
	LLMBaseURL     string
	Model          string
	Temperature    float64
	LLMTimeout     time.Duration
	SlackBotToken  string
	SlackChannel   string
	APIToken       string
	CORSOrigins    []string
	LexiconPath    string
	BatchStatePath string
}

func Load() Config {
	return Config{
		Port:           envInt("NEXUS_PORT", 8760),
		NatsURL:        envStr("NATS_URL", ""),
		NatsToken:      envStr("NATS_TOKEN", ""),
		DatabaseURL:    envStr("DATABASE_URL", ""),
		LogLevel:       envStr("LOG_LEVEL", "info"),
		LLMAPIKey:      envStr("LLM_API_KEY", ""),
		LLMBaseURL:     envStr("LLM_BASE_URL", "https://api.openai.com/v1"),
		Model:          envStr("NEXUS_MODEL", "gemini-pro"),
		Temperature:    envFloat("NEXUS_TEMPERATURE", 0.1),
		LLMTimeout:     envDuration("NEXUS_LLM_TIMEOUT", 120*time.Second),
		SlackBotToken:  envStr("SLACK_BOT_TOKEN", ""),
		SlackChannel:   envStr("SLACK_REVIEW_CHANNEL", ""),
		APIToken:       envStr("NEXUS_API_TOKEN", ""),
		CORSOrigins:    envList("NEXUS_CORS_ORIGINS"),
		LexiconPath:    envStr("NEXUS_LEXICON_PATH", ""),
		BatchStatePath: envStr("NEXUS_BATCH_STATE", ".nexus-batch-state.json"),
	}
}

// LoadEnvFile reads KEY=value pairs from path into the process environment.
// Variables already set are left alone and a missing file is not an error.
func LoadEnvFile(path string) error {
	err := godotenv.Load(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return err
}

func envStr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// envList splits a comma-separated value, dropping blank entries.
func envList(key string) []string {
	var out []string
	for _, part := range strings.Split(os.Getenv(key), ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
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

func envDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
		if secs, err := strconv.Atoi(v); err == nil {
			return time.Duration(secs) * time.Second
		}
	}
	return fallback
}
