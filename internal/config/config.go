// ABOUTME: Centralized configuration for the legal assistant bot
// ABOUTME: Loads from environment variables with validation and defaults
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// DefaultSystemPrompt is used when no prompt file is configured.
const DefaultSystemPrompt = "Ты — ассистент по юридическим вопросам недвижимости. " +
	"Отвечай по-русски, опирайся на предоставленный контекст из базы знаний и " +
	"всегда указывай правовые основания, если они есть в контексте. " +
	"Ответы носят информационный характер и не являются юридической консультацией."

// Config holds all configuration for the bot process.
type Config struct {
	// Telegram settings
	TelegramToken    string
	PrivacyPolicyURL string

	// OpenAI settings
	OpenAIKey   string
	ChatModel   string
	Temperature float32
	Timeout     time.Duration

	// Retrieval settings
	TopK         int
	HistoryLimit int

	// Paths
	KnowledgePath       string
	InteractionLogPath  string
	ConsultationLogPath string
	ConsentPath         string
	SystemPrompt        string

	Debug bool
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	cfg := &Config{
		TelegramToken:       os.Getenv("TELEGRAM_BOT_TOKEN"),
		PrivacyPolicyURL:    os.Getenv("PRIVACY_POLICY_URL"),
		OpenAIKey:           os.Getenv("OPENAI_API_KEY"),
		ChatModel:           getEnv("OPENAI_MODEL", "gpt-4o-mini"),
		Temperature:         float32(getEnvFloat("OPENAI_TEMPERATURE", 0.2)),
		Timeout:             getEnvDuration("OPENAI_TIMEOUT", 30*time.Second),
		TopK:                getEnvInt("RAG_TOP_K", 3),
		HistoryLimit:        getEnvInt("HISTORY_LIMIT", 10),
		KnowledgePath:       getEnv("KNOWLEDGE_PATH", "data/knowledge.json"),
		InteractionLogPath:  getEnv("LOG_PATH", "data/log.csv"),
		ConsultationLogPath: getEnv("CONSULTATION_LOG_PATH", "data/consultations.csv"),
		ConsentPath:         getEnv("CONSENT_PATH", "data/consents.json"),
		Debug:               getEnvBool("DEBUG", false),
	}

	if promptPath := os.Getenv("SYSTEM_PROMPT_PATH"); promptPath != "" {
		prompt, err := os.ReadFile(promptPath)
		if err != nil {
			return nil, fmt.Errorf("reading system prompt: %w", err)
		}
		cfg.SystemPrompt = string(prompt)
	} else {
		cfg.SystemPrompt = DefaultSystemPrompt
	}

	return cfg, cfg.Validate()
}

func (c *Config) Validate() error {
	if c.TelegramToken == "" {
		return fmt.Errorf("TELEGRAM_BOT_TOKEN is not set")
	}
	if c.OpenAIKey == "" {
		return fmt.Errorf("OPENAI_API_KEY is not set")
	}
	// A non-positive top-k means "at least one hit", never a rejection.
	if c.TopK < 1 {
		c.TopK = 1
	}
	if c.Timeout <= 0 {
		return fmt.Errorf("OPENAI_TIMEOUT must be positive, got %s", c.Timeout)
	}
	return nil
}

// Helper functions
func getEnv(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}

func getEnvBool(key string, defaultVal bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}
	return v == "true" || v == "1"
}

func getEnvInt(key string, defaultVal int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return defaultVal
}

func getEnvFloat(key string, defaultVal float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return defaultVal
}

func getEnvDuration(key string, defaultVal time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return defaultVal
}
