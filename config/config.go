package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds application configuration
type Config struct {
	Port   string
	DBName string

	OllamaBaseURL string
	OllamaModel   string

	LLMTimeoutSeconds int // Per-attempt timeout for model calls
	MaxPromptChars    int // Note content beyond this is truncated before prompting

	HealthCheckSpec string // cron spec for the Ollama availability probe
}

// AppConfig is a global variable to access configuration
var AppConfig *Config

// LoadConfig initializes configuration from environment variables or defaults
func LoadConfig() {
	// Load .env file if it exists
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found. Using system environment variables.")
	}

	AppConfig = &Config{
		Port:   getEnv("PORT", "8000"),
		DBName: getEnv("DB_NAME", "study.db"),

		OllamaBaseURL: getEnv("OLLAMA_BASE_URL", "http://localhost:11434"),
		OllamaModel:   getEnv("OLLAMA_MODEL", "qwen2.5:14b"),

		LLMTimeoutSeconds: getEnvInt("LLM_TIMEOUT_SECONDS", 120),
		MaxPromptChars:    getEnvInt("MAX_PROMPT_CHARS", 24000),

		HealthCheckSpec: getEnv("HEALTH_CHECK_SPEC", "@every 1m"),
	}

	// Validate critical configuration
	if AppConfig.LLMTimeoutSeconds < 1 {
		log.Println("Warning: LLM_TIMEOUT_SECONDS must be at least 1. Falling back to 120.")
		AppConfig.LLMTimeoutSeconds = 120
	}
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

// getEnvInt retrieves an environment variable as an integer or returns the default integer value
func getEnvInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	intValue, err := strconv.Atoi(value)
	if err != nil {
		log.Printf("Error converting environment variable %s to int: %v", key, err)
		return defaultValue
	}
	return intValue
}
