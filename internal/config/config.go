package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
)

// Config holds all configuration for the application
type Config struct {
	Port           string
	DatabaseURL    string // Row-store database; empty means the in-memory table backend
	Version        string
	LogLevel       string
	OpenAIKey      string
	OpenAIModel    string // Chat model for classification and reply generation
	OpenAITimeout  int    // OpenAI API timeout in seconds
	SendGridAPIKey string // SendGrid API key for sending ticket replies
	FromEmail      string // Sender address on reply emails
	FromName       string // Sender display name on reply emails
	PendingTable   string // Pending queue table name
	ProcessedTable string // Processed queue table name
}

// Load initializes and returns application configuration
func Load() *Config {
	// Load environment variables from .env file
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	config := &Config{
		Port:           getEnv("PORT", "8080"),
		DatabaseURL:    os.Getenv("DATABASE_URL"),
		Version:        getEnv("VERSION", "1.0.0"),
		LogLevel:       getEnv("LOG_LEVEL", "info"),
		OpenAIKey:      os.Getenv("OPENAI_API_KEY"),
		OpenAIModel:    getEnv("OPENAI_MODEL", ""),
		OpenAITimeout:  getEnvInt("OPENAI_TIMEOUT", 60),
		SendGridAPIKey: os.Getenv("SENDGRID_API_KEY"),
		FromEmail:      getEnv("FROM_EMAIL", "support@ticketflow.local"),
		FromName:       getEnv("FROM_NAME", "AI Support Team"),
		PendingTable:   getEnv("PENDING_TABLE", "pending_tickets"),
		ProcessedTable: getEnv("PROCESSED_TABLE", "processed_tickets"),
	}

	return config
}

// Validate checks the credentials without which no ticket can be
// processed. A failure here aborts startup before any ticket is
// handled.
func (c *Config) Validate() error {
	if c.OpenAIKey == "" {
		return fmt.Errorf("OPENAI_API_KEY is required")
	}
	if c.SendGridAPIKey == "" {
		return fmt.Errorf("SENDGRID_API_KEY is required")
	}
	return nil
}

// getEnv gets an environment variable with a default fallback
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvInt gets an environment variable as integer with a default fallback
func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

// SetupLogger configures zerolog with JSON output and single-line format
func (c *Config) SetupLogger() zerolog.Logger {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix

	logger := zerolog.New(os.Stdout).With().
		Timestamp().
		Str("service", "ticketflow").
		Str("version", c.Version).
		Logger()

	level, err := zerolog.ParseLevel(strings.ToLower(c.LogLevel))
	if err != nil {
		level = zerolog.InfoLevel
	}
	logger = logger.Level(level)

	return logger
}
