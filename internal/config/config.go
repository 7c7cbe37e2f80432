package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	ServerPort string

	LogLevel       string
	AllowedOrigins []string

	// GitHub
	GitHubToken         string
	GitHubAPIURL        string
	GitHubWebhookSecret string
	GitHubWebhookURL    string

	// Anthropic
	AnthropicAPIKey     string
	AnthropicModel      string
	AnthropicMaxTokens  int
	AIRequestsPerMinute int

	// Анализаторы
	AIAnalyzerTimeout     time.Duration
	SummaryTimeout        time.Duration
	StaticAnalyzerTimeout time.Duration
	BreakerThreshold      int
	BreakerCooldown       time.Duration
	BanditPath            string
	PylintPath            string
	RadonPath             string

	// Ревью
	ReviewTimeout time.Duration
	AutoReview    bool
	WorkerCount   int
}

func LoadConfig() (Config, error) {

	err := godotenv.Load()

	return Config{
		DBHost:     getEnv("DB_HOST", "localhost"),
		DBPort:     getEnv("DB_PORT", "5432"),
		DBUser:     getEnv("DB_USER", "postgres"),
		DBPassword: getEnv("DB_PASSWORD", "password"),
		DBName:     getEnv("DB_NAME", "code_review"),
		ServerPort: getEnv("SERVER_PORT", "8080"),

		LogLevel:       getEnv("LOG_LEVEL", "info"),
		AllowedOrigins: getEnvList("ALLOWED_ORIGINS", []string{"http://localhost:5173", "http://localhost:3000"}),

		GitHubToken:         getEnv("GITHUB_TOKEN", ""),
		GitHubAPIURL:        getEnv("GITHUB_API_URL", "https://api.github.com/"),
		GitHubWebhookSecret: getEnv("GITHUB_WEBHOOK_SECRET", ""),
		GitHubWebhookURL:    getEnv("GITHUB_WEBHOOK_URL", ""),

		AnthropicAPIKey:     getEnv("ANTHROPIC_API_KEY", ""),
		AnthropicModel:      getEnv("ANTHROPIC_MODEL", "claude-sonnet-4-5"),
		AnthropicMaxTokens:  getEnvInt("ANTHROPIC_MAX_TOKENS", 4096),
		AIRequestsPerMinute: getEnvInt("AI_REQUESTS_PER_MINUTE", 30),

		AIAnalyzerTimeout:     getEnvDuration("AI_ANALYZER_TIMEOUT", 2*time.Minute),
		SummaryTimeout:        getEnvDuration("SUMMARY_TIMEOUT", 30*time.Second),
		StaticAnalyzerTimeout: getEnvDuration("STATIC_ANALYZER_TIMEOUT", 90*time.Second),
		BreakerThreshold:      getEnvInt("BREAKER_THRESHOLD", 3),
		BreakerCooldown:       getEnvDuration("BREAKER_COOLDOWN", time.Minute),
		BanditPath:            getEnv("BANDIT_PATH", "bandit"),
		PylintPath:            getEnv("PYLINT_PATH", "pylint"),
		RadonPath:             getEnv("RADON_PATH", "radon"),

		ReviewTimeout: getEnvDuration("REVIEW_TIMEOUT", 5*time.Minute),
		AutoReview:    getEnvBool("AUTO_REVIEW", true),
		WorkerCount:   getEnvInt("WORKER_COUNT", 4),
	}, err
}

// DSN собирает строку подключения к PostgreSQL.
func (c Config) DSN() string {
	return "postgres://" + c.DBUser + ":" + c.DBPassword + "@" + c.DBHost + ":" + c.DBPort + "/" + c.DBName + "?sslmode=disable"
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.ParseBool(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if parsed, err := time.ParseDuration(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getEnvList(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	var items []string
	for _, item := range strings.Split(value, ",") {
		if item = strings.TrimSpace(item); item != "" {
			items = append(items, item)
		}
	}
	return items
}
