package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Token store backends
const (
	TokenStoreMemory = "memory"
	TokenStoreFile   = "file"
	TokenStoreRedis  = "redis"
)

// Config holds all configuration for the console
type Config struct {
	// General
	APIBaseURL string
	LogLevel   string
	HealthPath string
	Network    string

	// HTTP client
	RequestTimeout     time.Duration
	ClientRateLimitRPS float64 // 0 = disabled
	ClientRateBurst    int

	// Polling
	PollInterval  time.Duration
	AnalyticsDays int
	TopLimit      int
	HistoryLimit  int

	// Session token storage
	TokenStore string
	TokenFile  string
	RedisURL   string
	TokenTTL   time.Duration // 0 = no expiry

	// Circuit breaker around analytics reads
	BreakerFailureThreshold int
	BreakerCooldown         time.Duration

	// Dashboard server
	DashboardPort string
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	// Try to load .env file (optional)
	_ = godotenv.Load()

	config := &Config{
		APIBaseURL: strings.TrimRight(getEnv("API_BASE_URL", "http://localhost:3000"), "/"),
		LogLevel:   getEnv("LOG_LEVEL", "info"),
		HealthPath: getEnv("HEALTH_PATH", "/api/health"),
		Network:    getEnv("NETWORK", "testnet"),

		RequestTimeout:     time.Duration(getEnvAsInt("REQUEST_TIMEOUT_SECONDS", 30)) * time.Second,
		ClientRateLimitRPS: getEnvAsFloat("CLIENT_RATE_LIMIT_RPS", 0),
		ClientRateBurst:    getEnvAsInt("CLIENT_RATE_LIMIT_BURST", 5),

		PollInterval:  time.Duration(getEnvAsInt("POLL_INTERVAL_SECONDS", 30)) * time.Second,
		AnalyticsDays: getEnvAsInt("ANALYTICS_DAYS", 7),
		TopLimit:      getEnvAsInt("TOP_LIMIT", 5),
		HistoryLimit:  getEnvAsInt("HISTORY_LIMIT", 10),

		TokenStore: strings.ToLower(getEnv("TOKEN_STORE", TokenStoreFile)),
		TokenFile:  getEnv("TOKEN_FILE", defaultTokenFile()),
		RedisURL:   getEnv("REDIS_URL", "redis://localhost:6379"),
		TokenTTL:   time.Duration(getEnvAsInt("TOKEN_TTL_HOURS", 0)) * time.Hour,

		BreakerFailureThreshold: getEnvAsInt("BREAKER_FAILURE_THRESHOLD", 5),
		BreakerCooldown:         time.Duration(getEnvAsInt("BREAKER_COOLDOWN_SECONDS", 30)) * time.Second,

		DashboardPort: getEnv("DASHBOARD_PORT", "8080"),
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// Validate checks that the loaded values are usable
func (c *Config) Validate() error {
	if c.APIBaseURL == "" {
		return fmt.Errorf("API_BASE_URL is required")
	}
	if !strings.HasPrefix(c.APIBaseURL, "http://") && !strings.HasPrefix(c.APIBaseURL, "https://") {
		return fmt.Errorf("API_BASE_URL must start with http:// or https://")
	}
	if c.RequestTimeout <= 0 {
		return fmt.Errorf("REQUEST_TIMEOUT_SECONDS must be positive")
	}
	if c.PollInterval <= 0 {
		return fmt.Errorf("POLL_INTERVAL_SECONDS must be positive")
	}
	if c.ClientRateLimitRPS < 0 {
		return fmt.Errorf("CLIENT_RATE_LIMIT_RPS cannot be negative")
	}
	if c.AnalyticsDays <= 0 || c.TopLimit <= 0 || c.HistoryLimit <= 0 {
		return fmt.Errorf("ANALYTICS_DAYS, TOP_LIMIT and HISTORY_LIMIT must be positive")
	}
	switch c.TokenStore {
	case TokenStoreMemory:
	case TokenStoreFile:
		if c.TokenFile == "" {
			return fmt.Errorf("TOKEN_FILE is required when TOKEN_STORE=file")
		}
	case TokenStoreRedis:
		if c.RedisURL == "" {
			return fmt.Errorf("REDIS_URL is required when TOKEN_STORE=redis")
		}
	default:
		return fmt.Errorf("unknown TOKEN_STORE %q (want memory, file or redis)", c.TokenStore)
	}
	return nil
}

// GetExplorerURL returns the block explorer URL for the configured network
func (c *Config) GetExplorerURL(txHash string) string {
	network := c.Network
	if network == "" {
		network = "testnet"
	}
	return fmt.Sprintf("https://suiscan.xyz/%s/tx/%s", network, txHash)
}

// Helper functions

func defaultTokenFile() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".sui-faucet-token"
	}
	return filepath.Join(home, ".sui-faucet", "auth_token")
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.ParseFloat(valueStr, 64)
	if err != nil {
		return defaultValue
	}
	return value
}
