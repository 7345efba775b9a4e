package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"

	"storefront-variants/internal/domain"
)

type Config struct {
	Port          string
	Env           string
	LogLevel      string
	AllowedOrigin string
	// Regeneration
	RegenDebounce            time.Duration
	CombinationWarnThreshold int
	MaxCombinations          int
	// Sessions & cache
	SessionTTL    time.Duration
	CacheStatsTTL time.Duration
	// Seed defaults for synthesized variants
	SKUPrefix         string
	DefaultInventory  int
	ComparePriceRatio decimal.Decimal
	CostRatio         decimal.Decimal
	LowStockThreshold int
	// Rate limiting
	RateLimitRPS   float64
	RateLimitBurst int
}

func LoadConfig() *Config {
	// 1. Check if a specific config file is requested via env var
	configFile := os.Getenv("CONFIG_FILE")
	if configFile != "" {
		if err := godotenv.Load(configFile); err != nil {
			log.Printf("Warning: Failed to load config file '%s': %v", configFile, err)
		} else {
			log.Printf("Loaded configuration from %s", configFile)
		}
	} else {
		// 2. Default fallback: .env is optional, system env vars win otherwise
		if err := godotenv.Load(); err != nil {
			log.Println("No .env file found or error loading it, relying on system env vars")
		}
	}

	cfg := FromEnv()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("CRITICAL: %v", err)
	}
	return cfg
}

// FromEnv reads the configuration from the process environment only.
func FromEnv() *Config {
	return &Config{
		Port:          getEnv("PORT", "8080"),
		Env:           getEnv("ENV", "development"),
		LogLevel:      getEnv("LOG_LEVEL", "info"),
		AllowedOrigin: getEnv("ALLOWED_ORIGIN", "http://localhost:3000"),

		// Regeneration defaults: 100ms quiet window, warn above 1000 combinations, reject above 10000
		RegenDebounce:            getDurationEnv("REGEN_DEBOUNCE", 100*time.Millisecond),
		CombinationWarnThreshold: getIntEnv("COMBINATION_WARN_THRESHOLD", 1000),
		MaxCombinations:          getIntEnv("MAX_COMBINATIONS", 10000),

		// Sessions expire after 2h idle, stats cached for 1m
		SessionTTL:    getDurationEnv("SESSION_TTL", 2*time.Hour),
		CacheStatsTTL: getDurationEnv("CACHE_STATS_TTL", time.Minute),

		SKUPrefix:         getEnv("SKU_PREFIX", domain.DefaultSKUPrefix),
		DefaultInventory:  getIntEnv("DEFAULT_INVENTORY", domain.DefaultInventory),
		ComparePriceRatio: getDecimalEnv("COMPARE_PRICE_RATIO", decimal.RequireFromString(domain.DefaultComparePriceRatio)),
		CostRatio:         getDecimalEnv("COST_RATIO", decimal.RequireFromString(domain.DefaultCostRatio)),
		LowStockThreshold: getIntEnv("LOW_STOCK_THRESHOLD", domain.LowStockDisplayThreshold),

		// 50 req/s, burst 100
		RateLimitRPS:   getFloatEnv("RATE_LIMIT_RPS", 50),
		RateLimitBurst: getIntEnv("RATE_LIMIT_BURST", 100),
	}
}

func (c *Config) Validate() error {
	if c.RegenDebounce <= 0 {
		return fmt.Errorf("REGEN_DEBOUNCE must be positive, got %s", c.RegenDebounce)
	}
	if c.ComparePriceRatio.IsNegative() || c.CostRatio.IsNegative() {
		return fmt.Errorf("price ratios must not be negative")
	}
	if c.DefaultInventory < 0 {
		return fmt.Errorf("DEFAULT_INVENTORY must not be negative")
	}
	if c.SessionTTL <= 0 {
		return fmt.Errorf("SESSION_TTL must be positive")
	}
	if c.MaxCombinations <= 0 {
		return fmt.Errorf("MAX_COMBINATIONS must be positive")
	}
	if c.CombinationWarnThreshold <= 0 {
		log.Println("WARNING: COMBINATION_WARN_THRESHOLD disabled")
	}
	return nil
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getDurationEnv(key string, fallback time.Duration) time.Duration {
	if value, exists := os.LookupEnv(key); exists {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
		log.Printf("Invalid duration for %s, using fallback", key)
	}
	return fallback
}

func getIntEnv(key string, fallback int) int {
	if value, exists := os.LookupEnv(key); exists {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
		log.Printf("Invalid int for %s, using fallback", key)
	}
	return fallback
}
