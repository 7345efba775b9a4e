package config

import (
	"log"
	"os"
	"strconv"

	"github.com/shopspring/decimal"
)

func getFloatEnv(key string, fallback float64) float64 {
	if value, exists := os.LookupEnv(key); exists {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
		log.Printf("Invalid float for %s, using fallback", key)
	}
	return fallback
}

func getDecimalEnv(key string, fallback decimal.Decimal) decimal.Decimal {
	if value, exists := os.LookupEnv(key); exists {
		if d, err := decimal.NewFromString(value); err == nil {
			return d
		}
		log.Printf("Invalid decimal for %s, using fallback", key)
	}
	return fallback
}
