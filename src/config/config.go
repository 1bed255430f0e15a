package config

import (
	"fmt"
	"log"
	"os"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
)

type Config struct {
	ServerPort string
	TaxRate    decimal.Decimal
}

func LoadConfig() (*Config, error) {
	// Try to load .env file, but don't fail if it doesn't exist
	err := godotenv.Load()
	if err != nil {
		log.Println("Warning: .env file not found, using environment variables only")
		// Continue without .env file, use environment variables
	}

	config := &Config{
		ServerPort: os.Getenv("SERVER_PORT"),
	}

	// Set default values if environment variables are not set
	if config.ServerPort == "" {
		config.ServerPort = "8080"
	}

	rate := os.Getenv("TAX_RATE")
	if rate == "" {
		config.TaxRate = decimal.NewFromFloat(0.10)
	} else {
		parsed, err := decimal.NewFromString(rate)
		if err != nil {
			return nil, fmt.Errorf("invalid TAX_RATE %q: %w", rate, err)
		}
		if parsed.IsNegative() {
			return nil, fmt.Errorf("TAX_RATE must not be negative, got %s", parsed)
		}
		config.TaxRate = parsed
	}

	return config, nil
}
