package config

import (
	"os"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port             string
	MongoURI         string
	DatabaseName     string
	Timeout          time.Duration
	Origin           string
	AggregationDelay time.Duration
	SweepSchedule    string
}

func LoadConfig() Config {
	err := godotenv.Load()
	if err != nil {
		if os.IsNotExist(err) {
			// .env file not found, proceed with default values
		} else {
			panic("Error loading .env file")
		}
	}
	return Config{
		Port:             getEnv("PORT", "8000"),
		MongoURI:         getEnv("MONGODB_URI", "mongodb://localhost:27017"),
		DatabaseName:     getEnv("DATABASE_NAME", "sunday_school"),
		Timeout:          10 * time.Second,
		Origin:           getEnv("ORIGIN", "http://localhost:3000"),
		AggregationDelay: getEnvDuration("AGGREGATION_DELAY", time.Hour),
		SweepSchedule:    getEnv("SWEEP_SCHEDULE", "30 * * * *"),
	}
}

func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

// getEnvDuration parses values like "1h" or "90s"; falls back on bad input.
func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return defaultValue
	}
	return d
}
