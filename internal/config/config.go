package config

import (
	"os"
	"strconv"
	"time"
)

type Config struct {
	// HTTP
	HTTPPort string

	// Postgres
	DatabaseURL string

	// Redis
	RedisAddr     string
	RedisPassword string
	RedisDB       int

	// Simulation
	MovementTick     time.Duration
	ConnectivityTick time.Duration
	EscapeChance     float64
	FlipChance       float64

	// Search
	FuzzyThreshold float64

	// Async state writer
	WriteBufferSize int

	// Rate limiting
	RequestsPerSecond float64
	RequestBurst      int
}

func Load() *Config {
	return &Config{
		HTTPPort:          getEnv("PORT", "5050"),
		DatabaseURL:       getEnv("DATABASE_URL", ""),
		RedisAddr:         getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPassword:     getEnv("REDIS_PASSWORD", ""),
		RedisDB:           getEnvInt("REDIS_DB", 0),
		MovementTick:      getEnvDuration("MOVEMENT_TICK", 2*time.Second),
		ConnectivityTick:  getEnvDuration("CONNECTIVITY_TICK", 30*time.Second),
		EscapeChance:      getEnvFloat("ESCAPE_CHANCE", 0.005),
		FlipChance:        getEnvFloat("CONNECTIVITY_FLIP_CHANCE", 0.10),
		FuzzyThreshold:    getEnvFloat("SEARCH_FUZZY_THRESHOLD", 0.72),
		WriteBufferSize:   getEnvInt("STATE_WRITE_BUFFER", 1024),
		RequestsPerSecond: getEnvFloat("RATE_LIMIT_RPS", 20),
		RequestBurst:      getEnvInt("RATE_LIMIT_BURST", 40),
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}

func getEnvFloat(key string, fallback float64) float64 {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return fallback
	}
	return f
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return fallback
	}
	return d
}
