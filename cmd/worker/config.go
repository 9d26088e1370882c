package main

import (
	"log"
	"strconv"

	"studio-backend/internal/shared/utils"
)

// Config holds all configuration for the worker
type Config struct {
	RedisAddr   string
	Concurrency int
}

// loadConfig loads configuration from environment variables
func loadConfig() *Config {
	concurrency, err := strconv.Atoi(utils.GetEnvVariable("WORKER_CONCURRENCY", "10"))
	if err != nil || concurrency < 1 {
		concurrency = 10
	}

	cfg := &Config{
		RedisAddr:   utils.GetEnvVariable("REDIS_HOST", "localhost:6379"),
		Concurrency: concurrency,
	}

	log.Printf("[Config] Redis: %s, Concurrency: %d", cfg.RedisAddr, cfg.Concurrency)

	return cfg
}
