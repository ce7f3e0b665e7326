// Copyright (c) 2025-2026 PhishGuard
// Licensed under MIT — See LICENSE for terms.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

type Config struct {
	DatabaseURL       string
	Port              string
	AppVersion        string
	GeminiAPIKey      string
	GeminiModel       string
	GeminiBaseURL     string
	ClassifierTimeout time.Duration
	ClassifierRPM     int
	VerdictCacheTTL   time.Duration
}

func Load() (*Config, error) {
	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		return nil, fmt.Errorf("DATABASE_URL environment variable is required")
	}

	apiKey := os.Getenv("GEMINI_API_KEY")
	if apiKey == "" {
		return nil, fmt.Errorf("GEMINI_API_KEY environment variable is required")
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = "5000"
	}

	model := os.Getenv("GEMINI_MODEL")
	if model == "" {
		model = "gemini-2.0-flash"
	}

	baseURL := os.Getenv("GEMINI_BASE_URL")
	if baseURL == "" {
		baseURL = "https://generativelanguage.googleapis.com"
	}

	return &Config{
		DatabaseURL:       dbURL,
		Port:              port,
		AppVersion:        "1.4.2",
		GeminiAPIKey:      apiKey,
		GeminiModel:       model,
		GeminiBaseURL:     baseURL,
		ClassifierTimeout: getenvSeconds("CLASSIFIER_TIMEOUT_SECONDS", 30*time.Second),
		ClassifierRPM:     getenvInt("CLASSIFIER_RPM", 60),
		VerdictCacheTTL:   getenvSeconds("VERDICT_CACHE_TTL_SECONDS", 5*time.Minute),
	}, nil
}

func getenvInt(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		return def
	}
	return n
}

func getenvSeconds(key string, def time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		return def
	}
	return time.Duration(n) * time.Second
}
