package main

import (
	"os"
)

// Environment variables supplying flag defaults.
const (
	envConfigPath = "ROUTECTL_CONFIG"
	envRoutesPath = "ROUTECTL_ROUTES"
	envLogLevel   = "ROUTECTL_LOG_LEVEL"
	envLogFormat  = "ROUTECTL_LOG_FORMAT"
)

// getEnvOrDefault returns the environment variable value or a default.
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
