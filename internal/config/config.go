package config

import "os"

// Config holds process-level settings read from the environment.
type Config struct {
	RedisAddr  string
	HTTPPort   string
	SchemaPath string // optional YAML schema override
}

// Load reads configuration from the environment with local defaults.
func Load() *Config {
	return &Config{
		RedisAddr:  getEnv("REDIS_ADDR", "localhost:6379"),
		HTTPPort:   getEnv("HTTP_PORT", "8080"),
		SchemaPath: os.Getenv("SCHEMA_PATH"),
	}
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}
