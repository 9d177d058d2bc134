package config

import (
	"os"
	"time"
)

type Config struct {
	ListenAddr    string
	DBPath        string
	LogLevel      string
	LogFile       string
	SweepInterval time.Duration
	DefaultActor  string
}

func Load() *Config {
	return &Config{
		ListenAddr:    getEnv("LISTEN_ADDR", ":8080"),
		DBPath:        getEnv("DB_PATH", "/data/pantrylog.db"),
		LogLevel:      getEnv("LOG_LEVEL", "info"),
		LogFile:       getEnv("LOG_FILE", ""),
		SweepInterval: getDuration("SWEEP_INTERVAL", time.Hour),
		DefaultActor:  getEnv("DEFAULT_ACTOR", "web"),
	}
}

func getEnv(key, defaultVal string) string {
	if val, exists := os.LookupEnv(key); exists {
		return val
	}
	return defaultVal
}

func getDuration(key string, defaultVal time.Duration) time.Duration {
	val, exists := os.LookupEnv(key)
	if !exists {
		return defaultVal
	}
	d, err := time.ParseDuration(val)
	if err != nil || d <= 0 {
		return defaultVal
	}
	return d
}
