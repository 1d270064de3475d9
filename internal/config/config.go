package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	App    AppConfig
	Flight FlightConfig
	Dialog DialogConfig
}

type AppConfig struct {
	Port               string
	Environment        string
	LogFilePath        string
	CorsAllowedOrigins string
	DataDir            string
	NatsURL            string
}

type FlightConfig struct {
	Mode            string // "mock" or "live"
	APIKey          string
	APIBaseURL      string
	CacheTTLMinutes int
	FetchTimeoutSec int
}

type DialogConfig struct {
	ContextTTLSeconds int
	HistorySize       int
	RandomSeed        int64 // 0 = seed from clock
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("Note: .env file not found, using system environment")
	}

	return &Config{
		App: AppConfig{
			// An empty port means "probe upward from 8080 for a free one".
			Port:               getEnv("APP_PORT", ""),
			Environment:        getEnv("GO_ENV", "development"),
			LogFilePath:        getEnv("LOG_FILE_PATH", "assistant.log"),
			CorsAllowedOrigins: getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:5173"),
			DataDir:            getEnv("DATA_DIR", "data"),
			NatsURL:            getEnv("NATS_URL", ""),
		},
		Flight: FlightConfig{
			Mode:            getEnv("FLIGHT_DATA_MODE", "mock"),
			APIKey:          getEnv("AVIATION_API_KEY", ""),
			APIBaseURL:      getEnv("AVIATION_API_URL", "https://api.aviationstack.com/v1"),
			CacheTTLMinutes: getEnvAsInt("FLIGHT_CACHE_TTL_MINUTES", 15),
			FetchTimeoutSec: getEnvAsInt("FLIGHT_FETCH_TIMEOUT_SECONDS", 5),
		},
		Dialog: DialogConfig{
			ContextTTLSeconds: getEnvAsInt("CONTEXT_TTL_SECONDS", 600),
			HistorySize:       getEnvAsInt("CONVERSATION_HISTORY_SIZE", 10),
			RandomSeed:        int64(getEnvAsInt("DIALOG_RANDOM_SEED", 0)),
		},
	}
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	strValue := getEnv(key, "")
	if value, err := strconv.Atoi(strValue); err == nil {
		return value
	}
	return fallback
}
