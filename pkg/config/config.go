package config

import (
	"os"

	"github.com/joho/godotenv"
)

type Config struct {
	ServerPort  string
	Environment string

	// DataDir holds one JSON document per user plus the exchange journal.
	DataDir string

	// Local image storage, used when no GCS bucket is configured.
	UploadDir string
	BaseURL   string

	// Google Cloud Storage image uploads.
	StorageBucket  string
	GCSProject     string
	GCSCredentials string
}

func Load() (*Config, error) {
	godotenv.Load()

	config := &Config{
		ServerPort:     getEnv("SERVER_PORT", "8080"),
		Environment:    getEnv("ENVIRONMENT", "development"),
		DataDir:        getEnv("DATA_DIR", "./data/users"),
		UploadDir:      getEnv("UPLOAD_DIR", "./uploads"),
		BaseURL:        getEnv("BASE_URL", "http://localhost:8080"),
		StorageBucket:  getEnv("STORAGE_BUCKET", ""),
		GCSProject:     getEnv("GCS_PROJECT_ID", ""),
		GCSCredentials: getEnv("GCS_CREDENTIALS_PATH", ""),
	}

	return config, nil
}

func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}
