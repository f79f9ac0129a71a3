package app

import (
	"os"
	"strconv"

	"github.com/moonquill/moonquill-backend/internal/platform/logger"
)

type Config struct {
	ServiceName  string
	ListenAddr   string
	MediaBaseDir string
	MediaBaseURL string

	MaxCoverUploadMB int
}

func LoadConfig(log *logger.Logger) Config {
	return Config{
		ServiceName:      getEnv("SERVICE_NAME", "moonquill-backend", log),
		ListenAddr:       getEnv("LISTEN_ADDR", ":8080", log),
		MediaBaseDir:     getEnv("MEDIA_BASE_DIR", "./media", log),
		MediaBaseURL:     getEnv("MEDIA_BASE_URL", "/media", log),
		MaxCoverUploadMB: getEnvAsInt("MAX_COVER_UPLOAD_MB", 10, log),
	}
}

func getEnv(key, fallback string, log *logger.Logger) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	if log != nil {
		log.Debug("env var unset, using default", "key", key, "default", fallback)
	}
	return fallback
}

func getEnvAsInt(key string, fallback int, log *logger.Logger) int {
	if raw := os.Getenv(key); raw != "" {
		if v, err := strconv.Atoi(raw); err == nil {
			return v
		}
		if log != nil {
			log.Warn("env var not an integer, using default", "key", key, "default", fallback)
		}
	}
	return fallback
}
