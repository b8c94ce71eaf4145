package config

import (
	"log"
	"os"
	"strconv"
	"time"
)

type Config struct {
	Server struct {
		Host string
		Port int
		Env  string
	}

	JWT struct {
		Secret string
	}

	// Catalog is the instrument/category API this form writes to.
	Catalog struct {
		BaseURL string
		Timeout time.Duration
	}

	// Cloudinary holds the image-hosting endpoints. The form uploads through
	// the backend proxy by default; the direct provider path needs the
	// upload preset.
	Cloudinary struct {
		BackendBaseURL string
		UploadURL      string
		UploadPreset   string
		Timeout        time.Duration
	}

	Form struct {
		PreviewDir string
		SessionTTL time.Duration
	}
}

var AppConfig *Config

// LoadConfig reads configuration from the process environment. Endpoint and
// credential values have no defaults on purpose: a misconfigured deployment
// should fail loudly at startup, not at the first upload.
func LoadConfig() {
	var cfg Config

	cfg.Server.Host = getEnv("SERVER_HOST", "0.0.0.0")
	cfg.Server.Port = getEnvAsInt("SERVER_PORT", 4000)
	cfg.Server.Env = getEnv("SERVER_ENV", "development")

	cfg.JWT.Secret = os.Getenv("JWT_SECRET")

	cfg.Catalog.BaseURL = os.Getenv("CATALOG_API_URL")
	cfg.Catalog.Timeout = getEnvAsDuration("CATALOG_TIMEOUT", 15*time.Second)

	cfg.Cloudinary.BackendBaseURL = os.Getenv("CLOUDINARY_BACKEND_URL")
	cfg.Cloudinary.UploadURL = os.Getenv("CLOUDINARY_UPLOAD_URL")
	cfg.Cloudinary.UploadPreset = os.Getenv("CLOUDINARY_UPLOAD_PRESET")
	cfg.Cloudinary.Timeout = getEnvAsDuration("CLOUDINARY_TIMEOUT", 30*time.Second)

	cfg.Form.PreviewDir = getEnv("FORM_PREVIEW_DIR", os.TempDir())
	cfg.Form.SessionTTL = getEnvAsDuration("FORM_SESSION_TTL", 30*time.Minute)

	if cfg.JWT.Secret == "" {
		log.Fatal("JWT_SECRET is required")
	}
	if cfg.Catalog.BaseURL == "" {
		log.Fatal("CATALOG_API_URL is required")
	}
	if cfg.Cloudinary.BackendBaseURL == "" {
		log.Fatal("CLOUDINARY_BACKEND_URL is required")
	}

	AppConfig = &cfg
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if parsed, err := time.ParseDuration(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}
