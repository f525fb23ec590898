package config

import (
	"log"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Authentication modes
const (
	AuthModeStatic   = "static"
	AuthModeDatabase = "database"
)

type Config struct {
	ServerPort  string
	DBPath      string
	Environment string
	AppURL      string
	// Login
	AuthMode   string
	LoginDelay time.Duration
	// Locale
	DefaultLocale string
	// Report export
	ChromePath      string
	ReportArchive   bool
	UploadDir       string
	ChartAssetsHost string
	// Cloudflare R2 Storage
	R2AccountID       string
	R2AccessKeyID     string
	R2SecretAccessKey string
	R2BucketName      string
	R2PublicURL       string
	// Background jobs
	SessionCleanupCron string
}

func Load() *Config {
	// Load .env file (ignore error if not present - use system env vars)
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}

	authMode := strings.ToLower(getEnv("AUTH_MODE", AuthModeStatic))
	if authMode != AuthModeStatic && authMode != AuthModeDatabase {
		log.Printf("[WARNING] Unknown AUTH_MODE %q, falling back to %s", authMode, AuthModeStatic)
		authMode = AuthModeStatic
	}

	return &Config{
		ServerPort:         getEnv("SERVER_PORT", "8080"),
		DBPath:             getEnv("DB_PATH", "db/dashboard.db"),
		Environment:        getEnv("ENVIRONMENT", "development"),
		AppURL:             getEnv("APP_URL", "http://localhost:8080"),
		AuthMode:           authMode,
		LoginDelay:         getEnvDuration("LOGIN_DELAY", time.Second),
		DefaultLocale:      getEnv("DEFAULT_LOCALE", "en"),
		ChromePath:         getEnv("CHROME_PATH", ""),
		ReportArchive:      getEnvBool("REPORT_ARCHIVE", false),
		UploadDir:          getEnv("UPLOAD_DIR", "static/reports"),
		ChartAssetsHost:    getEnv("CHART_ASSETS_HOST", ""),
		R2AccountID:        getEnv("R2_ACCOUNT_ID", ""),
		R2AccessKeyID:      getEnv("R2_ACCESS_KEY_ID", ""),
		R2SecretAccessKey:  getEnv("R2_SECRET_ACCESS_KEY", ""),
		R2BucketName:       getEnv("R2_BUCKET_NAME", ""),
		R2PublicURL:        getEnv("R2_PUBLIC_URL", ""),
		SessionCleanupCron: getEnv("SESSION_CLEANUP_CRON", "0 * * * *"),
	}
}

// IsProduction reports whether cookies should be marked Secure
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

// R2Configured reports whether all R2 credentials are present
func (c *Config) R2Configured() bool {
	return c.R2AccountID != "" && c.R2AccessKeyID != "" && c.R2SecretAccessKey != "" && c.R2BucketName != ""
}

func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		log.Printf("Using default value for %s: %s", key, defaultValue)
		return defaultValue
	}
	return value
}

func getEnvBool(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	switch strings.ToLower(value) {
	case "true", "1", "yes", "on":
		return true
	case "false", "0", "no", "off":
		return false
	default:
		return defaultValue
	}
}

// getEnvDuration accepts Go duration strings ("1s", "250ms")
func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	d, err := time.ParseDuration(value)
	if err != nil || d < 0 {
		log.Printf("[WARNING] Invalid duration for %s: %q, using %s", key, value, defaultValue)
		return defaultValue
	}
	return d
}
