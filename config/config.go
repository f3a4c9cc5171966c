package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port          string
	Env           string
	LogLevel      string
	AllowedOrigin string
	// Content Store
	CatalogSource   string // notion | postgres
	NotionToken     string
	NotionDBID      string
	NotionBaseURL   string
	NotionVersion   string
	NotionTimeout   time.Duration
	CacheCatalogTTL time.Duration // 0 disables caching: every page load refetches
	// Postgres catalog (CATALOG_SOURCE=postgres)
	DBUrl             string
	DBMaxConns        int32
	DBMinConns        int32
	DBMaxConnIdleTime time.Duration
	// Relay
	WebhookURL   string
	RelayTimeout time.Duration
	// Sessions
	SessionStore  string // memory | redis
	SessionSecret string
	SessionTTL    time.Duration
	RedisAddr     string
	RedisPassword string
	RedisDB       int
	// R2 Storage (payment proof archive, optional)
	R2AccountID       string
	R2AccessKeyID     string
	R2AccessKeySecret string
	R2BucketName      string
	R2PublicURL       string
	R2UploadTimeout   time.Duration
	// Upload Configuration
	MaxUploadSizeMB int64
	// Payment Instructions
	PaymentBankName      string
	PaymentAccountNumber string
	PaymentAccountHolder string
	// Rate Limiting
	RateLimitRPS   float64
	RateLimitBurst int
}

func LoadConfig() *Config {
	// 1. Check if a specific config file is requested via env var
	configFile := os.Getenv("CONFIG_FILE")
	if configFile != "" {
		if err := godotenv.Load(configFile); err != nil {
			log.Printf("Warning: Failed to load config file '%s': %v", configFile, err)
		} else {
			log.Printf("Loaded configuration from %s", configFile)
		}
	} else {
		// 2. Default fallback: Try loading .env (standard local dev)
		if err := godotenv.Load(); err != nil {
			log.Println("No .env file found or error loading it, relying on system env vars")
		}
	}

	cfg := &Config{
		Port:          getEnv("PORT", "8080"),
		Env:           getEnv("ENV", "development"),
		LogLevel:      getEnv("LOG_LEVEL", "info"),
		AllowedOrigin: getEnv("ALLOWED_ORIGIN", "http://localhost:3000"),

		CatalogSource:   getEnv("CATALOG_SOURCE", "notion"),
		NotionToken:     getEnv("NOTION_API", ""),
		NotionDBID:      getEnv("NOTION_DB_ID", ""),
		NotionBaseURL:   getEnv("NOTION_BASE_URL", "https://api.notion.com/v1"),
		NotionVersion:   getEnv("NOTION_VERSION", "2025-09-03"),
		NotionTimeout:   getDurationEnv("NOTION_TIMEOUT", 10*time.Second),
		CacheCatalogTTL: getDurationEnv("CACHE_CATALOG_TTL", 0),

		DBUrl:             getEnv("DB_DSN", ""),
		DBMaxConns:        getInt32Env("DB_MAX_CONNS", 10),
		DBMinConns:        getInt32Env("DB_MIN_CONNS", 1),
		DBMaxConnIdleTime: getDurationEnv("DB_MAX_CONN_IDLE_TIME", time.Minute*15),

		WebhookURL:   getEnv("MAKE_WEBHOOK_URL", ""),
		RelayTimeout: getDurationEnv("RELAY_TIMEOUT", 30*time.Second),

		SessionStore:  getEnv("SESSION_STORE", "memory"),
		SessionSecret: getEnv("SESSION_SECRET", "default_secret_CHANGE_ME"),
		SessionTTL:    getDurationEnv("SESSION_TTL", 2*time.Hour),
		RedisAddr:     getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		RedisDB:       getIntEnv("REDIS_DB", 0),

		R2AccountID:       getEnv("R2_ACCOUNT_ID", ""),
		R2AccessKeyID:     getEnv("R2_ACCESS_KEY_ID", ""),
		R2AccessKeySecret: getEnv("R2_ACCESS_KEY_SECRET", ""),
		R2BucketName:      getEnv("R2_BUCKET_NAME", ""),
		R2PublicURL:       getEnv("R2_PUBLIC_URL", ""),
		R2UploadTimeout:   getDurationEnv("R2_UPLOAD_TIMEOUT", 30*time.Second),

		// Upload defaults: 10MB max
		MaxUploadSizeMB: getInt64Env("MAX_UPLOAD_SIZE_MB", 10),

		PaymentBankName:      getEnv("PAYMENT_BANK_NAME", "BCA"),
		PaymentAccountNumber: getEnv("PAYMENT_ACCOUNT_NUMBER", "1234567890"),
		PaymentAccountHolder: getEnv("PAYMENT_ACCOUNT_HOLDER", "Sweet Crust Bakery"),

		// 50 req/s, burst 100
		RateLimitRPS:   getFloat64Env("RATE_LIMIT_RPS", 50),
		RateLimitBurst: getIntEnv("RATE_LIMIT_BURST", 100),
	}

	cfg.Validate()
	return cfg
}

// Validate only warns: a missing content store or webhook is reported per request, not at boot.
func (c *Config) Validate() {
	if c.SessionSecret == "default_secret_CHANGE_ME" {
		log.Println("WARNING: Using default session secret. Setting up for failure in production.")
	}
	switch c.CatalogSource {
	case "notion":
		if c.NotionToken == "" || c.NotionDBID == "" {
			log.Println("WARNING: NOTION_API or NOTION_DB_ID is missing, the catalog will be empty")
		}
	case "postgres":
		if c.DBUrl == "" {
			log.Println("WARNING: CATALOG_SOURCE=postgres but DB_DSN is missing, the catalog will be empty")
		}
	default:
		log.Printf("WARNING: Unknown CATALOG_SOURCE %q, the catalog will be empty", c.CatalogSource)
	}
	if c.WebhookURL == "" {
		log.Println("WARNING: MAKE_WEBHOOK_URL is missing, order submission will fail")
	}
}

// ArchiveEnabled reports whether payment proofs should be copied to R2.
func (c *Config) ArchiveEnabled() bool {
	return c.R2AccountID != "" && c.R2AccessKeyID != "" && c.R2AccessKeySecret != "" && c.R2BucketName != ""
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getDurationEnv(key string, fallback time.Duration) time.Duration {
	if value, exists := os.LookupEnv(key); exists {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
		log.Printf("Invalid duration for %s, using fallback", key)
	}
	return fallback
}

func getIntEnv(key string, fallback int) int {
	if value, exists := os.LookupEnv(key); exists {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
		log.Printf("Invalid int for %s, using fallback", key)
	}
	return fallback
}

func getInt64Env(key string, fallback int64) int64 {
	if value, exists := os.LookupEnv(key); exists {
		if i, err := strconv.ParseInt(value, 10, 64); err == nil {
			return i
		}
		log.Printf("Invalid int64 for %s, using fallback", key)
	}
	return fallback
}
