package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"
)

var (
	Port     string
	LogLevel string

	GeminiAPIKey string
	GeminiModel  string

	SiteBaseURL      string
	SearchCategoryID string

	Headless             bool
	ChromePath           string
	BrowserLaunchTimeout time.Duration
	ListingScrollPx      float64
	DetailScrollPx       float64
	ScrollSettle         time.Duration
	MaxSnapshotBytes     int

	MongoURI string
	DBName   string

	AWSRegion     string
	AWSBucketName string

	SendGridAPIKey  string
	DigestEmailTo   string
	DigestEmailFrom string

	JWTSecret string
)

// LoadConfig loads environment variables from .env file
func LoadConfig() {
	if err := godotenv.Load(); err != nil {
		log.Info("No .env file found, using default values or system environment variables")
	}

	Port = getEnv("PORT", "8000")
	LogLevel = getEnv("LOG_LEVEL", "info")

	GeminiAPIKey = os.Getenv("GEMINI_API_KEY")
	GeminiModel = getEnv("GEMINI_MODEL", "gemini-2.0-flash")

	SiteBaseURL = getEnv("SITE_BASE_URL", "https://demandvape.com")
	SearchCategoryID = getEnv("SEARCH_CATEGORY_ID", "1096")

	Headless = getBool("HEADLESS", true)
	ChromePath = os.Getenv("CHROME_PATH")
	BrowserLaunchTimeout = getDuration("BROWSER_LAUNCH_TIMEOUT", 30*time.Second)
	ListingScrollPx = getFloat("LISTING_SCROLL_PX", 3000)
	DetailScrollPx = getFloat("DETAIL_SCROLL_PX", 4000)
	ScrollSettle = getDuration("SCROLL_SETTLE", time.Second)
	MaxSnapshotBytes = getInt("MAX_SNAPSHOT_BYTES", 150000)

	MongoURI = os.Getenv("MONGO_URI")
	DBName = getEnv("DB_NAME", "vapescraper")

	AWSRegion = getEnv("AWS_REGION", "us-east-1")
	AWSBucketName = os.Getenv("AWS_BUCKET_NAME")

	SendGridAPIKey = os.Getenv("SENDGRID_API_KEY")
	DigestEmailTo = os.Getenv("DIGEST_EMAIL_TO")
	DigestEmailFrom = getEnv("DIGEST_EMAIL_FROM", "no-reply@vapescraper.local")

	JWTSecret = os.Getenv("JWT_SECRET")
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getBool(key string, fallback bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		log.Warnf("Invalid %s=%q, using %v", key, v, fallback)
		return fallback
	}
	return b
}

func getInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		log.Warnf("Invalid %s=%q, using %d", key, v, fallback)
		return fallback
	}
	return n
}

func getFloat(key string, fallback float64) float64 {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		log.Warnf("Invalid %s=%q, using %v", key, v, fallback)
		return fallback
	}
	return f
}

func getDuration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		log.Warnf("Invalid %s=%q, using %s", key, v, fallback)
		return fallback
	}
	return d
}
