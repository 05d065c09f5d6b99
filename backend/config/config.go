package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	JWTSecret  string
	ServerPort string

	// Timezone is the IANA name of the reference zone all day keys are
	// bucketed in. The host zone is never used: deployments in different
	// regions must agree on what "today" is.
	Timezone string

	// ScraperURL is the base URL of the scraping collaborator service.
	ScraperURL string

	// Platforms are the external judging platforms the scraper supports.
	Platforms []string

	// ScrapeTimeout bounds each per-platform fetch during a refresh.
	ScrapeTimeout time.Duration
}

func LoadConfig() (*Config, error) {
	err := godotenv.Load()
	if err != nil {
		log.Println("Error loading .env file, using environment variables")
	}

	timeoutSeconds, err := strconv.Atoi(getEnv("SCRAPE_TIMEOUT_SECONDS", "10"))
	if err != nil || timeoutSeconds <= 0 {
		timeoutSeconds = 10
	}

	return &Config{
		DBHost:        getEnv("DB_HOST", "localhost"),
		DBPort:        getEnv("DB_PORT", "5432"),
		DBUser:        getEnv("DB_USER", "postgres"),
		DBPassword:    getEnv("DB_PASSWORD", "postgres"),
		DBName:        getEnv("DB_NAME", "codetrack"),
		JWTSecret:     getEnv("JWT_SECRET", "secret"),
		ServerPort:    getEnv("SERVER_PORT", "8080"),
		Timezone:      getEnv("TIMEZONE", "UTC"),
		ScraperURL:    getEnv("SCRAPER_URL", "http://localhost:9090"),
		Platforms:     splitList(getEnv("PLATFORMS", "leetcode,codeforces")),
		ScrapeTimeout: time.Duration(timeoutSeconds) * time.Second,
	}, nil
}

// Location resolves the configured reference timezone.
func (c *Config) Location() (*time.Location, error) {
	return time.LoadLocation(c.Timezone)
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}
