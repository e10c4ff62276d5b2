package config

import (
	"os"      // For environment variables
	"strconv" // For string to int conversion
	"strings" // For parsing the admin id list
	"time"    // Cache TTL duration

	"github.com/joho/godotenv" // For loading .env files
)

// Config holds the application configuration
type Config struct {
	AppPort    string        // Application port
	DBUser     string        // Database user
	DBPassword string        // Database password
	DBHost     string        // Database host
	DBPort     string        // Database port
	DBName     string        // Database name
	JWTSecret  string        // JWT secret key
	RedisAddr  string        // Redis server address
	RedisPass  string        // Redis password
	RedisDB    int           // Redis database number
	AdminIDs   []uint        // Account ids allowed to call admin endpoints
	CacheTTL   time.Duration // Read-cache entry lifetime
	IsProd     bool          // Is production environment
}

// IsAdmin reports whether the account id is on the admin allowlist.
func (c *Config) IsAdmin(id uint) bool {
	for _, admin := range c.AdminIDs {
		if admin == id {
			return true
		}
	}
	return false
}

// LoadConfig loads configuration from environment variables
func LoadConfig() *Config {
	_ = godotenv.Load() // Load .env file if present
	redisDB, _ := strconv.Atoi(os.Getenv("REDIS_DB"))
	cacheTTL := 300 * time.Second // Default TTL of five minutes
	if v, err := strconv.Atoi(os.Getenv("CACHE_TTL_SECONDS")); err == nil && v > 0 {
		cacheTTL = time.Duration(v) * time.Second
	}
	return &Config{
		AppPort:    os.Getenv("APP_PORT"),                 // Application port
		DBUser:     os.Getenv("DB_USER"),                  // Database user
		DBPassword: os.Getenv("DB_PASSWORD"),              // Database password
		DBHost:     os.Getenv("DB_HOST"),                  // Database host
		DBPort:     os.Getenv("DB_PORT"),                  // Database port
		DBName:     os.Getenv("DB_NAME"),                  // Database name
		JWTSecret:  os.Getenv("JWT_SECRET"),               // JWT secret key
		RedisAddr:  os.Getenv("REDIS_ADDR"),               // Redis server address
		RedisPass:  os.Getenv("REDIS_PASS"),               // Redis password
		RedisDB:    redisDB,                               // Redis database number
		AdminIDs:   parseAdminIDs(os.Getenv("ADMIN_IDS")), // Admin allowlist
		CacheTTL:   cacheTTL,                              // Read-cache TTL
		IsProd:     os.Getenv("IS_PROD") == "true",        // Is production environment
	}
}

// parseAdminIDs parses a comma-separated list of account ids
func parseAdminIDs(raw string) []uint {
	var ids []uint
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		if v, err := strconv.ParseUint(part, 10, 64); err == nil {
			ids = append(ids, uint(v))
		}
	}
	return ids
}
