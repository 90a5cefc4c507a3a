package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// LoadEnv loads variables from a .env file if present.
func LoadEnv() {
	if err := godotenv.Load(); err != nil {
		log.Printf("no .env file found: %v", err)
	}
}

// GetEnv returns an environment variable or a default value.
func GetEnv(key, defaultVal string) string {
	if val, ok := os.LookupEnv(key); ok && val != "" {
		return val
	}
	return defaultVal
}

// GetIntEnv returns an int environment variable or a default value.
func GetIntEnv(key string, defaultVal int) int {
	if val, ok := os.LookupEnv(key); ok {
		if i, err := strconv.Atoi(val); err == nil {
			return i
		}
	}
	return defaultVal
}

// GetDurationEnv returns a duration environment variable or a default value.
func GetDurationEnv(key string, defaultVal time.Duration) time.Duration {
	if val, ok := os.LookupEnv(key); ok {
		if d, err := time.ParseDuration(val); err == nil {
			return d
		}
	}
	return defaultVal
}

// GetBoolEnv returns a bool environment variable or a default value.
func GetBoolEnv(key string, defaultVal bool) bool {
	if val, ok := os.LookupEnv(key); ok {
		if b, err := strconv.ParseBool(val); err == nil {
			return b
		}
	}
	return defaultVal
}

// IsProduction checks if the app runs in production mode.
func IsProduction() bool {
	return GetEnv("ENV", "development") == "production"
}

// Config is the resolved application configuration.
type Config struct {
	Port        string
	CORSOrigins string

	LogLevel  string
	LogFormat string

	DBHost          string
	DBPort          string
	DBUser          string
	DBPassword      string
	DBName          string
	DBMaxIdleConns  int
	DBMaxOpenConns  int
	DBConnLifetime  time.Duration
	DBConnIdleTime  time.Duration
	RedisHost       string
	RedisPort       string
	RedisPassword   string
	RedisDB         int
	PreferencesTTL  time.Duration
	JWTSecret       string
	AccessTokenTTL  time.Duration
	RefreshTokenTTL time.Duration

	TokenizerMode   string
	StripeSecretKey string
	TokenizeTimeout time.Duration

	MinExpiryYear      int
	CvcVisibleDefault  bool
	SessionIdleTTL     time.Duration
	MaxSessionsPerUser int
}

// Load reads the environment into a Config, applying defaults.
func Load() Config {
	return Config{
		Port:        GetEnv("PORT", "3000"),
		CORSOrigins: GetEnv("CORS_ALLOW_ORIGINS", "http://localhost:5173"),

		LogLevel:  GetEnv("LOG_LEVEL", "info"),
		LogFormat: GetEnv("LOG_FORMAT", "text"),

		DBHost:          GetEnv("DB_HOST", "localhost"),
		DBPort:          GetEnv("DB_PORT", "5432"),
		DBUser:          GetEnv("DB_USER", "postgres"),
		DBPassword:      GetEnv("DB_PASSWORD", "postgres"),
		DBName:          GetEnv("DB_NAME", "cardpay"),
		DBMaxIdleConns:  GetIntEnv("DB_MAX_IDLE_CONNS", 10),
		DBMaxOpenConns:  GetIntEnv("DB_MAX_OPEN_CONNS", 100),
		DBConnLifetime:  GetDurationEnv("DB_CONN_MAX_LIFETIME", time.Hour),
		DBConnIdleTime:  GetDurationEnv("DB_CONN_MAX_IDLE_TIME", 30*time.Minute),
		RedisHost:       GetEnv("REDIS_HOST", "localhost"),
		RedisPort:       GetEnv("REDIS_PORT", "6379"),
		RedisPassword:   GetEnv("REDIS_PASSWORD", ""),
		RedisDB:         GetIntEnv("REDIS_DB", 0),
		PreferencesTTL:  GetDurationEnv("PREFERENCES_TTL", 0),
		JWTSecret:       GetEnv("JWT_SECRET", ""),
		AccessTokenTTL:  GetDurationEnv("ACCESS_TOKEN_TTL", 15*time.Minute),
		RefreshTokenTTL: GetDurationEnv("REFRESH_TOKEN_TTL", 7*24*time.Hour),

		TokenizerMode:   GetEnv("TOKENIZER", "stripe"),
		StripeSecretKey: GetEnv("STRIPE_SECRET_KEY", ""),
		TokenizeTimeout: GetDurationEnv("TOKENIZE_TIMEOUT", 30*time.Second),

		MinExpiryYear:      GetIntEnv("CARD_MIN_EXPIRY_YEAR", 2024),
		CvcVisibleDefault:  GetBoolEnv("CARD_CVC_VISIBLE", false),
		SessionIdleTTL:     GetDurationEnv("CARD_SESSION_IDLE_TTL", 15*time.Minute),
		MaxSessionsPerUser: GetIntEnv("CARD_MAX_SESSIONS_PER_USER", 5),
	}
}

// PostgresDSN builds the gorm postgres DSN.
func (c Config) PostgresDSN() string {
	return "host=" + c.DBHost +
		" user=" + c.DBUser +
		" password=" + c.DBPassword +
		" dbname=" + c.DBName +
		" port=" + c.DBPort +
		" sslmode=disable"
}
