package config

import (
	"os"
	"strconv"
	"time"

	"booking/internal/domain"
)

// Config holds all configuration for the application.
type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Redis    RedisConfig
	NewRelic NewRelicConfig
	Maps     MapsConfig
	Gateway  GatewayConfig
	Admin    AdminConfig
	Pricing  PricingConfig
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Port         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// DatabaseConfig holds PostgreSQL configuration.
type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string
}

// RedisConfig holds Redis configuration.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// NewRelicConfig holds New Relic configuration.
type NewRelicConfig struct {
	AppName    string
	LicenseKey string
	Enabled    bool
}

// MapsConfig holds distance provider configuration. An empty APIKey is a
// valid state: pricing then reports distance unavailable instead of guessing.
type MapsConfig struct {
	APIKey  string
	Timeout time.Duration
}

// GatewayConfig holds payment gateway configuration.
type GatewayConfig struct {
	SecretKey     string
	WebhookSecret string
	BaseURL       string
	SuccessURL    string
	CancelURL     string
	Timeout       time.Duration
}

// AdminConfig holds administrator authentication configuration.
// PasswordHash is a bcrypt hash; tokens are HS256 JWTs signed with JWTSecret.
type AdminConfig struct {
	Username          string
	PasswordHash      string
	JWTSecret         string
	SessionTTL        time.Duration
	CaptureOnComplete bool
}

// PricingConfig holds fare calculation constants. All amounts are in cents.
type PricingConfig struct {
	BaseFares               map[domain.VehicleClass]int64
	TierMiles               float64
	StartRateCents          int64
	RateStepCents           int64
	FloorRateCents          int64
	IncludedPassengers      int
	PassengerSurchargeCents int64
}

// Load loads configuration from environment variables.
func Load() *Config {
	return &Config{
		Server: ServerConfig{
			Port:         getEnv("SERVER_PORT", "8080"),
			ReadTimeout:  getDurationEnv("SERVER_READ_TIMEOUT", 10*time.Second),
			WriteTimeout: getDurationEnv("SERVER_WRITE_TIMEOUT", 10*time.Second),
		},
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", "5432"),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", "postgres"),
			DBName:   getEnv("DB_NAME", "ride_booking"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
		},
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", "localhost:6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getIntEnv("REDIS_DB", 0),
		},
		NewRelic: NewRelicConfig{
			AppName:    getEnv("NEW_RELIC_APP_NAME", "ride-booking-service"),
			LicenseKey: getEnv("NEW_RELIC_LICENSE_KEY", ""),
			Enabled:    getBoolEnv("NEW_RELIC_ENABLED", false),
		},
		Maps: MapsConfig{
			APIKey:  getEnv("GOOGLE_MAPS_API_KEY", ""),
			Timeout: getDurationEnv("MAPS_TIMEOUT", 5*time.Second),
		},
		Gateway: GatewayConfig{
			SecretKey:     getEnv("GATEWAY_SECRET_KEY", ""),
			WebhookSecret: getEnv("GATEWAY_WEBHOOK_SECRET", ""),
			BaseURL:       getEnv("GATEWAY_BASE_URL", "https://api.stripe.com"),
			SuccessURL:    getEnv("CHECKOUT_SUCCESS_URL", "http://localhost:3000/confirm"),
			CancelURL:     getEnv("CHECKOUT_CANCEL_URL", "http://localhost:3000/book"),
			Timeout:       getDurationEnv("GATEWAY_TIMEOUT", 15*time.Second),
		},
		Admin: AdminConfig{
			Username:          getEnv("ADMIN_USERNAME", "admin"),
			PasswordHash:      getEnv("ADMIN_PASSWORD_HASH", ""),
			JWTSecret:         getEnv("ADMIN_JWT_SECRET", ""),
			SessionTTL:        getDurationEnv("ADMIN_SESSION_TTL", 24*time.Hour),
			CaptureOnComplete: getBoolEnv("ADMIN_CAPTURE_ON_COMPLETE", false),
		},
		Pricing: PricingConfig{
			BaseFares: map[domain.VehicleClass]int64{
				domain.VehicleClassStandard: getInt64Env("PRICING_BASE_STANDARD_CENTS", 500),
				domain.VehicleClassSUV:      getInt64Env("PRICING_BASE_SUV_CENTS", 500),
				domain.VehicleClassLuxury:   getInt64Env("PRICING_BASE_LUXURY_CENTS", 500),
			},
			TierMiles:               getFloatEnv("PRICING_TIER_MILES", 10),
			StartRateCents:          getInt64Env("PRICING_START_RATE_CENTS", 180),
			RateStepCents:           getInt64Env("PRICING_RATE_STEP_CENTS", 10),
			FloorRateCents:          getInt64Env("PRICING_FLOOR_RATE_CENTS", 100),
			IncludedPassengers:      getIntEnv("PRICING_INCLUDED_PASSENGERS", 2),
			PassengerSurchargeCents: getInt64Env("PRICING_PASSENGER_SURCHARGE_CENTS", 500),
		},
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getIntEnv(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getInt64Env(key string, defaultValue int64) int64 {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.ParseInt(value, 10, 64); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getFloatEnv(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatVal, err := strconv.ParseFloat(value, 64); err == nil {
			return floatVal
		}
	}
	return defaultValue
}

func getBoolEnv(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultValue
}

func getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}
