package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds everything the application needs at startup, built once in
// main and passed down explicitly. Nothing below reads the environment
// after Load returns.
type Config struct {
	Server      ServerConfig
	Database    DatabaseConfig
	Auth        AuthConfig
	Gateway     GatewayConfig
	Storage     StorageConfig
	Entitlement EntitlementConfig
}

type ServerConfig struct {
	Port string
	// BaseURL is the address the payment gateway calls back on. It must be
	// reachable from outside (the phone and the gateway), not localhost.
	BaseURL     string
	FrontendURL string
	CORSOrigins []string
}

type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	Name     string
}

type AuthConfig struct {
	JWTSecret     string
	AccessExpiry  time.Duration
	RefreshExpiry time.Duration
}

// GatewayConfig carries the SSLCommerz store credentials and the static
// merchant/customer metadata the session-create API requires.
type GatewayConfig struct {
	StoreID       string
	StorePassword string
	Sandbox       bool
	Timeout       time.Duration
	Currency      string
	ProductName   string
	CustomerName  string
	CustomerCity  string
	CustomerPhone string
}

type StorageConfig struct {
	Region          string
	Bucket          string
	AccessKeyID     string
	SecretAccessKey string
	Endpoint        string
	// VideoURLExpiry bounds the lifetime of presigned playback URLs.
	VideoURLExpiry time.Duration
}

type EntitlementConfig struct {
	// FreeDayLimit is the last day served without a paid profile.
	FreeDayLimit int
}

func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s",
		d.User, d.Password, d.Host, d.Port, d.Name)
}

// Load reads .env.local if present, then the environment.
func Load() (*Config, error) {
	_ = godotenv.Load(".env.local")

	cfg := &Config{
		Server: ServerConfig{
			Port:        getEnv("PORT", "5050"),
			BaseURL:     getEnv("BASE_URL", "http://localhost:5050"),
			FrontendURL: getEnv("FRONTEND_URL", ""),
			CORSOrigins: []string{"*"},
		},
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", "5432"),
			User:     getEnv("DB_USER", "postgres"),
			Password: os.Getenv("DB_PASSWORD"),
			Name:     getEnv("DB_NAME", "sobol"),
		},
		Auth: AuthConfig{
			JWTSecret:     os.Getenv("JWT_SECRET"),
			AccessExpiry:  getDuration("JWT_ACCESS_EXPIRY", 24*time.Hour),
			RefreshExpiry: getDuration("JWT_REFRESH_EXPIRY", 7*24*time.Hour),
		},
		Gateway: GatewayConfig{
			StoreID:       os.Getenv("SSLCZ_STORE_ID"),
			StorePassword: os.Getenv("SSLCZ_STORE_PASSWD"),
			Sandbox:       getBool("SSLCZ_SANDBOX", true),
			Timeout:       getDuration("SSLCZ_TIMEOUT", 15*time.Second),
			Currency:      getEnv("SSLCZ_CURRENCY", "BDT"),
			ProductName:   getEnv("SSLCZ_PRODUCT_NAME", "Premium Subscription"),
			CustomerName:  getEnv("SSLCZ_CUSTOMER_NAME", "Sobol User"),
			CustomerCity:  getEnv("SSLCZ_CUSTOMER_CITY", "Dhaka"),
			CustomerPhone: getEnv("SSLCZ_CUSTOMER_PHONE", "01711111111"),
		},
		Storage: StorageConfig{
			Region:          getEnv("S3_REGION", "us-east-1"),
			Bucket:          getEnv("S3_BUCKET", "video-content"),
			AccessKeyID:     os.Getenv("S3_ACCESS_KEY_ID"),
			SecretAccessKey: os.Getenv("S3_SECRET_ACCESS_KEY"),
			Endpoint:        os.Getenv("S3_ENDPOINT"),
			VideoURLExpiry:  getDuration("VIDEO_URL_EXPIRY", time.Hour),
		},
		Entitlement: EntitlementConfig{
			FreeDayLimit: getInt("FREE_DAY_LIMIT", 3),
		},
	}

	if cfg.Auth.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET is required")
	}
	if cfg.Gateway.StoreID == "" || cfg.Gateway.StorePassword == "" {
		return nil, fmt.Errorf("SSLCZ_STORE_ID and SSLCZ_STORE_PASSWD are required")
	}
	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func getBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}

func getDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}
