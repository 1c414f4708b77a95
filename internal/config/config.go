package config

import (
	"github.com/caarlos0/env/v10"
	_ "github.com/joho/godotenv/autoload"

	"complaint-portal/internal/utils/mongodb"
)

// Config holds all application configuration
type Config struct {
	MongoDB mongodb.Config
	Server  ServerConfig
	Auth    AuthConfig
	Redis   RedisConfig
	Minio   MinioConfig
}

// ServerConfig holds server configuration
type ServerConfig struct {
	Port string `env:"SERVER_PORT" envDefault:"5000"`
	// AllowedOrigins is the comma-separated CORS allowlist for the dashboard.
	AllowedOrigins []string `env:"ALLOWED_ORIGINS" envSeparator:"," envDefault:"http://localhost:5173"`
	// NotificationURL is the outbound notification service; empty disables it.
	NotificationURL string `env:"NOTIFICATION_SERVICE_URL"`
}

// AuthConfig holds token and credential-resolution configuration
type AuthConfig struct {
	JWTSecret string `env:"JWT_SECRET,required"`
	TokenTTLH int    `env:"TOKEN_TTL_HOURS" envDefault:"72"`
	// Mode selects the identity-resolution strategy at startup:
	// "fixed" (demo credential store) or "directory" (credential bridge).
	Mode         string `env:"AUTH_MODE" envDefault:"fixed"`
	DirectoryURL string `env:"DIRECTORY_URL" envDefault:"http://credential-bridge:8389"`
	// Demo credentials for the fixed store, bcrypt-hashed.
	DemoUsername     string `env:"DEMO_USERNAME" envDefault:"test"`
	DemoPasswordHash string `env:"DEMO_PASSWORD_HASH"`
	DemoRole         string `env:"DEMO_ROLE" envDefault:"cow"`
}

// RedisConfig holds the revocation-list store configuration
type RedisConfig struct {
	Addr     string `env:"REDIS_ADDR" envDefault:"localhost:6379"`
	Password string `env:"REDIS_PASSWORD"`
	DB       int    `env:"REDIS_DB" envDefault:"0"`
}

// MinioConfig holds the attachment object-store configuration
type MinioConfig struct {
	Endpoint  string `env:"MINIO_ENDPOINT" envDefault:"localhost:9000"`
	AccessKey string `env:"MINIO_ACCESS_KEY"`
	SecretKey string `env:"MINIO_SECRET_KEY"`
	Bucket    string `env:"MINIO_BUCKET" envDefault:"complaint-uploads"`
}

// NewConfig creates a new Config
func NewConfig() (*Config, error) {
	cfg := new(Config)
	err := env.Parse(cfg)

	return cfg, err
}
