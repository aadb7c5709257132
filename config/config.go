package config

import (
	"log"

	"github.com/spf13/viper"
)

// Config holds all configuration values.
type Config struct {
	AppPort           string `mapstructure:"APP_PORT"`
	DatabaseURL       string `mapstructure:"DATABASE_URL"`
	DatabaseName      string `mapstructure:"DATABASE_NAME"`
	Env               string `mapstructure:"ENV"`
	JWTSecret         string `mapstructure:"JWT_SECRET"`
	LogLevel          string `mapstructure:"LOG_LEVEL"`
	MaxRequestsPerMin int    `mapstructure:"MAX_REQUESTS_PER_MIN"`

	// Redis configuration.
	RedisAddr      string `mapstructure:"REDIS_ADDR"`
	RedisPassword  string `mapstructure:"REDIS_PASSWORD"`
	RedisCacheDB   int    `mapstructure:"REDIS_CACHE_DB"`
	RedisSessionDB int    `mapstructure:"REDIS_SESSION_DB"`
	RedisPaymentDB int    `mapstructure:"REDIS_PAYMENT_DB"`
	RedisWorkerDB  int    `mapstructure:"REDIS_WORKER_DB"`

	// Payment rails.
	StripeKey            string `mapstructure:"STRIPE_KEY"`
	CryptoRequestTTLMin  int    `mapstructure:"CRYPTO_REQUEST_TTL_MIN"`
	WizardSessionTTLMin  int    `mapstructure:"WIZARD_SESSION_TTL_MIN"`
	SessionTokenTTLHours int    `mapstructure:"SESSION_TOKEN_TTL_HOURS"`

	// Cloudinary document storage.
	CloudinaryURL         string `mapstructure:"CLOUDINARY_URL"`
	CloudinaryCloudName   string `mapstructure:"CLOUDINARY_CLOUD_NAME"`
	CloudinaryAPISecret   string `mapstructure:"CLOUDINARY_API_SECRET"`
	DocumentEncryptionKey string `mapstructure:"DOCUMENT_ENCRYPTION_KEY"`

	// Firebase push notifications.
	FirebaseCredentialsFile string `mapstructure:"FIREBASE_CREDENTIALS_FILE"`
}

var AppConfig Config

func LoadConfig() {
	// Look for a config file named "config.yaml" in the current and "config" directory.
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./config")
	// Automatically use environment variables where available.
	viper.AutomaticEnv()

	// Set default values.
	viper.SetDefault("APP_PORT", "8080")
	viper.SetDefault("ENV", "development")
	viper.SetDefault("LOG_LEVEL", "info")
	viper.SetDefault("MAX_REQUESTS_PER_MIN", 100)
	viper.SetDefault("REDIS_ADDR", "localhost:6379")
	viper.SetDefault("REDIS_PASSWORD", "")
	viper.SetDefault("REDIS_CACHE_DB", 0)
	viper.SetDefault("REDIS_SESSION_DB", 1)
	viper.SetDefault("REDIS_PAYMENT_DB", 2)
	viper.SetDefault("REDIS_WORKER_DB", 3)
	viper.SetDefault("DATABASE_URL", "mongodb://localhost:27017")
	viper.SetDefault("DATABASE_NAME", "meditravel")
	viper.SetDefault("CRYPTO_REQUEST_TTL_MIN", 15)
	viper.SetDefault("WIZARD_SESSION_TTL_MIN", 60)
	viper.SetDefault("SESSION_TOKEN_TTL_HOURS", 72)

	if err := viper.ReadInConfig(); err != nil {
		log.Println("No config file found, using environment variables only")
	}

	if err := viper.Unmarshal(&AppConfig); err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
}

func GetEnv() string {
	return AppConfig.Env
}

func IsProduction() bool {
	return GetEnv() == "production"
}
