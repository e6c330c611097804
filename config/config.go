package config

import (
	"log"

	"github.com/spf13/viper"
)

// Config holds all configuration values.
type Config struct {
	AppPort  string `mapstructure:"APP_PORT"`
	Env      string `mapstructure:"ENV"`
	LogLevel string `mapstructure:"LOG_LEVEL"`

	MongoURL string `mapstructure:"MONGO_URL"`

	// Amadeus credentials.
	AmadeusClientID     string `mapstructure:"AMADEUS_CLIENT_ID"`
	AmadeusClientSecret string `mapstructure:"AMADEUS_CLIENT_SECRET"`
	GuestOfficeID       string `mapstructure:"GUEST_OFFICE_ID"`
	AmaClientRef        string `mapstructure:"AMA_CLIENT_REF"`

	// Paystack secret keys, selected by environment.
	PaystackSecretTestKey string `mapstructure:"PAYSTACK_SECRET_TEST_KEY"`
	PaystackSecretLiveKey string `mapstructure:"PAYSTACK_SECRET_LIVE_KEY"`

	// Mail transport (no-reply sender) and the operator copy address.
	MailHost      string `mapstructure:"MAIL_HOST"`
	MailPort      int    `mapstructure:"MAIL_PORT"`
	MailUser      string `mapstructure:"AUTH_EMAIL_NO_REPLY"`
	MailPass      string `mapstructure:"AUTH_PASS_NO_REPLY"`
	OperatorEmail string `mapstructure:"OPERATOR_EMAIL"`

	// Shared symmetric key for the issue-ticket payload.
	BookingSharedKey string `mapstructure:"BOOKING_SHARED_KEY"`

	// Redis configuration.
	RedisAddr     string `mapstructure:"REDIS_ADDR"`
	RedisPassword string `mapstructure:"REDIS_PASSWORD"`
	RedisCacheDB  int    `mapstructure:"REDIS_CACHE_DB"`
	RedisQueueDB  int    `mapstructure:"REDIS_QUEUE_DB"`

	MaxRequestsPerMin int `mapstructure:"MAX_REQUESTS_PER_MIN"`

	// Carrier commission percentages keyed by carrier code.
	Commissions map[string]float64 `mapstructure:"COMMISSIONS"`
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
	viper.SetDefault("MONGO_URL", "mongodb://localhost:27017")
	viper.SetDefault("MAIL_HOST", "smtp.gmail.com")
	viper.SetDefault("MAIL_PORT", 587)
	viper.SetDefault("REDIS_ADDR", "localhost:6379")
	viper.SetDefault("REDIS_PASSWORD", "")
	viper.SetDefault("REDIS_CACHE_DB", 0)
	viper.SetDefault("REDIS_QUEUE_DB", 1)
	viper.SetDefault("MAX_REQUESTS_PER_MIN", 100)

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

// PaystackSecretKey returns the gateway secret for the current environment.
func PaystackSecretKey() string {
	if IsProduction() {
		return AppConfig.PaystackSecretLiveKey
	}
	return AppConfig.PaystackSecretTestKey
}

// AmadeusBaseURL returns the carrier API base URL for the current environment.
func AmadeusBaseURL() string {
	if IsProduction() {
		return "https://travel.api.amadeus.com"
	}
	return "https://test.travel.api.amadeus.com"
}
