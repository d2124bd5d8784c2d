package config

import (
	"github.com/spf13/viper"
)

// Config is the full runtime configuration, read from environment
// variables with defaults suitable for local development.
type Config struct {
	AppPort       string
	ProductAPIURL string
	JWTSecret     string
	AdminUsername string
	AdminPassword string
	RabbitMQURL   string
	StubEnabled   bool
	StubPort      string
	StubDSN       string
	LogLevel      string
}

// Load reads configuration through viper. Every value can be overridden
// from the environment.
func Load() Config {
	viper.SetDefault("APP_PORT", ":8080")
	viper.SetDefault("PRODUCT_API_URL", "https://dummyjson.com/products")
	viper.SetDefault("JWT_SECRET", "warung_dev_secret")
	viper.SetDefault("ADMIN_USERNAME", "admin")
	viper.SetDefault("ADMIN_PASSWORD", "admin")
	viper.SetDefault("RABBITMQ_URL", "") // empty disables event publishing
	viper.SetDefault("STUB_ENABLED", false)
	viper.SetDefault("STUB_PORT", ":8081")
	viper.SetDefault("STUB_DSN", "file::memory:?cache=shared")
	viper.SetDefault("LOG_LEVEL", "info")
	viper.AutomaticEnv()

	return Config{
		AppPort:       viper.GetString("APP_PORT"),
		ProductAPIURL: viper.GetString("PRODUCT_API_URL"),
		JWTSecret:     viper.GetString("JWT_SECRET"),
		AdminUsername: viper.GetString("ADMIN_USERNAME"),
		AdminPassword: viper.GetString("ADMIN_PASSWORD"),
		RabbitMQURL:   viper.GetString("RABBITMQ_URL"),
		StubEnabled:   viper.GetBool("STUB_ENABLED"),
		StubPort:      viper.GetString("STUB_PORT"),
		StubDSN:       viper.GetString("STUB_DSN"),
		LogLevel:      viper.GetString("LOG_LEVEL"),
	}
}
