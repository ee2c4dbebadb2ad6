package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds runtime configuration values for the API service.
type Config struct {
	AppName          string
	AppEnv           string
	AppPort          string
	DatabaseURL      string
	RedisURL         string
	JWTSecret        string
	TokenTTL         time.Duration
	TagStatsCacheTTL time.Duration
	IdentityBaseURL  string
	IdentityAPIKey   string
	SeedEnabled      bool
	SeedToken        string
}

// HTTPAddress returns the address the HTTP server should listen on.
func (c Config) HTTPAddress() string {
	if strings.HasPrefix(c.AppPort, ":") {
		return c.AppPort
	}

	return fmt.Sprintf(":%s", c.AppPort)
}

// Load reads configuration values from environment variables and optional .env file.
func Load() (Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetEnvPrefix("HAGWON")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	v.SetDefault("app.name", "Hagwon API")
	v.SetDefault("app.env", "development")
	v.SetDefault("app.port", "8080")
	v.SetDefault("token.ttl", "12h")
	v.SetDefault("tag_stats.cache_ttl", "5m")
	v.SetDefault("seed.enabled", false)

	tokenTTL, err := time.ParseDuration(v.GetString("token.ttl"))
	if err != nil {
		return Config{}, fmt.Errorf("invalid token ttl: %w", err)
	}

	statsTTL, err := time.ParseDuration(v.GetString("tag_stats.cache_ttl"))
	if err != nil {
		return Config{}, fmt.Errorf("invalid tag stats cache ttl: %w", err)
	}

	cfg := Config{
		AppName:          v.GetString("app.name"),
		AppEnv:           v.GetString("app.env"),
		AppPort:          v.GetString("app.port"),
		DatabaseURL:      v.GetString("database.url"),
		RedisURL:         v.GetString("redis.url"),
		JWTSecret:        v.GetString("jwt.secret"),
		TokenTTL:         tokenTTL,
		TagStatsCacheTTL: statsTTL,
		IdentityBaseURL:  v.GetString("identity.base_url"),
		IdentityAPIKey:   v.GetString("identity.api_key"),
		SeedEnabled:      v.GetBool("seed.enabled"),
		SeedToken:        v.GetString("seed.token"),
	}

	if cfg.JWTSecret == "" {
		return Config{}, fmt.Errorf("jwt secret must be provided")
	}

	return cfg, nil
}
