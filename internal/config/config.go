package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/viper"
)

const (
	StoreMemory   = "memory"
	StoreSQLite   = "sqlite"
	StorePostgres = "postgres"

	devJWTSecret = "dev-secret-change-me"
)

// Config holds the application configuration.
type Config struct {
	Port     string `mapstructure:"PORT"`
	Env      string `mapstructure:"ENV"`
	LogLevel string `mapstructure:"LOG_LEVEL"`

	StoreDriver string `mapstructure:"STORE_DRIVER"`
	DatabaseURL string `mapstructure:"DATABASE_URL"`

	JWTSecret string        `mapstructure:"JWT_SECRET"`
	TokenTTL  time.Duration `mapstructure:"TOKEN_TTL"`

	// LockTimeout bounds how long a request waits for a busy lobby.
	LockTimeout      time.Duration `mapstructure:"LOCK_TIMEOUT"`
	SubscriberBuffer int           `mapstructure:"SUBSCRIBER_BUFFER"`
	BcryptCost       int           `mapstructure:"BCRYPT_COST"`

	// PurgeAfter is how long a deleted lobby is kept before it is removed for good. 0 keeps it forever.
	PurgeAfter    time.Duration `mapstructure:"PURGE_AFTER"`
	PurgeInterval time.Duration `mapstructure:"PURGE_INTERVAL"`

	RedisURL     string `mapstructure:"REDIS_URL"`
	RedisChannel string `mapstructure:"REDIS_CHANNEL"`
}

func (c *Config) IsDevelopment() bool {
	return c.Env == "development"
}

// Load reads configuration from a .env file in dir (if present) and environment variables.
// Environment variables win over the file.
func Load(dir string) (*Config, error) {
	v := viper.New()
	v.AddConfigPath(dir)
	v.SetConfigName(".env")
	v.SetConfigType("env")

	v.AutomaticEnv()
	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("PORT", "8080")
	v.SetDefault("ENV", "development")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("STORE_DRIVER", StoreMemory)
	v.SetDefault("DATABASE_URL", "")
	v.SetDefault("JWT_SECRET", devJWTSecret)
	v.SetDefault("TOKEN_TTL", 7*24*time.Hour)
	v.SetDefault("LOCK_TIMEOUT", 2*time.Second)
	v.SetDefault("SUBSCRIBER_BUFFER", 64)
	v.SetDefault("BCRYPT_COST", 10)
	v.SetDefault("PURGE_AFTER", 24*time.Hour)
	v.SetDefault("PURGE_INTERVAL", 10*time.Minute)
	v.SetDefault("REDIS_URL", "")
	v.SetDefault("REDIS_CHANNEL", "squadup:lobby-events")
}

// Validate rejects settings the server cannot start with.
func (c *Config) Validate() error {
	switch c.StoreDriver {
	case StoreMemory, StoreSQLite:
	case StorePostgres:
		if c.DatabaseURL == "" {
			return errors.New("DATABASE_URL is required for the postgres store")
		}
	default:
		return fmt.Errorf("unknown STORE_DRIVER %q", c.StoreDriver)
	}
	if c.LockTimeout <= 0 {
		return errors.New("LOCK_TIMEOUT must be positive")
	}
	if c.SubscriberBuffer <= 0 {
		return errors.New("SUBSCRIBER_BUFFER must be positive")
	}
	if c.TokenTTL <= 0 {
		return errors.New("TOKEN_TTL must be positive")
	}
	if c.BcryptCost < 4 || c.BcryptCost > 31 {
		return errors.New("BCRYPT_COST must be between 4 and 31")
	}
	if c.PurgeAfter > 0 && c.PurgeInterval <= 0 {
		return errors.New("PURGE_INTERVAL must be positive when PURGE_AFTER is set")
	}
	if !c.IsDevelopment() && (c.JWTSecret == "" || c.JWTSecret == devJWTSecret) {
		return errors.New("JWT_SECRET must be set outside development")
	}
	return nil
}
