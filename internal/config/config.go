package config

import (
	"errors"
	"fmt"

	// Environment variables
	_ "github.com/joho/godotenv/autoload"
	"github.com/spf13/viper"
)

// Config holds all configuration values. Every key can be set from the
// environment (or a .env file) and from an optional config.yaml.
type Config struct {
	AppPort string `mapstructure:"APP_PORT"`
	Env     string `mapstructure:"ENV"`

	// DBDriver selects the datastore: "postgres" or "memory".
	DBDriver       string `mapstructure:"DB_DRIVER"`
	DBHost         string `mapstructure:"DB_HOST"`
	DBPort         string `mapstructure:"DB_PORT"`
	DBDatabase     string `mapstructure:"DB_DATABASE"`
	DBUsername     string `mapstructure:"DB_USERNAME"`
	DBPassword     string `mapstructure:"DB_PASSWORD"`
	DBSchema       string `mapstructure:"DB_SCHEMA"`
	DBSSLMode      string `mapstructure:"DB_SSLMODE"`
	DBAutoMigrate  bool   `mapstructure:"DB_AUTO_MIGRATE"`
	MigrationsPath string `mapstructure:"MIGRATIONS_PATH"`

	// NotifyBackend selects where change notifications come from:
	// "postgres" (LISTEN/NOTIFY), "redis" (pub/sub) or "none".
	NotifyBackend string `mapstructure:"NOTIFY_BACKEND"`
	RedisAddr     string `mapstructure:"REDIS_ADDR"`
	RedisPassword string `mapstructure:"REDIS_PASSWORD"`
	RedisDB       int    `mapstructure:"REDIS_DB"`
	RedisChannel  string `mapstructure:"REDIS_CHANNEL"`

	// RefreshCron is a cron spec for periodic full reloads. Empty disables polling.
	RefreshCron string `mapstructure:"REFRESH_CRON"`

	CatalogPath string `mapstructure:"CATALOG_PATH"`

	RateLimitRPS   float64 `mapstructure:"RATE_LIMIT_RPS"`
	RateLimitBurst int     `mapstructure:"RATE_LIMIT_BURST"`

	LogLevel  string `mapstructure:"LOG_LEVEL"`
	LogFormat string `mapstructure:"LOG_FORMAT"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("APP_PORT", "8080")
	v.SetDefault("ENV", "development")
	v.SetDefault("DB_DRIVER", "postgres")
	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", "5432")
	v.SetDefault("DB_DATABASE", "chalet")
	v.SetDefault("DB_USERNAME", "postgres")
	v.SetDefault("DB_PASSWORD", "")
	v.SetDefault("DB_SCHEMA", "public")
	v.SetDefault("DB_SSLMODE", "disable")
	v.SetDefault("DB_AUTO_MIGRATE", false)
	v.SetDefault("MIGRATIONS_PATH", "migrations")
	v.SetDefault("NOTIFY_BACKEND", "postgres")
	v.SetDefault("REDIS_ADDR", "localhost:6379")
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)
	v.SetDefault("REDIS_CHANNEL", "chalet:bookings:changed")
	v.SetDefault("REFRESH_CRON", "@every 5m")
	v.SetDefault("CATALOG_PATH", "")
	v.SetDefault("RATE_LIMIT_RPS", 1.0)
	v.SetDefault("RATE_LIMIT_BURST", 3)
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")
}

// Load reads config.yaml from the given directories (the working directory
// and ./config when none are given), then overlays environment variables.
// A missing file is not an error.
func Load(paths ...string) (*Config, error) {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	if len(paths) == 0 {
		paths = []string{".", "./config"}
	}
	for _, p := range paths {
		v.AddConfigPath(p)
	}
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
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	switch c.DBDriver {
	case "postgres", "memory":
	default:
		return fmt.Errorf("unknown DB_DRIVER %q", c.DBDriver)
	}
	switch c.NotifyBackend {
	case "postgres", "redis", "none":
	default:
		return fmt.Errorf("unknown NOTIFY_BACKEND %q", c.NotifyBackend)
	}
	if c.DBDriver == "memory" && c.NotifyBackend == "postgres" {
		// the in-memory store signals changes itself
		c.NotifyBackend = "none"
	}
	if c.RateLimitRPS <= 0 || c.RateLimitBurst <= 0 {
		return errors.New("RATE_LIMIT_RPS and RATE_LIMIT_BURST must be positive")
	}
	return nil
}

// DatabaseURL is the PostgreSQL connection URL shared by the pgx driver,
// the LISTEN connection and golang-migrate.
func (c *Config) DatabaseURL() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=%s&search_path=%s",
		c.DBUsername, c.DBPassword, c.DBHost, c.DBPort, c.DBDatabase, c.DBSSLMode, c.DBSchema,
	)
}

func (c *Config) Addr() string {
	return ":" + c.AppPort
}

func (c *Config) IsProduction() bool {
	return c.Env == "production"
}
