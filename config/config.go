package config

import (
	"log"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type RateLimitRule struct {
	Max    int           `mapstructure:"max"`
	Window time.Duration `mapstructure:"window"`
}

type Config struct {
	Env    string `mapstructure:"env"`
	Server struct {
		Port string `mapstructure:"port"`
	} `mapstructure:"server"`
	Database struct {
		Host        string `mapstructure:"host"`
		Port        string `mapstructure:"port"`
		User        string `mapstructure:"user"`
		Password    string `mapstructure:"password"`
		Name        string `mapstructure:"name"`
		AutoMigrate bool   `mapstructure:"auto_migrate"`
	} `mapstructure:"database"`
	Redis struct {
		Host     string `mapstructure:"host"`
		Port     string `mapstructure:"port"`
		Password string `mapstructure:"password"`
	} `mapstructure:"redis"`
	JWT struct {
		AccessSecret  string        `mapstructure:"access_secret"`
		RefreshSecret string        `mapstructure:"refresh_secret"`
		AccessTTL     time.Duration `mapstructure:"access_ttl"`
		RefreshTTL    time.Duration `mapstructure:"refresh_ttl"`
	} `mapstructure:"jwt"`
	Bcrypt struct {
		Cost int `mapstructure:"cost"`
	} `mapstructure:"bcrypt"`
	RateLimit struct {
		Auth    RateLimitRule `mapstructure:"auth"`
		Refresh RateLimitRule `mapstructure:"refresh"`
		API     RateLimitRule `mapstructure:"api"`
	} `mapstructure:"rate_limit"`
}

// IsProduction reports whether the process runs in a production-like
// environment. The refresh cookie is only marked Secure in this mode.
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

var AppConfig Config

func LoadConfig(path string) {
	viper.AddConfigPath(path)
	viper.SetConfigName("config")
	viper.SetConfigType("yml")

	setDefaults()

	// Environment variables override file values, e.g. JWT_ACCESS_SECRET.
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		// The config file is optional; environment variables and the
		// defaults above cover the full surface.
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			log.Fatalf("Error reading config file, %s", err)
		}
	}

	if err := viper.Unmarshal(&AppConfig); err != nil {
		log.Fatalf("Unable to decode into struct, %v", err)
	}

	validate(&AppConfig)
}

func setDefaults() {
	viper.SetDefault("env", "development")
	viper.SetDefault("server.port", "8080")

	viper.SetDefault("database.host", "localhost")
	viper.SetDefault("database.port", "5432")
	viper.SetDefault("database.auto_migrate", false)

	viper.SetDefault("redis.host", "localhost")
	viper.SetDefault("redis.port", "6379")

	viper.SetDefault("jwt.access_ttl", "15m")
	viper.SetDefault("jwt.refresh_ttl", "168h") // 7 days

	viper.SetDefault("bcrypt.cost", 12)

	viper.SetDefault("rate_limit.auth.max", 5)
	viper.SetDefault("rate_limit.auth.window", "15m")
	viper.SetDefault("rate_limit.refresh.max", 10)
	viper.SetDefault("rate_limit.refresh.window", "15m")
	viper.SetDefault("rate_limit.api.max", 100)
	viper.SetDefault("rate_limit.api.window", "15m")
}

// The access/refresh secret pair must never collapse into one: a token
// signed with one secret verifying under the other would make the two
// token kinds interchangeable.
func validate(cfg *Config) {
	if cfg.JWT.AccessSecret == "" || cfg.JWT.RefreshSecret == "" {
		log.Fatal("jwt.access_secret and jwt.refresh_secret must be set")
	}
	if cfg.JWT.AccessSecret == cfg.JWT.RefreshSecret {
		log.Fatal("jwt.access_secret and jwt.refresh_secret must differ")
	}
	if cfg.JWT.AccessTTL > cfg.JWT.RefreshTTL {
		log.Fatal("jwt.access_ttl must not exceed jwt.refresh_ttl")
	}
}
