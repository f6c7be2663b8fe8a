package config

import (
	"fmt"
	"os"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
)

type Configs struct {
	Env      string `validate:"required"`
	LogLevel string

	Database    DatabaseConfigs
	ApiServer   ServerConfigs
	Auth        AuthConfigs
	Redis       RedisConfigs
	Kafka       KafkaConfigs
	Achievement AchievementConfigs
}

type DatabaseConfigs struct {
	Driver   string `validate:"oneof=mysql sqlite"`
	Host     string
	Port     string
	Database string `validate:"required"`
	User     string
	Password string
}

// ConnectionString returns the DSN for the configured driver. For sqlite,
// Database is the file path (or ":memory:").
func (d *DatabaseConfigs) ConnectionString() string {
	if d.Driver == "sqlite" {
		return d.Database
	}

	return fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=UTC",
		d.User,
		d.Password,
		d.Host,
		d.Port,
		d.Database,
	)
}

type ServerConfigs struct {
	Host         string
	Port         string `validate:"required"`
	AllowOrigins []string
}

func (c ServerConfigs) Address() string {
	return fmt.Sprintf("%s:%s", c.Host, c.Port)
}

type AuthConfigs struct {
	TokenSecret string `validate:"required"`
	AccessToken TokenConfigs
}

type TokenConfigs struct {
	Name       string
	Expiration time.Duration
}

type RedisConfigs struct {
	Enable bool
	Addr   string `validate:"required_if=Enable true"`
}

type KafkaConfigs struct {
	Enable            bool
	ClientID          string
	Addrs             []string `validate:"required_if=Enable true"`
	NotificationTopic string   `validate:"required_if=Enable true"`
}

type AchievementConfigs struct {
	// Timezone is the IANA name used for calendar-day scoping, streaks and
	// time-window gates.
	Timezone string

	// ToastDuration is how long an unlock toast stays visible.
	ToastDuration time.Duration `validate:"gt=0"`

	// RecentUnlockWindow is the window used by the remote windowed meta-badge.
	RecentUnlockWindow time.Duration `validate:"gt=0"`

	// ScratchTTL is the expiration of the device-local scratch cache.
	ScratchTTL time.Duration
}

// Location resolves Timezone, falling back to the process local time zone.
func (c AchievementConfigs) Location() *time.Location {
	if c.Timezone == "" {
		return time.Local
	}

	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.Local
	}

	return loc
}

func Default() Configs {
	return Configs{
		Env:      "local",
		LogLevel: "info",
		Database: DatabaseConfigs{
			Driver:   "sqlite",
			Database: "personachat.db",
		},
		ApiServer: ServerConfigs{
			Port:         "8080",
			AllowOrigins: []string{"*"},
		},
		Auth: AuthConfigs{
			AccessToken: TokenConfigs{
				Name:       "access_token",
				Expiration: 24 * time.Hour,
			},
		},
		Kafka: KafkaConfigs{
			ClientID:          "personachat",
			NotificationTopic: "badge_notification",
		},
		Achievement: AchievementConfigs{
			ToastDuration:      5 * time.Second,
			RecentUnlockWindow: 24 * time.Hour,
			ScratchTTL:         30 * 24 * time.Hour,
		},
	}
}

// Load reads .env (if present), decodes the TOML file at path over the
// defaults, applies environment overrides and validates the result.
func Load(path string) (Configs, error) {
	_ = godotenv.Load()

	cfg := Default()
	if path != "" {
		if _, err := toml.DecodeFile(path, &cfg); err != nil {
			return Configs{}, fmt.Errorf("cannot decode config file %s: %w", path, err)
		}
	}

	applyEnv(&cfg)

	if err := validator.New().Struct(cfg); err != nil {
		return Configs{}, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

func applyEnv(cfg *Configs) {
	if v := os.Getenv("TOKEN_SECRET"); v != "" {
		cfg.Auth.TokenSecret = v
	}

	if v := os.Getenv("DB_PASSWORD"); v != "" {
		cfg.Database.Password = v
	}

	if v := os.Getenv("REDIS_ADDR"); v != "" {
		cfg.Redis.Addr = v
	}

	if v := os.Getenv("API_PORT"); v != "" {
		cfg.ApiServer.Port = v
	}
}
