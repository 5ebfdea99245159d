package cmd

import (
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"reflect"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	StoreDriverPostgres = "postgres"
	StoreDriverMemory   = "memory"
)

// Config holds the configuration for the application.
// Tags used:
// - mapstructure: used by viper to unmarshal
// - default: default value to set if missing
type Config struct {
	Environment string `mapstructure:"APP_ENV" default:"development"`
	LogLevel    string `mapstructure:"LOG_LEVEL" default:"info"`
	HTTPPort    int    `mapstructure:"HTTP_PORT" default:"8080"`
	// StoreDriver selects the persistence backend: postgres or memory.
	StoreDriver string `mapstructure:"STORE_DRIVER" default:"postgres"`

	Database DatabaseConfig `mapstructure:",squash"`
	Redis    RedisConfig    `mapstructure:",squash"`
	Custody  CustodyConfig  `mapstructure:",squash"`
	Jobs     JobsConfig     `mapstructure:",squash"`
}

type DatabaseConfig struct {
	Host     string `mapstructure:"DB_HOST" default:"localhost"`
	Port     int    `mapstructure:"DB_PORT" default:"5432"`
	User     string `mapstructure:"DB_USER" default:"postgres"`
	Password string `mapstructure:"DB_PASSWORD"`
	Name     string `mapstructure:"DB_NAME" default:"custody"`
	SslMode  string `mapstructure:"DB_SSLMODE" default:"disable"`
}

func (c DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Name, c.SslMode)
}

// RedisConfig enables the shipment lookup cache when URL is set.
type RedisConfig struct {
	URL              string        `mapstructure:"REDIS_URL"`
	ShipmentCacheTTL time.Duration `mapstructure:"SHIPMENT_CACHE_TTL" default:"5m"`
}

type CustodyConfig struct {
	SealMinLength int `mapstructure:"SEAL_MIN_LENGTH" default:"4"`
	// SealOverrideRoles is a comma separated list of roles allowed to
	// receive a bag without a matching seal.
	SealOverrideRoles []string `mapstructure:"SEAL_OVERRIDE_ROLES" default:"HUB_MANAGER,ADMIN"`
}

type JobsConfig struct {
	// DigestSchedule is a six-field cron expression (with seconds).
	DigestSchedule string        `mapstructure:"DIGEST_SCHEDULE" default:"0 0 * * * *"`
	StaleTripAfter time.Duration `mapstructure:"STALE_TRIP_AFTER" default:"12h"`
}

// LoadConfig reads an optional .env file from path and then the process
// environment. Variables already set in the environment win over the file.
func LoadConfig(path string) (*Config, error) {
	if err := godotenv.Load(filepath.Join(path, ".env")); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("error reading .env file: %w", err)
	}

	v := viper.New()
	v.AutomaticEnv()

	var config Config

	if err := processTags(v, &config); err != nil {
		return nil, err
	}

	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode into struct: %w", err)
	}

	config.Custody.SealOverrideRoles = compact(config.Custody.SealOverrideRoles)

	if config.StoreDriver != StoreDriverPostgres && config.StoreDriver != StoreDriverMemory {
		return nil, fmt.Errorf("unsupported STORE_DRIVER %q", config.StoreDriver)
	}

	return &config, nil
}

// processTags binds every tagged field to its environment variable and
// registers its default.
func processTags(v *viper.Viper, config any) error {
	val := reflect.ValueOf(config)
	if val.Kind() == reflect.Ptr {
		val = val.Elem()
	}

	t := val.Type()

	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)

		if field.Type.Kind() == reflect.Struct {
			if err := processTags(v, val.Field(i).Addr().Interface()); err != nil {
				return err
			}
			continue
		}

		key := field.Tag.Get("mapstructure")
		if key == "" {
			continue
		}

		if err := v.BindEnv(key); err != nil {
			return fmt.Errorf("bind %s: %w", key, err)
		}

		if defaultValue := field.Tag.Get("default"); defaultValue != "" {
			v.SetDefault(key, defaultValue)
		}
	}
	return nil
}

func compact(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}
