// Package config loads the shop connection settings from a YAML file,
// the environment and an optional .env file.
//
// Keys live under a top-level "shop" section:
//
//	shop:
//	  url: https://shop.example.com
//	  user: admin
//	  password: secret
//	  timeout: 30s
//	  user_agent: inventory-sync/1.0
//
// Each key can be overridden by the environment using its upper-cased,
// underscore-separated path (SHOP_URL, SHOP_USER, SHOP_PASSWORD,
// SHOP_TIMEOUT, SHOP_USER_AGENT). Precedence from highest to lowest is:
// process environment, .env file, YAML file.
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/adamwoolhether/shopapi/internal/validate"
)

// Shop holds the settings needed to connect to a shop.
type Shop struct {
	URL       string        `mapstructure:"url" json:"url" validate:"required,http_url"`
	User      string        `mapstructure:"user" json:"user" validate:"required"`
	Password  string        `mapstructure:"password" json:"password" validate:"required"`
	Timeout   time.Duration `mapstructure:"timeout" json:"timeout" validate:"gte=0"`
	UserAgent string        `mapstructure:"user_agent" json:"user_agent"`
}

// keys lists every setting Load knows about.
var keys = []string{
	"shop.url",
	"shop.user",
	"shop.password",
	"shop.timeout",
	"shop.user_agent",
}

// defaultConfigFiles are searched in order when no file is given.
var defaultConfigFiles = []string{
	"./config.yml",
	"./config/config.yml",
}

const defaultEnvFile = ".env"

type loaderConfig struct {
	configFile string
	envFile    string
}

// Option is a functional option for Load.
type Option func(*loaderConfig)

// WithConfigFile sets an explicit YAML file. Unlike the default search
// locations it must exist.
func WithConfigFile(path string) Option {
	return func(lc *loaderConfig) { lc.configFile = path }
}

// WithEnvFile sets an explicit .env file. It must exist.
func WithEnvFile(path string) Option {
	return func(lc *loaderConfig) { lc.envFile = path }
}

// Load reads, merges and validates the shop settings.
func Load(opts ...Option) (Shop, error) {
	var lc loaderConfig
	for _, opt := range opts {
		opt(&lc)
	}

	v := viper.New()

	// 1. YAML base configuration.
	configFile, err := resolve(lc.configFile, defaultConfigFiles...)
	if err != nil {
		return Shop{}, fmt.Errorf("resolving config file: %w", err)
	}
	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return Shop{}, fmt.Errorf("reading config file %s: %w", configFile, err)
		}
	}

	// 2. Environment.
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	for _, key := range keys {
		if err := v.BindEnv(key); err != nil {
			return Shop{}, fmt.Errorf("binding env for %s: %w", key, err)
		}
	}

	// 3. .env file, never overriding the process environment.
	envFile, err := resolve(lc.envFile, defaultEnvFile)
	if err != nil {
		return Shop{}, fmt.Errorf("resolving env file: %w", err)
	}
	if envFile != "" {
		if err := applyEnvFile(v, envFile); err != nil {
			return Shop{}, err
		}
	}

	// 4. Unmarshal and validate.
	var cfg struct {
		Shop Shop `mapstructure:"shop"`
	}
	if err := v.Unmarshal(&cfg); err != nil {
		return Shop{}, fmt.Errorf("unmarshaling config: %w", err)
	}

	if err := validate.Check(&cfg.Shop); err != nil {
		return Shop{}, fmt.Errorf("validating config: %w", err)
	}

	return cfg.Shop, nil
}

// resolve returns explicit if set, failing when it does not exist.
// Otherwise it returns the first existing fallback, or "".
func resolve(explicit string, fallbacks ...string) (string, error) {
	if explicit != "" {
		if _, err := os.Stat(explicit); err != nil {
			return "", err
		}
		return explicit, nil
	}

	for _, path := range fallbacks {
		if _, err := os.Stat(path); err == nil {
			return path, nil
		}
	}

	return "", nil
}

// applyEnvFile reads path without touching the process environment and
// sets every known key it defines that the environment does not.
func applyEnvFile(v *viper.Viper, path string) error {
	values, err := godotenv.Read(path)
	if err != nil {
		return fmt.Errorf("reading env file %s: %w", path, err)
	}

	for _, key := range keys {
		name := envName(key)

		val, ok := values[name]
		if !ok {
			continue
		}
		if _, set := os.LookupEnv(name); set {
			continue
		}

		v.Set(key, val)
	}

	return nil
}

func envName(key string) string {
	return strings.ToUpper(strings.ReplaceAll(key, ".", "_"))
}
