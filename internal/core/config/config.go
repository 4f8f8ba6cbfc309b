package config

import (
	"errors"
	"fmt"
	"reflect"

	"github.com/spf13/viper"
)

// AppConfig holds the configuration for the application.
// Tags used:
// - mapstructure: used by viper to unmarshal
// - default: default value to set if missing
// - required: if "true", error if missing
type AppConfig struct {
	// Environment specifies the runtime environment (e.g., development, production).
	Environment string `mapstructure:"APP_ENV" default:"development"`
	// LogLevel defines the logging verbosity (e.g., debug, info, error).
	LogLevel string `mapstructure:"LOG_LEVEL" default:"info"`
	// ServerPort is the port where the server will listen.
	ServerPort int `mapstructure:"SERVER_PORT" default:"8080"`

	// Redis holds the Redis connection configuration.
	Redis RedisConfig `mapstructure:",squash"`

	// CoreAPI holds the core-system REST API configuration.
	CoreAPI CoreAPIConfig `mapstructure:",squash"`

	// Session holds portal session settings.
	Session SessionConfig `mapstructure:",squash"`

	// Senae holds the SENAE tariff consultation settings.
	Senae SenaeConfig `mapstructure:",squash"`

	// Proxy holds the outbound proxy settings for scraping adapters.
	Proxy ProxyConfig `mapstructure:",squash"`
}

// CoreAPIConfig holds the connection details for the core freight system API.
type CoreAPIConfig struct {
	// URL is the base URL of the core REST API (e.g., https://core.example.com).
	URL string `mapstructure:"CORE_API_URL" required:"true"`
	// TimeoutSeconds is the per-request timeout for upstream calls.
	TimeoutSeconds int `mapstructure:"CORE_API_TIMEOUT_SECONDS" default:"15"`
}

// RedisConfig holds the Redis connection details.
type RedisConfig struct {
	// URL is the Redis connection URL (redis://[:password@]host[:port][/db]).
	URL string `mapstructure:"REDIS_URL" default:"redis://localhost:6379/0"`
}

// SessionConfig holds portal session settings.
type SessionConfig struct {
	// TTLHours is how long an idle portal session is kept alive.
	TTLHours int `mapstructure:"SESSION_TTL_HOURS" default:"12"`
}

// SenaeConfig holds the SENAE tariff consultation settings.
type SenaeConfig struct {
	// TariffURL is the public tariff consultation page. May contain a %s
	// placeholder for the HS code.
	TariffURL string `mapstructure:"SENAE_TARIFF_URL" required:"true"`
	// CacheTTLHours is how long scraped ad-valorem rates stay cached.
	CacheTTLHours int `mapstructure:"SENAE_CACHE_TTL_HOURS" default:"24"`
}

// ProxyConfig holds outbound proxy settings used by scraping adapters.
type ProxyConfig struct {
	// Enabled turns the outbound proxy on.
	Enabled bool `mapstructure:"PROXY_ENABLED" default:"false"`
	// Hostname is the proxy server hostname.
	Hostname string `mapstructure:"PROXY_HOSTNAME"`
	// Port is the proxy server port.
	Port int `mapstructure:"PROXY_PORT"`
	// Username is the proxy auth username, if the proxy requires auth.
	Username string `mapstructure:"PROXY_USERNAME"`
	// Password is the proxy auth password.
	Password string `mapstructure:"PROXY_PASSWORD"`
}

// Load loads configuration from .env files and environment variables.
func Load(path string) (*AppConfig, error) {
	v := viper.New()

	v.AutomaticEnv()

	v.AddConfigPath(path)
	v.SetConfigName(".env")
	v.SetConfigType("env")

	if err := v.ReadInConfig(); err != nil {
		var configFileNotFoundError viper.ConfigFileNotFoundError
		if !errors.As(err, &configFileNotFoundError) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var config AppConfig

	if err := processTags(v, &config); err != nil {
		return nil, err
	}

	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode into struct: %w", err)
	}

	if err := validateRequired(&config); err != nil {
		return nil, err
	}

	return &config, nil
}

// processTags iterates over the struct fields and sets default values in Viper.
func processTags(v *viper.Viper, config interface{}) error {
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
		defaultValue := field.Tag.Get("default")

		if key != "" {
			v.BindEnv(key)
		}

		if key != "" && defaultValue != "" {
			v.SetDefault(key, defaultValue)
		}
	}
	return nil
}

// validateRequired checks if fields marked as required have non-zero values.
func validateRequired(config interface{}) error {
	val := reflect.ValueOf(config)
	if val.Kind() == reflect.Ptr {
		val = val.Elem()
	}

	t := val.Type()

	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)

		if field.Type.Kind() == reflect.Struct {
			if err := validateRequired(val.Field(i).Addr().Interface()); err != nil {
				return err
			}
			continue
		}

		required := field.Tag.Get("required")
		if required == "true" {
			value := val.Field(i)
			if isZero(value) {
				key := field.Tag.Get("mapstructure")
				return fmt.Errorf("missing required configuration: %s", key)
			}
		}
	}
	return nil
}

// isZero checks if a reflect.Value is the zero value for its type.
func isZero(v reflect.Value) bool {
	switch v.Kind() {
	case reflect.String:
		return v.String() == ""
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return v.Int() == 0
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return v.Uint() == 0
	case reflect.Float32, reflect.Float64:
		return v.Float() == 0
	case reflect.Bool:
		return !v.Bool()
	case reflect.Slice, reflect.Map:
		return v.Len() == 0
	default:
		return v.IsZero()
	}
}
