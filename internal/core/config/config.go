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
	// ServerPort is the port where the API server will listen.
	ServerPort int `mapstructure:"SERVER_PORT" default:"8080"`
	// StoragePath is the directory holding the per-package JSON records.
	StoragePath string `mapstructure:"STORAGE_PATH" default:"./data"`
	// RedisURL points at the cache used for the DHL translation table.
	RedisURL string `mapstructure:"REDIS_URL" default:"redis://localhost:6379/0"`
	// DefaultCountry is assumed for stored packages without a country.
	DefaultCountry string `mapstructure:"DEFAULT_COUNTRY" default:"NL"`
	// ParcelTrackURL is the public URL of this instance, linked in notifications.
	ParcelTrackURL string `mapstructure:"PARCELTRACK_URL"`
	// FetchTimeoutSeconds bounds every carrier fetch, browser helper included.
	FetchTimeoutSeconds int `mapstructure:"FETCH_TIMEOUT_SECONDS" default:"15"`

	// Ship24 holds the Ship24 API configuration. The shipper is only offered
	// when an API key is set.
	Ship24 Ship24Config `mapstructure:",squash"`

	// Notify holds the notification dispatch configuration.
	Notify NotifyConfig `mapstructure:",squash"`

	// Gofo holds the GofoExpress browser helper configuration.
	Gofo GofoConfig `mapstructure:",squash"`
}

// Ship24Config holds the credentials for the Ship24 tracking API.
type Ship24Config struct {
	// APIKey is the bearer token for api.ship24.com. Optional.
	APIKey string `mapstructure:"SHIP24_API_KEY"`
}

// NotifyConfig holds the apprise dispatch settings.
type NotifyConfig struct {
	// AppriseURL is the default notification target for packages without one.
	AppriseURL string `mapstructure:"APPRISE_URL"`
	// AppriseBin is the apprise executable invoked per notification.
	AppriseBin string `mapstructure:"APPRISE_BIN" default:"/usr/bin/apprise"`
}

// GofoConfig holds the browser helper settings for GofoExpress.
type GofoConfig struct {
	// FetcherBin is the helper binary that performs the headless-browser fetch
	// and prints the carrier JSON on stdout.
	FetcherBin string `mapstructure:"GOFO_FETCHER_BIN" default:"./gofofetch"`
}

// Ship24Enabled reports whether the Ship24 shipper may be offered.
func (c *AppConfig) Ship24Enabled() bool {
	return c.Ship24.APIKey != ""
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
