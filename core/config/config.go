package config

import (
	"fmt"
	"reflect"
	"strings"

	"filament-sync/core/database"
	"filament-sync/core/logger"
	"filament-sync/core/server"
	"filament-sync/core/storage"
	"filament-sync/feature/catalog"
	"filament-sync/feature/matcher"
	"filament-sync/feature/swatch"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all configuration for the application.
// It is divided into partial configurations owned by the packages that use them.
type Config struct {
	// Server holds configuration for the HTTP server.
	Server server.Config `mapstructure:"server"`
	// Storage holds configuration for the snapshot archive (S3, MinIO).
	Storage storage.Config `mapstructure:"storage"`
	// Log holds configuration for the logger.
	Log logger.Config `mapstructure:"log"`
	// Database holds configuration for the database connection.
	Database database.Config `mapstructure:"database"`
	// Catalog holds configuration for the remote catalog client.
	Catalog catalog.Config `mapstructure:"catalog"`
	// Sync holds configuration for the sync scheduler.
	Sync swatch.SyncConfig `mapstructure:"sync"`
	// Matcher holds configuration for the nearest-color matcher.
	Matcher matcher.Config `mapstructure:"matcher"`
}

// LoadConfig loads configuration from environment variables and a .env file in path.
func LoadConfig(path string) (*Config, error) {
	envPath := path + "/.env"
	if path == "." {
		envPath = ".env"
	}

	// A missing .env is normal in production.
	_ = godotenv.Overload(envPath)

	v := viper.New()

	bindValues(v, Config{}, "")

	// Map environment variables to nested keys (e.g. CATALOG_BASE_URL -> catalog.base_url)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, err
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return &config, nil
}

// Validate checks cross-section invariants after loading.
func (c *Config) Validate() error {
	if err := c.Server.Validate(); err != nil {
		return fmt.Errorf("server: %w", err)
	}
	if err := c.Catalog.Validate(); err != nil {
		return fmt.Errorf("catalog: %w", err)
	}
	if c.Sync.IntervalHours <= 0 {
		return fmt.Errorf("sync: interval_hours must be positive, got %d", c.Sync.IntervalHours)
	}
	return nil
}

// bindValues walks the struct and registers every 'mapstructure' key in Viper,
// using the 'default' tag as the default value.
func bindValues(v *viper.Viper, iface any, prefix string) {
	t := reflect.TypeOf(iface)

	if t.Kind() == reflect.Ptr {
		t = t.Elem()
	}

	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		tag := field.Tag.Get("mapstructure")

		if tag == "" {
			continue
		}

		key := tag
		if prefix != "" {
			key = prefix + "." + tag
		}

		if field.Type.Kind() == reflect.Struct {
			bindValues(v, reflect.New(field.Type).Elem().Interface(), key)
			continue
		}

		// Always set the default (even if empty) so AutomaticEnv sees the key.
		v.SetDefault(key, field.Tag.Get("default"))
	}
}
