package config

import (
	"fmt"
	"path/filepath"
	"reflect"
	"strings"

	"asset-core/core/assets"
	"asset-core/core/database"
	"asset-core/core/jobs"
	"asset-core/core/logger"
	"asset-core/core/server"
	"asset-core/core/storage"
	"asset-core/core/vfs"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all configuration for the application.
// It is divided into partial configurations for better modularity.
type Config struct {
	// Log holds configuration for the logger.
	Log logger.Config `mapstructure:"log"`
	// Assets holds the asset manager directories and codec.
	Assets assets.Config `mapstructure:"assets"`
	// Jobs holds configuration for the background task scheduler.
	Jobs jobs.Config `mapstructure:"jobs"`
	// Recycle selects where removed asset files go.
	Recycle vfs.Config `mapstructure:"recycle"`
	// Storage holds configuration for the object storage recycle bin.
	Storage storage.Config `mapstructure:"storage"`
	// Database holds configuration for the asset catalog.
	Database database.Config `mapstructure:"database"`
	// Server holds configuration for the HTTP inspection server.
	Server server.Config `mapstructure:"server"`
}

// LoadConfig loads configuration from environment variables and the .env
// file in path.
func LoadConfig(path string) (*Config, error) {
	// a missing .env is fine, e.g. in production
	_ = godotenv.Overload(filepath.Join(path, ".env"))

	v := viper.New()
	bindValues(v, Config{}, "")

	// ASSETS_PROJECT_DIR -> assets.project_dir
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

// Validate rejects settings that would only fail later.
func (c *Config) Validate() error {
	if _, err := c.Assets.CompressionMode(); err != nil {
		return fmt.Errorf("assets.compression: %w", err)
	}
	if !c.Recycle.IsValidMode() {
		return fmt.Errorf("recycle.mode: unknown mode %q", c.Recycle.Mode)
	}
	switch c.Database.Driver {
	case "", "mysql", "sqlite":
	default:
		return fmt.Errorf("database.driver: unsupported driver %q", c.Database.Driver)
	}
	return nil
}

// bindValues walks the struct and registers every mapstructure key with its
// default tag value, so AutomaticEnv can resolve it.
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

		// set even empty defaults to register the key
		v.SetDefault(key, field.Tag.Get("default"))
	}
}
