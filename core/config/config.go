package config

import (
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"strings"

	"abscomp/core/audiobookshelf"
	"abscomp/core/logger"
	"abscomp/core/report"
	"abscomp/core/server"
	"abscomp/core/storage"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// SchemaVersion is the only config schema version understood.
const SchemaVersion = "1"

// DefaultFile is the config file used when none is given.
const DefaultFile = "absconfig.toml"

// Config holds all configuration for the application.
// It is divided into partial configurations for better modularity.
type Config struct {
	// Schema identifies the config file layout.
	Schema SchemaConfig `mapstructure:"schema"`
	// LibOne is the first library to compare.
	LibOne audiobookshelf.LibraryConfig `mapstructure:"abs_lib_one"`
	// LibTwo is the second library to compare.
	LibTwo audiobookshelf.LibraryConfig `mapstructure:"abs_lib_two"`
	// Fetch tunes catalog downloads.
	Fetch audiobookshelf.FetchConfig `mapstructure:"fetch"`
	// Compare tunes the comparison.
	Compare CompareConfig `mapstructure:"compare"`
	// Output holds configuration for written reports.
	Output report.Config `mapstructure:"output"`
	// Server holds configuration for the HTTP server.
	Server server.Config `mapstructure:"server"`
	// Storage holds configuration for the object storage (e.g., S3, Minio).
	Storage storage.Config `mapstructure:"storage"`
	// Log holds configuration for the logger.
	Log logger.Config `mapstructure:"log"`
}

// SchemaConfig holds the config schema marker.
type SchemaConfig struct {
	Version string `mapstructure:"version" default:"" validate:"eq=1"`
}

// CompareConfig holds comparison settings.
type CompareConfig struct {
	// Policy is the ASIN collision policy: first or last.
	Policy string `mapstructure:"policy" default:"first" validate:"oneof=first last"`
}

// LoadConfig loads the TOML config file, a sibling .env file and environment variables,
// then validates the result against the schema.
func LoadConfig(file string) (*Config, error) {
	if file == "" {
		file = DefaultFile
	}

	info, err := os.Stat(file)
	if err != nil {
		return nil, fmt.Errorf("config file %s: %w", file, err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("config file %s is a directory", file)
	}

	// Ignore error if .env doesn't exist
	_ = godotenv.Overload(filepath.Join(filepath.Dir(file), ".env"))

	v := viper.New()

	// Recursively parse struct tags to set default values
	bindValues(v, Config{}, "")

	v.SetConfigFile(file)
	v.SetConfigType("toml")
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", file, err)
	}

	// Map environment variables to nested keys (e.g. ABS_LIB_ONE_TOKEN -> abs_lib_one.token)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Decoding is weakly typed; the schema keys must be TOML strings.
	if err := checkStrings(v, stringKeys); err != nil {
		return nil, fmt.Errorf("invalid configuration in config file %s: %w", file, err)
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to decode config file %s: %w", file, err)
	}

	if err := Validate(&config); err != nil {
		return nil, fmt.Errorf("invalid configuration in config file %s: %w", file, err)
	}

	return &config, nil
}

// bindValues uses reflection to iterate over the struct and set default values in Viper
// based on the 'default' and 'mapstructure' tags.
func bindValues(v *viper.Viper, iface any, prefix string) {
	t := reflect.TypeOf(iface)

	// If it's a pointer, get the element
	if t.Kind() == reflect.Ptr {
		t = t.Elem()
	}

	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		tag := field.Tag.Get("mapstructure")

		// Skip if no tag
		if tag == "" {
			continue
		}

		// Build the key
		key := tag
		if prefix != "" {
			key = prefix + "." + tag
		}

		// If it's a nested struct, recurse
		if field.Type.Kind() == reflect.Struct {
			bindValues(v, reflect.New(field.Type).Elem().Interface(), key)
			continue
		}

		defaultValue := field.Tag.Get("default")
		// Always set default (even if empty) to register the key for AutomaticEnv
		v.SetDefault(key, defaultValue)
	}
}

// Masked returns a copy of the config with secrets replaced, for display.
func (c Config) Masked() Config {
	c.LibOne.Token = mask(c.LibOne.Token)
	c.LibTwo.Token = mask(c.LibTwo.Token)
	c.Server.ApiKey = mask(c.Server.ApiKey)
	c.Storage.SecretKey = mask(c.Storage.SecretKey)
	return c
}

func mask(secret string) string {
	if secret == "" {
		return ""
	}
	return "********"
}
