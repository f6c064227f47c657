package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// LoaderConfig holds optional file overrides for Load.
type LoaderConfig struct {
	// ConfigFile is an explicit config file path. Empty means search.
	ConfigFile string
	// EnvFile is an explicit .env file path. Empty means search.
	EnvFile string
}

// LoaderOption is a functional option for Load.
type LoaderOption func(*LoaderConfig)

// WithConfigFile sets an explicit config file path.
func WithConfigFile(path string) LoaderOption {
	return func(lc *LoaderConfig) { lc.ConfigFile = path }
}

// WithEnvFile sets an explicit .env file path.
func WithEnvFile(path string) LoaderOption {
	return func(lc *LoaderConfig) { lc.EnvFile = path }
}

// configSearchPaths are the locations searched for a config file, in
// order, relative to the working directory.
var configSearchPaths = []string{
	"./config.yml",
	"./config/config.yml",
	"../config/config.yml",
}

// envSearchPaths are the locations searched for a .env file, in order.
var envSearchPaths = []string{
	"./.env",
	"../.env",
	"./config/.env",
}

// Load populates cfg from, in increasing precedence: the config file,
// the .env file, and process environment variables. Missing files are
// not an error; the caller's defaults and validation decide what is
// required.
func Load(cfg interface{}, opts ...LoaderOption) error {
	var lc LoaderConfig
	for _, opt := range opts {
		opt(&lc)
	}

	v := viper.New()

	configFile := lc.ConfigFile
	if configFile == "" {
		configFile = firstExisting(configSearchPaths)
	}
	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return fmt.Errorf("reading config file %s: %w", configFile, err)
		}
	}

	envFile := lc.EnvFile
	if envFile == "" {
		envFile = firstExisting(envSearchPaths)
	}
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil {
			return fmt.Errorf("loading env file %s: %w", envFile, err)
		}
	}

	// Viper's AutomaticEnv does not surface env-only keys through
	// Unmarshal, so every environment variable is set explicitly under
	// its possible dotted keys (TRANSCRIPTION_WHISPER_URL covers both
	// transcription.whisper.url and transcription.whisper_url).
	bindEnvironment(v)

	if err := v.Unmarshal(cfg); err != nil {
		return fmt.Errorf("unmarshaling config: %w", err)
	}
	return nil
}

func firstExisting(paths []string) string {
	for _, path := range paths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

func bindEnvironment(v *viper.Viper) {
	for _, env := range os.Environ() {
		key, value, ok := strings.Cut(env, "=")
		if !ok || key == "" {
			continue
		}
		for _, variant := range keyVariants(strings.ToLower(key)) {
			v.Set(variant, value)
		}
	}
}

// keyVariants expands an underscore-separated key into the dotted forms
// it could address. Trailing parts stay joined because leaf field names
// may themselves contain underscores (e.g. failure_threshold).
func keyVariants(key string) []string {
	parts := strings.Split(key, "_")
	if len(parts) == 1 {
		return []string{key}
	}
	variants := []string{key, strings.ReplaceAll(key, "_", ".")}
	for i := 1; i < len(parts); i++ {
		variants = append(variants, strings.Join(parts[:i], ".")+"."+strings.Join(parts[i:], "_"))
	}
	return variants
}
