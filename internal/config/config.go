// Package config loads the Lectern settings.
//
// Sources are applied in order, later ones winning: built-in defaults, the YAML
// file (lectern.yaml), a .env file, then LECTERN_* environment variables.
// Command-line flags are applied on top by the CLI.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/aretw0/lectern/internal/logging"
	"github.com/aretw0/lectern/internal/render"
	"github.com/aretw0/lectern/pkg/adapters/redis"
	"github.com/aretw0/lectern/pkg/runner"
)

const (
	DefaultFile    = "lectern.yaml"
	DefaultEnvFile = ".env"
	DefaultAddr    = ":8080"
)

// Config holds every setting shared by the commands.
type Config struct {
	ImagesRoot   string      `yaml:"images_root"`
	ImageExt     string      `yaml:"image_ext"`
	LogLevel     string      `yaml:"log_level"`
	LogFormat    string      `yaml:"log_format"`
	Addr         string      `yaml:"addr"`
	MaxInputSize int         `yaml:"max_input_size"`
	Redis        RedisConfig `yaml:"redis"`
}

// RedisConfig configures the event publisher. An empty Addr disables it.
type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
	Channel  string `yaml:"channel"`
}

// Default returns the built-in settings.
func Default() Config {
	return Config{
		ImagesRoot:   render.DefaultImagesRoot,
		ImageExt:     render.DefaultImageExt,
		LogLevel:     "info",
		LogFormat:    string(logging.FormatText),
		Addr:         DefaultAddr,
		MaxInputSize: runner.DefaultMaxInputSize,
		Redis:        RedisConfig{Channel: redis.DefaultChannel},
	}
}

// Load builds the configuration. An empty file falls back to DefaultFile, and
// an empty envFile to DefaultEnvFile; default files may be missing, explicit
// ones may not.
func Load(file, envFile string) (Config, error) {
	cfg := Default()

	if err := cfg.readFile(file); err != nil {
		return cfg, err
	}
	if err := loadEnvFile(envFile); err != nil {
		return cfg, err
	}
	if err := cfg.applyEnv(); err != nil {
		return cfg, err
	}
	return cfg, cfg.Validate()
}

func (c *Config) readFile(file string) error {
	explicit := file != ""
	if !explicit {
		file = DefaultFile
	}
	data, err := os.ReadFile(file)
	if err != nil {
		if !explicit && errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("failed to read config: %w", err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("failed to parse config %s: %w", file, err)
	}
	return nil
}

func loadEnvFile(file string) error {
	explicit := file != ""
	if !explicit {
		file = DefaultEnvFile
	}
	// godotenv never overrides variables already set in the process.
	if err := godotenv.Load(file); err != nil {
		if !explicit && errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("failed to load env file: %w", err)
	}
	return nil
}

func (c *Config) applyEnv() error {
	str := map[string]*string{
		"LECTERN_IMAGES_ROOT":    &c.ImagesRoot,
		"LECTERN_IMAGE_EXT":      &c.ImageExt,
		"LECTERN_LOG_LEVEL":      &c.LogLevel,
		"LECTERN_LOG_FORMAT":     &c.LogFormat,
		"LECTERN_ADDR":           &c.Addr,
		"LECTERN_REDIS_ADDR":     &c.Redis.Addr,
		"LECTERN_REDIS_PASSWORD": &c.Redis.Password,
		"LECTERN_REDIS_CHANNEL":  &c.Redis.Channel,
	}
	for key, dst := range str {
		if v, ok := os.LookupEnv(key); ok {
			*dst = v
		}
	}

	ints := map[string]*int{
		runner.EnvMaxInputSize: &c.MaxInputSize,
		"LECTERN_REDIS_DB":     &c.Redis.DB,
	}
	for key, dst := range ints {
		v, ok := os.LookupEnv(key)
		if !ok {
			continue
		}
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid %s: %w", key, err)
		}
		*dst = n
	}
	return nil
}

// Validate checks the values that cannot be corrected silently.
func (c Config) Validate() error {
	var errs []error
	if _, err := logging.ParseLevel(c.LogLevel); err != nil {
		errs = append(errs, err)
	}
	if _, err := logging.ParseFormat(c.LogFormat); err != nil {
		errs = append(errs, err)
	}
	if c.MaxInputSize <= 0 {
		errs = append(errs, fmt.Errorf("max_input_size must be positive, got %d", c.MaxInputSize))
	}
	return errors.Join(errs...)
}

// Logger builds the application logger. Validate guarantees the level and format parse.
func (c Config) Logger() *slog.Logger {
	level, _ := logging.ParseLevel(c.LogLevel)
	format, _ := logging.ParseFormat(c.LogFormat)
	return logging.New(level, format)
}
