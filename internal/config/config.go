package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	// EnvPrefix prefixes every environment override: INSERTDOCS_EXT, ...
	EnvPrefix = "INSERTDOCS"
	// FileName is the config file looked up in the working directory.
	FileName = ".insertdocs"
)

// WatchConfig tunes the watch command.
type WatchConfig struct {
	Debounce time.Duration `mapstructure:"debounce"`
}

// Config holds all runtime configuration for an insertdocs run.
// Values are populated from .insertdocs.toml, INSERTDOCS_* env vars, and CLI flags.
type Config struct {
	Dir        string      `mapstructure:"dir"`
	Ext        string      `mapstructure:"ext"`
	Namespaces []string    `mapstructure:"namespaces"`
	Packages   []string    `mapstructure:"packages"`
	CacheSize  int         `mapstructure:"cache_size"`
	LogLevel   string      `mapstructure:"log_level"`
	DryRun     bool        `mapstructure:"dry_run"`
	Tree       bool        `mapstructure:"tree"`
	Watch      WatchConfig `mapstructure:"watch"`
}

// New returns a viper instance reading cfgFile, or .insertdocs.toml in the
// working directory when cfgFile is empty. A missing default file is not an
// error; a missing explicit one is.
func New(cfgFile string) (*viper.Viper, error) {
	v := viper.New()
	SetDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.SetConfigName(FileName)
		v.SetConfigType("toml")
		v.AddConfigPath(".")
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgFile != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}
	return v, nil
}

// SetDefaults registers the built-in default of every key.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("dir", ".")
	v.SetDefault("ext", ".rst")
	v.SetDefault("namespaces", []string{})
	v.SetDefault("packages", []string{})
	v.SetDefault("cache_size", 256)
	v.SetDefault("log_level", "info")
	v.SetDefault("dry_run", false)
	v.SetDefault("tree", false)
	v.SetDefault("watch.debounce", 200*time.Millisecond)
}

// Load decodes v into a Config and validates it.
func Load(v *viper.Viper) (Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}
	if cfg.Ext != "" && !strings.HasPrefix(cfg.Ext, ".") {
		cfg.Ext = "." + cfg.Ext
	}
	if cfg.CacheSize <= 0 {
		return Config{}, fmt.Errorf("cache_size must be positive, got %d", cfg.CacheSize)
	}
	if cfg.Watch.Debounce < 0 {
		return Config{}, fmt.Errorf("watch.debounce must not be negative, got %s", cfg.Watch.Debounce)
	}
	if _, err := cfg.Level(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Level parses LogLevel.
func (c Config) Level() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return 0, fmt.Errorf("log_level: %w", err)
	}
	return level, nil
}

// LoadDotEnv loads dir/.env into the process environment when it exists.
// Variables already set are kept.
func LoadDotEnv(dir string) error {
	err := godotenv.Load(filepath.Join(dir, ".env"))
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return err
}
