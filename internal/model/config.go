package model

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/go-playground/validator/v10/non-standard/validators"
	"github.com/spf13/viper"
)

// appName names the config directory, env prefix and keyring service.
const appName = "exchangectl"

// StoreConfig selects and configures the configuration-item store.
type StoreConfig struct {
	// Backend is one of "file", "sqlite" or "keyring".
	Backend string `mapstructure:"backend" yaml:"backend" validate:"oneof=file sqlite keyring"`

	// Root is the base for relative directories in the file backend.
	Root string `mapstructure:"root" yaml:"root"`

	// DBPath is the SQLite database used by the sqlite backend.
	DBPath string `mapstructure:"db_path" yaml:"db_path" validate:"required_if=Backend sqlite"`

	// Directory is the default item directory when a command omits one.
	Directory string `mapstructure:"directory" yaml:"directory"`
}

// KeyringConfig holds settings for the system keyring.
type KeyringConfig struct {
	ServiceName string `mapstructure:"service_name" yaml:"service_name" validate:"notblank"`
	FileDir     string `mapstructure:"file_dir" yaml:"file_dir"`
}

// LogConfig holds logging preferences.
type LogConfig struct {
	Level  string `mapstructure:"level" yaml:"level" validate:"oneof=debug info warn error"`
	Format string `mapstructure:"format" yaml:"format" validate:"oneof=json text"`

	// File is the log destination; empty means stderr.
	File string `mapstructure:"file" yaml:"file"`
}

// Profile is a named set of explicit connection arguments. Password may be
// a literal or a "keyring:<key>" reference.
type Profile struct {
	Name       string `mapstructure:"name" yaml:"name" validate:"notblank"`
	Version    string `mapstructure:"version" yaml:"version"`
	Address    string `mapstructure:"address" yaml:"address"`
	Username   string `mapstructure:"username" yaml:"username"`
	Password   string `mapstructure:"password" yaml:"password"`
	Domain     string `mapstructure:"domain" yaml:"domain"`
	AutoDetect bool   `mapstructure:"auto_detect" yaml:"auto_detect"`
}

// AppConfig is the top-level application configuration.
type AppConfig struct {
	Store    StoreConfig   `mapstructure:"store" yaml:"store"`
	Keyring  KeyringConfig `mapstructure:"keyring" yaml:"keyring"`
	Log      LogConfig     `mapstructure:"log" yaml:"log"`
	Profiles []Profile     `mapstructure:"profiles" yaml:"profiles" validate:"dive"`
}

// Profile returns the profile with the given name.
func (c *AppConfig) Profile(name string) (*Profile, bool) {
	for i := range c.Profiles {
		if c.Profiles[i].Name == name {
			return &c.Profiles[i], true
		}
	}
	return nil, false
}

// Validate checks field constraints and that profile names are unique.
func (c *AppConfig) Validate() error {
	if err := newValidator().Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	seen := make(map[string]bool, len(c.Profiles))
	for _, p := range c.Profiles {
		if seen[p.Name] {
			return fmt.Errorf("invalid config: duplicate profile %q", p.Name)
		}
		seen[p.Name] = true
	}
	return nil
}

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// notblank is a non-standard validator and must be registered.
	_ = v.RegisterValidation("notblank", validators.NotBlank)
	return v
}

// ConfigDir returns ~/.config/exchangectl.
func ConfigDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return filepath.Join(home, ".config", appName)
}

// DefaultConfigPath returns the default path for the configuration file,
// located at ~/.config/exchangectl/config.yaml.
func DefaultConfigPath() string {
	return filepath.Join(ConfigDir(), "config.yaml")
}

// DefaultAppConfig returns a sensible default configuration.
func DefaultAppConfig() *AppConfig {
	dir := ConfigDir()
	return &AppConfig{
		Store: StoreConfig{
			Backend:   "file",
			Root:      filepath.Join(dir, "items"),
			DBPath:    filepath.Join(dir, "items.db"),
			Directory: "exchange",
		},
		Keyring: KeyringConfig{
			ServiceName: appName,
			FileDir:     filepath.Join(dir, "credentials"),
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
		Profiles: []Profile{},
	}
}

// LoadConfig reads configuration from the given YAML file path using Viper,
// with EXCHANGECTL_* environment variables taking precedence. If the file
// does not exist, it returns the default configuration.
func LoadConfig(path string) (*AppConfig, error) {
	defaults := DefaultAppConfig()

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	v.SetEnvPrefix(appName)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Set defaults so missing keys resolve to sensible values and env
	// overrides are picked up by Unmarshal.
	v.SetDefault("store.backend", defaults.Store.Backend)
	v.SetDefault("store.root", defaults.Store.Root)
	v.SetDefault("store.db_path", defaults.Store.DBPath)
	v.SetDefault("store.directory", defaults.Store.Directory)
	v.SetDefault("keyring.service_name", defaults.Keyring.ServiceName)
	v.SetDefault("keyring.file_dir", defaults.Keyring.FileDir)
	v.SetDefault("log.level", defaults.Log.Level)
	v.SetDefault("log.format", defaults.Log.Format)
	v.SetDefault("log.file", defaults.Log.File)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.Is(err, os.ErrNotExist) && !errors.As(err, &notFound) {
			return nil, fmt.Errorf("reading config %s: %w", path, err)
		}
	}

	cfg := DefaultAppConfig()
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("loading config %s: %w", path, err)
	}

	return cfg, nil
}

// SaveConfig writes the given configuration to a YAML file at path,
// creating parent directories if needed.
func SaveConfig(path string, cfg *AppConfig) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating config directory %s: %w", dir, err)
	}

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	v.Set("store", cfg.Store)
	v.Set("keyring", cfg.Keyring)
	v.Set("log", cfg.Log)
	v.Set("profiles", cfg.Profiles)

	if err := v.WriteConfigAs(path); err != nil {
		return fmt.Errorf("writing config to %s: %w", path, err)
	}

	return nil
}
