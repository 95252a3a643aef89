package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds application configuration.
type Config struct {
	Database DatabaseConfig
	Server   ServerConfig
	Backend  BackendConfig
	UI       UIConfig
	Auth     AuthConfig
	Log      LogConfig
}

// DatabaseConfig holds sqlite settings.
type DatabaseConfig struct {
	Path string
}

// ServerConfig holds the HTTP backend listen address.
type ServerConfig struct {
	Addr string
}

// BackendConfig selects where the console reads articles from.
// Mode is "local" (in-process service layer) or "remote" (HTTP).
type BackendConfig struct {
	Mode    string
	BaseURL string `mapstructure:"base_url"`
	Timeout time.Duration
}

// UIConfig holds presentation settings.
type UIConfig struct {
	Locale           string
	NarrowWidth      int  `mapstructure:"narrow_width"`
	SidebarCollapsed bool `mapstructure:"sidebar_collapsed"`
}

// AuthConfig describes the console operator. Permissions is a granted
// capability list; PolicyPath, when set, switches to a casbin policy file.
type AuthConfig struct {
	Role        string
	Permissions []string
	PolicyPath  string `mapstructure:"policy_path"`
}

// LogConfig controls the JSON log file; the terminal belongs to the TUI.
type LogConfig struct {
	Path  string
	Level string
}

const envPrefix = "ADMINCONSOLE"

func dataDir() string {
	return filepath.Join(os.Getenv("HOME"), ".local", "share", "adminconsole")
}

// Path returns the config file location.
func Path() string {
	if p := os.Getenv(envPrefix + "_CONFIG"); p != "" {
		return p
	}
	return filepath.Join(os.Getenv("HOME"), ".config", "adminconsole", "config.toml")
}

// Load reads configuration from file and env. Env var overrides use prefix ADMINCONSOLE_.
func Load() (Config, error) {
	v := viper.New()

	v.SetDefault("database.path", filepath.Join(dataDir(), "adminconsole.db"))
	v.SetDefault("server.addr", ":8080")
	v.SetDefault("backend.mode", "local")
	v.SetDefault("backend.base_url", "http://localhost:8080")
	v.SetDefault("backend.timeout", 10*time.Second)
	v.SetDefault("ui.locale", "en")
	v.SetDefault("ui.narrow_width", 100)
	v.SetDefault("ui.sidebar_collapsed", false)
	v.SetDefault("auth.role", "admin")
	v.SetDefault("auth.permissions", []string{"*"})
	v.SetDefault("auth.policy_path", "")
	v.SetDefault("log.path", filepath.Join(dataDir(), "adminconsole.log"))
	v.SetDefault("log.level", "info")

	v.SetConfigType("toml")
	v.SetConfigFile(Path())

	v.SetEnvPrefix(envPrefix)
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// read config file if present
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, fs.ErrNotExist) {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := c.Validate(); err != nil {
		return Config{}, err
	}
	return c, nil
}

// Validate rejects settings the console cannot run with.
func (c Config) Validate() error {
	switch c.Backend.Mode {
	case "local", "remote":
	default:
		return fmt.Errorf("backend.mode must be local or remote, got %q", c.Backend.Mode)
	}
	if c.Backend.Mode == "remote" && c.Backend.BaseURL == "" {
		return fmt.Errorf("backend.base_url is required in remote mode")
	}
	if c.UI.NarrowWidth < 0 {
		return fmt.Errorf("ui.narrow_width must not be negative")
	}
	return nil
}

// Save writes the provided config to disk, creating the config directory if needed.
// The TUI calls it when the operator switches locale or collapses the sidebar.
func Save(cfg Config) error {
	path := Path()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("mkdir config dir: %w", err)
	}

	v := viper.New()
	v.SetConfigType("toml")
	v.Set("database.path", cfg.Database.Path)
	v.Set("server.addr", cfg.Server.Addr)
	v.Set("backend.mode", cfg.Backend.Mode)
	v.Set("backend.base_url", cfg.Backend.BaseURL)
	v.Set("backend.timeout", cfg.Backend.Timeout.String())
	v.Set("ui.locale", cfg.UI.Locale)
	v.Set("ui.narrow_width", cfg.UI.NarrowWidth)
	v.Set("ui.sidebar_collapsed", cfg.UI.SidebarCollapsed)
	v.Set("auth.role", cfg.Auth.Role)
	v.Set("auth.permissions", cfg.Auth.Permissions)
	v.Set("auth.policy_path", cfg.Auth.PolicyPath)
	v.Set("log.path", cfg.Log.Path)
	v.Set("log.level", cfg.Log.Level)

	if err := v.WriteConfigAs(path); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}
