package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

const envPrefix = "SECTIONGRID"

// DefaultSeed is the board a fresh workspace starts with.
var DefaultSeed = [][]string{
	{"0A", "0B", "0C", "0D", "0E"},
	{"1A", "2B"},
	{"2A", "2C", "3C"},
}

// Config holds application configuration.
type Config struct {
	Workspace WorkspaceConfig `mapstructure:"workspace"`
	Output    OutputConfig    `mapstructure:"output"`
	UI        UIConfig        `mapstructure:"ui"`
	Log       LogConfig       `mapstructure:"log"`
	Seed      SeedConfig      `mapstructure:"seed"`
}

type WorkspaceConfig struct {
	Dir string `mapstructure:"dir"`
}

// OutputConfig controls CLI output (json|edn|yaml).
type OutputConfig struct {
	Format string `mapstructure:"format"`
	Pretty bool   `mapstructure:"pretty"`
}

// UIConfig holds presentation settings.
type UIConfig struct {
	PlaceholderLabel string `mapstructure:"placeholder_label"`
	SectionLabel     string `mapstructure:"section_label"`
}

type LogConfig struct {
	Level string `mapstructure:"level"`
}

type SeedConfig struct {
	Sections [][]string `mapstructure:"sections"`
}

// Path returns the config file location: $SECTIONGRID_CONFIG or ~/.config/sectiongrid/config.toml.
func Path() string {
	if p := strings.TrimSpace(os.Getenv(envPrefix + "_CONFIG")); p != "" {
		return p
	}
	return filepath.Join(homeDir(), ".config", "sectiongrid", "config.toml")
}

func homeDir() string {
	if h, err := os.UserHomeDir(); err == nil && h != "" {
		return h
	}
	return os.Getenv("HOME")
}

func newViper() *viper.Viper {
	v := viper.New()

	v.SetDefault("workspace.dir", filepath.Join(homeDir(), ".sectiongrid", "default"))
	v.SetDefault("output.format", "json")
	v.SetDefault("output.pretty", false)
	v.SetDefault("ui.placeholder_label", "仮")
	v.SetDefault("ui.section_label", "Section")
	v.SetDefault("log.level", "warn")
	v.SetDefault("seed.sections", DefaultSeed)

	v.SetConfigType("toml")
	v.SetConfigFile(Path())

	v.SetEnvPrefix(envPrefix)
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	return v
}

// Load reads configuration from file and env. Env var overrides use prefix SECTIONGRID_.
// A missing config file is not an error; a malformed one is.
func Load() (Config, error) {
	v := newViper()
	if _, err := os.Stat(Path()); err == nil {
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config %s: %w", Path(), err)
		}
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	if len(c.Seed.Sections) == 0 {
		c.Seed.Sections = DefaultSeed
	}
	return c, nil
}

// Save writes cfg to Path(), creating the config directory if needed.
func Save(cfg Config) error {
	path := Path()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("mkdir config dir: %w", err)
	}

	v := viper.New()
	v.SetConfigType("toml")
	v.Set("workspace.dir", cfg.Workspace.Dir)
	v.Set("output.format", cfg.Output.Format)
	v.Set("output.pretty", cfg.Output.Pretty)
	v.Set("ui.placeholder_label", cfg.UI.PlaceholderLabel)
	v.Set("ui.section_label", cfg.UI.SectionLabel)
	v.Set("log.level", cfg.Log.Level)
	v.Set("seed.sections", cfg.Seed.Sections)

	if err := v.WriteConfigAs(path); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

// ParseLogLevel maps debug|info|warn|error to a slog level.
func ParseLogLevel(s string) (slog.Level, error) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(strings.TrimSpace(s))); err != nil {
		return slog.LevelWarn, fmt.Errorf("invalid log level %q", s)
	}
	return lvl, nil
}
