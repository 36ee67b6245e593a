// Package config loads agentmux configuration from file and environment.
//
// Precedence (highest to lowest):
//  1. Environment variables (AGENTMUX_*)
//  2. Config file
//  3. Built-in defaults
//
// Config file search order:
//  1. .agentmux.yaml in current directory
//  2. ~/.config/agentmux/config.yaml
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds all agentmux configuration.
type Config struct {
	// BaseDir is the directory holding project checkouts. Session working
	// directories are resolved as <BaseDir>/<project>.
	BaseDir string `yaml:"base_dir"`

	// Palette is the path to the command palette file.
	Palette string `yaml:"palette"`

	// Launch commands per agent group. Each is the alias typed into a
	// fresh pane to start that agent.
	ClaudeCommand string `yaml:"claude_command"`
	CodexCommand  string `yaml:"codex_command"`
	GeminiCommand string `yaml:"gemini_command"`

	// Stagger is the pause between successive broadcast sends.
	// Go duration string, e.g. "200ms". "0" disables staggering.
	Stagger string `yaml:"stagger"`

	// Layout is the tmux layout applied after pane splits.
	Layout string `yaml:"layout"`

	// OTEL
	OTELEndpoint string `yaml:"otel_endpoint"`
	OTELHeaders  string `yaml:"otel_headers"` // Comma-separated key=value pairs

	// Parsed durations (not from YAML, set after loading)
	StaggerDuration time.Duration `yaml:"-"`

	// ConfigFile is the path to the config file that was loaded (empty if none).
	ConfigFile string `yaml:"-"`
}

// Defaults returns a Config with all default values.
func Defaults() *Config {
	cfg := &Config{
		ClaudeCommand: "claude",
		CodexCommand:  "codex",
		GeminiCommand: "gemini",
		Stagger:       "0",
		Layout:        "tiled",
	}
	if home, err := os.UserHomeDir(); err == nil {
		cfg.BaseDir = filepath.Join(home, "projects")
		cfg.Palette = filepath.Join(home, ".config", "agentmux", "commands.md")
	}
	return cfg
}

// Load reads configuration from file and environment variables.
// Environment variables always override file values.
func Load() (*Config, error) {
	cfg := Defaults()

	if path, data, err := findConfigFile(); err == nil {
		var fileCfg Config
		if err := yaml.Unmarshal(data, &fileCfg); err != nil {
			return nil, fmt.Errorf("parsing config file %s: %w", path, err)
		}
		cfg.ConfigFile = path
		mergeFile(cfg, &fileCfg)
	}

	mergeEnv(cfg)

	var err error
	cfg.StaggerDuration, err = parseDurationOrDisable(cfg.Stagger, 0)
	if err != nil {
		return nil, fmt.Errorf("invalid stagger %q: %w", cfg.Stagger, err)
	}

	return cfg, nil
}

// findConfigFile searches for a config file and returns its path and contents.
func findConfigFile() (string, []byte, error) {
	if data, err := os.ReadFile(".agentmux.yaml"); err == nil {
		return ".agentmux.yaml", data, nil
	}

	if home, err := os.UserHomeDir(); err == nil {
		path := filepath.Join(home, ".config", "agentmux", "config.yaml")
		if data, err := os.ReadFile(path); err == nil {
			return path, data, nil
		}
	}

	return "", nil, fmt.Errorf("no config file found")
}

// mergeFile applies non-zero file values onto cfg.
func mergeFile(cfg *Config, file *Config) {
	if file.BaseDir != "" {
		cfg.BaseDir = file.BaseDir
	}
	if file.Palette != "" {
		cfg.Palette = file.Palette
	}
	if file.ClaudeCommand != "" {
		cfg.ClaudeCommand = file.ClaudeCommand
	}
	if file.CodexCommand != "" {
		cfg.CodexCommand = file.CodexCommand
	}
	if file.GeminiCommand != "" {
		cfg.GeminiCommand = file.GeminiCommand
	}
	if file.Stagger != "" {
		cfg.Stagger = file.Stagger
	}
	if file.Layout != "" {
		cfg.Layout = file.Layout
	}
	if file.OTELEndpoint != "" {
		cfg.OTELEndpoint = file.OTELEndpoint
	}
	if file.OTELHeaders != "" {
		cfg.OTELHeaders = file.OTELHeaders
	}
}

// mergeEnv applies environment variables onto cfg. Env always wins.
func mergeEnv(cfg *Config) {
	if v := os.Getenv("AGENTMUX_PROJECTS"); v != "" {
		cfg.BaseDir = v
	}
	if v := os.Getenv("AGENTMUX_PALETTE"); v != "" {
		cfg.Palette = v
	}
	if v := os.Getenv("AGENTMUX_CLAUDE_COMMAND"); v != "" {
		cfg.ClaudeCommand = v
	}
	if v := os.Getenv("AGENTMUX_CODEX_COMMAND"); v != "" {
		cfg.CodexCommand = v
	}
	if v := os.Getenv("AGENTMUX_GEMINI_COMMAND"); v != "" {
		cfg.GeminiCommand = v
	}
	if v := os.Getenv("AGENTMUX_STAGGER"); v != "" {
		cfg.Stagger = v
	}
	if v := os.Getenv("AGENTMUX_LAYOUT"); v != "" {
		cfg.Layout = v
	}
	if v := os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT"); v != "" {
		cfg.OTELEndpoint = v
	}
	if v := os.Getenv("OTEL_EXPORTER_OTLP_HEADERS"); v != "" {
		cfg.OTELHeaders = v
	}
}

// parseDurationOrDisable parses a duration string. "0", "off", "disable"
// return 0. Empty string returns the fallback value.
func parseDurationOrDisable(s string, fallback time.Duration) (time.Duration, error) {
	if s == "" {
		return fallback, nil
	}
	if s == "0" || s == "off" || s == "disable" {
		return 0, nil
	}
	return time.ParseDuration(s)
}
