// Package config loads user-configurable shell settings from a config file
// using Viper, falling back to hardcoded defaults when no file is present.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

// Terminal holds settings for the REPL's readline instance and its
// fd-leak diagnostics.
type Terminal struct {
	HistoryFile     string `mapstructure:"history_file"`
	HistoryLimit    int    `mapstructure:"history_limit"`
	InterruptPrompt string `mapstructure:"interrupt_prompt"`
	EOFPrompt       string `mapstructure:"exit_message"`
	// CheckInterval is the number of pipelines between fd-leak checks;
	// 0 disables the check.
	CheckInterval uint `mapstructure:"check_interval"`
}

// Prompt holds the prompt's theme and per-segment coloring.
type Prompt struct {
	Theme               string `mapstructure:"theme"`
	PathColour          string `mapstructure:"path_colour"`
	PathColourBold      bool   `mapstructure:"path_colour_bold"`
	GitStatusColour     string `mapstructure:"git_status_colour"`
	GitStatusColourBold bool   `mapstructure:"git_status_colour_bold"`
}

// PTY holds settings for the External Launcher's PTY form.
type PTY struct {
	TermType string `mapstructure:"term_type"`
}

// Redirection holds settings for the Redirection Context's file handling.
type Redirection struct {
	FilePerm os.FileMode `mapstructure:"file_perm"`
}

// Config holds all user-configurable settings for the shell.
type Config struct {
	Terminal    Terminal    `mapstructure:"terminal"`
	Prompt      Prompt      `mapstructure:"prompt"`
	PTY         PTY         `mapstructure:"pty"`
	Redirection Redirection `mapstructure:"redirection"`
}

// Load reads configuration from a file named "config" in the current
// directory using Viper and unmarshals it into a Config instance. If
// reading or unmarshaling fails an error is returned along with a partial
// Config (which may be zero-valued).
func Load() (*Config, error) {
	viper.AddConfigPath(".")
	viper.SetConfigName("config")
	cfg := new(Config)
	if err := viper.ReadInConfig(); err != nil {
		return cfg, fmt.Errorf("posh: boot: failed to load config: %v", err)
	}
	if err := viper.Unmarshal(&cfg); err != nil {
		return cfg, fmt.Errorf("posh: boot: failed to unmarshal config: %v", err)
	}
	return cfg, nil
}

// Default returns a Config populated with sensible defaults. Used as a
// fallback when loading the configuration file fails.
func Default() *Config {
	return &Config{
		Terminal: Terminal{
			HistoryFile:     filepath.Join(os.Getenv("HOME"), ".posh_history"),
			HistoryLimit:    1000,
			InterruptPrompt: "^C",
			EOFPrompt:       "\nexit",
			CheckInterval:   0,
		},
		PTY: PTY{
			TermType: "xterm-256color",
		},
		Redirection: Redirection{
			FilePerm: 0644,
		},
	}
}
