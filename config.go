package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
)

// Config holds all application configuration
type Config struct {
	UI struct {
		Color   string `mapstructure:"color"`
		BGColor string `mapstructure:"bgcolor"`
	} `mapstructure:"ui"`
	Timing struct {
		RefreshMs int `mapstructure:"refresh_ms"`
	} `mapstructure:"timing"`
	Announce struct {
		Enabled bool `mapstructure:"enabled"`
		QuietMs int  `mapstructure:"quiet_ms"`
	} `mapstructure:"announce"`
	Visualizer struct {
		Enabled    bool `mapstructure:"enabled"`
		RefreshMs  int  `mapstructure:"refresh_ms"`
		Autogain   bool `mapstructure:"autogain"`
		Bars       int  `mapstructure:"bars"`
		SixteenBit bool `mapstructure:"sixteen_bit"`
	} `mapstructure:"visualizer"`
}

// RefreshInterval returns the metadata refresh cadence.
func (c Config) RefreshInterval() time.Duration {
	return time.Duration(c.Timing.RefreshMs) * time.Millisecond
}

// VisualizerInterval returns the visualizer redraw cadence.
func (c Config) VisualizerInterval() time.Duration {
	return time.Duration(c.Visualizer.RefreshMs) * time.Millisecond
}

// SafeConfig wraps Config with thread-safe access
type SafeConfig struct {
	mu  sync.RWMutex
	cfg Config
}

// Get returns a copy of the current config (thread-safe read)
func (sc *SafeConfig) Get() Config {
	sc.mu.RLock()
	defer sc.mu.RUnlock()
	return sc.cfg
}

// Set updates the config (thread-safe write)
func (sc *SafeConfig) Set(cfg Config) {
	sc.mu.Lock()
	defer sc.mu.Unlock()
	sc.cfg = cfg
}

var config = &SafeConfig{}

// configError identifies the offending field so defaults can be
// applied selectively.
type configError struct {
	field   string
	message string
}

func (e configError) Error() string {
	return fmt.Sprintf("%s: %s", e.field, e.message)
}

// isValidColor accepts "default" or an ANSI 256 palette index.
func isValidColor(color string) bool {
	if color == "default" {
		return true
	}
	n, err := strconv.Atoi(color)
	return err == nil && n >= 0 && n <= 255
}

// validateConfig checks ranges and formats, returning one error per
// invalid field.
func validateConfig(cfg *Config) []error {
	var errs []error
	if !isValidColor(cfg.UI.Color) {
		errs = append(errs, configError{"ui.color", fmt.Sprintf("invalid color %q", cfg.UI.Color)})
	}
	if !isValidColor(cfg.UI.BGColor) {
		errs = append(errs, configError{"ui.bgcolor", fmt.Sprintf("invalid color %q", cfg.UI.BGColor)})
	}
	if cfg.Timing.RefreshMs < 10 {
		errs = append(errs, configError{"timing.refresh_ms", fmt.Sprintf("must be at least 10 (got %d)", cfg.Timing.RefreshMs)})
	}
	if cfg.Announce.QuietMs < 0 {
		errs = append(errs, configError{"announce.quiet_ms", fmt.Sprintf("must not be negative (got %d)", cfg.Announce.QuietMs)})
	}
	if cfg.Visualizer.RefreshMs < 10 {
		errs = append(errs, configError{"visualizer.refresh_ms", fmt.Sprintf("must be at least 10 (got %d)", cfg.Visualizer.RefreshMs)})
	}
	if cfg.Visualizer.Bars < 1 || cfg.Visualizer.Bars > 512 {
		errs = append(errs, configError{"visualizer.bars", fmt.Sprintf("must be between 1 and 512 (got %d)", cfg.Visualizer.Bars)})
	}
	return errs
}

// applyDefaultsForInvalidFields resets each field named in errors back
// to its default, leaving valid fields alone.
func applyDefaultsForInvalidFields(cfg *Config, errs []error) {
	for _, err := range errs {
		ce, ok := err.(configError)
		if !ok {
			continue
		}
		switch ce.field {
		case "ui.color":
			cfg.UI.Color = "default"
		case "ui.bgcolor":
			cfg.UI.BGColor = "default"
		case "timing.refresh_ms":
			cfg.Timing.RefreshMs = 1000
		case "announce.quiet_ms":
			cfg.Announce.QuietMs = 1500
		case "visualizer.refresh_ms":
			cfg.Visualizer.RefreshMs = 100
		case "visualizer.bars":
			cfg.Visualizer.Bars = 30
		}
	}
}

func printConfigWarnings(errs []error) {
	if len(errs) == 0 {
		return
	}
	fmt.Fprintln(os.Stderr, "Configuration warnings:")
	for _, err := range errs {
		fmt.Fprintf(os.Stderr, "  - %v\n", err)
	}
	fmt.Fprintln(os.Stderr, "Using defaults for invalid fields.")
}

// Config file changed notification
type configReloadMsg struct{}

var configChangeChan = make(chan struct{}, 1)

// Watch for config file changes
func watchConfigCmd() tea.Cmd {
	return func() tea.Msg {
		<-configChangeChan
		return configReloadMsg{}
	}
}

func initConfig() {
	// Set defaults
	viper.SetDefault("ui.color", "default")
	viper.SetDefault("ui.bgcolor", "default")
	viper.SetDefault("timing.refresh_ms", 1000)
	viper.SetDefault("announce.enabled", false)
	viper.SetDefault("announce.quiet_ms", 1500)
	viper.SetDefault("visualizer.enabled", false)
	viper.SetDefault("visualizer.refresh_ms", 100)
	viper.SetDefault("visualizer.autogain", false)
	viper.SetDefault("visualizer.bars", 30)
	viper.SetDefault("visualizer.sixteen_bit", true)

	// Set config file location following XDG standard
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")

	// Check XDG_CONFIG_HOME first, fallback to ~/.config
	configHome := os.Getenv("XDG_CONFIG_HOME")
	if configHome == "" {
		homeDir, err := os.UserHomeDir()
		if err == nil {
			configHome = filepath.Join(homeDir, ".config")
		}
	}

	if configHome != "" {
		viper.AddConfigPath(filepath.Join(configHome, "songui"))
	}

	// Environment variable support with SONGUI_ prefix
	viper.SetEnvPrefix("SONGUI")
	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// Read config file (ignore error if not found)
	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			// Config file found but had errors
			fmt.Fprintf(os.Stderr, "Warning: Error reading config file: %v\n", err)
		}
	}

	// Command-line flags take precedence when explicitly set
	bindFlags()

	// Unmarshal into config struct
	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: Error parsing config: %v\n", err)
	}

	// Warn about out-of-range fields and fall back to their defaults
	// rather than refusing to start.
	if errs := validateConfig(&cfg); len(errs) > 0 {
		printConfigWarnings(errs)
		applyDefaultsForInvalidFields(&cfg, errs)
	}
	config.Set(cfg)

	// Watch for config file changes and live reload
	viper.OnConfigChange(func(e fsnotify.Event) {
		var newCfg Config
		if err := viper.Unmarshal(&newCfg); err == nil {
			if errs := validateConfig(&newCfg); len(errs) > 0 {
				applyDefaultsForInvalidFields(&newCfg, errs)
			}
			config.Set(newCfg)
			// Config reloaded successfully, notify the app
			select {
			case configChangeChan <- struct{}{}:
			default:
				// Channel full, skip notification
			}
		}
	})
	viper.WatchConfig()
}
