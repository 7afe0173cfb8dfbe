// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package config

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/morganforge/ollama-tui/internal/util"
)

// =============================================================================
// CONFIG STRUCTURE
// =============================================================================

// FoldPolicy selects how streamed assistant fragments are folded into the
// conversation log.
type FoldPolicy string

const (
	// FoldIncremental appends each fragment to a growing message as it
	// arrives, visible immediately.
	FoldIncremental FoldPolicy = "incremental"
	// FoldBatch buffers fragments and folds the completed turn into one
	// message at the end.
	FoldBatch FoldPolicy = "batch"
)

// ServerConfig holds the Ollama server connection settings.
type ServerConfig struct {
	// URL of the Ollama HTTP API.
	URL string `toml:"url"`
	// AutoStart launches "ollama serve" when the server is unreachable.
	AutoStart bool `toml:"auto_start"`
	// TimeoutSeconds bounds non-streaming requests.
	TimeoutSeconds int `toml:"timeout_seconds"`
}

// ChatConfig holds conversation behavior settings.
type ChatConfig struct {
	// Model preselects a model at startup; empty means choose in the TUI.
	Model string `toml:"model"`
	// FoldPolicy is "incremental" or "batch".
	FoldPolicy FoldPolicy `toml:"fold_policy"`
	// Markdown renders completed assistant turns through glamour.
	Markdown bool `toml:"markdown"`
}

// UIConfig holds display settings.
type UIConfig struct {
	// Theme is "dark", "light", or "auto".
	Theme string `toml:"theme"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	// Level is debug, info, warn, or error.
	Level string `toml:"level"`
	// File is the log destination; empty means <config dir>/ollama-tui.log.
	File string `toml:"file"`
}

// Config is the full application configuration, loaded from
// ~/.ollama-tui/config.toml with environment overrides on top.
type Config struct {
	Server ServerConfig `toml:"server"`
	Chat   ChatConfig   `toml:"chat"`
	UI     UIConfig     `toml:"ui"`
	Log    LogConfig    `toml:"log"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			URL:            "http://127.0.0.1:11434",
			AutoStart:      true,
			TimeoutSeconds: 30,
		},
		Chat: ChatConfig{
			FoldPolicy: FoldIncremental,
			Markdown:   true,
		},
		UI: UIConfig{
			Theme: "auto",
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// Timeout returns the request timeout as a duration.
func (c *Config) Timeout() time.Duration {
	return time.Duration(c.Server.TimeoutSeconds) * time.Second
}

// LogFile resolves the log destination path.
func (c *Config) LogFile() string {
	if c.Log.File != "" {
		return c.Log.File
	}
	dir, err := Dir()
	if err != nil {
		return "ollama-tui.log"
	}
	return filepath.Join(dir, "ollama-tui.log")
}

// =============================================================================
// PATHS
// =============================================================================

// Dir returns the configuration directory, ~/.ollama-tui.
func Dir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to resolve home directory: %w", err)
	}
	return filepath.Join(home, ".ollama-tui"), nil
}

// Path returns the configuration file path.
func Path() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.toml"), nil
}

// =============================================================================
// LOAD / SAVE
// =============================================================================

// Load reads the config file, fills defaults for absent fields, and
// applies environment overrides. A missing file is not an error: defaults
// apply.
func Load() (*Config, error) {
	path, err := Path()
	if err != nil {
		return nil, err
	}
	return LoadFromPath(path)
}

// LoadFromPath is Load against an explicit file path.
func LoadFromPath(path string) (*Config, error) {
	cfg := Default()
	if _, err := os.Stat(path); err == nil {
		if _, err := toml.DecodeFile(path, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", path, err)
		}
	}
	cfg.applyEnvOverrides()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Save writes the config atomically.
func Save(cfg *Config) error {
	path, err := Path()
	if err != nil {
		return err
	}
	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(cfg); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	return util.AtomicWriteFile(path, buf.Bytes(), 0644)
}

// applyEnvOverrides lets OLLAMA_TUI_* variables win over the file.
func (c *Config) applyEnvOverrides() {
	if v := os.Getenv("OLLAMA_TUI_URL"); v != "" {
		c.Server.URL = v
	}
	if v := os.Getenv("OLLAMA_TUI_MODEL"); v != "" {
		c.Chat.Model = v
	}
	if v := os.Getenv("OLLAMA_TUI_LOG_LEVEL"); v != "" {
		c.Log.Level = v
	}
	if v := os.Getenv("OLLAMA_TUI_NO_AUTOSTART"); v != "" {
		c.Server.AutoStart = false
	}
}

// Validate rejects values the rest of the program cannot handle.
func (c *Config) Validate() error {
	if !strings.HasPrefix(c.Server.URL, "http://") && !strings.HasPrefix(c.Server.URL, "https://") {
		return fmt.Errorf("server.url must be an http(s) URL, got %q", c.Server.URL)
	}
	if c.Server.TimeoutSeconds <= 0 {
		return fmt.Errorf("server.timeout_seconds must be positive, got %d", c.Server.TimeoutSeconds)
	}
	switch c.Chat.FoldPolicy {
	case FoldIncremental, FoldBatch:
	default:
		return fmt.Errorf("chat.fold_policy must be %q or %q, got %q", FoldIncremental, FoldBatch, c.Chat.FoldPolicy)
	}
	switch c.UI.Theme {
	case "dark", "light", "auto":
	default:
		return fmt.Errorf("ui.theme must be dark, light, or auto, got %q", c.UI.Theme)
	}
	return nil
}

// =============================================================================
// GLOBAL ACCESS
// =============================================================================

var (
	globalMu     sync.RWMutex
	globalConfig *Config
)

// Global returns the process-wide config, loading it on first use.
func Global() *Config {
	globalMu.RLock()
	if globalConfig != nil {
		defer globalMu.RUnlock()
		return globalConfig
	}
	globalMu.RUnlock()

	globalMu.Lock()
	defer globalMu.Unlock()
	if globalConfig == nil {
		cfg, err := Load()
		if err != nil {
			cfg = Default()
		}
		globalConfig = cfg
	}
	return globalConfig
}

// SetGlobal replaces the process-wide config, used by the file watcher on
// reload.
func SetGlobal(cfg *Config) {
	globalMu.Lock()
	globalConfig = cfg
	globalMu.Unlock()
}
