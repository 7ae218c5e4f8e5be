// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package config provides unified configuration loading and management for chatbox.
//
// Supports both TOML and JSON configuration formats, with sensible defaults,
// .env files, environment variable overrides, and validation.
//
// Configuration file locations (in order of precedence):
//   - ~/.chatbox/config.toml
//   - ~/.chatbox/config.json
//   - Built-in defaults
package config

import (
	"encoding/json"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"

	"github.com/jeranaias/chatbox-tui/internal/util"
)

// =============================================================================
// CONFIG STRUCTURES
// =============================================================================

// Config represents the complete chatbox configuration.
type Config struct {
	// General settings
	Version string `toml:"version" json:"version"`

	// Remote chat API
	API APIConfig `toml:"api" json:"api"`

	// Local session storage
	Storage StorageConfig `toml:"storage" json:"storage"`

	// Terminal UI behavior
	UI UIConfig `toml:"ui" json:"ui"`

	// Identity provider sign-in
	Identity IdentityConfig `toml:"identity" json:"identity"`

	// Log output
	Log LogConfig `toml:"log" json:"log"`
}

// APIConfig contains settings for the remote chat API.
type APIConfig struct {
	// BaseURL is prefixed to every /api/v1 path
	BaseURL string `toml:"base_url" json:"base_url"`
	// Timeout bounds each request; zero disables the timeout
	Timeout Duration `toml:"timeout" json:"timeout"`
	// RequestsPerSecond limits outbound calls; zero disables limiting
	RequestsPerSecond float64 `toml:"requests_per_second" json:"requests_per_second"`
	// NumericRoomIDs sends chatRoomId as a JSON number when it parses as one
	NumericRoomIDs bool `toml:"numeric_room_ids" json:"numeric_room_ids"`
}

// StorageConfig controls where the session is persisted.
type StorageConfig struct {
	// Backend is "file" (JSON document) or "sqlite"
	Backend string `toml:"backend" json:"backend"`
	// Path overrides the default location inside the config directory
	Path string `toml:"path" json:"path"`
	// Seal encrypts stored values with a per-user key file
	Seal bool `toml:"seal" json:"seal"`
}

// UIConfig contains UI configuration.
type UIConfig struct {
	// Theme is the UI theme: "dark", "light", "auto"
	Theme string `toml:"theme" json:"theme"`
	// WordWrap is the markdown wrap width for rendered messages
	WordWrap int `toml:"word_wrap" json:"word_wrap"`
	// Mouse enables mouse reporting (required for click-outside dismissal)
	Mouse bool `toml:"mouse" json:"mouse"`
	// BannerDuration is how long transient banners stay visible
	BannerDuration Duration `toml:"banner_duration" json:"banner_duration"`
	// PopupDuration is how long the registration popup stays before redirecting
	PopupDuration Duration `toml:"popup_duration" json:"popup_duration"`
	// PanelDismiss selects which mouse event closes the side panel: "press" or "release"
	PanelDismiss string `toml:"panel_dismiss" json:"panel_dismiss"`
}

// IdentityConfig configures Google sign-in.
type IdentityConfig struct {
	Enabled      bool   `toml:"enabled" json:"enabled"`
	ClientID     string `toml:"client_id" json:"client_id"`
	ClientSecret string `toml:"client_secret" json:"client_secret"`
	// RedirectPort is the loopback port for the OAuth callback; zero picks a free port
	RedirectPort int `toml:"redirect_port" json:"redirect_port"`
}

// LogConfig controls the log file.
type LogConfig struct {
	// Level is one of debug, info, warn, error
	Level string `toml:"level" json:"level"`
	// Format is "text" or "json"
	Format string `toml:"format" json:"format"`
	// Path overrides ~/.chatbox/chatbox.log
	Path string `toml:"path" json:"path"`
}

// Duration is a time.Duration that reads and writes as a string like "4s".
type Duration time.Duration

// Std returns the value as a time.Duration.
func (d Duration) Std() time.Duration { return time.Duration(d) }

// MarshalText implements encoding.TextMarshaler.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(time.Duration(d).String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Duration) UnmarshalText(text []byte) error {
	parsed, err := time.ParseDuration(strings.TrimSpace(string(text)))
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", string(text), err)
	}
	*d = Duration(parsed)
	return nil
}

// =============================================================================
// DEFAULT CONFIGURATION
// =============================================================================

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Version: "1.0.0",

		API: APIConfig{
			BaseURL:           "http://localhost:8080",
			Timeout:           Duration(60 * time.Second),
			RequestsPerSecond: 5,
			NumericRoomIDs:    true,
		},

		Storage: StorageConfig{
			Backend: "file",
		},

		UI: UIConfig{
			Theme:          "auto",
			WordWrap:       80,
			Mouse:          true,
			BannerDuration: Duration(4 * time.Second),
			PopupDuration:  Duration(2 * time.Second),
			PanelDismiss:   "press",
		},

		Identity: IdentityConfig{
			Enabled: false,
		},

		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// =============================================================================
// CONFIG PATH HELPERS
// =============================================================================

// ConfigDir returns the chatbox configuration directory path.
// CHATBOX_HOME replaces ~/.chatbox when set.
func ConfigDir() (string, error) {
	if dir := os.Getenv("CHATBOX_HOME"); dir != "" {
		return dir, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("could not determine home directory: %w", err)
	}
	return filepath.Join(home, ".chatbox"), nil
}

// ConfigPathTOML returns the path to the TOML config file.
func ConfigPathTOML() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.toml"), nil
}

// ConfigPathJSON returns the path to the JSON config file.
func ConfigPathJSON() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.json"), nil
}

// EnsureConfigDir ensures the config directory exists.
func EnsureConfigDir() error {
	dir, err := ConfigDir()
	if err != nil {
		return err
	}
	return os.MkdirAll(dir, 0700)
}

// StoragePath returns the session storage location for the configured backend.
func (c *Config) StoragePath() (string, error) {
	if c.Storage.Path != "" {
		return c.Storage.Path, nil
	}
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	if c.Storage.Backend == "sqlite" {
		return filepath.Join(dir, "session.db"), nil
	}
	return filepath.Join(dir, "session.json"), nil
}

// KeyPath returns the location of the sealing key for stored values.
func (c *Config) KeyPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "storage.key"), nil
}

// LogPath returns the log file location.
func (c *Config) LogPath() (string, error) {
	if c.Log.Path != "" {
		return c.Log.Path, nil
	}
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "chatbox.log"), nil
}

// ensureSecurePermissions checks and fixes permissions on config files.
// SECURITY: Config files may hold the OAuth client secret.
func ensureSecurePermissions(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return err
	}
	mode := info.Mode().Perm()
	if mode != 0600 {
		if err := os.Chmod(path, 0600); err != nil {
			return fmt.Errorf("failed to fix insecure permissions (was %o): %w", mode, err)
		}
	}
	return nil
}

// =============================================================================
// LOAD FUNCTIONS
// =============================================================================

// Load loads configuration from the config file(s).
// Tries TOML first, then JSON, and falls back to defaults.
// .env files and environment overrides are applied last.
func Load() (*Config, error) {
	cfg := Default()
	var loadErr error

	loaded := false
	if tomlPath, err := ConfigPathTOML(); err == nil {
		if _, statErr := os.Stat(tomlPath); statErr == nil {
			if err := LoadTOML(cfg, tomlPath); err != nil {
				loadErr = fmt.Errorf("failed to load TOML config: %w", err)
				cfg = Default()
			} else {
				loaded = true
			}
		}
	}

	if !loaded {
		if jsonPath, err := ConfigPathJSON(); err == nil {
			if _, statErr := os.Stat(jsonPath); statErr == nil {
				if err := LoadJSON(cfg, jsonPath); err != nil {
					loadErr = fmt.Errorf("failed to load JSON config: %w", err)
					cfg = Default()
				}
			}
		}
	}

	loadDotEnv()
	cfg.ApplyEnvOverrides()
	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	// Defaults are still usable when a file failed to parse.
	return cfg, loadErr
}

// LoadTOML loads configuration from a TOML file.
func LoadTOML(cfg *Config, path string) error {
	if err := ensureSecurePermissions(path); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not ensure secure permissions on %s: %v\n", path, err)
	}
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return fmt.Errorf("failed to decode TOML file: %w", err)
	}
	return nil
}

// LoadJSON loads configuration from a JSON file.
func LoadJSON(cfg *Config, path string) error {
	if err := ensureSecurePermissions(path); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not ensure secure permissions on %s: %v\n", path, err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read JSON file: %w", err)
	}
	if err := json.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("failed to decode JSON file: %w", err)
	}
	return nil
}

// LoadFromPath loads configuration from a specific file path with full validation.
func LoadFromPath(path string) (*Config, error) {
	cfg := Default()

	if strings.HasSuffix(path, ".json") {
		if err := LoadJSON(cfg, path); err != nil {
			return nil, fmt.Errorf("failed to load JSON config from %s: %w", path, err)
		}
	} else {
		if err := LoadTOML(cfg, path); err != nil {
			return nil, fmt.Errorf("failed to load TOML config from %s: %w", path, err)
		}
	}

	loadDotEnv()
	cfg.ApplyEnvOverrides()
	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// loadDotEnv reads ./.env and ~/.chatbox/.env into the process environment.
// Variables already set win over file values.
func loadDotEnv() {
	_ = godotenv.Load()
	if dir, err := ConfigDir(); err == nil {
		_ = godotenv.Load(filepath.Join(dir, ".env"))
	}
}

// =============================================================================
// SAVE FUNCTIONS
// =============================================================================

// Save saves the configuration to the default TOML file.
func Save(cfg *Config) error {
	path, err := ConfigPathTOML()
	if err != nil {
		return err
	}
	return SaveTOML(cfg, path)
}

// SaveTOML saves the configuration to a TOML file.
// SECURITY: Written with 0600 permissions (owner read/write only).
func SaveTOML(cfg *Config, path string) error {
	data, err := EncodeTOML(cfg)
	if err != nil {
		return err
	}
	if err := util.AtomicWriteFileWithDir(path, data, 0600, 0700); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// EncodeTOML renders the configuration as a commented TOML document.
func EncodeTOML(cfg *Config) ([]byte, error) {
	var buf strings.Builder
	buf.WriteString("# chatbox configuration file\n")
	buf.WriteString("# Generated by chatbox - edit with care\n")
	buf.WriteString("\n")

	if err := toml.NewEncoder(&buf).Encode(cfg); err != nil {
		return nil, fmt.Errorf("failed to encode config: %w", err)
	}
	return []byte(buf.String()), nil
}

// SaveJSON saves the configuration to a JSON file.
func SaveJSON(cfg *Config, path string) error {
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	if err := util.AtomicWriteFileWithDir(path, data, 0600, 0700); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// =============================================================================
// VALIDATION
// =============================================================================

// ValidationError represents a configuration validation error.
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidateErrors is a collection of validation errors.
type ValidateErrors []ValidationError

func (e ValidateErrors) Error() string {
	if len(e) == 0 {
		return "no validation errors"
	}
	var msgs []string
	for _, err := range e {
		msgs = append(msgs, err.Error())
	}
	return strings.Join(msgs, "; ")
}

// Validate validates the configuration and returns any errors.
func (c *Config) Validate() error {
	var errs ValidateErrors

	// ==========================================================================
	// API
	// ==========================================================================

	if u, err := url.Parse(c.API.BaseURL); err != nil || u.Scheme == "" || u.Host == "" {
		errs = append(errs, ValidationError{
			Field:   "api.base_url",
			Message: fmt.Sprintf("invalid URL '%s', must be absolute (http://host:port)", c.API.BaseURL),
		})
	} else if u.Scheme != "http" && u.Scheme != "https" {
		errs = append(errs, ValidationError{
			Field:   "api.base_url",
			Message: fmt.Sprintf("unsupported scheme '%s', must be http or https", u.Scheme),
		})
	}

	if c.API.Timeout < 0 {
		errs = append(errs, ValidationError{Field: "api.timeout", Message: "must not be negative"})
	}
	if c.API.RequestsPerSecond < 0 {
		errs = append(errs, ValidationError{Field: "api.requests_per_second", Message: "must not be negative"})
	}

	// ==========================================================================
	// Storage
	// ==========================================================================

	switch c.Storage.Backend {
	case "file", "sqlite":
	default:
		errs = append(errs, ValidationError{
			Field:   "storage.backend",
			Message: fmt.Sprintf("invalid backend '%s', must be one of: file, sqlite", c.Storage.Backend),
		})
	}

	// ==========================================================================
	// UI
	// ==========================================================================

	validThemes := map[string]bool{"auto": true, "dark": true, "light": true}
	if !validThemes[strings.ToLower(c.UI.Theme)] {
		errs = append(errs, ValidationError{
			Field:   "ui.theme",
			Message: fmt.Sprintf("invalid theme '%s', must be one of: auto, dark, light", c.UI.Theme),
		})
	}
	if c.UI.WordWrap < 20 || c.UI.WordWrap > 400 {
		errs = append(errs, ValidationError{
			Field:   "ui.word_wrap",
			Message: fmt.Sprintf("word wrap %d out of range (20-400)", c.UI.WordWrap),
		})
	}
	if c.UI.BannerDuration <= 0 {
		errs = append(errs, ValidationError{Field: "ui.banner_duration", Message: "must be positive"})
	}
	if c.UI.PopupDuration <= 0 {
		errs = append(errs, ValidationError{Field: "ui.popup_duration", Message: "must be positive"})
	}
	if c.UI.PanelDismiss != "press" && c.UI.PanelDismiss != "release" {
		errs = append(errs, ValidationError{
			Field:   "ui.panel_dismiss",
			Message: fmt.Sprintf("invalid value '%s', must be one of: press, release", c.UI.PanelDismiss),
		})
	}

	// ==========================================================================
	// Identity
	// ==========================================================================

	if c.Identity.Enabled && c.Identity.ClientID == "" {
		errs = append(errs, ValidationError{
			Field:   "identity.client_id",
			Message: "required when identity.enabled is true",
		})
	}
	if c.Identity.RedirectPort < 0 || c.Identity.RedirectPort > 65535 {
		errs = append(errs, ValidationError{
			Field:   "identity.redirect_port",
			Message: fmt.Sprintf("port %d out of range", c.Identity.RedirectPort),
		})
	}

	// ==========================================================================
	// Log
	// ==========================================================================

	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[strings.ToLower(c.Log.Level)] {
		errs = append(errs, ValidationError{
			Field:   "log.level",
			Message: fmt.Sprintf("invalid level '%s', must be one of: debug, info, warn, error", c.Log.Level),
		})
	}
	if c.Log.Format != "text" && c.Log.Format != "json" {
		errs = append(errs, ValidationError{
			Field:   "log.format",
			Message: fmt.Sprintf("invalid format '%s', must be one of: text, json", c.Log.Format),
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// SetDefaults sets default values for any missing or zero-value configuration fields.
func (c *Config) SetDefaults() {
	defaults := Default()

	if c.Version == "" {
		c.Version = defaults.Version
	}

	c.API.BaseURL = strings.TrimRight(c.API.BaseURL, "/")
	if c.API.BaseURL == "" {
		c.API.BaseURL = defaults.API.BaseURL
	}

	if c.Storage.Backend == "" {
		c.Storage.Backend = defaults.Storage.Backend
	}
	c.Storage.Backend = strings.ToLower(c.Storage.Backend)

	if c.UI.Theme == "" {
		c.UI.Theme = defaults.UI.Theme
	}
	if c.UI.WordWrap == 0 {
		c.UI.WordWrap = defaults.UI.WordWrap
	}
	if c.UI.BannerDuration == 0 {
		c.UI.BannerDuration = defaults.UI.BannerDuration
	}
	if c.UI.PopupDuration == 0 {
		c.UI.PopupDuration = defaults.UI.PopupDuration
	}
	// "mousedown" and "click" were the two listener flavors of the web client.
	switch strings.ToLower(c.UI.PanelDismiss) {
	case "", "mousedown":
		c.UI.PanelDismiss = "press"
	case "click":
		c.UI.PanelDismiss = "release"
	default:
		c.UI.PanelDismiss = strings.ToLower(c.UI.PanelDismiss)
	}

	if c.Log.Level == "" {
		c.Log.Level = defaults.Log.Level
	}
	c.Log.Level = strings.ToLower(c.Log.Level)
	if c.Log.Format == "" {
		c.Log.Format = defaults.Log.Format
	}
}

// =============================================================================
// ENVIRONMENT OVERRIDES
// =============================================================================

// ApplyEnvOverrides applies environment variable overrides to the config.
//
// Supported environment variables:
//   - CHATBOX_API_URL: overrides api.base_url
//   - CHATBOX_API_TIMEOUT: overrides api.timeout (e.g. "30s")
//   - CHATBOX_STORAGE_BACKEND: overrides storage.backend
//   - CHATBOX_STORAGE_PATH: overrides storage.path
//   - CHATBOX_STORAGE_SEAL: "1" or "true" seals stored values
//   - CHATBOX_THEME: overrides ui.theme
//   - CHATBOX_NO_MOUSE: "1" or "true" disables mouse reporting
//   - CHATBOX_GOOGLE_CLIENT_ID: overrides identity.client_id and enables identity sign-in
//   - CHATBOX_GOOGLE_CLIENT_SECRET: overrides identity.client_secret
//   - CHATBOX_LOG_LEVEL: overrides log.level
func (c *Config) ApplyEnvOverrides() {
	if v := os.Getenv("CHATBOX_API_URL"); v != "" {
		c.API.BaseURL = v
	}
	if v := os.Getenv("CHATBOX_API_TIMEOUT"); v != "" {
		var d Duration
		if err := d.UnmarshalText([]byte(v)); err == nil {
			c.API.Timeout = d
		}
	}
	if v := os.Getenv("CHATBOX_STORAGE_BACKEND"); v != "" {
		c.Storage.Backend = v
	}
	if v := os.Getenv("CHATBOX_STORAGE_PATH"); v != "" {
		c.Storage.Path = v
	}
	if v := os.Getenv("CHATBOX_STORAGE_SEAL"); v != "" {
		c.Storage.Seal = parseBool(v)
	}
	if v := os.Getenv("CHATBOX_THEME"); v != "" {
		c.UI.Theme = v
	}
	if v := os.Getenv("CHATBOX_NO_MOUSE"); v != "" {
		c.UI.Mouse = !parseBool(v)
	}
	if v := os.Getenv("CHATBOX_GOOGLE_CLIENT_ID"); v != "" {
		c.Identity.ClientID = v
		c.Identity.Enabled = true
	}
	if v := os.Getenv("CHATBOX_GOOGLE_CLIENT_SECRET"); v != "" {
		c.Identity.ClientSecret = v
	}
	if v := os.Getenv("CHATBOX_LOG_LEVEL"); v != "" {
		c.Log.Level = v
	}
}

func parseBool(v string) bool {
	b, err := strconv.ParseBool(strings.TrimSpace(v))
	return err == nil && b
}

// =============================================================================
// DISPLAY
// =============================================================================

// Redacted returns a copy safe to print.
// SECURITY: The OAuth client secret never appears in output.
func (c *Config) Redacted() *Config {
	safe := *c
	if safe.Identity.ClientSecret != "" {
		safe.Identity.ClientSecret = "[REDACTED]"
	}
	return &safe
}

// String returns a string representation of the config for debugging.
func (c *Config) String() string {
	data, _ := json.MarshalIndent(c.Redacted(), "", "  ")
	return string(data)
}
