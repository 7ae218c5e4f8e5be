// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package config provides unified configuration loading and management for chatbox.
//
// Supports both TOML and JSON configuration formats, with sensible defaults,
// .env files, environment variable overrides, and validation.
//
// # Key Types
//
//   - Config: Main configuration structure with all settings
//   - APIConfig: Remote chat API location, timeout and rate limit
//   - StorageConfig: Session storage backend and sealing
//   - UIConfig: Theme, banner timings and side panel dismissal
//   - IdentityConfig: Google sign-in client settings
//
// # Configuration Precedence
//
// Configuration is loaded from (in order of precedence):
//   - Environment variables (CHATBOX_*), including values from .env files
//   - ~/.chatbox/config.toml
//   - ~/.chatbox/config.json
//   - Built-in defaults
//
// # Usage
//
//	cfg, err := config.Load()
//	if err != nil && cfg == nil {
//	    log.Fatal(err)
//	}
//
//	client := api.NewClient(cfg.API.BaseURL, api.WithTimeout(cfg.API.Timeout.Std()))
package config
