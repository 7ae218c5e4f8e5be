// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// isolate points the config directory at a temp dir and clears overrides.
func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("CHATBOX_HOME", dir)
	for _, key := range []string{
		"CHATBOX_API_URL", "CHATBOX_API_TIMEOUT", "CHATBOX_STORAGE_BACKEND",
		"CHATBOX_STORAGE_PATH", "CHATBOX_STORAGE_SEAL", "CHATBOX_THEME",
		"CHATBOX_NO_MOUSE", "CHATBOX_GOOGLE_CLIENT_ID", "CHATBOX_GOOGLE_CLIENT_SECRET",
		"CHATBOX_LOG_LEVEL",
	} {
		t.Setenv(key, "")
	}
	return dir
}

func TestLoad_DefaultsWhenNoFile(t *testing.T) {
	isolate(t)

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, "http://localhost:8080", cfg.API.BaseURL)
	require.Equal(t, "file", cfg.Storage.Backend)
	require.Equal(t, 4*time.Second, cfg.UI.BannerDuration.Std())
	require.Equal(t, 2*time.Second, cfg.UI.PopupDuration.Std())
	require.Equal(t, "press", cfg.UI.PanelDismiss)
}

func TestLoad_TOMLFile(t *testing.T) {
	dir := isolate(t)

	doc := `
[api]
base_url = "https://chat.example.com/"
timeout = "15s"
numeric_room_ids = false

[storage]
backend = "sqlite"

[ui]
panel_dismiss = "click"
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.toml"), []byte(doc), 0600))

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, "https://chat.example.com", cfg.API.BaseURL)
	require.Equal(t, 15*time.Second, cfg.API.Timeout.Std())
	require.False(t, cfg.API.NumericRoomIDs)
	require.Equal(t, "sqlite", cfg.Storage.Backend)
	require.Equal(t, "release", cfg.UI.PanelDismiss)

	path, err := cfg.StoragePath()
	require.NoError(t, err)
	require.Equal(t, filepath.Join(dir, "session.db"), path)
}

func TestLoad_JSONFallback(t *testing.T) {
	dir := isolate(t)

	doc := `{"api": {"base_url": "http://10.0.0.2:9000"}, "ui": {"banner_duration": "6s"}}`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.json"), []byte(doc), 0600))

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, "http://10.0.0.2:9000", cfg.API.BaseURL)
	require.Equal(t, 6*time.Second, cfg.UI.BannerDuration.Std())
}

func TestLoad_BrokenFileFallsBackToDefaults(t *testing.T) {
	dir := isolate(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.toml"), []byte("[api\nbase_url="), 0600))

	cfg, err := Load()
	require.Error(t, err)
	require.NotNil(t, cfg)
	require.Equal(t, Default().API.BaseURL, cfg.API.BaseURL)
}

func TestApplyEnvOverrides(t *testing.T) {
	isolate(t)
	t.Setenv("CHATBOX_API_URL", "https://api.example.org")
	t.Setenv("CHATBOX_API_TIMEOUT", "3s")
	t.Setenv("CHATBOX_GOOGLE_CLIENT_ID", "client-123")
	t.Setenv("CHATBOX_STORAGE_SEAL", "true")
	t.Setenv("CHATBOX_NO_MOUSE", "1")

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, "https://api.example.org", cfg.API.BaseURL)
	require.Equal(t, 3*time.Second, cfg.API.Timeout.Std())
	require.True(t, cfg.Identity.Enabled)
	require.Equal(t, "client-123", cfg.Identity.ClientID)
	require.True(t, cfg.Storage.Seal)
	require.False(t, cfg.UI.Mouse)
}

func TestValidate_CollectsAllErrors(t *testing.T) {
	cfg := Default()
	cfg.API.BaseURL = "not a url"
	cfg.Storage.Backend = "redis"
	cfg.UI.PanelDismiss = "hover"
	cfg.Identity.Enabled = true

	err := cfg.Validate()
	require.Error(t, err)

	var verrs ValidateErrors
	require.True(t, errors.As(err, &verrs))

	fields := map[string]bool{}
	for _, v := range verrs {
		fields[v.Field] = true
	}
	require.True(t, fields["api.base_url"])
	require.True(t, fields["storage.backend"])
	require.True(t, fields["ui.panel_dismiss"])
	require.True(t, fields["identity.client_id"])
}

func TestSaveTOML_RoundTrip(t *testing.T) {
	dir := isolate(t)
	path := filepath.Join(dir, "config.toml")

	cfg := Default()
	cfg.API.BaseURL = "https://saved.example.com"
	cfg.UI.BannerDuration = Duration(5 * time.Second)
	require.NoError(t, SaveTOML(cfg, path))

	info, err := os.Stat(path)
	require.NoError(t, err)
	require.Equal(t, os.FileMode(0600), info.Mode().Perm())

	loaded, err := LoadFromPath(path)
	require.NoError(t, err)
	require.Equal(t, "https://saved.example.com", loaded.API.BaseURL)
	require.Equal(t, 5*time.Second, loaded.UI.BannerDuration.Std())
}

func TestString_RedactsSecret(t *testing.T) {
	cfg := Default()
	cfg.Identity.ClientSecret = "hunter2"

	require.NotContains(t, cfg.String(), "hunter2")
	require.Equal(t, "hunter2", cfg.Identity.ClientSecret)
}
