package config_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/Vincent1Vincent2/spotipi-go/internal/config"
)

func newTempDir(t *testing.T) string {
	t.Helper()
	dir, err := os.MkdirTemp("", "spotipi-config-test-*")
	if err != nil {
		t.Fatalf("MkdirTemp: %v", err)
	}
	t.Cleanup(func() { os.RemoveAll(dir) })
	return dir
}

func TestTOMLStore_SaveLoadRoundTrip(t *testing.T) {
	dir := newTempDir(t)
	store, err := config.NewTOMLStore(filepath.Join(dir, "spotipi.toml"))
	if err != nil {
		t.Fatalf("NewTOMLStore: %v", err)
	}
	defer store.Close()

	cfg := config.Default()
	cfg.Spotify.ClientID = "abc123"
	cfg.Spotify.ClientSecret = "shh"
	cfg.Spotify.RedirectURI = "http://192.168.1.20:8000/callback"
	cfg.Audio.Output = "hifiberry-dac"

	if err := store.Save(&cfg); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	loaded, err := store.Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if loaded.Spotify.ClientID != "abc123" {
		t.Errorf("ClientID = %q", loaded.Spotify.ClientID)
	}
	if loaded.Audio.Output != "hifiberry-dac" {
		t.Errorf("Audio.Output = %q", loaded.Audio.Output)
	}
	if !loaded.IsConfigured() {
		t.Error("IsConfigured() = false after saving credentials")
	}
}

func TestTOMLStore_SecurePermissions(t *testing.T) {
	dir := newTempDir(t)
	path := filepath.Join(dir, "spotipi.toml")
	store, err := config.NewTOMLStore(path)
	if err != nil {
		t.Fatalf("NewTOMLStore: %v", err)
	}
	defer store.Close()

	cfg := config.Default()
	if err := store.Save(&cfg); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("Stat: %v", err)
	}
	if perm := info.Mode().Perm(); perm != 0600 {
		t.Errorf("file mode = %o, want 600", perm)
	}
}

func TestTOMLStore_MissingFileFallsBackToEnv(t *testing.T) {
	dir := newTempDir(t)
	t.Setenv(config.EnvClientID, "env-id")
	t.Setenv(config.EnvClientSecret, "env-secret")
	t.Setenv(config.EnvAudioOutput, "justboom-dac")

	store, err := config.NewTOMLStore(filepath.Join(dir, "spotipi.toml"))
	if err != nil {
		t.Fatalf("NewTOMLStore: %v", err)
	}
	defer store.Close()

	cfg, err := store.Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Spotify.ClientID != "env-id" {
		t.Errorf("ClientID = %q, want env value", cfg.Spotify.ClientID)
	}
	if cfg.Audio.Output != "justboom-dac" {
		t.Errorf("Audio.Output = %q", cfg.Audio.Output)
	}
}

func TestDefault_NotConfigured(t *testing.T) {
	cfg := config.Default()
	if cfg.IsConfigured() {
		t.Error("default config must not report configured")
	}
	if cfg.Audio.Output != "analog" {
		t.Errorf("default audio output = %q, want analog", cfg.Audio.Output)
	}
}

func TestUpdateEnvAudioOutput(t *testing.T) {
	dir := newTempDir(t)
	envPath := filepath.Join(dir, ".env")
	if err := os.WriteFile(envPath, []byte("SPOTIPI_CLIENT_ID=\"keepme\"\n"), 0644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	if err := config.UpdateEnvAudioOutput(envPath, "iqaudio-dacplus"); err != nil {
		t.Fatalf("UpdateEnvAudioOutput: %v", err)
	}

	data, err := os.ReadFile(envPath)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	got := string(data)
	if !strings.Contains(got, "iqaudio-dacplus") {
		t.Errorf(".env missing new audio output:\n%s", got)
	}
	if !strings.Contains(got, "keepme") {
		t.Errorf(".env lost existing key:\n%s", got)
	}
}

func TestUpdateEnvAudioOutput_CreatesFile(t *testing.T) {
	dir := newTempDir(t)
	envPath := filepath.Join(dir, ".env")

	if err := config.UpdateEnvAudioOutput(envPath, "analog"); err != nil {
		t.Fatalf("UpdateEnvAudioOutput: %v", err)
	}
	if _, err := os.Stat(envPath); err != nil {
		t.Fatalf(".env was not created: %v", err)
	}
}
