package config

import (
	"errors"
	"os"

	"github.com/joho/godotenv"
)

// Environment variables used in development mode, before a spotipi.toml
// exists. A .env file in the working directory is loaded first.
const (
	EnvClientID     = "SPOTIPI_CLIENT_ID"
	EnvClientSecret = "SPOTIPI_CLIENT_SECRET"
	EnvRedirectURI  = "SPOTIPI_REDIRECT_URI"
	EnvAudioOutput  = "SPOTIPI_AUDIO_OUTPUT"
)

// FromEnv builds a configuration from the process environment, loading .env
// first if present.
func FromEnv() Config {
	_ = godotenv.Load() // missing .env is fine

	cfg := Default()
	if v := os.Getenv(EnvClientID); v != "" {
		cfg.Spotify.ClientID = v
	}
	if v := os.Getenv(EnvClientSecret); v != "" {
		cfg.Spotify.ClientSecret = v
	}
	if v := os.Getenv(EnvRedirectURI); v != "" {
		cfg.Spotify.RedirectURI = v
	}
	if v := os.Getenv(EnvAudioOutput); v != "" {
		cfg.Audio.Output = v
	}
	return cfg
}

// UpdateEnvAudioOutput records the selected audio output in the development
// .env file so a dev run picks the same device the wizard configured. All
// other keys in the file are preserved.
func UpdateEnvAudioOutput(envPath, option string) error {
	env, err := godotenv.Read(envPath)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			return err
		}
		env = map[string]string{}
	}
	env[EnvAudioOutput] = option
	return godotenv.Write(env, envPath)
}
