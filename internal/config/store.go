// Package config handles loading and saving the SpotiPi appliance
// configuration: Spotify credentials and the selected audio output.
package config

// Config is the persisted appliance configuration.
type Config struct {
	Spotify SpotifyConfig `toml:"spotify"`
	Audio   AudioConfig   `toml:"audio"`
}

// SpotifyConfig holds the Spotify application credentials entered in the
// setup wizard.
type SpotifyConfig struct {
	ClientID     string `toml:"client_id"`
	ClientSecret string `toml:"client_secret"`
	RedirectURI  string `toml:"redirect_uri"`
}

// AudioConfig records the audio output selected in the wizard. The value is
// an option key from the bootcfg table.
type AudioConfig struct {
	Output string `toml:"output"`
}

// IsConfigured reports whether all required Spotify credentials are present.
func (c *Config) IsConfigured() bool {
	s := c.Spotify
	return s.ClientID != "" && s.ClientSecret != "" && s.RedirectURI != ""
}

// Default returns the configuration used before the wizard has run.
func Default() Config {
	return Config{
		Spotify: SpotifyConfig{RedirectURI: "http://127.0.0.1:8000/callback"},
		Audio:   AudioConfig{Output: "analog"},
	}
}

// Store is the interface for persisting the appliance configuration.
type Store interface {
	// Load returns the current configuration. A missing file yields the
	// environment-derived development configuration, not an error.
	Load() (*Config, error)

	// Save persists the configuration.
	Save(cfg *Config) error

	// Path returns the file path used by this store.
	Path() string
}
