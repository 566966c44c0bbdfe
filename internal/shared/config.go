package shared

import (
	_ "embed"
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
	"github.com/adrg/xdg"
	"github.com/joho/godotenv"
)

//go:embed config.example.toml
var exampleConf []byte

// Config represents the application configuration loaded from a TOML file.
type Config struct {
	Credentials CredentialsConfig `toml:"credentials"`
	Server      ServerConfig      `toml:"server"`
	History     HistoryConfig     `toml:"history"`
	Database    DatabaseConfig    `toml:"database"`
}

// CredentialsConfig contains service-specific credentials.
type CredentialsConfig struct {
	Spotify SpotifyConfig `toml:"spotify"`
}

// SpotifyConfig contains the Spotify application identity used to build the
// implicit-grant authorize URL. No client secret is involved; the access
// token itself is never written to config.
type SpotifyConfig struct {
	ClientID    string `toml:"client_id"`
	RedirectURI string `toml:"redirect_uri"`
}

// ServerConfig contains settings for the local callback server.
type ServerConfig struct {
	Host string `toml:"host"`
	Port int    `toml:"port"`
}

// HistoryConfig contains the sampling and ranking knobs of the pipeline.
type HistoryConfig struct {
	RecentLimit  int     `toml:"recent_limit"`
	SampleLimit  int     `toml:"sample_limit"`
	TopN         int     `toml:"top_n"`
	PlaylistName string  `toml:"playlist_name"`
	RateLimit    float64 `toml:"rate_limit"`
}

// DatabaseConfig contains playlist-journal database settings.
type DatabaseConfig struct {
	Path         string `toml:"path"`
	MaxOpenConns int    `toml:"max_open_conns"`
	MaxIdleConns int    `toml:"max_idle_conns"`
}

// LoadConfig reads and parses a TOML configuration file from the specified path.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMissingConfig, err)
	}

	var config Config
	if err := toml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}

	return &config, nil
}

// DefaultConfig returns a Config with sensible defaults loaded from the embedded example config.
func DefaultConfig() *Config {
	var config Config
	if err := toml.Unmarshal(exampleConf, &config); err != nil {
		panic(fmt.Sprintf("failed to parse embedded default config: %v", err))
	}
	return &config
}

// CreateConfigFile creates a config.toml file at the specified path using the embedded example config.
func CreateConfigFile(path string) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config file already exists at %s", path)
	}

	if err := os.WriteFile(path, exampleConf, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// DefaultConfigPath returns the XDG location of config.toml, creating parent
// directories as needed.
func DefaultConfigPath() (string, error) {
	return xdg.ConfigFile("musicmuse/config.toml")
}

// DefaultDatabasePath returns the XDG location of the playlist journal.
func DefaultDatabasePath() (string, error) {
	return xdg.DataFile("musicmuse/journal.db")
}

// LoadEnv loads a local .env file when present and applies environment
// overrides to the config. SPOTIFY_CLIENT_ID and SPOTIFY_REDIRECT_URI take
// precedence over file values; SPOTIFY_ACCESS_TOKEN is read separately by
// the CLI and deliberately kept out of Config.
func LoadEnv(config *Config) {
	_ = godotenv.Load()

	if v := os.Getenv("SPOTIFY_CLIENT_ID"); v != "" {
		config.Credentials.Spotify.ClientID = v
	}
	if v := os.Getenv("SPOTIFY_REDIRECT_URI"); v != "" {
		config.Credentials.Spotify.RedirectURI = v
	}
}
