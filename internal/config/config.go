// Package config loads and represents Haze's YAML configuration.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config is the top-level configuration record consumed by the engine.
type Config struct {
	Playout     PlayoutConfig     `yaml:"playout"`
	Outputs     OutputsConfig     `yaml:"outputs"`
	Transitions TransitionsConfig `yaml:"transitions"`
	Web         WebConfig         `yaml:"web"`
	Paths       PathsConfig       `yaml:"paths"`
}

// PlayoutConfig controls PCM production shared by every sink.
type PlayoutConfig struct {
	SampleRate        int    `yaml:"sample_rate"`
	Channels          int    `yaml:"channels"`
	DefaultPlaylist   string `yaml:"default_playlist,omitempty"`
	Shuffle           bool   `yaml:"shuffle"`
	ShuffleCarryOver  int    `yaml:"shuffle_carry_over"`
}

// OutputsConfig groups per-sink configuration.
type OutputsConfig struct {
	Soundcard SoundcardConfig `yaml:"soundcard"`
	UDP       UDPConfig       `yaml:"udp"`
}

// SoundcardConfig configures the local audio device sink (C6).
type SoundcardConfig struct {
	Enabled bool   `yaml:"enabled"`
	Device  string `yaml:"device,omitempty"`
}

// UDPConfig configures the UDP/MPEG-TS broadcast sink (C7).
type UDPConfig struct {
	Enabled       bool   `yaml:"enabled"`
	Host          string `yaml:"host"`
	Port          int    `yaml:"port"`
	Codec         string `yaml:"codec"`
	Bitrate       string `yaml:"bitrate"`
	Format        string `yaml:"format"`
	EmbedMetadata bool   `yaml:"embed_metadata"`
}

// TransitionsConfig holds the fallback transition policy.
type TransitionsConfig struct {
	Default            string  `yaml:"default"`
	CrossfadeDuration  float64 `yaml:"crossfade_duration"`
}

// WebConfig is surfaced to the (out-of-scope) web collaborator untouched.
type WebConfig struct {
	Enabled bool   `yaml:"enabled"`
	Host    string `yaml:"host"`
	Port    int    `yaml:"port"`
}

// PathsConfig holds filesystem roots.
type PathsConfig struct {
	PlaylistsDir string `yaml:"playlists_dir"`
}

// Default returns the configuration used when no file is present, matching
// the defaults table in spec.md §6.
func Default() *Config {
	return &Config{
		Playout: PlayoutConfig{
			SampleRate:       48000,
			Channels:         2,
			Shuffle:          false,
			ShuffleCarryOver: 3,
		},
		Outputs: OutputsConfig{
			Soundcard: SoundcardConfig{Enabled: true},
			UDP: UDPConfig{
				Enabled:       false,
				Host:          "127.0.0.1",
				Port:          1234,
				Codec:         "aac",
				Bitrate:       "192k",
				Format:        "mpegts",
				EmbedMetadata: true,
			},
		},
		Transitions: TransitionsConfig{
			Default:           "finish_track",
			CrossfadeDuration: 2.0,
		},
		Web: WebConfig{
			Enabled: true,
			Host:    "0.0.0.0",
			Port:    8080,
		},
		Paths: PathsConfig{
			PlaylistsDir: "Managed/Playlists",
		},
	}
}

// Load reads configuration from path. A missing file is not an error: it
// yields Default(). Fields absent from the file keep zero values from the
// unmarshal target, so we unmarshal onto a copy of Default() to preserve
// spec.md's documented per-field defaults.
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	return cfg, nil
}

// Save writes cfg to path as YAML.
func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// TransitionFor resolves the authoritative transition policy for a playlist:
// the playlist's own value if set, else the configured default.
func (c *Config) TransitionFor(playlistTransition string) string {
	if playlistTransition != "" {
		return playlistTransition
	}
	return c.Transitions.Default
}
