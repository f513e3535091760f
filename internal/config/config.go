package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// Config holds the viewer's start-up settings.
type Config struct {
	ScorePath  string `env:"SCOREVIEWER_PDF"`
	MidiPath   string `env:"SCOREVIEWER_MIDI"`
	PrefsPath  string `env:"SCOREVIEWER_PREFS_PATH" envDefault:"scoreviewer.db"`
	RemotePort int    `env:"SCOREVIEWER_REMOTE_PORT" envDefault:"8888"`
	Advertise  bool   `env:"SCOREVIEWER_ADVERTISE" envDefault:"true"`
	Debug      bool   `env:"SCOREVIEWER_DEBUG" envDefault:"false"`
}

// ParseEnv loads configuration from environment variables.
func ParseEnv(target any) error {
	if err := env.Parse(target); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

// Load reads Config from the environment. A score path given on the command
// line wins over SCOREVIEWER_PDF.
func Load(args []string) (Config, error) {
	var cfg Config
	if err := ParseEnv(&cfg); err != nil {
		return Config{}, err
	}
	if len(args) > 0 && args[0] != "" {
		cfg.ScorePath = args[0]
	}
	if len(args) > 1 && args[1] != "" {
		cfg.MidiPath = args[1]
	}
	if cfg.RemotePort < 0 || cfg.RemotePort > 65535 {
		return Config{}, fmt.Errorf("remote port %d out of range", cfg.RemotePort)
	}
	return cfg, nil
}
