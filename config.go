// SPDX-License-Identifier: EPL-2.0

package sndpool

import (
	"errors"
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/charmbracelet/log"
)

var ErrInvalidConfig = errors.New("sndpool: invalid configuration")

// Config holds the tunables of a System. Every field can be set from a
// SNDPOOL_* environment variable.
type Config struct {
	SfxVolume   float32 `env:"SNDPOOL_SFX_VOLUME"   envDefault:"1.0"`
	MusicVolume float32 `env:"SNDPOOL_MUSIC_VOLUME" envDefault:"1.0"`

	// DefaultPolyphony and DefaultRolloff apply to sounds loaded through
	// System.Sound whose metadata does not say otherwise.
	DefaultPolyphony uint8   `env:"SNDPOOL_POLYPHONY" envDefault:"8"`
	DefaultRolloff   float32 `env:"SNDPOOL_ROLLOFF"   envDefault:"1.0"`

	// BufferSize is the output device latency.
	BufferSize time.Duration `env:"SNDPOOL_BUFFER_SIZE" envDefault:"50ms"`

	LogLevel string `env:"SNDPOOL_LOG_LEVEL" envDefault:"info"`

	// SoundExtensions lists the file extensions System.Sound accepts.
	SoundExtensions []string `env:"SNDPOOL_SOUND_EXTENSIONS" envDefault:".wav,.ogg,.mp3,.aif,.aiff"`
}

// LoadConfig reads the configuration from the environment and validates it.
func LoadConfig() (Config, error) {
	return loadConfig(env.Options{})
}

// DefaultConfig is the configuration with every default applied and the
// environment ignored.
func DefaultConfig() Config {
	cfg, err := loadConfig(env.Options{Environment: map[string]string{}})
	if err != nil {
		panic(err)
	}
	return cfg
}

func loadConfig(opts env.Options) (Config, error) {
	cfg, err := env.ParseAsWithOptions[Config](opts)
	if err != nil {
		return Config{}, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks every field range. Errors wrap ErrInvalidConfig.
func (c Config) Validate() error {
	switch {
	case c.SfxVolume < 0 || c.SfxVolume > 1:
		return fmt.Errorf("%w: sfx volume %v outside [0,1]", ErrInvalidConfig, c.SfxVolume)
	case c.MusicVolume < 0 || c.MusicVolume > 1:
		return fmt.Errorf("%w: music volume %v outside [0,1]", ErrInvalidConfig, c.MusicVolume)
	case c.DefaultPolyphony == 0 || c.DefaultPolyphony > MaxPolyphony:
		return fmt.Errorf("%w: polyphony %d outside [1,%d]", ErrInvalidConfig, c.DefaultPolyphony, MaxPolyphony)
	case c.DefaultRolloff < 0:
		return fmt.Errorf("%w: negative rolloff %v", ErrInvalidConfig, c.DefaultRolloff)
	case c.BufferSize < 0:
		return fmt.Errorf("%w: negative buffer size %v", ErrInvalidConfig, c.BufferSize)
	case len(c.SoundExtensions) == 0:
		return fmt.Errorf("%w: no sound extensions", ErrInvalidConfig)
	}
	if _, err := log.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	return nil
}
