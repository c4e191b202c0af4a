// SPDX-License-Identifier: EPL-2.0

package sndpool

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/ik5/sndpool/audio"
	"github.com/ik5/sndpool/engine"
	"github.com/ik5/sndpool/music"
	"github.com/ik5/sndpool/sfx"
)

var (
	ErrInit       = errors.New("sndpool: failed to initialise audio")
	ErrLoadFailed = errors.New("sndpool: failed to load sound")
)

// System is the sound playback context of an application: one engine, the
// loaded sound effects and the music scheduler. Create it with New, drive
// it from one goroutine, call Update once per frame and Teardown on exit.
type System struct {
	cfg    Config
	logger *log.Logger

	eng     engine.Engine
	sfx     *sfx.Registry
	music   *music.Scheduler
	library map[string]sfx.PlayerID

	closed bool
}

type options struct {
	eng      engine.Engine
	dev      engine.Device
	logger   *log.Logger
	decoders *audio.Registry
}

// Option configures New.
type Option func(*options)

// WithEngine makes the System use eng instead of building a Mixer.
// Teardown still closes it.
func WithEngine(eng engine.Engine) Option {
	return func(o *options) { o.eng = eng }
}

// WithDevice sets the device the Mixer outputs to. The default is the
// system output through oto.
func WithDevice(dev engine.Device) Option {
	return func(o *options) { o.dev = dev }
}

// WithDecoders replaces the bundled decoder registry of the Mixer.
func WithDecoders(reg *audio.Registry) Option {
	return func(o *options) { o.decoders = reg }
}

// WithLogger replaces the default stderr logger.
func WithLogger(logger *log.Logger) Option {
	return func(o *options) { o.logger = logger }
}

// New starts the audio system.
//
// Parameters:
//   - cfg: validated before anything is started; see Config
//   - opts: WithEngine, WithDevice, WithDecoders, WithLogger
//
// Without WithEngine a Mixer is created on the chosen device and both bus
// volumes are set from cfg. Errors starting the engine wrap ErrInit.
func New(cfg Config, opts ...Option) (*System, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	var o options
	for _, opt := range opts {
		opt(&o)
	}

	logger := o.logger
	if logger == nil {
		level, _ := log.ParseLevel(cfg.LogLevel)
		logger = log.NewWithOptions(os.Stderr, log.Options{
			ReportCaller:    true,
			ReportTimestamp: true,
			TimeFormat:      time.Kitchen,
			Prefix:          "sndpool",
			Level:           level,
		})
	}

	eng := o.eng
	if eng == nil {
		dev := o.dev
		if dev == nil {
			dev = engine.NewOtoDevice(cfg.BufferSize)
		}
		m, err := engine.New(dev, o.decoders)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrInit, err)
		}
		eng = m
	}

	s := &System{
		cfg:     cfg,
		logger:  logger,
		eng:     eng,
		sfx:     sfx.NewRegistry(eng, logger),
		music:   music.New(eng, logger),
		library: make(map[string]sfx.PlayerID),
	}
	s.SetSfxVolume(cfg.SfxVolume)
	s.SetMusicVolume(cfg.MusicVolume)

	logger.Debug("audio started", "rate", eng.SampleRate())
	return s, nil
}

// Engine exposes the underlying engine.
func (s *System) Engine() engine.Engine { return s.eng }

// LoadSound loads path with an explicit voice count. See sfx.Registry.Load.
func (s *System) LoadSound(path string, polyphony uint8, looping bool, rolloff float32) sfx.PlayerID {
	return s.sfx.Load(path, polyphony, looping, rolloff)
}

// Play starts p without spatialisation.
func (s *System) Play(p sfx.PlayerID) sfx.VoiceID {
	return s.sfx.Play(p, mgl32.Vec3{}, false)
}

// PlayAttenuated starts p at pos, attenuated and panned against the listener.
func (s *System) PlayAttenuated(p sfx.PlayerID, pos mgl32.Vec3) sfx.VoiceID {
	return s.sfx.Play(p, pos, true)
}

// The voice operations below forward to sfx.Registry; stale handles are
// ignored there.

// IsPlaying reports whether v is still playing.
func (s *System) IsPlaying(v sfx.VoiceID) bool { return s.sfx.IsPlaying(v) }

// SetSoundPosition moves an attenuated voice.
func (s *System) SetSoundPosition(v sfx.VoiceID, pos mgl32.Vec3) { s.sfx.SetPosition(v, pos) }

// StopSound stops v.
func (s *System) StopSound(v sfx.VoiceID) { s.sfx.Stop(v) }

// SeekSound moves v to offset.
func (s *System) SeekSound(v sfx.VoiceID, offset time.Duration) { s.sfx.Seek(v, offset) }

// SoundTime is the playback position of v.
func (s *System) SoundTime(v sfx.VoiceID) time.Duration { return s.sfx.Time(v) }

// SoundIsLooping reports whether p was loaded looping.
func (s *System) SoundIsLooping(p sfx.PlayerID) bool { return s.sfx.IsLooping(p) }

// QueueSong makes path the next background track; an empty path fades the
// music out. See music.Scheduler.Queue.
func (s *System) QueueSong(path string, looping bool, fadeout time.Duration) bool {
	return s.music.Queue(path, looping, fadeout)
}

// SetListenerOrientation moves the listener.
func (s *System) SetListenerOrientation(pos, dir mgl32.Vec3) {
	s.eng.SetListener(pos, dir)
}

// SfxVolume and MusicVolume report the bus volumes.
func (s *System) SfxVolume() float32   { return s.eng.BusVolume(engine.BusSfx) }
func (s *System) MusicVolume() float32 { return s.eng.BusVolume(engine.BusMusic) }

// SetSfxVolume sets the sound effect bus volume, clamped to [0,1].
func (s *System) SetSfxVolume(volume float32) {
	s.eng.SetBusVolume(engine.BusSfx, mgl32.Clamp(volume, 0, 1))
}

// SetMusicVolume sets the music bus volume, clamped to [0,1].
func (s *System) SetMusicVolume(volume float32) {
	s.eng.SetBusVolume(engine.BusMusic, mgl32.Clamp(volume, 0, 1))
}

// Update advances the music. Call it once per frame.
func (s *System) Update() {
	s.music.Tick()
}

// Sound returns the player for path, loading it on first use with the
// settings of its metadata sidecar (see ReadMetadata). Failed loads are not
// remembered and wrap ErrLoadFailed.
func (s *System) Sound(path string) (sfx.PlayerID, error) {
	if p, ok := s.library[path]; ok {
		return p, nil
	}

	ext := strings.ToLower(filepath.Ext(path))
	if !slices.Contains(s.cfg.SoundExtensions, ext) {
		return sfx.PlayerID{}, fmt.Errorf("%w: %s: extension %q not allowed", ErrLoadFailed, path, ext)
	}

	meta, err := ReadMetadata(path, SoundMetadata{
		Polyphony: s.cfg.DefaultPolyphony,
		Rolloff:   s.cfg.DefaultRolloff,
	})
	if err != nil {
		s.logger.Warn("ignoring sound metadata", "path", path, "err", err)
	}

	p := s.sfx.Load(path, meta.Polyphony, meta.Loop, meta.Rolloff)
	if p.IsZero() {
		return p, fmt.Errorf("%w: %s", ErrLoadFailed, path)
	}
	s.library[path] = p
	return p, nil
}

// Teardown releases every sound and track and closes the engine. Calling it
// again does nothing.
func (s *System) Teardown() {
	s.sfx.Teardown()
	s.music.Teardown()
	clear(s.library)

	if s.closed {
		return
	}
	s.closed = true
	if err := s.eng.Close(); err != nil {
		s.logger.Error("failed to close engine", "op", "Close", "err", err)
	}
}
