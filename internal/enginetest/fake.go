// SPDX-License-Identifier: EPL-2.0

// Package enginetest provides a scriptable in-memory engine.Engine for
// exercising code that drives sounds without decoding or mixing anything.
package enginetest

import (
	"errors"
	"time"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/ik5/sndpool/engine"
)

// ErrInit is returned by InitSound when FailPaths or FailAfter says so.
var ErrInit = errors.New("enginetest: init failed")

// Engine records every sound it creates in Sounds, in creation order.
type Engine struct {
	Sounds []*Sound

	// FailPaths makes InitSound fail for the listed paths.
	FailPaths map[string]bool
	// FailAfter makes InitSound fail once that many sounds were created
	// successfully. Zero disables it.
	FailAfter int

	// Frames is the length reported by every new sound.
	Frames uint64

	listenerPos mgl32.Vec3
	listenerDir mgl32.Vec3
	buses       map[engine.Bus]float32
	closed      bool
	created     int
}

var _ engine.Engine = (*Engine)(nil)

func New() *Engine {
	return &Engine{
		Frames:      engine.SampleRate,
		listenerDir: mgl32.Vec3{0, 0, -1},
		buses:       map[engine.Bus]float32{engine.BusSfx: 1, engine.BusMusic: 1},
	}
}

func (e *Engine) InitSound(path string, flags engine.Flags, bus engine.Bus) (engine.Sound, error) {
	if e.closed {
		return nil, engine.ErrClosed
	}
	if e.FailPaths[path] || (e.FailAfter > 0 && e.created >= e.FailAfter) {
		return nil, ErrInit
	}
	e.created++

	s := &Sound{
		Path:    path,
		Flags:   flags,
		Bus:     bus,
		Frames:  e.Frames,
		spatial: flags&engine.FlagNoSpatialization == 0,
	}
	e.Sounds = append(e.Sounds, s)
	return s, nil
}

func (e *Engine) SampleRate() int { return engine.SampleRate }

func (e *Engine) ListenerPosition() mgl32.Vec3 { return e.listenerPos }

// ListenerDirection is not part of engine.Engine; tests use it to check
// SetListener.
func (e *Engine) ListenerDirection() mgl32.Vec3 { return e.listenerDir }

func (e *Engine) SetListener(pos, dir mgl32.Vec3) {
	e.listenerPos = pos
	e.listenerDir = dir
}

func (e *Engine) BusVolume(bus engine.Bus) float32 { return e.buses[bus] }

func (e *Engine) SetBusVolume(bus engine.Bus, volume float32) { e.buses[bus] = volume }

func (e *Engine) Close() error {
	e.closed = true
	return nil
}

// Closed reports whether Close was called.
func (e *Engine) Closed() bool { return e.closed }

// Live counts sounds that were created and not uninitialised.
func (e *Engine) Live() int {
	n := 0
	for _, s := range e.Sounds {
		if !s.Uninited {
			n++
		}
	}
	return n
}

// Sound is a fake engine.Sound. Playback never advances on its own: tests
// move it with Finish and Elapsed.
type Sound struct {
	Path  string
	Flags engine.Flags
	Bus   engine.Bus

	// StartErr and SeekErr are returned by Start and SeekToFrame.
	StartErr error
	SeekErr  error
	// LengthErr is returned by LengthInFrames.
	LengthErr error

	Frames  uint64
	Elapsed time.Duration

	Starts   int
	Stops    int
	Seeks    []uint64
	Fade     time.Duration
	Uninited bool

	Rolloff     float32
	MinDistance float32
	Doppler     float32
	Directional float32
	Listener    int

	playing bool
	looping bool
	spatial bool
	pos     mgl32.Vec3
}

var _ engine.Sound = (*Sound)(nil)

// Finish makes the sound stop as if it reached its end or its fade ended.
func (s *Sound) Finish() { s.playing = false }

func (s *Sound) Uninit() {
	s.Uninited = true
	s.playing = false
}

func (s *Sound) SetLooping(looping bool)             { s.looping = looping }
func (s *Sound) IsLooping() bool                     { return s.looping }
func (s *Sound) SetRolloff(rolloff float32)          { s.Rolloff = rolloff }
func (s *Sound) SetMinDistance(distance float32)     { s.MinDistance = distance }
func (s *Sound) SetDopplerFactor(factor float32)     { s.Doppler = factor }
func (s *Sound) SetDirectionalAttenuation(f float32) { s.Directional = f }
func (s *Sound) SetPinnedListener(index int)         { s.Listener = index }
func (s *Sound) SetSpatialization(enabled bool)      { s.spatial = enabled }
func (s *Sound) IsSpatialized() bool                 { return s.spatial }
func (s *Sound) SetPosition(pos mgl32.Vec3)          { s.pos = pos }
func (s *Sound) Position() mgl32.Vec3                { return s.pos }
func (s *Sound) IsPlaying() bool                     { return s.playing }
func (s *Sound) Time() time.Duration                 { return s.Elapsed }

func (s *Sound) Start() error {
	s.Starts++
	if s.Uninited {
		return engine.ErrUninitialized
	}
	if s.StartErr != nil {
		return s.StartErr
	}
	s.playing = true
	return nil
}

func (s *Sound) Stop() {
	s.Stops++
	s.playing = false
}

// StopWithFade records the fade. A positive fade keeps the sound playing
// until Finish is called.
func (s *Sound) StopWithFade(fade time.Duration) {
	s.Fade = fade
	if fade <= 0 {
		s.playing = false
	}
}

func (s *Sound) SeekToFrame(frame uint64) error {
	s.Seeks = append(s.Seeks, frame)
	if s.SeekErr != nil {
		return s.SeekErr
	}
	s.Elapsed = time.Duration(frame/engine.SampleRate)*time.Second +
		time.Duration(frame%engine.SampleRate)*time.Second/engine.SampleRate
	return nil
}

func (s *Sound) LengthInFrames() (uint64, error) {
	if s.LengthErr != nil {
		return 0, s.LengthErr
	}
	return s.Frames, nil
}
