// SPDX-License-Identifier: EPL-2.0

package engine

import (
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/gopxl/beep/v2"
	"github.com/gopxl/beep/v2/effects"
)

// sound is the Mixer's Sound. Every field is guarded by mixer.mu.
//
// Playback runs through ctrl -> volume -> pan -> [fade] -> loop -> src,
// and the sound itself is the streamer added to the beep.Mixer.
type sound struct {
	mixer *Mixer
	path  string
	bus   Bus

	data   *resident
	stream *stream
	src    beep.StreamSeeker

	loop   loop
	pan    effects.Pan
	volume effects.Volume
	ctrl   beep.Ctrl

	playing bool
	mixing  bool
	fading  bool
	uninit  bool

	spatial     bool
	pos         mgl32.Vec3
	rolloff     float32
	minDistance float32
	doppler     float32
	directional float32
	listener    int
}

var (
	_ Sound         = (*sound)(nil)
	_ beep.Streamer = (*sound)(nil)
)

func newSound(m *Mixer, path string, bus Bus, src beep.StreamSeeker) *sound {
	s := &sound{
		mixer:       m,
		path:        path,
		bus:         bus,
		src:         src,
		rolloff:     1,
		minDistance: 1,
	}
	s.loop.src = src
	s.pan.Streamer = &s.loop
	s.volume = effects.Volume{Streamer: &s.pan, Base: 2}
	s.ctrl = beep.Ctrl{Streamer: &s.volume, Paused: true}
	return s
}

func (s *sound) lock() func() {
	s.mixer.mu.Lock()
	return s.mixer.mu.Unlock
}

func (s *sound) Uninit() {
	defer s.lock()()
	if s.uninit {
		return
	}
	s.releaseLocked()
	s.mixer.removeLocked(s)
}

func (s *sound) releaseLocked() {
	if s.uninit {
		return
	}
	s.uninit = true
	s.playing = false
	s.ctrl.Streamer = nil
	if s.data != nil {
		s.mixer.res.release(s.path)
		s.data = nil
	}
	if s.stream != nil {
		s.stream.close()
	}
}

func (s *sound) SetLooping(looping bool) {
	defer s.lock()()
	s.loop.enabled = looping
	if s.stream != nil {
		s.stream.looping.Store(looping)
	}
}

func (s *sound) IsLooping() bool {
	defer s.lock()()
	return s.loop.enabled
}

func (s *sound) SetRolloff(rolloff float32) {
	defer s.lock()()
	s.rolloff = max(rolloff, 0)
}

func (s *sound) SetMinDistance(distance float32) {
	defer s.lock()()
	s.minDistance = max(distance, 0)
}

// SetDopplerFactor is stored for completeness; the mixer does no pitch
// shifting.
func (s *sound) SetDopplerFactor(factor float32) {
	defer s.lock()()
	s.doppler = factor
}

// SetDirectionalAttenuation is stored for completeness; sources are
// omnidirectional in this mixer.
func (s *sound) SetDirectionalAttenuation(factor float32) {
	defer s.lock()()
	s.directional = factor
}

// SetPinnedListener accepts only listener 0.
func (s *sound) SetPinnedListener(index int) {
	if index != 0 {
		return
	}
	defer s.lock()()
	s.listener = index
}

func (s *sound) SetSpatialization(enabled bool) {
	defer s.lock()()
	s.spatial = enabled
}

func (s *sound) IsSpatialized() bool {
	defer s.lock()()
	return s.spatial
}

func (s *sound) SetPosition(pos mgl32.Vec3) {
	defer s.lock()()
	s.pos = pos
}

func (s *sound) Position() mgl32.Vec3 {
	defer s.lock()()
	return s.pos
}

func (s *sound) Start() error {
	defer s.lock()()
	if s.uninit {
		return ErrUninitialized
	}
	if s.mixer.closed {
		return ErrClosed
	}
	s.playing = true
	s.ctrl.Paused = false
	s.cancelFadeLocked()
	if !s.mixing {
		s.mixer.mix.Add(s)
		s.mixing = true
	}
	return nil
}

func (s *sound) Stop() {
	defer s.lock()()
	s.playing = false
	s.ctrl.Paused = true
	s.cancelFadeLocked()
}

// StopWithFade ramps the sound down linearly and stops it at the end of
// the ramp. It keeps reporting IsPlaying until then.
func (s *sound) StopWithFade(fade time.Duration) {
	defer s.lock()()
	if !s.playing || s.fading {
		return
	}
	frames := Format.SampleRate.N(fade)
	if frames <= 0 {
		s.playing = false
		s.ctrl.Paused = true
		return
	}
	s.pan.Streamer = beep.Take(frames, effects.Transition(&s.loop, frames, 1, 0, effects.TransitionLinear))
	s.fading = true
}

func (s *sound) cancelFadeLocked() {
	s.pan.Streamer = &s.loop
	s.fading = false
}

func (s *sound) IsPlaying() bool {
	defer s.lock()()
	return s.playing
}

func (s *sound) SeekToFrame(frame uint64) error {
	defer s.lock()()
	if s.uninit {
		return ErrUninitialized
	}
	if s.stream == nil && frame > uint64(s.src.Len()) {
		return ErrSeek
	}
	if err := s.src.Seek(int(frame)); err != nil {
		if errors.Is(err, ErrSeek) {
			return err
		}
		return fmt.Errorf("%w: %w", ErrSeek, err)
	}
	return nil
}

func (s *sound) LengthInFrames() (uint64, error) {
	defer s.lock()()
	switch {
	case s.uninit:
		return 0, ErrUninitialized
	case s.stream != nil && s.stream.length < 0:
		return 0, ErrUnknownLength
	default:
		return uint64(s.src.Len()), nil
	}
}

// Time is the playback cursor as elapsed time.
func (s *sound) Time() time.Duration {
	defer s.lock()()
	return Format.SampleRate.D(s.src.Position())
}

// Stream is called by the beep.Mixer with the mixer lock held. Returning
// false drops the sound from the mix until the next Start.
func (s *sound) Stream(samples [][2]float64) (n int, ok bool) {
	if !s.playing {
		s.mixing = false
		return 0, false
	}

	s.applyLocked()
	n, ok = s.ctrl.Stream(samples)
	if !ok || n < len(samples) {
		s.playing, s.mixing = false, false
		s.cancelFadeLocked()
		return n, false
	}
	return n, true
}

func (s *sound) Err() error { return s.src.Err() }

// applyLocked refreshes bus gain, attenuation and pan from the current
// listener and position.
func (s *sound) applyLocked() {
	gain := s.mixer.buses[s.bus]
	pan := float32(0)
	if s.spatial {
		dist := s.pos.Sub(s.mixer.listenerPos).Len()
		gain *= distanceGain(dist, s.minDistance, s.rolloff)
		pan = panFor(s.mixer.listenerPos, s.mixer.listenerDir, s.pos)
	}

	s.pan.Pan = float64(pan)
	s.volume.Silent = gain <= 0
	if gain > 0 {
		s.volume.Volume = math.Log2(float64(gain))
	}
}
