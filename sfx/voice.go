// SPDX-License-Identifier: EPL-2.0

package sfx

import (
	"time"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/ik5/sndpool/engine"
)

func (r *Registry) sound(v VoiceID) (engine.Sound, bool) {
	if !r.IsValid(v) {
		return nil, false
	}
	return r.players[v.Player.ID].voices[v.ID].sound, true
}

// IsPlaying reports whether v is still the current play of its voice and
// that voice is audible.
func (r *Registry) IsPlaying(v VoiceID) bool {
	s, ok := r.sound(v)
	return ok && s.IsPlaying()
}

// SetPosition moves a playing voice. Voices played without attenuation
// stay where they are.
func (r *Registry) SetPosition(v VoiceID, pos mgl32.Vec3) {
	s, ok := r.sound(v)
	if !ok || !s.IsSpatialized() {
		return
	}
	s.SetPosition(pos)
}

// Stop silences v. A stale handle leaves the voice alone.
func (r *Registry) Stop(v VoiceID) {
	if s, ok := r.sound(v); ok {
		s.Stop()
	}
}

// Seek moves the voice to offset, clamped to its last frame.
func (r *Registry) Seek(v VoiceID, offset time.Duration) {
	s, ok := r.sound(v)
	if !ok {
		return
	}

	// Whole milliseconds keep the product in range for any offset.
	frame := uint64(max(offset, 0)/time.Millisecond) * uint64(r.eng.SampleRate()) / 1000
	if length, err := s.LengthInFrames(); err != nil {
		r.logger.Warn("failed to get sound length", "op", "LengthInFrames", "voice", v.ID, "err", err)
	} else if length > 0 && frame >= length {
		frame = length - 1
	}

	if err := s.SeekToFrame(frame); err != nil {
		r.logger.Error("failed to seek voice", "op", "SeekToFrame", "voice", v.ID, "frame", frame, "err", err)
	}
}

// Time is the playback position of the voice, or 0 for a stale handle.
func (r *Registry) Time(v VoiceID) time.Duration {
	if s, ok := r.sound(v); ok {
		return s.Time()
	}
	return 0
}
