// SPDX-License-Identifier: EPL-2.0

package sfx

import (
	"fmt"
	"time"

	"github.com/go-gl/mathgl/mgl32"
)

// Play starts a voice of p and returns its handle. An idle voice is used
// if there is one; otherwise a busy voice is stolen. When attenuated is
// false the voice is not spatialised and pos is ignored.
//
// Engine failures while restarting the voice are logged and do not stop
// the handle from being issued.
//
// p must name a loaded player; anything else panics.
func (r *Registry) Play(p PlayerID, pos mgl32.Vec3, attenuated bool) VoiceID {
	if p.ID == 0 || int(p.ID) >= len(r.players) {
		panic(fmt.Sprintf("sfx: Play with unknown player %d", p.ID))
	}
	pl := &r.players[p.ID]
	if len(pl.voices) == 0 {
		panic(fmt.Sprintf("sfx: Play with player %d without voices", p.ID))
	}

	idx := r.pick(pl)
	if idx < 0 {
		return VoiceID{}
	}

	v := &pl.voices[idx]
	s := v.sound
	if s.IsPlaying() {
		s.Stop()
	}
	if err := s.SeekToFrame(0); err != nil {
		r.logger.Error("failed to rewind voice", "op", "SeekToFrame", "path", pl.path, "voice", idx, "err", err)
	}
	s.SetSpatialization(attenuated)
	if attenuated {
		s.SetPosition(pos)
	}
	if err := s.Start(); err != nil {
		r.logger.Error("failed to start voice", "op", "Start", "path", pl.path, "voice", idx, "err", err)
	}
	v.playCount++

	return VoiceID{Player: p, ID: uint32(idx), PlayCount: v.playCount}
}

// pick returns the first idle voice, or the busy voice most worth
// stealing: farthest from the listener, then longest playing. The scan
// keeps a single running candidate from left to right.
func (r *Registry) pick(pl *player) int {
	listener := r.eng.ListenerPosition()

	var (
		best     = -1
		bestDist float32
		bestTime time.Duration
	)
	for i, v := range pl.voices {
		if !v.sound.IsPlaying() {
			return i
		}

		d := v.sound.Position().Sub(listener)
		dist := d.Dot(d)
		elapsed := v.sound.Time()
		if best < 0 || dist > bestDist || (dist == bestDist && elapsed > bestTime) {
			best, bestDist, bestTime = i, dist, elapsed
		}
	}
	return best
}
