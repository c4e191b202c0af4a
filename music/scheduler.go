// SPDX-License-Identifier: EPL-2.0

// Package music plays background tracks one after another with a fade-out
// between them.
//
// The Scheduler keeps two track slots. One holds the current track, the
// other the next one, loaded ahead of time but not started. Queue fades
// out the current track and loads the next; Tick starts the next track
// once the current one has gone quiet. Only the last queued track is
// kept.
package music

import (
	"time"

	"github.com/charmbracelet/log"
	"github.com/ik5/sndpool/engine"
)

const none = -1

// Scheduler crossfades background music between two track slots.
type Scheduler struct {
	eng    engine.Engine
	logger *log.Logger

	slots   [2]engine.Sound
	current int
	pending int
}

// New returns an idle scheduler. A nil logger uses log.Default.
func New(eng engine.Engine, logger *log.Logger) *Scheduler {
	if logger == nil {
		logger = log.Default()
	}
	return &Scheduler{
		eng:     eng,
		logger:  logger,
		current: none,
		pending: none,
	}
}

// Queue makes path the next track. The current track, if playing, starts
// fading out over fadeout. A previously queued track that never started is
// dropped. An empty path queues nothing, letting the current track fade to
// silence.
//
// Queue reports false when the track could not be loaded; nothing is
// queued then.
func (s *Scheduler) Queue(path string, looping bool, fadeout time.Duration) bool {
	if s.current != none && s.slots[s.current].IsPlaying() {
		s.slots[s.current].StopWithFade(fadeout)
	}
	if s.pending != none {
		s.release(s.pending)
		s.pending = none
	}
	if path == "" {
		return true
	}

	slot := 0
	if s.current == 0 {
		slot = 1
	}

	snd, err := s.eng.InitSound(path, engine.FlagStream|engine.FlagNoSpatialization, engine.BusMusic)
	if err != nil {
		s.logger.Error("failed to load song", "op", "InitSound", "path", path, "err", err)
		return false
	}
	snd.SetLooping(looping)

	s.slots[slot] = snd
	s.pending = slot
	s.logger.Debug("queued song", "path", path, "slot", slot, "loop", looping)
	return true
}

// Tick starts the queued track once there is no current track or the
// current one stopped playing. Call it once per update.
func (s *Scheduler) Tick() {
	if s.pending == none {
		return
	}
	if s.current != none {
		if s.slots[s.current].IsPlaying() {
			return
		}
		s.release(s.current)
	}

	s.current, s.pending = s.pending, none
	if err := s.slots[s.current].Start(); err != nil {
		s.logger.Error("failed to start song", "op", "Start", "slot", s.current, "err", err)
		s.release(s.current)
		s.current = none
	}
}

// Current returns the track that was last started, if any.
func (s *Scheduler) Current() (engine.Sound, bool) {
	if s.current == none {
		return nil, false
	}
	return s.slots[s.current], true
}

// Pending returns the queued track waiting for Tick, if any.
func (s *Scheduler) Pending() (engine.Sound, bool) {
	if s.pending == none {
		return nil, false
	}
	return s.slots[s.pending], true
}

// Teardown releases both slots.
func (s *Scheduler) Teardown() {
	for i := range s.slots {
		s.release(i)
	}
	s.current, s.pending = none, none
}

func (s *Scheduler) release(slot int) {
	if s.slots[slot] != nil {
		s.slots[slot].Uninit()
		s.slots[slot] = nil
	}
}
