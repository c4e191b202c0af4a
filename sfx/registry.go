// SPDX-License-Identifier: EPL-2.0

package sfx

import (
	"github.com/charmbracelet/log"
	"github.com/ik5/sndpool/engine"
)

// MinDistance is the distance under which voices play at full volume.
const MinDistance = 0.5

type voice struct {
	sound     engine.Sound
	playCount uint32
}

type player struct {
	path   string
	voices []voice
}

// Registry owns every loaded player. Index 0 is a placeholder so that
// PlayerID{0} never names a real player.
type Registry struct {
	eng     engine.Engine
	logger  *log.Logger
	players []player
}

// NewRegistry returns an empty registry creating sounds on eng. A nil
// logger uses log.Default.
func NewRegistry(eng engine.Engine, logger *log.Logger) *Registry {
	if logger == nil {
		logger = log.Default()
	}
	return &Registry{eng: eng, logger: logger}
}

// Load creates a player with polyphony voices for the file at path.
// If any voice fails to initialise, the voices created so far are released
// and the zero PlayerID is returned.
//
// An empty path or zero polyphony is a programming error and panics.
func (r *Registry) Load(path string, polyphony uint8, looping bool, rolloff float32) PlayerID {
	if path == "" {
		panic("sfx: Load with empty path")
	}
	if polyphony == 0 {
		panic("sfx: Load with zero polyphony")
	}

	voices := make([]voice, 0, polyphony)
	for i := range int(polyphony) {
		s, err := r.eng.InitSound(path, engine.FlagDecode, engine.BusSfx)
		if err != nil {
			r.logger.Error("failed to init sound", "op", "InitSound", "path", path, "voice", i, "err", err)
			for _, v := range voices {
				v.sound.Uninit()
			}
			return PlayerID{}
		}

		s.SetLooping(looping)
		s.SetRolloff(rolloff)
		s.SetMinDistance(MinDistance)
		s.SetDopplerFactor(0)
		s.SetPinnedListener(0)
		s.SetDirectionalAttenuation(0)

		voices = append(voices, voice{sound: s})
	}

	if len(r.players) == 0 {
		r.players = append(r.players, player{})
	}
	r.players = append(r.players, player{path: path, voices: voices})

	r.logger.Debug("loaded sound", "path", path, "voices", polyphony, "loop", looping)
	return PlayerID{ID: uint32(len(r.players) - 1)}
}

// Len is the number of registry slots, including the placeholder at
// index 0 once anything was loaded.
func (r *Registry) Len() int { return len(r.players) }

// Voices reports the polyphony of p, or 0 for an unknown player.
func (r *Registry) Voices(p PlayerID) int {
	if int(p.ID) >= len(r.players) {
		return 0
	}
	return len(r.players[p.ID].voices)
}

// IsLooping reports whether p was loaded looping. Unknown players report false.
func (r *Registry) IsLooping(p PlayerID) bool {
	if int(p.ID) >= len(r.players) || len(r.players[p.ID].voices) == 0 {
		return false
	}
	return r.players[p.ID].voices[0].sound.IsLooping()
}

// Teardown releases every voice of every player and empties the registry.
func (r *Registry) Teardown() {
	for _, p := range r.players {
		for _, v := range p.voices {
			v.sound.Uninit()
		}
	}
	r.players = nil
}
