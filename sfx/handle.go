// SPDX-License-Identifier: EPL-2.0

package sfx

// PlayerID identifies a loaded sound. The zero value is never a real player.
type PlayerID struct {
	ID uint32
}

// IsZero reports whether p is the "no player" sentinel.
func (p PlayerID) IsZero() bool { return p.ID == 0 }

// VoiceID identifies one play of one voice.
type VoiceID struct {
	Player    PlayerID
	ID        uint32
	PlayCount uint32
}

// IsValid reports whether v still refers to the play that produced it:
// the player and voice exist and the voice has not been played since.
func (r *Registry) IsValid(v VoiceID) bool {
	if v.Player.ID == 0 || int(v.Player.ID) >= len(r.players) {
		return false
	}
	voices := r.players[v.Player.ID].voices
	if int(v.ID) >= len(voices) {
		return false
	}
	return voices[v.ID].playCount == v.PlayCount
}
