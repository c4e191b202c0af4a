// SPDX-License-Identifier: EPL-2.0

// Package sfx manages sound effects as players with a fixed pool of voices.
//
// Load creates a player: one engine sound per voice, all decoded from the
// same file. Play picks a voice and starts it, stealing a busy voice when
// none is idle. The voice farthest from the listener is stolen first, and
// among equally distant voices the one that has played longest.
//
// Play returns a VoiceID that names one play event rather than the voice
// slot. Each play through a slot bumps the slot's play count, so a VoiceID
// kept after its voice was stolen no longer matches and every operation on
// it quietly does nothing.
//
// A Registry is driven from a single goroutine.
package sfx
