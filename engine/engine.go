// SPDX-License-Identifier: EPL-2.0

package engine

import (
	"time"

	"github.com/go-gl/mathgl/mgl32"
)

// Output format of every engine. The device, the mixer and the resident
// PCM cache all use it.
const (
	SampleRate = 44100
	Channels   = 2
)

// Bus selects the group a sound is mixed into.
type Bus int

const (
	BusSfx Bus = iota
	BusMusic

	busCount
)

func (b Bus) String() string {
	switch b {
	case BusSfx:
		return "sfx"
	case BusMusic:
		return "music"
	}
	return "unknown"
}

// Flags control how InitSound loads a file.
type Flags uint32

const (
	// FlagDecode decodes the whole file up front and keeps it resident.
	// Sounds initialised from the same path share one decoded copy.
	FlagDecode Flags = 1 << iota
	// FlagStream decodes incrementally from disk while playing.
	FlagStream
	// FlagNoSpatialization creates the sound with spatialization disabled.
	FlagNoSpatialization
)

// Engine is the collaborator that owns decoding, mixing and the output
// device. All methods are safe to call while the device is pulling frames.
type Engine interface {
	InitSound(path string, flags Flags, bus Bus) (Sound, error)
	SampleRate() int

	ListenerPosition() mgl32.Vec3
	SetListener(pos, dir mgl32.Vec3)

	BusVolume(bus Bus) float32
	SetBusVolume(bus Bus, volume float32)

	Close() error
}

// Sound is one decodable, seekable, positionable playback instance.
type Sound interface {
	Uninit()

	SetLooping(looping bool)
	IsLooping() bool

	SetRolloff(rolloff float32)
	SetMinDistance(distance float32)
	SetDopplerFactor(factor float32)
	SetDirectionalAttenuation(factor float32)
	SetPinnedListener(index int)

	SetSpatialization(enabled bool)
	IsSpatialized() bool
	SetPosition(pos mgl32.Vec3)
	Position() mgl32.Vec3

	Start() error
	Stop()
	StopWithFade(fade time.Duration)
	IsPlaying() bool

	SeekToFrame(frame uint64) error
	LengthInFrames() (uint64, error)
	Time() time.Duration
}
