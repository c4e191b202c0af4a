// SPDX-License-Identifier: EPL-2.0

// Package formats wires the bundled decoders into an audio.Registry.
package formats

import (
	"github.com/ik5/sndpool/audio"
	"github.com/ik5/sndpool/formats/aiff"
	"github.com/ik5/sndpool/formats/mp3"
	"github.com/ik5/sndpool/formats/vorbis"
	"github.com/ik5/sndpool/formats/wav"
)

// RegisterAll adds every bundled decoder to reg under its file extensions.
func RegisterAll(reg *audio.Registry) {
	reg.Register(".wav", wav.Decoder{})
	reg.Register(".wave", wav.Decoder{})
	reg.Register(".mp3", mp3.Decoder{})
	reg.Register(".ogg", vorbis.Decoder{})
	reg.Register(".oga", vorbis.Decoder{})
	reg.Register(".aif", aiff.Decoder{})
	reg.Register(".aiff", aiff.Decoder{})
}

// NewRegistry returns a registry with every bundled decoder registered.
func NewRegistry() *audio.Registry {
	reg := audio.NewRegistry()
	RegisterAll(reg)
	return reg
}
