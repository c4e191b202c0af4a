// SPDX-License-Identifier: EPL-2.0

package sndpool

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// MaxPolyphony is the largest voice count a sound may ask for.
const MaxPolyphony = 127

// SoundMetadata configures how a sound is loaded.
type SoundMetadata struct {
	Polyphony uint8
	Loop      bool
	Rolloff   float32
}

var sidecarExts = []string{".json", ".yaml", ".yml", ".toml"}

// ReadMetadata looks for a sidecar file next to path with the same base
// name (sounds/door.wav reads sounds/door.json, .yaml or .toml) and
// overrides defaults with what it finds. Keys are polyphony, loop and
// rolloff; attenuationPower is accepted for rolloff. A polyphony outside
// [1,127] keeps the default.
//
// No sidecar is not an error. A sidecar that fails to parse returns the
// defaults along with the error.
func ReadMetadata(path string, defaults SoundMetadata) (SoundMetadata, error) {
	base := strings.TrimSuffix(path, filepath.Ext(path))

	var sidecar string
	for _, ext := range sidecarExts {
		if _, err := os.Stat(base + ext); err == nil {
			sidecar = base + ext
			break
		}
	}
	if sidecar == "" {
		return defaults, nil
	}

	v := viper.New()
	v.SetConfigFile(sidecar)
	if err := v.ReadInConfig(); err != nil {
		return defaults, fmt.Errorf("reading %s: %w", sidecar, err)
	}

	meta := defaults
	if p := v.GetInt("polyphony"); p > 0 && p <= MaxPolyphony {
		meta.Polyphony = uint8(p)
	}
	if v.IsSet("loop") {
		meta.Loop = v.GetBool("loop")
	}
	switch {
	case v.IsSet("rolloff"):
		meta.Rolloff = float32(v.GetFloat64("rolloff"))
	case v.IsSet("attenuationpower"):
		meta.Rolloff = float32(v.GetFloat64("attenuationpower"))
	}
	return meta, nil
}
