// SPDX-License-Identifier: EPL-2.0

// Package engine is the low-level sound engine the voice pools sit on.
//
// Engine and Sound describe what the pools need from it: sounds that are
// created from a file, started, stopped, positioned in 3D and seeked. Mixer
// is the bundled implementation, built on github.com/gopxl/beep/v2. It
// decodes files through the formats registry and keeps fully decoded PCM
// resident per path in a beep.Buffer. Long files are streamed from disk by
// a goroutine per sound, so the device callback never waits on a file.
// Every playing sound is a chain of beep.Ctrl, effects.Volume and
// effects.Pan feeding one beep.Mixer, which a Device pulls as stereo
// float32.
//
// Two devices are provided. OtoDevice plays through the system output via
// oto. CaptureDevice renders into a WAV file and is driven explicitly,
// which makes it useful for offline rendering and tests.
package engine
