// SPDX-License-Identifier: EPL-2.0

// Package audio provides the PCM plumbing the playback engine is built on.
//
// This package contains:
//   - Source interface for decoded audio
//   - FrameSeeker and FrameLengther, optional Source capabilities
//   - Resampler for sample rate conversion
//   - StereoMixer for channel conversion to the engine's stereo layout
//   - Conform and ReadAll helpers
//   - An extension-keyed decoder Registry
//
// # Source Interface
//
//	type Source interface {
//	    SampleRate() int
//	    Channels() int
//	    ReadSamples(dst []float32) (int, error)
//	    BufSize() int
//	    Close() error
//	}
//
// Decoders and processors all implement it, so they chain freely.
//
// # Conforming to the engine format
//
// The engine mixes interleaved stereo at a single fixed rate. Conform builds
// the shortest pipeline that gets a decoded file there:
//
//	src, _ := wav.Decoder{}.Decode(file)
//	out, err := audio.Conform(src, 44100)
//
// A whole conformed file can then be drained with ReadAll:
//
//	pcm, err := audio.ReadAll(out, 4096)
//
// # Registry
//
//	reg := audio.NewRegistry()
//	reg.Register(".wav", wav.Decoder{})
//	dec, ok := reg.ForPath("sfx/shotgun.WAV")
//
// Extensions are matched case-insensitively.
//
// # Sample Format
//
// Samples are float32 in [-1.0, 1.0]. ReadSamples returns io.EOF once the
// stream is finished; any other error is a decode failure.
package audio
