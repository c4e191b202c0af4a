// SPDX-License-Identifier: EPL-2.0

// Package vorbis provides Ogg Vorbis audio file decoding.
//
// This package uses github.com/jfreymuth/oggvorbis to decode Ogg Vorbis files.
// Vorbis is the usual choice for game music, and it is the format the music
// scheduler streams from disk.
//
// # Decoding Vorbis Files
//
//	file, _ := os.Open("level1.ogg")
//	source, err := vorbis.Decoder{}.Decode(file)
//	if err != nil {
//	    // Handle error
//	}
//
//	buf := make([]float32, 4096)
//	n, err := source.ReadSamples(buf)
//
// ReadSamples always returns whole frames; a dst whose length is not a
// multiple of the channel count has its tail left untouched.
//
// # Output Format
//
//   - Sample format: float32 in range [-1.0, 1.0]
//   - Channels: as stored in the file
//   - Sample rate: as stored in the file (commonly 44.1kHz or 48kHz)
//
// For stereo files, samples are interleaved:
//
//	[L0, R0, L1, R1, L2, R2, ...]
//
// # Seeking
//
// When the underlying reader is seekable the source implements
// audio.FrameSeeker using the granule index of the Ogg stream, so looping a
// long track does not re-decode it from the start.
//
// # Limitations
//
//   - Decoding only
//   - Chained (multi-stream) Ogg files are not supported
package vorbis
