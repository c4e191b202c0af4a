// SPDX-License-Identifier: EPL-2.0

// Package wav decodes WAV files into an audio.Source.
//
// Parsing is delegated to github.com/go-audio/wav, so any RIFF layout that
// library understands is accepted, including files with LIST or other
// chunks before the data chunk.
//
// # Supported Formats
//
//   - Linear PCM (format tag 1)
//   - 8, 16, 24 and 32 bit samples
//   - Any channel count and sample rate
//
// # Decoding
//
//	file, _ := os.Open("shot.wav")
//	src, err := wav.Decoder{}.Decode(file)
//	if err != nil {
//	    // ErrNotWavFile, ErrOnlyPCMSupported, ...
//	}
//	buf := make([]float32, 4096)
//	n, err := src.ReadSamples(buf)
//
// Samples are normalized to float32 in [-1.0, 1.0]. 8-bit WAV data is
// unsigned on disk and is re-centred before scaling.
//
// # Seeking
//
// The returned source implements audio.FrameSeeker. Seeking rewinds to the
// start of the PCM data and skips forward, which is cheap for the short
// effects this decoder is normally used for.
//
// When the input is not an io.ReadSeeker it is read fully into memory
// first, since go-audio/wav needs to seek between chunks.
package wav
