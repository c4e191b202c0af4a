// SPDX-License-Identifier: EPL-2.0

// Package aiff decodes uncompressed AIFF files via github.com/go-audio/aiff.
//
// Supported input is big-endian PCM at 8, 16, 24 or 32 bits per sample.
// AIFF-C compressed variants are rejected with ErrUnsupportedBitDepth or
// ErrUnsupportedAiffLayout depending on what the header reports.
//
//	file, _ := os.Open("door.aiff")
//	src, err := aiff.Decoder{}.Decode(file)
//
// Non-seekable readers are buffered fully into memory before decoding.
package aiff
