// SPDX-License-Identifier: EPL-2.0

package audiotest

import (
	"os"
	"path/filepath"
	"testing"

	goaudio "github.com/go-audio/audio"
	gowav "github.com/go-audio/wav"
)

// WriteWAV writes a 16-bit PCM WAV file named name into a temporary
// directory and returns its path. Every sample holds value (in [-1,1]).
func WriteWAV(t testing.TB, name string, sampleRate, channels, frames int, value float32) string {
	t.Helper()

	return WriteWAVIn(t, t.TempDir(), name, sampleRate, channels, frames, value)
}

// WriteWAVIn is WriteWAV into a caller-chosen directory.
func WriteWAVIn(t testing.TB, dir, name string, sampleRate, channels, frames int, value float32) string {
	t.Helper()

	path := filepath.Join(dir, name)
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("creating %s: %v", path, err)
	}
	defer f.Close()

	enc := gowav.NewEncoder(f, sampleRate, 16, channels, 1)
	data := make([]int, frames*channels)
	for i := range data {
		data[i] = int(value * 32767)
	}
	buf := &goaudio.IntBuffer{
		Format:         &goaudio.Format{NumChannels: channels, SampleRate: sampleRate},
		Data:           data,
		SourceBitDepth: 16,
	}
	if err := enc.Write(buf); err != nil {
		t.Fatalf("writing %s: %v", path, err)
	}
	if err := enc.Close(); err != nil {
		t.Fatalf("closing %s: %v", path, err)
	}
	return path
}
