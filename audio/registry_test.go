// SPDX-License-Identifier: EPL-2.0

package audio

import (
	"io"
	"slices"
	"sync"
	"testing"
)

type stubDecoder struct{ name string }

func (stubDecoder) Decode(io.Reader) (Source, error) { return nil, nil }

func TestRegistry_ExtensionKeys(t *testing.T) {
	t.Parallel()

	reg := NewRegistry()
	reg.Register(".wav", stubDecoder{"wav"})
	reg.Register("OGG", stubDecoder{"ogg"})

	tests := []struct {
		ext  string
		want string
		ok   bool
	}{
		{".wav", "wav", true},
		{"wav", "wav", true},
		{".WAV", "wav", true},
		{".ogg", "ogg", true},
		{"ogg", "ogg", true},
		{".mp3", "", false},
		{"", "", false},
	}

	for _, tt := range tests {
		d, ok := reg.Get(tt.ext)
		if ok != tt.ok {
			t.Errorf("Get(%q) ok = %v, want %v", tt.ext, ok, tt.ok)
			continue
		}
		if ok && d.(stubDecoder).name != tt.want {
			t.Errorf("Get(%q) = %v, want %s", tt.ext, d, tt.want)
		}
	}
}

func TestRegistry_ForPath(t *testing.T) {
	t.Parallel()

	reg := NewRegistry()
	reg.Register(".wav", stubDecoder{"wav"})

	tests := []struct {
		path string
		ok   bool
	}{
		{"sounds/door.wav", true},
		{"sounds/DOOR.WAV", true},
		{"sounds/door.ogg", false},
		{"sounds/wav", false},
		{"archive.tar.wav", true},
	}

	for _, tt := range tests {
		if _, ok := reg.ForPath(tt.path); ok != tt.ok {
			t.Errorf("ForPath(%q) ok = %v, want %v", tt.path, ok, tt.ok)
		}
	}
}

func TestRegistry_OverwriteAndExtensions(t *testing.T) {
	t.Parallel()

	reg := NewRegistry()
	reg.Register("wav", stubDecoder{"old"})
	reg.Register(".wav", stubDecoder{"new"})
	reg.Register(".aiff", stubDecoder{"aiff"})

	if d, _ := reg.Get(".wav"); d.(stubDecoder).name != "new" {
		t.Errorf("Get(.wav) = %v, want the later registration", d)
	}

	exts := reg.Extensions()
	slices.Sort(exts)
	if !slices.Equal(exts, []string{".aiff", ".wav"}) {
		t.Errorf("Extensions() = %v", exts)
	}
}

func TestRegistry_ConcurrentAccess(t *testing.T) {
	t.Parallel()

	reg := NewRegistry()
	var wg sync.WaitGroup
	for i := range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			ext := []string{".wav", ".ogg", ".mp3", ".aiff"}[i%4]
			for range 100 {
				reg.Register(ext, stubDecoder{ext})
				reg.Get(ext)
				reg.ForPath("x" + ext)
			}
		}()
	}
	wg.Wait()

	if got := len(reg.Extensions()); got != 4 {
		t.Errorf("len(Extensions()) = %d, want 4", got)
	}
}

func BenchmarkRegistry_ForPath(b *testing.B) {
	reg := NewRegistry()
	reg.Register(".wav", stubDecoder{"wav"})

	for b.Loop() {
		reg.ForPath("assets/sounds/door.wav")
	}
}
