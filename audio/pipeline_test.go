// SPDX-License-Identifier: EPL-2.0

package audio

import (
	"errors"
	"io"
	"testing"

	"github.com/ik5/sndpool/internal/audiotest"
)

func TestConform(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		rate, ch  int
		same      bool
		wantFrame int
	}{
		{"already conformant", 44100, 2, true, 100},
		{"mono", 44100, 1, false, 100},
		{"other rate", 22050, 2, false, 200},
		{"mono other rate", 22050, 1, false, 200},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			src := audiotest.NewConstantSource(tt.rate, tt.ch, 100, 0.5)
			out, err := Conform(src, 44100)
			if err != nil {
				t.Fatalf("Conform() error = %v", err)
			}
			if (out == Source(src)) != tt.same {
				t.Errorf("Conform() returned the source unchanged = %v, want %v", out == Source(src), tt.same)
			}
			if out.SampleRate() != 44100 || out.Channels() != 2 {
				t.Errorf("format = %d Hz %d ch", out.SampleRate(), out.Channels())
			}

			pcm, err := ReadAll(out, 64)
			if err != nil {
				t.Fatalf("ReadAll() error = %v", err)
			}
			if len(pcm) != 2*tt.wantFrame {
				t.Errorf("ReadAll() = %d samples, want %d", len(pcm), 2*tt.wantFrame)
			}
		})
	}
}

func TestConform_Errors(t *testing.T) {
	t.Parallel()

	if _, err := Conform(audiotest.NewConstantSource(0, 2, 1, 0), 44100); !errors.Is(err, ErrInvalidRate) {
		t.Errorf("Conform() zero source rate error = %v, want ErrInvalidRate", err)
	}
	if _, err := Conform(audiotest.NewConstantSource(44100, 2, 1, 0), 0); !errors.Is(err, ErrInvalidRate) {
		t.Errorf("Conform() zero target rate error = %v, want ErrInvalidRate", err)
	}
	if _, err := Conform(audiotest.NewConstantSource(44100, 0, 1, 0), 44100); !errors.Is(err, ErrNoChannels) {
		t.Errorf("Conform() without channels error = %v, want ErrNoChannels", err)
	}
}

func TestReadAll_OddBufferSize(t *testing.T) {
	t.Parallel()

	pcm, err := ReadAll(audiotest.NewConstantSource(8000, 3, 50, 1), 7)
	if err != nil {
		t.Fatalf("ReadAll() error = %v", err)
	}
	if len(pcm) != 150 {
		t.Errorf("ReadAll() = %d samples, want 150", len(pcm))
	}
}

// stallingSource returns samples on its first read only, then neither
// samples nor an error.
type stallingSource struct {
	Source
	reads int
}

func (s *stallingSource) ReadSamples(dst []float32) (int, error) {
	s.reads++
	if s.reads == 1 {
		return s.Source.ReadSamples(dst)
	}
	return 0, nil
}

func TestReadAll_StalledSource(t *testing.T) {
	t.Parallel()

	src := &stallingSource{Source: audiotest.NewConstantSource(44100, 2, 100, 0.5)}
	pcm, err := ReadAll(src, 64)
	if !errors.Is(err, io.ErrNoProgress) {
		t.Fatalf("ReadAll() error = %v, want io.ErrNoProgress", err)
	}
	if len(pcm) != 64 {
		t.Errorf("ReadAll() = %d samples, want the 64 read before the stall", len(pcm))
	}
	if src.reads != 1+maxEmptyReads {
		t.Errorf("ReadAll() read %d times, want %d", src.reads, 1+maxEmptyReads)
	}
}
