// SPDX-License-Identifier: EPL-2.0

package vorbis

import (
	"bytes"
	"errors"
	"io"
	"testing"

	"github.com/ik5/sndpool/audio"
)

// fakeOgg hands out at most chunk values per Read, like a decoder that
// returns one packet at a time.
type fakeOgg struct {
	rate, channels int
	data           []float32
	pos            int
	chunk          int
	err            error
}

func (f *fakeOgg) SampleRate() int { return f.rate }
func (f *fakeOgg) Channels() int   { return f.channels }
func (f *fakeOgg) Length() int64   { return int64(len(f.data) / f.channels) }

func (f *fakeOgg) Read(p []float32) (int, error) {
	if f.err != nil {
		return 0, f.err
	}
	if f.pos >= len(f.data) {
		return 0, io.EOF
	}
	n := copy(p[:min(len(p), f.chunk)], f.data[f.pos:])
	f.pos += n
	return n, nil
}

func (f *fakeOgg) SetPosition(pos int64) error {
	if pos < 0 || int(pos)*f.channels > len(f.data) {
		return errors.New("position out of range")
	}
	f.pos = int(pos) * f.channels
	return nil
}

func newSource(f *fakeOgg) *source {
	return &source{dec: f, sampleRate: f.rate, channels: f.channels}
}

func TestDecoder_InvalidInput(t *testing.T) {
	t.Parallel()

	for _, data := range [][]byte{nil, []byte("not an ogg stream at all")} {
		if _, err := (Decoder{}).Decode(bytes.NewReader(data)); err == nil {
			t.Errorf("Decode(%q) succeeded", data)
		}
	}
}

func TestSource_ReadSamplesGathersPackets(t *testing.T) {
	t.Parallel()

	s := newSource(&fakeOgg{rate: 48000, channels: 2, chunk: 2, data: []float32{0.1, 0.2, 0.3, 0.4, 0.5, 0.6}})
	if s.SampleRate() != 48000 || s.Channels() != 2 {
		t.Errorf("format = %d Hz %d ch", s.SampleRate(), s.Channels())
	}

	buf := make([]float32, 4)
	n, err := s.ReadSamples(buf)
	if n != 4 || err != nil {
		t.Fatalf("ReadSamples() = %d, %v, want 4, nil", n, err)
	}
	if buf[3] != 0.4 {
		t.Errorf("buf = %v", buf)
	}

	n, err = s.ReadSamples(buf)
	if n != 2 || err != io.EOF {
		t.Errorf("tail = %d, %v, want 2, EOF", n, err)
	}
	n, err = s.ReadSamples(buf)
	if n != 0 || err != io.EOF {
		t.Errorf("read at end = %d, %v, want 0, EOF", n, err)
	}
}

func TestSource_ReadSamplesWholeFrames(t *testing.T) {
	t.Parallel()

	s := newSource(&fakeOgg{rate: 44100, channels: 2, chunk: 64, data: make([]float32, 10)})
	n, err := s.ReadSamples(make([]float32, 5))
	if n != 4 || err != nil {
		t.Errorf("ReadSamples() = %d, %v, want 4 (whole frames)", n, err)
	}
	if n, err := s.ReadSamples(make([]float32, 1)); n != 0 || err != nil {
		t.Errorf("ReadSamples() with room for no frame = %d, %v", n, err)
	}
}

func TestSource_SeekAndLength(t *testing.T) {
	t.Parallel()

	s := newSource(&fakeOgg{rate: 44100, channels: 1, chunk: 8, data: []float32{0, 0.1, 0.2, 0.3, 0.4}})
	if got := s.LengthFrames(); got != 5 {
		t.Errorf("LengthFrames() = %d, want 5", got)
	}

	var _ audio.FrameSeeker = s
	if err := s.SeekFrame(3); err != nil {
		t.Fatalf("SeekFrame() error = %v", err)
	}
	buf := make([]float32, 1)
	s.ReadSamples(buf)
	if buf[0] != 0.3 {
		t.Errorf("sample after seek = %v, want 0.3", buf[0])
	}
	if err := s.SeekFrame(9); err == nil {
		t.Error("SeekFrame() past the end succeeded")
	}
}

func TestSource_ReadError(t *testing.T) {
	t.Parallel()

	s := newSource(&fakeOgg{rate: 44100, channels: 1, chunk: 8, err: errors.New("corrupt page")})
	if _, err := s.ReadSamples(make([]float32, 4)); err == nil || err == io.EOF {
		t.Errorf("ReadSamples() error = %v, want the decoder error", err)
	}
}
