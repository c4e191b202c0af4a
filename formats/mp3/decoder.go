// SPDX-License-Identifier: EPL-2.0

package mp3

import (
	"encoding/binary"
	"fmt"
	"io"

	gomp3 "github.com/hajimehoshi/go-mp3"
	"github.com/ik5/sndpool/audio"
)

// go-mp3 always produces 16-bit little-endian stereo.
const (
	channels      = 2
	bytesPerFrame = channels * 2
)

// mp3Reader is an interface for gomp3.Decoder to allow testing
type mp3Reader interface {
	Read([]byte) (int, error)
	Seek(offset int64, whence int) (int64, error)
	SampleRate() int
	Length() int64
}

type source struct {
	dec        mp3Reader
	sampleRate int
	buf        []byte
}

func (s *source) SampleRate() int { return s.sampleRate }
func (s *source) Channels() int   { return channels }
func (s *source) Close() error    { return nil }
func (s *source) BufSize() int    { return cap(s.buf) / 2 } // return sample capacity, not bytes

// LengthFrames reports the decoded length, or -1 when the stream length is unknown.
func (s *source) LengthFrames() int64 {
	l := s.dec.Length()
	if l < 0 {
		return -1
	}
	return l / bytesPerFrame
}

func (s *source) SeekFrame(frame int64) error {
	if _, err := s.dec.Seek(frame*bytesPerFrame, io.SeekStart); err != nil {
		return fmt.Errorf("%w", err)
	}
	return nil
}

func (s *source) ReadSamples(dst []float32) (int, error) {
	bytesNeeded := len(dst) * 2
	if cap(s.buf) < bytesNeeded {
		s.buf = make([]byte, bytesNeeded)
	}
	s.buf = s.buf[:bytesNeeded]

	n, err := io.ReadFull(s.dec, s.buf)
	if err == io.ErrUnexpectedEOF {
		err = io.EOF
	}
	samples := n / 2
	if samples == 0 {
		if err != nil && err != io.EOF {
			return 0, fmt.Errorf("%w", err)
		}
		return 0, io.EOF
	}

	for i := range samples {
		dst[i] = float32(int16(binary.LittleEndian.Uint16(s.buf[2*i:]))) / 32768.0
	}

	return samples, err
}

type Decoder struct{}

func (Decoder) Decode(r io.Reader) (audio.Source, error) {
	dec, err := gomp3.NewDecoder(r)
	if err != nil {
		return nil, fmt.Errorf("%w", err)
	}

	return &source{
		dec:        dec,
		sampleRate: dec.SampleRate(),
		buf:        make([]byte, 8192),
	}, nil
}
