// SPDX-License-Identifier: EPL-2.0

package vorbis

import (
	"fmt"
	"io"

	"github.com/ik5/sndpool/audio"
	"github.com/jfreymuth/oggvorbis"
)

// oggReader is an interface for oggvorbis.Reader to allow testing
type oggReader interface {
	SampleRate() int
	Channels() int
	Read([]float32) (int, error)
	Length() int64
	SetPosition(pos int64) error
}

type source struct {
	dec        oggReader
	sampleRate int
	channels   int
}

func (s *source) SampleRate() int { return s.sampleRate }
func (s *source) Channels() int   { return s.channels }
func (s *source) Close() error    { return nil }
func (s *source) BufSize() int    { return 4096 }

// LengthFrames is the stream length in frames; 0 when the reader could not
// determine it (non-seekable input).
func (s *source) LengthFrames() int64 { return s.dec.Length() }

func (s *source) SeekFrame(frame int64) error {
	if err := s.dec.SetPosition(frame); err != nil {
		return fmt.Errorf("%w", err)
	}
	return nil
}

// ReadSamples fills dst with whole frames. oggvorbis reports the number of
// interleaved values it wrote.
func (s *source) ReadSamples(dst []float32) (int, error) {
	want := len(dst) - len(dst)%s.channels
	if want == 0 {
		return 0, nil
	}

	read := 0
	for read < want {
		n, err := s.dec.Read(dst[read:want])
		read += n
		if err == io.EOF {
			if read == 0 {
				return 0, io.EOF
			}
			return read, io.EOF
		}
		if err != nil {
			return read, fmt.Errorf("%w", err)
		}
		if n == 0 {
			break
		}
	}

	return read, nil
}

type Decoder struct{}

func (Decoder) Decode(r io.Reader) (audio.Source, error) {
	dec, err := oggvorbis.NewReader(r)
	if err != nil {
		return nil, fmt.Errorf("%w", err)
	}
	if dec.Channels() == 0 {
		return nil, audio.ErrNoChannels
	}

	return &source{
		dec:        dec,
		sampleRate: dec.SampleRate(),
		channels:   dec.Channels(),
	}, nil
}
