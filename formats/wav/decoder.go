// SPDX-License-Identifier: EPL-2.0

package wav

import (
	"bytes"
	"fmt"
	"io"

	goaudio "github.com/go-audio/audio"
	gowav "github.com/go-audio/wav"
	"github.com/ik5/sndpool/audio"
	"github.com/ik5/sndpool/utils"
)

// pcmReader is the part of gowav.Decoder the source needs; tests fake it.
type pcmReader interface {
	PCMBuffer(buf *goaudio.IntBuffer) (int, error)
	Rewind() error
}

type source struct {
	dec        pcmReader
	sampleRate int
	channels   int
	bitDepth   int
	frames     int64
	intBuf     *goaudio.IntBuffer
}

func (s *source) SampleRate() int { return s.sampleRate }
func (s *source) Channels() int   { return s.channels }
func (s *source) Close() error    { return nil }
func (s *source) BufSize() int {
	if s.intBuf != nil {
		return cap(s.intBuf.Data)
	}
	return 4096
}

func (s *source) ReadSamples(dst []float32) (int, error) {
	if len(dst) == 0 {
		return 0, nil
	}

	if s.intBuf == nil || cap(s.intBuf.Data) < len(dst) {
		s.intBuf = &goaudio.IntBuffer{
			Data:           make([]int, len(dst)),
			Format:         &goaudio.Format{NumChannels: s.channels, SampleRate: s.sampleRate},
			SourceBitDepth: s.bitDepth,
		}
	} else {
		s.intBuf.Data = s.intBuf.Data[:len(dst)]
	}

	n, err := s.dec.PCMBuffer(s.intBuf)
	if err != nil && err != io.EOF {
		return 0, fmt.Errorf("%w", err)
	}
	if n == 0 {
		return 0, io.EOF
	}

	for i := range n {
		v := s.intBuf.Data[i]
		if s.bitDepth == 8 {
			// 8-bit WAV samples are unsigned.
			v -= 128
		}
		dst[i] = utils.IntToFloat32(v, s.bitDepth)
	}

	return n, nil
}

// LengthFrames is derived from the size of the data chunk, or -1 when unknown.
func (s *source) LengthFrames() int64 {
	if s.frames <= 0 {
		return -1
	}
	return s.frames
}

// SeekFrame rewinds to the start of the PCM data and skips forward.
func (s *source) SeekFrame(frame int64) error {
	if err := s.dec.Rewind(); err != nil {
		return fmt.Errorf("%w", err)
	}
	skip := make([]float32, 1024*s.channels)
	remaining := frame * int64(s.channels)
	for remaining > 0 {
		chunk := min(remaining, int64(len(skip)))
		n, err := s.ReadSamples(skip[:chunk])
		remaining -= int64(n)
		if err == io.EOF {
			if remaining > 0 {
				return io.ErrUnexpectedEOF
			}
			return nil
		}
		if err != nil {
			return err
		}
	}
	return nil
}

type Decoder struct{}

func (Decoder) Decode(r io.Reader) (audio.Source, error) {
	rs, ok := r.(io.ReadSeeker)
	if !ok {
		data, err := io.ReadAll(r)
		if err != nil {
			return nil, fmt.Errorf("reading wav data: %w", err)
		}
		rs = bytes.NewReader(data)
	}

	dec := gowav.NewDecoder(rs)
	if !dec.IsValidFile() {
		return nil, ErrNotWavFile
	}
	dec.ReadInfo()
	if err := dec.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnsupportedWavLayout, err)
	}

	if dec.WavAudioFormat != 1 {
		return nil, ErrOnlyPCMSupported
	}
	switch dec.BitDepth {
	case 8, 16, 24, 32:
	default:
		return nil, ErrUnsupportedBitDepth
	}
	if dec.NumChans == 0 || dec.SampleRate == 0 {
		return nil, ErrUnsupportedWavLayout
	}

	if err := dec.FwdToPCM(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnsupportedWavChunks, err)
	}

	frameSize := int64(dec.NumChans) * int64(dec.BitDepth/8)

	return &source{
		dec:        dec,
		sampleRate: int(dec.SampleRate),
		channels:   int(dec.NumChans),
		bitDepth:   int(dec.BitDepth),
		frames:     dec.PCMLen() / frameSize,
	}, nil
}
