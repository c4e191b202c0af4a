// SPDX-License-Identifier: EPL-2.0

package audio

import (
	"fmt"
	"io"

	"github.com/ik5/sndpool/utils"
)

// Resampler converts a Source to another sample rate using cubic
// interpolation over a sliding window of four source frames.
//
// The window holds frames i-1, i, i+1, i+2 where i is the integer part of
// the current source position. Once the source runs dry the last frame is
// repeated as padding; output stops when frame i itself is padding.
type Resampler struct {
	src      Source
	dstRate  int
	ratio    float64 // source frames per output frame
	channels int

	window [4][]float32
	pads   int
	primed bool
	pos    float64

	in    []float32
	inPos int
	inLen int
	eof   bool
}

func NewResampler(src Source, dstRate int) *Resampler {
	channels := src.Channels()
	r := &Resampler{
		src:      src,
		dstRate:  dstRate,
		ratio:    float64(src.SampleRate()) / float64(dstRate),
		channels: channels,
		in:       make([]float32, max(channels, 1)*1024),
	}
	for i := range r.window {
		r.window[i] = make([]float32, channels)
	}
	return r
}

func (r *Resampler) SampleRate() int { return r.dstRate }
func (r *Resampler) Channels() int   { return r.channels }
func (r *Resampler) BufSize() int    { return r.src.BufSize() }

func (r *Resampler) Close() error {
	if err := r.src.Close(); err != nil {
		return fmt.Errorf("%w", err)
	}
	return nil
}

// LengthFrames scales the source length to the output rate, or reports -1
// when the source length is unknown.
func (r *Resampler) LengthFrames() int64 {
	l, ok := r.src.(FrameLengther)
	if !ok || l.LengthFrames() <= 0 {
		return -1
	}
	return int64(float64(l.LengthFrames()) / r.ratio)
}

// next copies the next source frame into dst. It reports false once the
// source is exhausted.
func (r *Resampler) next(dst []float32) (bool, error) {
	for r.inPos >= r.inLen {
		if r.eof {
			return false, nil
		}
		n, err := r.src.ReadSamples(r.in)
		r.inPos, r.inLen = 0, n-n%r.channels
		if err == io.EOF {
			r.eof = true
		} else if err != nil {
			return false, fmt.Errorf("%w", err)
		}
	}
	copy(dst, r.in[r.inPos:r.inPos+r.channels])
	r.inPos += r.channels
	return true, nil
}

// advance shifts the window one frame forward.
func (r *Resampler) advance() error {
	first := r.window[0]
	copy(r.window[:], r.window[1:])
	r.window[3] = first

	ok, err := r.next(r.window[3])
	if err != nil {
		return err
	}
	if !ok {
		copy(r.window[3], r.window[2])
		r.pads++
	}
	return nil
}

func (r *Resampler) prime() error {
	ok, err := r.next(r.window[1])
	if err != nil {
		return err
	}
	if !ok {
		r.pads = 3
		return nil
	}
	copy(r.window[0], r.window[1])
	for _, slot := range []int{2, 3} {
		ok, err = r.next(r.window[slot])
		if err != nil {
			return err
		}
		if !ok {
			copy(r.window[slot], r.window[slot-1])
			r.pads++
		}
	}
	return nil
}

func (r *Resampler) ReadSamples(dst []float32) (int, error) {
	if r.channels == 0 {
		return 0, ErrNoChannels
	}
	if len(dst)%r.channels != 0 {
		return 0, ErrInvalidDstSize
	}
	if r.ratio == 1 {
		return r.src.ReadSamples(dst)
	}

	if !r.primed {
		r.primed = true
		if err := r.prime(); err != nil {
			return 0, err
		}
	}

	frames := len(dst) / r.channels
	written := 0
	for written < frames {
		for r.pos >= 1 {
			r.pos--
			if err := r.advance(); err != nil {
				return written * r.channels, err
			}
		}
		if r.pads >= 3 {
			return written * r.channels, io.EOF
		}

		alpha := float32(r.pos)
		out := dst[written*r.channels:]
		for c := range r.channels {
			out[c] = utils.CubicInterpolate(r.window[0][c], r.window[1][c], r.window[2][c], r.window[3][c], alpha)
		}
		written++
		r.pos += r.ratio
	}

	return written * r.channels, nil
}
