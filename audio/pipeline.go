// SPDX-License-Identifier: EPL-2.0

package audio

import (
	"fmt"
	"io"
)

// Conform wraps src so it produces interleaved stereo at rate.
// Sources that already match are returned unchanged.
func Conform(src Source, rate int) (Source, error) {
	if rate <= 0 || src.SampleRate() <= 0 {
		return nil, ErrInvalidRate
	}
	if src.Channels() <= 0 {
		return nil, ErrNoChannels
	}
	out := src
	if out.SampleRate() != rate {
		out = NewResampler(out, rate)
	}
	if out.Channels() != 2 {
		out = NewStereoMixer(out)
	}
	return out, nil
}

// maxEmptyReads is how many (0, nil) reads in a row ReadAll accepts
// before giving up, as bufio does.
const maxEmptyReads = 100

// ReadAll drains src and returns every sample it produced.
// The source is not closed. A source that keeps returning no samples and
// no error fails with io.ErrNoProgress.
func ReadAll(src Source, bufferSize int) ([]float32, error) {
	channels := max(src.Channels(), 1)
	bufferSize -= bufferSize % channels
	if bufferSize <= 0 {
		bufferSize = 4096 - 4096%channels
	}

	var (
		out []float32
		buf = make([]float32, bufferSize)
	)
	if l, ok := src.(FrameLengther); ok && l.LengthFrames() > 0 {
		out = make([]float32, 0, int(l.LengthFrames())*channels)
	}

	empty := 0
	for {
		n, err := src.ReadSamples(buf)
		out = append(out, buf[:n]...)
		if err == io.EOF {
			return out, nil
		}
		if err != nil {
			return out, fmt.Errorf("%w", err)
		}
		if n > 0 {
			empty = 0
			continue
		}
		empty++
		if empty >= maxEmptyReads {
			return out, io.ErrNoProgress
		}
	}
}
