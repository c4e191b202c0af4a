// SPDX-License-Identifier: EPL-2.0

package audio

import "fmt"

// StereoMixer presents any Source as interleaved stereo. Mono is copied to
// both sides; for more than two channels the first two are kept.
type StereoMixer struct {
	src Source
	tmp []float32
}

func NewStereoMixer(src Source) *StereoMixer {
	return &StereoMixer{
		src: src,
		tmp: make([]float32, 4096),
	}
}

func (m *StereoMixer) SampleRate() int { return m.src.SampleRate() }
func (m *StereoMixer) Channels() int   { return 2 }
func (m *StereoMixer) BufSize() int    { return m.src.BufSize() }
func (m *StereoMixer) Close() error {
	err := m.src.Close()
	if err != nil {
		return fmt.Errorf("%w", err)
	}

	return nil
}

// SeekFrame forwards to the wrapped source when it can seek.
func (m *StereoMixer) SeekFrame(frame int64) error {
	if s, ok := m.src.(FrameSeeker); ok {
		return s.SeekFrame(frame)
	}
	return ErrSeekUnsupported
}

// LengthFrames forwards to the wrapped source, or reports -1.
func (m *StereoMixer) LengthFrames() int64 {
	if l, ok := m.src.(FrameLengther); ok {
		return l.LengthFrames()
	}
	return -1
}

func (m *StereoMixer) ReadSamples(dst []float32) (int, error) {
	if len(dst)%2 != 0 {
		return 0, ErrInvalidDstSize
	}
	channels := m.src.Channels()
	switch {
	case channels == 0:
		return 0, ErrNoChannels
	case channels == 2:
		return m.src.ReadSamples(dst)
	}

	frames := len(dst) / 2
	need := frames * channels
	if cap(m.tmp) < need {
		m.tmp = make([]float32, need)
	}
	m.tmp = m.tmp[:need]

	n, err := m.src.ReadSamples(m.tmp)
	got := n / channels
	if channels == 1 {
		for f := range got {
			dst[2*f] = m.tmp[f]
			dst[2*f+1] = m.tmp[f]
		}
	} else {
		for f := range got {
			dst[2*f] = m.tmp[f*channels]
			dst[2*f+1] = m.tmp[f*channels+1]
		}
	}

	return got * 2, err
}
