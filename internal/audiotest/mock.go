// SPDX-License-Identifier: EPL-2.0

// Package audiotest has synthetic audio sources and WAV fixtures for tests.
package audiotest

import (
	"errors"
	"io"
	"math"
)

var ErrSeekPastEnd = errors.New("audiotest: seek past end")

// MockSource generates frames from a waveform function. It satisfies
// audio.Source, audio.FrameSeeker and audio.FrameLengther without importing
// package audio.
type MockSource struct {
	sampleRate int
	channels   int
	frames     int
	pos        int
	waveform   func(frame, channel int) float32

	// Closed is set by Close.
	Closed bool
}

// NewMockSource returns a source of frames frames at sampleRate.
func NewMockSource(sampleRate, channels, frames int, waveform func(frame, channel int) float32) *MockSource {
	return &MockSource{
		sampleRate: sampleRate,
		channels:   channels,
		frames:     frames,
		waveform:   waveform,
	}
}

// NewConstantSource returns a source holding value on every channel.
func NewConstantSource(sampleRate, channels, frames int, value float32) *MockSource {
	return NewMockSource(sampleRate, channels, frames, func(int, int) float32 { return value })
}

// NewChannelSource returns a source where channel c always holds values[c].
func NewChannelSource(sampleRate, frames int, values ...float32) *MockSource {
	return NewMockSource(sampleRate, len(values), frames, func(_ int, c int) float32 { return values[c] })
}

// NewSineSource returns a sine at freq Hz on every channel.
func NewSineSource(sampleRate, channels, frames int, freq float64) *MockSource {
	return NewMockSource(sampleRate, channels, frames, func(f, _ int) float32 {
		return float32(math.Sin(2 * math.Pi * freq * float64(f) / float64(sampleRate)))
	})
}

// NewRampSource returns a source whose frame f holds f on every channel.
func NewRampSource(sampleRate, channels, frames int) *MockSource {
	return NewMockSource(sampleRate, channels, frames, func(f, _ int) float32 { return float32(f) })
}

func (m *MockSource) SampleRate() int     { return m.sampleRate }
func (m *MockSource) Channels() int       { return m.channels }
func (m *MockSource) BufSize() int        { return 4096 }
func (m *MockSource) LengthFrames() int64 { return int64(m.frames) }

func (m *MockSource) Close() error {
	m.Closed = true
	return nil
}

func (m *MockSource) SeekFrame(frame int64) error {
	if frame < 0 || frame > int64(m.frames) {
		return ErrSeekPastEnd
	}
	m.pos = int(frame)
	return nil
}

// ReadSamples returns io.EOF together with the last samples.
func (m *MockSource) ReadSamples(dst []float32) (int, error) {
	if m.pos >= m.frames {
		return 0, io.EOF
	}

	n := min(len(dst)/m.channels, m.frames-m.pos)
	for f := range n {
		for c := range m.channels {
			dst[f*m.channels+c] = m.waveform(m.pos+f, c)
		}
	}
	m.pos += n

	if m.pos >= m.frames {
		return n * m.channels, io.EOF
	}
	return n * m.channels, nil
}

// Unseekable hides SeekFrame and LengthFrames of the wrapped source.
type Unseekable struct {
	Src *MockSource
}

func (u Unseekable) SampleRate() int                        { return u.Src.SampleRate() }
func (u Unseekable) Channels() int                          { return u.Src.Channels() }
func (u Unseekable) BufSize() int                           { return u.Src.BufSize() }
func (u Unseekable) Close() error                           { return u.Src.Close() }
func (u Unseekable) ReadSamples(dst []float32) (int, error) { return u.Src.ReadSamples(dst) }
