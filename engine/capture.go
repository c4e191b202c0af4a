// SPDX-License-Identifier: EPL-2.0

package engine

import (
	"fmt"
	"io"
	"time"

	goaudio "github.com/go-audio/audio"
	gowav "github.com/go-audio/wav"
	"github.com/ik5/sndpool/utils"
)

// CaptureDevice renders mixed output into a 16-bit PCM WAV file instead of
// a sound card. Nothing is pulled on its own; call Render to advance time.
type CaptureDevice struct {
	w   io.WriteSeeker
	enc *gowav.Encoder
	src FrameReader

	buf    []float32
	intBuf *goaudio.IntBuffer
	frames uint64
}

func NewCaptureDevice(w io.WriteSeeker) *CaptureDevice {
	return &CaptureDevice{w: w}
}

func (d *CaptureDevice) Start(r FrameReader) error {
	if d.src != nil {
		return ErrAlreadyStarted
	}
	d.src = r
	d.enc = gowav.NewEncoder(d.w, SampleRate, 16, Channels, 1)
	d.buf = make([]float32, 1024*Channels)
	d.intBuf = &goaudio.IntBuffer{
		Format:         &goaudio.Format{NumChannels: Channels, SampleRate: SampleRate},
		Data:           make([]int, len(d.buf)),
		SourceBitDepth: 16,
	}
	return nil
}

// Render pulls dur worth of frames from the mixer and appends them to the file.
func (d *CaptureDevice) Render(dur time.Duration) error {
	if d.src == nil || d.enc == nil {
		return ErrNotStarted
	}

	remaining := int(dur * SampleRate / time.Second)
	for remaining > 0 {
		frames := min(remaining, len(d.buf)/Channels)
		buf := d.buf[:frames*Channels]
		d.src.ReadFrames(buf)

		d.intBuf.Data = d.intBuf.Data[:len(buf)]
		for i, v := range buf {
			d.intBuf.Data[i] = int(utils.Float32ToInt16(v))
		}
		if err := d.enc.Write(d.intBuf); err != nil {
			return fmt.Errorf("writing capture: %w", err)
		}
		remaining -= frames
		d.frames += uint64(frames)
	}
	return nil
}

// Frames reports how many frames have been rendered so far.
func (d *CaptureDevice) Frames() uint64 { return d.frames }

// Close finalises the WAV header. The underlying writer is left open.
func (d *CaptureDevice) Close() error {
	if d.enc == nil {
		return nil
	}
	err := d.enc.Close()
	d.enc = nil
	if err != nil {
		return fmt.Errorf("closing capture: %w", err)
	}
	return nil
}
