// SPDX-License-Identifier: EPL-2.0

package engine

import (
	"encoding/binary"
	"fmt"
	"math"
	"time"

	"github.com/ebitengine/oto/v3"
)

// OtoDevice plays mixed frames on the default system output through oto.
// oto allows a single context per process, so only one OtoDevice can be
// started.
type OtoDevice struct {
	// BufferSize is the device latency. Zero lets oto pick.
	BufferSize time.Duration

	ctx    *oto.Context
	player *oto.Player
}

func NewOtoDevice(buffer time.Duration) *OtoDevice {
	return &OtoDevice{BufferSize: buffer}
}

func (d *OtoDevice) Start(r FrameReader) error {
	if d.player != nil {
		return ErrAlreadyStarted
	}

	ctx, ready, err := oto.NewContext(&oto.NewContextOptions{
		SampleRate:   SampleRate,
		ChannelCount: Channels,
		Format:       oto.FormatFloat32LE,
		BufferSize:   d.BufferSize,
	})
	if err != nil {
		return fmt.Errorf("failed to create oto context: %w", err)
	}
	<-ready

	d.ctx = ctx
	d.player = ctx.NewPlayer(&floatReader{src: r})
	d.player.Play()
	return nil
}

func (d *OtoDevice) Close() error {
	if d.player == nil {
		return nil
	}
	err := d.player.Close()
	d.player = nil
	if serr := d.ctx.Suspend(); serr != nil && err == nil {
		err = serr
	}
	return err
}

// floatReader adapts a FrameReader to the byte stream oto pulls from.
// It never reports EOF: silence is still output.
type floatReader struct {
	src FrameReader
	buf []float32
}

func (f *floatReader) Read(p []byte) (int, error) {
	const bytesPerFrame = Channels * 4

	samples := len(p) / bytesPerFrame * Channels
	if samples == 0 {
		return 0, nil
	}
	if cap(f.buf) < samples {
		f.buf = make([]float32, samples)
	}
	buf := f.buf[:samples]
	f.src.ReadFrames(buf)

	for i, v := range buf {
		binary.LittleEndian.PutUint32(p[i*4:], math.Float32bits(v))
	}
	return samples * 4, nil
}
