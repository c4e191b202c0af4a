// SPDX-License-Identifier: EPL-2.0

package engine

import (
	"errors"
	"io"
	"math"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/ik5/sndpool/internal/audiotest"
)

func newTestMixer(t *testing.T) *Mixer {
	t.Helper()

	m, err := New(nil, nil)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	t.Cleanup(func() { m.Close() })
	return m
}

func near(a, b float32) bool { return math.Abs(float64(a-b)) < 1e-3 }

// pull keeps mixing blocks of frames until done reports true for one of
// them. Streams fill in the background, so their output is not there on
// the first read.
func pull(t *testing.T, m *Mixer, frames int, done func(buf []float32) bool) {
	t.Helper()

	buf := make([]float32, frames*Channels)
	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		m.ReadFrames(buf)
		if done(buf) {
			return
		}
		time.Sleep(time.Millisecond)
	}
	t.Fatal("mixer output never reached the expected state")
}

func TestMixer_InitSoundSharesResidentPCM(t *testing.T) {
	t.Parallel()

	m := newTestMixer(t)
	path := audiotest.WriteWAV(t, "blip.wav", SampleRate, 2, 64, 0.25)

	a, err := m.InitSound(path, FlagDecode, BusSfx)
	if err != nil {
		t.Fatalf("InitSound() error = %v", err)
	}
	b, err := m.InitSound(path, FlagDecode, BusSfx)
	if err != nil {
		t.Fatalf("InitSound() error = %v", err)
	}

	if got := m.Resources().Resident(); got != 1 {
		t.Fatalf("Resident() = %d, want 1", got)
	}

	a.Uninit()
	if got := m.Resources().Resident(); got != 1 {
		t.Errorf("Resident() after one Uninit = %d, want 1", got)
	}
	b.Uninit()
	b.Uninit()
	if got := m.Resources().Resident(); got != 0 {
		t.Errorf("Resident() after both Uninit = %d, want 0", got)
	}
}

func TestMixer_InitSoundErrors(t *testing.T) {
	t.Parallel()

	m := newTestMixer(t)
	dir := t.TempDir()

	garbage := filepath.Join(dir, "garbage.wav")
	if err := os.WriteFile(garbage, []byte("definitely not a wav file"), 0o600); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name string
		path string
		bus  Bus
		want error
	}{
		{"unknown extension", filepath.Join(dir, "a.xyz"), BusSfx, ErrUnsupportedFormat},
		{"missing file", filepath.Join(dir, "missing.wav"), BusSfx, os.ErrNotExist},
		{"not decodable", garbage, BusSfx, ErrDecode},
		{"bad bus", garbage, Bus(42), ErrInvalidBus},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			s, err := m.InitSound(tt.path, FlagDecode, tt.bus)
			if !errors.Is(err, tt.want) {
				t.Errorf("InitSound() error = %v, want %v", err, tt.want)
			}
			if s != nil {
				t.Error("InitSound() returned a sound on error")
			}
		})
	}
}

func TestMixer_ReadFramesMixesPlayingSounds(t *testing.T) {
	t.Parallel()

	m := newTestMixer(t)
	path := audiotest.WriteWAV(t, "tone.wav", SampleRate, 1, 100, 0.5)

	s, err := m.InitSound(path, FlagDecode|FlagNoSpatialization, BusSfx)
	if err != nil {
		t.Fatalf("InitSound() error = %v", err)
	}

	buf := make([]float32, 2*50)
	m.ReadFrames(buf)
	for i, v := range buf {
		if v != 0 {
			t.Fatalf("buf[%d] = %v before Start, want 0", i, v)
		}
	}

	if err := s.Start(); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	m.ReadFrames(buf)
	for i, v := range buf {
		if !near(v, 0.5) {
			t.Fatalf("buf[%d] = %v, want ~0.5", i, v)
		}
	}

	// 50 frames remain; the second half of the block must be silent.
	buf = make([]float32, 2*100)
	m.ReadFrames(buf)
	if !near(buf[2*49], 0.5) || buf[2*50] != 0 {
		t.Errorf("tail = %v, %v, want ~0.5, 0", buf[2*49], buf[2*50])
	}
	if s.IsPlaying() {
		t.Error("IsPlaying() = true after the sound ran out")
	}
	if got := m.Playing(); got != 0 {
		t.Errorf("Playing() = %d, want 0", got)
	}
}

func TestMixer_LoopingWrapsAround(t *testing.T) {
	t.Parallel()

	m := newTestMixer(t)
	path := audiotest.WriteWAV(t, "loop.wav", SampleRate, 2, 10, 0.5)

	s, err := m.InitSound(path, FlagDecode|FlagNoSpatialization, BusSfx)
	if err != nil {
		t.Fatalf("InitSound() error = %v", err)
	}
	s.SetLooping(true)
	if !s.IsLooping() {
		t.Fatal("IsLooping() = false after SetLooping(true)")
	}
	if err := s.Start(); err != nil {
		t.Fatalf("Start() error = %v", err)
	}

	buf := make([]float32, 2*35)
	m.ReadFrames(buf)
	if !near(buf[len(buf)-1], 0.5) {
		t.Errorf("last sample = %v, want ~0.5", buf[len(buf)-1])
	}
	if !s.IsPlaying() {
		t.Error("IsPlaying() = false for a looping sound")
	}
	if got, want := s.Time(), 5*time.Second/SampleRate; got != want {
		t.Errorf("Time() = %v, want %v", got, want)
	}
}

func TestMixer_BusVolume(t *testing.T) {
	t.Parallel()

	m := newTestMixer(t)
	path := audiotest.WriteWAV(t, "bus.wav", SampleRate, 2, 100, 0.5)

	s, err := m.InitSound(path, FlagDecode|FlagNoSpatialization, BusMusic)
	if err != nil {
		t.Fatalf("InitSound() error = %v", err)
	}
	if err := s.Start(); err != nil {
		t.Fatalf("Start() error = %v", err)
	}

	m.SetBusVolume(BusMusic, 0.5)
	m.SetBusVolume(BusSfx, -3)
	if got := m.BusVolume(BusSfx); got != 0 {
		t.Errorf("BusVolume(BusSfx) = %v, want 0", got)
	}

	buf := make([]float32, 2*10)
	m.ReadFrames(buf)
	if !near(buf[0], 0.25) {
		t.Errorf("buf[0] = %v, want ~0.25", buf[0])
	}
}

func TestMixer_Spatialization(t *testing.T) {
	t.Parallel()

	m := newTestMixer(t)
	path := audiotest.WriteWAV(t, "pos.wav", SampleRate, 2, 100, 0.5)

	s, err := m.InitSound(path, FlagDecode, BusSfx)
	if err != nil {
		t.Fatalf("InitSound() error = %v", err)
	}
	if !s.IsSpatialized() {
		t.Fatal("IsSpatialized() = false without FlagNoSpatialization")
	}

	m.SetListener(mgl32.Vec3{}, mgl32.Vec3{0, 0, -1})
	s.SetPosition(mgl32.Vec3{2, 0, 0})
	if got := s.Position(); got != (mgl32.Vec3{2, 0, 0}) {
		t.Errorf("Position() = %v", got)
	}
	if err := s.Start(); err != nil {
		t.Fatalf("Start() error = %v", err)
	}

	buf := make([]float32, 2*4)
	m.ReadFrames(buf)
	// Panned fully right, at half volume for twice the min distance.
	if !near(buf[0], 0) || !near(buf[1], 0.5) {
		t.Errorf("frame = %v, %v, want ~0, ~0.5", buf[0], buf[1])
	}

	s.SetPosition(mgl32.Vec3{0, 0, -1})
	m.ReadFrames(buf)
	if !near(buf[0], 0.5) || !near(buf[1], 0.5) {
		t.Errorf("frame ahead = %v, %v, want ~0.5, ~0.5", buf[0], buf[1])
	}
}

func TestMixer_StopWithFade(t *testing.T) {
	t.Parallel()

	m := newTestMixer(t)
	path := audiotest.WriteWAV(t, "fade.wav", SampleRate, 2, SampleRate, 0.5)

	s, err := m.InitSound(path, FlagDecode|FlagNoSpatialization, BusSfx)
	if err != nil {
		t.Fatalf("InitSound() error = %v", err)
	}
	if err := s.Start(); err != nil {
		t.Fatalf("Start() error = %v", err)
	}

	// 10ms is 441 frames.
	s.StopWithFade(10 * time.Millisecond)

	buf := make([]float32, 2*200)
	m.ReadFrames(buf)
	if !s.IsPlaying() {
		t.Fatal("IsPlaying() = false in the middle of a fade")
	}
	if buf[len(buf)-2] >= buf[0] {
		t.Errorf("fade is not decreasing: %v then %v", buf[0], buf[len(buf)-2])
	}

	buf = make([]float32, 2*300)
	m.ReadFrames(buf)
	if s.IsPlaying() {
		t.Error("IsPlaying() = true after the fade finished")
	}
	if buf[len(buf)-1] != 0 {
		t.Errorf("last sample = %v after fade, want 0", buf[len(buf)-1])
	}
}

func TestMixer_SeekAndLength(t *testing.T) {
	t.Parallel()

	m := newTestMixer(t)
	path := audiotest.WriteWAV(t, "seek.wav", SampleRate, 2, SampleRate, 0.5)

	for _, flags := range []Flags{FlagDecode, FlagStream} {
		s, err := m.InitSound(path, flags, BusSfx)
		if err != nil {
			t.Fatalf("InitSound(%v) error = %v", flags, err)
		}

		n, err := s.LengthInFrames()
		if err != nil || n != SampleRate {
			t.Errorf("LengthInFrames(%v) = %d, %v, want %d", flags, n, err, SampleRate)
		}

		if err := s.SeekToFrame(SampleRate / 2); err != nil {
			t.Errorf("SeekToFrame(%v) error = %v", flags, err)
		}
		if got := s.Time(); got != 500*time.Millisecond {
			t.Errorf("Time(%v) = %v, want 500ms", flags, got)
		}

		if err := s.SeekToFrame(2 * SampleRate); !errors.Is(err, ErrSeek) {
			t.Errorf("SeekToFrame(%v) past end error = %v, want ErrSeek", flags, err)
		}

		s.Uninit()
		if err := s.Start(); !errors.Is(err, ErrUninitialized) {
			t.Errorf("Start() after Uninit error = %v, want ErrUninitialized", err)
		}
	}
}

func TestMixer_StreamPlaysToTheEnd(t *testing.T) {
	t.Parallel()

	m := newTestMixer(t)
	path := audiotest.WriteWAV(t, "song.wav", SampleRate, 2, 3000, 0.5)

	s, err := m.InitSound(path, FlagStream|FlagNoSpatialization, BusMusic)
	if err != nil {
		t.Fatalf("InitSound() error = %v", err)
	}
	if err := s.Start(); err != nil {
		t.Fatalf("Start() error = %v", err)
	}

	heard := 0
	pull(t, m, 256, func(buf []float32) bool {
		for i := 0; i < len(buf); i += Channels {
			if near(buf[i], 0.5) {
				heard++
			}
		}
		return !s.IsPlaying()
	})
	if heard != 3000 {
		t.Errorf("heard %d frames, want 3000", heard)
	}
}

func TestMixer_StreamLoops(t *testing.T) {
	t.Parallel()

	m := newTestMixer(t)
	// Resampled, so every wrap reopens the file.
	path := audiotest.WriteWAV(t, "loop.wav", 22050, 1, 100, 0.5)

	s, err := m.InitSound(path, FlagStream|FlagNoSpatialization, BusMusic)
	if err != nil {
		t.Fatalf("InitSound() error = %v", err)
	}
	s.SetLooping(true)
	if err := s.Start(); err != nil {
		t.Fatalf("Start() error = %v", err)
	}

	heard := 0
	pull(t, m, 256, func(buf []float32) bool {
		for i := 0; i < len(buf); i += Channels {
			if buf[i] > 0.1 {
				heard++
			}
		}
		return heard > 1000
	})
	if !s.IsPlaying() {
		t.Error("looping stream stopped")
	}

	s.SetLooping(false)
	pull(t, m, 256, func([]float32) bool { return !s.IsPlaying() })
}

func TestMixer_StreamSeekDropsQueuedFrames(t *testing.T) {
	t.Parallel()

	m := newTestMixer(t)
	path := audiotest.WriteWAV(t, "seek.wav", SampleRate, 2, 3000, 0.5)

	s, err := m.InitSound(path, FlagStream|FlagNoSpatialization, BusMusic)
	if err != nil {
		t.Fatalf("InitSound() error = %v", err)
	}
	// Let the queue fill from frame 0 before moving.
	time.Sleep(20 * time.Millisecond)
	if err := s.SeekToFrame(2000); err != nil {
		t.Fatalf("SeekToFrame() error = %v", err)
	}
	if err := s.Start(); err != nil {
		t.Fatalf("Start() error = %v", err)
	}

	heard := 0
	pull(t, m, 256, func(buf []float32) bool {
		for i := 0; i < len(buf); i += Channels {
			if near(buf[i], 0.5) {
				heard++
			}
		}
		return !s.IsPlaying()
	})
	if heard != 1000 {
		t.Errorf("heard %d frames after seeking to 2000, want 1000", heard)
	}
	if got, want := s.Time(), 3000*time.Second/SampleRate; got != want {
		t.Errorf("Time() = %v, want %v", got, want)
	}
}

func TestMixer_ReadFramesDoesNotWaitOnDisk(t *testing.T) {
	t.Parallel()

	m := newTestMixer(t)
	path := audiotest.WriteWAV(t, "slow.wav", 22050, 1, 200, 0.5)

	// Every open after the first one blocks until the gate opens.
	gate := make(chan struct{})
	defer close(gate)
	reopening := make(chan struct{}, 1)
	var opens atomic.Int32
	m.res.openFile = func(name string) (io.ReadCloser, error) {
		if opens.Add(1) > 1 {
			select {
			case reopening <- struct{}{}:
			default:
			}
			<-gate
		}
		return os.Open(name)
	}

	s, err := m.InitSound(path, FlagStream|FlagNoSpatialization, BusMusic)
	if err != nil {
		t.Fatalf("InitSound() error = %v", err)
	}
	s.SetLooping(true)
	if err := s.Start(); err != nil {
		t.Fatalf("Start() error = %v", err)
	}

	waiting := true
	pull(t, m, 256, func([]float32) bool {
		select {
		case <-reopening:
			waiting = false
		default:
		}
		return !waiting
	})

	mixed := make(chan struct{})
	go func() {
		defer close(mixed)
		buf := make([]float32, 256*Channels)
		for range 100 {
			m.ReadFrames(buf)
			s.IsPlaying()
			s.Time()
		}
	}()
	select {
	case <-mixed:
	case <-time.After(5 * time.Second):
		t.Fatal("ReadFrames waited for the file to open")
	}
	if !s.IsPlaying() {
		t.Error("stream stopped while its file was reopening")
	}
	if err := s.SeekToFrame(10); err != nil {
		t.Errorf("SeekToFrame() while reopening error = %v", err)
	}
}

func TestMixer_Close(t *testing.T) {
	t.Parallel()

	m, err := New(nil, nil)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	path := audiotest.WriteWAV(t, "c.wav", SampleRate, 2, 10, 0.5)
	if _, err := m.InitSound(path, FlagDecode, BusSfx); err != nil {
		t.Fatalf("InitSound() error = %v", err)
	}

	if err := m.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}
	if err := m.Close(); err != nil {
		t.Errorf("second Close() error = %v", err)
	}
	if got := m.Resources().Resident(); got != 0 {
		t.Errorf("Resident() after Close = %d, want 0", got)
	}
	if _, err := m.InitSound(path, FlagDecode, BusSfx); !errors.Is(err, ErrClosed) {
		t.Errorf("InitSound() after Close error = %v, want ErrClosed", err)
	}
}
