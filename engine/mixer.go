// SPDX-License-Identifier: EPL-2.0

package engine

import (
	"fmt"
	"slices"
	"sync"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/gopxl/beep/v2"
	"github.com/ik5/sndpool/audio"
)

// Mixer is the bundled Engine, a beep.Mixer with one streamer per playing
// sound. Like beep's speaker it keeps everything behind one mutex so the
// control thread can mutate sounds while the device goroutine pulls frames
// through ReadFrames. Nothing done under that mutex touches the disk.
type Mixer struct {
	mu sync.Mutex

	res    *ResourceManager
	device Device
	mix    beep.Mixer

	buses       [busCount]float32
	listenerPos mgl32.Vec3
	listenerDir mgl32.Vec3

	sounds  []*sound
	scratch [][2]float64
	closed  bool
}

var _ Engine = (*Mixer)(nil)

// New creates a mixer decoding through registry (nil for the bundled
// decoders) and starts dev pulling from it. A nil dev leaves the mixer
// unattached; frames are then only produced by calling ReadFrames.
func New(dev Device, registry *audio.Registry) (*Mixer, error) {
	m := &Mixer{
		res:         NewResourceManager(registry, SampleRate),
		listenerDir: mgl32.Vec3{0, 0, -1},
	}
	for i := range m.buses {
		m.buses[i] = 1
	}

	if dev != nil {
		if err := dev.Start(m); err != nil {
			return nil, fmt.Errorf("starting device: %w", err)
		}
		m.device = dev
	}
	return m, nil
}

func (m *Mixer) SampleRate() int { return SampleRate }

// Resources exposes the mixer's resource manager.
func (m *Mixer) Resources() *ResourceManager { return m.res }

func (m *Mixer) InitSound(path string, flags Flags, bus Bus) (Sound, error) {
	if bus < 0 || bus >= busCount {
		return nil, fmt.Errorf("%w: %d", ErrInvalidBus, bus)
	}

	m.mu.Lock()
	closed := m.closed
	m.mu.Unlock()
	if closed {
		return nil, ErrClosed
	}

	// Decoding happens outside the lock so the device keeps running.
	var s *sound
	if flags&FlagStream != 0 {
		st, err := m.res.openStream(path)
		if err != nil {
			return nil, err
		}
		s = newSound(m, path, bus, st)
		s.stream = st
	} else {
		data, err := m.res.acquire(path)
		if err != nil {
			return nil, err
		}
		s = newSound(m, path, bus, data.buf.Streamer(0, data.buf.Len()))
		s.data = data
	}
	s.spatial = flags&FlagNoSpatialization == 0

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		s.releaseLocked()
		return nil, ErrClosed
	}
	m.sounds = append(m.sounds, s)
	return s, nil
}

func (m *Mixer) ListenerPosition() mgl32.Vec3 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.listenerPos
}

func (m *Mixer) SetListener(pos, dir mgl32.Vec3) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.listenerPos = pos
	if dir.Len() > epsilon {
		m.listenerDir = dir
	}
}

func (m *Mixer) BusVolume(bus Bus) float32 {
	if bus < 0 || bus >= busCount {
		return 0
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.buses[bus]
}

func (m *Mixer) SetBusVolume(bus Bus, volume float32) {
	if bus < 0 || bus >= busCount {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.buses[bus] = max(volume, 0)
}

// ReadFrames overwrites dst (interleaved stereo) with the next mixed frames.
// It is the device callback.
func (m *Mixer) ReadFrames(dst []float32) {
	clear(dst)
	frames := len(dst) / Channels

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed || frames == 0 {
		return
	}
	if cap(m.scratch) < frames {
		m.scratch = make([][2]float64, frames)
	}
	scratch := m.scratch[:frames]
	clear(scratch)

	m.mix.Stream(scratch)
	for i, f := range scratch {
		dst[i*Channels] = float32(f[0])
		dst[i*Channels+1] = float32(f[1])
	}
}

// Playing reports how many sounds are currently playing.
func (m *Mixer) Playing() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, s := range m.sounds {
		if s.playing {
			n++
		}
	}
	return n
}

func (m *Mixer) removeLocked(s *sound) {
	m.sounds = slices.DeleteFunc(m.sounds, func(o *sound) bool { return o == s })
}

// Close stops the device, then uninitialises every remaining sound and
// waits for their streams to release the files. Calling it again is a
// no-op.
func (m *Mixer) Close() error {
	var err error
	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return nil
	}
	m.closed = true
	dev := m.device
	m.device = nil
	m.mu.Unlock()

	// The device callback takes the lock, so close it unlocked.
	if dev != nil {
		err = dev.Close()
	}

	m.mu.Lock()
	var streams []*stream
	for _, s := range m.sounds {
		if s.stream != nil {
			streams = append(streams, s.stream)
		}
		s.releaseLocked()
	}
	m.sounds = nil
	m.mix.Clear()
	m.mu.Unlock()

	for _, st := range streams {
		<-st.finished
	}
	return err
}
