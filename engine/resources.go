// SPDX-License-Identifier: EPL-2.0

package engine

import (
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/gopxl/beep/v2"
	"github.com/ik5/sndpool/audio"
	"github.com/ik5/sndpool/formats"
)

// Format is the PCM layout every sound is converted to before mixing.
var Format = beep.Format{
	SampleRate:  SampleRate,
	NumChannels: Channels,
	Precision:   2,
}

// resident is fully decoded PCM shared by every sound loaded from the same
// path with FlagDecode. Each sound plays it through its own
// buf.Streamer, so positions are independent.
type resident struct {
	buf  *beep.Buffer
	refs int
}

// ResourceManager decodes files through a decoder registry and caches
// resident PCM by path.
type ResourceManager struct {
	registry *audio.Registry
	rate     int
	openFile func(path string) (io.ReadCloser, error)

	mu    sync.Mutex
	cache map[string]*resident
}

// NewResourceManager returns a manager producing PCM at rate. A nil
// registry gets every bundled decoder.
func NewResourceManager(registry *audio.Registry, rate int) *ResourceManager {
	if registry == nil {
		registry = formats.NewRegistry()
	}
	return &ResourceManager{
		registry: registry,
		rate:     rate,
		openFile: func(path string) (io.ReadCloser, error) { return os.Open(path) },
		cache:    make(map[string]*resident),
	}
}

// open decodes path and conforms it to the engine format. The returned
// closer releases the file.
func (rm *ResourceManager) open(path string) (audio.Source, io.Closer, error) {
	dec, ok := rm.registry.ForPath(path)
	if !ok {
		return nil, nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, path)
	}

	file, err := rm.openFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("opening %s: %w", path, err)
	}

	src, err := dec.Decode(file)
	if err != nil {
		file.Close()
		return nil, nil, fmt.Errorf("%w: %s: %w", ErrDecode, path, err)
	}

	out, err := audio.Conform(src, rm.rate)
	if err != nil {
		src.Close()
		file.Close()
		return nil, nil, fmt.Errorf("%w: %s: %w", ErrDecode, path, err)
	}

	return out, file, nil
}

// acquire returns the resident PCM for path, decoding it on first use.
func (rm *ResourceManager) acquire(path string) (*resident, error) {
	rm.mu.Lock()
	if r, ok := rm.cache[path]; ok {
		r.refs++
		rm.mu.Unlock()
		return r, nil
	}
	rm.mu.Unlock()

	src, file, err := rm.open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()
	defer src.Close()

	in := newSourceStreamer(src)
	buf := beep.NewBuffer(Format)
	buf.Append(in)
	if err := in.Err(); err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrDecode, path, err)
	}

	rm.mu.Lock()
	defer rm.mu.Unlock()
	// Another caller may have decoded the same path meanwhile.
	if r, ok := rm.cache[path]; ok {
		r.refs++
		return r, nil
	}
	r := &resident{buf: buf, refs: 1}
	rm.cache[path] = r
	return r, nil
}

// release drops one reference to path and frees the PCM with the last one.
func (rm *ResourceManager) release(path string) {
	rm.mu.Lock()
	defer rm.mu.Unlock()

	r, ok := rm.cache[path]
	if !ok {
		return
	}
	r.refs--
	if r.refs <= 0 {
		delete(rm.cache, path)
	}
}

// Resident reports how many paths currently have decoded PCM cached.
func (rm *ResourceManager) Resident() int {
	rm.mu.Lock()
	defer rm.mu.Unlock()
	return len(rm.cache)
}

// sourceStreamer reads an engine-format audio.Source as a beep.Streamer.
type sourceStreamer struct {
	src  audio.Source
	buf  []float32
	err  error
	done bool
}

func newSourceStreamer(src audio.Source) *sourceStreamer {
	return &sourceStreamer{src: src}
}

func (s *sourceStreamer) Stream(samples [][2]float64) (n int, ok bool) {
	if s.done {
		return 0, false
	}
	if cap(s.buf) < len(samples)*Channels {
		s.buf = make([]float32, len(samples)*Channels)
	}
	buf := s.buf[:len(samples)*Channels]

	for n < len(samples) {
		got, err := s.src.ReadSamples(buf[n*Channels:])
		frames := got / Channels
		for i := n; i < n+frames; i++ {
			samples[i] = [2]float64{float64(buf[i*Channels]), float64(buf[i*Channels+1])}
		}
		n += frames

		if err != nil {
			if err != io.EOF {
				s.err = err
			}
			s.done = true
			break
		}
		if frames == 0 {
			// A source that makes no progress is treated as finished.
			s.done = true
			break
		}
	}
	return n, n > 0
}

func (s *sourceStreamer) Err() error { return s.err }
