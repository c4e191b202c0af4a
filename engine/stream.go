// SPDX-License-Identifier: EPL-2.0

package engine

import (
	"io"
	"sync"
	"sync/atomic"

	"github.com/gopxl/beep/v2"
	"github.com/ik5/sndpool/audio"
)

const (
	blockFrames = 1024
	blockQueue  = 8
)

// block is a run of decoded frames handed from the fill goroutine to the
// mixer.
type block struct {
	samples [][2]float64
	start   int64
	gen     uint64
	// wrapped marks the first block after a loop rewind.
	wrapped bool
	// last means nothing follows until the next seek.
	last bool
	err  error
}

type seekRequest struct {
	frame int64
	gen   uint64
}

// stream is a sound decoded from disk as it plays. A goroutine owns the
// file and decoder and keeps a few blocks queued ahead; the mixer side
// only ever takes blocks that are ready, and plays silence on underrun.
// Seeks are requests to that goroutine, so neither the device callback
// nor the control thread waits on disk.
type stream struct {
	length  int64
	looping atomic.Bool

	blocks   chan block
	seeks    chan seekRequest
	done     chan struct{}
	finished chan struct{}
	stop     sync.Once

	// Mixer side, guarded by the mixer lock.
	gen   uint64
	cur   block
	off   int
	pos   int64
	ended bool
	err   error
}

var _ beep.StreamSeeker = (*stream)(nil)

// openStream opens path and starts filling its queue.
func (rm *ResourceManager) openStream(path string) (*stream, error) {
	src, file, err := rm.open(path)
	if err != nil {
		return nil, err
	}

	st := &stream{
		length:   -1,
		blocks:   make(chan block, blockQueue),
		seeks:    make(chan seekRequest, 1),
		done:     make(chan struct{}),
		finished: make(chan struct{}),
	}
	if l, ok := src.(audio.FrameLengther); ok && l.LengthFrames() > 0 {
		st.length = l.LengthFrames()
	}

	f := &filler{rm: rm, path: path, src: src, file: file, in: newSourceStreamer(src)}
	go st.fill(f)
	return st, nil
}

func (st *stream) Stream(samples [][2]float64) (n int, ok bool) {
	for n < len(samples) {
		if st.off >= len(st.cur.samples) {
			if st.cur.last {
				st.ended = true
				st.err = st.cur.err
			}
			if st.ended {
				return n, n > 0
			}
			if !st.next() {
				// Underrun: keep the voice alive with silence.
				clear(samples[n:])
				return len(samples), true
			}
			continue
		}
		k := copy(samples[n:], st.cur.samples[st.off:])
		st.off += k
		st.pos += int64(k)
		n += k
	}
	return n, true
}

// next takes the next queued block of the current generation without
// waiting. It reports false when none is ready.
func (st *stream) next() bool {
	for {
		select {
		case b := <-st.blocks:
			if b.gen != st.gen {
				continue
			}
			if b.wrapped && !st.looping.Load() {
				st.cur, st.off, st.ended = block{}, 0, true
				return true
			}
			st.cur, st.off, st.pos = b, 0, b.start
			return true
		default:
			return false
		}
	}
}

func (st *stream) Err() error { return st.err }

// Len is the stream length in frames, or 0 when the decoder cannot tell.
func (st *stream) Len() int { return int(max(st.length, 0)) }

func (st *stream) Position() int { return int(st.pos) }

// Seek asks the fill goroutine to reposition. Frames queued before the
// request are dropped; until new ones arrive the stream plays silence.
func (st *stream) Seek(p int) error {
	if p < 0 || (st.length >= 0 && int64(p) > st.length) {
		return ErrSeek
	}
	st.gen++
	select {
	case <-st.seeks:
	default:
	}
	st.seeks <- seekRequest{frame: int64(p), gen: st.gen}
	st.cur, st.off, st.pos = block{}, 0, int64(p)
	st.ended, st.err = false, nil
	return nil
}

// close stops the fill goroutine. It does not wait for it; see finished.
func (st *stream) close() {
	st.stop.Do(func() { close(st.done) })
}

func (st *stream) fill(f *filler) {
	defer close(st.finished)
	defer f.close()

	var (
		gen     uint64
		wrapped bool
	)
	for {
		b := block{start: f.pos, gen: gen, wrapped: wrapped, samples: make([][2]float64, blockFrames)}
		wrapped = false

		n, _ := f.in.Stream(b.samples)
		b.samples = b.samples[:n]
		f.pos += int64(n)
		if n < blockFrames {
			b.err = f.in.Err()
			// An empty file that just wrapped would loop forever.
			if b.err == nil && st.looping.Load() && (n > 0 || !b.wrapped) {
				f.seek(0)
				b.err = f.in.Err()
				wrapped = b.err == nil
			}
			b.last = !wrapped
		}

		select {
		case st.blocks <- b:
		case req := <-st.seeks:
			gen, wrapped = req.gen, false
			f.seek(req.frame)
			continue
		case <-st.done:
			return
		}

		if b.last {
			select {
			case req := <-st.seeks:
				gen = req.gen
				f.seek(req.frame)
			case <-st.done:
				return
			}
		}
	}
}

// filler is the fill goroutine's side of a stream.
type filler struct {
	rm   *ResourceManager
	path string
	src  audio.Source
	file io.Closer
	in   *sourceStreamer
	pos  int64
}

// seek repositions the decoder at frame, reopening the file when the
// pipeline cannot seek. A failure leaves in drained with the error.
func (f *filler) seek(frame int64) {
	if s, ok := f.src.(audio.FrameSeeker); ok && s.SeekFrame(frame) == nil {
		f.in, f.pos = newSourceStreamer(f.src), frame
		return
	}

	f.close()
	src, file, err := f.rm.open(f.path)
	if err != nil {
		f.fail(err)
		return
	}
	f.src, f.file, f.in, f.pos = src, file, newSourceStreamer(src), 0

	skip := make([][2]float64, blockFrames)
	for f.pos < frame {
		n, ok := f.in.Stream(skip[:min(int64(len(skip)), frame-f.pos)])
		f.pos += int64(n)
		if !ok {
			f.fail(ErrSeek)
			return
		}
	}
}

func (f *filler) fail(err error) {
	f.in = &sourceStreamer{done: true, err: err}
}

func (f *filler) close() {
	if f.src != nil {
		f.src.Close()
		f.src = nil
	}
	if f.file != nil {
		f.file.Close()
		f.file = nil
	}
}
