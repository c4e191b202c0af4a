// SPDX-License-Identifier: EPL-2.0

package audio

import (
	"io"
	"path/filepath"
	"strings"
	"sync"
)

type Source interface {
	// SampleRate of the PCM stream in Hz.
	SampleRate() int
	// Channels count (e.g., 1=mono, 2=stereo).
	Channels() int
	// ReadSamples fills dst with interleaved float32 samples in [-1,1].
	// Returns number of float32 values written (not frames). When n == 0 with err == io.EOF, the stream is finished.
	ReadSamples(dst []float32) (n int, err error)

	BufSize() int

	// Close releases any resources.
	Close() error
}

// FrameSeeker is implemented by sources that can jump to a frame without
// decoding everything before it.
type FrameSeeker interface {
	SeekFrame(frame int64) error
}

// FrameLengther is implemented by sources that know their total length in frames.
type FrameLengther interface {
	LengthFrames() int64
}

// Decoder constructs a Source from an input reader.
type Decoder interface {
	Decode(r io.Reader) (Source, error)
}

// Registry of decoders keyed by file extension (".wav", ".ogg", ...).
// Keys are case-insensitive and the leading dot is optional.
type Registry struct {
	codecs map[string]Decoder

	mtx *sync.Mutex
}

func NewRegistry() *Registry {
	return &Registry{
		codecs: make(map[string]Decoder),
		mtx:    &sync.Mutex{},
	}
}

func normalizeExt(ext string) string {
	ext = strings.ToLower(ext)
	if ext != "" && !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}
	return ext
}

func (r *Registry) Register(ext string, d Decoder) {
	r.mtx.Lock()
	defer r.mtx.Unlock()

	r.codecs[normalizeExt(ext)] = d
}

func (r *Registry) Get(ext string) (Decoder, bool) {
	r.mtx.Lock()
	defer r.mtx.Unlock()

	d, ok := r.codecs[normalizeExt(ext)]
	return d, ok
}

// ForPath returns the decoder registered for the extension of path.
func (r *Registry) ForPath(path string) (Decoder, bool) {
	ext := filepath.Ext(path)
	if ext == "" {
		return nil, false
	}
	return r.Get(ext)
}

// Extensions lists every registered extension.
func (r *Registry) Extensions() []string {
	r.mtx.Lock()
	defer r.mtx.Unlock()

	exts := make([]string, 0, len(r.codecs))
	for ext := range r.codecs {
		exts = append(exts, ext)
	}
	return exts
}
