// SPDX-License-Identifier: EPL-2.0

package engine

// FrameReader produces interleaved stereo float32 frames on demand.
type FrameReader interface {
	ReadFrames(dst []float32)
}

// Device pulls frames from a FrameReader and delivers them somewhere.
type Device interface {
	Start(r FrameReader) error
	Close() error
}
