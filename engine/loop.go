// SPDX-License-Identifier: EPL-2.0

package engine

import "github.com/gopxl/beep/v2"

// loop replays src from the start while enabled. Unlike beep.Loop2 it can
// be switched on and off during playback.
type loop struct {
	src     beep.StreamSeeker
	enabled bool
}

func (l *loop) Stream(samples [][2]float64) (n int, ok bool) {
	rewound := false
	for n < len(samples) {
		sn, sok := l.src.Stream(samples[n:])
		n += sn
		if sn > 0 {
			rewound = false
		}
		if sok && sn > 0 {
			continue
		}
		// An empty source that just rewound would spin.
		if !l.enabled || rewound || l.src.Err() != nil || l.src.Seek(0) != nil {
			return n, n > 0
		}
		rewound = true
	}
	return n, true
}

func (l *loop) Err() error { return l.src.Err() }
