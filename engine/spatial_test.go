// SPDX-License-Identifier: EPL-2.0

package engine

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
)

func TestDistanceGain(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name                   string
		dist, minDist, rolloff float32
		want                   float32
	}{
		{"inside min distance", 0.5, 1, 1, 1},
		{"at min distance", 1, 1, 1, 1},
		{"twice min distance", 2, 1, 1, 0.5},
		{"steeper rolloff", 3, 1, 2, 0.2},
		{"no rolloff", 100, 1, 0, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := distanceGain(tt.dist, tt.minDist, tt.rolloff)
			if math.Abs(float64(got-tt.want)) > 1e-6 {
				t.Errorf("distanceGain(%v, %v, %v) = %v, want %v", tt.dist, tt.minDist, tt.rolloff, got, tt.want)
			}
		})
	}
}

func TestPanFor(t *testing.T) {
	t.Parallel()

	forward := mgl32.Vec3{0, 0, -1}
	tests := []struct {
		name  string
		sound mgl32.Vec3
		want  float32
	}{
		{"right", mgl32.Vec3{5, 0, 0}, 1},
		{"left", mgl32.Vec3{-5, 0, 0}, -1},
		{"ahead", mgl32.Vec3{0, 0, -5}, 0},
		{"on listener", mgl32.Vec3{}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := panFor(mgl32.Vec3{}, forward, tt.sound)
			if math.Abs(float64(got-tt.want)) > 1e-5 {
				t.Errorf("panFor(%v) = %v, want %v", tt.sound, got, tt.want)
			}
		})
	}
}
