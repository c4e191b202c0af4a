// SPDX-License-Identifier: EPL-2.0

package engine

import "github.com/go-gl/mathgl/mgl32"

var worldUp = mgl32.Vec3{0, 1, 0}

const epsilon = 1e-6

// distanceGain is the inverse distance model: full volume inside
// minDistance, then minDistance / (minDistance + rolloff*(d - minDistance)).
func distanceGain(distance, minDistance, rolloff float32) float32 {
	if distance <= minDistance || rolloff <= 0 {
		return 1
	}
	if minDistance <= 0 {
		minDistance = epsilon
	}
	return minDistance / (minDistance + rolloff*(distance-minDistance))
}

// panFor returns the effects.Pan value for a sound: -1 fully to the
// listener's left, 1 fully right and 0 straight ahead, behind, or on top of
// the listener.
func panFor(listenerPos, listenerDir, soundPos mgl32.Vec3) float32 {
	rel := soundPos.Sub(listenerPos)
	if rel.Len() < epsilon {
		return 0
	}
	right := listenerDir.Cross(worldUp)
	if right.Len() < epsilon {
		return 0
	}
	return mgl32.Clamp(right.Normalize().Dot(rel.Normalize()), -1, 1)
}
