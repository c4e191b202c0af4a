// SPDX-License-Identifier: EPL-2.0

package utils

// CubicInterpolate evaluates the Catmull-Rom segment between p1 and p2 at
// t in [0, 1]; p0 and p3 are the neighbouring samples.
func CubicInterpolate(p0, p1, p2, p3, t float32) float32 {
	c3 := 0.5 * (p3 - p0 + 3*(p1-p2))
	c2 := p0 - 2.5*p1 + 2*p2 - 0.5*p3
	c1 := 0.5 * (p2 - p0)

	return ((c3*t+c2)*t+c1)*t + p1
}
