// SPDX-License-Identifier: EPL-2.0

package utils

// Float32ToInt16 clamps x to [-1,1] and scales it to a 16-bit sample.
func Float32ToInt16(x float32) int16 {
	if x > 1 {
		x = 1
	} else if x < -1 {
		x = -1
	}

	// Use 32767 for positive max to avoid overflow
	return int16(x * 32767.0)
}

// IntToFloat32 normalizes a signed integer PCM sample of the given bit depth
// to [-1,1]. Unknown depths are treated as 16-bit.
func IntToFloat32(v int, bitDepth int) float32 {
	var full float32
	switch bitDepth {
	case 8:
		full = 128.0
	case 24:
		full = 8388608.0
	case 32:
		full = 2147483648.0
	default:
		full = 32768.0
	}
	return float32(v) / full
}
