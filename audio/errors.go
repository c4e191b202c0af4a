// SPDX-License-Identifier: EPL-2.0

package audio

import "errors"

var (
	ErrInvalidDstSize  = errors.New("dst size must be multiple of channels")
	ErrInvalidRate     = errors.New("sample rate must be positive")
	ErrNoChannels      = errors.New("source has no channels")
	ErrSeekUnsupported = errors.New("source does not support seeking")
)
