// SPDX-License-Identifier: EPL-2.0

package engine

import "errors"

var (
	ErrClosed            = errors.New("engine is closed")
	ErrUninitialized     = errors.New("sound is uninitialized")
	ErrUnsupportedFormat = errors.New("no decoder for file extension")
	ErrDecode            = errors.New("failed to decode sound")
	ErrInvalidBus        = errors.New("invalid bus")
	ErrSeek              = errors.New("seek out of range")
	ErrUnknownLength     = errors.New("sound length is unknown")
	ErrNotStarted        = errors.New("device not started")
	ErrAlreadyStarted    = errors.New("device already started")
)
