// SPDX-License-Identifier: EPL-2.0

package audio

import "errors"

var (
	ErrInvalidDstSize   = errors.New("dst size must be multiple of channels")
	ErrUnknownFormat    = errors.New("no decoder registered for format")
	ErrClosed           = errors.New("stream already closed")
	ErrSegmentOverflow  = errors.New("write past declared stream length")
	ErrChannelsMismatch = errors.New("channel count mismatch")
	ErrUnknownLength    = errors.New("stream length is unknown")
)
