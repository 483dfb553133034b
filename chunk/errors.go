// SPDX-License-Identifier: EPL-2.0

package chunk

import (
	"errors"

	"github.com/ik5/upmix/audio"
)

var (
	ErrUnknownLength  = audio.ErrUnknownLength
	ErrLayoutMismatch = errors.New("segment layout differs from the first segment")
)
