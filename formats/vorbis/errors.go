// SPDX-License-Identifier: EPL-2.0

package vorbis

import "errors"

// ErrNotVorbisFile indicates the stream is not Ogg-encapsulated Vorbis.
var ErrNotVorbisFile = errors.New("not an Ogg Vorbis stream")
