// SPDX-License-Identifier: EPL-2.0

package mix

import "errors"

// ErrUnknownMode is returned for a render mode other than surround or stereo.
var ErrUnknownMode = errors.New("unknown render mode")
