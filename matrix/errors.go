// SPDX-License-Identifier: EPL-2.0

package matrix

import "errors"

// ErrUnknownOption is returned for an upmix style name that does not exist.
var ErrUnknownOption = errors.New("unknown upmix option")
