// SPDX-License-Identifier: EPL-2.0

package stem

// Role names an instrument stem of a separated track.
type Role string

const (
	Bass   Role = "bass"
	Drums  Role = "drums"
	Other  Role = "other"
	Piano  Role = "piano"
	Vocals Role = "vocals"
)

// Roles lists every role in render order.
var Roles = []Role{Bass, Drums, Piano, Other, Vocals}

// RequiredRoles lists the roles a stem-set cannot be rendered without, in
// render order.
var RequiredRoles = []Role{Bass, Drums, Other, Vocals}

// Required reports whether a stem-set is incomplete without r.
func (r Role) Required() bool {
	for _, req := range RequiredRoles {
		if r == req {
			return true
		}
	}
	return false
}

func (r Role) String() string { return string(r) }

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case Bass, Drums, Other, Piano, Vocals:
		return true
	}
	return false
}
