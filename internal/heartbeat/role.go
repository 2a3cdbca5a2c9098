package heartbeat

import (
	"errors"
	"fmt"
)

// RoleName is a node's role identifier on the wire: exactly 5 printable
// ASCII bytes, space-padded. The constructor is the only way to build
// one, so a RoleName is valid wherever it appears.
type RoleName [5]byte

var ErrInvalidRole = errors.New("heartbeat: invalid role name")

// NewRoleName validates and normalizes a role string: 1 to 5 printable
// ASCII characters, padded with spaces to exactly 5 bytes.
func NewRoleName(s string) (RoleName, error) {
	if len(s) == 0 || len(s) > 5 {
		return RoleName{}, fmt.Errorf("%w: %q must be 1-5 characters", ErrInvalidRole, s)
	}
	var r RoleName
	for i := range r {
		r[i] = ' '
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c < 0x20 || c > 0x7E {
			return RoleName{}, fmt.Errorf("%w: %q contains non-printable byte", ErrInvalidRole, s)
		}
		r[i] = c
	}
	return r, nil
}

func mustRole(s string) RoleName {
	r, err := NewRoleName(s)
	if err != nil {
		panic(err)
	}
	return r
}

// Canonical module roles.
var (
	RoleFuel  = mustRole("FUEL")
	RoleAmps  = mustRole("AMPS")
	RoleTemp  = mustRole("TEMP")
	RoleSpeed = mustRole("SPEED")
	RoleBody  = mustRole("BODY")
	RoleDash  = mustRole("DASH")
	RoleGPS   = mustRole("GPS")
)

// String returns the role with trailing padding removed.
func (r RoleName) String() string {
	end := len(r)
	for end > 0 && r[end-1] == ' ' {
		end--
	}
	return string(r[:end])
}
