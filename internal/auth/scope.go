package auth

import (
	"fmt"
	"regexp"

	"complaint-portal/internal/models"
)

// Scope is the resolved authorization boundary for one request or one
// dashboard connection. It is all-or-one: either unrestricted, or pinned to
// exactly one hostel.
type Scope struct {
	Unrestricted bool
	Hostel       string
}

// RoleChiefWarden sees every hostel. Demo identities are given this role by
// the fixed credential store instead of being special-cased downstream.
const RoleChiefWarden = "cow"

var hostelRolePattern = regexp.MustCompile(`^H[1-9]\d*$`)

// ResolveScope maps an authenticated role string onto its scope. It is pure
// and must be re-derived per request; roles can change between logins.
func ResolveScope(role string) (Scope, error) {
	switch {
	case role == RoleChiefWarden || role == "admin":
		return Scope{Unrestricted: true}, nil
	case hostelRolePattern.MatchString(role):
		return Scope{Hostel: role}, nil
	default:
		return Scope{}, fmt.Errorf("%w: role %q has no complaint scope", models.ErrForbidden, role)
	}
}

// Allows reports whether a record with the given scoping-key value is inside
// this scope.
func (s Scope) Allows(key string) bool {
	return s.Unrestricted || s.Hostel == key
}
