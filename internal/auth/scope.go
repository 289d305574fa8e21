// Package auth interprets scope strings and access requirements. It has no
// state and never touches the database: a scope string carried on a token is
// parsed into a tagged value, and route requirements are evaluated against
// that value. Malformed input is a data value (KindInvalid), never an error.
package auth

import "strings"

// Superuser is the reserved scope literal granting unrestricted access.
// Facility scope tokens must never equal it; a uniqueness validator on
// facilities enforces that outside this package.
const Superuser = "superuser"

// Role is the per-facility access role encoded after the colon in a
// facility scope string.
type Role string

const (
	RoleRegular Role = "regular"
	RoleAdmin   Role = "admin"
)

// Kind discriminates the parse result of a scope string.
type Kind int

const (
	KindInvalid Kind = iota
	KindSuperuser
	KindFacility
)

// Scope is the parsed form of a token or user scope string. Facility and
// Role are only meaningful when Kind is KindFacility.
type Scope struct {
	Kind     Kind
	Facility string
	Role     Role
}

// ParseScope interprets a raw scope string. Valid forms are the bare
// "superuser" literal and "{facilityScope}:{role}" with role "regular" or
// "admin". Anything else, including an empty facility part or a facility
// part colliding with the reserved literal, parses to KindInvalid.
func ParseScope(s string) Scope {
	if s == Superuser {
		return Scope{Kind: KindSuperuser}
	}
	facility, role, found := strings.Cut(s, ":")
	if !found || facility == "" || facility == Superuser {
		return Scope{Kind: KindInvalid}
	}
	switch Role(role) {
	case RoleRegular, RoleAdmin:
		return Scope{Kind: KindFacility, Facility: facility, Role: Role(role)}
	}
	return Scope{Kind: KindInvalid}
}

// Level orders the access requirements a route can declare.
type Level int

const (
	LevelNone Level = iota
	LevelAny
	LevelRegular
	LevelAdmin
	LevelSuperuser
)

// Requirement is a route's declared access demand. Facility is the tenant
// scope token to match and is only set for LevelRegular and LevelAdmin.
type Requirement struct {
	Level    Level
	Facility string
}

func None() Requirement      { return Requirement{Level: LevelNone} }
func Any() Requirement       { return Requirement{Level: LevelAny} }
func SuperOnly() Requirement { return Requirement{Level: LevelSuperuser} }

// RegularOn requires regular (or better) access to the given facility scope.
func RegularOn(facilityScope string) Requirement {
	return Requirement{Level: LevelRegular, Facility: facilityScope}
}

// AdminOn requires admin access to the given facility scope.
func AdminOn(facilityScope string) Requirement {
	return Requirement{Level: LevelAdmin, Facility: facilityScope}
}

// SatisfiedBy reports whether a token carrying the given scope string meets
// the requirement. Superuser satisfies everything. Admin implies regular on
// the same facility only; there is no cross-facility implication. LevelAny
// asks only for token presence, so even an invalid scope passes it.
func (r Requirement) SatisfiedBy(tokenScope string) bool {
	switch r.Level {
	case LevelNone, LevelAny:
		return true
	}
	sc := ParseScope(tokenScope)
	if sc.Kind == KindSuperuser {
		return true
	}
	if sc.Kind != KindFacility || sc.Facility != r.Facility {
		return false
	}
	switch r.Level {
	case LevelRegular:
		return sc.Role == RoleRegular || sc.Role == RoleAdmin
	case LevelAdmin:
		return sc.Role == RoleAdmin
	}
	return false
}

// Narrows reports whether a requested grant scope is a subset of the scope
// the user owns: identical facility with a role no higher than the owned
// role, or any valid scope when the owner is superuser. Used when a grant
// request asks for a narrower scope than the user's default.
func Narrows(requested, owned string) bool {
	req := ParseScope(requested)
	if req.Kind == KindInvalid {
		return false
	}
	own := ParseScope(owned)
	switch own.Kind {
	case KindSuperuser:
		return true
	case KindFacility:
		if req.Kind != KindFacility || req.Facility != own.Facility {
			return false
		}
		return req.Role == own.Role || req.Role == RoleRegular
	}
	return false
}
