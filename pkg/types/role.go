package types

import "strings"

// Role identifies which variant of the questionnaire a respondent takes.
type Role string

// Recognized roles.
const (
	RoleSpeaker  Role = "speaker"
	RoleListener Role = "listener"
	RoleGeneral  Role = "general"
)

// Roles lists the recognized roles in the order the role picker shows them.
var Roles = []Role{RoleGeneral, RoleSpeaker, RoleListener}

// ParseRole converts s to a Role. Matching ignores case and surrounding
// whitespace. Returns ErrRoleUnknown for anything else.
func ParseRole(s string) (Role, error) {
	r := Role(strings.ToLower(strings.TrimSpace(s)))
	if !r.Valid() {
		return "", ErrRoleUnknown
	}
	return r, nil
}

// Valid reports whether r is one of the recognized roles.
func (r Role) Valid() bool {
	switch r {
	case RoleSpeaker, RoleListener, RoleGeneral:
		return true
	}
	return false
}

func (r Role) String() string { return string(r) }
