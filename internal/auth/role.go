package auth

import "strings"

// Role identifies a privilege level inside the academy. Roles are totally
// ordered: a lower rank means more privilege.
type Role string

// Recognised role levels, most privileged first.
const (
	RoleAdmin         Role = "ADMIN"
	RoleSeniorTeacher Role = "SENIOR_TEACHER"
	RoleTeacher       Role = "TEACHER"
	RoleAssistant     Role = "ASSISTANT"
	RoleStudent       Role = "STUDENT"
	RoleParent        Role = "PARENT"
)

var roleRanks = map[Role]int{
	RoleAdmin:         0,
	RoleSeniorTeacher: 1,
	RoleTeacher:       2,
	RoleAssistant:     3,
	RoleStudent:       4,
	RoleParent:        5,
}

// ParseRole normalises a raw role string into a Role. The second return
// value reports whether the input named a known role.
func ParseRole(value string) (Role, bool) {
	role := Role(strings.ToUpper(strings.TrimSpace(value)))
	_, ok := roleRanks[role]
	return role, ok
}

// Valid reports whether the role is one of the recognised levels.
func (r Role) Valid() bool {
	_, ok := roleRanks[r]
	return ok
}

// Rank returns the numeric privilege rank of the role. Unknown roles rank
// below every recognised level.
func Rank(role Role) int {
	if rank, ok := roleRanks[role]; ok {
		return rank
	}
	return len(roleRanks)
}

// AtLeast reports whether actual is at least as privileged as required.
func AtLeast(actual, required Role) bool {
	if !actual.Valid() || !required.Valid() {
		return false
	}
	return Rank(actual) <= Rank(required)
}

// IsAnyOf reports whether actual is a member of the allowed set.
func IsAnyOf(actual Role, allowed ...Role) bool {
	for _, role := range allowed {
		if actual == role {
			return true
		}
	}
	return false
}
