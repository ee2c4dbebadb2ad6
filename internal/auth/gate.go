package auth

import "errors"

var (
	// ErrUnauthenticated indicates no principal could be resolved for the request.
	ErrUnauthenticated = errors.New("authentication required")
	// ErrForbidden indicates the principal lacks the required role or rank.
	ErrForbidden = errors.New("insufficient permissions")
)

// Principal is the authenticated actor performing an operation.
type Principal struct {
	ID    uint
	Email string
	Name  string
	Role  Role
}

// RequireAuthenticated admits any resolved principal.
func RequireAuthenticated(p *Principal) (Principal, error) {
	if p == nil {
		return Principal{}, ErrUnauthenticated
	}
	return *p, nil
}

// RequireMinRole admits principals at least as privileged as required.
func RequireMinRole(p *Principal, required Role) (Principal, error) {
	if p == nil {
		return Principal{}, ErrUnauthenticated
	}
	if !AtLeast(p.Role, required) {
		return Principal{}, ErrForbidden
	}
	return *p, nil
}

// RequireAnyRole admits principals whose role is in the allowed set.
func RequireAnyRole(p *Principal, allowed ...Role) (Principal, error) {
	if p == nil {
		return Principal{}, ErrUnauthenticated
	}
	if !IsAnyOf(p.Role, allowed...) {
		return Principal{}, ErrForbidden
	}
	return *p, nil
}

// StudentScope describes the ownership links of a student record used for
// self and parent read access.
type StudentScope struct {
	OwnerUserID  uint
	ParentUserID *uint
}

// CanReadStudent reports whether the principal may read the student record.
// Staff (assistant and above) always may; a student may read their own
// record; a parent may read a linked child's record.
func CanReadStudent(p Principal, scope StudentScope) bool {
	if AtLeast(p.Role, RoleAssistant) {
		return true
	}
	switch p.Role {
	case RoleStudent:
		return scope.OwnerUserID == p.ID
	case RoleParent:
		return scope.ParentUserID != nil && *scope.ParentUserID == p.ID
	}
	return false
}
