package auth

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRequireMinRoleNoPrincipal(t *testing.T) {
	_, err := RequireMinRole(nil, RoleParent)
	require.ErrorIs(t, err, ErrUnauthenticated)
}

func TestRequireMinRoleForbidden(t *testing.T) {
	principal := &Principal{ID: 7, Role: RoleAssistant}
	_, err := RequireMinRole(principal, RoleTeacher)
	require.ErrorIs(t, err, ErrForbidden)
}

func TestRequireMinRoleAdmitted(t *testing.T) {
	principal := &Principal{ID: 7, Role: RoleSeniorTeacher}
	admitted, err := RequireMinRole(principal, RoleTeacher)
	require.NoError(t, err)
	require.Equal(t, *principal, admitted)
}

func TestRequireAnyRole(t *testing.T) {
	principal := &Principal{ID: 3, Role: RoleTeacher}

	_, err := RequireAnyRole(nil, RoleAdmin)
	require.ErrorIs(t, err, ErrUnauthenticated)

	_, err = RequireAnyRole(principal, RoleAdmin, RoleSeniorTeacher)
	require.ErrorIs(t, err, ErrForbidden)

	admitted, err := RequireAnyRole(principal, RoleAdmin, RoleSeniorTeacher, RoleTeacher)
	require.NoError(t, err)
	require.Equal(t, *principal, admitted)
}

func TestCanReadStudent(t *testing.T) {
	parentID := uint(40)
	scope := StudentScope{OwnerUserID: 30, ParentUserID: &parentID}

	require.True(t, CanReadStudent(Principal{ID: 1, Role: RoleAssistant}, scope))
	require.True(t, CanReadStudent(Principal{ID: 30, Role: RoleStudent}, scope))
	require.False(t, CanReadStudent(Principal{ID: 31, Role: RoleStudent}, scope))
	require.True(t, CanReadStudent(Principal{ID: 40, Role: RoleParent}, scope))
	require.False(t, CanReadStudent(Principal{ID: 41, Role: RoleParent}, scope))
	require.False(t, CanReadStudent(Principal{ID: 40, Role: RoleParent}, StudentScope{OwnerUserID: 30}))
}
