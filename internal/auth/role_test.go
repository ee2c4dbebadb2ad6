package auth

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRankOrdering(t *testing.T) {
	ordered := []Role{RoleAdmin, RoleSeniorTeacher, RoleTeacher, RoleAssistant, RoleStudent, RoleParent}
	for i, role := range ordered {
		require.Equal(t, i, Rank(role))
	}
}

func TestAtLeastMatchesRankComparison(t *testing.T) {
	roles := []Role{RoleAdmin, RoleSeniorTeacher, RoleTeacher, RoleAssistant, RoleStudent, RoleParent}
	for _, actual := range roles {
		for _, required := range roles {
			require.Equal(t, Rank(actual) <= Rank(required), AtLeast(actual, required),
				"actual=%s required=%s", actual, required)
		}
	}
}

func TestAdminOutranksEveryRole(t *testing.T) {
	for role := range roleRanks {
		require.True(t, AtLeast(RoleAdmin, role))
	}
}

func TestParentOnlyMatchesParent(t *testing.T) {
	for role := range roleRanks {
		require.Equal(t, role == RoleParent, AtLeast(RoleParent, role))
	}
}

func TestAtLeastRejectsUnknownRoles(t *testing.T) {
	require.False(t, AtLeast("SUPERUSER", RoleParent))
	require.False(t, AtLeast(RoleAdmin, "SUPERUSER"))
}

func TestParseRole(t *testing.T) {
	role, ok := ParseRole(" senior_teacher ")
	require.True(t, ok)
	require.Equal(t, RoleSeniorTeacher, role)

	_, ok = ParseRole("janitor")
	require.False(t, ok)
}

func TestIsAnyOf(t *testing.T) {
	require.True(t, IsAnyOf(RoleTeacher, RoleAdmin, RoleSeniorTeacher, RoleTeacher))
	require.False(t, IsAnyOf(RoleAssistant, RoleAdmin, RoleSeniorTeacher))
}
