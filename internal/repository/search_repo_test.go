package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSearchRepositoryFilterStudentsAndVersusOr(t *testing.T) {
	db := setupTestDB(t)
	repo := NewSearchRepository(db)

	math := seedTag(t, db, "수학")
	english := seedTag(t, db, "영어")

	both := seedStudent(t, db, "김하늘", "kim1111", math, english)
	mathOnly := seedStudent(t, db, "이준호", "lee2222", math)
	seedStudent(t, db, "박세리", "park3333")

	ids := []uint{math.ID, english.ID}

	matched, err := repo.FilterStudents(context.Background(), ids, SearchLogicAnd)
	require.NoError(t, err)
	require.Len(t, matched, 1)
	require.Equal(t, both.ID, matched[0].ID)

	matched, err = repo.FilterStudents(context.Background(), ids, SearchLogicOr)
	require.NoError(t, err)
	require.Len(t, matched, 2)
	require.Equal(t, both.ID, matched[0].ID)
	require.Equal(t, mathOnly.ID, matched[1].ID)
}

func TestSearchRepositoryFilterPreloadsTags(t *testing.T) {
	db := setupTestDB(t)
	repo := NewSearchRepository(db)

	tag := seedTag(t, db, "특강")
	seedStudent(t, db, "오세훈", "oh4444", tag)

	matched, err := repo.FilterStudents(context.Background(), []uint{tag.ID}, SearchLogicOr)
	require.NoError(t, err)
	require.Len(t, matched, 1)
	require.Len(t, matched[0].Tags, 1)
	require.Equal(t, "특강", matched[0].Tags[0].Name)
	require.NotZero(t, matched[0].User.ID, "expected user preloaded for response mapping")
}
