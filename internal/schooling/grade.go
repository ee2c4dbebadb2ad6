package schooling

import (
	"fmt"
	"time"
)

// GradeUndetermined is returned for ages outside the school range.
const GradeUndetermined = "미정"

// Grade derives the school grade label from a birth date using the Korean
// age convention: everyone gains a year on January 1st, counted from the
// birth year. Month and day are intentionally ignored. The label is never
// stored; callers recompute it on every read so it stays correct as years
// roll over.
func Grade(birthDate, asOf time.Time) string {
	koreanAge := asOf.Year() - birthDate.Year() + 1

	switch {
	case koreanAge >= 8 && koreanAge <= 13:
		return fmt.Sprintf("초%d", koreanAge-7)
	case koreanAge >= 14 && koreanAge <= 16:
		return fmt.Sprintf("중%d", koreanAge-13)
	case koreanAge >= 17 && koreanAge <= 19:
		return fmt.Sprintf("고%d", koreanAge-16)
	default:
		return GradeUndetermined
	}
}

// GradeNow derives the grade label relative to the current date.
func GradeNow(birthDate time.Time) string {
	return Grade(birthDate, time.Now())
}
