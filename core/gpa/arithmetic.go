package gpa

import "github.com/kasozi/gpatrack/core"

// SemesterPoints computes a course's semester grade points: grade value × credit.
// An unknown grade label contributes 0.
func SemesterPoints(credit int, grade string) float64 {
	return GradeValue(grade) * float64(credit)
}

// RepeatDelta computes a repeat course's derived figures:
// semPoints is the semester points earned with the new grade, and points is
// the signed change in cumulative grade points caused by replacing the old
// grade with the new one for this credit load, rounded to 2 decimals.
func RepeatDelta(credit int, oldGrade, newGrade string) (semPoints, points float64) {
	semPoints = SemesterPoints(credit, newGrade)
	points = core.Round2(semPoints - SemesterPoints(credit, oldGrade))
	return semPoints, points
}
