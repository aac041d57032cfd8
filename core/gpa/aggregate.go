package gpa

import "github.com/kasozi/gpatrack/core"

// Aggregate folds the course lists and the record's baseline fields into the
// full derived Record. It is the single entry point for refreshing derived
// fields: pure, idempotent, no partial updates.
//
// Repeat-course credits do NOT count toward attempted-credit totals: a repeat
// does not add new credit load, its credits were counted on the original
// attempt. They only weight the repeat table's own semester GPA.
func Aggregate(rec Record, repeats []RepeatCourse, news []NewCourse) Record {
	var (
		sumSemPointsRepeat float64
		sumPointsRepeat    float64
		sumCreditsRepeat   float64
		sumSemPointsNew    float64
		sumCreditsNew      float64
	)
	for _, c := range repeats {
		sumSemPointsRepeat += c.SemPoints
		sumPointsRepeat += c.Points
		sumCreditsRepeat += float64(c.Credit)
	}
	for _, c := range news {
		sumSemPointsNew += c.SemPoints
		sumCreditsNew += float64(c.Credit)
	}

	rec.SemGpaRepeat = core.SafeDiv(sumSemPointsRepeat, sumCreditsRepeat)
	rec.SemGpaNew = core.SafeDiv(sumSemPointsNew, sumCreditsNew)
	rec.OverallSemGpa = core.SafeDiv(sumSemPointsRepeat+sumSemPointsNew, sumCreditsRepeat+sumCreditsNew)

	rec.ExpectedGradePoints = sumPointsRepeat + sumSemPointsNew + rec.CurrentGradePoints
	rec.ExpectedAttemptedCredits = sumCreditsNew + rec.CurrentAttemptedCredits
	rec.ExpectedCGPA = core.Round2(core.SafeDiv(rec.ExpectedGradePoints, rec.ExpectedAttemptedCredits))
	return rec
}
