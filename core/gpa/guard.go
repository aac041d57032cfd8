package gpa

// WouldExceedMax decides, before committing an add or update of a single
// course, whether the resulting projected CGPA would exceed MaxCGPA.
//
// It recomputes the projection system-wide: baseline figures, every stored
// course's contribution, minus the old version of the course on update, plus
// the proposed course. Repeat courses contribute their point delta only
// (no credit load); new courses contribute semester points and credits.
//
// Zero total credits cannot exceed the maximum: the guard returns false.
func WouldExceedMax(rec Record, proposed Course, repeats []RepeatCourse, news []NewCourse, isUpdate bool) bool {
	points := rec.CurrentGradePoints
	credits := rec.CurrentAttemptedCredits

	for _, c := range repeats {
		points += c.Points
	}
	for _, c := range news {
		points += c.SemPoints
		credits += float64(c.Credit)
	}

	switch course := proposed.(type) {
	case RepeatCourse:
		if isUpdate {
			for _, old := range repeats {
				if old.ID == course.ID {
					points -= old.Points
					break
				}
			}
		}
		points += course.Points
	case NewCourse:
		if isUpdate {
			for _, old := range news {
				if old.ID == course.ID {
					points -= old.SemPoints
					credits -= float64(old.Credit)
					break
				}
			}
		}
		points += course.SemPoints
		credits += float64(course.Credit)
	}

	if credits == 0 {
		return false
	}
	return points/credits > MaxCGPA
}
