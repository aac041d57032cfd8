// Package urlstate round-trips a session snapshot through URL query
// parameters: one parameter per numeric record field and a JSON array
// parameter per course list. This is the sole share/restore persistence
// mechanism; the gpa core never sees the encoded form.
package urlstate

import (
	"encoding/json"
	"net/url"
	"strconv"

	"github.com/pkg/errors"

	"github.com/kasozi/gpatrack/core/gpa"
)

// query parameter names
const (
	currentGradePointsParam       = "currentGradePoints"
	currentAttemptedCreditsParam  = "currentAttemptedCredits"
	currentCGPAParam              = "currentCGPA"
	expectedGradePointsParam      = "expectedGradePoints"
	expectedAttemptedCreditsParam = "expectedAttemptedCredits"
	expectedCGPAParam             = "expectedCGPA"
	semGpaRepeatParam             = "semGpaRepeat"
	semGpaNewParam                = "semGpaNew"
	overallSemGpaParam            = "overallSemGpa"
	repeatCoursesParam            = "gpaRepeatCourses"
	newCoursesParam               = "gpaNewCourses"
)

// Encode serializes a snapshot to query parameters.
func Encode(snap gpa.Snapshot) (url.Values, error) {
	repeats, err := json.Marshal(snap.RepeatCourses)
	if err != nil {
		return nil, errors.Wrap(err, "encoding repeat courses")
	}
	news, err := json.Marshal(snap.NewCourses)
	if err != nil {
		return nil, errors.Wrap(err, "encoding new courses")
	}

	vals := make(url.Values)
	setFloat := func(param string, f float64) {
		vals.Set(param, strconv.FormatFloat(f, 'f', -1, 64))
	}
	setFloat(currentGradePointsParam, snap.Record.CurrentGradePoints)
	setFloat(currentAttemptedCreditsParam, snap.Record.CurrentAttemptedCredits)
	setFloat(currentCGPAParam, snap.Record.CurrentCGPA)
	setFloat(expectedGradePointsParam, snap.Record.ExpectedGradePoints)
	setFloat(expectedAttemptedCreditsParam, snap.Record.ExpectedAttemptedCredits)
	setFloat(expectedCGPAParam, snap.Record.ExpectedCGPA)
	setFloat(semGpaRepeatParam, snap.Record.SemGpaRepeat)
	setFloat(semGpaNewParam, snap.Record.SemGpaNew)
	setFloat(overallSemGpaParam, snap.Record.OverallSemGpa)
	vals.Set(repeatCoursesParam, string(repeats))
	vals.Set(newCoursesParam, string(news))
	return vals, nil
}

// Decode parses query parameters back into a snapshot. Missing or
// non-numeric record parameters read as 0; missing lists read as empty.
// Derived values survive the trip only for display; consumers must
// re-aggregate before trusting them.
func Decode(vals url.Values) (gpa.Snapshot, error) {
	var snap gpa.Snapshot

	getFloat := func(param string) float64 {
		f, err := strconv.ParseFloat(vals.Get(param), 64)
		if err != nil {
			return 0
		}
		return f
	}
	snap.Record.CurrentGradePoints = getFloat(currentGradePointsParam)
	snap.Record.CurrentAttemptedCredits = getFloat(currentAttemptedCreditsParam)
	snap.Record.CurrentCGPA = getFloat(currentCGPAParam)
	snap.Record.ExpectedGradePoints = getFloat(expectedGradePointsParam)
	snap.Record.ExpectedAttemptedCredits = getFloat(expectedAttemptedCreditsParam)
	snap.Record.ExpectedCGPA = getFloat(expectedCGPAParam)
	snap.Record.SemGpaRepeat = getFloat(semGpaRepeatParam)
	snap.Record.SemGpaNew = getFloat(semGpaNewParam)
	snap.Record.OverallSemGpa = getFloat(overallSemGpaParam)

	if raw := vals.Get(repeatCoursesParam); raw != "" {
		if err := json.Unmarshal([]byte(raw), &snap.RepeatCourses); err != nil {
			return gpa.Snapshot{}, errors.Wrapf(err, "decoding %s", repeatCoursesParam)
		}
	}
	if raw := vals.Get(newCoursesParam); raw != "" {
		if err := json.Unmarshal([]byte(raw), &snap.NewCourses); err != nil {
			return gpa.Snapshot{}, errors.Wrapf(err, "decoding %s", newCoursesParam)
		}
	}
	return snap, nil
}
