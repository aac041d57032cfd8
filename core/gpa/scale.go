package gpa

// MaxCGPA is the maximum cumulative GPA a student record may project.
const MaxCGPA = 4.0

// GradeEntry maps a letter grade to its grade points per credit.
type GradeEntry struct {
	Label string  `json:"label"`
	Value float64 `json:"value"`
}

// Scale is the fixed grade scale, ordered from highest to lowest grade.
// The position in this sequence is the grade's rank (lower index = higher grade).
var Scale = []GradeEntry{
	{Label: "A", Value: 4},
	{Label: "A-", Value: 3.7},
	{Label: "B+", Value: 3.3},
	{Label: "B", Value: 3},
	{Label: "B-", Value: 2.7},
	{Label: "C+", Value: 2.3},
	{Label: "C", Value: 2},
	{Label: "C-", Value: 1.7},
	{Label: "D+", Value: 1.3},
	{Label: "D", Value: 1},
	{Label: "F", Value: 0},
}

// Lookup returns the scale entry for the given label.
func Lookup(label string) (GradeEntry, bool) {
	for _, entry := range Scale {
		if entry.Label == label {
			return entry, true
		}
	}
	return GradeEntry{}, false
}

// GradeValue returns the grade points per credit for the given label.
// An unknown label contributes 0 points; this is deliberate policy, callers
// validating user input reject unknown labels before they get here.
func GradeValue(label string) float64 {
	entry, _ := Lookup(label)
	return entry.Value
}

// Rank returns the label's position on the scale; lower rank = higher grade.
// An unknown label ranks below every known grade.
func Rank(label string) int {
	for i, entry := range Scale {
		if entry.Label == label {
			return i
		}
	}
	return len(Scale)
}
