package gpa

import (
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/kasozi/gpatrack/core"
)

// Course is the tagged union of the two course kinds: RepeatCourse | NewCourse.
type Course interface {
	courseID() string
	courseCode() string
}

// RepeatCourse is a previously failed/low-graded course being retaken.
// It contributes a point delta (old vs new grade) to cumulative grade points
// but does not add new credit load.
// Points and SemPoints are derived; they are only ever set by RepeatDelta.
type RepeatCourse struct {
	ID        string  `json:"id"`
	Code      string  `json:"code"`
	OldGrade  string  `json:"old_grade"`
	NewGrade  string  `json:"new_grade"`
	Credit    int     `json:"credit"`
	Points    float64 `json:"points"`
	SemPoints float64 `json:"sem_points"`
}

func (c RepeatCourse) courseID() string   { return c.ID }
func (c RepeatCourse) courseCode() string { return c.Code }

// NewCourse is a course taken for the first time. It contributes its full
// grade-value × credit to both grade points and attempted credits.
// SemPoints is derived; it is only ever set by SemesterPoints.
type NewCourse struct {
	ID        string  `json:"id"`
	Code      string  `json:"code"`
	Grade     string  `json:"grade"`
	Credit    int     `json:"credit"`
	SemPoints float64 `json:"sem_points"`
}

func (c NewCourse) courseID() string   { return c.ID }
func (c NewCourse) courseCode() string { return c.Code }

// Record is the aggregate GPA snapshot. The Current* fields are the baseline
// entered by the student; every other field is derived by Aggregate and is
// never set independently of a recompute.
type Record struct {
	CurrentGradePoints      float64 `json:"current_grade_points"`
	CurrentAttemptedCredits float64 `json:"current_attempted_credits"`
	CurrentCGPA             float64 `json:"current_cgpa"`

	ExpectedGradePoints      float64 `json:"expected_grade_points"`
	ExpectedAttemptedCredits float64 `json:"expected_attempted_credits"`
	ExpectedCGPA             float64 `json:"expected_cgpa"`

	SemGpaRepeat  float64 `json:"sem_gpa_repeat"`
	SemGpaNew     float64 `json:"sem_gpa_new"`
	OverallSemGpa float64 `json:"overall_sem_gpa"`
}

// Snapshot is one student session's full working state.
type Snapshot struct {
	Record        Record         `json:"record"`
	RepeatCourses []RepeatCourse `json:"repeat_courses"`
	NewCourses    []NewCourse    `json:"new_courses"`
}

// CleanCourseCode normalizes a course code at the boundary: codes are stored upper case.
func CleanCourseCode(code string) string {
	return strings.ToUpper(core.CleanString(code))
}

// RepeatCourseInput contains information needed to create or update a RepeatCourse.
type RepeatCourseInput struct {
	Code     string `json:"code" validate:"required,coursecode"`
	OldGrade string `json:"old_grade" validate:"required,grade"`
	NewGrade string `json:"new_grade" validate:"required,grade"`
	Credit   int    `json:"credit" validate:"required,min=1,max=6"`
}

func (in *RepeatCourseInput) Validate(validate *validator.Validate) error {
	in.Code = CleanCourseCode(in.Code)
	in.OldGrade = core.CleanString(in.OldGrade)
	in.NewGrade = core.CleanString(in.NewGrade)
	return validate.Struct(in)
}

// course materializes the input into a RepeatCourse with derived fields computed.
func (in RepeatCourseInput) course(id string) RepeatCourse {
	semPoints, points := RepeatDelta(in.Credit, in.OldGrade, in.NewGrade)
	return RepeatCourse{
		ID:        id,
		Code:      in.Code,
		OldGrade:  in.OldGrade,
		NewGrade:  in.NewGrade,
		Credit:    in.Credit,
		Points:    points,
		SemPoints: semPoints,
	}
}

// NewCourseInput contains information needed to create or update a NewCourse.
type NewCourseInput struct {
	Code   string `json:"code" validate:"required,coursecode"`
	Grade  string `json:"grade" validate:"required,grade"`
	Credit int    `json:"credit" validate:"required,min=1,max=6"`
}

func (in *NewCourseInput) Validate(validate *validator.Validate) error {
	in.Code = CleanCourseCode(in.Code)
	in.Grade = core.CleanString(in.Grade)
	return validate.Struct(in)
}

func (in NewCourseInput) course(id string) NewCourse {
	return NewCourse{
		ID:        id,
		Code:      in.Code,
		Grade:     in.Grade,
		Credit:    in.Credit,
		SemPoints: SemesterPoints(in.Credit, in.Grade),
	}
}

// BaselineInput defines what may be provided to edit the "Current" record row.
type BaselineInput struct {
	GradePoints      float64 `json:"grade_points" validate:"min=0"`
	AttemptedCredits float64 `json:"attempted_credits" validate:"min=0"`
}

func (in *BaselineInput) Validate(validate *validator.Validate) error {
	return validate.Struct(in)
}

// cgpa is the baseline CGPA implied by the input; 0 with no attempted credits.
func (in BaselineInput) cgpa() float64 {
	return core.Round2(core.SafeDiv(in.GradePoints, in.AttemptedCredits))
}
