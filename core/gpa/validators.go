package gpa

import (
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"

	"github.com/kasozi/gpatrack/core"
)

var (
	gradeTag  = "grade"
	gradeText = "invalid grade"

	gradeImprovedTag  = "gradeimproved"
	gradeImprovedText = "new grade must be higher than the old grade"

	maxCGPATag  = "maxcgpa"
	maxCGPAText = "C.GPA cannot exceed 4.0"
)

// InitValidators registers the gpa domain validators.
func InitValidators(validate *validator.Validate, translator ut.Translator) {
	_ = validate.RegisterValidation(gradeTag, gradeValidation)
	core.RegisterCustomTranslation(validate, translator, gradeTag, gradeText)

	validate.RegisterStructValidation(repeatCourseStructValidation, RepeatCourseInput{})
	core.RegisterCustomTranslation(validate, translator, gradeImprovedTag, gradeImprovedText)

	validate.RegisterStructValidation(baselineStructValidation, BaselineInput{})
	core.RegisterCustomTranslation(validate, translator, maxCGPATag, maxCGPAText)
}

// gradeValidation checks that the provided label exists on the grade scale.
func gradeValidation(fl validator.FieldLevel) bool {
	_, ok := Lookup(fl.Field().String())
	return ok
}

// repeatCourseStructValidation checks that the new grade ranks strictly higher
// than the old grade; a repeat must improve the grade.
func repeatCourseStructValidation(sl validator.StructLevel) {
	in := sl.Current().Interface().(RepeatCourseInput)
	if in.OldGrade == "" || in.NewGrade == "" {
		return // required takes precedence
	}
	if Rank(in.NewGrade) >= Rank(in.OldGrade) {
		sl.ReportError(in.NewGrade, "new_grade", "NewGrade", gradeImprovedTag, "")
	}
}

// baselineStructValidation rejects baseline edits whose implied CGPA exceeds the maximum.
func baselineStructValidation(sl validator.StructLevel) {
	in := sl.Current().Interface().(BaselineInput)
	if in.AttemptedCredits > 0 && in.GradePoints/in.AttemptedCredits > MaxCGPA {
		sl.ReportError(in.GradePoints, "grade_points", "GradePoints", maxCGPATag, "")
		sl.ReportError(in.AttemptedCredits, "attempted_credits", "AttemptedCredits", maxCGPATag, "")
	}
}
