package gpa

import (
	"context"
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/kasozi/gpatrack/core"
)

var (
	// errors
	ErrCourseNotFound  = errors.New("course not found")
	ErrCodeExists      = errors.New("a course with this code already exists")
	ErrMaxCGPAExceeded = errors.New("expected C.GPA cannot exceed 4.0")
)

type (
	// Repository stores one working Snapshot per student session.
	// A session that was never written reads back as a zero Snapshot.
	Repository interface {
		GetSnapshot(ctx context.Context, sessionID string) (Snapshot, error)
		SaveSnapshot(ctx context.Context, sessionID string, snap Snapshot) error
		DeleteSnapshot(ctx context.Context, sessionID string) error
	}

	Service struct {
		repo     Repository
		validate *validator.Validate
	}
)

func NewService(repo Repository, validate *validator.Validate) *Service {
	return &Service{repo: repo, validate: validate}
}

// Get returns the session snapshot with derived record fields freshly aggregated.
func (svc *Service) Get(ctx context.Context, sessionID string) (Snapshot, error) {
	snap, err := svc.repo.GetSnapshot(ctx, sessionID)
	if err != nil {
		return Snapshot{}, err
	}
	snap.Record = Aggregate(snap.Record, snap.RepeatCourses, snap.NewCourses)
	return snap, nil
}

// Reset wipes the whole session.
func (svc *Service) Reset(ctx context.Context, sessionID string) error {
	return svc.repo.DeleteSnapshot(ctx, sessionID)
}

// SetBaseline edits the "Current" row. The input is validated upstream;
// the implied baseline CGPA is recomputed here, never taken from the caller.
func (svc *Service) SetBaseline(ctx context.Context, sessionID string, in BaselineInput) (Snapshot, error) {
	snap, err := svc.repo.GetSnapshot(ctx, sessionID)
	if err != nil {
		return Snapshot{}, err
	}
	snap.Record.CurrentGradePoints = in.GradePoints
	snap.Record.CurrentAttemptedCredits = in.AttemptedCredits
	snap.Record.CurrentCGPA = in.cgpa()
	return svc.commit(ctx, sessionID, snap)
}

func (svc *Service) AddRepeat(ctx context.Context, sessionID string, in RepeatCourseInput) (Snapshot, error) {
	return svc.putCourse(ctx, sessionID, in.course(uuid.NewString()), false)
}

func (svc *Service) UpdateRepeat(ctx context.Context, sessionID, id string, in RepeatCourseInput) (Snapshot, error) {
	return svc.putCourse(ctx, sessionID, in.course(id), true)
}

func (svc *Service) AddNew(ctx context.Context, sessionID string, in NewCourseInput) (Snapshot, error) {
	return svc.putCourse(ctx, sessionID, in.course(uuid.NewString()), false)
}

func (svc *Service) UpdateNew(ctx context.Context, sessionID, id string, in NewCourseInput) (Snapshot, error) {
	return svc.putCourse(ctx, sessionID, in.course(id), true)
}

// putCourse commits a single course add/update: uniqueness check, then the
// CGPA guard, then the list mutation, then the recompute — strictly in that
// order. A rejection at any step leaves the stored state untouched.
func (svc *Service) putCourse(ctx context.Context, sessionID string, course Course, isUpdate bool) (Snapshot, error) {
	snap, err := svc.repo.GetSnapshot(ctx, sessionID)
	if err != nil {
		return Snapshot{}, err
	}

	// existence first: an update of an unknown course is not-found, never a guard rejection
	if isUpdate && !hasCourse(snap, course) {
		return Snapshot{}, ErrCourseNotFound
	}
	if err = checkCodeUniqueness(course, snap); err != nil {
		return Snapshot{}, err
	}
	if WouldExceedMax(snap.Record, course, snap.RepeatCourses, snap.NewCourses, isUpdate) {
		return Snapshot{}, ErrMaxCGPAExceeded
	}

	switch c := course.(type) {
	case RepeatCourse:
		if isUpdate {
			replaceRepeat(snap.RepeatCourses, c)
		} else {
			snap.RepeatCourses = append(snap.RepeatCourses, c)
		}
	case NewCourse:
		if isUpdate {
			replaceNew(snap.NewCourses, c)
		} else {
			snap.NewCourses = append(snap.NewCourses, c)
		}
	}
	return svc.commit(ctx, sessionID, snap)
}

func (svc *Service) DeleteRepeat(ctx context.Context, sessionID, id string) (Snapshot, error) {
	snap, err := svc.repo.GetSnapshot(ctx, sessionID)
	if err != nil {
		return Snapshot{}, err
	}
	kept := snap.RepeatCourses[:0]
	var found bool
	for _, c := range snap.RepeatCourses {
		if c.ID == id {
			found = true
			continue
		}
		kept = append(kept, c)
	}
	if !found {
		return Snapshot{}, ErrCourseNotFound
	}
	snap.RepeatCourses = kept
	return svc.commit(ctx, sessionID, snap)
}

func (svc *Service) DeleteNew(ctx context.Context, sessionID, id string) (Snapshot, error) {
	snap, err := svc.repo.GetSnapshot(ctx, sessionID)
	if err != nil {
		return Snapshot{}, err
	}
	kept := snap.NewCourses[:0]
	var found bool
	for _, c := range snap.NewCourses {
		if c.ID == id {
			found = true
			continue
		}
		kept = append(kept, c)
	}
	if !found {
		return Snapshot{}, ErrCourseNotFound
	}
	snap.NewCourses = kept
	return svc.commit(ctx, sessionID, snap)
}

// Import replaces the session with an externally persisted snapshot
// (e.g. one round-tripped through URL query parameters). Incoming data is
// distrusted: every course goes through the same input validation as the
// add/update path, and all derived fields are recomputed from scratch.
func (svc *Service) Import(ctx context.Context, sessionID string, snap Snapshot) (Snapshot, error) {
	seen := make(map[string]struct{}, len(snap.RepeatCourses)+len(snap.NewCourses))
	for i, c := range snap.RepeatCourses {
		in := RepeatCourseInput{Code: c.Code, OldGrade: c.OldGrade, NewGrade: c.NewGrade, Credit: c.Credit}
		if err := in.Validate(svc.validate); err != nil {
			return Snapshot{}, err
		}
		if c.ID == "" {
			c.ID = uuid.NewString()
		}
		if _, dup := seen[in.Code]; dup {
			return Snapshot{}, core.NewValidationError(ErrCodeExists, core.FieldError{Field: "code", Error: ErrCodeExists.Error()})
		}
		seen[in.Code] = struct{}{}
		snap.RepeatCourses[i] = in.course(c.ID)
	}
	for i, c := range snap.NewCourses {
		in := NewCourseInput{Code: c.Code, Grade: c.Grade, Credit: c.Credit}
		if err := in.Validate(svc.validate); err != nil {
			return Snapshot{}, err
		}
		if c.ID == "" {
			c.ID = uuid.NewString()
		}
		if _, dup := seen[in.Code]; dup {
			return Snapshot{}, core.NewValidationError(ErrCodeExists, core.FieldError{Field: "code", Error: ErrCodeExists.Error()})
		}
		seen[in.Code] = struct{}{}
		snap.NewCourses[i] = in.course(c.ID)
	}

	base := BaselineInput{GradePoints: snap.Record.CurrentGradePoints, AttemptedCredits: snap.Record.CurrentAttemptedCredits}
	if err := base.Validate(svc.validate); err != nil {
		return Snapshot{}, err
	}
	snap.Record.CurrentCGPA = base.cgpa()
	return svc.commit(ctx, sessionID, snap)
}

// commit recomputes the derived record fields and persists the snapshot.
func (svc *Service) commit(ctx context.Context, sessionID string, snap Snapshot) (Snapshot, error) {
	snap.Record = Aggregate(snap.Record, snap.RepeatCourses, snap.NewCourses)
	if err := svc.repo.SaveSnapshot(ctx, sessionID, snap); err != nil {
		return Snapshot{}, err
	}
	return snap, nil
}

// checkCodeUniqueness enforces that a course code appears at most once across
// the union of both lists; the course's own stored version is excluded.
func checkCodeUniqueness(course Course, snap Snapshot) error {
	for _, c := range snap.RepeatCourses {
		if c.Code == course.courseCode() && c.ID != course.courseID() {
			return core.NewValidationError(ErrCodeExists, core.FieldError{Field: "code", Error: ErrCodeExists.Error()})
		}
	}
	for _, c := range snap.NewCourses {
		if c.Code == course.courseCode() && c.ID != course.courseID() {
			return core.NewValidationError(ErrCodeExists, core.FieldError{Field: "code", Error: ErrCodeExists.Error()})
		}
	}
	return nil
}

func hasCourse(snap Snapshot, course Course) bool {
	switch course.(type) {
	case RepeatCourse:
		for _, c := range snap.RepeatCourses {
			if c.ID == course.courseID() {
				return true
			}
		}
	case NewCourse:
		for _, c := range snap.NewCourses {
			if c.ID == course.courseID() {
				return true
			}
		}
	}
	return false
}

func replaceRepeat(courses []RepeatCourse, c RepeatCourse) {
	for i := range courses {
		if courses[i].ID == c.ID {
			courses[i] = c
			return
		}
	}
}

func replaceNew(courses []NewCourse, c NewCourse) {
	for i := range courses {
		if courses[i].ID == c.ID {
			courses[i] = c
			return
		}
	}
}
