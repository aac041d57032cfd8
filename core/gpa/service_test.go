package gpa

import (
	"context"
	"testing"

	"github.com/pkg/errors"

	"github.com/kasozi/gpatrack/core"
)

// fakeRepo is a minimal in-memory Repository for service tests.
type fakeRepo struct {
	sessions map[string]Snapshot
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{sessions: make(map[string]Snapshot)}
}

func (r *fakeRepo) GetSnapshot(_ context.Context, sessionID string) (Snapshot, error) {
	snap := r.sessions[sessionID]
	snap.RepeatCourses = append([]RepeatCourse(nil), snap.RepeatCourses...)
	snap.NewCourses = append([]NewCourse(nil), snap.NewCourses...)
	return snap, nil
}

func (r *fakeRepo) SaveSnapshot(_ context.Context, sessionID string, snap Snapshot) error {
	r.sessions[sessionID] = snap
	return nil
}

func (r *fakeRepo) DeleteSnapshot(_ context.Context, sessionID string) error {
	delete(r.sessions, sessionID)
	return nil
}

const sid = "session-1"

func TestServiceAddNewCourse(t *testing.T) {
	svc := NewService(newFakeRepo(), newTestValidator())
	ctx := context.Background()

	snap, err := svc.AddNew(ctx, sid, NewCourseInput{Code: "COMP1000", Grade: "B", Credit: 3})
	if err != nil {
		t.Fatalf("AddNew() failed: %v", err)
	}

	if len(snap.NewCourses) != 1 {
		t.Fatalf("NewCourses len = %d, want 1", len(snap.NewCourses))
	}
	course := snap.NewCourses[0]
	if course.ID == "" {
		t.Error("course ID not assigned")
	}
	if course.SemPoints != 9 {
		t.Errorf("SemPoints = %v, want 9", course.SemPoints)
	}
	if snap.Record.ExpectedGradePoints != 9 || snap.Record.ExpectedAttemptedCredits != 3 || snap.Record.ExpectedCGPA != 3 {
		t.Errorf("derived record not recomputed: %+v", snap.Record)
	}
}

func TestServiceDuplicateCodeAcrossLists(t *testing.T) {
	svc := NewService(newFakeRepo(), newTestValidator())
	ctx := context.Background()

	if _, err := svc.AddNew(ctx, sid, NewCourseInput{Code: "COMP1000", Grade: "B", Credit: 3}); err != nil {
		t.Fatalf("AddNew() failed: %v", err)
	}

	_, err := svc.AddRepeat(ctx, sid, RepeatCourseInput{Code: "COMP1000", OldGrade: "C", NewGrade: "A", Credit: 3})
	var vErr *core.ValidationError
	if !errors.As(err, &vErr) {
		t.Fatalf("AddRepeat() error = %v, want ValidationError", err)
	}
	if len(vErr.Fields) != 1 || vErr.Fields[0].Field != "code" {
		t.Errorf("want a field error keyed by \"code\", got %+v", vErr.Fields)
	}

	// nothing was committed
	snap, _ := svc.Get(ctx, sid)
	if len(snap.RepeatCourses) != 0 {
		t.Error("rejected add must not mutate stored state")
	}
}

func TestServiceGuardRejectionLeavesStateUntouched(t *testing.T) {
	svc := NewService(newFakeRepo(), newTestValidator())
	ctx := context.Background()

	if _, err := svc.SetBaseline(ctx, sid, BaselineInput{GradePoints: 36, AttemptedCredits: 9}); err != nil {
		t.Fatalf("SetBaseline() failed: %v", err)
	}
	before, _ := svc.Get(ctx, sid)

	_, err := svc.AddRepeat(ctx, sid, RepeatCourseInput{Code: "MATH2100", OldGrade: "C", NewGrade: "A", Credit: 3})
	if errors.Cause(err) != ErrMaxCGPAExceeded {
		t.Fatalf("AddRepeat() error = %v, want ErrMaxCGPAExceeded", err)
	}

	after, _ := svc.Get(ctx, sid)
	if len(after.RepeatCourses) != 0 || after.Record != before.Record {
		t.Error("guard rejection must leave stored state untouched")
	}
}

func TestServiceUpdateAndDelete(t *testing.T) {
	svc := NewService(newFakeRepo(), newTestValidator())
	ctx := context.Background()

	snap, err := svc.AddRepeat(ctx, sid, RepeatCourseInput{Code: "MATH2100", OldGrade: "C", NewGrade: "B", Credit: 3})
	if err != nil {
		t.Fatalf("AddRepeat() failed: %v", err)
	}
	id := snap.RepeatCourses[0].ID

	snap, err = svc.UpdateRepeat(ctx, sid, id, RepeatCourseInput{Code: "MATH2100", OldGrade: "C", NewGrade: "A", Credit: 3})
	if err != nil {
		t.Fatalf("UpdateRepeat() failed: %v", err)
	}
	if got := snap.RepeatCourses[0].Points; got != 6 {
		t.Errorf("updated points = %v, want 6 (derived fields recomputed on update)", got)
	}

	if _, err = svc.UpdateRepeat(ctx, sid, "nope", RepeatCourseInput{Code: "PHYS1200", OldGrade: "C", NewGrade: "A", Credit: 3}); errors.Cause(err) != ErrCourseNotFound {
		t.Errorf("UpdateRepeat(unknown id) error = %v, want ErrCourseNotFound", err)
	}

	snap, err = svc.DeleteRepeat(ctx, sid, id)
	if err != nil {
		t.Fatalf("DeleteRepeat() failed: %v", err)
	}
	if len(snap.RepeatCourses) != 0 {
		t.Error("course not deleted")
	}
	if snap.Record.ExpectedGradePoints != 0 {
		t.Errorf("derived record not recomputed after delete: %+v", snap.Record)
	}

	if _, err = svc.DeleteRepeat(ctx, sid, id); errors.Cause(err) != ErrCourseNotFound {
		t.Errorf("DeleteRepeat(gone) error = %v, want ErrCourseNotFound", err)
	}
}

func TestServiceUpdateUnknownCourseNotFound(t *testing.T) {
	svc := NewService(newFakeRepo(), newTestValidator())
	ctx := context.Background()

	// baseline already at the ceiling: the proposal below would trip the
	// guard, but an unknown ID must report not-found, not a guard rejection
	if _, err := svc.SetBaseline(ctx, sid, BaselineInput{GradePoints: 8, AttemptedCredits: 2}); err != nil {
		t.Fatalf("SetBaseline() failed: %v", err)
	}

	_, err := svc.UpdateRepeat(ctx, sid, "nope", RepeatCourseInput{Code: "MATH2100", OldGrade: "F", NewGrade: "A", Credit: 6})
	if errors.Cause(err) != ErrCourseNotFound {
		t.Errorf("UpdateRepeat(unknown id) error = %v, want ErrCourseNotFound", err)
	}

	_, err = svc.UpdateNew(ctx, sid, "nope", NewCourseInput{Code: "COMP1000", Grade: "F", Credit: 6})
	if errors.Cause(err) != ErrCourseNotFound {
		t.Errorf("UpdateNew(unknown id) error = %v, want ErrCourseNotFound", err)
	}
}

func TestServiceSetBaseline(t *testing.T) {
	svc := NewService(newFakeRepo(), newTestValidator())
	ctx := context.Background()

	snap, err := svc.SetBaseline(ctx, sid, BaselineInput{GradePoints: 40, AttemptedCredits: 10})
	if err != nil {
		t.Fatalf("SetBaseline() failed: %v", err)
	}
	if snap.Record.CurrentCGPA != 4 {
		t.Errorf("CurrentCGPA = %v, want 4", snap.Record.CurrentCGPA)
	}
	if snap.Record.ExpectedCGPA != 4 {
		t.Errorf("ExpectedCGPA = %v, want 4 (empty lists fall back to baseline)", snap.Record.ExpectedCGPA)
	}

	// zero credits: CGPA defined as 0, no NaN
	snap, err = svc.SetBaseline(ctx, sid, BaselineInput{})
	if err != nil {
		t.Fatalf("SetBaseline() failed: %v", err)
	}
	if snap.Record.CurrentCGPA != 0 || snap.Record.ExpectedCGPA != 0 {
		t.Errorf("zero-credit baseline must yield 0 CGPAs: %+v", snap.Record)
	}
}

func TestServiceReset(t *testing.T) {
	svc := NewService(newFakeRepo(), newTestValidator())
	ctx := context.Background()

	if _, err := svc.AddNew(ctx, sid, NewCourseInput{Code: "COMP1000", Grade: "B", Credit: 3}); err != nil {
		t.Fatalf("AddNew() failed: %v", err)
	}
	if err := svc.Reset(ctx, sid); err != nil {
		t.Fatalf("Reset() failed: %v", err)
	}

	snap, err := svc.Get(ctx, sid)
	if err != nil {
		t.Fatalf("Get() failed: %v", err)
	}
	if len(snap.NewCourses) != 0 || snap.Record != (Record{}) {
		t.Errorf("session not reset: %+v", snap)
	}
}

func TestServiceImportRecomputesDerivedFields(t *testing.T) {
	svc := NewService(newFakeRepo(), newTestValidator())
	ctx := context.Background()

	imported := Snapshot{
		Record: Record{CurrentGradePoints: 20, CurrentAttemptedCredits: 10, ExpectedCGPA: 9000},
		RepeatCourses: []RepeatCourse{
			{Code: "math2100", OldGrade: "C", NewGrade: "A", Credit: 3, Points: 42, SemPoints: 42},
		},
		NewCourses: []NewCourse{
			{Code: "comp1000", Grade: "B", Credit: 3, SemPoints: 42},
		},
	}
	snap, err := svc.Import(ctx, sid, imported)
	if err != nil {
		t.Fatalf("Import() failed: %v", err)
	}

	if snap.RepeatCourses[0].Code != "MATH2100" {
		t.Errorf("code not normalized: %q", snap.RepeatCourses[0].Code)
	}
	if snap.RepeatCourses[0].Points != 6 || snap.RepeatCourses[0].SemPoints != 12 {
		t.Errorf("imported derived fields not recomputed: %+v", snap.RepeatCourses[0])
	}
	if snap.NewCourses[0].SemPoints != 9 {
		t.Errorf("imported sem points not recomputed: %+v", snap.NewCourses[0])
	}
	// expected points: 20 + 6 + 9 = 35 over 13 credits
	if snap.Record.ExpectedCGPA != core.Round2(35.0/13.0) {
		t.Errorf("ExpectedCGPA = %v, want %v", snap.Record.ExpectedCGPA, core.Round2(35.0/13.0))
	}

	// duplicate codes across the imported lists are rejected
	imported.NewCourses[0].Code = "MATH2100"
	if _, err = svc.Import(ctx, sid, imported); err == nil {
		t.Error("Import() with duplicate codes must fail")
	}
}

func TestServiceImportValidatesCourses(t *testing.T) {
	svc := NewService(newFakeRepo(), newTestValidator())
	ctx := context.Background()

	// a course the add path would reject must not sneak in through an import
	bad := Snapshot{
		RepeatCourses: []RepeatCourse{
			{Code: "X", OldGrade: "A", NewGrade: "C", Credit: 50},
		},
	}
	_, err := svc.Import(ctx, sid, bad)
	fields := fieldErrs(t, err)
	for _, f := range []string{"code", "new_grade", "credit"} {
		if !fields[f] {
			t.Errorf("missing error for field %q, got %v", f, fields)
		}
	}

	bad = Snapshot{
		NewCourses: []NewCourse{
			{Code: "??", Credit: 99},
		},
	}
	_, err = svc.Import(ctx, sid, bad)
	fields = fieldErrs(t, err)
	for _, f := range []string{"code", "grade", "credit"} {
		if !fields[f] {
			t.Errorf("missing error for field %q, got %v", f, fields)
		}
	}

	snap, _ := svc.Get(ctx, sid)
	if len(snap.RepeatCourses) != 0 || len(snap.NewCourses) != 0 {
		t.Error("rejected import must not mutate stored state")
	}
}

func TestServiceImportValidatesBaseline(t *testing.T) {
	svc := NewService(newFakeRepo(), newTestValidator())
	ctx := context.Background()

	bad := Snapshot{Record: Record{CurrentGradePoints: 41, CurrentAttemptedCredits: 10}}
	_, err := svc.Import(ctx, sid, bad)
	fields := fieldErrs(t, err)
	if !fields["grade_points"] || !fields["attempted_credits"] {
		t.Errorf("want grade_points and attempted_credits errors, got %v", fields)
	}

	bad = Snapshot{Record: Record{CurrentGradePoints: -1}}
	if _, err = svc.Import(ctx, sid, bad); err == nil {
		t.Error("Import() with a negative baseline must fail")
	}
}
