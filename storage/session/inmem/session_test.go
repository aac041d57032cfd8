package inmemsession

import (
	"context"
	"testing"

	"github.com/kasozi/gpatrack/core/gpa"
)

func TestSnapshotRepository(t *testing.T) {
	db, err := Open()
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	repo := NewSnapshotRepository(db)
	ctx := context.Background()

	// a session that was never written reads back as a zero snapshot
	snap, err := repo.GetSnapshot(ctx, "s1")
	if err != nil {
		t.Fatalf("GetSnapshot() failed: %v", err)
	}
	if snap.Record != (gpa.Record{}) || len(snap.RepeatCourses) != 0 || len(snap.NewCourses) != 0 {
		t.Errorf("missing session must read as zero snapshot, got %+v", snap)
	}

	snap.Record.CurrentGradePoints = 20
	snap.NewCourses = []gpa.NewCourse{{ID: "n1", Code: "COMP1000", Grade: "B", Credit: 3, SemPoints: 9}}
	if err = repo.SaveSnapshot(ctx, "s1", snap); err != nil {
		t.Fatalf("SaveSnapshot() failed: %v", err)
	}

	got, err := repo.GetSnapshot(ctx, "s1")
	if err != nil {
		t.Fatalf("GetSnapshot() failed: %v", err)
	}
	if got.Record.CurrentGradePoints != 20 || len(got.NewCourses) != 1 {
		t.Errorf("stored snapshot not read back: %+v", got)
	}

	// reads are copies: mutating the returned slice must not leak into the store
	got.NewCourses[0].Code = "HACK0000"
	again, _ := repo.GetSnapshot(ctx, "s1")
	if again.NewCourses[0].Code != "COMP1000" {
		t.Error("stored state mutated through a returned snapshot")
	}

	// sessions are isolated
	other, _ := repo.GetSnapshot(ctx, "s2")
	if len(other.NewCourses) != 0 {
		t.Error("sessions must be isolated")
	}

	if err = repo.DeleteSnapshot(ctx, "s1"); err != nil {
		t.Fatalf("DeleteSnapshot() failed: %v", err)
	}
	gone, _ := repo.GetSnapshot(ctx, "s1")
	if len(gone.NewCourses) != 0 {
		t.Error("session not deleted")
	}
}
