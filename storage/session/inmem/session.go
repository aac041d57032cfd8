package inmemsession

import (
	"context"

	"github.com/kasozi/gpatrack/core/gpa"
)

type snapshotRepository struct {
	db *sessionTable
}

func NewSnapshotRepository(db *DB) gpa.Repository {
	return &snapshotRepository{db: db.sessions}
}

// GetSnapshot returns a copy of the stored snapshot; a session that was never
// written reads back as a zero Snapshot (fresh session, zero defaults).
func (repo *snapshotRepository) GetSnapshot(_ context.Context, sessionID string) (gpa.Snapshot, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	snap := repo.db.table[sessionID]
	// copy the lists so callers cannot mutate stored state in place
	snap.RepeatCourses = append([]gpa.RepeatCourse(nil), snap.RepeatCourses...)
	snap.NewCourses = append([]gpa.NewCourse(nil), snap.NewCourses...)
	return snap, nil
}

func (repo *snapshotRepository) SaveSnapshot(_ context.Context, sessionID string, snap gpa.Snapshot) error {
	repo.db.Lock()
	defer repo.db.Unlock()

	snap.RepeatCourses = append([]gpa.RepeatCourse(nil), snap.RepeatCourses...)
	snap.NewCourses = append([]gpa.NewCourse(nil), snap.NewCourses...)
	repo.db.table[sessionID] = snap
	return nil
}

func (repo *snapshotRepository) DeleteSnapshot(_ context.Context, sessionID string) error {
	repo.db.Lock()
	defer repo.db.Unlock()

	delete(repo.db.table, sessionID)
	return nil
}
