package redissession

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/pkg/errors"

	"github.com/kasozi/gpatrack/core"
	"github.com/kasozi/gpatrack/core/gpa"
)

const sessionKeyPrefix = "gpa:session:" // Hash: record/repeat_courses/new_courses JSON fields

// hash fields
const (
	recordField        = "record"
	repeatCoursesField = "repeat_courses"
	newCoursesField    = "new_courses"
)

type snapshotRepository struct {
	client *redis.Client
	ttl    time.Duration // sessions are ephemeral working state; each write refreshes the TTL
}

func NewSnapshotRepository(client *redis.Client, ttl time.Duration) gpa.Repository {
	return &snapshotRepository{client: client, ttl: ttl}
}

func sessionKey(sessionID string) string {
	return sessionKeyPrefix + sessionID
}

func (repo *snapshotRepository) GetSnapshot(ctx context.Context, sessionID string) (gpa.Snapshot, error) {
	var snap gpa.Snapshot

	fields, err := repo.client.HGetAll(ctx, sessionKey(sessionID)).Result()
	if err != nil {
		return gpa.Snapshot{}, errors.Wrap(err, "reading session hash")
	}
	if len(fields) == 0 { // missing session reads back as a fresh snapshot
		return snap, nil
	}

	// a field that no longer decodes means the stored data is corrupt:
	// report it as an integrity failure rather than a plain error
	if raw, ok := fields[recordField]; ok {
		if err = json.Unmarshal([]byte(raw), &snap.Record); err != nil {
			return gpa.Snapshot{}, core.NewShutdownError(fmt.Sprintf("corrupt record field in session %q: %v", sessionID, err))
		}
	}
	if raw, ok := fields[repeatCoursesField]; ok {
		if err = json.Unmarshal([]byte(raw), &snap.RepeatCourses); err != nil {
			return gpa.Snapshot{}, core.NewShutdownError(fmt.Sprintf("corrupt repeat_courses field in session %q: %v", sessionID, err))
		}
	}
	if raw, ok := fields[newCoursesField]; ok {
		if err = json.Unmarshal([]byte(raw), &snap.NewCourses); err != nil {
			return gpa.Snapshot{}, core.NewShutdownError(fmt.Sprintf("corrupt new_courses field in session %q: %v", sessionID, err))
		}
	}
	return snap, nil
}

func (repo *snapshotRepository) SaveSnapshot(ctx context.Context, sessionID string, snap gpa.Snapshot) error {
	record, err := json.Marshal(snap.Record)
	if err != nil {
		return errors.Wrap(err, "encoding record")
	}
	repeats, err := json.Marshal(snap.RepeatCourses)
	if err != nil {
		return errors.Wrap(err, "encoding repeat courses")
	}
	news, err := json.Marshal(snap.NewCourses)
	if err != nil {
		return errors.Wrap(err, "encoding new courses")
	}

	key := sessionKey(sessionID)
	pipe := repo.client.Pipeline()
	pipe.HSet(ctx, key,
		recordField, record,
		repeatCoursesField, repeats,
		newCoursesField, news,
	)
	if repo.ttl > 0 {
		pipe.Expire(ctx, key, repo.ttl)
	}
	if _, err = pipe.Exec(ctx); err != nil {
		return errors.Wrap(err, "writing session hash")
	}
	return nil
}

func (repo *snapshotRepository) DeleteSnapshot(ctx context.Context, sessionID string) error {
	if err := repo.client.Del(ctx, sessionKey(sessionID)).Err(); err != nil {
		return errors.Wrap(err, "deleting session hash")
	}
	return nil
}
