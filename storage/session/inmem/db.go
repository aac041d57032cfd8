package inmemsession

import (
	"sync"

	"github.com/kasozi/gpatrack/core/gpa"
)

type (
	DB struct {
		sessions *sessionTable
	}

	sessionTable struct {
		sync.RWMutex
		table map[string]gpa.Snapshot
	}
)

func Open() (*DB, error) {
	db := &DB{
		sessions: &sessionTable{table: make(map[string]gpa.Snapshot)},
	}
	return db, nil
}
