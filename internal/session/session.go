// Package session holds the state accumulated while the tool runs: the
// record aggregate and the status log of the current batch.
package session

import (
	"sync"

	"github.com/mendonca-galvao/horaextra/internal/model"
)

// Session owns the record aggregate and the status log. It lives as long as
// the CLI run or the server process and is never persisted.
type Session struct {
	Records *Aggregate
	Status  *StatusLog
}

// New returns an empty session.
func New() *Session {
	return &Session{
		Records: &Aggregate{},
		Status:  &StatusLog{},
	}
}

// Aggregate is an append-only, insertion-ordered sequence of records.
type Aggregate struct {
	mu      sync.RWMutex
	records []model.TimesheetRecord
}

// Append adds records in one step; readers never observe a partial append.
func (a *Aggregate) Append(records []model.TimesheetRecord) {
	if len(records) == 0 {
		return
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	a.records = append(a.records, records...)
}

// Snapshot returns a copy of the records in insertion order.
func (a *Aggregate) Snapshot() []model.TimesheetRecord {
	a.mu.RLock()
	defer a.mu.RUnlock()
	out := make([]model.TimesheetRecord, len(a.records))
	copy(out, a.records)
	return out
}

// Len returns the number of records.
func (a *Aggregate) Len() int {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return len(a.records)
}
