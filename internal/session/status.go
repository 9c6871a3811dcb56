package session

import (
	"sync"

	"github.com/google/uuid"

	"github.com/mendonca-galvao/horaextra/internal/model"
)

// Observer receives a copy of a status entry after every change.
type Observer func(model.StatusEntry)

// StatusLog is the per-file progress log of the current batch.
type StatusLog struct {
	mu        sync.RWMutex
	entries   []model.StatusEntry
	observers []Observer
}

// Reset clears the log at the start of a batch.
func (l *StatusLog) Reset() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.entries = nil
}

// Begin records that the file at index started processing and returns the
// entry ID used to finish it.
func (l *StatusLog) Begin(index int, fileName, message string) string {
	e := model.StatusEntry{
		ID:       uuid.NewString(),
		Index:    index,
		FileName: fileName,
		State:    model.StateProcessing,
		Message:  message,
	}

	l.mu.Lock()
	l.entries = append(l.entries, e)
	observers := l.observers
	l.mu.Unlock()

	notify(observers, e)
	return e.ID
}

// Finish moves the entry to a terminal state. It reports false when id is
// unknown or the entry already finished.
func (l *StatusLog) Finish(id string, state model.State, message string) bool {
	l.mu.Lock()
	var (
		e     model.StatusEntry
		found bool
	)
	for i := range l.entries {
		if l.entries[i].ID == id && !l.entries[i].State.Terminal() {
			l.entries[i].State = state
			l.entries[i].Message = message
			e, found = l.entries[i], true
			break
		}
	}
	observers := l.observers
	l.mu.Unlock()

	if found {
		notify(observers, e)
	}
	return found
}

// Entries returns a copy of the log in selection order.
func (l *StatusLog) Entries() []model.StatusEntry {
	l.mu.RLock()
	defer l.mu.RUnlock()
	out := make([]model.StatusEntry, len(l.entries))
	copy(out, l.entries)
	return out
}

// Subscribe registers o for every subsequent change. Observers run
// synchronously on the goroutine driving the batch.
func (l *StatusLog) Subscribe(o Observer) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.observers = append(l.observers, o)
}

// notify calls every observer; a panicking observer does not stop the others
// or the batch.
func notify(observers []Observer, e model.StatusEntry) {
	for _, o := range observers {
		call(o, e)
	}
}

func call(o Observer, e model.StatusEntry) {
	defer func() { _ = recover() }()
	o(e)
}
