package model

// State is the processing state of one selected file.
type State string

const (
	StatePending    State = "pending"
	StateProcessing State = "processing"
	StateSuccess    State = "success"
	StateError      State = "error"
)

// Terminal reports whether s is a final state.
func (s State) Terminal() bool {
	return s == StateSuccess || s == StateError
}

// StatusEntry tracks the progress of one file within a batch. Entries are
// correlated by ID, so two files sharing a name never overwrite each other.
type StatusEntry struct {
	ID       string `json:"id"`
	Index    int    `json:"index"`
	FileName string `json:"fileName"`
	State    State  `json:"state"`
	Message  string `json:"message"`
}
