package core

// EventType represents the type of change in the journal.
type EventType string

const (
	EventCreate EventType = "CREATE"
	EventModify EventType = "MODIFY"
	EventDelete EventType = "DELETE"
)

// Event represents a change to a stored note.
type Event struct {
	Type      EventType `json:"type"`
	ID        string    `json:"id"`
	Timestamp int64     `json:"timestamp"` // Unix timestamp
}

// String implements fmt.Stringer.
func (e Event) String() string {
	return string(e.Type) + " " + e.ID
}

type contextKey string

// ChangeReasonKey is the context key for passing a change reason (commit
// message) to versioned repositories during Save/Delete.
const ChangeReasonKey contextKey = "change_reason"
