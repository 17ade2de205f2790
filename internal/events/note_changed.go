package events

import "time"

const (
	NoteCreated = "created"
	NoteUpdated = "updated"
	NoteDeleted = "deleted"
)

// NoteChanged is published after every successful note mutation.
type NoteChanged struct {
	Kind       string    `json:"kind"`
	NoteID     string    `json:"note_id"`
	Owner      string    `json:"user_id"`
	Title      string    `json:"title,omitempty"`
	OccurredAt time.Time `json:"occurred_at"`
}
