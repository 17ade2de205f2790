package memory

import (
	"context"
	"sync"

	"github.com/Dandandan2024/PropertyCalculator/internal/models"
	"github.com/Dandandan2024/PropertyCalculator/internal/notes"
)

// NoteStore is an in-memory implementation of notes.Backend.
// It keeps insertion order and is safe for concurrent use.
type NoteStore struct {
	mu    sync.Mutex
	notes []models.Note

	// Err, when set, is returned by every call; tests use it to simulate an outage.
	Err error
}

func NewNoteStore() *NoteStore {
	return &NoteStore{notes: make([]models.Note, 0)}
}

func (m *NoteStore) List(ctx context.Context, owner string) ([]models.Note, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return nil, m.Err
	}

	result := make([]models.Note, 0)
	for _, n := range m.notes {
		if n.Owner == owner {
			result = append(result, n)
		}
	}
	return result, nil
}

func (m *NoteStore) Insert(ctx context.Context, note models.Note) (models.Note, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return models.Note{}, m.Err
	}

	m.notes = append(m.notes, note)
	return note, nil
}

func (m *NoteStore) Update(ctx context.Context, note models.Note) (models.Note, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return models.Note{}, m.Err
	}

	for i := range m.notes {
		n := &m.notes[i]
		if n.ID == note.ID && n.Owner == note.Owner {
			n.Title = note.Title
			n.Content = note.Content
			n.UpdatedAt = note.UpdatedAt
			return *n, nil
		}
	}
	return models.Note{}, notes.ErrNotFound
}

func (m *NoteStore) Delete(ctx context.Context, owner, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return m.Err
	}

	for i, n := range m.notes {
		if n.ID == id && n.Owner == owner {
			m.notes = append(m.notes[:i], m.notes[i+1:]...)
			return nil
		}
	}
	return notes.ErrNotFound
}

// Compile-time check: ensure NoteStore implements notes.Backend
var _ notes.Backend = (*NoteStore)(nil)
