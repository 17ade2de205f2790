package localstore

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/Dandandan2024/PropertyCalculator/internal/models"
	"github.com/Dandandan2024/PropertyCalculator/internal/notes"
)

// NotesKey is the slot that holds every note as one JSON array.
const NotesKey = "demo-notes"

// SeededKey lists the owners that already received the welcome notes.
const SeededKey = "demo-notes-seeded"

// NoteStore implements notes.Backend on top of a single KV slot.
type NoteStore struct {
	kv   *KV
	seed bool
	now  func() time.Time

	mu sync.Mutex
}

// NewNoteStore opens the slot store. With seed set, every owner gets the
// two welcome notes the first time they list, unless they already have notes.
// An owner who deletes them does not get them back.
func NewNoteStore(kv *KV, seed bool) *NoteStore {
	return &NoteStore{kv: kv, seed: seed, now: time.Now}
}

func (s *NoteStore) load() ([]models.Note, bool, error) {
	b, ok, err := s.kv.Get(NotesKey)
	if err != nil || !ok {
		return nil, ok, err
	}
	var all []models.Note
	if err := json.Unmarshal(b, &all); err != nil {
		return nil, true, fmt.Errorf("decode %s: %w", NotesKey, err)
	}
	return all, true, nil
}

func (s *NoteStore) save(all []models.Note) error {
	if all == nil {
		all = []models.Note{}
	}
	b, err := json.Marshal(all)
	if err != nil {
		return fmt.Errorf("encode %s: %w", NotesKey, err)
	}
	return s.kv.Set(NotesKey, b)
}

func (s *NoteStore) List(ctx context.Context, owner string) ([]models.Note, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	all, _, err := s.load()
	if err != nil {
		return nil, err
	}

	result := make([]models.Note, 0, len(all))
	for _, n := range all {
		if n.Owner == owner {
			result = append(result, n)
		}
	}
	if !s.seed {
		return result, nil
	}

	seeded, err := s.loadSeeded()
	if err != nil {
		return nil, err
	}
	if seeded[owner] {
		return result, nil
	}
	if len(result) == 0 {
		welcome := WelcomeNotes(owner, s.now())
		if err := s.save(append(all, welcome...)); err != nil {
			return nil, err
		}
		result = welcome
	}
	seeded[owner] = true
	if err := s.saveSeeded(seeded); err != nil {
		return nil, err
	}
	return result, nil
}

func (s *NoteStore) loadSeeded() (map[string]bool, error) {
	seeded := map[string]bool{}
	b, ok, err := s.kv.Get(SeededKey)
	if err != nil || !ok {
		return seeded, err
	}
	var owners []string
	if err := json.Unmarshal(b, &owners); err != nil {
		return nil, fmt.Errorf("decode %s: %w", SeededKey, err)
	}
	for _, o := range owners {
		seeded[o] = true
	}
	return seeded, nil
}

func (s *NoteStore) saveSeeded(seeded map[string]bool) error {
	owners := make([]string, 0, len(seeded))
	for o := range seeded {
		owners = append(owners, o)
	}
	sort.Strings(owners)
	b, err := json.Marshal(owners)
	if err != nil {
		return fmt.Errorf("encode %s: %w", SeededKey, err)
	}
	return s.kv.Set(SeededKey, b)
}

func (s *NoteStore) Insert(ctx context.Context, note models.Note) (models.Note, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	all, _, err := s.load()
	if err != nil {
		return models.Note{}, err
	}
	// newest first, like the slot has always been written
	all = append([]models.Note{note}, all...)
	if err := s.save(all); err != nil {
		return models.Note{}, err
	}
	return note, nil
}

func (s *NoteStore) Update(ctx context.Context, note models.Note) (models.Note, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	all, _, err := s.load()
	if err != nil {
		return models.Note{}, err
	}
	for i := range all {
		n := &all[i]
		if n.ID != note.ID || n.Owner != note.Owner {
			continue
		}
		n.Title = note.Title
		n.Content = note.Content
		n.UpdatedAt = note.UpdatedAt
		if err := s.save(all); err != nil {
			return models.Note{}, err
		}
		return *n, nil
	}
	return models.Note{}, notes.ErrNotFound
}

func (s *NoteStore) Delete(ctx context.Context, owner, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	all, _, err := s.load()
	if err != nil {
		return err
	}
	for i, n := range all {
		if n.ID == id && n.Owner == owner {
			all = append(all[:i], all[i+1:]...)
			return s.save(all)
		}
	}
	return notes.ErrNotFound
}

// WelcomeNotes are given to each new owner so the notebook is not empty on first run.
func WelcomeNotes(owner string, now time.Time) []models.Note {
	now = now.UTC()
	return []models.Note{
		{
			ID:        "demo-1",
			Owner:     owner,
			Title:     "Welcome to Your Notebook!",
			Content:   "This is a demo note. You can edit, delete, and create new notes. All data is stored locally on this machine.",
			CreatedAt: now,
		},
		{
			ID:        "demo-2",
			Owner:     owner,
			Title:     "Getting Started",
			Content:   "To use a shared database instead of local storage:\n1. Set database.driver to sqlite or postgres in config.yaml\n2. Point database.path or database.dsn at your database\n3. Restart the server",
			CreatedAt: now.Add(-time.Hour),
		},
	}
}

var _ notes.Backend = (*NoteStore)(nil)
