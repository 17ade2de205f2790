// Package notes is the ledger store: an owner's ordered note collection
// with create/read/update/delete/search over a pluggable backend.
package notes

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/Dandandan2024/PropertyCalculator/internal/events"
	"github.com/Dandandan2024/PropertyCalculator/internal/models"
	"github.com/Dandandan2024/PropertyCalculator/internal/util"
)

// MaxTitleLen matches the width of the title column.
const MaxTitleLen = 255

// Backend persists notes. Update and Delete return ErrNotFound when the
// owner has no note with that id; any other error means the backend failed.
type Backend interface {
	List(ctx context.Context, owner string) ([]models.Note, error)
	Insert(ctx context.Context, note models.Note) (models.Note, error)
	Update(ctx context.Context, note models.Note) (models.Note, error)
	Delete(ctx context.Context, owner, id string) error
}

type Options struct {
	Publisher events.Publisher
	Now       func() time.Time
	NewID     func() string
}

// Store is one owner's view of the notes: the backend plus an in-memory
// snapshot, newest first, that Search runs over.
type Store struct {
	backend   Backend
	owner     string
	publisher events.Publisher
	now       func() time.Time
	newID     func() string

	mu       sync.Mutex
	snapshot []models.Note
}

func NewStore(backend Backend, owner string, opts Options) *Store {
	s := &Store{
		backend:   backend,
		owner:     owner,
		publisher: opts.Publisher,
		now:       opts.Now,
		newID:     opts.NewID,
	}
	if s.publisher == nil {
		s.publisher = events.Nop{}
	}
	if s.now == nil {
		s.now = time.Now
	}
	if s.newID == nil {
		s.newID = func() string { return uuid.New().String() }
	}
	return s
}

func (s *Store) Owner() string { return s.owner }

// List reloads the owner's notes from the backend, newest first.
func (s *Store) List(ctx context.Context) ([]models.Note, error) {
	list, err := s.backend.List(ctx, s.owner)
	if err != nil {
		return nil, unavailable("list notes", err)
	}
	sortNewestFirst(list)

	s.mu.Lock()
	s.snapshot = list
	s.mu.Unlock()

	return cloneNotes(list), nil
}

// Create validates and stores a new note and puts it at the top of the snapshot.
func (s *Store) Create(ctx context.Context, title, content string) (models.Note, error) {
	title, content, err := validate(title, content)
	if err != nil {
		return models.Note{}, err
	}

	note := models.Note{
		ID:        s.newID(),
		Owner:     s.owner,
		Title:     title,
		Content:   content,
		CreatedAt: s.now().UTC(),
	}
	saved, err := s.backend.Insert(ctx, note)
	if err != nil {
		return models.Note{}, unavailable("create note", err)
	}

	s.mu.Lock()
	s.snapshot = append([]models.Note{saved}, s.snapshot...)
	s.mu.Unlock()

	s.publish(ctx, events.NoteCreated, saved)
	return saved, nil
}

// Update replaces title and content of an existing note and stamps UpdatedAt.
func (s *Store) Update(ctx context.Context, id, title, content string) (models.Note, error) {
	title, content, err := validate(title, content)
	if err != nil {
		return models.Note{}, err
	}

	now := s.now().UTC()
	saved, err := s.backend.Update(ctx, models.Note{
		ID:        id,
		Owner:     s.owner,
		Title:     title,
		Content:   content,
		UpdatedAt: &now,
	})
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return models.Note{}, fmt.Errorf("update note %s: %w", id, ErrNotFound)
		}
		return models.Note{}, unavailable("update note", err)
	}

	s.mu.Lock()
	for i := range s.snapshot {
		if s.snapshot[i].ID == id {
			s.snapshot[i] = saved
			break
		}
	}
	s.mu.Unlock()

	s.publish(ctx, events.NoteUpdated, saved)
	return saved, nil
}

// Delete removes a note from the backend and the snapshot.
func (s *Store) Delete(ctx context.Context, id string) error {
	if err := s.backend.Delete(ctx, s.owner, id); err != nil {
		if errors.Is(err, ErrNotFound) {
			return fmt.Errorf("delete note %s: %w", id, ErrNotFound)
		}
		return unavailable("delete note", err)
	}

	s.mu.Lock()
	kept := s.snapshot[:0]
	for _, n := range s.snapshot {
		if n.ID != id {
			kept = append(kept, n)
		}
	}
	s.snapshot = kept
	s.mu.Unlock()

	s.publish(ctx, events.NoteDeleted, models.Note{ID: id, Owner: s.owner})
	return nil
}

// Search filters the snapshot by a case-insensitive substring of title or
// content. Order follows the snapshot; an empty query returns all of it.
func (s *Store) Search(query string) []models.Note {
	q := strings.ToLower(strings.TrimSpace(query))

	s.mu.Lock()
	defer s.mu.Unlock()

	if q == "" {
		return cloneNotes(s.snapshot)
	}
	var out []models.Note
	for _, n := range s.snapshot {
		if strings.Contains(strings.ToLower(n.Title), q) ||
			strings.Contains(strings.ToLower(n.Content), q) {
			out = append(out, n)
		}
	}
	return out
}

// Snapshot returns a copy of the notes loaded so far.
func (s *Store) Snapshot() []models.Note {
	s.mu.Lock()
	defer s.mu.Unlock()
	return cloneNotes(s.snapshot)
}

// Get looks a note up in the snapshot.
func (s *Store) Get(id string) (models.Note, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, n := range s.snapshot {
		if n.ID == id {
			return n, true
		}
	}
	return models.Note{}, false
}

// Import inserts notes from a backup whose ids the owner does not have yet.
// It returns how many were inserted and leaves the snapshot reloaded.
func (s *Store) Import(ctx context.Context, list []models.Note) (int, error) {
	existing, err := s.backend.List(ctx, s.owner)
	if err != nil {
		return 0, unavailable("import notes", err)
	}
	seen := make(map[string]bool, len(existing))
	for _, n := range existing {
		seen[n.ID] = true
	}

	inserted := 0
	for _, n := range list {
		if n.ID == "" || seen[n.ID] {
			continue
		}
		n.Owner = s.owner
		if _, err := s.backend.Insert(ctx, n); err != nil {
			return inserted, unavailable("import notes", err)
		}
		seen[n.ID] = true
		inserted++
	}

	if _, err := s.List(ctx); err != nil {
		return inserted, err
	}
	return inserted, nil
}

func (s *Store) publish(ctx context.Context, kind string, n models.Note) {
	ev := events.NoteChanged{
		Kind:       kind,
		NoteID:     n.ID,
		Owner:      s.owner,
		Title:      n.Title,
		OccurredAt: s.now().UTC(),
	}
	if err := s.publisher.Publish(ctx, n.ID, ev); err != nil {
		log.Printf("publish %s event for note %s: %v", kind, n.ID, err)
	}
}

func validate(title, content string) (string, string, error) {
	title, err := util.RequiredText("title", title)
	if err != nil {
		return "", "", fmt.Errorf("%w: %v", ErrValidation, err)
	}
	content, err = util.RequiredText("content", content)
	if err != nil {
		return "", "", fmt.Errorf("%w: %v", ErrValidation, err)
	}
	if err := util.ValidateMaxLen("title", title, MaxTitleLen); err != nil {
		return "", "", fmt.Errorf("%w: %v", ErrValidation, err)
	}
	return title, content, nil
}

func unavailable(op string, err error) error {
	if errors.Is(err, ErrStoreUnavailable) {
		return fmt.Errorf("%s: %w", op, err)
	}
	return fmt.Errorf("%s: %w: %w", op, ErrStoreUnavailable, err)
}

func sortNewestFirst(list []models.Note) {
	sort.SliceStable(list, func(i, j int) bool {
		return list[i].CreatedAt.After(list[j].CreatedAt)
	})
}

func cloneNotes(list []models.Note) []models.Note {
	if list == nil {
		return []models.Note{}
	}
	out := make([]models.Note, len(list))
	copy(out, list)
	return out
}
