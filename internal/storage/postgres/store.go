package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Dandandan2024/PropertyCalculator/internal/models"
	"github.com/Dandandan2024/PropertyCalculator/internal/notes"
)

const schema = `CREATE TABLE IF NOT EXISTS notes (
	id         TEXT PRIMARY KEY,
	user_id    TEXT NOT NULL,
	title      TEXT NOT NULL,
	content    TEXT NOT NULL,
	created_at TIMESTAMPTZ NOT NULL,
	updated_at TIMESTAMPTZ
);
CREATE INDEX IF NOT EXISTS idx_notes_user_created ON notes (user_id, created_at DESC)`

type NoteStore struct {
	db *sql.DB
}

func NewNoteStore(db *sql.DB) *NoteStore {
	return &NoteStore{
		db: db,
	}
}

// Migrate creates the notes table when it does not exist yet.
func (p *NoteStore) Migrate(ctx context.Context) error {
	if _, err := p.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("migrate notes: %w", err)
	}
	return nil
}

func (p *NoteStore) List(ctx context.Context, owner string) ([]models.Note, error) {
	const query = `SELECT id, user_id, title, content, created_at, updated_at FROM notes
	WHERE user_id = $1 ORDER BY created_at DESC`

	rows, err := p.db.QueryContext(ctx, query, owner)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := make([]models.Note, 0)
	for rows.Next() {
		n, err := scanNote(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, n)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (p *NoteStore) Insert(ctx context.Context, note models.Note) (models.Note, error) {
	const query = `INSERT INTO notes (id, user_id, title, content, created_at, updated_at)
	VALUES ($1, $2, $3, $4, $5, $6)`

	_, err := p.db.ExecContext(ctx, query, note.ID, note.Owner, note.Title, note.Content, note.CreatedAt, note.UpdatedAt)
	if err != nil {
		return models.Note{}, err
	}
	return note, nil
}

func (p *NoteStore) Update(ctx context.Context, note models.Note) (models.Note, error) {
	const query = `UPDATE notes SET title = $3, content = $4, updated_at = $5
	WHERE id = $1 AND user_id = $2
	RETURNING id, user_id, title, content, created_at, updated_at`

	row := p.db.QueryRowContext(ctx, query, note.ID, note.Owner, note.Title, note.Content, note.UpdatedAt)
	updated, err := scanNote(row)
	if err == sql.ErrNoRows {
		return models.Note{}, notes.ErrNotFound
	}
	if err != nil {
		return models.Note{}, err
	}
	return updated, nil
}

func (p *NoteStore) Delete(ctx context.Context, owner, id string) error {
	const query = `DELETE FROM notes WHERE id = $1 AND user_id = $2`

	res, err := p.db.ExecContext(ctx, query, id, owner)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return notes.ErrNotFound
	}
	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanNote(s scanner) (models.Note, error) {
	var (
		n       models.Note
		updated sql.NullTime
	)
	if err := s.Scan(&n.ID, &n.Owner, &n.Title, &n.Content, &n.CreatedAt, &updated); err != nil {
		return models.Note{}, err
	}
	if updated.Valid {
		t := updated.Time
		n.UpdatedAt = &t
	}
	return n, nil
}

var _ notes.Backend = (*NoteStore)(nil)
