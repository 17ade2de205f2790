// Package gormstore keeps notes in a SQL database through gorm,
// encrypting title and content at rest when a cipher is configured.
package gormstore

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/Dandandan2024/PropertyCalculator/internal/models"
	"github.com/Dandandan2024/PropertyCalculator/internal/notes"
	"github.com/Dandandan2024/PropertyCalculator/internal/util"
)

type NoteStore struct {
	DB     *gorm.DB
	Cipher *util.Cipher
}

func NewNoteStore(db *gorm.DB, cipher *util.Cipher) *NoteStore {
	return &NoteStore{
		DB:     db,
		Cipher: cipher,
	}
}

func (s *NoteStore) seal(n models.Note) (models.Note, error) {
	title, err := s.Cipher.EncryptString(n.Title)
	if err != nil {
		return n, fmt.Errorf("encrypt title: %w", err)
	}
	content, err := s.Cipher.EncryptString(n.Content)
	if err != nil {
		return n, fmt.Errorf("encrypt content: %w", err)
	}
	n.Title, n.Content = title, content
	return n, nil
}

func (s *NoteStore) open(n models.Note) models.Note {
	n.Title = s.Cipher.DecryptString(n.Title)
	n.Content = s.Cipher.DecryptString(n.Content)
	return n
}

func (s *NoteStore) List(ctx context.Context, owner string) ([]models.Note, error) {
	var rows []models.Note
	if err := s.DB.WithContext(ctx).
		Where("user_id = ?", owner).
		Order("created_at DESC, id DESC").
		Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("query notes: %w", err)
	}

	for i := range rows {
		rows[i] = s.open(rows[i])
	}
	return rows, nil
}

func (s *NoteStore) Insert(ctx context.Context, note models.Note) (models.Note, error) {
	row, err := s.seal(note)
	if err != nil {
		return models.Note{}, err
	}
	if err := s.DB.WithContext(ctx).Create(&row).Error; err != nil {
		return models.Note{}, fmt.Errorf("insert note: %w", err)
	}
	return note, nil
}

func (s *NoteStore) Update(ctx context.Context, note models.Note) (models.Note, error) {
	var row models.Note
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// 只允许修改自己的记录
		if err := tx.Where("id = ? AND user_id = ?", note.ID, note.Owner).First(&row).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return notes.ErrNotFound
			}
			return fmt.Errorf("query note: %w", err)
		}

		sealed, err := s.seal(note)
		if err != nil {
			return err
		}
		row.Title = sealed.Title
		row.Content = sealed.Content
		row.UpdatedAt = note.UpdatedAt

		if err := tx.Save(&row).Error; err != nil {
			return fmt.Errorf("save note: %w", err)
		}
		return nil
	})
	if err != nil {
		return models.Note{}, err
	}
	return s.open(row), nil
}

func (s *NoteStore) Delete(ctx context.Context, owner, id string) error {
	res := s.DB.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, owner).
		Delete(&models.Note{})
	if res.Error != nil {
		return fmt.Errorf("delete note: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return notes.ErrNotFound
	}
	return nil
}

var _ notes.Backend = (*NoteStore)(nil)
