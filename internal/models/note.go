package models

import "time"

// Note is a single note owned by one user.
// ID is a uuid string so that every backend (sql, local slot) can assign it.
type Note struct {
	ID        string     `gorm:"primaryKey;size:64" json:"id"`
	Owner     string     `gorm:"column:user_id;index;size:64;not null" json:"user_id"`
	Title     string     `gorm:"size:255;not null" json:"title"`
	Content   string     `gorm:"type:text;not null" json:"content"` // ciphertext when encryption is on
	CreatedAt time.Time  `gorm:"index;not null" json:"created_at"`
	UpdatedAt *time.Time `gorm:"autoUpdateTime:false" json:"updated_at,omitempty"`
}
