package models

import "time"

// Backup is the metadata row of an encrypted notes snapshot on disk.
type Backup struct {
	ID        string `gorm:"primaryKey;size:64"`
	Owner     string `gorm:"column:user_id;index;size:64;not null"`
	FileName  string `gorm:"size:255;not null"`
	FilePath  string `gorm:"size:1024;not null"`
	Size      int64
	Notes     int
	CreatedAt time.Time
}
