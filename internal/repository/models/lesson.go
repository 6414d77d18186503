package models

import (
	"database/sql"
	"time"
)

// Lesson is the lessons table row
type Lesson struct {
	ID        int64          `db:"id"`
	Title     string         `db:"title"`
	Content   string         `db:"content"`
	AudioURL  sql.NullString `db:"audio_url"`
	VideoURL  sql.NullString `db:"video_url"`
	Category  string         `db:"category"`
	CreatedAt time.Time      `db:"created_at"`
	UpdatedAt time.Time      `db:"updated_at"`
}
