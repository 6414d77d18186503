package domain

import (
	"strings"
	"time"
)

// Lesson is a unit of educational content with optional media links
type Lesson struct {
	ID        int64
	Title     string
	Content   string // markdown
	AudioURL  string // optional
	VideoURL  string // optional
	Category  string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// NewLesson creates a new Lesson instance
func NewLesson(title, content, category string) *Lesson {
	now := time.Now()
	return &Lesson{
		Title:     title,
		Content:   content,
		Category:  category,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// HasAudio reports whether the lesson links an audio recording
func (l *Lesson) HasAudio() bool {
	return l.AudioURL != ""
}

// HasVideo reports whether the lesson links a video
func (l *Lesson) HasVideo() bool {
	return l.VideoURL != ""
}

// Validate validates the lesson
func (l *Lesson) Validate() error {
	var errs ValidationErrors
	if strings.TrimSpace(l.Title) == "" {
		errs = append(errs, NewMissingFieldError("title"))
	}
	if strings.TrimSpace(l.Content) == "" {
		errs = append(errs, NewMissingFieldError("content"))
	}
	if strings.TrimSpace(l.Category) == "" {
		errs = append(errs, NewMissingFieldError("category"))
	}
	if len(errs) > 0 {
		return errs
	}
	return nil
}
