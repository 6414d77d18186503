package dto

import "time"

// LessonSummary is a lesson as it appears in listings
type LessonSummary struct {
	ID       int64  `json:"id"`
	Title    string `json:"title"`
	Category string `json:"category"`
	HasAudio bool   `json:"has_audio"`
	HasVideo bool   `json:"has_video"`
}

// LessonListResponse wraps a lesson listing
type LessonListResponse struct {
	Category string          `json:"category,omitempty"`
	Lessons  []LessonSummary `json:"lessons"`
}

// LessonDetailResponse is a single lesson with its rendered content
type LessonDetailResponse struct {
	ID          int64     `json:"id"`
	Title       string    `json:"title"`
	Content     string    `json:"content"`
	ContentHTML string    `json:"content_html"`
	AudioURL    string    `json:"audio_url,omitempty"`
	VideoURL    string    `json:"video_url,omitempty"`
	Category    string    `json:"category"`
	CreatedAt   time.Time `json:"created_at"`
}

// CategoryListResponse lists the distinct lesson categories
type CategoryListResponse struct {
	Categories []string `json:"categories"`
}

// SectionResponse is a chapter section
type SectionResponse struct {
	ID        int64  `json:"id"`
	ChapterID int64  `json:"chapter_id"`
	Name      string `json:"name"`
	Content   string `json:"content,omitempty"`
}

// ChapterResponse is a chapter with its section titles
type ChapterResponse struct {
	ID       int64             `json:"id"`
	Name     string            `json:"name"`
	Sections []SectionResponse `json:"sections"`
}

// ChapterListResponse wraps the chapter tree
type ChapterListResponse struct {
	Chapters []ChapterResponse `json:"chapters"`
}
