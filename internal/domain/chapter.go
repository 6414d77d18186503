package domain

// Chapter groups reading sections for the chapter view
type Chapter struct {
	ID       int64
	Name     string
	Sections []Section
}

// Section is a single readable entry inside a chapter
type Section struct {
	ID        int64
	ChapterID int64
	Name      string
	Content   string
}

// ChapterRepository is a read-only source of chapters, populated once at startup
type ChapterRepository interface {
	ListChapters() []Chapter
	GetSection(id int64) (*Section, error)
}
