package domain

import "context"

// LessonRepository defines the interface for lesson persistence
type LessonRepository interface {
	// GetLesson returns the lesson or a LESSON_NOT_FOUND error
	GetLesson(ctx context.Context, id int64) (*Lesson, error)

	// ListLessons returns every lesson ordered by ID
	ListLessons(ctx context.Context) ([]*Lesson, error)

	// ListLessonsByCategory returns lessons whose category equals category exactly
	ListLessonsByCategory(ctx context.Context, category string) ([]*Lesson, error)

	// ListCategories returns the distinct lesson categories, sorted
	ListCategories(ctx context.Context) ([]string, error)

	// SaveLesson persists a new lesson, assigning an ID when it has none
	SaveLesson(ctx context.Context, lesson *Lesson) error
}

// QuizRepository defines the interface for quiz question persistence
type QuizRepository interface {
	// ListQuestions returns the questions of a lesson ordered by ID
	ListQuestions(ctx context.Context, lessonID int64) ([]*QuizQuestion, error)

	// SaveQuestion persists a new question, assigning an ID when it has none
	SaveQuestion(ctx context.Context, question *QuizQuestion) error
}

// ContentStore is the full lesson and quiz store
type ContentStore interface {
	LessonRepository
	QuizRepository
}

// TransactionManager runs fn inside a single database transaction
type TransactionManager interface {
	WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}
