package repository

import (
	"madrasa/internal/domain"

	"github.com/jmoiron/sqlx"
)

// ContentStore joins the lesson and quiz adapters behind domain.ContentStore
type ContentStore struct {
	*LessonDatabaseAdapter
	*QuizDatabaseAdapter
}

// NewContentStore creates the sqlx-backed content store
func NewContentStore(db *sqlx.DB) domain.ContentStore {
	return &ContentStore{
		LessonDatabaseAdapter: NewLessonDatabaseAdapter(db),
		QuizDatabaseAdapter:   NewQuizDatabaseAdapter(db),
	}
}
