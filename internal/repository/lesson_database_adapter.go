package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"madrasa/internal/domain"
	"madrasa/internal/repository/models"
	"madrasa/internal/util"

	"github.com/jmoiron/sqlx"
)

const lessonColumns = `id, title, content, audio_url, video_url, category, created_at, updated_at`

// LessonDatabaseAdapter implements domain.LessonRepository using sqlx
type LessonDatabaseAdapter struct {
	db *sqlx.DB
}

// NewLessonDatabaseAdapter creates a new instance of LessonDatabaseAdapter
func NewLessonDatabaseAdapter(db *sqlx.DB) *LessonDatabaseAdapter {
	return &LessonDatabaseAdapter{db: db}
}

// GetLesson implements domain.LessonRepository
func (a *LessonDatabaseAdapter) GetLesson(ctx context.Context, id int64) (*domain.Lesson, error) {
	exec := GetExecutor(ctx, a.db)

	var m models.Lesson
	query := exec.Rebind(`SELECT ` + lessonColumns + ` FROM lessons WHERE id = ?`)
	if err := exec.GetContext(ctx, &m, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.NewLessonNotFoundError(id)
		}
		return nil, domain.NewStorageError("failed to get lesson", err).WithContext("lesson_id", id)
	}
	return toDomainLesson(&m), nil
}

// ListLessons implements domain.LessonRepository
func (a *LessonDatabaseAdapter) ListLessons(ctx context.Context) ([]*domain.Lesson, error) {
	exec := GetExecutor(ctx, a.db)

	var rows []models.Lesson
	query := `SELECT ` + lessonColumns + ` FROM lessons ORDER BY id`
	if err := exec.SelectContext(ctx, &rows, query); err != nil {
		return nil, domain.NewStorageError("failed to list lessons", err)
	}
	return toDomainLessons(rows), nil
}

// ListLessonsByCategory implements domain.LessonRepository.
// The match is exact and case-sensitive.
func (a *LessonDatabaseAdapter) ListLessonsByCategory(ctx context.Context, category string) ([]*domain.Lesson, error) {
	exec := GetExecutor(ctx, a.db)

	var rows []models.Lesson
	query := exec.Rebind(`SELECT ` + lessonColumns + ` FROM lessons WHERE category = ? ORDER BY id`)
	if err := exec.SelectContext(ctx, &rows, query, category); err != nil {
		return nil, domain.NewStorageError("failed to list lessons by category", err).WithContext("category", category)
	}
	return toDomainLessons(rows), nil
}

// ListCategories implements domain.LessonRepository
func (a *LessonDatabaseAdapter) ListCategories(ctx context.Context) ([]string, error) {
	exec := GetExecutor(ctx, a.db)

	categories := []string{}
	if err := exec.SelectContext(ctx, &categories, `SELECT DISTINCT category FROM lessons ORDER BY category`); err != nil {
		return nil, domain.NewStorageError("failed to list categories", err)
	}
	return categories, nil
}

// SaveLesson implements domain.LessonRepository.
// A lesson without an ID gets the next one; run it inside a transaction when
// saving concurrently.
func (a *LessonDatabaseAdapter) SaveLesson(ctx context.Context, lesson *domain.Lesson) error {
	if lesson == nil {
		return domain.NewInvalidInputError("cannot save nil lesson")
	}
	if err := lesson.Validate(); err != nil {
		return err
	}
	exec := GetExecutor(ctx, a.db)

	if lesson.ID == 0 {
		id, err := nextID(ctx, exec, "lessons")
		if err != nil {
			return domain.NewStorageError("failed to assign lesson id", err)
		}
		lesson.ID = id
	}

	now := time.Now()
	if lesson.CreatedAt.IsZero() {
		lesson.CreatedAt = now
	}
	lesson.UpdatedAt = now
	m := fromDomainLesson(lesson)

	query := exec.Rebind(`INSERT INTO lessons (` + lessonColumns + `) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`)
	_, err := exec.ExecContext(ctx, query,
		m.ID, m.Title, m.Content, m.AudioURL, m.VideoURL, m.Category, m.CreatedAt, m.UpdatedAt,
	)
	if err != nil {
		return domain.NewStorageError("failed to save lesson", err).WithContext("lesson_id", lesson.ID)
	}
	return nil
}

// nextID returns MAX(id)+1 for table. Only used by the seeding path.
func nextID(ctx context.Context, exec DBTX, table string) (int64, error) {
	var id int64
	err := exec.GetContext(ctx, &id, `SELECT COALESCE(MAX(id), 0) + 1 FROM `+table)
	return id, err
}

func toDomainLesson(m *models.Lesson) *domain.Lesson {
	if m == nil {
		return nil
	}
	return &domain.Lesson{
		ID:        m.ID,
		Title:     m.Title,
		Content:   m.Content,
		AudioURL:  util.NullStringToString(m.AudioURL),
		VideoURL:  util.NullStringToString(m.VideoURL),
		Category:  m.Category,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
}

func toDomainLessons(rows []models.Lesson) []*domain.Lesson {
	lessons := make([]*domain.Lesson, 0, len(rows))
	for i := range rows {
		lessons = append(lessons, toDomainLesson(&rows[i]))
	}
	return lessons
}

func fromDomainLesson(l *domain.Lesson) *models.Lesson {
	if l == nil {
		return nil
	}
	return &models.Lesson{
		ID:        l.ID,
		Title:     l.Title,
		Content:   l.Content,
		AudioURL:  util.StringToNullString(l.AudioURL),
		VideoURL:  util.StringToNullString(l.VideoURL),
		Category:  l.Category,
		CreatedAt: l.CreatedAt,
		UpdatedAt: l.UpdatedAt,
	}
}
