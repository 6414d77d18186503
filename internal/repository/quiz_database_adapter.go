package repository

import (
	"context"

	"madrasa/internal/domain"
	"madrasa/internal/repository/models"

	"github.com/jmoiron/sqlx"
)

const quizColumns = `id, lesson_id, question, options, correct_option`

// QuizDatabaseAdapter implements domain.QuizRepository using sqlx
type QuizDatabaseAdapter struct {
	db *sqlx.DB
}

// NewQuizDatabaseAdapter creates a new instance of QuizDatabaseAdapter
func NewQuizDatabaseAdapter(db *sqlx.DB) *QuizDatabaseAdapter {
	return &QuizDatabaseAdapter{db: db}
}

// ListQuestions implements domain.QuizRepository.
// An unknown lesson yields an empty list, not an error.
func (a *QuizDatabaseAdapter) ListQuestions(ctx context.Context, lessonID int64) ([]*domain.QuizQuestion, error) {
	exec := GetExecutor(ctx, a.db)

	var rows []models.QuizQuestion
	query := exec.Rebind(`SELECT ` + quizColumns + ` FROM quizzes WHERE lesson_id = ? ORDER BY id`)
	if err := exec.SelectContext(ctx, &rows, query, lessonID); err != nil {
		return nil, domain.NewStorageError("failed to list quiz questions", err).WithContext("lesson_id", lessonID)
	}

	questions := make([]*domain.QuizQuestion, 0, len(rows))
	for i := range rows {
		questions = append(questions, toDomainQuizQuestion(&rows[i]))
	}
	return questions, nil
}

// SaveQuestion implements domain.QuizRepository
func (a *QuizDatabaseAdapter) SaveQuestion(ctx context.Context, q *domain.QuizQuestion) error {
	if q == nil {
		return domain.NewInvalidInputError("cannot save nil quiz question")
	}
	if err := q.Validate(); err != nil {
		return err
	}
	exec := GetExecutor(ctx, a.db)

	if q.ID == 0 {
		id, err := nextID(ctx, exec, "quizzes")
		if err != nil {
			return domain.NewStorageError("failed to assign quiz question id", err)
		}
		q.ID = id
	}

	m := fromDomainQuizQuestion(q)
	query := exec.Rebind(`INSERT INTO quizzes (` + quizColumns + `) VALUES (?, ?, ?, ?, ?)`)
	if _, err := exec.ExecContext(ctx, query, m.ID, m.LessonID, m.Question, m.Options, m.CorrectOption); err != nil {
		return domain.NewStorageError("failed to save quiz question", err).
			WithContext("lesson_id", q.LessonID)
	}
	return nil
}

func toDomainQuizQuestion(m *models.QuizQuestion) *domain.QuizQuestion {
	if m == nil {
		return nil
	}
	options := make([]string, len(m.Options))
	copy(options, m.Options)
	return &domain.QuizQuestion{
		ID:            m.ID,
		LessonID:      m.LessonID,
		Question:      m.Question,
		Options:       options,
		CorrectOption: m.CorrectOption,
	}
}

func fromDomainQuizQuestion(q *domain.QuizQuestion) *models.QuizQuestion {
	if q == nil {
		return nil
	}
	return &models.QuizQuestion{
		ID:            q.ID,
		LessonID:      q.LessonID,
		Question:      q.Question,
		Options:       models.StringSlice(q.Options),
		CorrectOption: q.CorrectOption,
	}
}
