package service

import (
	"context"

	"madrasa/internal/domain"
	"madrasa/internal/logger"

	"go.uber.org/zap"
)

// QuizService defines the interface for quiz grading
type QuizService interface {
	Grade(ctx context.Context, lessonID int64, submission domain.Submission) (*domain.GradeResult, error)
}

// quizService implements QuizService
type quizService struct {
	store domain.ContentStore
}

// NewQuizService creates a new instance of quizService
func NewQuizService(store domain.ContentStore) QuizService {
	return &quizService{store: store}
}

// Grade scores a submission against the stored questions of a lesson.
// Missing or unknown answers count as wrong; the result is not stored.
func (s *quizService) Grade(ctx context.Context, lessonID int64, submission domain.Submission) (*domain.GradeResult, error) {
	if err := validateLessonID(lessonID); err != nil {
		return nil, err
	}

	_, questions, err := loadLessonWithQuestions(ctx, s.store, lessonID)
	if err != nil {
		return nil, err
	}

	score, total := domain.Grade(questions, submission)

	logger.Get().Info("Quiz graded",
		zap.Int64("lesson_id", lessonID),
		zap.Int("answered", len(submission)),
		zap.Int("score", score),
		zap.Int("total", total),
	)
	return &domain.GradeResult{LessonID: lessonID, Score: score, Total: total}, nil
}
