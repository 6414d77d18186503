package service

import (
	"context"
	"strings"

	"madrasa/internal/domain"
	"madrasa/internal/logger"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// CatalogService defines read access to lessons, quizzes and chapters
type CatalogService interface {
	ListAll(ctx context.Context) ([]*domain.Lesson, error)
	ListByCategory(ctx context.Context, category string) ([]*domain.Lesson, error)
	GetLessonDetail(ctx context.Context, id int64) (*domain.Lesson, error)
	ListCategories(ctx context.Context) ([]string, error)
	GetQuiz(ctx context.Context, lessonID int64) (*domain.Quiz, error)
	ListChapters(ctx context.Context) []domain.Chapter
	GetSection(ctx context.Context, id int64) (*domain.Section, error)
}

// catalogService implements CatalogService
type catalogService struct {
	store    domain.ContentStore
	chapters domain.ChapterRepository
}

// NewCatalogService creates a new instance of catalogService
func NewCatalogService(store domain.ContentStore, chapters domain.ChapterRepository) CatalogService {
	return &catalogService{store: store, chapters: chapters}
}

// ListAll implements CatalogService
func (s *catalogService) ListAll(ctx context.Context) ([]*domain.Lesson, error) {
	return s.store.ListLessons(ctx)
}

// ListByCategory implements CatalogService
func (s *catalogService) ListByCategory(ctx context.Context, category string) ([]*domain.Lesson, error) {
	if strings.TrimSpace(category) == "" {
		return nil, domain.ValidationErrors{domain.NewMissingFieldError("category")}
	}
	return s.store.ListLessonsByCategory(ctx, category)
}

// GetLessonDetail implements CatalogService
func (s *catalogService) GetLessonDetail(ctx context.Context, id int64) (*domain.Lesson, error) {
	if err := validateLessonID(id); err != nil {
		return nil, err
	}
	return s.store.GetLesson(ctx, id)
}

// ListCategories implements CatalogService
func (s *catalogService) ListCategories(ctx context.Context) ([]string, error) {
	return s.store.ListCategories(ctx)
}

// GetQuiz loads a lesson and its questions concurrently.
// An unknown lesson is NotFound even though ListQuestions alone would return nothing.
func (s *catalogService) GetQuiz(ctx context.Context, lessonID int64) (*domain.Quiz, error) {
	if err := validateLessonID(lessonID); err != nil {
		return nil, err
	}

	lesson, questions, err := loadLessonWithQuestions(ctx, s.store, lessonID)
	if err != nil {
		return nil, err
	}

	logger.Get().Debug("Quiz loaded",
		zap.Int64("lesson_id", lessonID),
		zap.Int("questions", len(questions)),
	)
	return &domain.Quiz{Lesson: lesson, Questions: questions}, nil
}

// ListChapters implements CatalogService
func (s *catalogService) ListChapters(ctx context.Context) []domain.Chapter {
	return s.chapters.ListChapters()
}

// GetSection implements CatalogService
func (s *catalogService) GetSection(ctx context.Context, id int64) (*domain.Section, error) {
	if id < 1 {
		return nil, domain.ValidationErrors{domain.NewInvalidFormatError("section_id", id)}
	}
	return s.chapters.GetSection(id)
}

func validateLessonID(id int64) error {
	if id < 1 {
		return domain.ValidationErrors{domain.NewInvalidFormatError("lesson_id", id)}
	}
	return nil
}

// loadLessonWithQuestions fetches both halves of a quiz in parallel. The first
// failure cancels the other lookup.
func loadLessonWithQuestions(ctx context.Context, store domain.ContentStore, lessonID int64) (*domain.Lesson, []*domain.QuizQuestion, error) {
	var (
		lesson    *domain.Lesson
		questions []*domain.QuizQuestion
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		lesson, err = store.GetLesson(gctx, lessonID)
		return err
	})
	g.Go(func() error {
		var err error
		questions, err = store.ListQuestions(gctx, lessonID)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}
	return lesson, questions, nil
}
