package seeder

import (
	"context"
	"fmt"
	"os"

	"madrasa/cmd/seed/internal/seedmodels"
	"madrasa/internal/domain"
	"madrasa/internal/logger"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

// Stats counts what a seeding run wrote.
type Stats struct {
	LessonsCreated   int
	LessonsSkipped   int
	QuestionsCreated int
}

// LoadFile reads and parses a YAML seed file.
func LoadFile(path string) (*seedmodels.SeedFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read seed file %s: %w", path, err)
	}
	return Parse(data)
}

// Parse decodes seed data.
func Parse(data []byte) (*seedmodels.SeedFile, error) {
	var file seedmodels.SeedFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to unmarshal seed data: %w", err)
	}
	return &file, nil
}

// Seeder writes seed lessons and their questions, one transaction per lesson.
type Seeder struct {
	store domain.ContentStore
	txm   domain.TransactionManager
}

func New(store domain.ContentStore, txm domain.TransactionManager) *Seeder {
	return &Seeder{store: store, txm: txm}
}

// Run seeds every lesson of file. A lesson whose title already exists in its
// category is skipped, so running twice does not duplicate content.
func (s *Seeder) Run(ctx context.Context, file *seedmodels.SeedFile) (Stats, error) {
	log := logger.Get()
	var stats Stats

	for _, sl := range file.Lessons {
		exists, err := s.lessonExists(ctx, sl.Category, sl.Title)
		if err != nil {
			return stats, fmt.Errorf("error checking lesson %q: %w", sl.Title, err)
		}
		if exists {
			log.Info("Lesson exists, skipping.", zap.String("title", sl.Title), zap.String("category", sl.Category))
			stats.LessonsSkipped++
			continue
		}

		var created int
		err = s.txm.WithTransaction(ctx, func(txCtx context.Context) error {
			var errTx error
			created, errTx = s.seedLesson(txCtx, sl)
			return errTx
		})
		if err != nil {
			log.Error("Error seeding lesson, transaction rolled back", zap.String("title", sl.Title), zap.Error(err))
			return stats, err
		}
		stats.LessonsCreated++
		stats.QuestionsCreated += created
	}
	return stats, nil
}

func (s *Seeder) lessonExists(ctx context.Context, category, title string) (bool, error) {
	if category == "" {
		return false, nil
	}
	lessons, err := s.store.ListLessonsByCategory(ctx, category)
	if err != nil {
		return false, err
	}
	for _, l := range lessons {
		if l.Title == title {
			return true, nil
		}
	}
	return false, nil
}

func (s *Seeder) seedLesson(ctx context.Context, sl seedmodels.SeedLesson) (int, error) {
	lesson := domain.NewLesson(sl.Title, sl.Content, sl.Category)
	lesson.AudioURL = sl.AudioURL
	lesson.VideoURL = sl.VideoURL
	if err := s.store.SaveLesson(ctx, lesson); err != nil {
		return 0, fmt.Errorf("failed to save lesson %q: %w", sl.Title, err)
	}
	logger.Get().Info("Created lesson.", zap.Int64("id", lesson.ID), zap.String("title", lesson.Title))

	for _, sq := range sl.Quizzes {
		q := domain.NewQuizQuestion(lesson.ID, sq.Question, sq.Options, sq.CorrectOption)
		if err := s.store.SaveQuestion(ctx, q); err != nil {
			return 0, fmt.Errorf("failed to save question %q: %w", sq.Question, err)
		}
	}
	return len(sl.Quizzes), nil
}
