package repository

import (
	"fmt"
	"os"

	"madrasa/internal/domain"
	"madrasa/internal/logger"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

type chapterFile struct {
	Chapters []struct {
		ID       int64  `yaml:"id"`
		Name     string `yaml:"name"`
		Sections []struct {
			ID      int64  `yaml:"id"`
			Name    string `yaml:"name"`
			Content string `yaml:"content"`
		} `yaml:"sections"`
	} `yaml:"chapters"`
}

// ChapterStore is a read-only chapter tree loaded from YAML.
// It is never written after construction, so reads need no locking.
type ChapterStore struct {
	chapters []domain.Chapter
	sections map[int64]domain.Section
}

// NewChapterStore loads chapters from a YAML file.
func NewChapterStore(path string) (*ChapterStore, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading chapters file: %w", err)
	}

	s, err := ParseChapters(data)
	if err != nil {
		return nil, fmt.Errorf("loading chapters from %s: %w", path, err)
	}

	logger.Get().Info("chapters loaded",
		zap.String("path", path),
		zap.Int("chapters", len(s.chapters)),
		zap.Int("sections", len(s.sections)),
	)
	return s, nil
}

// ParseChapters builds a ChapterStore from YAML bytes. Section IDs must be unique
// across all chapters.
func ParseChapters(data []byte) (*ChapterStore, error) {
	var f chapterFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parsing chapters YAML: %w", err)
	}

	s := &ChapterStore{
		chapters: make([]domain.Chapter, 0, len(f.Chapters)),
		sections: make(map[int64]domain.Section),
	}
	for _, c := range f.Chapters {
		chapter := domain.Chapter{ID: c.ID, Name: c.Name, Sections: make([]domain.Section, 0, len(c.Sections))}
		for _, sec := range c.Sections {
			if _, dup := s.sections[sec.ID]; dup {
				return nil, fmt.Errorf("duplicate section id %d", sec.ID)
			}
			section := domain.Section{ID: sec.ID, ChapterID: c.ID, Name: sec.Name, Content: sec.Content}
			chapter.Sections = append(chapter.Sections, section)
			s.sections[sec.ID] = section
		}
		s.chapters = append(s.chapters, chapter)
	}
	return s, nil
}

// ListChapters returns a copy of the chapters in file order.
func (s *ChapterStore) ListChapters() []domain.Chapter {
	out := make([]domain.Chapter, len(s.chapters))
	for i, c := range s.chapters {
		out[i] = c
		out[i].Sections = append([]domain.Section(nil), c.Sections...)
	}
	return out
}

// GetSection returns a section by ID or a SECTION_NOT_FOUND error.
func (s *ChapterStore) GetSection(id int64) (*domain.Section, error) {
	sec, ok := s.sections[id]
	if !ok {
		return nil, domain.NewSectionNotFoundError(id)
	}
	return &sec, nil
}
