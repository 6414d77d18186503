package handler

import (
	"madrasa/internal/domain"
	"madrasa/internal/dto"
	"madrasa/internal/logger"
	"madrasa/internal/middleware"
	"madrasa/internal/service"
	"madrasa/internal/util"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// LessonHandler handles lesson, category and chapter HTTP requests
type LessonHandler struct {
	catalog service.CatalogService
}

// NewLessonHandler creates a new LessonHandler instance
func NewLessonHandler(catalog service.CatalogService) *LessonHandler {
	return &LessonHandler{
		catalog: catalog,
	}
}

// ListLessons godoc
// @Summary List lessons
// @Description Returns every lesson, or only the lessons of one category when ?category= is given
// @Tags lessons
// @Produce json
// @Param category query string false "Category"
// @Success 200 {object} dto.LessonListResponse
// @Failure 400 {object} middleware.ValidationErrorResponse
// @Failure 503 {object} middleware.ErrorResponse
// @Router /lessons [get]
func (h *LessonHandler) ListLessons(c *fiber.Ctx) error {
	category, _ := c.Locals(middleware.ValidatedCategoryKey).(string)

	var (
		lessons []*domain.Lesson
		err     error
	)
	if category != "" {
		lessons, err = h.catalog.ListByCategory(c.UserContext(), category)
	} else {
		lessons, err = h.catalog.ListAll(c.UserContext())
	}
	if err != nil {
		return err
	}

	return c.JSON(toLessonListResponse(category, lessons))
}

// ListByCategory godoc
// @Summary List lessons of a category
// @Description Returns the lessons whose category matches exactly. An unknown category yields an empty list.
// @Tags lessons
// @Produce json
// @Param category path string true "Category"
// @Success 200 {object} dto.LessonListResponse
// @Failure 400 {object} middleware.ValidationErrorResponse
// @Failure 503 {object} middleware.ErrorResponse
// @Router /categories/{category}/lessons [get]
func (h *LessonHandler) ListByCategory(c *fiber.Ctx) error {
	category, _ := c.Locals(middleware.ValidatedCategoryKey).(string)

	lessons, err := h.catalog.ListByCategory(c.UserContext(), category)
	if err != nil {
		return err
	}
	return c.JSON(toLessonListResponse(category, lessons))
}

// ListCategories godoc
// @Summary List categories
// @Description Returns the distinct lesson categories in alphabetical order
// @Tags lessons
// @Produce json
// @Success 200 {object} dto.CategoryListResponse
// @Failure 503 {object} middleware.ErrorResponse
// @Router /categories [get]
func (h *LessonHandler) ListCategories(c *fiber.Ctx) error {
	categories, err := h.catalog.ListCategories(c.UserContext())
	if err != nil {
		return err
	}
	if categories == nil {
		categories = []string{}
	}
	return c.JSON(dto.CategoryListResponse{Categories: categories})
}

// GetLesson godoc
// @Summary Get a lesson
// @Description Returns a lesson with its markdown content and the rendered HTML
// @Tags lessons
// @Produce json
// @Param id path int true "Lesson ID"
// @Success 200 {object} dto.LessonDetailResponse
// @Failure 400 {object} middleware.ValidationErrorResponse
// @Failure 404 {object} middleware.ErrorResponse
// @Failure 503 {object} middleware.ErrorResponse
// @Router /lessons/{id} [get]
func (h *LessonHandler) GetLesson(c *fiber.Ctx) error {
	id, _ := c.Locals(middleware.ValidatedLessonIDKey).(int64)

	lesson, err := h.catalog.GetLessonDetail(c.UserContext(), id)
	if err != nil {
		return err
	}

	html, err := util.RenderMarkdown(lesson.Content)
	if err != nil {
		// the raw markdown is still returned
		logger.Get().Warn("Failed to render lesson content",
			zap.Int64("lesson_id", lesson.ID),
			zap.Error(err),
		)
	}

	return c.JSON(dto.LessonDetailResponse{
		ID:          lesson.ID,
		Title:       lesson.Title,
		Content:     lesson.Content,
		ContentHTML: html,
		AudioURL:    lesson.AudioURL,
		VideoURL:    lesson.VideoURL,
		Category:    lesson.Category,
		CreatedAt:   lesson.CreatedAt,
	})
}

// ListChapters godoc
// @Summary List chapters
// @Description Returns the chapter tree with section titles
// @Tags chapters
// @Produce json
// @Success 200 {object} dto.ChapterListResponse
// @Router /chapters [get]
func (h *LessonHandler) ListChapters(c *fiber.Ctx) error {
	chapters := h.catalog.ListChapters(c.UserContext())

	resp := dto.ChapterListResponse{Chapters: make([]dto.ChapterResponse, 0, len(chapters))}
	for _, ch := range chapters {
		chapter := dto.ChapterResponse{
			ID:       ch.ID,
			Name:     ch.Name,
			Sections: make([]dto.SectionResponse, 0, len(ch.Sections)),
		}
		for _, s := range ch.Sections {
			chapter.Sections = append(chapter.Sections, dto.SectionResponse{
				ID:        s.ID,
				ChapterID: s.ChapterID,
				Name:      s.Name,
			})
		}
		resp.Chapters = append(resp.Chapters, chapter)
	}
	return c.JSON(resp)
}

// GetSection godoc
// @Summary Get a section
// @Description Returns a single chapter section with its content
// @Tags chapters
// @Produce json
// @Param id path int true "Section ID"
// @Success 200 {object} dto.SectionResponse
// @Failure 400 {object} middleware.ValidationErrorResponse
// @Failure 404 {object} middleware.ErrorResponse
// @Router /sections/{id} [get]
func (h *LessonHandler) GetSection(c *fiber.Ctx) error {
	id, _ := c.Locals(middleware.ValidatedSectionIDKey).(int64)

	section, err := h.catalog.GetSection(c.UserContext(), id)
	if err != nil {
		return err
	}
	return c.JSON(dto.SectionResponse{
		ID:        section.ID,
		ChapterID: section.ChapterID,
		Name:      section.Name,
		Content:   section.Content,
	})
}

func toLessonListResponse(category string, lessons []*domain.Lesson) dto.LessonListResponse {
	resp := dto.LessonListResponse{
		Category: category,
		Lessons:  make([]dto.LessonSummary, 0, len(lessons)),
	}
	for _, l := range lessons {
		resp.Lessons = append(resp.Lessons, dto.LessonSummary{
			ID:       l.ID,
			Title:    l.Title,
			Category: l.Category,
			HasAudio: l.HasAudio(),
			HasVideo: l.HasVideo(),
		})
	}
	return resp
}
