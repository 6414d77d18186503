package handler

import (
	"madrasa/internal/dto"
	"madrasa/internal/logger"
	"madrasa/internal/middleware"
	"madrasa/internal/service"
	"madrasa/internal/validation"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// QuizHandler handles quiz-related HTTP requests
type QuizHandler struct {
	catalog   service.CatalogService
	grader    service.QuizService
	validator *validation.Validator
}

// NewQuizHandler creates a new QuizHandler instance
func NewQuizHandler(catalog service.CatalogService, grader service.QuizService) *QuizHandler {
	return &QuizHandler{
		catalog:   catalog,
		grader:    grader,
		validator: validation.NewValidator(),
	}
}

// GetQuiz godoc
// @Summary Get the quiz of a lesson
// @Description Returns the questions and options of a lesson. Correct options are never included.
// @Tags quiz
// @Produce json
// @Param id path int true "Lesson ID"
// @Success 200 {object} dto.QuizResponse
// @Failure 400 {object} middleware.ValidationErrorResponse
// @Failure 404 {object} middleware.ErrorResponse
// @Failure 503 {object} middleware.ErrorResponse
// @Router /lessons/{id}/quiz [get]
func (h *QuizHandler) GetQuiz(c *fiber.Ctx) error {
	lessonID, _ := c.Locals(middleware.ValidatedLessonIDKey).(int64)

	quiz, err := h.catalog.GetQuiz(c.UserContext(), lessonID)
	if err != nil {
		return err
	}

	resp := dto.QuizResponse{
		LessonID:    quiz.Lesson.ID,
		LessonTitle: quiz.Lesson.Title,
		Questions:   make([]dto.QuizQuestionResponse, 0, len(quiz.Questions)),
	}
	for _, q := range quiz.Questions {
		options := make([]string, len(q.Options))
		copy(options, q.Options)
		resp.Questions = append(resp.Questions, dto.QuizQuestionResponse{
			ID:       q.ID,
			Question: q.Question,
			Options:  options,
		})
	}
	return c.JSON(resp)
}

// SubmitQuiz godoc
// @Summary Grade a quiz submission
// @Description Scores the submitted answers. Accepts {"answers":{"<question id>":"<option>"}} as JSON
// @Description or one form field per question id. Unanswered questions count as wrong.
// @Tags quiz
// @Accept json
// @Accept x-www-form-urlencoded
// @Produce json
// @Param id path int true "Lesson ID"
// @Param request body dto.SubmitQuizRequest true "Answers keyed by question id"
// @Success 200 {object} dto.GradeResponse
// @Failure 400 {object} middleware.ValidationErrorResponse
// @Failure 404 {object} middleware.ErrorResponse
// @Failure 503 {object} middleware.ErrorResponse
// @Router /lessons/{id}/quiz [post]
func (h *QuizHandler) SubmitQuiz(c *fiber.Ctx) error {
	lessonID, _ := c.Locals(middleware.ValidatedLessonIDKey).(int64)

	answers, err := submittedAnswers(c)
	if err != nil {
		return err
	}

	submission, errs := h.validator.ValidateSubmission(answers)
	if len(errs) > 0 {
		return errs
	}

	result, err := h.grader.Grade(c.UserContext(), lessonID, submission)
	if err != nil {
		return err
	}

	if userID := middleware.UserIDFromContext(c); userID != "" {
		logger.Get().Info("Quiz submitted by user",
			zap.String("userID", userID),
			zap.Int64("lesson_id", lessonID),
			zap.Int("score", result.Score),
			zap.Int("total", result.Total),
		)
	}

	return c.JSON(dto.GradeResponse{
		LessonID: result.LessonID,
		Score:    result.Score,
		Total:    result.Total,
	})
}

// submittedAnswers reads answers from a JSON body or from urlencoded form fields
func submittedAnswers(c *fiber.Ctx) (map[string]string, error) {
	if c.Is("json") {
		var req dto.SubmitQuizRequest
		if err := c.BodyParser(&req); err != nil {
			return nil, fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}
		if req.Answers == nil {
			return map[string]string{}, nil
		}
		return req.Answers, nil
	}

	answers := make(map[string]string)
	c.Request().PostArgs().VisitAll(func(key, value []byte) {
		answers[string(key)] = string(value)
	})
	return answers, nil
}
