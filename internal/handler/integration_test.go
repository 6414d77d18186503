package handler_test

import (
	"context"
	"encoding/json"
	"strconv"
	"testing"
	"time"

	"madrasa/internal/config"
	"madrasa/internal/database"
	"madrasa/internal/domain"
	"madrasa/internal/dto"
	"madrasa/internal/handler"
	"madrasa/internal/middleware"
	"madrasa/internal/repository"
	"madrasa/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setupIntegrationApp wires the real stack over an in-memory sqlite database.
func setupIntegrationApp(t *testing.T) (*fiber.App, map[string]int64) {
	t.Helper()

	db, err := database.NewSQLXDB(config.DriverSQLite, ":memory:", 1)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	require.NoError(t, database.RunMigrations(db.DB, config.DriverSQLite, database.Up))

	store := repository.NewContentStore(db)
	txm := repository.NewTransactionManagerAdapter(db)
	ctx := context.Background()

	ids := map[string]int64{}
	require.NoError(t, txm.WithTransaction(ctx, func(txCtx context.Context) error {
		lesson := domain.NewLesson("Noon Saakinah", "A **noon** without a vowel.", "Tajweed")
		if err := store.SaveLesson(txCtx, lesson); err != nil {
			return err
		}
		ids["lesson"] = lesson.ID
		questions := []*domain.QuizQuestion{
			domain.NewQuizQuestion(lesson.ID, "Q1", []string{"A", "B"}, "A"),
			domain.NewQuizQuestion(lesson.ID, "Q2", []string{"A", "B"}, "B"),
			domain.NewQuizQuestion(lesson.ID, "Q3", []string{"A", "B", "C"}, "C"),
		}
		for _, q := range questions {
			if err := store.SaveQuestion(txCtx, q); err != nil {
				return err
			}
			ids[q.Question] = q.ID
		}
		return nil
	}))
	require.NoError(t, store.SaveLesson(ctx, domain.NewLesson("Alphabet", "28 letters", "Arabic")))
	meem := domain.NewLesson("Meem Saakinah", "A **meem** without a vowel.", "Tajweed")
	require.NoError(t, store.SaveLesson(ctx, meem))
	ids["meem"] = meem.ID

	chapters, err := repository.ParseChapters([]byte(`
chapters:
  - id: 1
    name: "Chapter 1"
    sections:
      - id: 101
        name: "Section 1"
        content: "First section"
`))
	require.NoError(t, err)

	authService, err := service.NewAuthService(repository.NewSQLXUserRepository(db), nil, config.JWTConfig{
		SecretKey:       "integration-test-secret-key-0123456789",
		AccessTokenTTL:  15 * time.Minute,
		RefreshTokenTTL: time.Hour,
	})
	require.NoError(t, err)

	catalog := service.NewCatalogService(store, chapters)
	lessonHandler := handler.NewLessonHandler(catalog)
	quizHandler := handler.NewQuizHandler(catalog, service.NewQuizService(store))
	authHandler := handler.NewAuthHandler(authService)
	userHandler := handler.NewUserHandler(authService)
	vm := middleware.NewValidationMiddleware()

	app := fiber.New(fiber.Config{ErrorHandler: middleware.ErrorHandler()})
	app.Get("/health", handler.NewHealthHandler(db, nil).Check)
	api := app.Group("/api")
	api.Get("/lessons", vm.ValidateCategory(), lessonHandler.ListLessons)
	api.Get("/lessons/:id", vm.ValidateLessonID(), lessonHandler.GetLesson)
	api.Get("/lessons/:id/quiz", vm.ValidateLessonID(), quizHandler.GetQuiz)
	api.Post("/lessons/:id/quiz", vm.ValidateLessonID(), middleware.OptionalAuth(authService), quizHandler.SubmitQuiz)
	api.Get("/categories", lessonHandler.ListCategories)
	api.Get("/sections/:id", vm.ValidateSectionID(), lessonHandler.GetSection)
	api.Post("/auth/register", authHandler.Register)
	api.Post("/auth/login", authHandler.Login)
	api.Get("/users/me", middleware.Protected(authService), userHandler.GetMyProfile)

	return app, ids
}

func TestIntegration_CatalogAndGrading(t *testing.T) {
	app, ids := setupIntegrationApp(t)

	resp, body := doJSON(t, app, fiber.MethodGet, "/health", nil, nil)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	resp, body = doJSON(t, app, fiber.MethodGet, "/api/categories", nil, nil)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `{"categories":["Arabic","Tajweed"]}`, string(body))

	resp, body = doJSON(t, app, fiber.MethodGet, "/api/lessons?category=Tajweed", nil, nil)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	var list dto.LessonListResponse
	require.NoError(t, json.Unmarshal(body, &list))
	require.Len(t, list.Lessons, 2)
	seen := map[int64]int{}
	for _, l := range list.Lessons {
		assert.Equal(t, "Tajweed", l.Category)
		seen[l.ID]++
	}
	assert.Equal(t, map[int64]int{ids["lesson"]: 1, ids["meem"]: 1}, seen)

	resp, body = doJSON(t, app, fiber.MethodGet, "/api/lessons?category=Arabic", nil, nil)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	list = dto.LessonListResponse{}
	require.NoError(t, json.Unmarshal(body, &list))
	require.Len(t, list.Lessons, 1)
	assert.Equal(t, "Alphabet", list.Lessons[0].Title)

	resp, body = doJSON(t, app, fiber.MethodGet, "/api/lessons/1", nil, nil)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	var detail dto.LessonDetailResponse
	require.NoError(t, json.Unmarshal(body, &detail))
	assert.Contains(t, detail.ContentHTML, "<strong>noon</strong>")

	resp, body = doJSON(t, app, fiber.MethodGet, "/api/lessons/1/quiz", nil, nil)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	var quiz dto.QuizResponse
	require.NoError(t, json.Unmarshal(body, &quiz))
	require.Len(t, quiz.Questions, 3)
	assert.Equal(t, []string{"A", "B", "C"}, quiz.Questions[2].Options)

	answers := dto.SubmitQuizRequest{Answers: map[string]string{
		jsonKey(ids["Q1"]): "A",
		jsonKey(ids["Q2"]): "B",
		jsonKey(ids["Q3"]): "X",
	}}
	resp, body = doJSON(t, app, fiber.MethodPost, "/api/lessons/1/quiz", answers, nil)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `{"lesson_id":1,"score":2,"total":3}`, string(body))

	// a lesson without questions scores 0/0
	resp, body = doJSON(t, app, fiber.MethodPost, "/api/lessons/2/quiz", dto.SubmitQuizRequest{}, nil)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `{"lesson_id":2,"score":0,"total":0}`, string(body))

	resp, _ = doJSON(t, app, fiber.MethodGet, "/api/lessons/9999", nil, nil)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)

	resp, _ = doJSON(t, app, fiber.MethodPost, "/api/lessons/9999/quiz", dto.SubmitQuizRequest{}, nil)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)

	resp, body = doJSON(t, app, fiber.MethodGet, "/api/sections/101", nil, nil)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), "First section")
}

func TestIntegration_AccountFlow(t *testing.T) {
	app, _ := setupIntegrationApp(t)

	register := dto.RegisterRequest{Name: "Amina", Email: "Amina@Example.com", Password: "password123", ConfirmPassword: "password123"}
	resp, body := doJSON(t, app, fiber.MethodPost, "/api/auth/register", register, nil)
	require.Equal(t, fiber.StatusCreated, resp.StatusCode, string(body))
	var profile dto.UserProfileResponse
	require.NoError(t, json.Unmarshal(body, &profile))
	assert.Equal(t, "amina@example.com", profile.Email)

	resp, _ = doJSON(t, app, fiber.MethodPost, "/api/auth/register", register, nil)
	assert.Equal(t, fiber.StatusConflict, resp.StatusCode)

	resp, _ = doJSON(t, app, fiber.MethodPost, "/api/auth/login", dto.LoginRequest{Email: "amina@example.com", Password: "wrong-password"}, nil)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)

	resp, body = doJSON(t, app, fiber.MethodPost, "/api/auth/login", dto.LoginRequest{Email: "amina@example.com", Password: "password123"}, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	var tokens dto.TokenResponse
	require.NoError(t, json.Unmarshal(body, &tokens))
	require.NotEmpty(t, tokens.AccessToken)

	resp, body = doJSON(t, app, fiber.MethodGet, "/api/users/me", nil,
		map[string]string{middleware.AuthorizationHeader: "Bearer " + tokens.AccessToken})
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	var me dto.UserProfileResponse
	require.NoError(t, json.Unmarshal(body, &me))
	assert.Equal(t, profile.ID, me.ID)
	assert.Equal(t, "Amina", me.Name)

	// refresh tokens are rejected where an access token is required
	resp, _ = doJSON(t, app, fiber.MethodGet, "/api/users/me", nil,
		map[string]string{middleware.AuthorizationHeader: "Bearer " + tokens.RefreshToken})
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)
}

func jsonKey(id int64) string {
	return strconv.FormatInt(id, 10)
}
