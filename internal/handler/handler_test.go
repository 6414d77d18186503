package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"madrasa/internal/domain"
	"madrasa/internal/dto"
	"madrasa/internal/handler"
	"madrasa/internal/middleware"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const validToken = "valid-access-token"

func setupApp(catalog *MockCatalogService, grader *MockQuizService, auth *MockAuthService) *fiber.App {
	if auth == nil {
		auth = &MockAuthService{}
	}
	if auth.ValidateJWTFunc == nil {
		auth.ValidateJWTFunc = func(ctx context.Context, tokenString string) (*dto.AuthClaims, error) {
			if tokenString == validToken {
				return &dto.AuthClaims{UserID: "user123", TokenType: "access"}, nil
			}
			return nil, errors.New("invalid token")
		}
	}

	app := fiber.New(fiber.Config{ErrorHandler: middleware.ErrorHandler()})
	vm := middleware.NewValidationMiddleware()

	lessonHandler := handler.NewLessonHandler(catalog)
	quizHandler := handler.NewQuizHandler(catalog, grader)
	authHandler := handler.NewAuthHandler(auth)
	userHandler := handler.NewUserHandler(auth)

	api := app.Group("/api")
	api.Get("/lessons", vm.ValidateCategory(), lessonHandler.ListLessons)
	api.Get("/lessons/:id", vm.ValidateLessonID(), lessonHandler.GetLesson)
	api.Get("/lessons/:id/quiz", vm.ValidateLessonID(), quizHandler.GetQuiz)
	api.Post("/lessons/:id/quiz", vm.ValidateLessonID(), middleware.OptionalAuth(auth), quizHandler.SubmitQuiz)
	api.Get("/categories", lessonHandler.ListCategories)
	api.Get("/categories/:category/lessons", vm.ValidateCategory(), lessonHandler.ListByCategory)
	api.Get("/chapters", lessonHandler.ListChapters)
	api.Get("/sections/:id", vm.ValidateSectionID(), lessonHandler.GetSection)
	api.Post("/auth/register", authHandler.Register)
	api.Post("/auth/login", authHandler.Login)
	api.Post("/auth/refresh", authHandler.RefreshToken)
	api.Post("/auth/logout", middleware.Protected(auth), authHandler.Logout)
	api.Get("/users/me", middleware.Protected(auth), userHandler.GetMyProfile)
	return app
}

func doJSON(t *testing.T, app *fiber.App, method, target string, body interface{}, headers map[string]string) (*http.Response, []byte) {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, target, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	resp, err := app.Test(req)
	require.NoError(t, err)
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, raw
}

func sampleLessons() []*domain.Lesson {
	return []*domain.Lesson{
		{ID: 1, Title: "Intro to Tajweed", Content: "# Tajweed", Category: "Tajweed", AudioURL: "https://example.com/a.mp3"},
		{ID: 2, Title: "Arabic Alphabet", Content: "Letters", Category: "Arabic", VideoURL: "https://example.com/v"},
	}
}

func TestListLessons(t *testing.T) {
	catalog := &MockCatalogService{
		ListAllFunc: func(ctx context.Context) ([]*domain.Lesson, error) {
			return sampleLessons(), nil
		},
	}
	app := setupApp(catalog, &MockQuizService{}, nil)

	resp, body := doJSON(t, app, fiber.MethodGet, "/api/lessons", nil, nil)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	var got dto.LessonListResponse
	require.NoError(t, json.Unmarshal(body, &got))
	require.Len(t, got.Lessons, 2)
	assert.Equal(t, int64(1), got.Lessons[0].ID)
	assert.True(t, got.Lessons[0].HasAudio)
	assert.False(t, got.Lessons[0].HasVideo)
	assert.True(t, got.Lessons[1].HasVideo)
	assert.Empty(t, got.Category)
}

func TestListLessons_Empty(t *testing.T) {
	catalog := &MockCatalogService{
		ListAllFunc: func(ctx context.Context) ([]*domain.Lesson, error) {
			return []*domain.Lesson{}, nil
		},
	}
	app := setupApp(catalog, &MockQuizService{}, nil)

	resp, body := doJSON(t, app, fiber.MethodGet, "/api/lessons", nil, nil)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `{"lessons":[]}`, string(body))
}

func TestListLessons_ByCategoryQuery(t *testing.T) {
	var gotCategory string
	catalog := &MockCatalogService{
		ListByCategoryFunc: func(ctx context.Context, category string) ([]*domain.Lesson, error) {
			gotCategory = category
			return sampleLessons()[:1], nil
		},
	}
	app := setupApp(catalog, &MockQuizService{}, nil)

	resp, body := doJSON(t, app, fiber.MethodGet, "/api/lessons?category=Tajweed", nil, nil)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, "Tajweed", gotCategory)

	var got dto.LessonListResponse
	require.NoError(t, json.Unmarshal(body, &got))
	assert.Equal(t, "Tajweed", got.Category)
	assert.Len(t, got.Lessons, 1)
}

func TestListByCategory_Path(t *testing.T) {
	var gotCategory string
	catalog := &MockCatalogService{
		ListByCategoryFunc: func(ctx context.Context, category string) ([]*domain.Lesson, error) {
			gotCategory = category
			return []*domain.Lesson{}, nil
		},
	}
	app := setupApp(catalog, &MockQuizService{}, nil)

	resp, body := doJSON(t, app, fiber.MethodGet, "/api/categories/Islamic%20Studies/lessons", nil, nil)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, "Islamic Studies", gotCategory)
	assert.JSONEq(t, `{"category":"Islamic Studies","lessons":[]}`, string(body))
}

func TestListCategories(t *testing.T) {
	catalog := &MockCatalogService{
		ListCategoriesFunc: func(ctx context.Context) ([]string, error) {
			return []string{"Arabic", "Tajweed"}, nil
		},
	}
	app := setupApp(catalog, &MockQuizService{}, nil)

	resp, body := doJSON(t, app, fiber.MethodGet, "/api/categories", nil, nil)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `{"categories":["Arabic","Tajweed"]}`, string(body))
}

func TestListCategories_StorageError(t *testing.T) {
	catalog := &MockCatalogService{
		ListCategoriesFunc: func(ctx context.Context) ([]string, error) {
			return nil, domain.NewStorageError("failed to list categories", errors.New("database is locked"))
		},
	}
	app := setupApp(catalog, &MockQuizService{}, nil)

	resp, _ := doJSON(t, app, fiber.MethodGet, "/api/categories", nil, nil)
	assert.Equal(t, fiber.StatusServiceUnavailable, resp.StatusCode)
}

func TestGetLesson(t *testing.T) {
	created := time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)
	catalog := &MockCatalogService{
		GetLessonDetailFunc: func(ctx context.Context, id int64) (*domain.Lesson, error) {
			if id != 1 {
				return nil, domain.NewLessonNotFoundError(id)
			}
			return &domain.Lesson{ID: 1, Title: "Intro", Content: "**bold**", Category: "Tajweed", CreatedAt: created}, nil
		},
	}
	app := setupApp(catalog, &MockQuizService{}, nil)

	t.Run("found", func(t *testing.T) {
		resp, body := doJSON(t, app, fiber.MethodGet, "/api/lessons/1", nil, nil)
		assert.Equal(t, fiber.StatusOK, resp.StatusCode)

		var got dto.LessonDetailResponse
		require.NoError(t, json.Unmarshal(body, &got))
		assert.Equal(t, "Intro", got.Title)
		assert.Equal(t, "**bold**", got.Content)
		assert.Contains(t, got.ContentHTML, "<strong>bold</strong>")
		assert.True(t, created.Equal(got.CreatedAt))
	})

	t.Run("not found", func(t *testing.T) {
		resp, body := doJSON(t, app, fiber.MethodGet, "/api/lessons/9999", nil, nil)
		assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
		var got middleware.ErrorResponse
		require.NoError(t, json.Unmarshal(body, &got))
		assert.Equal(t, string(domain.CodeLessonNotFound), got.Code)
	})

	t.Run("invalid id", func(t *testing.T) {
		resp, _ := doJSON(t, app, fiber.MethodGet, "/api/lessons/abc", nil, nil)
		assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	})
}

func TestGetQuiz_OmitsCorrectOption(t *testing.T) {
	catalog := &MockCatalogService{
		GetQuizFunc: func(ctx context.Context, lessonID int64) (*domain.Quiz, error) {
			return &domain.Quiz{
				Lesson: &domain.Lesson{ID: lessonID, Title: "Intro"},
				Questions: []*domain.QuizQuestion{
					{ID: 10, LessonID: lessonID, Question: "Q1", Options: []string{"a", "b"}, CorrectOption: "b"},
				},
			}, nil
		},
	}
	app := setupApp(catalog, &MockQuizService{}, nil)

	resp, body := doJSON(t, app, fiber.MethodGet, "/api/lessons/3/quiz", nil, nil)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.NotContains(t, string(body), "correct")

	var got dto.QuizResponse
	require.NoError(t, json.Unmarshal(body, &got))
	assert.Equal(t, int64(3), got.LessonID)
	require.Len(t, got.Questions, 1)
	assert.Equal(t, []string{"a", "b"}, got.Questions[0].Options)
}

func TestSubmitQuiz_JSON(t *testing.T) {
	var gotSubmission domain.Submission
	grader := &MockQuizService{
		GradeFunc: func(ctx context.Context, lessonID int64, submission domain.Submission) (*domain.GradeResult, error) {
			gotSubmission = submission
			return &domain.GradeResult{LessonID: lessonID, Score: 2, Total: 3}, nil
		},
	}
	app := setupApp(&MockCatalogService{}, grader, nil)

	req := dto.SubmitQuizRequest{Answers: map[string]string{"1": "A", "2": "B", "3": "X"}}
	resp, body := doJSON(t, app, fiber.MethodPost, "/api/lessons/1/quiz", req, nil)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `{"lesson_id":1,"score":2,"total":3}`, string(body))
	assert.Equal(t, domain.Submission{1: "A", 2: "B", 3: "X"}, gotSubmission)
}

func TestSubmitQuiz_Form(t *testing.T) {
	var gotSubmission domain.Submission
	grader := &MockQuizService{
		GradeFunc: func(ctx context.Context, lessonID int64, submission domain.Submission) (*domain.GradeResult, error) {
			gotSubmission = submission
			return &domain.GradeResult{LessonID: lessonID, Score: 1, Total: 2}, nil
		},
	}
	app := setupApp(&MockCatalogService{}, grader, nil)

	form := url.Values{}
	form.Set("1", "Idgham")
	form.Set("2", "Ikhfa")
	req := httptest.NewRequest(fiber.MethodPost, "/api/lessons/1/quiz", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set(middleware.AuthorizationHeader, "Bearer "+validToken)

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, domain.Submission{1: "Idgham", 2: "Ikhfa"}, gotSubmission)
}

func TestSubmitQuiz_InvalidKey(t *testing.T) {
	app := setupApp(&MockCatalogService{}, &MockQuizService{}, nil)

	req := dto.SubmitQuizRequest{Answers: map[string]string{"abc": "A"}}
	resp, body := doJSON(t, app, fiber.MethodPost, "/api/lessons/1/quiz", req, nil)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	var got middleware.ValidationErrorResponse
	require.NoError(t, json.Unmarshal(body, &got))
	assert.Equal(t, string(domain.CodeValidation), got.Code)
	assert.NotEmpty(t, got.Errors)
}

func TestSubmitQuiz_UnknownLesson(t *testing.T) {
	grader := &MockQuizService{
		GradeFunc: func(ctx context.Context, lessonID int64, submission domain.Submission) (*domain.GradeResult, error) {
			return nil, domain.NewLessonNotFoundError(lessonID)
		},
	}
	app := setupApp(&MockCatalogService{}, grader, nil)

	resp, _ := doJSON(t, app, fiber.MethodPost, "/api/lessons/9999/quiz", dto.SubmitQuizRequest{}, nil)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}

func TestChaptersAndSections(t *testing.T) {
	catalog := &MockCatalogService{
		ListChaptersFunc: func(ctx context.Context) []domain.Chapter {
			return []domain.Chapter{{
				ID:   1,
				Name: "Chapter 1",
				Sections: []domain.Section{
					{ID: 101, ChapterID: 1, Name: "Section 1", Content: "body"},
				},
			}}
		},
		GetSectionFunc: func(ctx context.Context, id int64) (*domain.Section, error) {
			if id == 101 {
				return &domain.Section{ID: 101, ChapterID: 1, Name: "Section 1", Content: "body"}, nil
			}
			return nil, domain.NewSectionNotFoundError(id)
		},
	}
	app := setupApp(catalog, &MockQuizService{}, nil)

	resp, body := doJSON(t, app, fiber.MethodGet, "/api/chapters", nil, nil)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	var chapters dto.ChapterListResponse
	require.NoError(t, json.Unmarshal(body, &chapters))
	require.Len(t, chapters.Chapters, 1)
	require.Len(t, chapters.Chapters[0].Sections, 1)
	assert.Empty(t, chapters.Chapters[0].Sections[0].Content)

	resp, body = doJSON(t, app, fiber.MethodGet, "/api/sections/101", nil, nil)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	var section dto.SectionResponse
	require.NoError(t, json.Unmarshal(body, &section))
	assert.Equal(t, "body", section.Content)

	resp, _ = doJSON(t, app, fiber.MethodGet, "/api/sections/999", nil, nil)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}

func TestRegister(t *testing.T) {
	auth := &MockAuthService{
		RegisterFunc: func(ctx context.Context, name, email, password string) (*domain.User, error) {
			if email == "taken@example.com" {
				return nil, domain.NewConflictError("email is already registered")
			}
			return &domain.User{ID: "01HZX", Name: name, Email: email}, nil
		},
	}
	app := setupApp(&MockCatalogService{}, &MockQuizService{}, auth)

	tests := []struct {
		name           string
		req            dto.RegisterRequest
		expectedStatus int
	}{
		{"success", dto.RegisterRequest{Name: "Amina", Email: "amina@example.com", Password: "password123", ConfirmPassword: "password123"}, fiber.StatusCreated},
		{"password mismatch", dto.RegisterRequest{Name: "Amina", Email: "amina@example.com", Password: "password123", ConfirmPassword: "password124"}, fiber.StatusBadRequest},
		{"bad email", dto.RegisterRequest{Name: "Amina", Email: "not-an-email", Password: "password123", ConfirmPassword: "password123"}, fiber.StatusBadRequest},
		{"duplicate email", dto.RegisterRequest{Name: "Amina", Email: "taken@example.com", Password: "password123", ConfirmPassword: "password123"}, fiber.StatusConflict},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, _ := doJSON(t, app, fiber.MethodPost, "/api/auth/register", tt.req, nil)
			assert.Equal(t, tt.expectedStatus, resp.StatusCode)
		})
	}
}

func TestLogin(t *testing.T) {
	auth := &MockAuthService{
		LoginFunc: func(ctx context.Context, email, password string) (string, string, *domain.User, error) {
			if password != "password123" {
				return "", "", nil, domain.NewUnauthorizedError("invalid email or password")
			}
			return "access", "refresh", &domain.User{ID: "01HZX", Email: email}, nil
		},
	}
	app := setupApp(&MockCatalogService{}, &MockQuizService{}, auth)

	resp, body := doJSON(t, app, fiber.MethodPost, "/api/auth/login", dto.LoginRequest{Email: "amina@example.com", Password: "password123"}, nil)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	var tokens dto.TokenResponse
	require.NoError(t, json.Unmarshal(body, &tokens))
	assert.Equal(t, "access", tokens.AccessToken)
	assert.Equal(t, "refresh", tokens.RefreshToken)
	require.NotNil(t, tokens.User)
	assert.Equal(t, "01HZX", tokens.User.ID)

	resp, _ = doJSON(t, app, fiber.MethodPost, "/api/auth/login", dto.LoginRequest{Email: "amina@example.com", Password: "wrong-password"}, nil)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)

	resp, _ = doJSON(t, app, fiber.MethodPost, "/api/auth/login", dto.LoginRequest{}, nil)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestRefreshToken(t *testing.T) {
	auth := &MockAuthService{
		RefreshTokenFunc: func(ctx context.Context, refreshTokenString string) (string, string, error) {
			if refreshTokenString == "good-refresh" {
				return "new-access", "new-refresh", nil
			}
			return "", "", domain.NewUnauthorizedError("invalid or expired token")
		},
	}
	app := setupApp(&MockCatalogService{}, &MockQuizService{}, auth)

	resp, body := doJSON(t, app, fiber.MethodPost, "/api/auth/refresh", dto.RefreshTokenRequest{RefreshToken: "good-refresh"}, nil)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), "new-access")

	resp, _ = doJSON(t, app, fiber.MethodPost, "/api/auth/refresh", dto.RefreshTokenRequest{RefreshToken: "bad"}, nil)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)

	resp, _ = doJSON(t, app, fiber.MethodPost, "/api/auth/refresh", dto.RefreshTokenRequest{}, nil)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestLogout(t *testing.T) {
	var gotRefresh string
	var gotClaims *dto.AuthClaims
	auth := &MockAuthService{
		LogoutFunc: func(ctx context.Context, accessClaims *dto.AuthClaims, refreshTokenString string) error {
			gotClaims = accessClaims
			gotRefresh = refreshTokenString
			return nil
		},
	}
	app := setupApp(&MockCatalogService{}, &MockQuizService{}, auth)

	resp, _ := doJSON(t, app, fiber.MethodPost, "/api/auth/logout", dto.RefreshTokenRequest{RefreshToken: "r"},
		map[string]string{middleware.AuthorizationHeader: "Bearer " + validToken})
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	require.NotNil(t, gotClaims)
	assert.Equal(t, "user123", gotClaims.UserID)
	assert.Equal(t, "r", gotRefresh)

	resp, _ = doJSON(t, app, fiber.MethodPost, "/api/auth/logout", nil, nil)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestGetMyProfile(t *testing.T) {
	auth := &MockAuthService{
		GetProfileFunc: func(ctx context.Context, userID string) (*domain.User, error) {
			return &domain.User{ID: userID, Name: "Amina", Email: "amina@example.com"}, nil
		},
	}
	app := setupApp(&MockCatalogService{}, &MockQuizService{}, auth)

	resp, body := doJSON(t, app, fiber.MethodGet, "/api/users/me", nil,
		map[string]string{middleware.AuthorizationHeader: "Bearer " + validToken})
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	var profile dto.UserProfileResponse
	require.NoError(t, json.Unmarshal(body, &profile))
	assert.Equal(t, "user123", profile.ID)
	assert.NotContains(t, string(body), "password")

	resp, _ = doJSON(t, app, fiber.MethodGet, "/api/users/me", nil, nil)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestHealthCheck(t *testing.T) {
	tests := []struct {
		name           string
		db             *MockPinger
		cache          domain.Cache
		expectedStatus int
		expected       dto.HealthResponse
	}{
		{"all up", &MockPinger{}, &MockCache{}, fiber.StatusOK, dto.HealthResponse{Status: "ok", Database: "up", Cache: "up"}},
		{"cache disabled", &MockPinger{}, nil, fiber.StatusOK, dto.HealthResponse{Status: "ok", Database: "up", Cache: "disabled"}},
		{"cache down", &MockPinger{}, &MockCache{PingFunc: func(ctx context.Context) error { return errors.New("refused") }}, fiber.StatusOK, dto.HealthResponse{Status: "ok", Database: "up", Cache: "down"}},
		{"db down", &MockPinger{Err: errors.New("closed")}, nil, fiber.StatusServiceUnavailable, dto.HealthResponse{Status: "degraded", Database: "down", Cache: "disabled"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app := fiber.New()
			app.Get("/health", handler.NewHealthHandler(tt.db, tt.cache).Check)

			resp, body := doJSON(t, app, fiber.MethodGet, "/health", nil, nil)
			assert.Equal(t, tt.expectedStatus, resp.StatusCode)
			var got dto.HealthResponse
			require.NoError(t, json.Unmarshal(body, &got))
			assert.Equal(t, tt.expected, got)
		})
	}
}
