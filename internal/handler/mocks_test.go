package handler_test

import (
	"context"
	"time"

	"madrasa/internal/domain"
	"madrasa/internal/dto"
)

// --- Manual Mocks ---

// MockCatalogService
type MockCatalogService struct {
	ListAllFunc         func(ctx context.Context) ([]*domain.Lesson, error)
	ListByCategoryFunc  func(ctx context.Context, category string) ([]*domain.Lesson, error)
	GetLessonDetailFunc func(ctx context.Context, id int64) (*domain.Lesson, error)
	ListCategoriesFunc  func(ctx context.Context) ([]string, error)
	GetQuizFunc         func(ctx context.Context, lessonID int64) (*domain.Quiz, error)
	ListChaptersFunc    func(ctx context.Context) []domain.Chapter
	GetSectionFunc      func(ctx context.Context, id int64) (*domain.Section, error)
}

func (m *MockCatalogService) ListAll(ctx context.Context) ([]*domain.Lesson, error) {
	if m.ListAllFunc != nil {
		return m.ListAllFunc(ctx)
	}
	panic("MockCatalogService.ListAllFunc not implemented")
}
func (m *MockCatalogService) ListByCategory(ctx context.Context, category string) ([]*domain.Lesson, error) {
	if m.ListByCategoryFunc != nil {
		return m.ListByCategoryFunc(ctx, category)
	}
	panic("MockCatalogService.ListByCategoryFunc not implemented")
}
func (m *MockCatalogService) GetLessonDetail(ctx context.Context, id int64) (*domain.Lesson, error) {
	if m.GetLessonDetailFunc != nil {
		return m.GetLessonDetailFunc(ctx, id)
	}
	panic("MockCatalogService.GetLessonDetailFunc not implemented")
}
func (m *MockCatalogService) ListCategories(ctx context.Context) ([]string, error) {
	if m.ListCategoriesFunc != nil {
		return m.ListCategoriesFunc(ctx)
	}
	panic("MockCatalogService.ListCategoriesFunc not implemented")
}
func (m *MockCatalogService) GetQuiz(ctx context.Context, lessonID int64) (*domain.Quiz, error) {
	if m.GetQuizFunc != nil {
		return m.GetQuizFunc(ctx, lessonID)
	}
	panic("MockCatalogService.GetQuizFunc not implemented")
}
func (m *MockCatalogService) ListChapters(ctx context.Context) []domain.Chapter {
	if m.ListChaptersFunc != nil {
		return m.ListChaptersFunc(ctx)
	}
	panic("MockCatalogService.ListChaptersFunc not implemented")
}
func (m *MockCatalogService) GetSection(ctx context.Context, id int64) (*domain.Section, error) {
	if m.GetSectionFunc != nil {
		return m.GetSectionFunc(ctx, id)
	}
	panic("MockCatalogService.GetSectionFunc not implemented")
}

// MockQuizService
type MockQuizService struct {
	GradeFunc func(ctx context.Context, lessonID int64, submission domain.Submission) (*domain.GradeResult, error)
}

func (m *MockQuizService) Grade(ctx context.Context, lessonID int64, submission domain.Submission) (*domain.GradeResult, error) {
	if m.GradeFunc != nil {
		return m.GradeFunc(ctx, lessonID, submission)
	}
	panic("MockQuizService.GradeFunc not implemented")
}

// MockAuthService
type MockAuthService struct {
	RegisterFunc     func(ctx context.Context, name, email, password string) (*domain.User, error)
	LoginFunc        func(ctx context.Context, email, password string) (string, string, *domain.User, error)
	ValidateJWTFunc  func(ctx context.Context, tokenString string) (*dto.AuthClaims, error)
	CreateJWTFunc    func(ctx context.Context, user *domain.User, ttl time.Duration, tokenType string) (string, error)
	RefreshTokenFunc func(ctx context.Context, refreshTokenString string) (string, string, error)
	LogoutFunc       func(ctx context.Context, accessClaims *dto.AuthClaims, refreshTokenString string) error
	GetProfileFunc   func(ctx context.Context, userID string) (*domain.User, error)
}

func (m *MockAuthService) Register(ctx context.Context, name, email, password string) (*domain.User, error) {
	if m.RegisterFunc != nil {
		return m.RegisterFunc(ctx, name, email, password)
	}
	panic("MockAuthService.RegisterFunc not implemented")
}
func (m *MockAuthService) Login(ctx context.Context, email, password string) (string, string, *domain.User, error) {
	if m.LoginFunc != nil {
		return m.LoginFunc(ctx, email, password)
	}
	panic("MockAuthService.LoginFunc not implemented")
}
func (m *MockAuthService) ValidateJWT(ctx context.Context, tokenString string) (*dto.AuthClaims, error) {
	if m.ValidateJWTFunc != nil {
		return m.ValidateJWTFunc(ctx, tokenString)
	}
	panic("MockAuthService.ValidateJWTFunc not implemented")
}
func (m *MockAuthService) CreateJWT(ctx context.Context, user *domain.User, ttl time.Duration, tokenType string) (string, error) {
	if m.CreateJWTFunc != nil {
		return m.CreateJWTFunc(ctx, user, ttl, tokenType)
	}
	panic("MockAuthService.CreateJWTFunc not implemented")
}
func (m *MockAuthService) RefreshToken(ctx context.Context, refreshTokenString string) (string, string, error) {
	if m.RefreshTokenFunc != nil {
		return m.RefreshTokenFunc(ctx, refreshTokenString)
	}
	panic("MockAuthService.RefreshTokenFunc not implemented")
}
func (m *MockAuthService) Logout(ctx context.Context, accessClaims *dto.AuthClaims, refreshTokenString string) error {
	if m.LogoutFunc != nil {
		return m.LogoutFunc(ctx, accessClaims, refreshTokenString)
	}
	panic("MockAuthService.LogoutFunc not implemented")
}
func (m *MockAuthService) GetProfile(ctx context.Context, userID string) (*domain.User, error) {
	if m.GetProfileFunc != nil {
		return m.GetProfileFunc(ctx, userID)
	}
	panic("MockAuthService.GetProfileFunc not implemented")
}

// MockCache
type MockCache struct {
	PingFunc func(ctx context.Context) error
}

func (m *MockCache) Set(ctx context.Context, key string, value string, expiration time.Duration) error {
	return nil
}
func (m *MockCache) Exists(ctx context.Context, key string) (bool, error) { return false, nil }
func (m *MockCache) Ping(ctx context.Context) error {
	if m.PingFunc != nil {
		return m.PingFunc(ctx)
	}
	return nil
}

// MockPinger
type MockPinger struct {
	Err error
}

func (m *MockPinger) PingContext(ctx context.Context) error { return m.Err }
