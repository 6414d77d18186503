package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"madrasa/internal/cache"
	"madrasa/internal/config"
	"madrasa/internal/domain"
	"madrasa/internal/dto"
	"madrasa/internal/logger"
	"madrasa/internal/util"

	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

const (
	tokenTypeAccess  = "access"
	tokenTypeRefresh = "refresh"
	tokenIssuer      = "madrasa"
)

var (
	ErrInvalidJWTToken    = errors.New("invalid jwt token")
	ErrTokenRevoked       = errors.New("token has been revoked")
	ErrInvalidCredentials = errors.New("invalid email or password")
)

// AuthService defines the interface for account and session operations.
type AuthService interface {
	Register(ctx context.Context, name, email, password string) (*domain.User, error)
	Login(ctx context.Context, email, password string) (accessToken string, refreshToken string, user *domain.User, err error)
	ValidateJWT(ctx context.Context, tokenString string) (*dto.AuthClaims, error)
	CreateJWT(ctx context.Context, user *domain.User, ttl time.Duration, tokenType string) (string, error)
	RefreshToken(ctx context.Context, refreshTokenString string) (newAccessToken string, newRefreshToken string, err error)
	Logout(ctx context.Context, accessClaims *dto.AuthClaims, refreshTokenString string) error
	GetProfile(ctx context.Context, userID string) (*domain.User, error)
}

type authServiceImpl struct {
	userRepo  domain.UserRepository
	cache     domain.Cache // nil disables revocation
	jwtConfig config.JWTConfig
}

// NewAuthService creates a new instance of AuthService.
func NewAuthService(userRepo domain.UserRepository, cache domain.Cache, jwtConfig config.JWTConfig) (AuthService, error) {
	if len(jwtConfig.SecretKey) < 32 {
		return nil, errors.New("jwt secret key must be at least 32 bytes long")
	}
	return &authServiceImpl{
		userRepo:  userRepo,
		cache:     cache,
		jwtConfig: jwtConfig,
	}, nil
}

// Register creates an account with a bcrypt-hashed password.
func (s *authServiceImpl) Register(ctx context.Context, name, email, password string) (*domain.User, error) {
	existing, err := s.userRepo.GetUserByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, domain.NewConflictError("email is already registered").WithContext("email", existing.Email)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, domain.NewInternalError("failed to hash password", err)
	}

	user := domain.NewUser(name, email, string(hash))
	user.ID = util.NewULID()
	if err := user.Validate(); err != nil {
		return nil, err
	}
	if err := s.userRepo.CreateUser(ctx, user); err != nil {
		return nil, err
	}

	logger.Get().Info("User registered", zap.String("userID", user.ID), zap.String("email", user.Email))
	return user, nil
}

// Login verifies credentials and issues an access/refresh token pair.
func (s *authServiceImpl) Login(ctx context.Context, email, password string) (string, string, *domain.User, error) {
	user, err := s.userRepo.GetUserByEmail(ctx, email)
	if err != nil {
		return "", "", nil, err
	}
	if user == nil {
		return "", "", nil, domain.NewError(domain.CodeUnauthorized, "invalid email or password", ErrInvalidCredentials)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		logger.Get().Warn("Login failed", zap.String("userID", user.ID))
		return "", "", nil, domain.NewError(domain.CodeUnauthorized, "invalid email or password", ErrInvalidCredentials)
	}

	accessToken, refreshToken, err := s.issueTokens(ctx, user)
	if err != nil {
		return "", "", nil, err
	}

	logger.Get().Info("User logged in", zap.String("userID", user.ID))
	return accessToken, refreshToken, user, nil
}

func (s *authServiceImpl) issueTokens(ctx context.Context, user *domain.User) (string, string, error) {
	accessToken, err := s.CreateJWT(ctx, user, s.jwtConfig.AccessTokenTTL, tokenTypeAccess)
	if err != nil {
		return "", "", domain.NewInternalError("failed to create access token", err)
	}
	refreshToken, err := s.CreateJWT(ctx, user, s.jwtConfig.RefreshTokenTTL, tokenTypeRefresh)
	if err != nil {
		return "", "", domain.NewInternalError("failed to create refresh token", err)
	}
	return accessToken, refreshToken, nil
}

func (s *authServiceImpl) CreateJWT(ctx context.Context, user *domain.User, ttl time.Duration, tokenType string) (string, error) {
	now := time.Now()
	claims := dto.AuthClaims{
		UserID:    user.ID,
		TokenType: tokenType,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        util.NewULID(),
			Issuer:    tokenIssuer,
			Subject:   user.ID,
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.jwtConfig.SecretKey))
}

func tokenSnippet(token string) string {
	return token[:min(len(token), 20)] + "..."
}

// ValidateJWT checks the signature, expiry and revocation state of a token.
func (s *authServiceImpl) ValidateJWT(ctx context.Context, tokenString string) (*dto.AuthClaims, error) {
	appLogger := logger.Get()
	token, err := jwt.ParseWithClaims(tokenString, &dto.AuthClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(s.jwtConfig.SecretKey), nil
	}, jwt.WithIssuer(tokenIssuer))

	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			appLogger.Warn("JWT token expired", zap.String("token_snippet", tokenSnippet(tokenString)))
		} else {
			appLogger.Warn("JWT validation failed", zap.Error(err), zap.String("token_snippet", tokenSnippet(tokenString)))
		}
		return nil, domain.NewError(domain.CodeUnauthorized, "invalid or expired token", fmt.Errorf("%w: %v", ErrInvalidJWTToken, err))
	}

	claims, ok := token.Claims.(*dto.AuthClaims)
	if !ok || !token.Valid || !util.IsULID(claims.UserID) {
		return nil, domain.NewError(domain.CodeUnauthorized, "invalid or expired token", ErrInvalidJWTToken)
	}

	revoked, err := s.isRevoked(ctx, claims.ID)
	if err != nil {
		// fail closed: a token cannot be trusted while its revocation state is unknown
		appLogger.Error("Failed to check token revocation", zap.Error(err))
		return nil, domain.NewError(domain.CodeUnauthorized, "unable to verify token", err)
	}
	if revoked {
		return nil, domain.NewError(domain.CodeUnauthorized, "token has been revoked", ErrTokenRevoked)
	}
	return claims, nil
}

func (s *authServiceImpl) isRevoked(ctx context.Context, jti string) (bool, error) {
	if s.cache == nil || jti == "" {
		return false, nil
	}
	return s.cache.Exists(ctx, cache.RevokedTokenKey(jti))
}

func (s *authServiceImpl) revoke(ctx context.Context, claims *dto.AuthClaims) error {
	if s.cache == nil || claims == nil || claims.ID == "" {
		return nil
	}
	ttl := time.Minute
	if claims.ExpiresAt != nil {
		ttl = time.Until(claims.ExpiresAt.Time)
	}
	if ttl <= 0 {
		return nil
	}
	return s.cache.Set(ctx, cache.RevokedTokenKey(claims.ID), claims.UserID, ttl)
}

// RefreshToken rotates a refresh token: the old one is revoked and a new pair is issued.
func (s *authServiceImpl) RefreshToken(ctx context.Context, refreshTokenString string) (string, string, error) {
	appLogger := logger.Get()
	claims, err := s.ValidateJWT(ctx, refreshTokenString)
	if err != nil {
		return "", "", err
	}
	if claims.TokenType != tokenTypeRefresh {
		return "", "", domain.NewUnauthorizedError("not a refresh token")
	}

	user, err := s.userRepo.GetUserByID(ctx, claims.UserID)
	if err != nil {
		return "", "", err
	}
	if user == nil {
		appLogger.Warn("User not found for refresh token", zap.String("userID", claims.UserID))
		return "", "", domain.NewNotFoundError(fmt.Sprintf("User %s not found for refresh token", claims.UserID))
	}

	if err := s.revoke(ctx, claims); err != nil {
		return "", "", domain.NewInternalError("failed to revoke refresh token", err)
	}

	newAccessToken, newRefreshToken, err := s.issueTokens(ctx, user)
	if err != nil {
		return "", "", err
	}

	appLogger.Info("JWT token refreshed", zap.String("userID", user.ID))
	return newAccessToken, newRefreshToken, nil
}

// Logout revokes the presented access token and, when given, the refresh token.
func (s *authServiceImpl) Logout(ctx context.Context, accessClaims *dto.AuthClaims, refreshTokenString string) error {
	if accessClaims == nil {
		return domain.NewUnauthorizedError("missing token claims")
	}
	if err := s.revoke(ctx, accessClaims); err != nil {
		return domain.NewInternalError("failed to revoke access token", err)
	}

	if refreshTokenString != "" {
		refreshClaims, err := s.ValidateJWT(ctx, refreshTokenString)
		if err == nil && refreshClaims.UserID == accessClaims.UserID {
			if err := s.revoke(ctx, refreshClaims); err != nil {
				return domain.NewInternalError("failed to revoke refresh token", err)
			}
		}
	}

	logger.Get().Info("User logged out", zap.String("userID", accessClaims.UserID))
	return nil
}

// GetProfile returns the user behind a validated token.
func (s *authServiceImpl) GetProfile(ctx context.Context, userID string) (*domain.User, error) {
	user, err := s.userRepo.GetUserByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domain.NewNotFoundError("user not found").WithContext("user_id", userID)
	}
	return user, nil
}
