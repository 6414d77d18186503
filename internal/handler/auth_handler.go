package handler

import (
	"strings"

	"madrasa/internal/domain"
	"madrasa/internal/dto"
	"madrasa/internal/middleware"
	"madrasa/internal/service"
	"madrasa/internal/validation"

	"github.com/gofiber/fiber/v2"
)

type AuthHandler struct {
	authService service.AuthService
	validator   *validation.Validator
}

func NewAuthHandler(authService service.AuthService) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		validator:   validation.NewValidator(),
	}
}

// Register creates a new account.
// @Summary Register
// @Description Creates an account from name, email, password and password confirmation.
// @Tags auth
// @Accept json
// @Accept x-www-form-urlencoded
// @Produce json
// @Param request body dto.RegisterRequest true "Registration details"
// @Success 201 {object} dto.UserProfileResponse
// @Failure 400 {object} middleware.ValidationErrorResponse
// @Failure 409 {object} middleware.ErrorResponse "Email already registered"
// @Router /auth/register [post]
func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var req dto.RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}
	req.Email = strings.TrimSpace(req.Email)

	if errs := h.validator.ValidateRegisterRequest(req); len(errs) > 0 {
		return errs
	}

	user, err := h.authService.Register(c.UserContext(), strings.TrimSpace(req.Name), req.Email, req.Password)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(toUserProfileResponse(user))
}

// Login issues an access and refresh token pair.
// @Summary Login
// @Description Authenticates by email and password and returns JWTs.
// @Tags auth
// @Accept json
// @Accept x-www-form-urlencoded
// @Produce json
// @Param request body dto.LoginRequest true "Credentials"
// @Success 200 {object} dto.TokenResponse
// @Failure 400 {object} middleware.ValidationErrorResponse
// @Failure 401 {object} middleware.ErrorResponse "Invalid email or password"
// @Router /auth/login [post]
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}
	req.Email = strings.TrimSpace(req.Email)

	if errs := h.validator.ValidateLoginRequest(req); len(errs) > 0 {
		return errs
	}

	accessToken, refreshToken, user, err := h.authService.Login(c.UserContext(), req.Email, req.Password)
	if err != nil {
		return err
	}

	return c.JSON(dto.TokenResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		User:         toUserProfileResponse(user),
	})
}

// RefreshToken handles JWT refresh.
// @Summary Refresh JWT
// @Description Provides a new access and refresh token pair; the presented refresh token is revoked.
// @Tags auth
// @Accept json
// @Produce json
// @Param refresh_token body dto.RefreshTokenRequest true "Refresh Token"
// @Success 200 {object} dto.TokenResponse
// @Failure 400 {object} middleware.ErrorResponse "Invalid request body"
// @Failure 401 {object} middleware.ErrorResponse "Invalid or expired refresh token"
// @Router /auth/refresh [post]
func (h *AuthHandler) RefreshToken(c *fiber.Ctx) error {
	var req dto.RefreshTokenRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}
	if req.RefreshToken == "" {
		return domain.ValidationErrors{domain.NewMissingFieldError("refresh_token")}
	}

	newAccessToken, newRefreshToken, err := h.authService.RefreshToken(c.UserContext(), req.RefreshToken)
	if err != nil {
		return err
	}

	return c.JSON(dto.TokenResponse{
		AccessToken:  newAccessToken,
		RefreshToken: newRefreshToken,
	})
}

// Logout revokes the caller's tokens.
// @Summary Logout
// @Description Revokes the access token and, when supplied, the refresh token.
// @Tags auth
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param refresh_token body dto.RefreshTokenRequest false "Refresh token to revoke as well"
// @Success 200 {object} dto.MessageResponse
// @Failure 401 {object} middleware.ErrorResponse
// @Router /auth/logout [post]
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	claims := middleware.ClaimsFromContext(c)
	if claims == nil {
		return domain.NewUnauthorizedError("user not authenticated")
	}

	var req dto.RefreshTokenRequest
	if len(c.Body()) > 0 {
		// the refresh token is optional; a malformed body only skips its revocation
		_ = c.BodyParser(&req)
	}

	if err := h.authService.Logout(c.UserContext(), claims, req.RefreshToken); err != nil {
		return err
	}
	return c.JSON(dto.MessageResponse{Message: "Successfully logged out"})
}

func toUserProfileResponse(user *domain.User) *dto.UserProfileResponse {
	if user == nil {
		return nil
	}
	return &dto.UserProfileResponse{
		ID:        user.ID,
		Name:      user.Name,
		Email:     user.Email,
		CreatedAt: user.CreatedAt,
	}
}
