package handler

import (
	"madrasa/internal/domain"
	"madrasa/internal/middleware"
	"madrasa/internal/service"

	"github.com/gofiber/fiber/v2"
)

// UserHandler handles user-specific HTTP requests.
type UserHandler struct {
	authService service.AuthService
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(authService service.AuthService) *UserHandler {
	return &UserHandler{authService: authService}
}

// GetMyProfile godoc
// @Summary Get current user's profile
// @Description Retrieves the profile information for the authenticated user.
// @Tags users
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} dto.UserProfileResponse
// @Failure 401 {object} middleware.ErrorResponse "Unauthorized"
// @Failure 404 {object} middleware.ErrorResponse "User not found"
// @Router /users/me [get]
func (h *UserHandler) GetMyProfile(c *fiber.Ctx) error {
	userID := middleware.UserIDFromContext(c)
	if userID == "" {
		return domain.NewUnauthorizedError("user not authenticated")
	}

	user, err := h.authService.GetProfile(c.UserContext(), userID)
	if err != nil {
		return err
	}
	return c.JSON(toUserProfileResponse(user))
}
