package middleware

import (
	"context"
	"strings"

	"madrasa/internal/dto"
	"madrasa/internal/logger"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

const (
	AuthorizationHeader = "Authorization"
	BearerSchema        = "Bearer "
	UserIDKey           = "userID" // Key for storing UserID in fiber.Ctx locals
	ClaimsKey           = "claims" // Key for storing *dto.AuthClaims in fiber.Ctx locals
	accessTokenType     = "access"
)

// TokenValidator is the part of the auth service the middleware needs
type TokenValidator interface {
	ValidateJWT(ctx context.Context, tokenString string) (*dto.AuthClaims, error)
}

// Protected is a middleware function that protects routes by requiring a valid access token.
// It sets the userID and the token claims in the context.
func Protected(validator TokenValidator) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get(AuthorizationHeader)
		if authHeader == "" {
			return unauthorized(c, "MISSING_AUTH_HEADER", "Authorization header is missing")
		}

		if !strings.HasPrefix(authHeader, BearerSchema) {
			return unauthorized(c, "INVALID_AUTH_SCHEME", "Authorization scheme is not Bearer")
		}

		tokenString := strings.TrimSpace(strings.TrimPrefix(authHeader, BearerSchema))
		if tokenString == "" {
			return unauthorized(c, "EMPTY_TOKEN", "Token is empty")
		}

		claims, err := validator.ValidateJWT(c.UserContext(), tokenString)
		if err != nil {
			logger.Get().Debug("JWT validation error", zap.Error(err))
			return unauthorized(c, "INVALID_TOKEN", "Token is invalid, expired or revoked")
		}

		if claims.TokenType != accessTokenType {
			return c.Status(fiber.StatusForbidden).JSON(ErrorResponse{
				Code:    "INVALID_TOKEN_TYPE",
				Message: "Invalid token type: expected access, got " + claims.TokenType,
				Status:  fiber.StatusForbidden,
			})
		}

		c.Locals(UserIDKey, claims.UserID)
		c.Locals(ClaimsKey, claims)

		return c.Next()
	}
}

// OptionalAuth sets the userID when a valid access token is present and
// otherwise lets the request through anonymously.
func OptionalAuth(validator TokenValidator) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get(AuthorizationHeader)
		if authHeader == "" {
			return c.Next()
		}

		if !strings.HasPrefix(authHeader, BearerSchema) {
			logger.Get().Debug("OptionalAuth: Authorization scheme is not Bearer, proceeding as anonymous.")
			return c.Next()
		}

		tokenString := strings.TrimSpace(strings.TrimPrefix(authHeader, BearerSchema))
		if tokenString == "" {
			return c.Next()
		}

		claims, err := validator.ValidateJWT(c.UserContext(), tokenString)
		if err != nil {
			logger.Get().Debug("OptionalAuth: JWT validation failed, proceeding as anonymous.", zap.Error(err))
			return c.Next()
		}

		if claims.TokenType != accessTokenType {
			logger.Get().Debug("OptionalAuth: Invalid token type, proceeding as anonymous.", zap.String("tokenType", claims.TokenType))
			return c.Next()
		}

		c.Locals(UserIDKey, claims.UserID)
		c.Locals(ClaimsKey, claims)
		return c.Next()
	}
}

// UserIDFromContext returns the authenticated user ID, or "" for anonymous requests
func UserIDFromContext(c *fiber.Ctx) string {
	userID, _ := c.Locals(UserIDKey).(string)
	return userID
}

// ClaimsFromContext returns the token claims set by Protected or OptionalAuth
func ClaimsFromContext(c *fiber.Ctx) *dto.AuthClaims {
	claims, _ := c.Locals(ClaimsKey).(*dto.AuthClaims)
	return claims
}

func unauthorized(c *fiber.Ctx, code, message string) error {
	return c.Status(fiber.StatusUnauthorized).JSON(ErrorResponse{
		Code:    code,
		Message: message,
		Status:  fiber.StatusUnauthorized,
	})
}
