package middleware

import (
	"net/url"

	"madrasa/internal/validation"

	"github.com/gofiber/fiber/v2"
)

const (
	ValidatedLessonIDKey  = "validated_lesson_id"
	ValidatedSectionIDKey = "validated_section_id"
	ValidatedCategoryKey  = "validated_category"
)

// ValidationMiddleware provides request validation middleware
type ValidationMiddleware struct {
	validator *validation.Validator
}

// NewValidationMiddleware creates a new validation middleware instance
func NewValidationMiddleware() *ValidationMiddleware {
	return &ValidationMiddleware{
		validator: validation.NewValidator(),
	}
}

// ValidateLessonID validates the :id path parameter and stores it as int64
func (vm *ValidationMiddleware) ValidateLessonID() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, errors := vm.validator.ValidateLessonID(c.Params("id"))
		if len(errors) > 0 {
			return errors // This will be handled by ErrorHandler middleware
		}
		c.Locals(ValidatedLessonIDKey, id)
		return c.Next()
	}
}

// ValidateSectionID validates the :id path parameter of section routes
func (vm *ValidationMiddleware) ValidateSectionID() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, errors := vm.validator.ValidateSectionID(c.Params("id"))
		if len(errors) > 0 {
			return errors
		}
		c.Locals(ValidatedSectionIDKey, id)
		return c.Next()
	}
}

// ValidateCategory validates the category from the path, falling back to ?category=.
// Requests without any category pass through untouched.
func (vm *ValidationMiddleware) ValidateCategory() fiber.Handler {
	return func(c *fiber.Ctx) error {
		category := c.Params("category")
		fromPath := category != ""
		if !fromPath {
			category = c.Query("category")
			if category == "" {
				return c.Next()
			}
		} else {
			// fiber leaves path params escaped ("Islamic%20Studies")
			category = decodePathParam(category)
		}

		if errors := vm.validator.ValidateCategory(category); len(errors) > 0 {
			return errors
		}
		c.Locals(ValidatedCategoryKey, category)
		return c.Next()
	}
}

func decodePathParam(raw string) string {
	decoded, err := url.PathUnescape(raw)
	if err != nil {
		return raw
	}
	return decoded
}
