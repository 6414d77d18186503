package validation

import (
	"net/mail"
	"strconv"
	"strings"
	"unicode/utf8"

	"madrasa/internal/domain"
	"madrasa/internal/dto"
)

const (
	maxCategoryLength = 100
	minPasswordLength = 8
	maxPasswordLength = 72 // bcrypt ignores anything longer
	maxAnswerLength   = 1000
)

// Validator provides request validation functionality
type Validator struct{}

// NewValidator creates a new validator instance
func NewValidator() *Validator {
	return &Validator{}
}

// ValidateLessonID parses a path parameter into a lesson ID (>= 1)
func (v *Validator) ValidateLessonID(raw string) (int64, domain.ValidationErrors) {
	return parsePositiveID("lesson_id", raw)
}

// ValidateSectionID parses a path parameter into a section ID (>= 1)
func (v *Validator) ValidateSectionID(raw string) (int64, domain.ValidationErrors) {
	return parsePositiveID("section_id", raw)
}

// ValidateCategory validates a category tag. Categories are matched exactly,
// so the value is not trimmed or case-folded here.
func (v *Validator) ValidateCategory(category string) domain.ValidationErrors {
	var errors domain.ValidationErrors

	if strings.TrimSpace(category) == "" {
		errors = append(errors, domain.NewMissingFieldError("category"))
		return errors
	}
	if n := utf8.RuneCountInString(category); n > maxCategoryLength {
		errors = append(errors, domain.NewOutOfRangeError("category", n, 1, maxCategoryLength))
	}
	return errors
}

// ValidateSubmission converts answers keyed by decimal question IDs into a
// domain.Submission. Missing answers are fine; malformed keys are not.
func (v *Validator) ValidateSubmission(answers map[string]string) (domain.Submission, domain.ValidationErrors) {
	var errors domain.ValidationErrors
	submission := make(domain.Submission, len(answers))

	for key, answer := range answers {
		id, err := strconv.ParseInt(key, 10, 64)
		// only the canonical form round-trips, so "01" and "+1" cannot shadow "1"
		if err != nil || id < 1 || strconv.FormatInt(id, 10) != key {
			errors = append(errors, domain.NewInvalidFormatError("answers", key))
			continue
		}
		if len(answer) > maxAnswerLength {
			errors = append(errors, domain.NewOutOfRangeError("answers."+key, len(answer), 0, maxAnswerLength))
			continue
		}
		submission[id] = answer
	}

	if len(errors) > 0 {
		return nil, errors
	}
	return submission, nil
}

// ValidateRegisterRequest validates the registration form
func (v *Validator) ValidateRegisterRequest(req dto.RegisterRequest) domain.ValidationErrors {
	var errors domain.ValidationErrors

	if strings.TrimSpace(req.Name) == "" {
		errors = append(errors, domain.NewMissingFieldError("name"))
	}
	errors = append(errors, validateEmail(req.Email)...)

	switch {
	case req.Password == "":
		errors = append(errors, domain.NewMissingFieldError("password"))
	case len(req.Password) < minPasswordLength || len(req.Password) > maxPasswordLength:
		errors = append(errors, domain.NewOutOfRangeError("password", len(req.Password), minPasswordLength, maxPasswordLength))
	case req.Password != req.ConfirmPassword:
		errors = append(errors, domain.ValidationError{
			Code:    domain.CodeValidation,
			Field:   "confirm_password",
			Message: "passwords do not match",
		})
	}

	return errors
}

// ValidateLoginRequest validates the login form
func (v *Validator) ValidateLoginRequest(req dto.LoginRequest) domain.ValidationErrors {
	errors := validateEmail(req.Email)
	if req.Password == "" {
		errors = append(errors, domain.NewMissingFieldError("password"))
	}
	return errors
}

func validateEmail(email string) domain.ValidationErrors {
	email = strings.TrimSpace(email)
	if email == "" {
		return domain.ValidationErrors{domain.NewMissingFieldError("email")}
	}
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return domain.ValidationErrors{domain.NewInvalidFormatError("email", email)}
	}
	return nil
}

func parsePositiveID(field, raw string) (int64, domain.ValidationErrors) {
	if strings.TrimSpace(raw) == "" {
		return 0, domain.ValidationErrors{domain.NewMissingFieldError(field)}
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, domain.ValidationErrors{domain.NewInvalidFormatError(field, raw)}
	}
	if id < 1 {
		return 0, domain.ValidationErrors{{
			Code:    domain.CodeOutOfRange,
			Field:   field,
			Message: field + " must be a positive integer",
			Value:   id,
		}}
	}
	return id, nil
}
