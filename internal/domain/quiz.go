package domain

import (
	"fmt"
	"strings"
)

// OptionDelimiter joins options in storage, so no option may contain it
const OptionDelimiter = "|||"

// QuizQuestion is a single multiple-choice question belonging to one lesson
type QuizQuestion struct {
	ID            int64
	LessonID      int64
	Question      string
	Options       []string // display order is significant
	CorrectOption string
}

// NewQuizQuestion creates a new QuizQuestion instance
func NewQuizQuestion(lessonID int64, question string, options []string, correctOption string) *QuizQuestion {
	return &QuizQuestion{
		LessonID:      lessonID,
		Question:      question,
		Options:       options,
		CorrectOption: correctOption,
	}
}

// IsCorrect compares a submitted answer to the correct option by exact string match
func (q *QuizQuestion) IsCorrect(answer string) bool {
	return answer == q.CorrectOption
}

// Validate checks that the correct option is exactly one of the listed options
func (q *QuizQuestion) Validate() error {
	var errs ValidationErrors
	if q.LessonID <= 0 {
		errs = append(errs, NewMissingFieldError("lesson_id"))
	}
	if strings.TrimSpace(q.Question) == "" {
		errs = append(errs, NewMissingFieldError("question"))
	}
	if len(q.Options) < 2 {
		errs = append(errs, ValidationError{
			Code:    CodeValidation,
			Field:   "options",
			Message: "at least two options are required",
		})
	}

	matches := 0
	seen := make(map[string]struct{}, len(q.Options))
	for _, opt := range q.Options {
		if _, dup := seen[opt]; dup {
			errs = append(errs, ValidationError{
				Code:    CodeValidation,
				Field:   "options",
				Message: fmt.Sprintf("duplicate option %q", opt),
			})
		}
		seen[opt] = struct{}{}
		if strings.Contains(opt, OptionDelimiter) {
			errs = append(errs, ValidationError{
				Code:    CodeValidation,
				Field:   "options",
				Message: fmt.Sprintf("option %q must not contain %q", opt, OptionDelimiter),
			})
		}
		if opt == q.CorrectOption {
			matches++
		}
	}
	if matches != 1 {
		errs = append(errs, ValidationError{
			Code:    CodeValidation,
			Field:   "correct_option",
			Message: "correct option must match exactly one option",
			Value:   q.CorrectOption,
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// Quiz is the question set of a lesson as presented to a learner
type Quiz struct {
	Lesson    *Lesson
	Questions []*QuizQuestion
}

// Submission maps question IDs to the submitted option text. Unanswered
// questions are simply absent.
type Submission map[int64]string

// GradeResult is the outcome of grading one submission. It is never persisted.
type GradeResult struct {
	LessonID int64
	Score    int
	Total    int
}

// Grade counts the questions whose submitted answer equals the correct option.
// Questions absent from the submission count as incorrect.
func Grade(questions []*QuizQuestion, submission Submission) (score, total int) {
	for _, q := range questions {
		if answer, ok := submission[q.ID]; ok && q.IsCorrect(answer) {
			score++
		}
	}
	return score, len(questions)
}
