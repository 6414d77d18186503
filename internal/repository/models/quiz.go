package models

import (
	"database/sql/driver"
	"errors"
	"fmt"
	"strings"

	"madrasa/internal/domain"
)

// stringDelimiter separates options in the quizzes.options column
const stringDelimiter = domain.OptionDelimiter

// StringSlice stores an ordered list of strings in a single text column
type StringSlice []string

// Value implements the driver.Valuer interface
func (s StringSlice) Value() (driver.Value, error) {
	if len(s) == 0 {
		return "", nil
	}
	for _, item := range s {
		if strings.Contains(item, stringDelimiter) {
			return nil, fmt.Errorf("StringSlice Value: element %q contains delimiter %q", item, stringDelimiter)
		}
	}
	return strings.Join(s, stringDelimiter), nil
}

// Scan implements the sql.Scanner interface
func (s *StringSlice) Scan(value interface{}) error {
	var raw string
	switch v := value.(type) {
	case nil:
		*s = StringSlice{}
		return nil
	case []byte:
		raw = string(v)
	case string:
		raw = v
	default:
		return errors.New("StringSlice Scan: unsupported type " + fmt.Sprintf("%T", value))
	}

	if raw == "" {
		*s = StringSlice{}
		return nil
	}
	*s = strings.Split(raw, stringDelimiter)
	return nil
}

// QuizQuestion is the quizzes table row
type QuizQuestion struct {
	ID            int64       `db:"id"`
	LessonID      int64       `db:"lesson_id"`
	Question      string      `db:"question"`
	Options       StringSlice `db:"options"`
	CorrectOption string      `db:"correct_option"`
}
