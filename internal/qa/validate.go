package qa

import (
	"strings"

	"askmydata/internal/errors"
)

// ValidateQuestion trims raw input and rejects what is left empty.
// Callers run it before Answer, which is not defined for empty questions.
func ValidateQuestion(raw string) (string, error) {
	q := strings.TrimSpace(raw)
	if q == "" {
		return "", errors.EmptyQuestion()
	}
	return q, nil
}
