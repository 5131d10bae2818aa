package movies

import (
	"strings"

	"github.com/agentstation/marquee/pkg/errors"
	"github.com/agentstation/marquee/pkg/store"
)

// Submission is the add-movie form. Every field is required text.
type Submission struct {
	Title    string `json:"title" yaml:"title" form:"title"`
	Year     string `json:"year" yaml:"year" form:"year"`
	Director string `json:"director" yaml:"director" form:"director"`
	Genre    string `json:"genre" yaml:"genre" form:"genre"`
}

// Validate reports the first blank field as a *errors.ValidationError.
// Whitespace-only values count as blank.
func (s Submission) Validate() error {
	fields := []struct {
		name  string
		value string
	}{
		{FieldTitle, s.Title},
		{FieldYear, s.Year},
		{FieldDirector, s.Director},
		{FieldGenre, s.Genre},
	}
	for _, f := range fields {
		if strings.TrimSpace(f.value) == "" {
			return errors.NewValidationError(f.name, f.value, "is required")
		}
	}
	return nil
}

// Document returns exactly the four fields, values as entered.
func (s Submission) Document() store.Document {
	return store.Document{
		FieldTitle:    s.Title,
		FieldYear:     s.Year,
		FieldDirector: s.Director,
		FieldGenre:    s.Genre,
	}
}
