package department

import (
	"errors"
	"strings"

	"timetable/internal/domain/form"
)

// Domain errors
var (
	ErrEmptyName   = errors.New("department name cannot be empty")
	ErrInvalidYear = errors.New("department year must be positive")
)

// Department belongs to a college and groups faculty, classrooms and timetables.
type Department struct {
	ID          int     `json:"id"`
	Name        string  `json:"name"`
	Year        int     `json:"year"`
	CollegeID   *int    `json:"college_id"`
	Description *string `json:"description"`
}

// Validate checks the fields the backend always populates.
func (d Department) Validate() error {
	if strings.TrimSpace(d.Name) == "" {
		return ErrEmptyName
	}
	if d.Year <= 0 {
		return ErrInvalidYear
	}
	return nil
}

// CreateSchema is the set of fields accepted by the create form.
var CreateSchema = form.Schema{
	{Name: "name", Kind: form.Text, Required: "Department name is required"},
	{Name: "year", Kind: form.Int, Required: "Year is required", Invalid: "Year must be a number"},
	{Name: "college_id", Kind: form.OptionalInt, Invalid: "College must be a number"},
}
