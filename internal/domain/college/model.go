package college

import (
	"errors"
	"strings"

	"timetable/internal/domain/form"
)

// Domain errors
var (
	ErrEmptyName = errors.New("college name cannot be empty")
)

// College is an institution that owns departments.
type College struct {
	ID      int     `json:"id"`
	Name    string  `json:"name"`
	Address *string `json:"address"`
	Contact *string `json:"contact"`
}

// Validate checks the fields the backend always populates.
func (c College) Validate() error {
	if strings.TrimSpace(c.Name) == "" {
		return ErrEmptyName
	}
	return nil
}

// CreateSchema is the set of fields accepted by the create form.
var CreateSchema = form.Schema{
	{Name: "name", Kind: form.Text, Required: "College name is required"},
	{Name: "address", Kind: form.OptionalText},
	{Name: "contact", Kind: form.OptionalText},
}
