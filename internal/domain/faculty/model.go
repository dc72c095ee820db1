package faculty

import (
	"errors"
	"strings"

	"timetable/internal/domain/department"
	"timetable/internal/domain/form"
)

// Domain errors
var (
	ErrEmptyName         = errors.New("faculty name cannot be empty")
	ErrMissingDepartment = errors.New("faculty must belong to a department")
)

// Faculty is a teaching staff member. Department is populated when the
// backend embeds the related record.
type Faculty struct {
	ID           int                    `json:"id"`
	Name         string                 `json:"name"`
	DepartmentID int                    `json:"department_id"`
	CollegeID    *int                   `json:"college_id"`
	Department   *department.Department `json:"department"`
}

// Validate checks the fields the backend always populates.
func (f Faculty) Validate() error {
	if strings.TrimSpace(f.Name) == "" {
		return ErrEmptyName
	}
	if f.DepartmentID <= 0 {
		return ErrMissingDepartment
	}
	return nil
}

// CreateSchema is the set of fields accepted by the create form.
var CreateSchema = form.Schema{
	{Name: "name", Kind: form.Text, Required: "Faculty name is required"},
	{Name: "department_id", Kind: form.ForeignKey, Required: "Department is required", Invalid: "Department must be a number"},
}
