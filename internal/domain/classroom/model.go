package classroom

import (
	"errors"
	"strings"

	"timetable/internal/domain/department"
	"timetable/internal/domain/form"
)

// Domain errors
var (
	ErrEmptyBuilding     = errors.New("classroom building name cannot be empty")
	ErrEmptyRoom         = errors.New("classroom room number cannot be empty")
	ErrInvalidCapacity   = errors.New("classroom capacity cannot be negative")
	ErrMissingDepartment = errors.New("classroom must belong to a department")
)

// Classroom is a physical room available for scheduling.
type Classroom struct {
	ID           int                    `json:"id"`
	BuildingName string                 `json:"building_name"`
	RoomNo       string                 `json:"room_no"`
	Capacity     int                    `json:"capacity"`
	DepartmentID int                    `json:"department_id"`
	CollegeID    *int                   `json:"college_id"`
	Department   *department.Department `json:"department"`
}

// Label is the short display form, e.g. "Main Block 101".
func (c Classroom) Label() string {
	return strings.TrimSpace(c.BuildingName + " " + c.RoomNo)
}

// Validate checks the fields the backend always populates.
func (c Classroom) Validate() error {
	if strings.TrimSpace(c.BuildingName) == "" {
		return ErrEmptyBuilding
	}
	if strings.TrimSpace(c.RoomNo) == "" {
		return ErrEmptyRoom
	}
	if c.Capacity < 0 {
		return ErrInvalidCapacity
	}
	if c.DepartmentID <= 0 {
		return ErrMissingDepartment
	}
	return nil
}

// CreateSchema is the set of fields accepted by the create form.
var CreateSchema = form.Schema{
	{Name: "building_name", Kind: form.Text, Required: "Building name is required"},
	{Name: "room_no", Kind: form.Text, Required: "Room number is required"},
	{Name: "capacity", Kind: form.Int, Required: "Capacity is required", Invalid: "Capacity must be a number"},
	{Name: "department_id", Kind: form.ForeignKey, Required: "Department is required", Invalid: "Department must be a number"},
}
