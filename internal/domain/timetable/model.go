package timetable

import (
	"errors"
	"strings"

	"timetable/internal/domain/department"
	"timetable/internal/domain/faculty"
	"timetable/internal/domain/form"
)

// Semester bounds
const (
	MinSemester = 1
	MaxSemester = 8
)

// Domain errors
var (
	ErrInvalidSemester    = errors.New("timetable semester must be between 1 and 8")
	ErrEmptyAcademicYear  = errors.New("timetable academic year cannot be empty")
	ErrMissingDepartment  = errors.New("timetable must belong to a department")
	ErrMissingCoordinator = errors.New("timetable must have a class coordinator")
)

// Timetable is the schedule header for one department, semester and
// academic year. Department and ClassCoordinator are populated when the
// backend embeds the related records.
type Timetable struct {
	ID                 int                    `json:"id"`
	DepartmentID       int                    `json:"department_id"`
	ClassCoordinatorID int                    `json:"class_coordinator_id"`
	AcademicYear       string                 `json:"academic_year"`
	Semester           int                    `json:"semester"`
	CollegeID          *int                   `json:"college_id"`
	CreatedAt          *string                `json:"created_at"`
	UpdatedAt          *string                `json:"updated_at"`
	Department         *department.Department `json:"department"`
	ClassCoordinator   *faculty.Faculty       `json:"class_coordinator"`
}

// Validate checks the fields the backend always populates.
func (t Timetable) Validate() error {
	if t.DepartmentID <= 0 {
		return ErrMissingDepartment
	}
	if t.ClassCoordinatorID <= 0 {
		return ErrMissingCoordinator
	}
	if strings.TrimSpace(t.AcademicYear) == "" {
		return ErrEmptyAcademicYear
	}
	if t.Semester < MinSemester || t.Semester > MaxSemester {
		return ErrInvalidSemester
	}
	return nil
}

// Semesters lists the selectable semesters in order.
func Semesters() []int {
	out := make([]int, 0, MaxSemester-MinSemester+1)
	for s := MinSemester; s <= MaxSemester; s++ {
		out = append(out, s)
	}
	return out
}

// CreateSchema is the set of fields accepted by the create form.
var CreateSchema = form.Schema{
	{Name: "department_id", Kind: form.ForeignKey, Required: "Department is required", Invalid: "Department must be a number"},
	{Name: "class_coordinator_id", Kind: form.ForeignKey, Required: "Class coordinator is required", Invalid: "Class coordinator must be a number"},
	{Name: "semester", Kind: form.Int, Required: "Semester is required", Invalid: "Semester must be a number between 1 and 8", Min: MinSemester, Max: MaxSemester},
	{Name: "academic_year", Kind: form.Text, Required: "Academic year is required"},
}
