package orchestrators

import (
	"context"
	"net/url"

	"timetable/internal/adapters/backend"
	"timetable/internal/application/gateway"
	"timetable/internal/domain/classroom"
	"timetable/internal/domain/college"
	"timetable/internal/domain/department"
	"timetable/internal/domain/faculty"
	"timetable/internal/domain/form"
	"timetable/internal/domain/timetable"
)

// CreateInput carries the submitted create form.
type CreateInput struct {
	Form url.Values
}

// creation binds a create form to its backend endpoint and listing.
type creation struct {
	noun    string // lower-case display name
	label   string // capitalised display name
	path    string
	listing string
	schema  form.Schema
}

func (c creation) execute(ctx context.Context, input CreateInput, deps Deps) gateway.Result {
	return gateway.Submit(ctx, deps.Session, deps.Backend, gateway.SubmitRequest{
		Path:     c.path,
		Schema:   c.schema,
		Form:     input.Form,
		Messages: backend.CreateMessages(c.noun),
		Success:  c.label + " created successfully",
		Listing:  c.listing,
	})
}

var (
	collegeCreation    = creation{noun: "college", label: "College", path: "/college/", listing: "/college", schema: college.CreateSchema}
	departmentCreation = creation{noun: "department", label: "Department", path: "/department/", listing: "/department", schema: department.CreateSchema}
	facultyCreation    = creation{noun: "faculty", label: "Faculty", path: "/faculty/", listing: "/faculty", schema: faculty.CreateSchema}
	classroomCreation  = creation{noun: "classroom", label: "Classroom", path: "/classroom/", listing: "/classroom", schema: classroom.CreateSchema}
	timetableCreation  = creation{noun: "timetable", label: "Timetable", path: "/timetable/", listing: "/timetable", schema: timetable.CreateSchema}
)

// ExecuteCreateCollege creates a college.
// PRE: none
// POST: Returns a 303 to /college on success, otherwise a *gateway.Failure or a login redirect
func ExecuteCreateCollege(ctx context.Context, input CreateInput, deps Deps) gateway.Result {
	return collegeCreation.execute(ctx, input, deps)
}

// ExecuteCreateDepartment creates a department; the college is optional.
// PRE: none
// POST: Returns a 303 to /department on success
func ExecuteCreateDepartment(ctx context.Context, input CreateInput, deps Deps) gateway.Result {
	return departmentCreation.execute(ctx, input, deps)
}

// ExecuteCreateFaculty creates a faculty member in a department.
// PRE: none
// POST: Returns a 303 to /faculty on success
func ExecuteCreateFaculty(ctx context.Context, input CreateInput, deps Deps) gateway.Result {
	return facultyCreation.execute(ctx, input, deps)
}

// ExecuteCreateClassroom creates a classroom.
// PRE: none
// POST: Returns a 303 to /classroom on success
func ExecuteCreateClassroom(ctx context.Context, input CreateInput, deps Deps) gateway.Result {
	return classroomCreation.execute(ctx, input, deps)
}

// ExecuteCreateTimetable creates a timetable header for a department and semester.
// PRE: none
// POST: Returns a 303 to /timetable on success
// INVARIANT: semester is within 1..8 before any backend call
func ExecuteCreateTimetable(ctx context.Context, input CreateInput, deps Deps) gateway.Result {
	return timetableCreation.execute(ctx, input, deps)
}
