package projections

import (
	"context"
	"net/url"

	"timetable/internal/adapters/backend"
	"timetable/internal/application/gateway"
	"timetable/internal/application/listutil"
	"timetable/internal/domain/classroom"
	"timetable/internal/domain/college"
	"timetable/internal/domain/department"
	"timetable/internal/domain/faculty"
	"timetable/internal/domain/timetable"
)

// CollegeListView is the college listing page.
type CollegeListView struct {
	Colleges []college.College
	Error    string
}

// QueryCollegeList fetches every college.
// PRE: none
// POST: Returns *gateway.Render with CollegeListView, or a 302 to the login page
func QueryCollegeList(ctx context.Context, deps Deps) gateway.Result {
	items, msg, redirect := gateway.Load[[]college.College](ctx, deps.Session, deps.Backend, gateway.LoadRequest{
		Path:     "/college/",
		Messages: backend.LoadMessages("colleges"),
	})
	if redirect != nil {
		return redirect
	}
	flagInvalid("colleges", items)
	return &gateway.Render{Data: CollegeListView{Colleges: items, Error: msg}}
}

// DepartmentListQuery carries the raw listing query string.
type DepartmentListQuery struct {
	Params url.Values
}

// DepartmentListView is the department listing page.
type DepartmentListView struct {
	Departments []department.Department
	Search      string
	Error       string
}

// QueryDepartmentList fetches departments, filtered by name when a search is given.
// PRE: none
// POST: The backend name filter is omitted when the trimmed search is empty
func QueryDepartmentList(ctx context.Context, query DepartmentListQuery, deps Deps) gateway.Result {
	fp := listutil.ParseFilterParams(query.Params, nil)
	items, msg, redirect := gateway.Load[[]department.Department](ctx, deps.Session, deps.Backend, gateway.LoadRequest{
		Path:     fp.BackendPath("/department", "name"),
		Messages: backend.LoadMessages("departments"),
	})
	if redirect != nil {
		return redirect
	}
	flagInvalid("departments", items)
	return &gateway.Render{Data: DepartmentListView{Departments: items, Search: fp.Search, Error: msg}}
}

// FacultyListView is the faculty listing page.
type FacultyListView struct {
	Faculties []faculty.Faculty
	Error     string
}

// QueryFacultyList fetches every faculty member.
func QueryFacultyList(ctx context.Context, deps Deps) gateway.Result {
	items, msg, redirect := gateway.Load[[]faculty.Faculty](ctx, deps.Session, deps.Backend, gateway.LoadRequest{
		Path:     "/faculty/",
		Messages: backend.LoadMessages("faculty"),
	})
	if redirect != nil {
		return redirect
	}
	flagInvalid("faculty", items)
	return &gateway.Render{Data: FacultyListView{Faculties: items, Error: msg}}
}

// ClassroomListView is the classroom listing page.
type ClassroomListView struct {
	Classrooms []classroom.Classroom
	Error      string
}

// QueryClassroomList fetches every classroom.
func QueryClassroomList(ctx context.Context, deps Deps) gateway.Result {
	items, msg, redirect := gateway.Load[[]classroom.Classroom](ctx, deps.Session, deps.Backend, gateway.LoadRequest{
		Path:     "/classroom/",
		Messages: backend.LoadMessages("classrooms"),
	})
	if redirect != nil {
		return redirect
	}
	flagInvalid("classrooms", items)
	return &gateway.Render{Data: ClassroomListView{Classrooms: items, Error: msg}}
}

// TimetableListView is the timetable listing page.
type TimetableListView struct {
	Timetables []timetable.Timetable
	Error      string
}

// QueryTimetableList fetches every timetable.
func QueryTimetableList(ctx context.Context, deps Deps) gateway.Result {
	items, msg, redirect := gateway.Load[[]timetable.Timetable](ctx, deps.Session, deps.Backend, gateway.LoadRequest{
		Path:     "/timetable",
		Messages: backend.LoadMessages("timetables"),
	})
	if redirect != nil {
		return redirect
	}
	flagInvalid("timetables", items)
	return &gateway.Render{Data: TimetableListView{Timetables: items, Error: msg}}
}
