package projections

import (
	"context"
	"errors"

	"golang.org/x/sync/errgroup"

	"timetable/internal/adapters/backend"
	"timetable/internal/application/gateway"
	"timetable/internal/domain/college"
	"timetable/internal/domain/department"
	"timetable/internal/domain/faculty"
	"timetable/internal/domain/timetable"
)

// errExpired cancels sibling fetches once one of them sees a 401.
var errExpired = errors.New("backend rejected token")

// FormOptions are the select-box choices a create form offers.
// Each source degrades to an empty list on its own, and entries that fail
// their domain checks are left out.
type FormOptions struct {
	Colleges    []college.College
	Departments []department.Department
	Faculties   []faculty.Faculty
	Semesters   []int
}

var (
	collegeOptions    = gateway.LoadRequest{Path: "/college/", Messages: backend.LoadMessages("colleges")}
	departmentOptions = gateway.LoadRequest{Path: "/department/", Messages: backend.LoadMessages("departments")}
	facultyOptions    = gateway.LoadRequest{Path: "/faculty/", Messages: backend.LoadMessages("faculty")}
)

// QueryCollegeForm only checks that a session exists; the form has no choices.
// PRE: none
// POST: Makes no backend call
func QueryCollegeForm(_ context.Context, deps Deps) gateway.Result {
	if _, ok := deps.Session.Token(); !ok {
		return gateway.ToLogin()
	}
	return &gateway.Render{Data: FormOptions{}}
}

// QueryDepartmentForm loads the colleges a department can belong to.
func QueryDepartmentForm(ctx context.Context, deps Deps) gateway.Result {
	colleges, _, redirect := gateway.Load[[]college.College](ctx, deps.Session, deps.Backend, collegeOptions)
	if redirect != nil {
		return redirect
	}
	return &gateway.Render{Data: FormOptions{Colleges: validOnly("colleges", colleges)}}
}

// QueryFacultyForm loads the departments a faculty member can join.
func QueryFacultyForm(ctx context.Context, deps Deps) gateway.Result {
	return departmentsOnly(ctx, deps)
}

// QueryClassroomForm loads the departments a classroom can belong to.
func QueryClassroomForm(ctx context.Context, deps Deps) gateway.Result {
	return departmentsOnly(ctx, deps)
}

func departmentsOnly(ctx context.Context, deps Deps) gateway.Result {
	departments, _, redirect := gateway.Load[[]department.Department](ctx, deps.Session, deps.Backend, departmentOptions)
	if redirect != nil {
		return redirect
	}
	return &gateway.Render{Data: FormOptions{Departments: validOnly("departments", departments)}}
}

// QueryTimetableForm loads departments and faculties concurrently.
// A 401 from either source clears the session and redirects; any other
// failure leaves that source's list empty.
// PRE: none
// POST: Makes no backend call when the session has no token
func QueryTimetableForm(ctx context.Context, deps Deps) gateway.Result {
	token, ok := deps.Session.Token()
	if !ok {
		return gateway.ToLogin()
	}

	var (
		departments gateway.Fetched[[]department.Department]
		faculties   gateway.Fetched[[]faculty.Faculty]
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		departments = gateway.Fetch[[]department.Department](gctx, deps.Backend, token, departmentOptions)
		if departments.Expired {
			return errExpired
		}
		return nil
	})
	g.Go(func() error {
		faculties = gateway.Fetch[[]faculty.Faculty](gctx, deps.Backend, token, facultyOptions)
		if faculties.Expired {
			return errExpired
		}
		return nil
	})
	if err := g.Wait(); errors.Is(err, errExpired) {
		gateway.Expire(deps.Session, "/timetable/create")
		return gateway.ToLogin()
	}

	return &gateway.Render{Data: FormOptions{
		Departments: validOnly("departments", departments.Value),
		Faculties:   validOnly("faculty", faculties.Value),
		Semesters:   timetable.Semesters(),
	}}
}
