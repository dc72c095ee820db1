package web

import (
	"context"
	"net/http"
	"net/url"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"timetable/internal/application/gateway"
	"timetable/internal/application/orchestrators"
	"timetable/internal/application/projections"
)

// view pairs a page template with the load that feeds it.
// Public views render for visitors without a token.
type view struct {
	template string
	public   bool
	load     func(ctx context.Context, r *http.Request, deps projections.Deps) gateway.Result
}

// formAction runs a create or delete orchestrator against the posted form.
type formAction func(ctx context.Context, form url.Values, deps orchestrators.Deps) gateway.Result

var (
	loginView = view{template: "login.html", public: true, load: func(context.Context, *http.Request, projections.Deps) gateway.Result {
		return &gateway.Render{}
	}}
	profileView = view{template: "profile.html", load: func(ctx context.Context, _ *http.Request, deps projections.Deps) gateway.Result {
		return projections.QueryProfile(ctx, deps)
	}}
	aboutView = view{template: "about.html", load: func(context.Context, *http.Request, projections.Deps) gateway.Result {
		about, err := projections.QueryAbout()
		if err != nil {
			return &gateway.Failure{Err: err, Status: http.StatusInternalServerError, Message: "internal server error"}
		}
		return &gateway.Render{Data: about}
	}}

	collegeListView = view{template: "college_list.html", load: func(ctx context.Context, _ *http.Request, deps projections.Deps) gateway.Result {
		return projections.QueryCollegeList(ctx, deps)
	}}
	collegeFormView = view{template: "college_form.html", load: func(ctx context.Context, _ *http.Request, deps projections.Deps) gateway.Result {
		return projections.QueryCollegeForm(ctx, deps)
	}}
	departmentListView = view{template: "department_list.html", load: func(ctx context.Context, r *http.Request, deps projections.Deps) gateway.Result {
		return projections.QueryDepartmentList(ctx, projections.DepartmentListQuery{Params: r.URL.Query()}, deps)
	}}
	departmentFormView = view{template: "department_form.html", load: func(ctx context.Context, _ *http.Request, deps projections.Deps) gateway.Result {
		return projections.QueryDepartmentForm(ctx, deps)
	}}
	facultyListView = view{template: "faculty_list.html", load: func(ctx context.Context, _ *http.Request, deps projections.Deps) gateway.Result {
		return projections.QueryFacultyList(ctx, deps)
	}}
	facultyFormView = view{template: "faculty_form.html", load: func(ctx context.Context, _ *http.Request, deps projections.Deps) gateway.Result {
		return projections.QueryFacultyForm(ctx, deps)
	}}
	classroomListView = view{template: "classroom_list.html", load: func(ctx context.Context, _ *http.Request, deps projections.Deps) gateway.Result {
		return projections.QueryClassroomList(ctx, deps)
	}}
	classroomFormView = view{template: "classroom_form.html", load: func(ctx context.Context, _ *http.Request, deps projections.Deps) gateway.Result {
		return projections.QueryClassroomForm(ctx, deps)
	}}
	timetableListView = view{template: "timetable_list.html", load: func(ctx context.Context, _ *http.Request, deps projections.Deps) gateway.Result {
		return projections.QueryTimetableList(ctx, deps)
	}}
	timetableFormView = view{template: "timetable_form.html", load: func(ctx context.Context, _ *http.Request, deps projections.Deps) gateway.Result {
		return projections.QueryTimetableForm(ctx, deps)
	}}
)

func create(exec func(context.Context, orchestrators.CreateInput, orchestrators.Deps) gateway.Result) formAction {
	return func(ctx context.Context, form url.Values, deps orchestrators.Deps) gateway.Result {
		return exec(ctx, orchestrators.CreateInput{Form: form}, deps)
	}
}

func remove(exec func(context.Context, orchestrators.DeleteInput, orchestrators.Deps) gateway.Result) formAction {
	return func(ctx context.Context, form url.Values, deps orchestrators.Deps) gateway.Result {
		return exec(ctx, orchestrators.DeleteInput{ID: form.Get("id")}, deps)
	}
}

// Routes registers every route on a fresh mux. It expects the Auth
// middleware to have attached a session.
func (a *App) Routes() *http.ServeMux {
	mux := http.NewServeMux()
	mux.Handle("/static/", http.StripPrefix("/static/", http.FileServer(http.Dir(a.staticDir))))
	mux.HandleFunc("/health", a.handleHealth)
	mux.Handle("/metrics", promhttp.HandlerFor(a.gatherer, promhttp.HandlerOpts{}))
	mux.HandleFunc("/debug/perf", a.handlePerf)

	mux.HandleFunc("/", a.handleLogin)
	mux.HandleFunc("/logout", a.handleLogout)
	mux.HandleFunc("/profile", a.pageOnly(profileView))
	mux.HandleFunc("/about", a.pageOnly(aboutView))

	mux.HandleFunc("/college", a.pageOnly(collegeListView))
	mux.HandleFunc("/college/create", a.pageWithAction(collegeFormView, create(orchestrators.ExecuteCreateCollege)))
	mux.HandleFunc("/college/delete", a.actionOnly(collegeListView, remove(orchestrators.ExecuteDeleteCollege)))

	mux.HandleFunc("/department", a.pageOnly(departmentListView))
	mux.HandleFunc("/department/create", a.pageWithAction(departmentFormView, create(orchestrators.ExecuteCreateDepartment)))
	mux.HandleFunc("/department/delete", a.actionOnly(departmentListView, remove(orchestrators.ExecuteDeleteDepartment)))

	mux.HandleFunc("/faculty", a.pageOnly(facultyListView))
	mux.HandleFunc("/faculty/create", a.pageWithAction(facultyFormView, create(orchestrators.ExecuteCreateFaculty)))

	mux.HandleFunc("/classroom", a.pageOnly(classroomListView))
	mux.HandleFunc("/classroom/create", a.pageWithAction(classroomFormView, create(orchestrators.ExecuteCreateClassroom)))

	mux.HandleFunc("/timetable", a.pageOnly(timetableListView))
	mux.HandleFunc("/timetable/create", a.pageWithAction(timetableFormView, create(orchestrators.ExecuteCreateTimetable)))
	mux.HandleFunc("/timetable/delete", a.actionOnly(timetableListView, remove(orchestrators.ExecuteDeleteTimetable)))
	return mux
}
