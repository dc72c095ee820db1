package web

import (
	"bytes"
	"embed"
	"errors"
	"html/template"
	"log/slog"
	"net/http"

	"github.com/gorilla/csrf"

	"timetable/internal/adapters/http/middleware"
	"timetable/internal/application/gateway"
	"timetable/internal/application/orchestrators"
	"timetable/internal/application/projections"
	"timetable/internal/domain/form"
	"timetable/internal/domain/notification"
)

//go:embed templates/*.html
var templateFS embed.FS

// pageData is what every template executes against.
type pageData struct {
	Layout projections.LayoutView
	Notice *notification.Notification
	Data   any
	Form   formState
}

// formState carries a failed action back into the page.
type formState struct {
	Values  form.Values
	Errors  form.FieldErrors
	Message string
}

// Value returns the submitted value for a field.
func (f formState) Value(name string) string {
	return f.Values[name]
}

// Error returns the field's validation message.
func (f formState) Error(name string) string {
	return f.Errors[name]
}

// session returns the request's session, falling back to one read directly
// from the cookie when Auth did not run.
func (a *App) session(w http.ResponseWriter, r *http.Request) *middleware.CookieSession {
	if sess, ok := middleware.GetSessionFromContext(r.Context()); ok {
		return sess
	}
	return middleware.NewCookieSession(w, r, a.secure)
}

func (a *App) projectionDeps(w http.ResponseWriter, r *http.Request) projections.Deps {
	return projections.Deps{Session: a.session(w, r), Backend: a.backend}
}

func (a *App) orchestratorDeps(w http.ResponseWriter, r *http.Request) orchestrators.Deps {
	return orchestrators.Deps{Session: a.session(w, r), Backend: a.backend}
}

// show runs the layout and page loads for v and renders the page.
// A non-nil failure is rendered into the page's form state with its status.
func (a *App) show(w http.ResponseWriter, r *http.Request, v view, status int, failure *gateway.Failure) {
	deps := a.projectionDeps(w, r)
	path := r.URL.Path
	if v.public {
		path = gateway.LoginRoute
	}

	var layout projections.LayoutView
	switch res := projections.QueryLayout(r.Context(), projections.LayoutQuery{Path: path}, deps).(type) {
	case *gateway.Render:
		layout, _ = res.Data.(projections.LayoutView)
	default:
		a.dispatch(w, r, v, res)
		return
	}

	switch res := v.load(r.Context(), r, deps).(type) {
	case *gateway.Render:
		data := pageData{Layout: layout, Data: res.Data}
		if failure != nil {
			data.Form = formState{Values: failure.Values, Errors: failure.FieldErrors, Message: failure.Message}
		}
		a.render(w, r, v.template, status, data)
	default:
		a.dispatch(w, r, v, res)
	}
}

// dispatch interprets a Result. It is the only place a Result becomes a response.
func (a *App) dispatch(w http.ResponseWriter, r *http.Request, v view, res gateway.Result) {
	switch res := res.(type) {
	case *gateway.Render:
		a.show(w, r, v, http.StatusOK, nil)
	case *gateway.Redirect:
		a.redirect(w, r, res)
	case *gateway.Failure:
		switch {
		case errors.Is(res, gateway.ErrUnauthenticated) && !v.public:
			a.renderError(w, r, res.Status, res.Message)
		case !isGatewayError(res):
			internalError(w, res.Err)
		default:
			a.show(w, r, v, res.Status, res)
		}
	default:
		internalError(w, errors.New("unknown result type"))
	}
}

// isGatewayError reports whether err is one of the gateway's expected outcomes.
func isGatewayError(err error) bool {
	for _, target := range []error{
		gateway.ErrUnauthenticated,
		gateway.ErrSessionExpired,
		gateway.ErrValidationFailed,
		gateway.ErrUpstreamFailure,
		gateway.ErrNotFound,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

// redirect stores the notification, if any, then redirects.
func (a *App) redirect(w http.ResponseWriter, r *http.Request, res *gateway.Redirect) {
	if res.Notice != nil {
		if err := a.flash.Set(w, r, *res.Notice); err != nil {
			slog.Error("flash_event", "event", "set_failed", "error", err)
		}
	}
	http.Redirect(w, r, res.Target, res.Status)
}

// render executes the layout and page templates. The pending notification
// is consumed here, so it shows on exactly one render.
func (a *App) render(w http.ResponseWriter, r *http.Request, name string, status int, data pageData) {
	if n, ok := a.flash.Consume(w, r); ok {
		data.Notice = &n
	}

	tpl, err := template.New("layout.html").Funcs(funcMap(r, data.Layout)).ParseFS(templateFS, "templates/layout.html", "templates/"+name)
	if err != nil {
		internalError(w, err)
		return
	}
	var buf bytes.Buffer
	if err := tpl.Execute(&buf, data); err != nil {
		internalError(w, err)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}

// renderError shows the error page without loading anything from the backend.
func (a *App) renderError(w http.ResponseWriter, r *http.Request, status int, message string) {
	a.render(w, r, "error.html", status, pageData{Form: formState{Message: message}})
}

func funcMap(r *http.Request, layout projections.LayoutView) template.FuncMap {
	return template.FuncMap{
		"csrfField":   func() template.HTML { return csrf.TemplateField(r) },
		"isLoggedIn":  func() bool { return layout.IsAuthenticated },
		"currentUser": func() string {
			if layout.CurrentUser == nil {
				return ""
			}
			return layout.CurrentUser.DisplayName()
		},
		"isError": func(n *notification.Notification) bool { return n != nil && n.IsError() },
	}
}

// internalError logs the real error and returns a generic message to the client.
func internalError(w http.ResponseWriter, err error) {
	slog.Error("internal_error", "error", err.Error())
	http.Error(w, "internal server error", http.StatusInternalServerError)
}
