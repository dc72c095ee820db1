package web

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"timetable/internal/application/orchestrators"
)

// timeNow is a variable for testability.
var timeNow = time.Now

// Perf snapshot defaults for /debug/perf.
const (
	defaultPerfWindow = 15 * time.Minute
	defaultPerfTopN   = 10
)

// pageOnly serves a read-only page.
func (a *App) pageOnly(v view) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet && r.Method != http.MethodHead {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		a.show(w, r, v, http.StatusOK, nil)
	}
}

// pageWithAction serves a form page on GET and runs its action on POST.
func (a *App) pageWithAction(v view, action formAction) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet, http.MethodHead:
			a.show(w, r, v, http.StatusOK, nil)
		case http.MethodPost:
			a.runAction(w, r, v, action)
		default:
			w.WriteHeader(http.StatusMethodNotAllowed)
		}
	}
}

// actionOnly runs a POST-only action; a failure re-renders v.
func (a *App) actionOnly(v view, action formAction) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		a.runAction(w, r, v, action)
	}
}

func (a *App) runAction(w http.ResponseWriter, r *http.Request, v view, action formAction) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid form submission", http.StatusBadRequest)
		return
	}
	a.dispatch(w, r, v, action(r.Context(), r.PostForm, a.orchestratorDeps(w, r)))
}

// handleLogin handles GET (form) and POST (authenticate) for /.
func (a *App) handleLogin(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}

	switch r.Method {
	case http.MethodGet, http.MethodHead:
		// Already logged in: go straight to the timetables.
		if _, ok := a.session(w, r).Token(); ok {
			http.Redirect(w, r, orchestrators.AfterLoginRoute, http.StatusSeeOther)
			return
		}
		a.show(w, r, loginView, http.StatusOK, nil)
	case http.MethodPost:
		if err := r.ParseForm(); err != nil {
			http.Error(w, "Invalid form submission", http.StatusBadRequest)
			return
		}
		res := orchestrators.ExecuteLogin(r.Context(), orchestrators.LoginInput{Form: r.PostForm}, orchestrators.LoginDeps{
			Session: a.session(w, r),
			Backend: a.backend,
		})
		a.dispatch(w, r, loginView, res)
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

// handleLogout handles POST /logout.
func (a *App) handleLogout(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	a.dispatch(w, r, loginView, orchestrators.ExecuteLogout(r.Context(), a.orchestratorDeps(w, r)))
}

// handleHealth reports liveness. It never calls the backend.
func (a *App) handleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "ok",
		"version": a.version,
		"time":    timeNow().UTC().Format(time.RFC3339),
	})
}

// handlePerf returns the perf collector snapshot as JSON.
// Query parameters: minutes (window, default 15) and top (default 10).
func (a *App) handlePerf(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	if a.collector == nil {
		http.Error(w, "perf collector disabled", http.StatusNotFound)
		return
	}

	window := defaultPerfWindow
	if m, err := strconv.Atoi(r.URL.Query().Get("minutes")); err == nil && m > 0 {
		window = time.Duration(m) * time.Minute
	}
	top := defaultPerfTopN
	if n, err := strconv.Atoi(r.URL.Query().Get("top")); err == nil && n > 0 {
		top = n
	}
	writeJSON(w, http.StatusOK, a.collector.Snapshot(timeNow().Add(-window), top))
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("internal_error", "error", err.Error())
	}
}
