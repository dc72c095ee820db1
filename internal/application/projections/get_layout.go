package projections

import (
	"context"
	"log/slog"

	"timetable/internal/adapters/backend"
	"timetable/internal/application/gateway"
	"timetable/internal/domain/user"
)

// LayoutQuery carries the path being rendered.
type LayoutQuery struct {
	Path string
}

// LayoutView is the data every page's chrome needs.
type LayoutView struct {
	IsAuthenticated bool
	IsLoginPage     bool
	CurrentUser     *user.User
}

// QueryLayout resolves the current user for the page chrome.
// Only the login page may be viewed without a token. An expired token is
// cleared and redirected; any other /user/me failure, or a user without an
// email, leaves CurrentUser nil.
// PRE: none
// POST: Returns *gateway.Render with LayoutView, or a 302 to the login page
func QueryLayout(ctx context.Context, query LayoutQuery, deps Deps) gateway.Result {
	view := LayoutView{IsLoginPage: query.Path == gateway.LoginRoute}
	token, ok := deps.Session.Token()
	if !ok {
		if view.IsLoginPage {
			return &gateway.Render{Data: view}
		}
		return gateway.ToLogin()
	}
	view.IsAuthenticated = true

	f := gateway.Fetch[user.User](ctx, deps.Backend, token, gateway.LoadRequest{
		Path:     "/user/me",
		Messages: backend.LoadMessages("user"),
	})
	switch {
	case f.Expired:
		gateway.Expire(deps.Session, query.Path)
		return gateway.ToLogin()
	case f.Message != "":
		slog.Warn("layout_event", "event", "current_user_unavailable", "error", f.Message)
	default:
		if err := f.Value.Validate(); err != nil {
			slog.Warn("layout_event", "event", "current_user_invalid", "error", err)
			break
		}
		u := f.Value
		view.CurrentUser = &u
	}
	return &gateway.Render{Data: view}
}
