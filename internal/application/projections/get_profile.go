package projections

import (
	"context"

	"timetable/internal/adapters/backend"
	"timetable/internal/application/gateway"
	"timetable/internal/domain/user"
)

// ProfileView is the current user's profile page.
type ProfileView struct {
	User  *user.User
	Error string
}

// QueryProfile fetches the account behind the session.
// PRE: none
// POST: User is nil whenever Error is set
func QueryProfile(ctx context.Context, deps Deps) gateway.Result {
	u, msg, redirect := gateway.Load[*user.User](ctx, deps.Session, deps.Backend, gateway.LoadRequest{
		Path:     "/user/me",
		Messages: backend.LoadMessages("user"),
	})
	if redirect != nil {
		return redirect
	}
	if msg != "" {
		u = nil
	}
	return &gateway.Render{Data: ProfileView{User: u, Error: msg}}
}
