package orchestrators

import "timetable/internal/application/gateway"

// Deps holds the per-request session and the backend actions write through.
type Deps struct {
	Session gateway.Session
	Backend gateway.Backend
}
