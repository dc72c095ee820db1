package projections

import "timetable/internal/application/gateway"

// Deps holds the per-request session and the backend every query reads through.
type Deps struct {
	Session gateway.Session
	Backend gateway.Backend
}
