package orchestrators

import (
	"context"

	"timetable/internal/adapters/backend"
	"timetable/internal/application/gateway"
)

// DeleteInput carries the ID posted by a listing's delete button.
type DeleteInput struct {
	ID string
}

func deletion(label, noun, path, listing string, input DeleteInput) gateway.DeleteRequest {
	return gateway.DeleteRequest{
		Resource: label,
		Path:     path,
		ID:       input.ID,
		Messages: backend.DeleteMessages(noun),
		Success:  label + " deleted successfully",
		Listing:  listing,
	}
}

// ExecuteDeleteCollege deletes a college.
// PRE: none
// POST: Returns a 303 to /college with a notification unless the token or ID is missing
func ExecuteDeleteCollege(ctx context.Context, input DeleteInput, deps Deps) gateway.Result {
	return gateway.Delete(ctx, deps.Session, deps.Backend, deletion("College", "college", "/college/", "/college", input))
}

// ExecuteDeleteDepartment deletes a department.
// PRE: none
// POST: Returns a 303 to /department with a notification unless the token or ID is missing
func ExecuteDeleteDepartment(ctx context.Context, input DeleteInput, deps Deps) gateway.Result {
	return gateway.Delete(ctx, deps.Session, deps.Backend, deletion("Department", "department", "/department/", "/department", input))
}

// ExecuteDeleteTimetable deletes a timetable. Backend failures are reported
// through an error notification like every other delete.
// PRE: none
// POST: Returns a 303 to /timetable with a notification unless the token or ID is missing
func ExecuteDeleteTimetable(ctx context.Context, input DeleteInput, deps Deps) gateway.Result {
	return gateway.Delete(ctx, deps.Session, deps.Backend, deletion("Timetable", "timetable", "/timetable/", "/timetable", input))
}
