package projections

import "log/slog"

type validator interface {
	Validate() error
}

// validOnly returns the entries that pass their domain checks.
// Dropped entries are logged; the input slice is left untouched.
func validOnly[T validator](resource string, items []T) []T {
	if len(items) == 0 {
		return items
	}
	out := make([]T, 0, len(items))
	for i, item := range items {
		if checkEntry(resource, i, item) {
			out = append(out, item)
		}
	}
	return out
}

// flagInvalid logs entries that fail their domain checks but keeps them all.
// Listings show whatever the backend holds.
func flagInvalid[T validator](resource string, items []T) {
	for i, item := range items {
		checkEntry(resource, i, item)
	}
}

func checkEntry(resource string, index int, v validator) bool {
	if err := v.Validate(); err != nil {
		slog.Warn("backend_event", "event", "invalid_entry", "resource", resource, "index", index, "error", err)
		return false
	}
	return true
}
