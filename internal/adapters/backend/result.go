package backend

// MaxBodyBytes caps how much of a backend response body is read.
const MaxBodyBytes = 1 << 20

// RawResult is everything a backend call produced.
// Exactly one of (StatusCode > 0) or (Err != nil) describes the outcome:
// a response was received, or the call failed before one arrived.
type RawResult struct {
	StatusCode int
	Status     string
	Body       []byte
	Err        error
}

// Transport reports whether the call failed without an HTTP response.
func (r RawResult) Transport() bool {
	return r.Err != nil
}
