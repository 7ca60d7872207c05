package ai

import "fmt"

// ErrorKind classifies why an inference call did not produce text.
type ErrorKind string

const (
	KindUnreachable       ErrorKind = "unreachable"
	KindTimedOut          ErrorKind = "timed_out"
	KindBackendRejected   ErrorKind = "backend_rejected"
	KindUnexpected        ErrorKind = "unexpected"
	KindMalformedResponse ErrorKind = "malformed_response"
)

// Kinds lists every failure kind, in a stable order.
func Kinds() []ErrorKind {
	return []ErrorKind{
		KindUnreachable,
		KindTimedOut,
		KindBackendRejected,
		KindUnexpected,
		KindMalformedResponse,
	}
}

// Failure is the error half of an Outcome.
type Failure struct {
	Detail string    `json:"error"`
	Kind   ErrorKind `json:"kind"`
	// StatusCode is only set for KindBackendRejected.
	StatusCode int `json:"status_code,omitempty"`
}

func (f *Failure) Error() string {
	if f.StatusCode != 0 {
		return fmt.Sprintf("%s (%d): %s", f.Kind, f.StatusCode, f.Detail)
	}
	return fmt.Sprintf("%s: %s", f.Kind, f.Detail)
}
