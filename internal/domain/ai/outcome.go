package ai

import "encoding/json"

// Outcome is the result of a single inference call: either generated text or
// a classified Failure.
type Outcome struct {
	text    string
	failure *Failure
}

// Success wraps generated text.
func Success(text string) Outcome {
	return Outcome{text: text}
}

// Fail builds a failed outcome of the given kind.
func Fail(kind ErrorKind, detail string) Outcome {
	return Outcome{failure: &Failure{Kind: kind, Detail: detail}}
}

// Rejected builds a KindBackendRejected outcome carrying the HTTP status.
func Rejected(statusCode int, detail string) Outcome {
	return Outcome{failure: &Failure{Kind: KindBackendRejected, Detail: detail, StatusCode: statusCode}}
}

func (o Outcome) OK() bool { return o.failure == nil }

// Text returns the generated text and whether the call succeeded.
func (o Outcome) Text() (string, bool) {
	if o.failure != nil {
		return "", false
	}
	return o.text, true
}

// Failure returns nil for successful outcomes.
func (o Outcome) Failure() *Failure { return o.failure }

// MarshalJSON renders success as a bare string and failure as an error object.
func (o Outcome) MarshalJSON() ([]byte, error) {
	if o.failure != nil {
		return json.Marshal(o.failure)
	}
	return json.Marshal(o.text)
}
