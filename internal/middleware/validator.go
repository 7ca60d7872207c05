package middleware

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
)

// ValidationError is returned for request bodies that do not match the
// expected schema. Handlers answer it with 422.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Reason
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

// TextRequest is the body shared by the text endpoints.
type TextRequest struct {
	Text *string `json:"text"`
	TopN int     `json:"top_n,omitempty"`
}

// DecodeTextRequest reads a JSON body with a required "text" string. The text
// itself is not altered or checked; any string, including "", is accepted.
func DecodeTextRequest(r *http.Request, maxBytes int64) (TextRequest, error) {
	var req TextRequest
	body := io.Reader(r.Body)
	if maxBytes > 0 {
		body = io.LimitReader(r.Body, maxBytes+1)
	}
	data, err := io.ReadAll(body)
	if err != nil {
		return req, &ValidationError{Reason: fmt.Sprintf("read body: %v", err)}
	}
	if maxBytes > 0 && int64(len(data)) > maxBytes {
		return req, &ValidationError{Reason: fmt.Sprintf("body exceeds %d bytes", maxBytes)}
	}
	if err := json.Unmarshal(data, &req); err != nil {
		var typeErr *json.UnmarshalTypeError
		if errors.As(err, &typeErr) {
			return req, &ValidationError{Field: typeErr.Field, Reason: "wrong type, expected " + typeErr.Type.String()}
		}
		return req, &ValidationError{Reason: fmt.Sprintf("invalid JSON body: %v", err)}
	}
	if req.Text == nil {
		return req, &ValidationError{Field: "text", Reason: "field required"}
	}
	if req.TopN < 0 {
		return req, &ValidationError{Field: "top_n", Reason: "must not be negative"}
	}
	return req, nil
}

// ValidateTopN clamps the number of keyphrases a caller may ask for.
func ValidateTopN(n int) int {
	if n <= 0 {
		return 0
	}
	if n > 50 {
		return 50
	}
	return n
}
