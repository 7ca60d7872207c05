// Package ai holds the failure classification shared by the inference
// adapters. Every adapter funnels its errors through these helpers so the
// taxonomy stays identical whichever backend is configured.
package ai

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/url"
	"strings"
	"syscall"
	"time"

	domai "github.com/bryanwahyu/textlens/internal/domain/ai"
)

// PlaceholderText is returned under a success outcome when a lenient client
// gets a well-formed body without generated content.
const PlaceholderText = "No response content returned."

const maxDetailBody = 256

// ClassifyTransport maps an error from sending the request or reading the
// response body to a failure outcome.
func ClassifyTransport(err error, backend string, timeout time.Duration) domai.Outcome {
	switch {
	case isTimeout(err):
		return domai.Fail(domai.KindTimedOut, fmt.Sprintf(
			"inference backend at %s did not respond within %s; try again later", backend, timeout))
	case isUnreachable(err):
		return domai.Fail(domai.KindUnreachable, fmt.Sprintf(
			"cannot connect to inference backend at %s; make sure the model server is running (e.g. `ollama serve`)", backend))
	case IsDecodeError(err):
		return Malformed(err)
	default:
		return domai.Fail(domai.KindUnexpected, fmt.Sprintf("inference request failed: %v", err))
	}
}

// Rejected builds the outcome for a non-2xx backend status.
func Rejected(statusCode int, message string) domai.Outcome {
	message = strings.TrimSpace(message)
	if len(message) > maxDetailBody {
		message = message[:maxDetailBody] + "..."
	}
	detail := fmt.Sprintf("inference backend returned HTTP %d", statusCode)
	if message != "" {
		detail += ": " + message
	}
	return domai.Rejected(statusCode, detail)
}

// Malformed builds the outcome for a body that could not be parsed.
func Malformed(err error) domai.Outcome {
	return domai.Fail(domai.KindMalformedResponse, fmt.Sprintf("failed to parse inference response: %v", err))
}

// MissingContent handles a parsed body without generated text.
func MissingContent(strict bool, field string) domai.Outcome {
	if !strict {
		return domai.Success(PlaceholderText)
	}
	return domai.Fail(domai.KindMalformedResponse, fmt.Sprintf("failed to parse inference response: missing %q field", field))
}

// IsDecodeError reports whether err came from decoding a JSON body.
func IsDecodeError(err error) bool {
	var syntaxErr *json.SyntaxError
	var typeErr *json.UnmarshalTypeError
	return errors.As(err, &syntaxErr) ||
		errors.As(err, &typeErr) ||
		errors.Is(err, io.ErrUnexpectedEOF)
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}

func isUnreachable(err error) bool {
	if errors.Is(err, syscall.ECONNREFUSED) || errors.Is(err, syscall.EHOSTUNREACH) || errors.Is(err, syscall.ENETUNREACH) {
		return true
	}
	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		return true
	}
	var opErr *net.OpError
	if errors.As(err, &opErr) && opErr.Op == "dial" {
		return true
	}
	var urlErr *url.Error
	if errors.As(err, &urlErr) && strings.Contains(strings.ToLower(urlErr.Error()), "connection refused") {
		return true
	}
	return false
}
