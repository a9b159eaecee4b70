// Package apierr holds the error taxonomy shared by the REST adapter, the query cache and the pages.
package apierr

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sort"
	"strings"
)

// GenericMessage is shown when the server gives no usable reason.
const GenericMessage = "Something went wrong. Please try again."

// ErrStaleWrite is reserved for a future version check before PATCH. Writes are last-write-wins today.
var ErrStaleWrite = errors.New("record was modified by another actor")

// NetworkError is a transport failure: the request never produced an HTTP response.
type NetworkError struct {
	Method string
	Path   string
	Err    error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("network error on %s %s: %v", e.Method, e.Path, e.Err)
}

func (e *NetworkError) Unwrap() error { return e.Err }

// ServerRejection is any 4xx/5xx answer.
type ServerRejection struct {
	StatusCode  int
	Message     string
	FieldErrors map[string][]string
}

func (e *ServerRejection) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("HTTP error %d", e.StatusCode)
	}
	return fmt.Sprintf("HTTP error %d: %s", e.StatusCode, e.Message)
}

func (e *ServerRejection) Retryable() bool {
	return e.StatusCode == http.StatusTooManyRequests || e.StatusCode >= 500
}

func (e *ServerRejection) NotFound() bool {
	return e.StatusCode == http.StatusNotFound
}

// ValidationError is produced client side from the form schema and never reaches the network.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	names := make([]string, 0, len(e.Fields))
	for name := range e.Fields {
		names = append(names, name)
	}
	sort.Strings(names)

	parts := make([]string, 0, len(names))
	for _, name := range names {
		parts = append(parts, name+": "+e.Fields[name])
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// ParseRejection builds a ServerRejection from a response body. It understands
// {"detail": ...}, {"message": ...}, {"error": ...} and field maps like {"name": ["required"]}.
func ParseRejection(statusCode int, body []byte) *ServerRejection {
	rejection := &ServerRejection{StatusCode: statusCode}

	var payload map[string]json.RawMessage
	if err := json.Unmarshal(body, &payload); err != nil {
		return rejection
	}

	for _, key := range []string{"detail", "message", "error"} {
		raw, ok := payload[key]
		if !ok {
			continue
		}
		var text string
		if err := json.Unmarshal(raw, &text); err == nil && text != "" {
			rejection.Message = text
			return rejection
		}
	}

	fields := make(map[string][]string)
	for key, raw := range payload {
		var messages []string
		if err := json.Unmarshal(raw, &messages); err == nil && len(messages) > 0 {
			fields[key] = messages
			continue
		}
		var text string
		if err := json.Unmarshal(raw, &text); err == nil && text != "" {
			fields[key] = []string{text}
		}
	}
	if len(fields) == 0 {
		return rejection
	}

	names := make([]string, 0, len(fields))
	for name := range fields {
		names = append(names, name)
	}
	sort.Strings(names)
	rejection.FieldErrors = fields
	rejection.Message = names[0] + ": " + fields[names[0]][0]
	return rejection
}

// IsRetryable reports whether a failed fetch may be attempted again.
func IsRetryable(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}

	var rejection *ServerRejection
	if errors.As(err, &rejection) {
		return rejection.Retryable()
	}

	var networkErr *NetworkError
	return errors.As(err, &networkErr)
}

// UserMessage is the text a notification shows for err.
func UserMessage(err error) string {
	var rejection *ServerRejection
	if errors.As(err, &rejection) && rejection.Message != "" {
		return rejection.Message
	}

	var validationErr *ValidationError
	if errors.As(err, &validationErr) {
		return validationErr.Error()
	}

	return GenericMessage
}
