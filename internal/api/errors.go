package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
)

// ErrNotFound reports a 404 from an id-addressed endpoint.
var ErrNotFound = errors.New("item not found")

// StatusError is a non-2xx response, with the server's message when the
// body carried one.
type StatusError struct {
	StatusCode int
	Message    string
}

func (e *StatusError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("server returned %d: %s", e.StatusCode, e.Message)
	}
	return fmt.Sprintf("server returned %d", e.StatusCode)
}

// ValidationError is a 4xx rejection of a create or update payload.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return "invalid item payload"
}

// errorBody is the shape the API uses for error responses.
type errorBody struct {
	Message string `json:"message"`
	Error   string `json:"error"`
}

// serverMessage pulls a human-readable message out of an error body, if any.
func serverMessage(body []byte) string {
	var eb errorBody
	if err := json.Unmarshal(body, &eb); err != nil {
		return ""
	}
	if eb.Message != "" {
		return eb.Message
	}
	return eb.Error
}

// statusToError maps a non-2xx response to the taxonomy. idAddressed turns
// 404 into ErrNotFound; mutating turns remaining 4xx into ValidationError
// (the server rejected the payload).
func statusToError(status int, body []byte, idAddressed, mutating bool) error {
	if idAddressed && status == http.StatusNotFound {
		return ErrNotFound
	}
	msg := serverMessage(body)
	if mutating && status >= 400 && status < 500 {
		return &ValidationError{Message: msg}
	}
	return &StatusError{StatusCode: status, Message: msg}
}
