package api

import (
	"encoding/json"
	"errors"
	"fmt"
)

// GenericMessage is shown when a failure carries no usable
// backend-provided message.
const GenericMessage = "request failed, please try again"

// TransportError means the backend could not be reached at all.
type TransportError struct {
	Err error
}

func (e *TransportError) Error() string {
	return "transport: " + e.Err.Error()
}

func (e *TransportError) Unwrap() error { return e.Err }

// BackendError is a non-2xx response from the backend, with the
// message extracted from its body when one was present.
type BackendError struct {
	Status  int
	Message string
}

func (e *BackendError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("backend: status %d", e.Status)
	}

	return fmt.Sprintf("backend: status %d: %s", e.Status, e.Message)
}

// Message resolves any error returned by the client into a string fit
// for showing to the user.
func Message(err error) string {
	var backendErr *BackendError
	if errors.As(err, &backendErr) && backendErr.Message != "" {
		return backendErr.Message
	}

	return GenericMessage
}

// newBackendError extracts the message from an error body. Different
// backend endpoints use different field names for it.
func newBackendError(status int, body []byte) *BackendError {
	var payload struct {
		Error   string `json:"error"`
		Msg     string `json:"msg"`
		Message string `json:"message"`
	}
	_ = json.Unmarshal(body, &payload)

	msg := payload.Error
	if msg == "" {
		msg = payload.Msg
	}
	if msg == "" {
		msg = payload.Message
	}

	return &BackendError{Status: status, Message: msg}
}
