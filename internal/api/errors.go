package api

import "fmt"

// The error taxonomy at the client boundary. Every failure is recoverable
// by retrying the user action; nothing here is fatal.

// ValidationError reports missing or invalid user input. It is raised
// before any network call and must block the action.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string {
	return "validation: " + e.Reason
}

// NetworkError reports a transport failure or timeout. The caller keeps
// its prior state; there is no automatic retry.
type NetworkError struct {
	Err error
}

func (e *NetworkError) Error() string {
	return "network: " + e.Err.Error()
}

func (e *NetworkError) Unwrap() error {
	return e.Err
}

// BackendError reports a non-2xx response, or a 2xx envelope with
// success=false. Message carries the backend's own message when the body
// had one, else a generic HTTP-status fallback, and is shown to the user
// verbatim.
type BackendError struct {
	Status  int
	Message string
}

func (e *BackendError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("backend: %s", e.Message)
	}
	return fmt.Sprintf("backend: HTTP %d", e.Status)
}
