package payment

import (
	"errors"
	"fmt"
)

// Sentinel errors for the two non-backend failure classes.
var (
	// ErrNoAuthToken means the session is missing or expired. The caller
	// must send the user back through sign-in.
	ErrNoAuthToken = errors.New("no valid auth token, please sign in again")

	// ErrUserCancelled means the user backed out of the hosted card
	// collection UI. Not an error to surface.
	ErrUserCancelled = errors.New("user cancelled")
)

// BackendError is a non-2xx or malformed response from the payment backend.
// NonJSON marks responses whose body was not JSON (typically an HTML error
// page from a missing route), which callers may treat differently from a
// structured backend rejection.
type BackendError struct {
	StatusCode int
	Body       string
	NonJSON    bool
}

func (e *BackendError) Error() string {
	if e.NonJSON {
		return fmt.Sprintf("payment backend returned a non-JSON response (status %d)", e.StatusCode)
	}
	return fmt.Sprintf("payment backend error (status %d): %s", e.StatusCode, e.Body)
}

// ProcessorError is a decline from the payment processor itself; its message
// is shown to the user verbatim.
type ProcessorError struct {
	Message string
}

func (e *ProcessorError) Error() string {
	return e.Message
}

// ConfigError is a backend configuration problem (for example a redirect-URL
// misconfiguration) that needs operator action rather than a retry.
type ConfigError struct {
	Message string
}

func (e *ConfigError) Error() string {
	return "payment configuration error: " + e.Message
}
