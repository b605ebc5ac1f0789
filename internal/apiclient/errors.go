package apiclient

import (
	"errors"
	"fmt"
)

// Kind classifies a failed backend call.
type Kind int

const (
	// KindNetwork covers transport failures: connection refused, timeouts, DNS.
	KindNetwork Kind = iota + 1
	// KindApplication covers responses the backend rejected or could not serve.
	KindApplication
	// KindUnauthorized is a missing, expired or rejected bearer token.
	KindUnauthorized
	// KindForbidden is a valid token without the required role.
	KindForbidden
)

func (k Kind) String() string {
	switch k {
	case KindNetwork:
		return "network"
	case KindApplication:
		return "application"
	case KindUnauthorized:
		return "unauthorized"
	case KindForbidden:
		return "forbidden"
	default:
		return "unknown"
	}
}

// Sentinel errors matched with errors.Is by callers.
var (
	ErrNetwork      = errors.New("network error occurred")
	ErrApplication  = errors.New("backend rejected request")
	ErrUnauthorized = errors.New("session expired. please login again")
	ErrForbidden    = errors.New("access denied")
)

const (
	msgAuthRequired = "Authentication required. Please login again."
	msgExpired      = "Session expired. Please login again."
	msgForbidden    = "Access denied. You do not have permission to perform this action."
	msgNetwork      = "Failed to connect to server"
)

// Error is returned for every failed call made through Client.
type Error struct {
	Kind    Kind
	Status  int
	Method  string
	Path    string
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("%s %s: %s failure", e.Method, e.Path, e.Kind)
}

// Unwrap exposes both the kind sentinel and the underlying cause.
func (e *Error) Unwrap() []error {
	errs := []error{e.sentinel()}
	if e.Err != nil {
		errs = append(errs, e.Err)
	}
	return errs
}

func (e *Error) sentinel() error {
	switch e.Kind {
	case KindNetwork:
		return ErrNetwork
	case KindUnauthorized:
		return ErrUnauthorized
	case KindForbidden:
		return ErrForbidden
	default:
		return ErrApplication
	}
}

// KindOf reports the kind of err, or 0 when err did not come from Client.
func KindOf(err error) Kind {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr.Kind
	}
	return 0
}

// Message returns the user facing text carried by err.
func Message(err error) string {
	if err == nil {
		return ""
	}
	var apiErr *Error
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}
	return err.Error()
}
