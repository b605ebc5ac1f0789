// Package httpx provides HTTP response utilities.
package httpx

import (
	"errors"
	"net/http"

	"github.com/pharmacare/pharmacy-web/internal/apiclient"
)

// Sentinel errors for domain layer.
var (
	ErrNotFound    = errors.New("resource not found")
	ErrValidation  = errors.New("validation failed")
	ErrUnavailable = errors.New("service unavailable")
)

// RespondError maps domain and backend errors to HTTP responses using RFC7807.
func RespondError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrNotFound):
		Problem(w, http.StatusNotFound, "Not Found", err.Error())
	case errors.Is(err, ErrValidation):
		Problem(w, http.StatusUnprocessableEntity, "Validation Failed", err.Error())
	case errors.Is(err, ErrUnavailable):
		Problem(w, http.StatusServiceUnavailable, "Unavailable", err.Error())
	case errors.Is(err, apiclient.ErrUnauthorized):
		Problem(w, http.StatusUnauthorized, "Unauthorized", apiclient.Message(err))
	case errors.Is(err, apiclient.ErrForbidden):
		Problem(w, http.StatusForbidden, "Forbidden", apiclient.Message(err))
	case errors.Is(err, apiclient.ErrNetwork), errors.Is(err, apiclient.ErrApplication):
		Problem(w, http.StatusBadGateway, "Backend Error", apiclient.Message(err))
	default:
		Problem(w, http.StatusInternalServerError, "Internal Error", "")
	}
}
