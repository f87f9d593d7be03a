package api

import (
	"errors"
	"net/http"

	"github.com/phrazzld/account-service/internal/api/shared"
	"github.com/phrazzld/account-service/internal/domain"
	"github.com/phrazzld/account-service/internal/service"
	"github.com/phrazzld/account-service/internal/store"
)

// MapErrorToStatusCode maps internal errors to appropriate HTTP status codes
// based on the error type. This prevents leaking internal error types or
// messages to clients.
func MapErrorToStatusCode(err error) int {
	var notFound *service.NotFoundError

	switch {
	case errors.As(err, &notFound), store.IsNotFoundError(err):
		return http.StatusNotFound

	case errors.Is(err, domain.ErrValidation),
		errors.Is(err, shared.ErrMalformedBody):
		return http.StatusBadRequest

	case errors.Is(err, store.ErrVersionConflict):
		return http.StatusConflict

	default:
		return http.StatusInternalServerError
	}
}

// GetSafeErrorMessage returns a sanitized, user-friendly error message
// based on the error type. This prevents leaking sensitive internal details.
func GetSafeErrorMessage(err error) string {
	if err == nil {
		return "An unexpected error occurred"
	}

	var notFound *service.NotFoundError

	switch {
	// NotFoundError messages only carry the entity and the requested ID.
	case errors.As(err, &notFound):
		return notFound.Error()

	case errors.Is(err, store.ErrUserNotFound):
		return "User not found"

	case errors.Is(err, store.ErrAccountNotFound):
		return "Account not found"

	case errors.Is(err, store.ErrVersionConflict):
		return "User was modified concurrently; reload it and retry"

	case errors.Is(err, shared.ErrMalformedBody):
		return "Request body must be valid JSON"

	default:
		return "An unexpected error occurred"
	}
}

// HandleAPIError writes the response for a failed request.
//
//   - validation failures: 400 with a field -> message object
//   - not found: 404 {"error", "trace_id"}
//   - version conflicts: 409 {"error", "trace_id"}
//   - anything else: 500 with a generic message; details are only logged
func HandleAPIError(w http.ResponseWriter, r *http.Request, err error) {
	if fields := domain.FieldErrors(err); len(fields) > 0 {
		shared.RespondWithValidationErrors(w, r, fields)
		return
	}
	if errors.Is(err, shared.ErrMalformedBody) {
		shared.RespondWithValidationErrors(w, r, map[string]string{"body": GetSafeErrorMessage(err)})
		return
	}

	shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
}
