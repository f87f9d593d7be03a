package api

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/phrazzld/account-service/internal/api/shared"
	"github.com/phrazzld/account-service/internal/domain"
)

// getPathUUID extracts a UUID from the URL path parameters.
// A missing or malformed value yields a *domain.ValidationError for paramName.
func getPathUUID(r *http.Request, paramName string) (uuid.UUID, error) {
	pathParam := chi.URLParam(r, paramName)
	if pathParam == "" {
		return uuid.Nil, domain.NewValidationError(paramName, "Path parameter is required")
	}

	id, err := uuid.Parse(pathParam)
	if err != nil {
		return uuid.Nil, domain.NewValidationError(paramName, "Must be a valid UUID")
	}

	return id, nil
}

// getPathInt64 extracts a positive integer ID from the URL path parameters.
func getPathInt64(r *http.Request, paramName string) (int64, error) {
	pathParam := chi.URLParam(r, paramName)
	if pathParam == "" {
		return 0, domain.NewValidationError(paramName, "Path parameter is required")
	}

	id, err := strconv.ParseInt(pathParam, 10, 64)
	if err != nil || id <= 0 {
		return 0, domain.NewValidationError(paramName, "Must be a positive integer")
	}

	return id, nil
}

// decodeAndValidate decodes the body into req and runs the struct tags.
// It writes the error response and returns false on failure.
func decodeAndValidate(w http.ResponseWriter, r *http.Request, req interface{}) bool {
	if err := shared.DecodeJSON(w, r, req); err != nil {
		HandleAPIError(w, r, err)
		return false
	}
	if fields := shared.ValidateRequest(req); fields != nil {
		shared.RespondWithValidationErrors(w, r, fields)
		return false
	}
	return true
}
