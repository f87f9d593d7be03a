package api

import (
	"net/http"

	"github.com/phrazzld/account-service/internal/api/shared"
	"github.com/phrazzld/account-service/internal/domain"
	"github.com/phrazzld/account-service/internal/service"
)

// UserHandler handles user-related HTTP requests
type UserHandler struct {
	userService    service.UserService
	accountService service.AccountService
}

// NewUserHandler creates a new UserHandler. accountService serves the
// /users/{id}/accounts alias.
func NewUserHandler(userService service.UserService, accountService service.AccountService) *UserHandler {
	return &UserHandler{
		userService:    userService,
		accountService: accountService,
	}
}

// ListUsers handles GET /users
func (h *UserHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.userService.List(r.Context())
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, usersToResponse(users))
}

// RegisterUser handles POST /users/register
func (h *UserHandler) RegisterUser(w http.ResponseWriter, r *http.Request) {
	var req RegisterUserRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	user, err := h.userService.Register(r.Context(), req.Name)
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}
	shared.RespondWithJSON(w, r, http.StatusCreated, userToResponse(user))
}

// GetUser handles GET /users/{id}
func (h *UserHandler) GetUser(w http.ResponseWriter, r *http.Request) {
	id, err := getPathUUID(r, "id")
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}

	user, err := h.userService.GetByID(r.Context(), id)
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, userToResponse(user))
}

// UpdateUserName handles PUT /users/{id}/name
func (h *UserHandler) UpdateUserName(w http.ResponseWriter, r *http.Request) {
	id, err := getPathUUID(r, "id")
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}

	var req UpdateUserNameRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	var user *domain.User
	if req.Version != nil {
		user, err = h.userService.UpdateNameAt(r.Context(), id, req.Name, *req.Version)
	} else {
		user, err = h.userService.UpdateName(r.Context(), id, req.Name)
	}
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, userToResponse(user))
}

// DeleteUser handles DELETE /users/{id}
func (h *UserHandler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	id, err := getPathUUID(r, "id")
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}

	if err := h.userService.Delete(r.Context(), id); err != nil {
		HandleAPIError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ListUserAccounts handles GET /users/{id}/accounts
func (h *UserHandler) ListUserAccounts(w http.ResponseWriter, r *http.Request) {
	id, err := getPathUUID(r, "id")
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}

	accounts, err := h.accountService.ListByUser(r.Context(), id)
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, accountsToResponse(accounts))
}
