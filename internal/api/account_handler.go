package api

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/phrazzld/account-service/internal/api/shared"
	"github.com/phrazzld/account-service/internal/domain"
	"github.com/phrazzld/account-service/internal/service"
)

// AccountHandler handles account-related HTTP requests
type AccountHandler struct {
	accountService service.AccountService
}

// NewAccountHandler creates a new AccountHandler
func NewAccountHandler(accountService service.AccountService) *AccountHandler {
	return &AccountHandler{accountService: accountService}
}

// ListAccounts handles GET /accounts?sortBy=&sortOrder=
func (h *AccountHandler) ListAccounts(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	accounts, err := h.accountService.List(r.Context(), q.Get("sortBy"), q.Get("sortOrder"))
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, accountsToResponse(accounts))
}

// GetAccount handles GET /accounts/{id}
func (h *AccountHandler) GetAccount(w http.ResponseWriter, r *http.Request) {
	id, err := getPathInt64(r, "id")
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}

	account, err := h.accountService.GetByID(r.Context(), id)
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, accountToResponse(account))
}

// CreateAccount handles POST /accounts
func (h *AccountHandler) CreateAccount(w http.ResponseWriter, r *http.Request) {
	var req CreateAccountRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	userID, err := uuid.Parse(req.UserID)
	if err != nil {
		HandleAPIError(w, r, domain.NewValidationError("userId", "Must be a valid UUID"))
		return
	}

	account, err := h.accountService.Create(r.Context(), req.Name, *req.Balance, userID)
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}
	shared.RespondWithJSON(w, r, http.StatusCreated, accountToResponse(account))
}

// UpdateAccountName handles PUT /accounts/{id}/name
func (h *AccountHandler) UpdateAccountName(w http.ResponseWriter, r *http.Request) {
	id, err := getPathInt64(r, "id")
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}

	var req UpdateAccountNameRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	account, err := h.accountService.UpdateName(r.Context(), id, req.Name)
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, accountToResponse(account))
}

// UpdateAccountBalance handles PUT /accounts/{id}/balance
func (h *AccountHandler) UpdateAccountBalance(w http.ResponseWriter, r *http.Request) {
	id, err := getPathInt64(r, "id")
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}

	var req UpdateAccountBalanceRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	account, err := h.accountService.UpdateBalance(r.Context(), id, *req.Balance)
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, accountToResponse(account))
}

// DeleteAccount handles DELETE /accounts/{id}
func (h *AccountHandler) DeleteAccount(w http.ResponseWriter, r *http.Request) {
	id, err := getPathInt64(r, "id")
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}

	if err := h.accountService.Delete(r.Context(), id); err != nil {
		HandleAPIError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ListAccountsByUser handles GET /accounts/user/{userId}
func (h *AccountHandler) ListAccountsByUser(w http.ResponseWriter, r *http.Request) {
	userID, err := getPathUUID(r, "userId")
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}

	accounts, err := h.accountService.ListByUser(r.Context(), userID)
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, accountsToResponse(accounts))
}
