package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	apiMiddleware "github.com/phrazzld/account-service/internal/api/middleware"
	"github.com/phrazzld/account-service/internal/api/shared"
	"github.com/phrazzld/account-service/internal/service"
)

// NewRouter creates the HTTP router with every route and the standard
// middleware chain.
func NewRouter(
	userService service.UserService,
	accountService service.AccountService,
	logger *slog.Logger,
) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(apiMiddleware.Trace(logger))
	r.Use(middleware.Recoverer)

	userHandler := NewUserHandler(userService, accountService)
	accountHandler := NewAccountHandler(accountService)

	r.Route("/users", func(r chi.Router) {
		r.Get("/", userHandler.ListUsers)
		r.Post("/register", userHandler.RegisterUser)
		r.Get("/{id}", userHandler.GetUser)
		r.Put("/{id}/name", userHandler.UpdateUserName)
		r.Delete("/{id}", userHandler.DeleteUser)
		r.Get("/{id}/accounts", userHandler.ListUserAccounts)
	})

	r.Route("/accounts", func(r chi.Router) {
		r.Get("/", accountHandler.ListAccounts)
		r.Post("/", accountHandler.CreateAccount)
		r.Get("/user/{userId}", accountHandler.ListAccountsByUser)
		r.Get("/{id}", accountHandler.GetAccount)
		r.Put("/{id}/name", accountHandler.UpdateAccountName)
		r.Put("/{id}/balance", accountHandler.UpdateAccountBalance)
		r.Delete("/{id}", accountHandler.DeleteAccount)
	})

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		shared.RespondWithText(w, http.StatusOK, "OK")
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		shared.RespondWithError(w, r, http.StatusNotFound, "Resource not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		shared.RespondWithError(w, r, http.StatusMethodNotAllowed, "Method not allowed")
	})

	return r
}
