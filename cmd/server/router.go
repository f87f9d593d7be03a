package main

import (
	"net/http"

	"github.com/phrazzld/account-service/internal/api"
)

// setupRouter creates the HTTP handler for the application's services.
func (app *application) setupRouter() http.Handler {
	return api.NewRouter(app.userService, app.accountService, app.logger)
}
