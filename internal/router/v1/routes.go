package v1

import (
	"net/http"

	"github.com/evyataryagoni/geoconsole/internal/handler"
	"github.com/go-chi/chi/v5"
)

// SetupRoutes configures all v1 API routes
// This function is called by the main router to setup /v1/* endpoints
//
// Parameters:
//   - consoleHandler: the console JSON handler
//   - bulkLimit: extra rate limiting for the test-data helpers (optional, can be nil)
//
// Returns:
//   - chi.Router: configured v1 router
func SetupRoutes(consoleHandler *handler.ConsoleHandler, bulkLimit func(http.Handler) http.Handler) chi.Router {
	r := chi.NewRouter()

	// Console state
	r.Get("/session", consoleHandler.GetSession)
	r.Post("/query", consoleHandler.Query)
	r.Get("/page/{n}", consoleHandler.GoToPage)
	r.Delete("/records/{id}", consoleHandler.DeleteRecord)
	r.Get("/export", consoleHandler.Export)

	// Test-data helpers
	r.Get("/count", consoleHandler.Count)
	r.Group(func(r chi.Router) {
		// Each call inserts or deletes tens of thousands of records
		if bulkLimit != nil {
			r.Use(bulkLimit)
		}
		r.Post("/insert", consoleHandler.Insert)
		r.Post("/delete-random", consoleHandler.DeleteRandom)
	})

	return r
}
