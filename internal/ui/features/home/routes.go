// Package home provides the public pages: the front page, single posts and
// their live block updates.
package home

import (
	"github.com/go-chi/chi/v5"
	"github.com/leapstack-labs/sitecounts/internal/ui/features/common"
)

// SetupRoutes configures routes for the home feature.
func SetupRoutes(router chi.Router, deps common.Deps) error {
	handlers := NewHandlers(deps)

	router.Get("/", handlers.HomePage)
	router.Get("/posts/{id}", handlers.PostPage)
	router.Get("/updates", handlers.Updates)

	return nil
}
