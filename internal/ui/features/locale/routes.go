// Package locale lets visitors pick the language pages are rendered in.
package locale

import (
	"github.com/go-chi/chi/v5"
	"github.com/leapstack-labs/sitecounts/internal/ui/features/common"
)

// SetupRoutes registers locale routes on the router.
func SetupRoutes(router chi.Router, deps common.Deps) error {
	handlers := NewHandlers(deps)

	router.Get("/locale/{tag}", handlers.Select)

	return nil
}
