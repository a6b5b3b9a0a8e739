// Package blocks serves rendered block fragments and the list of registered
// blocks.
package blocks

import (
	"github.com/go-chi/chi/v5"
	"github.com/leapstack-labs/sitecounts/internal/ui/features/common"
)

// SetupRoutes registers block routes on the router.
func SetupRoutes(router chi.Router, deps common.Deps) error {
	handlers := NewHandlers(deps)

	router.Get("/blocks", handlers.List)
	router.Get("/blocks/{namespace}/{name}", handlers.Fragment)

	return nil
}
