// Package router sets up HTTP routes for the UI server.
package router

import (
	"net/http"
	"sync"

	"github.com/go-chi/chi/v5"
	blocksFeature "github.com/leapstack-labs/sitecounts/internal/ui/features/blocks"
	"github.com/leapstack-labs/sitecounts/internal/ui/features/common"
	homeFeature "github.com/leapstack-labs/sitecounts/internal/ui/features/home"
	localeFeature "github.com/leapstack-labs/sitecounts/internal/ui/features/locale"
	"github.com/leapstack-labs/sitecounts/internal/ui/resources"
	"github.com/starfederation/datastar-go/datastar"
)

// SetupRoutes configures all routes for the UI server.
func SetupRoutes(router chi.Router, deps common.Deps) error {
	// Hot reload endpoint for dev mode
	if deps.IsDev {
		setupReload(router)
	}

	router.Handle("/static/*", resources.Handler())

	if err := homeFeature.SetupRoutes(router, deps); err != nil {
		return err
	}

	if err := blocksFeature.SetupRoutes(router, deps); err != nil {
		return err
	}

	if err := localeFeature.SetupRoutes(router, deps); err != nil {
		return err
	}

	return nil
}

func setupReload(router chi.Router) {
	reloadChan := make(chan struct{}, 1)
	var hotReloadOnce sync.Once

	router.Get("/reload", func(w http.ResponseWriter, r *http.Request) {
		sse := datastar.NewSSE(w, r)
		reload := func() { _ = sse.ExecuteScript("window.location.reload()") }
		hotReloadOnce.Do(reload)
		select {
		case <-reloadChan:
			reload()
		case <-r.Context().Done():
		}
	})

	router.Get("/hotreload", func(w http.ResponseWriter, _ *http.Request) {
		select {
		case reloadChan <- struct{}{}:
		default:
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})
}
