package locale

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/leapstack-labs/sitecounts/internal/ui/features/common"
)

// Handlers provides HTTP handlers for the locale feature.
type Handlers struct {
	deps common.Deps
}

// NewHandlers creates a new Handlers instance.
func NewHandlers(deps common.Deps) *Handlers {
	return &Handlers{deps: deps}
}

// Select stores the supported locale closest to {tag} in the session and
// sends the visitor back to ?redirect=, a local path, or the front page.
func (h *Handlers) Select(w http.ResponseWriter, r *http.Request) {
	requested := chi.URLParam(r, "tag")
	locale := requested
	if h.deps.Translator != nil {
		locale = h.deps.Translator.Match(requested).String()
	}

	if err := common.SaveLocale(w, r, h.deps.Sessions, locale); err != nil {
		h.deps.Log().Error("failed to save locale", "locale", locale, "error", err)
		http.Error(w, "failed to save locale", http.StatusInternalServerError)
		return
	}
	h.deps.Log().Debug("locale selected", "requested", requested, "locale", locale)

	http.Redirect(w, r, redirectTarget(r.URL.Query().Get("redirect")), http.StatusSeeOther)
}

// redirectTarget only allows same-site absolute paths.
func redirectTarget(target string) string {
	if !strings.HasPrefix(target, "/") || strings.HasPrefix(target, "//") || strings.HasPrefix(target, "/\\") {
		return "/"
	}
	return target
}
