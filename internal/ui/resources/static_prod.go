//go:build !dev

package resources

import (
	"embed"
	"io/fs"
	"net/http"
)

// Dev reports whether assets are served from disk for hot reloading.
const Dev = false

//go:embed static/*
var staticFS embed.FS

// Handler serves the embedded static files with long-lived caching.
func Handler() http.Handler {
	fsys, _ := fs.Sub(staticFS, "static")
	fileServer := http.StripPrefix("/static/", http.FileServer(http.FS(fsys)))

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Cache-Control", "public, max-age=31536000, immutable")
		fileServer.ServeHTTP(w, r)
	})
}
