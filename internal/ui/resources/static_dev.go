//go:build dev

package resources

import (
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"runtime"
)

// Dev reports whether assets are served from disk for hot reloading.
const Dev = true

// staticDir locates static/ next to this source file, wherever the binary runs.
func staticDir() string {
	_, filename, _, ok := runtime.Caller(0)
	if !ok {
		return StaticDirectoryPath
	}
	return filepath.Join(filepath.Dir(filename), "static")
}

// Handler serves static files straight from the filesystem.
func Handler() http.Handler {
	dir := staticDir()
	slog.Info("static assets served from filesystem", "path", dir)
	return http.StripPrefix("/static/", http.FileServer(http.FS(os.DirFS(dir))))
}
