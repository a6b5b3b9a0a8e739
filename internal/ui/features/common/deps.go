// Package common provides shared dependencies, layout and locale handling
// for UI features.
package common

import (
	"context"
	"log/slog"

	"github.com/gorilla/sessions"
	"github.com/leapstack-labs/sitecounts/internal/blocks"
	"github.com/leapstack-labs/sitecounts/internal/i18n"
	"github.com/leapstack-labs/sitecounts/internal/ui/notifier"
	"github.com/leapstack-labs/sitecounts/pkg/core"
)

// Deps are the collaborators every feature is built from.
type Deps struct {
	Store      core.ContentStore
	Blocks     *blocks.Registry
	Translator *i18n.Translator
	Sessions   sessions.Store
	Notifier   *notifier.Notifier
	Logger     *slog.Logger
	IsDev      bool
}

// Log returns the configured logger or a discarding one.
func (d Deps) Log() *slog.Logger {
	if d.Logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return d.Logger
}

// RenderBlock renders a registered block for a page view.
func (d Deps) RenderBlock(ctx context.Context, name string, attrs blocks.Attributes, block blocks.Context) string {
	if d.Blocks == nil {
		return ""
	}
	return d.Blocks.Render(ctx, name, attrs, "", block)
}
