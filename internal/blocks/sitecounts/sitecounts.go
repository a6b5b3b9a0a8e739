// Package sitecounts implements the Site Counts dynamic block.
//
// On every render the block reads the published count of each public content
// type, the current post id from the block context, and a fixed filtered post
// query, then prints them as an HTML fragment. It owns no state: every render
// reads fresh from the host's catalog and query engine.
package sitecounts

import (
	"bytes"
	"context"
	"embed"
	"log/slog"

	"github.com/leapstack-labs/sitecounts/internal/blocks"
	"github.com/leapstack-labs/sitecounts/internal/i18n"
	"github.com/leapstack-labs/sitecounts/pkg/core"
)

// Name is the registered block name.
const Name = "xwp/site-counts"

//go:embed block.json
var metadata embed.FS

// Block renders the site counts summary.
type Block struct {
	catalog    core.Catalog
	querier    core.PostQuerier
	translator *i18n.Translator
	logger     *slog.Logger
}

// New creates the block. A nil translator renders untranslated English and a
// nil logger discards output.
func New(catalog core.Catalog, querier core.PostQuerier, translator *i18n.Translator, logger *slog.Logger) *Block {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Block{
		catalog:    catalog,
		querier:    querier,
		translator: translator,
		logger:     logger.With("block", Name),
	}
}

// Register declares the block from its embedded metadata and binds Render.
func (b *Block) Register(reg *blocks.Registry) error {
	_, err := reg.RegisterFromMetadata(metadata, ".", b.Render)
	return err
}

// Render is the block's render callback.
func (b *Block) Render(ctx context.Context, attrs blocks.Attributes, _ string, block blocks.Context) string {
	report := b.BuildReport(ctx, attrs, block)

	var buf bytes.Buffer
	if err := View(report, b.translator.PrinterFor(ctx)).Render(ctx, &buf); err != nil {
		b.logger.Error("failed to render block", "error", err)
		return ""
	}
	return buf.String()
}
