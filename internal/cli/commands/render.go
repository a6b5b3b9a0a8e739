package commands

import (
	"fmt"
	"strings"

	htmltomarkdown "github.com/JohannesKaufmann/html-to-markdown/v2"
	"github.com/leapstack-labs/sitecounts/internal/blocks"
	"github.com/leapstack-labs/sitecounts/internal/blocks/sitecounts"
	"github.com/leapstack-labs/sitecounts/internal/cli/output"
	"github.com/leapstack-labs/sitecounts/internal/i18n"
	"github.com/spf13/cobra"
)

// RenderOptions holds options for the render command.
type RenderOptions struct {
	PostID    int64
	ClassName string
}

// NewRenderCommand creates the render command.
func NewRenderCommand() *cobra.Command {
	opts := &RenderOptions{}

	cmd := &cobra.Command{
		Use:   "render",
		Short: "Render the site counts block",
		Long: `Render the site counts block the way a page would embed it.

Output adapts to environment:
  - Terminal: Markdown converted from the block markup
  - Piped/Scripted: The raw HTML fragment

Use --output to override: html, markdown, json`,
		Example: `  # Render the block with no current post
  sitecounts render

  # Render as seen on post 12 with an extra class
  sitecounts render --post-id 12 --class-name is-style-wide

  # Render in German as markdown
  sitecounts render --locale de --output markdown`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runRender(cmd, opts)
		},
	}

	cmd.Flags().Int64Var(&opts.PostID, "post-id", 0, "Current post id passed in the block context")
	cmd.Flags().StringVar(&opts.ClassName, "class-name", "", "Extra CSS class for the block wrapper")

	return cmd
}

func runRender(cmd *cobra.Command, opts *RenderOptions) error {
	cmdCtx := NewCommandContext(cmd)
	r := cmdCtx.Renderer

	site, err := cmdCtx.OpenSite(cmd.Context())
	if err != nil {
		return err
	}
	defer func() { _ = site.Close() }()

	locale := cmdCtx.Cfg.Locale
	ctx := i18n.WithLocale(cmd.Context(), locale)

	attrs := blocks.Attributes{}
	if opts.ClassName != "" {
		attrs["className"] = opts.ClassName
	}
	blockCtx := blocks.Context{}
	if opts.PostID != 0 {
		blockCtx["postId"] = opts.PostID
	}

	markup := site.Blocks.Render(ctx, sitecounts.Name, attrs, "", blockCtx)

	switch renderMode(r) {
	case output.ModeJSON:
		return r.JSON(output.RenderOutput{
			Block:  sitecounts.Name,
			Locale: site.Translator.Match(locale).String(),
			HTML:   markup,
		})
	case output.ModeMarkdown:
		md, err := htmltomarkdown.ConvertString(markup)
		if err != nil {
			return fmt.Errorf("failed to convert block to markdown: %w", err)
		}
		r.Println(strings.TrimSpace(md))
	default:
		r.Println(markup)
	}
	return nil
}

// renderMode maps the output mode onto what render can print. Auto shows
// markdown to people and HTML to pipes.
func renderMode(r *output.Renderer) output.Mode {
	switch r.Mode() {
	case output.ModeJSON, output.ModeHTML:
		return r.Mode()
	case output.ModeMarkdown, output.ModeText:
		return output.ModeMarkdown
	}
	if r.IsTTY() {
		return output.ModeMarkdown
	}
	return output.ModeHTML
}
