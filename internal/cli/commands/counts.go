package commands

import (
	"fmt"
	"strconv"

	"github.com/leapstack-labs/sitecounts/internal/cli/output"
	"github.com/leapstack-labs/sitecounts/internal/i18n"
	"github.com/spf13/cobra"
)

// NewCountsCommand creates the counts command.
func NewCountsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "counts",
		Short: "Show published counts per public content type",
		Long: `Show how many published items each public content type holds,
with the labels the block would print.

Output adapts to environment:
  - Terminal: Table
  - Piped/Scripted: Markdown table
  - JSON: Machine-readable format`,
		Example: `  # Show counts
  sitecounts counts

  # Show counts with French labels as JSON
  sitecounts counts --locale fr --output json`,
		Args: cobra.NoArgs,
		RunE: runCounts,
	}

	return cmd
}

func runCounts(cmd *cobra.Command, _ []string) error {
	cmdCtx := NewCommandContext(cmd)
	r := cmdCtx.Renderer

	site, err := cmdCtx.OpenSite(cmd.Context())
	if err != nil {
		return err
	}
	defer func() { _ = site.Close() }()

	ctx := i18n.WithLocale(cmd.Context(), cmdCtx.Cfg.Locale)
	printer := site.Translator.PrinterFor(ctx)

	typeCounts, ok := site.Block.Counts(ctx)
	if !ok {
		return fmt.Errorf("failed to list content types")
	}

	counts := make([]output.TypeCount, 0, len(typeCounts))
	for _, tc := range typeCounts {
		counts = append(counts, output.TypeCount{
			Slug:      tc.Slug,
			Label:     printer.Text(tc.Label),
			Published: tc.Published,
		})
	}

	switch r.EffectiveMode() {
	case output.ModeJSON:
		return r.JSON(output.CountsOutput{
			Locale: printer.Tag().String(),
			Types:  counts,
		})
	case output.ModeText:
		r.Header(1, printer.Text("Post Counts"))
	default:
		r.Println(output.FormatHeader(1, printer.Text("Post Counts")))
		r.Println("")
	}

	rows := make([][]string, 0, len(counts))
	for _, tc := range counts {
		rows = append(rows, []string{tc.Slug, tc.Label, strconv.Itoa(tc.Published)})
	}
	r.Table([]string{"Type", "Label", "Published"}, rows)
	return nil
}
