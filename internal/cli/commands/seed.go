package commands

import (
	"fmt"
	"strconv"

	"github.com/leapstack-labs/sitecounts/internal/cli/output"
	"github.com/spf13/cobra"
)

// NewSeedCommand creates the seed command.
func NewSeedCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "seed <file>",
		Short: "Load content from a fixtures file",
		Long: `Load content types and posts from a YAML fixtures file into the state
database.

Posts are keyed by their GUID, derived from type and slug when the file
does not give one, so seeding the same file twice changes nothing.

Output adapts to environment:
  - Terminal: Styled, colored output
  - Piped/Scripted: Markdown format (agent-friendly)

Use --output to override: auto, text, markdown, json`,
		Example: `  # Load fixtures into the default state database
  sitecounts seed site.yaml

  # Load into a specific database as JSON output
  sitecounts seed site.yaml --state ./data/state.db --output json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSeed(cmd, args[0])
		},
	}

	return cmd
}

func runSeed(cmd *cobra.Command, path string) error {
	cmdCtx := NewCommandContext(cmd)
	r := cmdCtx.Renderer

	store, err := cmdCtx.OpenStore(cmd.Context())
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	res, err := applyFixturesFile(cmd.Context(), store, path, cmdCtx.Logger)
	if err != nil {
		return err
	}

	switch r.EffectiveMode() {
	case output.ModeJSON:
		return r.JSON(output.SeedOutput{
			File:         path,
			ContentTypes: res.ContentTypes,
			Posts:        res.Posts,
		})
	case output.ModeText:
		r.Success(fmt.Sprintf("Loaded %d content types and %d posts from %s", res.ContentTypes, res.Posts, path))
		r.Muted("State saved to " + cmdCtx.Cfg.StatePath)
	default:
		r.Println(output.FormatHeader(1, "Seed"))
		r.Println("")
		r.Println(output.FormatKeyValue("File", path))
		r.Println(output.FormatKeyValue("Content Types", strconv.Itoa(res.ContentTypes)))
		r.Println(output.FormatKeyValue("Posts", strconv.Itoa(res.Posts)))
		r.Println(output.FormatKeyValue("State Path", cmdCtx.Cfg.StatePath))
	}
	return nil
}
