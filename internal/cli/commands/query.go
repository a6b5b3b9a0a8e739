package commands

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/leapstack-labs/sitecounts/internal/blocks/sitecounts"
	"github.com/leapstack-labs/sitecounts/internal/cli/output"
	"github.com/leapstack-labs/sitecounts/pkg/core"
	"github.com/spf13/cobra"
)

// QueryOptions holds options for the query command.
type QueryOptions struct {
	Args  string
	Input string
}

// NewQueryCommand creates the query command.
func NewQueryCommand() *cobra.Command {
	opts := &QueryOptions{}

	cmd := &cobra.Command{
		Use:   "query",
		Short: "Run the block's filtered post query",
		Long: `Run a content query against the state database and list the matches.

Without arguments the block's own filtered query runs: posts and pages in
any status, tagged foo and in category baz, dated between 09:00 and 17:59.
Query args the parser does not recognize are listed as ignored; they have
no effect on the result.

--args takes a JSON object of WP_Query-style arguments instead.`,
		Example: `  # Run the block's filtered query
  sitecounts query

  # Run a custom query
  sitecounts query --args '{"post_type": "page", "posts_per_page": 3}'

  # Read the args from a file, output JSON
  sitecounts query --input args.json --output json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runQuery(cmd, opts)
		},
	}

	cmd.Flags().StringVar(&opts.Args, "args", "", "Query args as a JSON object")
	cmd.Flags().StringVarP(&opts.Input, "input", "i", "", "Read the query args JSON from a file")

	return cmd
}

// queryArgs returns the args to run: --args, --input, or the block's query.
func queryArgs(opts *QueryOptions) (core.QueryArgs, error) {
	raw := opts.Args
	if opts.Input != "" {
		data, err := os.ReadFile(opts.Input)
		if err != nil {
			return nil, fmt.Errorf("failed to read query args: %w", err)
		}
		raw = string(data)
	}
	if raw == "" {
		return sitecounts.FilteredQueryArgs(), nil
	}

	var args core.QueryArgs
	if err := json.Unmarshal([]byte(raw), &args); err != nil {
		return nil, fmt.Errorf("failed to parse query args: %w", err)
	}
	return args, nil
}

func runQuery(cmd *cobra.Command, opts *QueryOptions) error {
	cmdCtx := NewCommandContext(cmd)
	r := cmdCtx.Renderer

	args, err := queryArgs(opts)
	if err != nil {
		return err
	}
	q, err := core.ParseQueryArgs(args)
	if err != nil {
		return err
	}

	store, err := cmdCtx.OpenStore(cmd.Context())
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	posts, err := store.QueryPosts(cmd.Context(), q)
	if err != nil {
		return err
	}

	result := output.QueryOutput{
		Args:    args,
		Ignored: q.Ignored,
		Posts:   make([]output.QueryPost, 0, len(posts)),
	}
	if result.Ignored == nil {
		result.Ignored = []string{}
	}
	for _, p := range posts {
		result.Posts = append(result.Posts, queryPost(p))
	}

	switch r.EffectiveMode() {
	case output.ModeJSON:
		return r.JSON(result)
	case output.ModeText:
		queryText(r, result)
	default:
		queryMarkdown(r, result)
	}
	return nil
}
