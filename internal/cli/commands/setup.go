package commands

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/leapstack-labs/sitecounts/internal/blocks"
	"github.com/leapstack-labs/sitecounts/internal/blocks/sitecounts"
	"github.com/leapstack-labs/sitecounts/internal/cli/output"
	"github.com/leapstack-labs/sitecounts/internal/config"
	"github.com/leapstack-labs/sitecounts/internal/i18n"
	"github.com/leapstack-labs/sitecounts/internal/state"
	"github.com/spf13/cobra"
)

// CommandContext holds common dependencies for CLI commands.
type CommandContext struct {
	Cfg      *config.Config
	Logger   *slog.Logger
	Renderer *output.Renderer
}

// NewCommandContext reads the config and logger stored on the command
// context and builds a renderer for the configured output mode.
func NewCommandContext(cmd *cobra.Command) *CommandContext {
	cfg := config.FromContext(cmd.Context())
	return &CommandContext{
		Cfg:      cfg,
		Logger:   config.GetLogger(cmd.Context()),
		Renderer: output.NewRenderer(cmd.OutOrStdout(), cmd.ErrOrStderr(), output.Mode(cfg.OutputFormat)),
	}
}

// Site is an opened content store with the site counts block registered.
type Site struct {
	Store      *state.SQLiteStore
	Translator *i18n.Translator
	Blocks     *blocks.Registry
	Block      *sitecounts.Block
}

// Close closes the content store.
func (s *Site) Close() error {
	return s.Store.Close()
}

// OpenStore opens the state database and applies the configured fixtures.
func (c *CommandContext) OpenStore(ctx context.Context) (*state.SQLiteStore, error) {
	if c.Cfg.StatePath != ":memory:" {
		stateDir := filepath.Dir(c.Cfg.StatePath)
		if stateDir != "." && stateDir != "" {
			if err := os.MkdirAll(stateDir, 0750); err != nil {
				return nil, fmt.Errorf("failed to create state directory: %w", err)
			}
		}
	}

	store := state.NewSQLiteStore(c.Logger, state.WithPostsPerPage(c.Cfg.Query.PostsPerPage))
	if err := store.Open(c.Cfg.StatePath); err != nil {
		return nil, err
	}

	if c.Cfg.Fixtures != "" {
		if _, err := applyFixturesFile(ctx, store, c.Cfg.Fixtures, c.Logger); err != nil {
			_ = store.Close()
			return nil, err
		}
	}
	return store, nil
}

// OpenSite opens the store and registers the site counts block against it.
func (c *CommandContext) OpenSite(ctx context.Context) (*Site, error) {
	store, err := c.OpenStore(ctx)
	if err != nil {
		return nil, err
	}

	translator, err := i18n.New()
	if err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("failed to load translations: %w", err)
	}

	registry := blocks.NewRegistry(c.Logger)
	block := sitecounts.New(store, store, translator, c.Logger)
	if err := block.Register(registry); err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("failed to register block: %w", err)
	}

	return &Site{
		Store:      store,
		Translator: translator,
		Blocks:     registry,
		Block:      block,
	}, nil
}

func applyFixturesFile(ctx context.Context, store *state.SQLiteStore, path string, logger *slog.Logger) (state.FixtureResult, error) {
	f, err := state.LoadFixtures(path)
	if err != nil {
		return state.FixtureResult{}, err
	}
	res, err := state.ApplyFixtures(ctx, store, f, logger)
	if err != nil {
		return res, fmt.Errorf("failed to apply fixtures %s: %w", path, err)
	}
	return res, nil
}
