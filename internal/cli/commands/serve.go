package commands

import (
	"context"
	"fmt"
	"os/exec"
	"runtime"

	"github.com/gorilla/securecookie"
	"github.com/leapstack-labs/sitecounts/internal/ui"
	"github.com/spf13/cobra"
)

// ServeOptions holds options for the serve command.
type ServeOptions struct {
	Port      int
	NoBrowser bool
	Watch     bool
}

// NewServeCommand creates the serve command.
func NewServeCommand() *cobra.Command {
	opts := &ServeOptions{}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the site with the block embedded",
		Long: `Start a local web server showing the front page and single post pages
with the site counts block embedded.

The server provides:
- Front page with recent posts
- Single post pages that pass the post id to the block
- Block fragments at /blocks/xwp/site-counts
- Live block updates when the fixtures file changes
- Language switching`,
		Example: `  # Start on the default port
  sitecounts serve

  # Start on a custom port, serving a fixtures file
  sitecounts serve --port 3000 --fixtures site.yaml

  # Start without auto-opening the browser
  sitecounts serve --no-browser`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd, opts)
		},
	}

	cmd.Flags().IntVar(&opts.Port, "port", 0, "Port to serve on (default: 8765)")
	cmd.Flags().BoolVar(&opts.NoBrowser, "no-browser", false, "Don't auto-open browser")
	cmd.Flags().BoolVar(&opts.Watch, "watch", true, "Re-apply the fixtures file when it changes")

	return cmd
}

func runServe(cmd *cobra.Command, opts *ServeOptions) error {
	cmdCtx := NewCommandContext(cmd)
	cfg := cmdCtx.Cfg
	logger := cmdCtx.Logger

	// CLI flags override config file
	port := cfg.UI.Port
	if opts.Port != 0 {
		port = opts.Port
	}

	autoOpen := cfg.UI.AutoOpen
	if opts.NoBrowser {
		autoOpen = false
	}

	watch := cfg.UI.Watch
	if cmd.Flags().Changed("watch") {
		watch = opts.Watch
	}

	site, err := cmdCtx.OpenSite(cmd.Context())
	if err != nil {
		return err
	}
	defer func() { _ = site.Close() }()

	secret := cfg.UI.SessionSecret
	if secret == "" {
		logger.Warn("no ui.session_secret configured, language choices reset on restart")
		secret = string(securecookie.GenerateRandomKey(32))
	}

	server := ui.NewServer(ui.Config{
		Store:         site.Store,
		Blocks:        site.Blocks,
		Translator:    site.Translator,
		Port:          port,
		SessionSecret: secret,
		Logger:        logger,
		Watch:         watch,
		FixturesPath:  cfg.Fixtures,
	})

	url := fmt.Sprintf("http://localhost:%d", port)
	if autoOpen {
		go openBrowser(url)
	}

	r := cmdCtx.Renderer
	r.Println("Serving site on " + url)
	r.Muted("Press Ctrl+C to stop")

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	return server.Serve(ctx)
}

// openBrowser opens the default browser to the specified URL.
func openBrowser(url string) {
	var cmd *exec.Cmd

	switch runtime.GOOS {
	case "darwin":
		cmd = exec.Command("open", url) //nolint:noctx
	case "linux":
		cmd = exec.Command("xdg-open", url) //nolint:noctx
	case "windows":
		cmd = exec.Command("rundll32", "url.dll,FileProtocolHandler", url) //nolint:noctx
	default:
		return
	}

	_ = cmd.Start()
}
