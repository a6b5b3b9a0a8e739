package commands

import (
	"runtime"
	"strings"

	"github.com/leapstack-labs/sitecounts/internal/blocks/sitecounts"
	"github.com/leapstack-labs/sitecounts/internal/cli/output"
	"github.com/spf13/cobra"
)

// VersionInfo identifies a build.
type VersionInfo struct {
	Version   string
	GitCommit string
	BuildDate string
}

// NewVersionCommand creates the version command.
func NewVersionCommand(info VersionInfo) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Long: `Print the SiteCounts version, the commit and date it was built from,
the Go toolchain, and the blocks this build can render.`,
		Example: `  # Show the version
  sitecounts version

  # Machine-readable build info
  sitecounts version --output json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runVersion(cmd, info)
		},
	}
}

func runVersion(cmd *cobra.Command, info VersionInfo) error {
	r := NewCommandContext(cmd).Renderer

	v := output.VersionOutput{
		Version:   info.Version,
		Commit:    info.GitCommit,
		BuildDate: info.BuildDate,
		GoVersion: runtime.Version(),
		Blocks:    []string{sitecounts.Name},
	}

	title := "SiteCounts v" + v.Version
	switch r.EffectiveMode() {
	case output.ModeJSON:
		return r.JSON(v)
	case output.ModeText:
		r.Header(1, title)
		r.Printf("  %-8s %s\n", "Commit", v.Commit)
		r.Printf("  %-8s %s\n", "Built", v.BuildDate)
		r.Printf("  %-8s %s\n", "Go", v.GoVersion)
		r.Printf("  %-8s %s\n", "Blocks", strings.Join(v.Blocks, ", "))
	default:
		r.Println(output.FormatHeader(1, title))
		r.Println("")
		r.Println(output.FormatKeyValue("Commit", v.Commit))
		r.Println(output.FormatKeyValue("Built", v.BuildDate))
		r.Println(output.FormatKeyValue("Go", v.GoVersion))
		r.Println(output.FormatKeyValue("Blocks", strings.Join(v.Blocks, ", ")))
	}
	return nil
}
