package main

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/leapstack-labs/sitecounts/internal/cli"
	"github.com/leapstack-labs/sitecounts/internal/config"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// commandGroup is a section of the CLI index.
type commandGroup struct {
	Title    string
	Intro    string
	Commands []string
}

// commandGroups orders the index by what each command works on. Commands
// missing here are listed under "Other".
var commandGroups = []commandGroup{
	{"Content", "Load the content store and inspect what the block reads from it.", []string{"seed", "counts", "query"}},
	{"Block", "Render the site counts block outside of a page.", []string{"render"}},
	{"Site", "Serve pages that embed the block.", []string{"serve"}},
	{"Shell", "", []string{"version", "completion"}},
}

// outputModes describes what --output produces for commands that honor it.
var outputModes = map[string][][]string{
	"render": {
		{"auto", "Markdown on a terminal, the HTML fragment when piped"},
		{"html", "The HTML fragment exactly as a page embeds it"},
		{"markdown", "The fragment converted to markdown"},
		{"json", "Block name, matched locale and HTML"},
	},
	"counts": {
		{"auto", "A table on a terminal, a markdown table when piped"},
		{"json", "Slug, translated label and published count per type"},
	},
	"query": {
		{"auto", "A table on a terminal, markdown when piped"},
		{"json", "Parsed args, ignored keys and matching posts"},
	},
	"seed": {
		{"auto", "A one-line summary on a terminal, markdown when piped"},
		{"json", "File, content types and posts written"},
	},
}

// generateCLIDocs writes the CLI index and one page per command.
func generateCLIDocs(outDir string) error {
	log.Printf("Generating CLI docs to %s", outDir)

	if err := os.MkdirAll(outDir, 0750); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	root := cli.NewRootCmd()
	cmds := visibleCommands(root)

	if err := writeDoc(outDir, "index.md", cliIndex(root, cmds)); err != nil {
		return err
	}
	for _, cmd := range cmds {
		if err := writeDoc(outDir, cmd.Name()+".md", commandPage(cmd)); err != nil {
			return err
		}
	}
	return nil
}

func writeDoc(outDir, name string, w *MarkdownWriter) error {
	if err := os.WriteFile(filepath.Join(outDir, name), w.Bytes(), 0600); err != nil {
		return fmt.Errorf("failed to write %s: %w", name, err)
	}
	log.Printf("  Generated %s", name)
	return nil
}

// visibleCommands returns the documented subcommands of root.
func visibleCommands(root *cobra.Command) []*cobra.Command {
	var cmds []*cobra.Command
	for _, cmd := range root.Commands() {
		if cmd.Hidden || cmd.Name() == "help" || cmd.Name() == "__complete" {
			continue
		}
		cmds = append(cmds, cmd)
	}
	return cmds
}

// groupCommands buckets cmds by commandGroups, keeping group order.
func groupCommands(cmds []*cobra.Command) []commandGroup {
	byName := make(map[string]*cobra.Command, len(cmds))
	for _, cmd := range cmds {
		byName[cmd.Name()] = cmd
	}

	var groups []commandGroup
	seen := make(map[string]bool)
	for _, g := range commandGroups {
		var names []string
		for _, name := range g.Commands {
			if _, ok := byName[name]; ok {
				names = append(names, name)
				seen[name] = true
			}
		}
		if len(names) > 0 {
			groups = append(groups, commandGroup{Title: g.Title, Intro: g.Intro, Commands: names})
		}
	}

	var other []string
	for _, cmd := range cmds {
		if !seen[cmd.Name()] {
			other = append(other, cmd.Name())
		}
	}
	if len(other) > 0 {
		groups = append(groups, commandGroup{Title: "Other", Commands: other})
	}
	return groups
}

func cliIndex(root *cobra.Command, cmds []*cobra.Command) *MarkdownWriter {
	w := NewMarkdownWriter()
	w.Frontmatter("CLI Reference", "Command-line interface reference for "+root.Name())
	w.GeneratedMarker()

	w.Header(1, "CLI Reference")
	w.Paragraph(root.Long)
	w.CodeBlock("bash", "go install github.com/leapstack-labs/sitecounts/cmd/sitecounts@latest")

	byName := make(map[string]*cobra.Command, len(cmds))
	for _, cmd := range cmds {
		byName[cmd.Name()] = cmd
	}
	for _, g := range groupCommands(cmds) {
		w.Header(2, g.Title)
		if g.Intro != "" {
			w.Paragraph(g.Intro)
		}
		var rows [][]string
		for _, name := range g.Commands {
			rows = append(rows, []string{
				fmt.Sprintf("[%s](/cli/%s)", InlineCode(name), name),
				cleanDescription(byName[name].Short),
			})
		}
		w.Table([]string{"Command", "Description"}, rows)
	}

	w.Header(2, "Global Options")
	w.Paragraph(fmt.Sprintf("Every option backed by a config key can also be set in %s or through its environment variable. "+
		"Flags win over environment variables, which win over the file.", InlineCode(config.ConfigFileName)))
	w.Table([]string{"Option", "Config key", "Environment", "Description"}, globalFlagRows(root.PersistentFlags()))

	w.Header(2, "Exit Codes")
	w.Table([]string{"Code", "Meaning"}, [][]string{
		{InlineCode("0"), "Success"},
		{InlineCode("1"), "Error, printed to stderr as " + InlineCode("Error: ...")},
	})
	return w
}

// globalFlagRows pairs each persistent flag with the config key and
// environment variable behind it.
func globalFlagRows(flags *pflag.FlagSet) [][]string {
	var rows [][]string
	flags.VisitAll(func(f *pflag.Flag) {
		if f.Hidden {
			return
		}
		key, env := "-", "-"
		if k, ok := config.FlagKey(f.Name); ok {
			key, env = InlineCode(k), InlineCode(config.EnvVar(k))
		}
		rows = append(rows, []string{flagName(f), key, env, cleanDescription(f.Usage)})
	})
	return rows
}

func commandPage(cmd *cobra.Command) *MarkdownWriter {
	w := NewMarkdownWriter()
	w.Frontmatter(cmd.Name(), cmd.Short)
	w.GeneratedMarker()

	w.Header(1, cmd.Name())
	if cmd.Long != "" {
		w.Paragraph(cmd.Long)
	} else {
		w.Paragraph(cmd.Short)
	}

	w.Header(2, "Usage")
	w.CodeBlock("bash", cmd.UseLine())

	if len(cmd.ValidArgs) > 0 {
		w.Header(2, "Arguments")
		args := slices.Clone(cmd.ValidArgs)
		for i, a := range args {
			args[i] = InlineCode(a)
		}
		w.BulletList(args)
	}

	if cmd.HasLocalFlags() {
		w.Header(2, "Options")
		var rows [][]string
		cmd.LocalFlags().VisitAll(func(f *pflag.Flag) {
			if f.Hidden {
				return
			}
			rows = append(rows, []string{flagName(f), f.Value.Type(), flagDefault(f), cleanDescription(f.Usage)})
		})
		w.Table([]string{"Option", "Type", "Default", "Description"}, rows)
	}

	if modes, ok := outputModes[cmd.Name()]; ok {
		w.Header(2, "Output")
		rows := make([][]string, 0, len(modes))
		for _, m := range modes {
			rows = append(rows, []string{InlineCode("--output " + m[0]), m[1]})
		}
		w.Table([]string{"Mode", "Result"}, rows)
	}

	if cmd.HasInheritedFlags() {
		var names []string
		cmd.InheritedFlags().VisitAll(func(f *pflag.Flag) {
			if !f.Hidden {
				names = append(names, InlineCode("--"+f.Name))
			}
		})
		w.Paragraph(fmt.Sprintf("Also accepts the [global options](/cli/) %s.", strings.Join(names, ", ")))
	}

	if cmd.Example != "" {
		w.Header(2, "Examples")
		w.CodeBlock("bash", dedent(cmd.Example))
	}

	if cmd.Name() == "render" {
		w.Header(2, "Block")
		w.Paragraph("The rendered block lists the published count of every public content type, " +
			"the current post id when " + InlineCode("--post-id") + " is positive, and the posts tagged " +
			InlineCode("foo") + " in category " + InlineCode("baz") + " published between 09:00 and 17:59.")
	}
	return w
}

func flagName(f *pflag.Flag) string {
	name := InlineCode("--" + f.Name)
	if f.Shorthand != "" {
		name += ", " + InlineCode("-"+f.Shorthand)
	}
	return name
}

func flagDefault(f *pflag.Flag) string {
	switch f.DefValue {
	case "", "0", "[]":
		return "-"
	}
	return InlineCode(f.DefValue)
}

// dedent strips the indentation shared by every non-blank line of s.
func dedent(s string) string {
	prefix, found := "", false
	for line := range strings.Lines(s) {
		if strings.TrimSpace(line) == "" {
			continue
		}
		indent := line[:len(line)-len(strings.TrimLeft(line, " \t"))]
		if !found {
			prefix, found = indent, true
			continue
		}
		for !strings.HasPrefix(indent, prefix) {
			prefix = prefix[:len(prefix)-1]
		}
	}

	var b strings.Builder
	for line := range strings.Lines(s) {
		b.WriteString(strings.TrimPrefix(line, prefix))
	}
	return strings.TrimSpace(b.String())
}
