package main

import (
	"fmt"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
)

// generatedNotice marks files that must not be edited by hand.
const generatedNotice = "<!-- Code generated by scripts/gendocs. DO NOT EDIT. -->"

// MarkdownWriter accumulates a markdown document.
type MarkdownWriter struct {
	b strings.Builder
}

// NewMarkdownWriter returns an empty writer.
func NewMarkdownWriter() *MarkdownWriter {
	return &MarkdownWriter{}
}

// Frontmatter writes a YAML frontmatter block with a title and description.
func (w *MarkdownWriter) Frontmatter(title, description string) {
	w.b.WriteString("---\n")
	fmt.Fprintf(&w.b, "title: %q\n", title)
	fmt.Fprintf(&w.b, "description: %q\n", cleanDescription(description))
	w.b.WriteString("---\n\n")
}

// GeneratedMarker writes the generated-file notice.
func (w *MarkdownWriter) GeneratedMarker() {
	w.b.WriteString(generatedNotice + "\n\n")
}

// Header writes an ATX heading.
func (w *MarkdownWriter) Header(level int, text string) {
	fmt.Fprintf(&w.b, "%s %s\n\n", strings.Repeat("#", level), text)
}

// Paragraph writes text followed by a blank line.
func (w *MarkdownWriter) Paragraph(text string) {
	w.b.WriteString(strings.TrimSpace(text) + "\n\n")
}

// CodeBlock writes a fenced code block.
func (w *MarkdownWriter) CodeBlock(lang, code string) {
	fmt.Fprintf(&w.b, "```%s\n%s\n```\n\n", lang, code)
}

// BulletList writes one bullet per item.
func (w *MarkdownWriter) BulletList(items []string) {
	for _, item := range items {
		fmt.Fprintf(&w.b, "- %s\n", item)
	}
	w.b.WriteString("\n")
}

// Table writes a markdown table. Nothing is written when rows is empty.
func (w *MarkdownWriter) Table(headers []string, rows [][]string) {
	if len(rows) == 0 {
		return
	}
	t := table.NewWriter()
	t.AppendHeader(toRow(headers))
	for _, r := range rows {
		t.AppendRow(toRow(r))
	}
	w.b.WriteString(t.RenderMarkdown() + "\n\n")
}

// Bytes returns the document.
func (w *MarkdownWriter) Bytes() []byte {
	return []byte(w.b.String())
}

func toRow(cells []string) table.Row {
	row := make(table.Row, len(cells))
	for i, c := range cells {
		row[i] = c
	}
	return row
}

// InlineCode wraps s in backticks.
func InlineCode(s string) string {
	return "`" + s + "`"
}

// cleanDescription collapses whitespace onto a single line.
func cleanDescription(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
