package output

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseMode(t *testing.T) {
	tests := []struct {
		in   string
		want Mode
	}{
		{"", ModeAuto},
		{"auto", ModeAuto},
		{"text", ModeText},
		{"markdown", ModeMarkdown},
		{"md", ModeMarkdown},
		{"json", ModeJSON},
		{"html", ModeHTML},
		{"xml", ModeAuto},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ParseMode(tt.in), tt.in)
	}
}

func TestRenderer_EffectiveMode(t *testing.T) {
	var buf bytes.Buffer

	// A buffer is never a terminal.
	r := NewRenderer(&buf, &buf, ModeAuto)
	assert.False(t, r.IsTTY())
	assert.Equal(t, ModeAuto, r.Mode())
	assert.Equal(t, ModeMarkdown, r.EffectiveMode())

	assert.Equal(t, ModeJSON, NewRenderer(&buf, &buf, ModeJSON).EffectiveMode())
}

func TestRenderer_Text(t *testing.T) {
	var out, errOut bytes.Buffer
	r := NewRenderer(&out, &errOut, ModeText)

	r.Header(1, "Counts")
	r.Success("done")
	r.Muted("quiet")
	r.Printf("%d items\n", 3)
	r.Warning("careful")
	r.Error("broken")

	// No colors outside a terminal.
	assert.NotContains(t, out.String(), "\x1b[")
	assert.Contains(t, out.String(), "Counts")
	assert.Contains(t, out.String(), "✓ done")
	assert.Contains(t, out.String(), "quiet")
	assert.Contains(t, out.String(), "3 items")
	assert.Contains(t, errOut.String(), "! careful")
	assert.Contains(t, errOut.String(), "✗ broken")
}

func TestRenderer_Table(t *testing.T) {
	header := []string{"Type", "Published"}
	rows := [][]string{{"Posts", "4"}, {"Pages", "1"}}

	t.Run("text", func(t *testing.T) {
		var out bytes.Buffer
		NewRenderer(&out, &out, ModeText).Table(header, rows)
		assert.Contains(t, out.String(), "┌")
		assert.Contains(t, out.String(), "Posts")
	})

	t.Run("markdown", func(t *testing.T) {
		var out bytes.Buffer
		NewRenderer(&out, &out, ModeMarkdown).Table(header, rows)
		lines := strings.Split(strings.TrimSpace(out.String()), "\n")
		require.Len(t, lines, 4)
		assert.Equal(t, "| Type | Published |", lines[0])
		assert.Contains(t, out.String(), "| Posts | 4 |")
	})
}

func TestRenderer_JSON(t *testing.T) {
	var out bytes.Buffer
	r := NewRenderer(&out, &out, ModeJSON)
	require.NoError(t, r.JSON(SeedOutput{File: "site.yaml", Posts: 2}))
	assert.JSONEq(t, `{"file":"site.yaml","content_types":0,"posts":2}`, out.String())
}

func TestFormat(t *testing.T) {
	assert.Equal(t, "## Matches", FormatHeader(2, "Matches"))
	assert.Equal(t, "# X", FormatHeader(0, "X"))
	assert.Equal(t, "- **Locale**: de", FormatKeyValue("Locale", "de"))
	assert.Equal(t, "(none)", FormatList(nil))
	assert.Equal(t, "- a\n- b", FormatList([]string{"a", "b"}))
}

func TestNewRendererWithTTY(t *testing.T) {
	var out bytes.Buffer
	r := NewRendererWithTTY(&out, &out, true, ModeAuto)
	assert.True(t, r.IsTTY())
	assert.Equal(t, ModeText, r.EffectiveMode())
	assert.Same(t, &out, r.Writer())
}
