package commands

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/leapstack-labs/sitecounts/internal/cli/output"
	"github.com/leapstack-labs/sitecounts/pkg/core"
)

// queryDateLayout is how post dates are listed.
const queryDateLayout = "2006-01-02 15:04"

func queryPost(p core.Post) output.QueryPost {
	return output.QueryPost{
		ID:     p.ID,
		Type:   p.Type,
		Status: string(p.Status),
		Title:  p.Title,
		Date:   p.Date.UTC().Format(queryDateLayout),
	}
}

func postRows(posts []output.QueryPost) [][]string {
	rows := make([][]string, 0, len(posts))
	for _, p := range posts {
		rows = append(rows, []string{strconv.FormatInt(p.ID, 10), p.Type, p.Status, formatValue(p.Title), p.Date})
	}
	return rows
}

var postHeader = []string{"ID", "Type", "Status", "Title", "Date"}

// queryText outputs query results in styled text format.
func queryText(r *output.Renderer, res output.QueryOutput) {
	styles := r.Styles()

	r.Header(1, "Query Results")
	if len(res.Ignored) > 0 {
		r.Printf("%s %s\n\n", styles.Muted.Render("ignored args:"), styles.Warning.Render(quoteKeys(res.Ignored)))
	}

	if len(res.Posts) == 0 {
		r.Muted("(0 posts)")
		return
	}
	r.Table(postHeader, postRows(res.Posts))
	r.Muted(fmt.Sprintf("(%d posts)", len(res.Posts)))
}

// queryMarkdown outputs query results in markdown format.
func queryMarkdown(r *output.Renderer, res output.QueryOutput) {
	r.Println(output.FormatHeader(1, "Query Results"))
	r.Println("")
	r.Println(output.FormatKeyValue("Matches", strconv.Itoa(len(res.Posts))))
	r.Println(output.FormatKeyValue("Ignored args", quoteKeys(res.Ignored)))
	r.Println("")

	if len(res.Posts) == 0 {
		r.Println("(0 posts)")
		return
	}
	r.Table(postHeader, postRows(res.Posts))
}

// quoteKeys quotes arg keys so trailing spaces stay visible.
func quoteKeys(keys []string) string {
	if len(keys) == 0 {
		return "(none)"
	}
	quoted := make([]string, len(keys))
	for i, k := range keys {
		quoted[i] = strconv.Quote(k)
	}
	return strings.Join(quoted, ", ")
}

func formatValue(s string) string {
	if s == "" {
		return "(no title)"
	}
	return s
}
