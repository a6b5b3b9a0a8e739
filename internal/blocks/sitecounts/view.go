package sitecounts

import (
	"context"
	"io"
	"strconv"

	"github.com/a-h/templ"
	"github.com/leapstack-labs/sitecounts/internal/i18n"
)

// View prints a report. Every string from the report or a translation is
// escaped before it is written. Counts and the post id are printed as plain
// integers without digit grouping.
func View(r Report, p *i18n.Printer) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		sw := &stickyWriter{w: w}

		sw.write(`<div class="`, templ.EscapeString(r.ClassName), `">`)

		if r.CountsLoaded {
			sw.write(`<h2>`, p.EscHTML("Post Counts"), `</h2><ul>`)
			for _, tc := range r.Counts {
				sw.write(`<li>`, p.EscHTML("There are %[1]s %[2]s.", strconv.Itoa(tc.Published), p.Text(tc.Label)), `</li>`)
			}
			sw.write(`</ul>`)
		}

		if r.CurrentPostID > 0 {
			sw.write(`<p>`, p.EscHTML("The current post ID is %[1]s.", strconv.FormatInt(r.CurrentPostID, 10)), `</p>`)
		}

		if len(r.FilteredPosts) > 0 {
			sw.write(`<h2>`, p.EscHTML("5 posts with the tag of %[1]s and the category of %[2]s", FilterTag, FilterCategory), `</h2><ul>`)
			for _, post := range r.FilteredPosts {
				sw.write(`<li>`, templ.EscapeString(post.Title), `</li>`)
			}
			sw.write(`</ul>`)
		}

		sw.write(`</div>`)
		return sw.err
	})
}

// stickyWriter keeps the first write error and skips everything after it.
type stickyWriter struct {
	w   io.Writer
	err error
}

func (s *stickyWriter) write(parts ...string) {
	for _, part := range parts {
		if s.err != nil {
			return
		}
		_, s.err = io.WriteString(s.w, part)
	}
}
