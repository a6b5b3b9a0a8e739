package home

import (
	"context"
	"io"
	"strconv"
	"strings"

	"github.com/a-h/templ"
	"github.com/leapstack-labs/sitecounts/internal/i18n"
	"github.com/leapstack-labs/sitecounts/internal/ui/features/common"
	"github.com/leapstack-labs/sitecounts/pkg/core"
)

const dateFormat = "2006-01-02"

func homeBody(p *i18n.Printer, posts []core.Post, blockMarkup string) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		var b strings.Builder
		b.WriteString(`<section class="recent"><h1>`)
		b.WriteString(p.EscHTML("Recent posts"))
		b.WriteString(`</h1>`)

		if len(posts) == 0 {
			b.WriteString(`<p>` + p.EscHTML("No posts yet.") + `</p>`)
		} else {
			b.WriteString(`<ul class="recent-posts">`)
			for _, post := range posts {
				b.WriteString(`<li><a href="/posts/` + strconv.FormatInt(post.ID, 10) + `">`)
				b.WriteString(templ.EscapeString(post.Title))
				b.WriteString(`</a>`)
				if !post.Date.IsZero() {
					b.WriteString(`<time datetime="` + post.Date.Format(dateFormat) + `">` + post.Date.Format(dateFormat) + `</time>`)
				}
				b.WriteString(`</li>`)
			}
			b.WriteString(`</ul>`)
		}
		b.WriteString(`</section>`)

		if _, err := io.WriteString(w, b.String()); err != nil {
			return err
		}
		return common.BlockSlot(blockMarkup).Render(ctx, w)
	})
}

func postBody(p *i18n.Printer, post *core.Post, blockMarkup string) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		var b strings.Builder
		b.WriteString(`<article><h1>` + templ.EscapeString(post.Title) + `</h1>`)
		if !post.Date.IsZero() {
			b.WriteString(`<p><time datetime="` + post.Date.Format(dateFormat) + `">` + post.Date.Format(dateFormat) + `</time></p>`)
		}
		if post.Content != "" {
			b.WriteString(`<div class="content">` + templ.EscapeString(post.Content) + `</div>`)
		}
		b.WriteString(`<p><a href="/">` + p.EscHTML("Back to the front page") + `</a></p></article>`)

		if _, err := io.WriteString(w, b.String()); err != nil {
			return err
		}
		return common.BlockSlot(blockMarkup).Render(ctx, w)
	})
}
