package common

import (
	"context"
	"io"
	"net/url"

	"github.com/a-h/templ"
	"github.com/leapstack-labs/sitecounts/internal/i18n"
	"github.com/leapstack-labs/sitecounts/internal/ui/resources"
)

// BlockSlotID is the element live updates patch.
const BlockSlotID = "site-counts"

// PageData is what the page shell needs besides its body.
type PageData struct {
	Title   string
	Path    string // current path, used to come back after switching locale
	Printer *i18n.Printer
	Locales []i18n.Locale
	IsDev   bool
	// UpdatesURL, when set, opens a live update stream for the page.
	UpdatesURL string
}

// Page wraps body in the site's HTML document.
func Page(d PageData, body templ.Component) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		p := d.Printer
		if p == nil {
			p = i18n.Fallback()
		}

		if _, err := io.WriteString(w, `<!doctype html><html lang="`+templ.EscapeString(p.Tag().String())+`"><head>`+
			`<meta charset="utf-8"><meta name="viewport" content="width=device-width, initial-scale=1">`+
			`<title>`+templ.EscapeString(d.Title)+` - SiteCounts</title>`+
			`<link rel="stylesheet" href="`+resources.StaticPath("site.css")+`">`+
			`<script type="module" src="`+resources.DatastarScript+`"></script>`+
			`</head>`); err != nil {
			return err
		}

		bodyOpen := `<body>`
		if d.IsDev {
			bodyOpen = `<body data-init="@get('/reload')">`
		}
		if _, err := io.WriteString(w, bodyOpen+`<header class="site-header"><a href="/">SiteCounts</a>`); err != nil {
			return err
		}
		if err := localeNav(d, p).Render(ctx, w); err != nil {
			return err
		}

		mainOpen := `</header><main>`
		if d.UpdatesURL != "" {
			mainOpen = `</header><main data-init="@get('` + templ.EscapeString(d.UpdatesURL) + `')">`
		}
		if _, err := io.WriteString(w, mainOpen); err != nil {
			return err
		}
		if body != nil {
			if err := body.Render(ctx, w); err != nil {
				return err
			}
		}
		_, err := io.WriteString(w, `</main></body></html>`)
		return err
	})
}

func localeNav(d PageData, p *i18n.Printer) templ.Component {
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		if len(d.Locales) == 0 {
			return nil
		}
		back := d.Path
		if back == "" {
			back = "/"
		}

		out := `<nav class="locales"><span>` + p.EscHTML("Language") + `</span>`
		for _, l := range d.Locales {
			href := "/locale/" + url.PathEscape(l.Tag.String()) + "?redirect=" + url.QueryEscape(back)
			current := ""
			if l.Tag == p.Tag() {
				current = ` aria-current="true"`
			}
			out += `<a href="` + templ.EscapeString(href) + `"` + current + `>` + templ.EscapeString(l.Name) + `</a>`
		}
		out += `</nav>`
		_, err := io.WriteString(w, out)
		return err
	})
}

// BlockSlot wraps rendered block markup in the element live updates replace.
// markup must already be safe HTML.
func BlockSlot(markup string) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if _, err := io.WriteString(w, `<div id="`+BlockSlotID+`">`); err != nil {
			return err
		}
		if err := templ.Raw(markup).Render(ctx, w); err != nil {
			return err
		}
		_, err := io.WriteString(w, `</div>`)
		return err
	})
}
