package home

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/leapstack-labs/sitecounts/internal/blocks"
	"github.com/leapstack-labs/sitecounts/internal/i18n"
	"github.com/leapstack-labs/sitecounts/internal/ui/features/common"
	"github.com/leapstack-labs/sitecounts/pkg/core"
	"github.com/starfederation/datastar-go/datastar"
)

// Handlers provides HTTP handlers for the home feature.
type Handlers struct {
	deps common.Deps
}

// NewHandlers creates a new Handlers instance.
func NewHandlers(deps common.Deps) *Handlers {
	return &Handlers{deps: deps}
}

// HomePage renders the front page: recent posts and the block without a
// current post.
func (h *Handlers) HomePage(w http.ResponseWriter, r *http.Request) {
	ctx := common.LocaleContext(r, h.deps.Sessions)
	printer := h.deps.Translator.PrinterFor(ctx)

	posts, err := h.deps.Store.QueryPosts(ctx, recentPostsQuery)
	if err != nil {
		h.deps.Log().Error("failed to list recent posts", "error", err)
		http.Error(w, "failed to list recent posts", http.StatusInternalServerError)
		return
	}

	page := common.Page(common.PageData{
		Title:      printer.Sprintf("Recent posts"),
		Path:       r.URL.Path,
		Printer:    printer,
		Locales:    h.locales(),
		IsDev:      h.deps.IsDev,
		UpdatesURL: "/updates",
	}, homeBody(printer, posts, h.renderBlock(ctx, 0)))

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := page.Render(ctx, w); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

// PostPage renders a single post with the block bound to it.
func (h *Handlers) PostPage(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		http.NotFound(w, r)
		return
	}

	ctx := common.LocaleContext(r, h.deps.Sessions)
	post, err := h.deps.Store.GetPost(ctx, id)
	if errors.Is(err, core.ErrNotFound) {
		http.NotFound(w, r)
		return
	}
	if err != nil {
		h.deps.Log().Error("failed to load post", "id", id, "error", err)
		http.Error(w, "failed to load post", http.StatusInternalServerError)
		return
	}

	printer := h.deps.Translator.PrinterFor(ctx)
	page := common.Page(common.PageData{
		Title:      post.Title,
		Path:       r.URL.Path,
		Printer:    printer,
		Locales:    h.locales(),
		IsDev:      h.deps.IsDev,
		UpdatesURL: "/updates?postId=" + strconv.FormatInt(post.ID, 10),
	}, postBody(printer, post, h.renderBlock(ctx, post.ID)))

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := page.Render(ctx, w); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

// Updates is the long-lived SSE endpoint of a page. It sends nothing up
// front: the page was rendered with current data. On every content change the
// block is rendered again and patched into the page.
func (h *Handlers) Updates(w http.ResponseWriter, r *http.Request) {
	postID, _ := strconv.ParseInt(r.URL.Query().Get("postId"), 10, 64)
	ctx := common.LocaleContext(r, h.deps.Sessions)

	sse := datastar.NewSSE(w, r)

	updates := h.deps.Notifier.Subscribe()
	defer h.deps.Notifier.Unsubscribe(updates)

	for {
		select {
		case <-ctx.Done():
			return
		case change, ok := <-updates:
			if !ok {
				return
			}
			h.deps.Log().Debug("content changed, patching block", "source", change.Source, "post_id", postID)
			if err := sse.PatchElementTempl(common.BlockSlot(h.renderBlock(ctx, postID))); err != nil {
				_ = sse.ConsoleError(err)
			}
		}
	}
}

func (h *Handlers) renderBlock(ctx context.Context, postID int64) string {
	block := blocks.Context{}
	if postID > 0 {
		block["postId"] = postID
	}
	return h.deps.RenderBlock(ctx, BlockName, blocks.Attributes{"className": BlockClassName}, block)
}

func (h *Handlers) locales() []i18n.Locale {
	if h.deps.Translator == nil {
		return nil
	}
	return h.deps.Translator.Locales()
}
