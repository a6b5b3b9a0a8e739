package blocks

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/leapstack-labs/sitecounts/internal/blocks"
	"github.com/leapstack-labs/sitecounts/internal/ui/features/common"
)

// Handlers provides HTTP handlers for the blocks feature.
type Handlers struct {
	deps common.Deps
}

// NewHandlers creates a new Handlers instance.
func NewHandlers(deps common.Deps) *Handlers {
	return &Handlers{deps: deps}
}

// blockInfo is the public description of a registered block.
type blockInfo struct {
	Name        string                      `json:"name"`
	Title       string                      `json:"title"`
	Description string                      `json:"description,omitempty"`
	Attributes  map[string]blocks.Attribute `json:"attributes,omitempty"`
	UsesContext []string                    `json:"usesContext,omitempty"`
}

// List returns the registered blocks as JSON.
func (h *Handlers) List(w http.ResponseWriter, _ *http.Request) {
	out := []blockInfo{}
	if h.deps.Blocks != nil {
		for _, bt := range h.deps.Blocks.List() {
			out = append(out, blockInfo{
				Name:        bt.Name,
				Title:       bt.Title,
				Description: bt.Description,
				Attributes:  bt.Attributes,
				UsesContext: bt.UsesContext,
			})
		}
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(out); err != nil {
		h.deps.Log().Error("failed to encode block list", "error", err)
	}
}

// Fragment renders one block as a bare HTML fragment. Query parameters:
// className, postId and locale.
func (h *Handlers) Fragment(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "namespace") + "/" + chi.URLParam(r, "name")
	if h.deps.Blocks == nil {
		http.NotFound(w, r)
		return
	}
	if _, ok := h.deps.Blocks.Get(name); !ok {
		http.Error(w, "unknown block "+name, http.StatusNotFound)
		return
	}

	query := r.URL.Query()
	attrs := blocks.Attributes{}
	if query.Has("className") {
		attrs["className"] = query.Get("className")
	}
	block := blocks.Context{}
	if id, err := strconv.ParseInt(query.Get("postId"), 10, 64); err == nil {
		block["postId"] = id
	}

	ctx := common.LocaleContext(r, h.deps.Sessions)
	markup := h.deps.RenderBlock(ctx, name, attrs, block)

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write([]byte(markup))
}
