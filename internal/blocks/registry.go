// Package blocks is the host's registry of dynamic content blocks.
//
// A block type is declared by a block.json metadata file plus a render
// callback. The registry prepares attributes against the declared schema,
// hands the callback only the context keys it asked for, and keeps a failing
// callback from taking the page down with it.
package blocks

import (
	"context"
	"encoding/json"
	"fmt"
	"io/fs"
	"log/slog"
	"path"
	"regexp"
	"sort"
	"sync"
)

// MetadataFile is the file name RegisterFromMetadata reads.
const MetadataFile = "block.json"

var blockNamePattern = regexp.MustCompile(`^[a-z0-9-]+/[a-z0-9-]+$`)

// Attributes are the values a block instance was saved with.
type Attributes map[string]any

// Context carries values the host provides to blocks, such as postId.
type Context map[string]any

// RenderFunc produces a block's markup. It must not block on anything but the
// host's own stores and never returns an error: failures degrade the markup.
type RenderFunc func(ctx context.Context, attrs Attributes, content string, block Context) string

// BlockType is a registered block.
type BlockType struct {
	APIVersion  int                  `json:"apiVersion"`
	Name        string               `json:"name"`
	Title       string               `json:"title"`
	Category    string               `json:"category"`
	Icon        string               `json:"icon"`
	Description string               `json:"description"`
	TextDomain  string               `json:"textdomain"`
	Attributes  map[string]Attribute `json:"attributes"`
	UsesContext []string             `json:"usesContext"`
	Supports    map[string]any       `json:"supports"`

	Render RenderFunc `json:"-"`
}

// Registry holds block types by name. It is safe for concurrent use.
type Registry struct {
	mu     sync.RWMutex
	blocks map[string]*BlockType
	logger *slog.Logger
}

// NewRegistry creates an empty registry. A nil logger discards output.
func NewRegistry(logger *slog.Logger) *Registry {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Registry{
		blocks: make(map[string]*BlockType),
		logger: logger,
	}
}

// Register adds a block type.
func (r *Registry) Register(bt BlockType) error {
	if !blockNamePattern.MatchString(bt.Name) {
		return fmt.Errorf("invalid block name %q: expected namespace/name in lowercase", bt.Name)
	}
	if bt.Render == nil {
		return fmt.Errorf("block %s: render callback is required", bt.Name)
	}
	for name, attr := range bt.Attributes {
		if !attr.Type.valid() {
			return fmt.Errorf("block %s: attribute %q has unsupported type %q", bt.Name, name, attr.Type)
		}
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.blocks[bt.Name]; exists {
		return fmt.Errorf("block %s is already registered", bt.Name)
	}
	r.blocks[bt.Name] = &bt
	r.logger.Debug("block registered", slog.String("block", bt.Name))
	return nil
}

// RegisterFromMetadata reads dir/block.json from fsys and registers it with
// the given render callback.
func (r *Registry) RegisterFromMetadata(fsys fs.FS, dir string, render RenderFunc) (*BlockType, error) {
	data, err := fs.ReadFile(fsys, path.Join(dir, MetadataFile))
	if err != nil {
		return nil, fmt.Errorf("failed to read block metadata: %w", err)
	}

	var bt BlockType
	if err := json.Unmarshal(data, &bt); err != nil {
		return nil, fmt.Errorf("failed to parse block metadata: %w", err)
	}
	bt.Render = render

	if err := r.Register(bt); err != nil {
		return nil, err
	}
	registered, _ := r.Get(bt.Name)
	return registered, nil
}

// Get returns a block type by name.
func (r *Registry) Get(name string) (*BlockType, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	bt, ok := r.blocks[name]
	return bt, ok
}

// List returns every registered block type, sorted by name.
func (r *Registry) List() []*BlockType {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*BlockType, 0, len(r.blocks))
	for _, bt := range r.blocks {
		out = append(out, bt)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Render renders a block. Unknown blocks and panicking callbacks render as
// an empty string; both are logged.
func (r *Registry) Render(ctx context.Context, name string, attrs Attributes, content string, block Context) (out string) {
	bt, ok := r.Get(name)
	if !ok {
		r.logger.Warn("render of unknown block", slog.String("block", name))
		return ""
	}

	defer func() {
		if rec := recover(); rec != nil {
			r.logger.Error("block render panicked",
				slog.String("block", name),
				slog.Any("panic", rec),
			)
			out = ""
		}
	}()

	return bt.Render(ctx, bt.PrepareAttributes(attrs), content, bt.scopeContext(block))
}

// PrepareAttributes drops declared attributes whose value does not match the
// declared type, then fills in defaults for missing ones. Undeclared
// attributes pass through untouched.
func (bt *BlockType) PrepareAttributes(attrs Attributes) Attributes {
	out := make(Attributes, len(attrs)+len(bt.Attributes))
	for name, value := range attrs {
		if decl, declared := bt.Attributes[name]; declared && !decl.Type.Accepts(value) {
			continue
		}
		out[name] = value
	}
	for name, decl := range bt.Attributes {
		if _, ok := out[name]; !ok && decl.Default != nil {
			out[name] = decl.Default
		}
	}
	return out
}

func (bt *BlockType) scopeContext(block Context) Context {
	out := make(Context, len(bt.UsesContext))
	for _, key := range bt.UsesContext {
		if value, ok := block[key]; ok {
			out[key] = value
		}
	}
	return out
}
