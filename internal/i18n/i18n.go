// Package i18n translates host and block strings for the site-counts text domain.
//
// Language packs are YAML files mapping an English source string (usually a
// format string with explicit argument indexes) to its translation. They are
// loaded into an x/text message catalog; lookups match the requested locale
// against the loaded packs and fall back to English.
package i18n

import (
	"embed"
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strings"

	"github.com/a-h/templ"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/language/display"
	"golang.org/x/text/message"
	"golang.org/x/text/message/catalog"
	"gopkg.in/yaml.v3"
)

// Domain is the text domain the block's strings belong to.
const Domain = "site-counts"

//go:embed locales/*.yaml
var localeFS embed.FS

type languagePack struct {
	Locale   string            `yaml:"locale"`
	Messages map[string]string `yaml:"messages"`
}

// Locale describes a supported language.
type Locale struct {
	Tag  language.Tag
	Name string // the language's own name, e.g. "Deutsch"
}

// Translator holds the loaded language packs.
type Translator struct {
	catalog *catalog.Builder
	tags    []language.Tag // English first
	matcher language.Matcher
	texts   map[language.Tag]map[string]string
}

// New loads the embedded language packs.
func New() (*Translator, error) {
	return Load(localeFS, "locales")
}

// Load reads every *.yaml language pack in dir.
func Load(fsys fs.FS, dir string) (*Translator, error) {
	entries, err := fs.ReadDir(fsys, dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read language packs: %w", err)
	}

	t := &Translator{
		catalog: catalog.NewBuilder(catalog.Fallback(language.English)),
		texts:   make(map[language.Tag]map[string]string),
	}

	for _, entry := range entries {
		if entry.IsDir() || path.Ext(entry.Name()) != ".yaml" {
			continue
		}
		data, err := fs.ReadFile(fsys, path.Join(dir, entry.Name()))
		if err != nil {
			return nil, fmt.Errorf("failed to read language pack %s: %w", entry.Name(), err)
		}
		var pack languagePack
		if err := yaml.Unmarshal(data, &pack); err != nil {
			return nil, fmt.Errorf("failed to parse language pack %s: %w", entry.Name(), err)
		}
		if pack.Locale == "" {
			pack.Locale = strings.TrimSuffix(entry.Name(), ".yaml")
		}
		tag, err := language.Parse(normalizeLocale(pack.Locale))
		if err != nil {
			return nil, fmt.Errorf("language pack %s: %w", entry.Name(), err)
		}
		if err := t.add(tag, pack.Messages); err != nil {
			return nil, fmt.Errorf("language pack %s: %w", entry.Name(), err)
		}
	}

	if _, ok := t.texts[language.English]; !ok {
		_ = t.add(language.English, nil)
	}

	sort.SliceStable(t.tags, func(i, j int) bool {
		if t.tags[i] == language.English {
			return true
		}
		if t.tags[j] == language.English {
			return false
		}
		return t.tags[i].String() < t.tags[j].String()
	})
	t.matcher = language.NewMatcher(t.tags)
	return t, nil
}

func (t *Translator) add(tag language.Tag, messages map[string]string) error {
	texts, ok := t.texts[tag]
	if !ok {
		texts = make(map[string]string, len(messages))
		t.texts[tag] = texts
		t.tags = append(t.tags, tag)
	}
	for key, msg := range messages {
		if err := t.catalog.SetString(tag, key, msg); err != nil {
			return fmt.Errorf("message %q: %w", key, err)
		}
		texts[key] = msg
	}
	return nil
}

// Locales lists the supported languages, English first.
func (t *Translator) Locales() []Locale {
	out := make([]Locale, 0, len(t.tags))
	for _, tag := range t.tags {
		name := display.Self.Name(tag)
		if name == "" {
			name = tag.String()
		}
		out = append(out, Locale{Tag: tag, Name: cases.Title(tag).String(name)})
	}
	return out
}

// Match picks the supported language closest to locale. locale may be a
// BCP 47 tag, a POSIX-style tag such as "de_DE", or an Accept-Language list.
// Anything unusable yields English.
func (t *Translator) Match(locale string) language.Tag {
	locale = strings.TrimSpace(locale)
	if locale == "" {
		return t.tags[0]
	}
	desired, _, err := language.ParseAcceptLanguage(normalizeLocale(locale))
	if err != nil || len(desired) == 0 {
		return t.tags[0]
	}
	_, idx, conf := t.matcher.Match(desired...)
	if conf == language.No {
		return t.tags[0]
	}
	return t.tags[idx]
}

// Printer returns a printer for the language matching locale.
func (t *Translator) Printer(locale string) *Printer {
	tag := t.Match(locale)
	return &Printer{
		tag:   tag,
		p:     message.NewPrinter(tag, message.Catalog(t.catalog)),
		texts: t.texts[tag],
	}
}

// Fallback returns an English printer that formats source strings untranslated.
func Fallback() *Printer {
	return &Printer{tag: language.English, p: message.NewPrinter(language.English)}
}

func normalizeLocale(s string) string {
	return strings.ReplaceAll(s, "_", "-")
}

// Printer formats strings for one language.
type Printer struct {
	tag   language.Tag
	p     *message.Printer
	texts map[string]string
}

// Tag is the printer's language.
func (p *Printer) Tag() language.Tag {
	return p.tag
}

// Sprintf translates key and formats it with args, localizing numbers.
// Keys without a translation are used as the format string.
func (p *Printer) Sprintf(key string, args ...any) string {
	return p.p.Sprintf(key, args...)
}

// Text translates a plain string without formatting it.
func (p *Printer) Text(s string) string {
	if msg, ok := p.texts[s]; ok && msg != "" {
		return msg
	}
	return s
}

// EscHTML is Sprintf followed by HTML escaping.
func (p *Printer) EscHTML(key string, args ...any) string {
	return templ.EscapeString(p.Sprintf(key, args...))
}
