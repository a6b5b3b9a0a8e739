package state

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/leapstack-labs/sitecounts/pkg/core"
	"gopkg.in/yaml.v3"
)

// fixtureNamespace seeds deterministic GUIDs for fixture posts without one.
var fixtureNamespace = uuid.MustParse("6f1c2a3e-7c55-4d8e-9a43-5b1e0f2d8c11")

// Fixtures describes content to load into a store.
type Fixtures struct {
	ContentTypes []FixtureContentType `yaml:"content_types"`
	Posts        []FixturePost        `yaml:"posts"`
}

// FixtureContentType is a content type entry in a fixtures file.
type FixtureContentType struct {
	Slug         string `yaml:"slug"`
	Name         string `yaml:"name"`
	SingularName string `yaml:"singular_name"`
	Description  string `yaml:"description"`
	Public       *bool  `yaml:"public"`
	Hierarchical bool   `yaml:"hierarchical"`
}

// FixturePost is a post entry in a fixtures file.
type FixturePost struct {
	GUID       string    `yaml:"guid"`
	Type       string    `yaml:"type"`
	Status     string    `yaml:"status"`
	Title      string    `yaml:"title"`
	Slug       string    `yaml:"slug"`
	Content    string    `yaml:"content"`
	Date       time.Time `yaml:"date"`
	Modified   time.Time `yaml:"modified"`
	Tags       []string  `yaml:"tags"`
	Categories []string  `yaml:"categories"`
}

// FixtureResult counts what ApplyFixtures wrote.
type FixtureResult struct {
	ContentTypes int
	Posts        int
}

// LoadFixtures reads a fixtures file.
func LoadFixtures(path string) (*Fixtures, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read fixtures: %w", err)
	}
	return ParseFixtures(data)
}

// ParseFixtures decodes fixtures YAML.
func ParseFixtures(data []byte) (*Fixtures, error) {
	var f Fixtures
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse fixtures: %w", err)
	}
	return &f, nil
}

// Transactor is a store that can run a group of writes atomically.
type Transactor interface {
	WithTx(ctx context.Context, fn func(core.ContentStore) error) error
}

// ApplyFixtures writes fixtures into the store. Applying the same fixtures
// twice leaves the store unchanged. When the store is a Transactor the whole
// file is applied in one transaction, so a failing entry leaves no writes
// behind; other stores may keep the entries before the failure.
func ApplyFixtures(ctx context.Context, store core.ContentStore, f *Fixtures, logger *slog.Logger) (FixtureResult, error) {
	if f == nil {
		return FixtureResult{}, nil
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	var res FixtureResult
	var err error
	if tx, ok := store.(Transactor); ok {
		err = tx.WithTx(ctx, func(cs core.ContentStore) error {
			var applyErr error
			res, applyErr = applyFixtures(ctx, cs, f)
			return applyErr
		})
	} else {
		res, err = applyFixtures(ctx, store, f)
	}
	if err != nil {
		return FixtureResult{}, err
	}

	logger.Info("fixtures applied",
		slog.Int("content_types", res.ContentTypes),
		slog.Int("posts", res.Posts),
	)
	return res, nil
}

func applyFixtures(ctx context.Context, store core.ContentStore, f *Fixtures) (FixtureResult, error) {
	var res FixtureResult
	for _, fct := range f.ContentTypes {
		public := true
		if fct.Public != nil {
			public = *fct.Public
		}
		ct := core.ContentType{
			Slug:         fct.Slug,
			Labels:       core.ContentTypeLabels{Name: fct.Name, SingularName: fct.SingularName},
			Description:  fct.Description,
			Public:       public,
			Hierarchical: fct.Hierarchical,
		}
		if err := store.RegisterContentType(ctx, ct); err != nil {
			return res, err
		}
		res.ContentTypes++
	}

	for i, fp := range f.Posts {
		post := fp.toPost()
		if err := store.SavePost(ctx, post, fp.Tags, fp.Categories); err != nil {
			return res, fmt.Errorf("fixture post %d: %w", i, err)
		}
		res.Posts++
	}
	return res, nil
}

// toPost converts a fixture entry, deriving a stable GUID when none is given.
func (fp FixturePost) toPost() *core.Post {
	postType := fp.Type
	if postType == "" {
		postType = "post"
	}
	guid := fp.GUID
	if guid == "" {
		key := postType + "/" + fp.Slug
		if fp.Slug == "" {
			key = postType + "/" + fp.Title
		}
		guid = uuid.NewSHA1(fixtureNamespace, []byte(key)).String()
	}
	return &core.Post{
		GUID:     guid,
		Type:     postType,
		Status:   core.PostStatus(fp.Status),
		Title:    fp.Title,
		Slug:     fp.Slug,
		Content:  fp.Content,
		Date:     fp.Date,
		Modified: fp.Modified,
	}
}
