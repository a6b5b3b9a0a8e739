package output

// TypeCount is one content type row of the counts command.
type TypeCount struct {
	Slug      string `json:"slug"`
	Label     string `json:"label"`
	Published int    `json:"published"`
}

// CountsOutput is the JSON form of the counts command.
type CountsOutput struct {
	Locale string      `json:"locale"`
	Types  []TypeCount `json:"types"`
}

// QueryPost is one match of the query command.
type QueryPost struct {
	ID     int64  `json:"id"`
	Type   string `json:"type"`
	Status string `json:"status"`
	Title  string `json:"title"`
	Date   string `json:"date"`
}

// QueryOutput is the JSON form of the query command.
type QueryOutput struct {
	Args    map[string]any `json:"args"`
	Ignored []string       `json:"ignored"`
	Posts   []QueryPost    `json:"posts"`
}

// SeedOutput is the JSON form of the seed command.
type SeedOutput struct {
	File         string `json:"file"`
	ContentTypes int    `json:"content_types"`
	Posts        int    `json:"posts"`
}

// RenderOutput is the JSON form of the render command.
type RenderOutput struct {
	Block  string `json:"block"`
	Locale string `json:"locale"`
	HTML   string `json:"html"`
}

// VersionOutput is the JSON form of the version command.
type VersionOutput struct {
	Version   string   `json:"version"`
	Commit    string   `json:"commit"`
	BuildDate string   `json:"build_date"`
	GoVersion string   `json:"go_version"`
	Blocks    []string `json:"blocks"`
}
