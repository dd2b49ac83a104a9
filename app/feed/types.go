package feed

import (
	"fmt"
	"iter"
	"time"
)

// Content source types

// Supports is the set of optional fields a post type carries.
type Supports uint8

const (
	SupportsTitle Supports = 1 << iota
	SupportsExcerpt
	SupportsThumbnail
	SupportsAuthor
)

var supportNames = map[string]Supports{
	"title":     SupportsTitle,
	"excerpt":   SupportsExcerpt,
	"thumbnail": SupportsThumbnail,
	"author":    SupportsAuthor,
}

func (s Supports) Has(flag Supports) bool {
	return s&flag != 0
}

func ParseSupports(names []string) (Supports, error) {
	var s Supports
	for _, name := range names {
		flag, ok := supportNames[name]
		if !ok {
			return 0, fmt.Errorf("unknown post type capability: %s", name)
		}
		s |= flag
	}
	return s, nil
}

type Site struct {
	Title        string
	Description  string
	Comment      string
	HomePageURL  string
	FeedURL      string
	SmallIconURL string
	IconURL      string
	Author       SiteAuthor
	UseExcerpt   bool // publish summaries only, never full content
}

type SiteAuthor struct {
	Name      string
	URL       string
	AvatarURL string
}

// Record is one post as seen by the Builder.
type Record struct {
	GUID         string
	Type         string
	Supports     Supports
	Title        string
	Permalink    string
	Excerpt      string
	Content      string
	ThumbnailURL string
	AuthorName   string
	AuthorURL    string
	PublishedAt  time.Time // zero when unknown
	ModifiedAt   time.Time
	Tags         []string
}

type ContentSource interface {
	Site() Site
	Records() iter.Seq[Record]
}

// Upstream parsing types

type Metadata struct {
	Title       string
	Link        string
	Description string
	ImageURL    string
	Language    string
}

type Entry struct {
	GUID        string
	Title       string
	Link        string
	Excerpt     string
	Content     string
	ImageURL    string
	AuthorName  string
	PublishedAt *time.Time
	UpdatedAt   *time.Time
	Categories  []string
	ContentHash string
}

// Configuration types

type Config struct {
	Name        string              // Derived from filename (without .yml extension)
	Title       string              `yaml:"title"`
	Description string              `yaml:"description"`
	HomePageURL string              `yaml:"home_page_url"`
	Comment     string              `yaml:"comment"`
	Icons       ConfigIcons         `yaml:"icons"`
	Author      ConfigAuthor        `yaml:"author"`
	UseExcerpt  bool                `yaml:"use_excerpt"`
	MaxItems    int                 `yaml:"max_items"`
	PostTypes   map[string][]string `yaml:"post_types"`
	Upstream    ConfigUpstream      `yaml:"upstream"`
	Filters     []ConfigFilter      `yaml:"filters"`

	supports map[string]Supports
}

type ConfigIcons struct {
	Small string `yaml:"small"`
	Full  string `yaml:"full"`
}

type ConfigAuthor struct {
	Name   string `yaml:"name"`
	URL    string `yaml:"url"`
	Avatar string `yaml:"avatar"`
}

type ConfigUpstream struct {
	URL             string `yaml:"url"`
	Enabled         bool   `yaml:"enabled"`
	PostType        string `yaml:"post_type"`
	RefreshInterval int    `yaml:"refresh_interval"` // seconds
	Timeout         int    `yaml:"timeout"`          // seconds
	ExtractContent  bool   `yaml:"extract_content"`
}

type ConfigFilter struct {
	Field    string   `yaml:"field"`
	Includes []string `yaml:"includes"`
	Excludes []string `yaml:"excludes"`
}

// Supports returns the capabilities configured for postType. Unknown post
// types support nothing.
func (c *Config) Supports(postType string) Supports {
	if c.supports != nil {
		return c.supports[postType]
	}
	s, _ := ParseSupports(c.PostTypes[postType])
	return s
}

// HasUpstream reports whether posts are imported from an upstream feed.
func (c *Config) HasUpstream() bool {
	return c.Upstream.Enabled && c.Upstream.URL != ""
}
