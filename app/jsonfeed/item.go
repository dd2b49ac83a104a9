package jsonfeed

import (
	"errors"
	"strings"
	"time"

	"github.com/lysyi3m/jsonfeed-comb/app/sanitize"
	orderedmap "github.com/wk8/go-ordered-map/v2"
)

var ErrInvalidID = errors.New("item id must not be blank")

// Item is a single feed entry. Items are identified by ID within a Feed.
type Item struct {
	id          string
	url         string
	externalURL string
	title       string
	summary     string
	contentHTML string
	image       string
	published   *time.Time
	modified    *time.Time
	author      *Author
	// lower-cased tag -> tag as first added
	tags *orderedmap.OrderedMap[string, string]
}

func NewItem(id string) (*Item, error) {
	if strings.TrimSpace(id) == "" {
		return nil, ErrInvalidID
	}

	return &Item{
		id:   id,
		tags: orderedmap.New[string, string](),
	}, nil
}

func (i *Item) ID() string {
	return i.id
}

func (i *Item) SetURL(url string) {
	if url = sanitize.URL(url); url != "" {
		i.url = url
	}
}

// SetExternalURL sets the URL of a page the item is about, such as a linked article.
func (i *Item) SetExternalURL(url string) {
	if url = sanitize.URL(url); url != "" {
		i.externalURL = url
	}
}

func (i *Item) SetTitle(title string) {
	if title = sanitize.PlainText(title); title != "" {
		i.title = title
	}
}

func (i *Item) SetSummary(summary string) {
	if summary = sanitize.PlainText(summary); summary != "" {
		i.summary = summary
	}
}

// SetContentHTML stores already rendered HTML as is. It is not sanitized.
func (i *Item) SetContentHTML(content string) {
	if strings.TrimSpace(content) != "" {
		i.contentHTML = content
	}
}

func (i *Item) SetImage(url string) {
	if url = sanitize.URL(url); url != "" {
		i.image = url
	}
}

func (i *Item) SetPublished(t time.Time) {
	if t.IsZero() {
		return
	}
	utc := t.UTC()
	i.published = &utc
}

// SetModified records the last modification time. It is only emitted when
// the published time is known as well.
func (i *Item) SetModified(t time.Time) {
	if t.IsZero() {
		return
	}
	utc := t.UTC()
	i.modified = &utc
}

func (i *Item) SetAuthor(author *Author) {
	if author.IsEmpty() {
		return
	}
	copied := *author
	i.author = &copied
}

func (i *Item) AddTag(tag string) {
	tag = strings.TrimSpace(tag)
	if tag == "" {
		return
	}

	key := strings.ToLower(tag)
	if _, exists := i.tags.Get(key); exists {
		return
	}
	i.tags.Set(key, tag)
}

// Tags returns tags in insertion order, or nil when the item has none.
func (i *Item) Tags() []string {
	if i.tags.Len() == 0 {
		return nil
	}

	tags := make([]string, 0, i.tags.Len())
	for pair := i.tags.Oldest(); pair != nil; pair = pair.Next() {
		tags = append(tags, pair.Value)
	}
	return tags
}

func (i *Item) URL() string         { return i.url }
func (i *Item) ExternalURL() string { return i.externalURL }
func (i *Item) Title() string       { return i.title }
func (i *Item) Summary() string     { return i.summary }
func (i *Item) ContentHTML() string { return i.contentHTML }
func (i *Item) Image() string       { return i.image }

func (i *Item) Author() *Author {
	if i.author == nil {
		return nil
	}
	copied := *i.author
	return &copied
}

func (i *Item) Published() (time.Time, bool) {
	if i.published == nil {
		return time.Time{}, false
	}
	return *i.published, true
}

func (i *Item) Modified() (time.Time, bool) {
	if i.modified == nil {
		return time.Time{}, false
	}
	return *i.modified, true
}

// Document returns the wire form of the item.
func (i *Item) Document() ItemDocument {
	doc := ItemDocument{
		ID:          i.id,
		URL:         i.url,
		ExternalURL: i.externalURL,
		Title:       i.title,
		Summary:     i.summary,
		ContentHTML: i.contentHTML,
		Image:       i.image,
		Tags:        i.Tags(),
		Author:      i.author.Document(),
	}

	if i.published != nil {
		doc.DatePublished = i.published.Format(dateLayout)
		if i.modified != nil {
			doc.DateModified = i.modified.Format(dateLayout)
		}
	}

	return doc
}
