package jsonfeed

import (
	"encoding/json"
	"errors"

	"github.com/lysyi3m/jsonfeed-comb/app/sanitize"
	orderedmap "github.com/wk8/go-ordered-map/v2"
)

var ErrInvalidTitle = errors.New("feed title must not be blank")

const (
	maxDescriptionLength = 200
	ellipsis             = "…"
)

// Feed is the aggregate root of a JSON Feed: site metadata plus items keyed
// by id in first-insertion order.
type Feed struct {
	title       string
	comment     string
	description string
	feedURL     string
	nextURL     string
	homePageURL string
	iconURL     string
	faviconURL  string
	author      *Author
	items       *orderedmap.OrderedMap[string, *Item]
}

func NewFeed(title string) (*Feed, error) {
	title = sanitize.PlainText(title)
	if title == "" {
		return nil, ErrInvalidTitle
	}

	return &Feed{
		title: title,
		items: orderedmap.New[string, *Item](),
	}, nil
}

func (f *Feed) SetTitle(title string) {
	if title = sanitize.PlainText(title); title != "" {
		f.title = title
	}
}

// SetComment keeps a free-form note for humans. It is not part of Document.
func (f *Feed) SetComment(comment string) {
	if comment = sanitize.PlainText(comment); comment != "" {
		f.comment = comment
	}
}

// SetDescription stores a plain-text description capped at 200 characters;
// longer values are cut and end with an ellipsis.
func (f *Feed) SetDescription(description string) {
	description = sanitize.PlainText(description)
	if description == "" {
		return
	}

	if runes := []rune(description); len(runes) > maxDescriptionLength {
		description = string(runes[:maxDescriptionLength]) + ellipsis
	}

	f.description = description
}

// SetHomePageURL sets the HTML page the feed mirrors.
func (f *Feed) SetHomePageURL(url string) {
	if url = sanitize.URL(url); url != "" {
		f.homePageURL = url
	}
}

// SetFeedURL sets the canonical location of the feed itself.
func (f *Feed) SetFeedURL(url string) {
	if url = sanitize.URL(url); url != "" {
		f.feedURL = url
	}
}

// SetNextURL sets the location of the next page of a paginated feed.
func (f *Feed) SetNextURL(url string) {
	if url = sanitize.URL(url); url != "" {
		f.nextURL = url
	}
}

func (f *Feed) SetIconURL(url string) {
	if url = sanitize.URL(url); url != "" {
		f.iconURL = url
	}
}

// SetFaviconURL sets the small square icon of the feed.
func (f *Feed) SetFaviconURL(url string) {
	if url = sanitize.URL(url); url != "" {
		f.faviconURL = url
	}
}

func (f *Feed) SetAuthor(author *Author) {
	if author.IsEmpty() {
		return
	}
	copied := *author
	f.author = &copied
}

// AddItem inserts item, or replaces the item with the same id in place.
func (f *Feed) AddItem(item *Item) {
	if item == nil || item.ID() == "" {
		return
	}
	f.items.Set(item.ID(), item)
}

func (f *Feed) Title() string       { return f.title }
func (f *Feed) Comment() string     { return f.comment }
func (f *Feed) Description() string { return f.description }
func (f *Feed) HomePageURL() string { return f.homePageURL }
func (f *Feed) FeedURL() string     { return f.feedURL }
func (f *Feed) NextURL() string     { return f.nextURL }
func (f *Feed) IconURL() string     { return f.iconURL }
func (f *Feed) FaviconURL() string  { return f.faviconURL }

func (f *Feed) Len() int {
	return f.items.Len()
}

func (f *Feed) Item(id string) (*Item, bool) {
	return f.items.Get(id)
}

// Document returns a detached snapshot of the feed ready for JSON encoding.
func (f *Feed) Document() Document {
	doc := Document{
		Version:     Version,
		Title:       f.title,
		HomePageURL: f.homePageURL,
		FeedURL:     f.feedURL,
		NextURL:     f.nextURL,
		Description: f.description,
		Icon:        f.iconURL,
		Favicon:     f.faviconURL,
		Author:      f.author.Document(),
	}

	if f.items.Len() > 0 {
		doc.Items = make([]ItemDocument, 0, f.items.Len())
		for pair := f.items.Oldest(); pair != nil; pair = pair.Next() {
			doc.Items = append(doc.Items, pair.Value.Document())
		}
	}

	return doc
}

func (f *Feed) MarshalJSON() ([]byte, error) {
	return json.Marshal(f.Document())
}
