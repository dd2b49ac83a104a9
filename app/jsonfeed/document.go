// Package jsonfeed models JSON Feed version 1 documents: feeds, items and authors.
package jsonfeed

// Version identifies the JSON Feed format emitted by Document.
const Version = "https://jsonfeed.org/version/1"

// ContentType is the media type the HTTP layer serves documents with.
const ContentType = "application/json"

// dateLayout is RFC 3339 with a numeric offset, so UTC renders as +00:00.
const dateLayout = "2006-01-02T15:04:05-07:00"

// Document is the serializable top-level JSON Feed object.
// Field order matches the order keys are written on the wire.
type Document struct {
	Version     string          `json:"version"`
	Title       string          `json:"title"`
	HomePageURL string          `json:"home_page_url,omitempty"`
	FeedURL     string          `json:"feed_url,omitempty"`
	NextURL     string          `json:"next_url,omitempty"`
	Description string          `json:"description,omitempty"`
	Icon        string          `json:"icon,omitempty"`
	Favicon     string          `json:"favicon,omitempty"`
	Author      *AuthorDocument `json:"author,omitempty"`
	Items       []ItemDocument  `json:"items,omitempty"`
}

type ItemDocument struct {
	ID            string          `json:"id"`
	URL           string          `json:"url,omitempty"`
	ExternalURL   string          `json:"external_url,omitempty"`
	Title         string          `json:"title,omitempty"`
	Summary       string          `json:"summary,omitempty"`
	ContentHTML   string          `json:"content_html,omitempty"`
	Image         string          `json:"image,omitempty"`
	Tags          []string        `json:"tags,omitempty"`
	DatePublished string          `json:"date_published,omitempty"`
	DateModified  string          `json:"date_modified,omitempty"`
	Author        *AuthorDocument `json:"author,omitempty"`
}

type AuthorDocument struct {
	Name   string `json:"name,omitempty"`
	URL    string `json:"url,omitempty"`
	Avatar string `json:"avatar,omitempty"`
}
