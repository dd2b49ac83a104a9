package jsonfeed

import "github.com/lysyi3m/jsonfeed-comb/app/sanitize"

// Author describes the person or organization behind a feed or an item.
// The zero value is an empty author.
type Author struct {
	name      string
	url       string
	avatarURL string
}

func (a *Author) SetName(name string) {
	if name = sanitize.PlainText(name); name != "" {
		a.name = name
	}
}

func (a *Author) SetURL(url string) {
	if url = sanitize.URL(url); url != "" {
		a.url = url
	}
}

// SetAvatarURL sets an image representing the author, ideally square.
func (a *Author) SetAvatarURL(url string) {
	if url = sanitize.URL(url); url != "" {
		a.avatarURL = url
	}
}

func (a *Author) Name() string      { return a.name }
func (a *Author) URL() string       { return a.url }
func (a *Author) AvatarURL() string { return a.avatarURL }

// IsEmpty reports whether no property of the author is set.
func (a *Author) IsEmpty() bool {
	return a == nil || (a.name == "" && a.url == "" && a.avatarURL == "")
}

// Document returns the wire form of the author, or nil when the author is empty.
func (a *Author) Document() *AuthorDocument {
	if a.IsEmpty() {
		return nil
	}

	return &AuthorDocument{
		Name:   a.name,
		URL:    a.url,
		Avatar: a.avatarURL,
	}
}
