package feed

import (
	"cmp"
	"fmt"
	"log/slog"
	"strings"

	"github.com/lysyi3m/jsonfeed-comb/app/jsonfeed"
)

// ItemHook transforms a built item. Returning nil drops the item from the feed.
type ItemHook func(item *jsonfeed.Item, rec Record) *jsonfeed.Item

// AuthorHook transforms a built author. Returning nil drops the author.
type AuthorHook func(author *jsonfeed.Author, rec Record) *jsonfeed.Author

type BuilderOption func(*Builder)

func WithItemHook(hook ItemHook) BuilderOption {
	return func(b *Builder) {
		b.itemHooks = append(b.itemHooks, hook)
	}
}

func WithAuthorHook(hook AuthorHook) BuilderOption {
	return func(b *Builder) {
		b.authorHooks = append(b.authorHooks, hook)
	}
}

// Builder turns a content source into a jsonfeed.Feed.
type Builder struct {
	itemHooks   []ItemHook
	authorHooks []AuthorHook
}

func NewBuilder(opts ...BuilderOption) *Builder {
	b := &Builder{}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

func (b *Builder) BuildFeed(src ContentSource) (*jsonfeed.Feed, error) {
	site := src.Site()

	f, err := jsonfeed.NewFeed(site.Title)
	if err != nil {
		return nil, fmt.Errorf("failed to create feed: %w", err)
	}

	f.SetComment(site.Comment)
	f.SetDescription(site.Description)
	f.SetHomePageURL(site.HomePageURL)
	f.SetFeedURL(site.FeedURL)
	f.SetAuthor(b.buildSiteAuthor(site.Author))

	// A full size icon is only published next to a usable favicon.
	f.SetFaviconURL(site.SmallIconURL)
	if f.FaviconURL() != "" {
		f.SetIconURL(site.IconURL)
	}

	skipped := 0
	for rec := range src.Records() {
		item := b.BuildItem(site, rec)
		if item == nil {
			skipped++
			continue
		}
		f.AddItem(item)
	}

	slog.Debug("Feed built", "title", f.Title(), "items", f.Len(), "skipped", skipped)

	return f, nil
}

// BuildItem returns nil when the record has no usable id or a hook drops it.
func (b *Builder) BuildItem(site Site, rec Record) *jsonfeed.Item {
	id := cmp.Or(strings.TrimSpace(rec.GUID), strings.TrimSpace(rec.Permalink))
	item, err := jsonfeed.NewItem(id)
	if err != nil {
		slog.Debug("Skipping record without id", "type", rec.Type, "title", rec.Title)
		return nil
	}

	if rec.Supports.Has(SupportsTitle) {
		item.SetTitle(rec.Title)
	}

	item.SetURL(rec.Permalink)

	if !rec.PublishedAt.IsZero() {
		item.SetPublished(rec.PublishedAt)
		item.SetModified(rec.ModifiedAt)
	}

	if rec.Supports.Has(SupportsExcerpt) {
		item.SetSummary(rec.Excerpt)
	}

	if !site.UseExcerpt {
		item.SetContentHTML(rec.Content)
	}

	if rec.Supports.Has(SupportsThumbnail) {
		item.SetImage(rec.ThumbnailURL)
	}

	if rec.Supports.Has(SupportsAuthor) {
		if author := b.BuildAuthor(rec); author != nil {
			item.SetAuthor(author)
		}
	}

	for _, tag := range rec.Tags {
		item.AddTag(tag)
	}

	for _, hook := range b.itemHooks {
		if item = hook(item, rec); item == nil {
			return nil
		}
	}

	return item
}

// BuildAuthor returns nil when the record carries no author information.
func (b *Builder) BuildAuthor(rec Record) *jsonfeed.Author {
	author := &jsonfeed.Author{}
	author.SetName(rec.AuthorName)
	author.SetURL(rec.AuthorURL)

	for _, hook := range b.authorHooks {
		if author = hook(author, rec); author == nil {
			return nil
		}
	}

	if author.IsEmpty() {
		return nil
	}

	return author
}

func (b *Builder) buildSiteAuthor(sa SiteAuthor) *jsonfeed.Author {
	author := &jsonfeed.Author{}
	author.SetName(sa.Name)
	author.SetURL(sa.URL)
	author.SetAvatarURL(sa.AvatarURL)
	return author
}
