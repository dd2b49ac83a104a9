package feed

import (
	"bytes"
	"cmp"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"net/url"
	"strings"

	"github.com/mmcdole/gofeed"
	"github.com/samber/lo"
)

// Parser reads an upstream RSS, Atom or JSON feed into entries that can be
// stored as posts.
type Parser struct {
	gofeedParser *gofeed.Parser
}

func NewParser() *Parser {
	return &Parser{
		gofeedParser: gofeed.NewParser(),
	}
}

func (p *Parser) Run(data []byte) (*Metadata, []Entry, error) {
	parsed, err := p.gofeedParser.Parse(bytes.NewReader(data))
	if err != nil {
		return nil, nil, fmt.Errorf("failed to parse feed: %w", err)
	}

	metadata := &Metadata{
		Title:       parsed.Title,
		Link:        parsed.Link,
		Description: parsed.Description,
		Language:    parsed.Language,
	}

	if parsed.Image != nil {
		metadata.ImageURL = parsed.Image.URL
	}

	entries := make([]Entry, 0, len(parsed.Items))
	for _, item := range parsed.Items {
		if item == nil {
			continue
		}
		entry := p.normalizeItem(item)
		entry.ContentHash = p.generateContentHash(entry)
		entries = append(entries, entry)
	}

	return metadata, entries, nil
}

// Query parameters that only track where a reader came from.
var trackingParams = []string{"fbclid", "gclid", "dclid", "msclkid", "mc_cid", "mc_eid", "yclid", "_hsenc", "_hsmi"}

func (p *Parser) normalizeItem(item *gofeed.Item) Entry {
	link := p.normalizeURL(strings.TrimSpace(item.Link))

	entry := Entry{
		GUID:        cmp.Or(strings.TrimSpace(item.GUID), link),
		Title:       item.Title,
		Link:        link,
		Excerpt:     item.Description,
		Content:     item.Content,
		PublishedAt: item.PublishedParsed,
		UpdatedAt:   item.UpdatedParsed,
		AuthorName:  p.extractAuthor(item),
		ImageURL:    p.extractImage(item),
	}

	entry.Categories = lo.Filter(item.Categories, func(category string, _ int) bool {
		return strings.TrimSpace(category) != ""
	})

	return entry
}

// normalizeURL drops tracking parameters. Unparseable links are returned as is.
func (p *Parser) normalizeURL(rawURL string) string {
	if rawURL == "" {
		return ""
	}

	parsed, err := url.Parse(rawURL)
	if err != nil || parsed.RawQuery == "" {
		return rawURL
	}

	query := parsed.Query()
	for key := range query {
		if strings.HasPrefix(strings.ToLower(key), "utm_") || lo.Contains(trackingParams, strings.ToLower(key)) {
			query.Del(key)
		}
	}
	parsed.RawQuery = query.Encode()

	return parsed.String()
}

func (p *Parser) generateContentHash(entry Entry) string {
	content := fmt.Sprintf("%s|%s", entry.Title, entry.Link)

	hash := sha256.Sum256([]byte(content))
	return hex.EncodeToString(hash[:])
}

func (p *Parser) extractAuthor(item *gofeed.Item) string {
	authors := item.Authors
	if len(authors) == 0 && item.Author != nil {
		authors = []*gofeed.Person{item.Author}
	}

	for _, author := range authors {
		if author == nil {
			continue
		}
		// Addresses are never published as names.
		if name := strings.TrimSpace(author.Name); name != "" {
			return name
		}
	}

	return ""
}

// extractImage prefers the item image and falls back to the first image enclosure.
func (p *Parser) extractImage(item *gofeed.Item) string {
	if item.Image != nil && item.Image.URL != "" {
		return item.Image.URL
	}

	enclosure, found := lo.Find(item.Enclosures, func(e *gofeed.Enclosure) bool {
		return e != nil && e.URL != "" && strings.HasPrefix(e.Type, "image/")
	})
	if found {
		return enclosure.URL
	}

	return ""
}
