package feed

import (
	"testing"
	"time"
)

func TestParseRSS2(t *testing.T) {
	rssData := `<?xml version="1.0"?>
<rss version="2.0">
  <channel>
    <title>Test Feed</title>
    <link>https://example.com</link>
    <description>Test Description</description>
    <language>en-us</language>
    <image>
      <url>https://example.com/icon.png</url>
      <title>Test Feed</title>
      <link>https://example.com</link>
    </image>
    <item>
      <title>Test Item 1</title>
      <link>https://example.com/item1</link>
      <description>Test Item 1 Description</description>
      <guid>item-1</guid>
      <pubDate>Mon, 03 Jul 2023 10:00:00 GMT</pubDate>
      <author>test@example.com (Test Author)</author>
      <category>Technology</category>
      <category>Programming</category>
      <category> </category>
    </item>
    <item>
      <title>Test Item 2</title>
      <link>https://example.com/item2</link>
      <description>Test Item 2 Description</description>
      <pubDate>Mon, 03 Jul 2023 11:00:00 GMT</pubDate>
    </item>
  </channel>
</rss>`

	parser := NewParser()
	metadata, entries, err := parser.Run([]byte(rssData))

	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}

	if metadata.Title != "Test Feed" {
		t.Errorf("Expected title 'Test Feed', got: %s", metadata.Title)
	}
	if metadata.Link != "https://example.com" {
		t.Errorf("Expected link 'https://example.com', got: %s", metadata.Link)
	}
	if metadata.Description != "Test Description" {
		t.Errorf("Expected description 'Test Description', got: %s", metadata.Description)
	}
	if metadata.Language != "en-us" {
		t.Errorf("Expected language 'en-us', got: %s", metadata.Language)
	}
	if metadata.ImageURL != "https://example.com/icon.png" {
		t.Errorf("Expected image URL 'https://example.com/icon.png', got: %s", metadata.ImageURL)
	}

	if len(entries) != 2 {
		t.Fatalf("Expected 2 entries, got: %d", len(entries))
	}

	entry := entries[0]
	if entry.Title != "Test Item 1" {
		t.Errorf("Expected title 'Test Item 1', got: %s", entry.Title)
	}
	if entry.Link != "https://example.com/item1" {
		t.Errorf("Expected link 'https://example.com/item1', got: %s", entry.Link)
	}
	if entry.GUID != "item-1" {
		t.Errorf("Expected GUID 'item-1', got: %s", entry.GUID)
	}
	if entry.Excerpt != "Test Item 1 Description" {
		t.Errorf("Expected excerpt from description, got: %s", entry.Excerpt)
	}
	if len(entry.Categories) != 2 {
		t.Errorf("Expected blank category to be dropped, got: %v", entry.Categories)
	}
	if entry.AuthorName == "" {
		t.Error("Expected author to be extracted")
	}
	if entry.PublishedAt == nil || !entry.PublishedAt.Equal(time.Date(2023, 7, 3, 10, 0, 0, 0, time.UTC)) {
		t.Errorf("Expected published time 2023-07-03 10:00 UTC, got: %v", entry.PublishedAt)
	}
	if entry.ContentHash == "" {
		t.Error("Expected content hash to be generated")
	}

	if entries[1].GUID != "https://example.com/item2" {
		t.Errorf("Expected GUID to fall back to link, got: %s", entries[1].GUID)
	}
}

func TestParseAtom(t *testing.T) {
	atomData := `<?xml version="1.0" encoding="utf-8"?>
<feed xmlns="http://www.w3.org/2005/Atom">
  <title>Test Atom Feed</title>
  <link href="https://example.com"/>
  <updated>2023-07-03T12:00:00Z</updated>
  <id>urn:uuid:1234567890</id>
  <entry>
    <title>Test Entry</title>
    <link href="https://example.com/entry1"/>
    <id>urn:uuid:entry-1</id>
    <updated>2023-07-03T10:00:00Z</updated>
    <author>
      <name>Entry Author</name>
    </author>
    <content type="html">Test content</content>
  </entry>
</feed>`

	parser := NewParser()
	metadata, entries, err := parser.Run([]byte(atomData))

	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}

	if metadata.Title != "Test Atom Feed" {
		t.Errorf("Expected title 'Test Atom Feed', got: %s", metadata.Title)
	}

	if len(entries) != 1 {
		t.Fatalf("Expected 1 entry, got: %d", len(entries))
	}

	entry := entries[0]
	if entry.Title != "Test Entry" {
		t.Errorf("Expected title 'Test Entry', got: %s", entry.Title)
	}
	if entry.GUID != "urn:uuid:entry-1" {
		t.Errorf("Expected GUID 'urn:uuid:entry-1', got: %s", entry.GUID)
	}
	if entry.Content != "Test content" {
		t.Errorf("Expected content 'Test content', got: %s", entry.Content)
	}
	if entry.AuthorName != "Entry Author" {
		t.Errorf("Expected author 'Entry Author', got: %s", entry.AuthorName)
	}
	if entry.UpdatedAt == nil {
		t.Error("Expected updated time to be parsed")
	}
}

func TestParseInvalidFeed(t *testing.T) {
	parser := NewParser()
	_, _, err := parser.Run([]byte("invalid xml"))

	if err == nil {
		t.Error("Expected error for invalid XML")
	}
}

func TestContentHashGeneration(t *testing.T) {
	parser := NewParser()

	entry1 := Entry{Title: "Test Title", Link: "https://example.com/item1"}
	entry2 := Entry{Title: "Test Title", Link: "https://example.com/item1"}
	entry3 := Entry{Title: "Different Title", Link: "https://example.com/item1"}

	hash1 := parser.generateContentHash(entry1)
	hash2 := parser.generateContentHash(entry2)
	hash3 := parser.generateContentHash(entry3)

	if hash1 != hash2 {
		t.Error("Expected same hash for identical entries")
	}

	if hash1 == hash3 {
		t.Error("Expected different hash for different entries")
	}
}

func TestParseRSSWithImageEnclosure(t *testing.T) {
	rssData := `<?xml version="1.0" encoding="UTF-8"?>
<rss version="2.0">
<channel>
	<title>Photo Blog</title>
	<link>https://example.com</link>
	<description>Pictures</description>
	<item>
		<title>Sunset</title>
		<link>https://example.com/sunset</link>
		<guid>sunset</guid>
		<enclosure url="https://example.com/audio.mp3" length="1000" type="audio/mpeg" />
		<enclosure url="https://example.com/sunset.jpg" length="2000" type="image/jpeg" />
	</item>
	<item>
		<title>Podcast</title>
		<link>https://example.com/podcast</link>
		<guid>podcast</guid>
		<enclosure url="https://example.com/episode.mp3" length="1000" type="audio/mpeg" />
	</item>
</channel>
</rss>`

	parser := NewParser()
	_, entries, err := parser.Run([]byte(rssData))
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}

	if len(entries) != 2 {
		t.Fatalf("Expected 2 entries, got: %d", len(entries))
	}

	if entries[0].ImageURL != "https://example.com/sunset.jpg" {
		t.Errorf("Expected first image enclosure, got: %s", entries[0].ImageURL)
	}
	if entries[1].ImageURL != "" {
		t.Errorf("Expected no image for audio-only item, got: %s", entries[1].ImageURL)
	}
}

func TestParser_normalizeURL(t *testing.T) {
	parser := NewParser()

	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "URL with UTM parameters",
			input:    "https://example.com/article?utm_source=twitter&utm_medium=social&utm_campaign=test",
			expected: "https://example.com/article",
		},
		{
			name:     "URL with Facebook tracking",
			input:    "https://example.com/page?fbclid=IwAR123456789&other=keep",
			expected: "https://example.com/page?other=keep",
		},
		{
			name:     "URL with Google click ID",
			input:    "https://example.com/landing?gclid=abc123&page=home",
			expected: "https://example.com/landing?page=home",
		},
		{
			name:     "URL without tracking parameters",
			input:    "https://example.com/clean?page=1&sort=date",
			expected: "https://example.com/clean?page=1&sort=date",
		},
		{
			name:     "URL without query parameters",
			input:    "https://example.com/simple",
			expected: "https://example.com/simple",
		},
		{
			name:     "Empty URL",
			input:    "",
			expected: "",
		},
		{
			name:     "Invalid URL",
			input:    "not-a-valid-url",
			expected: "not-a-valid-url",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := parser.normalizeURL(tt.input)
			if result != tt.expected {
				t.Errorf("Expected %q, got %q", tt.expected, result)
			}
		})
	}
}

func TestParser_normalizeItem_WithTrackingParams(t *testing.T) {
	rssData := `<?xml version="1.0"?>
<rss version="2.0">
  <channel>
    <title>Test Feed</title>
    <link>https://example.com</link>
    <description>Test Description</description>
    <item>
      <title>Test Item</title>
      <link>https://example.com/article?utm_source=twitter&amp;fbclid=IwAR123456789</link>
      <description>Test Description</description>
    </item>
  </channel>
</rss>`

	parser := NewParser()
	_, entries, err := parser.Run([]byte(rssData))
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}

	if len(entries) != 1 {
		t.Fatalf("Expected 1 entry, got: %d", len(entries))
	}

	expectedLink := "https://example.com/article"
	if entries[0].Link != expectedLink {
		t.Errorf("Expected normalized link %q, got %q", expectedLink, entries[0].Link)
	}
	if entries[0].GUID != expectedLink {
		t.Errorf("Expected GUID to be normalized link %q, got %q", expectedLink, entries[0].GUID)
	}
}

func TestParseAuthorEmailNotUsedAsName(t *testing.T) {
	atomData := `<?xml version="1.0" encoding="utf-8"?>
<feed xmlns="http://www.w3.org/2005/Atom">
  <title>Atom Feed</title>
  <id>urn:uuid:feed</id>
  <updated>2023-07-03T10:00:00Z</updated>
  <entry>
    <title>Email only</title>
    <id>urn:uuid:email-only</id>
    <link href="https://example.com/email-only"/>
    <updated>2023-07-03T10:00:00Z</updated>
    <author>
      <email>jane@example.com</email>
    </author>
  </entry>
  <entry>
    <title>Named</title>
    <id>urn:uuid:named</id>
    <link href="https://example.com/named"/>
    <updated>2023-07-03T11:00:00Z</updated>
    <author>
      <name>Jane</name>
      <email>jane@example.com</email>
    </author>
  </entry>
</feed>`

	_, entries, err := NewParser().Run([]byte(atomData))
	if err != nil {
		t.Fatalf("Failed to parse Atom: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("Expected 2 entries, got %d", len(entries))
	}

	if entries[0].AuthorName != "" {
		t.Errorf("Expected no author name for an email-only author, got '%s'", entries[0].AuthorName)
	}
	if entries[1].AuthorName != "Jane" {
		t.Errorf("Expected author 'Jane', got '%s'", entries[1].AuthorName)
	}
}
