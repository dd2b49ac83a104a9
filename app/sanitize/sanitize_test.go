package sanitize

import (
	"strings"
	"testing"
)

func TestPlainText(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"empty", "", ""},
		{"whitespace only", "   \n\t ", ""},
		{"plain", "  Hello world  ", "Hello world"},
		{"paragraph", "<p>Hello <strong>world</strong></p>", "Hello world"},
		{"attributes dropped", `<a href="https://example.com" title="x">link</a>`, "link"},
		{"markup only", "<br/><hr>", ""},
		{"inner whitespace trimmed", "<p>  padded  </p>", "padded"},
		{"entities decoded", "Fish &amp; Chips", "Fish & Chips"},
		{"less-than sign kept", "1 < 2", "1 < 2"},
		{"encoded less-than kept as text", "1 &lt; 2", "1 < 2"},
		{"encoded script stripped", "&lt;script&gt;alert(1)&lt;/script&gt;", "alert(1)"},
		{"encoded tag stripped", "&lt;b&gt;bold&lt;/b&gt;", "bold"},
		{"double encoded tag stripped", "&amp;lt;i&amp;gt;x&amp;lt;/i&amp;gt;", "x"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := PlainText(tt.input)
			if result != tt.expected {
				t.Errorf("Expected '%s', got '%s'", tt.expected, result)
			}
		})
	}
}

func TestPlainTextNeverContainsMarkup(t *testing.T) {
	inputs := []string{
		"<div><p>One</p><p>Two</p></div>",
		"  <em>leading</em> and trailing <b>bold</b>  ",
		`<img src="x.png" alt="image"> caption`,
		"<ul><li>a</li><li>b</li></ul>",
		"&lt;script&gt;alert(1)&lt;/script&gt;",
		"&lt;b&gt;bold&lt;/b&gt;",
		"  &lt;a href=&quot;https://example.com&quot;&gt;link&lt;/a&gt;  ",
		"&amp;lt;img src=x onerror=alert(1)&amp;gt;",
		"<p>&lt;em&gt;mixed&lt;/em&gt;</p>",
		strings.Repeat("&amp;", 12) + "lt;b&gt;deep",
	}

	for _, input := range inputs {
		result := PlainText(input)
		if strings.ContainsAny(result, "<>") {
			t.Errorf("Expected no markup in result for %q, got %q", input, result)
		}
		if result != strings.TrimSpace(result) {
			t.Errorf("Expected no surrounding whitespace for %q, got %q", input, result)
		}
	}
}

func TestURL(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"https", "https://example.com/post/1", "https://example.com/post/1"},
		{"http", "http://example.com", "http://example.com"},
		{"trimmed", "  https://example.com/a  ", "https://example.com/a"},
		{"space encoded", "https://example.com/a b", "https://example.com/a%20b"},
		{"query kept", "https://example.com/?p=42&lang=en", "https://example.com/?p=42&lang=en"},
		{"upper case scheme", "HTTPS://example.com/", "HTTPS://example.com/"},
		{"empty", "", ""},
		{"whitespace", "   ", ""},
		{"relative", "/relative/path", ""},
		{"no scheme", "example.com", ""},
		{"ftp", "ftp://example.com/file", ""},
		{"javascript", "javascript:alert(1)", ""},
		{"mailto", "mailto:jane@example.com", ""},
		{"missing host", "https://", ""},
		{"angle brackets removed", "https://example.com/<script>", "https://example.com/script"},
		{"quote removed", `https://example.com/a"onmouseover=x`, "https://example.com/aonmouseover=x"},
		{"braces and backslash removed", `https://example.com/{a}\b`, "https://example.com/ab"},
		{"percent encoding kept", "https://example.com/caf%C3%A9", "https://example.com/caf%C3%A9"},
		{"unicode path kept", "https://example.com/café", "https://example.com/café"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := URL(tt.input)
			if result != tt.expected {
				t.Errorf("Expected '%s', got '%s'", tt.expected, result)
			}
		})
	}
}
