// Package sanitize normalizes untrusted strings into plain text or absolute
// http(s) URLs before they are stored on feed objects.
package sanitize

import (
	"strings"
	"unicode"

	"github.com/PuerkitoBio/goquery"
	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// maxStripPasses bounds how often nested entity-encoded markup is unwrapped.
const maxStripPasses = 8

// PlainText trims s, strips all markup and trims the result again.
// Entity-encoded markup is decoded and stripped as well, so the result never
// contains tags. Blank input yields an empty string.
func PlainText(s string) string {
	s = strings.TrimSpace(s)

	for range maxStripPasses {
		if !strings.ContainsAny(s, "<&") {
			return s
		}

		stripped, err := stripMarkup(s)
		if err != nil {
			return ""
		}
		if stripped == s {
			return s
		}
		s = stripped
	}

	return strings.NewReplacer("<", "", ">", "").Replace(s)
}

func stripMarkup(s string) (string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(s))
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(doc.Text()), nil
}

// URL returns raw as a cleaned absolute URL with an http or https scheme,
// or an empty string when raw is blank or does not qualify. Spaces are
// percent-encoded and characters outside the URL allow-list are removed.
func URL(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}

	cleaned := strings.Map(func(r rune) rune {
		if unicode.IsControl(r) || !isURLRune(r) {
			return -1
		}
		return r
	}, strings.ReplaceAll(raw, " ", "%20"))
	if cleaned == "" {
		return ""
	}

	if err := validate.Var(cleaned, "http_url"); err != nil {
		return ""
	}

	return cleaned
}

// isURLRune reports whether r may appear in a stored URL. Non-ASCII runes
// are kept for internationalized paths.
func isURLRune(r rune) bool {
	switch {
	case r >= 0x80:
		return true
	case 'a' <= r && r <= 'z', 'A' <= r && r <= 'Z', '0' <= r && r <= '9':
		return true
	}
	return strings.ContainsRune("-~+_.?#=!&;,/:%@$|*'()[]", r)
}
