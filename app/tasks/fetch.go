package tasks

import (
	"context"
	"fmt"
	"io"
	"mime"
	"net/http"
	"strings"
	"time"

	"golang.org/x/text/encoding/htmlindex"
)

// maxBodySize caps how much of an upstream response is read.
const maxBodySize = 10 << 20

// fetch downloads url within timeout. When contentType is set, responses of
// another media type are rejected and the body is converted to UTF-8.
func fetch(ctx context.Context, client *http.Client, url, userAgent string, timeout time.Duration, contentType string) ([]byte, error) {
	timeoutCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(timeoutCtx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("User-Agent", userAgent)

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch URL: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("HTTP error: %d %s", resp.StatusCode, resp.Status)
	}

	got := resp.Header.Get("Content-Type")
	if contentType != "" && !strings.Contains(strings.ToLower(got), contentType) {
		return nil, fmt.Errorf("content type is not %s: %s", contentType, got)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	// XML feeds declare their own encoding, which the parser honors.
	if contentType == "" {
		return data, nil
	}

	return toUTF8(data, got)
}

// toUTF8 decodes data from the charset named in a Content-Type header.
func toUTF8(data []byte, contentType string) ([]byte, error) {
	_, params, err := mime.ParseMediaType(contentType)
	if err != nil {
		return data, nil
	}

	name := params["charset"]
	if name == "" || strings.EqualFold(name, "utf-8") || strings.EqualFold(name, "utf8") {
		return data, nil
	}

	enc, err := htmlindex.Get(name)
	if err != nil {
		return nil, fmt.Errorf("unsupported charset %s: %w", name, err)
	}

	decoded, err := enc.NewDecoder().Bytes(data)
	if err != nil {
		return nil, fmt.Errorf("failed to decode %s content: %w", name, err)
	}

	return decoded, nil
}
