package tasks

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/lysyi3m/jsonfeed-comb/app/database"
	"github.com/lysyi3m/jsonfeed-comb/app/feed"
)

const articlePage = `<!DOCTYPE html>
<html>
<head><title>Article</title></head>
<body>
	<nav>Home | About</nav>
	<article>
		<h1>Article Title</h1>
		<p>This is the full article text. It contains several sentences of meaningful content that the readability algorithm should pick up as the main body.</p>
		<p>Another paragraph adds more substance so that the extracted article clears the character threshold used by the extractor.</p>
		<p>A further paragraph with even more words to make sure the content is considered the primary part of the page by the algorithm.</p>
		<p>The closing paragraph wraps up the article, repeating that this block of text is the real content, not navigation or boilerplate.</p>
	</article>
	<footer>Copyright</footer>
</body>
</html>`

func TestExtractContentTask_Execute(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/article", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Write([]byte(articlePage))
	})
	mux.HandleFunc("/binary", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/octet-stream")
		w.Write([]byte{0, 1, 2})
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	postRepo := NewMockPostRepository()
	_ = postRepo.UpsertPost("blog", database.Post{GUID: "1", Permalink: server.URL + "/article", ExtractionStatus: database.ExtractionPending})
	_ = postRepo.UpsertPost("blog", database.Post{GUID: "2", Permalink: server.URL + "/binary", ExtractionStatus: database.ExtractionPending})
	_ = postRepo.UpsertPost("blog", database.Post{GUID: "3", Permalink: server.URL + "/article", ExtractionStatus: database.ExtractionSkipped})

	config := newUpstreamConfig(server.URL)
	config.Upstream.ExtractContent = true

	task := NewExtractContentTask("blog", config, server.Client(), feed.NewContentExtractor(), postRepo, "Test Agent")
	if err := task.Execute(context.Background()); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if postRepo.statuses[1] != database.ExtractionSuccess {
		t.Errorf("Expected post 1 to be extracted, got '%s'", postRepo.statuses[1])
	}
	if !strings.Contains(postRepo.content[1], "full article text") {
		t.Errorf("Expected extracted article, got '%s'", postRepo.content[1])
	}
	if postRepo.statuses[2] != database.ExtractionFailed {
		t.Errorf("Expected post 2 to fail on non-HTML content, got '%s'", postRepo.statuses[2])
	}
	if _, ok := postRepo.statuses[3]; ok {
		t.Error("Expected skipped post to be left alone")
	}
}

func TestExtractContentTask_Disabled(t *testing.T) {
	postRepo := NewMockPostRepository()
	_ = postRepo.UpsertPost("blog", database.Post{GUID: "1", Permalink: "https://example.com/1", ExtractionStatus: database.ExtractionPending})

	task := NewExtractContentTask("blog", newUpstreamConfig("https://example.com"), http.DefaultClient, feed.NewContentExtractor(), postRepo, "Test Agent")
	if err := task.Execute(context.Background()); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if len(postRepo.statuses) != 0 {
		t.Error("Expected no extraction when disabled")
	}
}
