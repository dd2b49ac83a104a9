package tasks

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func TestFetch(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/latin1", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=ISO-8859-1")
		w.Write([]byte("<p>caf\xe9</p>"))
	})
	mux.HandleFunc("/utf8", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Write([]byte("<p>café</p>"))
	})
	mux.HandleFunc("/unknown-charset", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=klingon")
		w.Write([]byte("<p>qapla</p>"))
	})
	mux.HandleFunc("/feed", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("User-Agent") != "Test Agent" {
			w.WriteHeader(http.StatusForbidden)
			return
		}
		w.Header().Set("Content-Type", "application/rss+xml; charset=windows-1252")
		w.Write([]byte("<rss>caf\xe9</rss>"))
	})
	mux.HandleFunc("/missing", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	get := func(path, contentType string) ([]byte, error) {
		return fetch(context.Background(), server.Client(), server.URL+path, "Test Agent", 5*time.Second, contentType)
	}

	data, err := get("/latin1", "text/html")
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if string(data) != "<p>café</p>" {
		t.Errorf("Expected body decoded to UTF-8, got '%s'", data)
	}

	data, err = get("/utf8", "text/html")
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if string(data) != "<p>café</p>" {
		t.Errorf("Expected UTF-8 body unchanged, got '%s'", data)
	}

	if _, err := get("/unknown-charset", "text/html"); err == nil || !strings.Contains(err.Error(), "unsupported charset") {
		t.Errorf("Expected unsupported charset error, got %v", err)
	}

	// Feeds are passed through untouched
	data, err = get("/feed", "")
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if string(data) != "<rss>caf\xe9</rss>" {
		t.Errorf("Expected raw feed body, got '%s'", data)
	}

	if _, err := get("/feed", "text/html"); err == nil {
		t.Error("Expected error for unexpected content type")
	}

	if _, err := get("/missing", ""); err == nil || !strings.Contains(err.Error(), "404") {
		t.Errorf("Expected HTTP 404 error, got %v", err)
	}
}
