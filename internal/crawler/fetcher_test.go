package crawler

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

// TestHTTPFetcherFetch tests topic document retrieval.
func TestHTTPFetcherFetch(t *testing.T) {
	t.Parallel()

	t.Run("fetches the JSON rendition", func(t *testing.T) {
		t.Parallel()

		var gotPath, gotAccept string
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			gotPath = r.URL.Path
			gotAccept = r.Header.Get("Accept")
			_, _ = w.Write([]byte(`[{"@id": "http://metadata.un.org/thesaurus/020200"}]`))
		}))
		defer server.Close()

		f := NewHTTPFetcher(server.Client(), WithBaseURL(server.URL+"/thesaurus/%s"))
		data, err := f.Fetch(context.Background(), "020200")
		if err != nil {
			t.Fatalf("fetch failed: %v", err)
		}
		if gotPath != "/thesaurus/020200.json" {
			t.Errorf("unexpected path %q", gotPath)
		}
		if gotAccept != "application/ld+json" {
			t.Errorf("unexpected Accept header %q", gotAccept)
		}
		if !strings.Contains(string(data), "020200") {
			t.Errorf("unexpected body %q", data)
		}
	})

	t.Run("non-200 status is an error", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusNotFound)
		}))
		defer server.Close()

		f := NewHTTPFetcher(server.Client(), WithBaseURL(server.URL+"/thesaurus/%s"))
		_, err := f.Fetch(context.Background(), "missing")
		if !errors.Is(err, ErrUnexpectedStatus) {
			t.Errorf("expected ErrUnexpectedStatus, got %v", err)
		}
	})

	t.Run("deadline applies when context has none", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			select {
			case <-r.Context().Done():
			case <-time.After(5 * time.Second):
			}
		}))
		defer server.Close()

		f := NewHTTPFetcher(server.Client(),
			WithBaseURL(server.URL+"/thesaurus/%s"),
			WithTimeout(50*time.Millisecond),
		)

		start := time.Now()
		_, err := f.Fetch(context.Background(), "slow")
		if err == nil {
			t.Fatal("expected timeout error")
		}
		if elapsed := time.Since(start); elapsed > 2*time.Second {
			t.Errorf("fetch did not respect deadline, took %v", elapsed)
		}
	})

	t.Run("body size is capped", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			_, _ = w.Write([]byte(strings.Repeat("x", 1024)))
		}))
		defer server.Close()

		f := NewHTTPFetcher(server.Client(),
			WithBaseURL(server.URL+"/thesaurus/%s"),
			WithMaxBodySize(16),
		)
		data, err := f.Fetch(context.Background(), "big")
		if err != nil {
			t.Fatalf("fetch failed: %v", err)
		}
		if len(data) != 16 {
			t.Errorf("expected capped body of 16 bytes, got %d", len(data))
		}
	})
}

// TestHTTPFetcherFetchPage tests HTML page retrieval for seed discovery.
func TestHTTPFetcherFetchPage(t *testing.T) {
	t.Parallel()

	var gotAccept, gotUA string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAccept = r.Header.Get("Accept")
		gotUA = r.Header.Get("User-Agent")
		_, _ = w.Write([]byte(`<html></html>`))
	}))
	defer server.Close()

	f := NewHTTPFetcher(server.Client(), WithUserAgent("test-agent/1.0"))
	data, err := f.FetchPage(context.Background(), server.URL+"/thesaurus/categories")
	if err != nil {
		t.Fatalf("fetch failed: %v", err)
	}
	if gotAccept != "text/html" {
		t.Errorf("unexpected Accept header %q", gotAccept)
	}
	if gotUA != "test-agent/1.0" {
		t.Errorf("unexpected User-Agent %q", gotUA)
	}
	if string(data) != `<html></html>` {
		t.Errorf("unexpected body %q", data)
	}
}
