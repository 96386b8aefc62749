package fetcher

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/list.pdf", func(w http.ResponseWriter, r *http.Request) {
		if ua := r.Header.Get("User-Agent"); ua != "MeritScanTest/1.0" {
			http.Error(w, "missing user agent", http.StatusBadRequest)
			return
		}
		_, _ = w.Write([]byte("%PDF-1.4 fake body"))
	})
	mux.HandleFunc("/big.pdf", func(w http.ResponseWriter, r *http.Request) {
		// No Content-Length: force a chunked response so the limit is enforced while streaming.
		flusher := w.(http.Flusher)
		for i := 0; i < 10; i++ {
			_, _ = w.Write([]byte(strings.Repeat("x", 100)))
			flusher.Flush()
		}
	})
	mux.HandleFunc("/sized.pdf", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Length", "5000")
		_, _ = w.Write([]byte(strings.Repeat("y", 5000)))
	})
	mux.HandleFunc("/missing.pdf", func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	})
	mux.HandleFunc("/slow.pdf", func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-time.After(2 * time.Second):
		case <-r.Context().Done():
		}
	})
	mux.HandleFunc("/index", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("<table></table>"))
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func newTestFetcher() *Fetcher {
	return NewFetcher(Options{UserAgent: "MeritScanTest/1.0"})
}

func TestFetchDocument(t *testing.T) {
	srv := newTestServer(t)
	f := newTestFetcher()

	data, err := f.FetchDocument(context.Background(), srv.URL+"/list.pdf", time.Second, 1<<20)
	if err != nil {
		t.Fatalf("FetchDocument() error = %v", err)
	}
	if string(data) != "%PDF-1.4 fake body" {
		t.Errorf("FetchDocument() = %q", data)
	}
}

func TestFetchDocumentErrors(t *testing.T) {
	srv := newTestServer(t)
	f := newTestFetcher()

	tests := []struct {
		name     string
		path     string
		timeout  time.Duration
		maxBytes int64
		wantErr  error
	}{
		{name: "not found", path: "/missing.pdf", timeout: time.Second, maxBytes: 1 << 20, wantErr: ErrDocumentUnavailable},
		{name: "streamed body over limit", path: "/big.pdf", timeout: time.Second, maxBytes: 500, wantErr: ErrTooLarge},
		{name: "declared length over limit", path: "/sized.pdf", timeout: time.Second, maxBytes: 100, wantErr: ErrTooLarge},
		{name: "timeout", path: "/slow.pdf", timeout: 50 * time.Millisecond, maxBytes: 1 << 20, wantErr: ErrTimeout},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.FetchDocument(context.Background(), srv.URL+tt.path, tt.timeout, tt.maxBytes)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("FetchDocument() error = %v, want %v", err, tt.wantErr)
			}
			if !errors.Is(err, ErrDocumentUnavailable) {
				t.Errorf("every document failure should be ErrDocumentUnavailable, got %v", err)
			}
		})
	}
}

func TestFetchDocumentStatusError(t *testing.T) {
	srv := newTestServer(t)
	_, err := newTestFetcher().FetchDocument(context.Background(), srv.URL+"/missing.pdf", time.Second, 0)

	var statusErr *StatusError
	if !errors.As(err, &statusErr) {
		t.Fatalf("expected *StatusError, got %v", err)
	}
	if statusErr.StatusCode != http.StatusNotFound {
		t.Errorf("StatusCode = %d", statusErr.StatusCode)
	}
}

func TestFetchDocumentUnreachable(t *testing.T) {
	srv := newTestServer(t)
	addr := srv.URL
	srv.Close()

	_, err := newTestFetcher().FetchDocument(context.Background(), addr+"/list.pdf", time.Second, 0)
	if !errors.Is(err, ErrDocumentUnavailable) {
		t.Errorf("expected ErrDocumentUnavailable, got %v", err)
	}
}

func TestGetHtmlBytes(t *testing.T) {
	srv := newTestServer(t)
	f := newTestFetcher()

	body, err := f.GetHtmlBytes(context.Background(), srv.URL+"/index", time.Second)
	if err != nil {
		t.Fatalf("GetHtmlBytes() error = %v", err)
	}
	if string(body) != "<table></table>" {
		t.Errorf("GetHtmlBytes() = %q", body)
	}

	if _, err := f.GetHtmlBytes(context.Background(), srv.URL+"/missing.pdf", time.Second); err == nil {
		t.Error("expected error for 404")
	}
}

func TestRateLimiter(t *testing.T) {
	srv := newTestServer(t)
	f := NewFetcher(Options{UserAgent: "MeritScanTest/1.0", RequestsPerSecond: 20})

	start := time.Now()
	for i := 0; i < 3; i++ {
		if _, err := f.GetHtmlBytes(context.Background(), srv.URL+"/index", time.Second); err != nil {
			t.Fatalf("GetHtmlBytes() error = %v", err)
		}
	}
	// Burst of one: the second and third requests each wait ~50ms.
	if elapsed := time.Since(start); elapsed < 90*time.Millisecond {
		t.Errorf("requests were not throttled, took %v", elapsed)
	}
}

func TestInitialCapacity(t *testing.T) {
	tests := []struct {
		name          string
		contentLength int64
		want          int
	}{
		{name: "unknown length", contentLength: -1, want: chunkSize},
		{name: "small body", contentLength: 5000, want: 5000},
		{name: "declared huge", contentLength: 1 << 40, want: 2 * chunkSize},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := initialCapacity(tt.contentLength); got != tt.want {
				t.Errorf("initialCapacity(%d) = %d, want %d", tt.contentLength, got, tt.want)
			}
		})
	}
}
