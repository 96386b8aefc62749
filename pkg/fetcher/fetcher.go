package fetcher

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"golang.org/x/time/rate"
)

var (
	// ErrDocumentUnavailable covers HTTP errors and non-2xx responses for a document.
	ErrDocumentUnavailable = errors.New("document unavailable")
	// ErrTimeout is returned when a single request exceeds its deadline.
	ErrTimeout = errors.New("request timed out")
	// ErrTooLarge is returned when a body exceeds the configured byte limit.
	ErrTooLarge = fmt.Errorf("%w: body exceeds size limit", ErrDocumentUnavailable)
)

const chunkSize = 32 << 10

// Options configures a Fetcher.
type Options struct {
	UserAgent string
	// RequestsPerSecond throttles all requests made through the Fetcher. Zero disables throttling.
	RequestsPerSecond float64
	Client            *http.Client
}

// Fetcher issues GET requests with a descriptive User-Agent and a shared politeness limiter.
// It never retries; retry policy belongs to the caller.
type Fetcher struct {
	client    *http.Client
	userAgent string
	limiter   *rate.Limiter
}

func NewFetcher(opts Options) *Fetcher {
	client := opts.Client
	if client == nil {
		client = &http.Client{}
	}
	limit := rate.Inf
	if opts.RequestsPerSecond > 0 {
		limit = rate.Limit(opts.RequestsPerSecond)
	}
	return &Fetcher{
		client:    client,
		userAgent: opts.UserAgent,
		limiter:   rate.NewLimiter(limit, 1),
	}
}

// GetHtmlBytes fetches a page body in full. timeout bounds the whole request.
func (f *Fetcher) GetHtmlBytes(ctx context.Context, url string, timeout time.Duration) ([]byte, error) {
	if err := f.wait(ctx); err != nil {
		return nil, err
	}
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	resp, err := f.get(ctx, url)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("failed to fetch HTML, status code: %d", resp.StatusCode)
	}

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, classify(ctx, fmt.Errorf("failed to read response body: %w", err))
	}
	return bodyBytes, nil
}

// FetchDocument downloads one document. The body is read in chunks and never
// grows beyond maxBytes; a larger body fails with ErrTooLarge. Exceeding timeout
// fails with ErrTimeout and affects only this request.
func (f *Fetcher) FetchDocument(ctx context.Context, url string, timeout time.Duration, maxBytes int64) ([]byte, error) {
	if err := f.wait(ctx); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDocumentUnavailable, err)
	}
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	resp, err := f.get(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDocumentUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &StatusError{URL: url, StatusCode: resp.StatusCode}
	}
	if maxBytes > 0 && resp.ContentLength > maxBytes {
		return nil, fmt.Errorf("%w: %d bytes > %d", ErrTooLarge, resp.ContentLength, maxBytes)
	}

	var buf bytes.Buffer
	buf.Grow(initialCapacity(resp.ContentLength))
	body := io.Reader(resp.Body)
	if maxBytes > 0 {
		body = io.LimitReader(resp.Body, maxBytes+1)
	}
	if _, err := io.CopyBuffer(&buf, body, make([]byte, chunkSize)); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDocumentUnavailable, classify(ctx, err))
	}
	if maxBytes > 0 && int64(buf.Len()) > maxBytes {
		return nil, fmt.Errorf("%w: more than %d bytes", ErrTooLarge, maxBytes)
	}
	return buf.Bytes(), nil
}

// initialCapacity sizes the body buffer from the declared length, capped at two
// chunks. The buffer grows as bytes actually arrive.
func initialCapacity(contentLength int64) int {
	if contentLength <= 0 {
		return chunkSize
	}
	return int(min(contentLength, 2*chunkSize))
}

// wait blocks on the politeness limiter. It runs before the per-request
// timeout starts so queueing never eats into a document's budget.
func (f *Fetcher) wait(ctx context.Context) error {
	if err := f.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limiter: %w", err)
	}
	return nil
}

func (f *Fetcher) get(ctx context.Context, url string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	if f.userAgent != "" {
		req.Header.Set("User-Agent", f.userAgent)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, classify(ctx, fmt.Errorf("failed to make HTTP request: %w", err))
	}
	return resp, nil
}

// classify tags err with ErrTimeout when the request's own deadline fired.
func classify(ctx context.Context, err error) error {
	if errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return fmt.Errorf("%w: %w", ErrTimeout, err)
	}
	return err
}

// StatusError is returned for non-2xx document responses.
type StatusError struct {
	URL        string
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s: %s returned status %d", ErrDocumentUnavailable, e.URL, e.StatusCode)
}

func (e *StatusError) Unwrap() error {
	return ErrDocumentUnavailable
}
