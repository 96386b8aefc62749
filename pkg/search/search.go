// Package search runs a CNIC lookup across every merit list document under budgets.
package search

import (
	"context"
	"io"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/dtnitsch/merit-scan/models"
	"github.com/dtnitsch/merit-scan/pkg/identifier"
	"github.com/dtnitsch/merit-scan/pkg/scanner"
	"github.com/google/uuid"
)

// ListSource produces the index entries for one search.
type ListSource interface {
	Fetch(ctx context.Context) ([]models.ListEntry, error)
}

// DocumentScanner scans one document for a normalized identifier.
type DocumentScanner interface {
	Scan(ctx context.Context, url, needle string, limits scanner.Limits) scanner.Result
}

// Recorder keeps a log of document fetch attempts. It must be safe for concurrent use.
type Recorder interface {
	RecordAccess(access models.DocumentAccess) error
}

// Coordinator owns the per-request counters of a search. It keeps no state between searches.
type Coordinator struct {
	lists    ListSource
	scanner  DocumentScanner
	recorder Recorder
	logger   *slog.Logger
	now      func() time.Time
}

// Option customizes a Coordinator.
type Option func(*Coordinator)

// WithRecorder logs every document fetch attempt to r.
func WithRecorder(r Recorder) Option {
	return func(c *Coordinator) { c.recorder = r }
}

// WithLogger sets the logger for search progress.
func WithLogger(l *slog.Logger) Option {
	return func(c *Coordinator) { c.logger = l }
}

func NewCoordinator(lists ListSource, s DocumentScanner, opts ...Option) *Coordinator {
	c := &Coordinator{
		lists:   lists,
		scanner: s,
		logger:  slog.New(slog.NewTextHandler(io.Discard, nil)),
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Search looks for raw in every listed document, in index order, until the
// entries run out or a budget is hit. raw must be digits only; anything else
// fails with identifier.ErrInvalidIdentifier before any network call.
// An unreachable index yields an empty outcome, not an error.
func (c *Coordinator) Search(ctx context.Context, raw string, cfg models.SearchConfig) (*models.SearchOutcome, error) {
	needle, err := identifier.Validate(raw)
	if err != nil {
		return nil, err
	}
	cfg = cfg.WithDefaults()

	start := c.now()
	logger := c.logger.With("search_id", uuid.NewString())
	outcome := models.NewSearchOutcome(raw)
	logger.Info("Starting search", "max_documents", cfg.MaxDocuments, "max_matches", cfg.MaxMatches, "workers", cfg.Workers)

	entries, err := c.lists.Fetch(ctx)
	if err != nil {
		logger.Warn("Merit list index unavailable, returning empty result", "error", err)
		return outcome, nil
	}
	logger.Info("Fetched merit lists", "entries", len(entries))
	if len(entries) == 0 {
		return outcome, nil
	}

	r := &run{
		coordinator: c,
		logger:      logger,
		needle:      needle,
		cfg:         cfg,
		deadline:    start.Add(cfg.MaxWallTime),
		outcome:     outcome,
	}
	if cfg.Workers > 1 {
		r.concurrent(ctx, entries)
	} else {
		r.sequential(ctx, entries)
	}

	outcome.Elapsed = c.now().Sub(start)
	logger.Info("Search completed", "matches", len(outcome.Matches), "documents_scanned", outcome.DocumentsScanned, "truncated", outcome.Truncated, "elapsed", outcome.Elapsed)
	return outcome, nil
}

// run holds the counters of one search.
type run struct {
	coordinator *Coordinator
	logger      *slog.Logger
	needle      string
	cfg         models.SearchConfig
	deadline    time.Time

	mu      sync.Mutex
	outcome *models.SearchOutcome
}

func (r *run) limits() scanner.Limits {
	return scanner.Limits{Timeout: r.cfg.PerDocumentTimeout, MaxBytes: r.cfg.MaxDocumentBytes}
}

// exhausted reports whether a budget forbids starting another document. Callers hold r.mu.
func (r *run) exhausted(started int) bool {
	return started >= r.cfg.MaxDocuments ||
		len(r.outcome.Matches) >= r.cfg.MaxMatches ||
		r.coordinator.now().After(r.deadline)
}

func (r *run) sequential(ctx context.Context, entries []models.ListEntry) {
	for i, entry := range entries {
		if !entry.HasDocument() {
			continue
		}
		if r.exhausted(r.outcome.DocumentsScanned) || ctx.Err() != nil {
			r.outcome.Truncated = true
			return
		}

		r.logger.Info("Scanning document", "index", i, "title", entry.Title, "url", entry.DocumentURL)
		res := r.coordinator.scanner.Scan(ctx, entry.DocumentURL, r.needle, r.limits())
		r.outcome.DocumentsScanned++
		r.collect(i, entry, res)
	}
}

type job struct {
	index int
	entry models.ListEntry
}

// concurrent scans with a bounded worker pool. Once the match budget is hit no
// new fetch starts, in-flight scans finish, and matches are re-sorted into
// index order.
func (r *run) concurrent(ctx context.Context, entries []models.ListEntry) {
	stopCtx, stop := context.WithCancel(ctx)
	defer stop()

	jobs := make(chan job)
	var wg sync.WaitGroup
	for w := 1; w <= r.cfg.Workers; w++ {
		wg.Add(1)
		go r.worker(ctx, stopCtx, stop, w, &wg, jobs)
	}

	dispatched := 0
dispatch:
	for i, entry := range entries {
		if !entry.HasDocument() {
			continue
		}

		r.mu.Lock()
		done := r.exhausted(dispatched)
		r.mu.Unlock()
		if done || stopCtx.Err() != nil {
			r.markTruncated()
			break
		}

		select {
		case jobs <- job{index: i, entry: entry}:
			dispatched++
		case <-stopCtx.Done():
			r.markTruncated()
			break dispatch
		}
	}
	close(jobs)
	wg.Wait()

	sort.SliceStable(r.outcome.Matches, func(a, b int) bool {
		return r.outcome.Matches[a].EntryIndex < r.outcome.Matches[b].EntryIndex
	})
	sort.SliceStable(r.outcome.Failures, func(a, b int) bool {
		return r.outcome.Failures[a].EntryIndex < r.outcome.Failures[b].EntryIndex
	})
}

func (r *run) worker(ctx, stopCtx context.Context, stop context.CancelFunc, id int, wg *sync.WaitGroup, jobs <-chan job) {
	defer wg.Done()
	for j := range jobs {
		if stopCtx.Err() != nil {
			// Budget was reached after this job was handed over; leave it unexamined.
			r.markTruncated()
			continue
		}

		r.logger.Info("Worker started document", "worker_id", id, "index", j.index, "title", j.entry.Title, "url", j.entry.DocumentURL)
		res := r.coordinator.scanner.Scan(ctx, j.entry.DocumentURL, r.needle, r.limits())

		r.mu.Lock()
		r.outcome.DocumentsScanned++
		r.collect(j.index, j.entry, res)
		if len(r.outcome.Matches) >= r.cfg.MaxMatches {
			stop()
		}
		r.mu.Unlock()
	}
}

func (r *run) markTruncated() {
	r.mu.Lock()
	r.outcome.Truncated = true
	r.mu.Unlock()
}

// collect folds one scan result into the outcome. Concurrent callers hold r.mu.
func (r *run) collect(index int, entry models.ListEntry, res scanner.Result) {
	r.record(entry, res)

	switch res.State {
	case scanner.Found:
		m := *res.Match
		m.Entry = entry
		m.EntryIndex = index
		r.outcome.Matches = append(r.outcome.Matches, m)
		r.logger.Info("Found match", "title", entry.Title, "list_number", entry.ListNumber, "source", m.Source, "page", m.Page)
	case scanner.Failed:
		r.outcome.Failures = append(r.outcome.Failures, models.DocumentFailure{
			EntryIndex: index,
			URL:        entry.DocumentURL,
			Title:      entry.Title,
			ErrorType:  res.ErrorType,
			Error:      errString(res.Err),
		})
	}
}

func (r *run) record(entry models.ListEntry, res scanner.Result) {
	if r.coordinator.recorder == nil {
		return
	}
	access := models.DocumentAccess{
		URL:       entry.DocumentURL,
		Title:     entry.Title,
		Bytes:     int64(res.Bytes),
		Pages:     res.Pages,
		Duration:  res.Duration,
		Success:   res.State != scanner.Failed,
		ErrorType: res.ErrorType,
	}
	if err := r.coordinator.recorder.RecordAccess(access); err != nil {
		r.logger.Warn("Failed to record document access", "url", entry.DocumentURL, "error", err)
	}
}

func errString(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}
