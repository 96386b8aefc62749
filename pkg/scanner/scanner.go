// Package scanner searches one merit list document for an identifier.
//
// A scan moves through Fetching, Extracting, ScanningTables and ScanningText and
// ends in Found, NotFound or Failed. Tables on every page are searched before any
// plain text, and the first hit wins.
package scanner

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/dtnitsch/merit-scan/models"
	"github.com/dtnitsch/merit-scan/pkg/extractor"
	"github.com/dtnitsch/merit-scan/pkg/fetcher"
	"github.com/dtnitsch/merit-scan/pkg/identifier"
)

// State is a step of a single document scan.
type State int

const (
	Fetching State = iota
	Extracting
	ScanningTables
	ScanningText
	Found
	NotFound
	Failed
)

func (s State) String() string {
	switch s {
	case Fetching:
		return "fetching"
	case Extracting:
		return "extracting"
	case ScanningTables:
		return "scanning_tables"
	case ScanningText:
		return "scanning_text"
	case Found:
		return "found"
	case NotFound:
		return "not_found"
	case Failed:
		return "failed"
	}
	return fmt.Sprintf("state(%d)", int(s))
}

// Error types recorded for failed scans.
const (
	ErrorTypeFetch    = "fetch_error"
	ErrorTypeTimeout  = "timeout"
	ErrorTypeExtract  = "extract_error"
	ErrorTypeCanceled = "canceled"
)

// Match sources.
const (
	SourceTable = "table"
	SourceText  = "text"
)

// CellDelimiter joins the cells of a matching table row into MatchedLine.
const CellDelimiter = " | "

// DocumentSource downloads a document.
type DocumentSource interface {
	FetchDocument(ctx context.Context, url string, timeout time.Duration, maxBytes int64) ([]byte, error)
}

// Extractor opens downloaded bytes for page-by-page extraction.
type Extractor interface {
	Open(data []byte) (extractor.Pages, error)
}

// Limits bounds a single document scan.
type Limits struct {
	Timeout  time.Duration
	MaxBytes int64
}

// Result is the terminal state of one scan.
type Result struct {
	State     State
	Match     *models.MatchResult
	Err       error
	ErrorType string
	Bytes     int
	Pages     int
	Duration  time.Duration
}

// Engine runs document scans. It holds no per-scan state and is safe for concurrent use.
type Engine struct {
	docs      DocumentSource
	extractor Extractor
	logger    *slog.Logger
}

func NewEngine(docs DocumentSource, ext Extractor, logger *slog.Logger) *Engine {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Engine{docs: docs, extractor: ext, logger: logger}
}

// Scan searches the document at url for needle, which must be a normalized digit string.
// Failures are reported in the Result, never as a panic or returned error.
func (e *Engine) Scan(ctx context.Context, url, needle string, limits Limits) Result {
	start := time.Now()
	res := e.scan(ctx, url, needle, limits)
	res.Duration = time.Since(start)

	if res.State == Failed {
		e.logger.Warn("Document scan failed", "url", url, "error_type", res.ErrorType, "error", res.Err, "duration", res.Duration)
	} else {
		e.logger.Debug("Document scan finished", "url", url, "state", res.State.String(), "pages", res.Pages, "bytes", res.Bytes, "duration", res.Duration)
	}
	return res
}

func (e *Engine) scan(ctx context.Context, url, needle string, limits Limits) Result {
	e.logger.Debug("Scan state", "url", url, "state", Fetching.String())
	data, err := e.docs.FetchDocument(ctx, url, limits.Timeout, limits.MaxBytes)
	if err != nil {
		return failed(err, fetchErrorType(err))
	}

	e.logger.Debug("Scan state", "url", url, "state", Extracting.String(), "bytes", len(data))
	pages, err := e.extractor.Open(data)
	if err != nil {
		return Result{State: Failed, Err: err, ErrorType: ErrorTypeExtract, Bytes: len(data)}
	}

	res := Result{State: ScanningTables, Bytes: len(data)}
	// Only the plain text of each page is kept for the text phase; tables are
	// dropped as soon as the page has been searched.
	texts := make([]string, 0, pages.NumPages())

	for n := 1; n <= pages.NumPages(); n++ {
		if err := ctx.Err(); err != nil {
			res.State, res.Err, res.ErrorType = Failed, err, ErrorTypeCanceled
			return res
		}

		unit, err := pages.Page(n)
		if err != nil {
			if n == 1 {
				res.State, res.Err, res.ErrorType = Failed, err, ErrorTypeExtract
				return res
			}
			e.logger.Warn("Partial extraction, scanning parsed pages only", "url", url, "page", n, "pages_total", pages.NumPages(), "error", err)
			break
		}
		res.Pages++

		if m := matchTables(unit, needle); m != nil {
			res.State, res.Match = Found, m
			return res
		}
		texts = append(texts, unit.PlainText)
	}

	e.logger.Debug("Scan state", "url", url, "state", ScanningText.String(), "pages", res.Pages)
	res.State = ScanningText
	for i, text := range texts {
		unit := models.PageTextUnit{Number: i + 1, PlainText: text}
		if m := matchText(unit, needle); m != nil {
			res.State, res.Match = Found, m
			return res
		}
	}

	res.State = NotFound
	return res
}

// matchTables returns the first row of any table on the page with a cell containing needle.
func matchTables(unit models.PageTextUnit, needle string) *models.MatchResult {
	for _, table := range unit.Tables {
		for _, row := range table.Rows {
			for _, cell := range row {
				if identifier.Contains(cell, needle) {
					columns := make([]string, len(row))
					copy(columns, row)
					return &models.MatchResult{
						MatchedLine: strings.Join(columns, CellDelimiter),
						Columns:     columns,
						Source:      SourceTable,
						Page:        unit.Number,
					}
				}
			}
		}
	}
	return nil
}

// matchText returns the first plain text line on the page containing needle.
func matchText(unit models.PageTextUnit, needle string) *models.MatchResult {
	for _, raw := range unit.Lines() {
		if identifier.Contains(raw, needle) {
			line := strings.TrimSpace(raw)
			return &models.MatchResult{
				MatchedLine: line,
				Columns:     strings.Fields(line),
				Source:      SourceText,
				Page:        unit.Number,
			}
		}
	}
	return nil
}

func failed(err error, errorType string) Result {
	return Result{State: Failed, Err: err, ErrorType: errorType}
}

func fetchErrorType(err error) string {
	switch {
	case errors.Is(err, fetcher.ErrTimeout):
		return ErrorTypeTimeout
	case errors.Is(err, context.Canceled):
		return ErrorTypeCanceled
	default:
		return ErrorTypeFetch
	}
}
