package models

import "time"

// MatchResult is the first row or line of a document that contained the identifier.
type MatchResult struct {
	Entry       ListEntry `json:"entry" yaml:"entry"`
	EntryIndex  int       `json:"-" yaml:"-"`
	MatchedLine string    `json:"matched_line" yaml:"matched_line"`
	Columns     []string  `json:"columns" yaml:"columns"`
	Source      string    `json:"source" yaml:"source"` // "table" or "text"
	Page        int       `json:"page" yaml:"page"`
}

// DocumentFailure records a document that contributed no match because it could not be scanned.
type DocumentFailure struct {
	EntryIndex int    `json:"-" yaml:"-"`
	URL        string `json:"url" yaml:"url"`
	Title      string `json:"title" yaml:"title"`
	ErrorType  string `json:"error_type" yaml:"error_type"`
	Error      string `json:"error" yaml:"error"`
}

// SearchOutcome is the result of one search request.
// A zero-match outcome is a normal result, not an error.
type SearchOutcome struct {
	Query            string            `json:"query" yaml:"query"`
	Matches          []MatchResult     `json:"matches" yaml:"matches"`
	DocumentsScanned int               `json:"documents_scanned" yaml:"documents_scanned"`
	Truncated        bool              `json:"truncated" yaml:"truncated"`
	Failures         []DocumentFailure `json:"failures,omitempty" yaml:"failures,omitempty"`
	Elapsed          time.Duration     `json:"elapsed_ns" yaml:"elapsed"`
}

// NewSearchOutcome returns an empty outcome for the query with a non-nil match slice.
func NewSearchOutcome(query string) *SearchOutcome {
	return &SearchOutcome{
		Query:   query,
		Matches: []MatchResult{},
	}
}
