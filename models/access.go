package models

import "time"

// DocumentAccess is one document fetch attempt as kept in the access log.
// It carries fetch metadata only; queries and matches are never recorded.
type DocumentAccess struct {
	ID        int64         `json:"id,omitempty"`
	URL       string        `json:"url"`
	Title     string        `json:"title,omitempty"`
	Bytes     int64         `json:"bytes"`
	Pages     int           `json:"pages"`
	Duration  time.Duration `json:"duration_ns"`
	Success   bool          `json:"success"`
	ErrorType string        `json:"error_type,omitempty"`
	CreatedAt time.Time     `json:"created_at"`
}
