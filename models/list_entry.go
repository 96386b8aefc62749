package models

// ListEntry is one row of the merit list index page.
// DocumentURL is absolute when set; an empty string means the row had no usable link.
type ListEntry struct {
	ListNumber  string `json:"list_number" yaml:"list_number"`
	Title       string `json:"title" yaml:"title"`
	Campus      string `json:"campus" yaml:"campus"`
	Degree      string `json:"degree" yaml:"degree"`
	DocumentURL string `json:"document_url,omitempty" yaml:"document_url,omitempty"`
}

// HasDocument reports whether the entry links to a document that can be scanned.
func (e ListEntry) HasDocument() bool {
	return e.DocumentURL != ""
}
