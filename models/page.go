package models

import "strings"

// Table is a block of aligned rows detected on a PDF page.
type Table struct {
	Rows [][]string `json:"rows" yaml:"rows"`
}

// PageTextUnit holds both views of a single PDF page.
// It lives only for the duration of one document scan.
type PageTextUnit struct {
	Number    int     `json:"number"`
	Tables    []Table `json:"tables,omitempty"`
	PlainText string  `json:"plain_text"`
}

// Lines splits the plain text view on line breaks.
func (p *PageTextUnit) Lines() []string {
	if p.PlainText == "" {
		return nil
	}
	return strings.Split(strings.ReplaceAll(p.PlainText, "\r\n", "\n"), "\n")
}
