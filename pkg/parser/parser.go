package parser

import (
	"bufio"
	"fmt"
	"io"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/dtnitsch/merit-scan/models"
)

// minCells is the number of <td> cells a data row needs: list number, title,
// campus, degree and the link cell.
const minCells = 5

// ParseIndex reads the merit list index page and returns one entry per data row
// of the first table. The header row is skipped and rows with fewer than five
// cells are ignored. Links are resolved against pageURL (or the page's <base href>).
func ParseIndex(r io.Reader, pageURL string) ([]models.ListEntry, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to parse HTML: %w", err)
	}

	base, err := url.Parse(pageURL)
	if err != nil || !base.IsAbs() {
		return nil, fmt.Errorf("invalid index page URL %q", pageURL)
	}
	if href, ok := doc.Find("base[href]").First().Attr("href"); ok {
		if b, err := base.Parse(strings.TrimSpace(href)); err == nil {
			base = b
		}
	}

	table := doc.Find("table").First()
	if table.Length() == 0 {
		return []models.ListEntry{}, nil
	}

	entries := []models.ListEntry{}
	// Only rows belonging to this table, not to nested tables inside its cells.
	rows := table.Find("tr").FilterFunction(func(_ int, tr *goquery.Selection) bool {
		return tr.Closest("table").IsSelection(table)
	})
	rows.Each(func(i int, tr *goquery.Selection) {
		if i == 0 {
			return // header
		}
		cells := tr.ChildrenFiltered("td")
		if cells.Length() < minCells {
			return
		}
		entry := models.ListEntry{
			ListNumber: normalizeText(cells.Eq(0).Text()),
			Title:      normalizeText(cells.Eq(1).Text()),
			Campus:     normalizeText(cells.Eq(2).Text()),
			Degree:     normalizeText(cells.Eq(3).Text()),
		}
		if href, ok := cells.Eq(4).Find("a").First().Attr("href"); ok {
			entry.DocumentURL = resolve(base, href)
		}
		entries = append(entries, entry)
	})

	return entries, nil
}

// ResolveURL joins href onto base. It returns an error instead of a malformed URL.
func ResolveURL(base, href string) (string, error) {
	b, err := url.Parse(base)
	if err != nil || !b.IsAbs() {
		return "", fmt.Errorf("invalid base URL %q", base)
	}
	resolved := resolve(b, href)
	if resolved == "" {
		return "", fmt.Errorf("cannot resolve %q against %q", href, base)
	}
	return resolved, nil
}

// resolve returns the absolute http(s) URL for href, or "" when href is unusable.
func resolve(base *url.URL, href string) string {
	href = strings.TrimSpace(href)
	if href == "" || strings.HasPrefix(href, "#") {
		return ""
	}
	// Some list authors paste Windows paths into the link.
	href = strings.ReplaceAll(href, `\`, "/")

	ref, err := url.Parse(href)
	if err != nil {
		return ""
	}
	u := base.ResolveReference(ref)
	if u.Scheme != "http" && u.Scheme != "https" {
		return ""
	}
	if u.Host == "" {
		return ""
	}
	if u.Path == "" {
		u.Path = "/"
	}
	return u.String()
}

// normalizeText cleans up a string by trimming space and removing excess newlines.
func normalizeText(input string) string {
	var b strings.Builder
	b.Grow(len(input))
	scanner := bufio.NewScanner(strings.NewReader(input))
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line != "" {
			// Write the line and a single space for separation
			b.WriteString(line)
			b.WriteString(" ")
		}
	}
	// Return the result, trimming the final space
	return strings.TrimSpace(b.String())
}
