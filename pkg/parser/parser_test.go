package parser

import (
	"strings"
	"testing"
)

const indexURL = "https://web.example.edu.pk/Downloads/MeritListsView"

// indexHTML mirrors the layout of the merit list page: one header row, then
// five-cell data rows. The third data row is malformed and must be skipped.
const indexHTML = `<!DOCTYPE html>
<html>
<body>
  <table class="table">
    <tr><th>List #</th><th>Title</th><th>Campus</th><th>Degree</th><th>File</th></tr>
    <tr>
      <td> 1 </td>
      <td>First Merit List
          BS Computer Science</td>
      <td>Main</td>
      <td>BSCS</td>
      <td><a href="/Uploads/MeritLists/bscs-1.pdf">Download</a></td>
    </tr>
    <tr>
      <td>2</td><td>Second Merit List</td><td>Toba Tek Singh</td><td>BBA</td>
      <td><a href="https://cdn.example.edu.pk/lists/bba-2.pdf">Download</a></td>
    </tr>
    <tr><td>3</td><td>Broken row</td><td>Main</td></tr>
    <tr>
      <td>4</td><td>Pending List</td><td>Main</td><td>MSc</td><td>Coming soon</td>
    </tr>
    <tr>
      <td>5</td><td>Relative List</td><td>Depalpur</td><td>DVM</td>
      <td><a href="Files/dvm 5.pdf">Download</a></td>
    </tr>
  </table>
  <table><tr><td>a</td><td>b</td><td>c</td><td>d</td><td>e</td></tr></table>
</body>
</html>`

func TestParseIndex(t *testing.T) {
	entries, err := ParseIndex(strings.NewReader(indexHTML), indexURL)
	if err != nil {
		t.Fatalf("ParseIndex() error = %v", err)
	}

	if len(entries) != 4 {
		t.Fatalf("ParseIndex() returned %d entries, want 4: %+v", len(entries), entries)
	}

	first := entries[0]
	if first.ListNumber != "1" {
		t.Errorf("ListNumber = %q, want %q", first.ListNumber, "1")
	}
	if first.Title != "First Merit List BS Computer Science" {
		t.Errorf("Title = %q", first.Title)
	}
	if first.Campus != "Main" || first.Degree != "BSCS" {
		t.Errorf("Campus/Degree = %q/%q", first.Campus, first.Degree)
	}
	if first.DocumentURL != "https://web.example.edu.pk/Uploads/MeritLists/bscs-1.pdf" {
		t.Errorf("DocumentURL = %q", first.DocumentURL)
	}

	if entries[1].DocumentURL != "https://cdn.example.edu.pk/lists/bba-2.pdf" {
		t.Errorf("absolute href changed: %q", entries[1].DocumentURL)
	}

	for _, e := range entries {
		if e.ListNumber == "3" {
			t.Errorf("row with fewer than 5 cells should be skipped: %+v", e)
		}
	}

	pending := entries[2]
	if pending.ListNumber != "4" || pending.HasDocument() {
		t.Errorf("entry without link should have no document: %+v", pending)
	}

	if entries[3].DocumentURL != "https://web.example.edu.pk/Downloads/Files/dvm%205.pdf" {
		t.Errorf("relative href resolved to %q", entries[3].DocumentURL)
	}
}

func TestParseIndexNoTable(t *testing.T) {
	entries, err := ParseIndex(strings.NewReader("<html><body><p>maintenance</p></body></html>"), indexURL)
	if err != nil {
		t.Fatalf("ParseIndex() error = %v", err)
	}
	if len(entries) != 0 {
		t.Errorf("expected no entries, got %d", len(entries))
	}
}

func TestParseIndexBaseHref(t *testing.T) {
	html := `<html><head><base href="https://files.example.edu.pk/root/"></head><body><table>
<tr><th>h</th></tr>
<tr><td>1</td><td>t</td><td>c</td><td>d</td><td><a href="a.pdf">x</a></td></tr>
</table></body></html>`
	entries, err := ParseIndex(strings.NewReader(html), indexURL)
	if err != nil {
		t.Fatalf("ParseIndex() error = %v", err)
	}
	if len(entries) != 1 || entries[0].DocumentURL != "https://files.example.edu.pk/root/a.pdf" {
		t.Errorf("unexpected entries: %+v", entries)
	}
}

func TestParseIndexInvalidPageURL(t *testing.T) {
	if _, err := ParseIndex(strings.NewReader(indexHTML), "not a url"); err == nil {
		t.Error("expected error for relative page URL")
	}
}

func TestResolveURL(t *testing.T) {
	tests := []struct {
		name    string
		base    string
		href    string
		want    string
		wantErr bool
	}{
		{name: "root relative", base: "https://site", href: "/Uploads/a.pdf", want: "https://site/Uploads/a.pdf"},
		{name: "base with trailing slash", base: "https://site/", href: "/Uploads/a.pdf", want: "https://site/Uploads/a.pdf"},
		{name: "path relative keeps directory", base: "https://site/Downloads/View", href: "Uploads/a.pdf", want: "https://site/Downloads/Uploads/a.pdf"},
		{name: "absolute href", base: "https://site", href: "http://other/a.pdf", want: "http://other/a.pdf"},
		{name: "protocol relative", base: "https://site", href: "//cdn.site/a.pdf", want: "https://cdn.site/a.pdf"},
		{name: "backslashes", base: "https://site", href: `\Uploads\a.pdf`, want: "https://site/Uploads/a.pdf"},
		{name: "javascript link", base: "https://site", href: "javascript:void(0)", wantErr: true},
		{name: "fragment only", base: "https://site", href: "#top", wantErr: true},
		{name: "empty href", base: "https://site", href: "  ", wantErr: true},
		{name: "relative base", base: "/Downloads", href: "a.pdf", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ResolveURL(tt.base, tt.href)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ResolveURL() error = %v, wantErr %v", err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ResolveURL(%q, %q) = %q, want %q", tt.base, tt.href, got, tt.want)
			}
		})
	}
}
