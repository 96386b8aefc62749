package search

import (
	"fmt"
	"strings"

	"github.com/dtnitsch/merit-scan/models"
)

// RenderText formats an outcome as a short report.
func RenderText(o *models.SearchOutcome) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "CNIC %s: %d match(es) in %d document(s) scanned", o.Query, len(o.Matches), o.DocumentsScanned)
	if o.Truncated {
		sb.WriteString(" (stopped early, more lists were not checked)")
	}
	sb.WriteString("\n")

	if len(o.Matches) == 0 {
		sb.WriteString("No merit list contains this CNIC.\n")
	} else {
		sb.WriteString("\n")
		fmt.Fprintf(&sb, "%-6s %-40s %-16s %-10s %-6s %s\n", "List", "Title", "Campus", "Degree", "Found", "Row")
		sb.WriteString(strings.Repeat("-", 110))
		sb.WriteString("\n")
		for _, m := range o.Matches {
			fmt.Fprintf(&sb, "%-6s %-40s %-16s %-10s %-6s %s\n",
				m.Entry.ListNumber,
				truncate(m.Entry.Title, 40),
				truncate(m.Entry.Campus, 16),
				truncate(m.Entry.Degree, 10),
				m.Source,
				m.MatchedLine,
			)
		}
	}

	if len(o.Failures) > 0 {
		fmt.Fprintf(&sb, "\n%d document(s) could not be checked:\n", len(o.Failures))
		for _, f := range o.Failures {
			fmt.Fprintf(&sb, "  [%s] %s\n", f.ErrorType, f.Title)
		}
	}
	return sb.String()
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
