package scan

import (
	"fmt"
	"strings"
)

// RenderText formats a single-document report for the terminal.
func RenderText(r Report) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "Document: %s\n", r.URL)
	fmt.Fprintf(&sb, "State:    %s (%d page(s), %s in %s)\n", r.State, r.Pages, r.Size, r.Duration)

	switch {
	case r.Match != nil:
		fmt.Fprintf(&sb, "Found in %s", r.Match.Source)
		if r.Match.Page > 0 {
			fmt.Fprintf(&sb, " on page %d", r.Match.Page)
		}
		fmt.Fprintf(&sb, ":\n  %s\n", r.Match.MatchedLine)
	case r.Error != "":
		fmt.Fprintf(&sb, "Could not check document [%s]: %s\n", r.ErrorType, r.Error)
	default:
		sb.WriteString("CNIC not found in this document.\n")
	}
	return sb.String()
}
