package scan

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/dtnitsch/merit-scan/models"
	"github.com/dtnitsch/merit-scan/pkg/scanner"
)

func TestRenderText(t *testing.T) {
	tests := []struct {
		name string
		res  scanner.Result
		want []string
	}{
		{
			name: "found in table",
			res: scanner.Result{
				State: scanner.Found,
				Match: &models.MatchResult{MatchedLine: "12 | Ali | 12345-6789012-3", Source: "table", Page: 2},
				Bytes: 2048,
				Pages: 3,
			},
			want: []string{"State:    found (3 page(s), 2.0 kB", "Found in table on page 2:", "12 | Ali | 12345-6789012-3"},
		},
		{
			name: "not found",
			res:  scanner.Result{State: scanner.NotFound, Pages: 1},
			want: []string{"State:    not_found", "CNIC not found in this document."},
		},
		{
			name: "failed",
			res:  scanner.Result{State: scanner.Failed, Err: errors.New("connection refused"), ErrorType: scanner.ErrorTypeFetch},
			want: []string{"State:    failed", "Could not check document [fetch_error]: connection refused"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.res.Duration = 1500 * time.Microsecond
			out := RenderText(newReport("https://site/Uploads/a.pdf", tt.res))
			if !strings.Contains(out, "Document: https://site/Uploads/a.pdf") {
				t.Errorf("RenderText() missing document URL in:\n%s", out)
			}
			for _, want := range tt.want {
				if !strings.Contains(out, want) {
					t.Errorf("RenderText() missing %q in:\n%s", want, out)
				}
			}
		})
	}
}
