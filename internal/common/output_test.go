package common

import (
	"bytes"
	"strings"
	"testing"
)

func TestCheckFormat(t *testing.T) {
	for _, format := range []string{"", FormatJSON, FormatYAML, FormatText} {
		if err := CheckFormat(format); err != nil {
			t.Errorf("CheckFormat(%q) error = %v", format, err)
		}
	}
	if err := CheckFormat("xml"); err == nil {
		t.Error("CheckFormat(\"xml\") expected error")
	}
}

func TestRender(t *testing.T) {
	v := map[string]int{"documents_scanned": 3}

	var buf bytes.Buffer
	if err := Render(&buf, v, FormatYAML); err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	if got := buf.String(); got != "documents_scanned: 3\n" {
		t.Errorf("Render(yaml) = %q", got)
	}

	buf.Reset()
	if err := Render(&buf, v, FormatJSON); err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	if !strings.Contains(buf.String(), `"documents_scanned": 3`) {
		t.Errorf("Render(json) = %q", buf.String())
	}
}
