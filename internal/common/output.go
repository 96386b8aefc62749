package common

import (
	"encoding/json"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"
)

// Output formats.
const (
	FormatJSON = "json"
	FormatYAML = "yaml"
	FormatText = "text"
)

// CheckFormat rejects an unknown --format value before any work is done.
func CheckFormat(format string) error {
	switch format {
	case FormatJSON, FormatYAML, FormatText, "":
		return nil
	}
	return fmt.Errorf("unknown output format %q (want json, yaml or text)", format)
}

// Marshal renders v in the requested format.
func Marshal(v any, format string) ([]byte, error) {
	switch format {
	case FormatJSON, "":
		data, err := json.MarshalIndent(v, "", "  ")
		if err != nil {
			return nil, fmt.Errorf("failed to marshal JSON: %w", err)
		}
		return append(data, '\n'), nil
	case FormatYAML:
		data, err := yaml.Marshal(v)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal YAML: %w", err)
		}
		return data, nil
	}
	return nil, fmt.Errorf("unknown output format %q (want json or yaml)", format)
}

// Render writes v to w in the requested format.
func Render(w io.Writer, v any, format string) error {
	data, err := Marshal(v, format)
	if err != nil {
		return err
	}
	_, err = w.Write(data)
	return err
}
