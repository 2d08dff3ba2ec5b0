// Package overrides loads per-row annotation values from a file.
//
// Two formats are accepted, chosen by extension:
//
//	.yaml / .yml  a document with an "overrides" list
//	.xlsx         an annotation workbook (see package sheet)
//
// YAML example:
//
//	overrides:
//	  - index: 0
//	    status: CLOSED
//	  - order_id: "12346"
//	    log: called customer
package overrides

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/ginjaninja78/order-report/internal/sheet"
	"github.com/ginjaninja78/order-report/internal/types"
)

// LoadFile reads override entries from path.
func LoadFile(path string) ([]types.OverrideEntry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read overrides: %w", err)
	}

	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		return DecodeYAML(data)
	case ".xlsx":
		return DecodeXLSX(bytes.NewReader(data))
	default:
		return nil, fmt.Errorf("unsupported overrides format %q (want .yaml, .yml or .xlsx)", ext)
	}
}

// DecodeXLSX reads entries from an annotation workbook.
func DecodeXLSX(r io.Reader) ([]types.OverrideEntry, error) {
	entries, err := sheet.ReadAnnotations(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read overrides workbook: %w", err)
	}
	return entries, nil
}

// DecodeYAML reads entries from a YAML document and records the line of
// every entry for error messages.
func DecodeYAML(data []byte) ([]types.OverrideEntry, error) {
	var doc struct {
		Overrides yaml.Node `yaml:"overrides"`
	}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse overrides: %w", err)
	}

	list := doc.Overrides
	if list.Kind == 0 {
		return []types.OverrideEntry{}, nil
	}
	if list.Kind != yaml.SequenceNode {
		return nil, fmt.Errorf("line %d: overrides must be a list", list.Line)
	}

	entries := make([]types.OverrideEntry, 0, len(list.Content))
	for _, item := range list.Content {
		var entry types.OverrideEntry
		if err := item.Decode(&entry); err != nil {
			return nil, fmt.Errorf("line %d: %w", item.Line, err)
		}
		entry.Line = item.Line
		entries = append(entries, entry)
	}
	return entries, nil
}

// Encode renders entries in the YAML format accepted by DecodeYAML.
func Encode(entries []types.OverrideEntry) ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)

	doc := struct {
		Overrides []types.OverrideEntry `yaml:"overrides"`
	}{Overrides: entries}
	if err := enc.Encode(doc); err != nil {
		return nil, fmt.Errorf("failed to encode overrides: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("failed to encode overrides: %w", err)
	}
	return buf.Bytes(), nil
}
