package output

import (
	"fmt"
	"strings"
)

// Format selects how summaries and diffs are printed.
type Format string

const (
	FormatYAML Format = "yaml"
	FormatJSON Format = "json"
	FormatText Format = "text"
	FormatNone Format = "none"
)

func (f Format) String() string {
	return string(f)
}

// ValidFormats returns the accepted format names.
func ValidFormats() []string {
	return []string{"yaml", "json", "text", "none"}
}

// ParseFormat parses a format name. Empty means text.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "text":
		return FormatText, nil
	case "yaml", "yml":
		return FormatYAML, nil
	case "json":
		return FormatJSON, nil
	case "none":
		return FormatNone, nil
	default:
		return "", fmt.Errorf("unknown output format %q (want one of %s)", s, strings.Join(ValidFormats(), ", "))
	}
}
