// Package manifest reads JAR manifests and parses the clause-list syntax of
// OSGi bundle headers.
//
// A header value is a comma separated list of clauses. Each clause is a name
// (package or bundle) optionally followed by semicolon separated attributes
// and directives:
//
//	org.example.api;version="[1.0,2.0)";resolution:=optional,org.example.spi
//
// Double quotes protect embedded commas and semicolons.
package manifest

import (
	"regexp"
	"strings"
)

// Standard OSGi header names consumed by the resolver.
const (
	BundleSymbolicName = "Bundle-SymbolicName"
	BundleVersion      = "Bundle-Version"
	ExportPackage      = "Export-Package"
	ImportPackage      = "Import-Package"
	RequireBundle      = "Require-Bundle"
)

// attrPattern matches "key=value" attributes and "key:=value" directives.
var attrPattern = regexp.MustCompile(`^(.+?):?=(.+)$`)

// Clause is one element of a header value.
type Clause struct {
	// Name is the package or bundle name the clause is about.
	Name string

	// Attrs holds attributes and directives keyed by name, with quotes
	// removed. Directives are stored without their trailing colon.
	Attrs map[string]string
}

// Attr returns the attribute value or "" when absent.
func (c Clause) Attr(key string) string {
	return c.Attrs[key]
}

// ParseHeader splits a header value into clauses, preserving their order.
// A clause name that appears more than once keeps its first position and
// takes the attributes of its last occurrence. Blank input yields nil.
func ParseHeader(value string) []Clause {
	if strings.TrimSpace(value) == "" {
		return nil
	}

	var clauses []Clause
	index := make(map[string]int)
	for _, raw := range splitUnquoted(value, ',') {
		tokens := splitUnquoted(raw, ';')
		name := strings.TrimSpace(tokens[0])
		if name == "" {
			continue
		}

		attrs := make(map[string]string, len(tokens)-1)
		for _, tok := range tokens[1:] {
			m := attrPattern.FindStringSubmatch(strings.TrimSpace(tok))
			if m == nil {
				continue
			}
			attrs[strings.TrimSpace(m[1])] = unquote(strings.TrimSpace(m[2]))
		}

		if i, seen := index[name]; seen {
			clauses[i].Attrs = attrs
			continue
		}
		index[name] = len(clauses)
		clauses = append(clauses, Clause{Name: name, Attrs: attrs})
	}
	return clauses
}

// splitUnquoted splits s at sep wherever sep is outside double quotes.
// The last segment is always returned, so s without a trailing separator
// still produces its final element.
func splitUnquoted(s string, sep byte) []string {
	var parts []string
	inQuotes := false
	start := 0
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '"':
			inQuotes = !inQuotes
		case sep:
			if !inQuotes {
				parts = append(parts, s[start:i])
				start = i + 1
			}
		}
	}
	return append(parts, s[start:])
}

func unquote(s string) string {
	if len(s) >= 2 && s[0] == '"' && s[len(s)-1] == '"' {
		return s[1 : len(s)-1]
	}
	return s
}
