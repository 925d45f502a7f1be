package goosgimod

import (
	"fmt"
	"io"
	"strings"

	"github.com/albertocavalcante/go-osgimod/manifest"
	"github.com/albertocavalcante/go-osgimod/version"
)

// ParseBundleManifest reads a MANIFEST.MF stream and parses it into a Bundle.
func ParseBundleManifest(r io.Reader) (*Bundle, error) {
	headers, err := manifest.Read(r)
	if err != nil {
		return nil, err
	}
	return ParseBundle(headers)
}

// ParseBundle builds a Bundle from manifest main attributes.
//
// Bundle-SymbolicName and Bundle-Version are required. Export-Package,
// Import-Package and Require-Bundle are optional.
func ParseBundle(h manifest.Headers) (*Bundle, error) {
	rawName, ok := h.Lookup(manifest.BundleSymbolicName)
	if !ok {
		return nil, &MissingHeaderError{Header: manifest.BundleSymbolicName}
	}
	rawVersion, ok := h.Lookup(manifest.BundleVersion)
	if !ok {
		return nil, &MissingHeaderError{Header: manifest.BundleVersion}
	}

	name := symbolicName(rawName)
	if name == "" {
		return nil, fmt.Errorf("%s %q: %w", manifest.BundleSymbolicName, rawName, ErrEmptyName)
	}
	v, err := version.Parse(rawVersion, true)
	if err != nil {
		return nil, fmt.Errorf("bundle %s: %w", name, err)
	}

	exports, err := parseExportedPackages(h.Get(manifest.ExportPackage), v)
	if err != nil {
		return nil, fmt.Errorf("bundle %s: %s: %w", name, manifest.ExportPackage, err)
	}
	imports, err := parseRequirements(h.Get(manifest.ImportPackage))
	if err != nil {
		return nil, fmt.Errorf("bundle %s: %s: %w", name, manifest.ImportPackage, err)
	}
	requires, err := parseRequirements(h.Get(manifest.RequireBundle))
	if err != nil {
		return nil, fmt.Errorf("bundle %s: %s: %w", name, manifest.RequireBundle, err)
	}

	return NewBundle(name, v, exports, imports, requires)
}

// symbolicName returns the first ';' or ',' delimited token of a
// Bundle-SymbolicName value, dropping directives such as singleton.
func symbolicName(raw string) string {
	name, _, _ := strings.Cut(raw, ";")
	name, _, _ = strings.Cut(name, ",")
	return strings.TrimSpace(name)
}

// parseExportedPackages returns one ExportedPackage per Export-Package clause.
// Clauses without a version attribute are exported at the bundle version.
func parseExportedPackages(value string, bundleVersion version.Version) ([]ExportedPackage, error) {
	clauses := manifest.ParseHeader(value)
	exports := make([]ExportedPackage, 0, len(clauses))
	for _, c := range clauses {
		v := bundleVersion
		if raw := c.Attr("version"); raw != "" {
			parsed, err := version.Parse(raw, false)
			if err != nil {
				return nil, fmt.Errorf("package %s: %w", c.Name, err)
			}
			v = parsed
		}
		exports = append(exports, ExportedPackage{Versioned{Name: c.Name, Version: v}})
	}
	return exports, nil
}

// parseRequirements returns one Requirement per clause of an Import-Package
// or Require-Bundle value. The range comes from the version or bundle-version
// attribute and is unbounded when neither is present.
func parseRequirements(value string) ([]Requirement, error) {
	clauses := manifest.ParseHeader(value)
	reqs := make([]Requirement, 0, len(clauses))
	for _, c := range clauses {
		raw := c.Attr("version")
		if raw == "" {
			raw = c.Attr("bundle-version")
		}
		r, err := version.ParseRange(raw)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", c.Name, err)
		}
		reqs = append(reqs, Requirement{
			Name:     c.Name,
			From:     r.From,
			To:       r.To,
			Optional: strings.EqualFold(c.Attr("resolution"), "optional"),
		})
	}
	return reqs, nil
}
