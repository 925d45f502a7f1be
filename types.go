package goosgimod

import (
	"fmt"
	"slices"
	"strings"

	"github.com/albertocavalcante/go-osgimod/version"
)

// Versioned is a named entity at a specific version.
type Versioned struct {
	Name    string          `json:"name" yaml:"name"`
	Version version.Version `json:"version" yaml:"version"`
}

// Compare orders by name, then by version.
func (v Versioned) Compare(other Versioned) int {
	if c := strings.Compare(v.Name, other.Name); c != 0 {
		return c
	}
	return v.Version.Compare(other.Version)
}

// String returns "name@version".
func (v Versioned) String() string {
	return v.Name + "@" + v.Version.String()
}

// ExportedPackage is a package exported by a bundle at its own version.
type ExportedPackage struct {
	Versioned `yaml:",inline"`
}

// Requirement is a named dependency target accepted within [From, To).
// It describes both Require-Bundle and Import-Package clauses.
type Requirement struct {
	Name     string          `json:"name" yaml:"name"`
	From     version.Version `json:"from" yaml:"from"`
	To       version.Version `json:"to" yaml:"to"`
	Optional bool            `json:"optional,omitempty" yaml:"optional,omitempty"`
}

// NewRequirement returns a mandatory requirement on [from, from.NextMajor()).
func NewRequirement(name string, from version.Version) Requirement {
	return Requirement{Name: name, From: from, To: from.NextMajor()}
}

// Range returns the accepted version interval.
func (r Requirement) Range() version.Range {
	return version.Range{From: r.From, To: r.To}
}

// Matches reports whether v lies inside the requirement's range.
func (r Requirement) Matches(v version.Version) bool {
	return r.Range().Contains(v)
}

func (r Requirement) String() string {
	return fmt.Sprintf("%s:[%s,%s)", r.Name, r.From, r.To)
}

// Dependency is a resolved edge: the bundle depends on Name at exactly Version.
type Dependency struct {
	Versioned `yaml:",inline"`
	Optional bool `json:"optional,omitempty" yaml:"optional,omitempty"`
}

// NewDependency returns a mandatory dependency. The name may be any
// non-empty string.
func NewDependency(name string, v version.Version) (Dependency, error) {
	if name == "" {
		return Dependency{}, ErrEmptyName
	}
	return Dependency{Versioned: Versioned{Name: name, Version: v}}, nil
}

// sortDependencies orders dependencies by name, then version.
func sortDependencies(deps []Dependency) {
	slices.SortFunc(deps, func(a, b Dependency) int {
		return a.Compare(b.Versioned)
	})
}

// Bundle is a parsed OSGi bundle. It is immutable: accessors return copies.
type Bundle struct {
	id       Versioned
	exports  []ExportedPackage
	imports  []Requirement
	requires []Requirement
}

// NewBundle builds a bundle from already parsed parts. Exports are
// deduplicated by package name and version.
func NewBundle(name string, v version.Version, exports []ExportedPackage, imports, requires []Requirement) (*Bundle, error) {
	if name == "" {
		return nil, ErrEmptyName
	}

	exp := slices.Clone(exports)
	slices.SortStableFunc(exp, func(a, b ExportedPackage) int { return a.Compare(b.Versioned) })
	exp = slices.CompactFunc(exp, func(a, b ExportedPackage) bool { return a.Compare(b.Versioned) == 0 })

	return &Bundle{
		id:       Versioned{Name: name, Version: v},
		exports:  exp,
		imports:  slices.Clone(imports),
		requires: slices.Clone(requires),
	}, nil
}

// Name returns the bundle symbolic name (or its alias after Rename).
func (b *Bundle) Name() string { return b.id.Name }

// Version returns the bundle version.
func (b *Bundle) Version() version.Version { return b.id.Version }

// Versioned returns the bundle identity.
func (b *Bundle) Versioned() Versioned { return b.id }

// ExportedPackages returns the exported packages sorted by name and version.
func (b *Bundle) ExportedPackages() []ExportedPackage { return slices.Clone(b.exports) }

// ImportedPackages returns the Import-Package requirements in manifest order.
func (b *Bundle) ImportedPackages() []Requirement { return slices.Clone(b.imports) }

// RequiredBundles returns the Require-Bundle requirements in manifest order.
func (b *Bundle) RequiredBundles() []Requirement { return slices.Clone(b.requires) }

// Exports reports whether the bundle exports the named package at any version.
func (b *Bundle) Exports(pkg string) bool {
	return slices.ContainsFunc(b.exports, func(e ExportedPackage) bool { return e.Name == pkg })
}

// Rename returns a copy of the bundle with a different name. Used to map
// symbolic names to filesystem-friendly aliases without re-parsing.
func (b *Bundle) Rename(name string) (*Bundle, error) {
	if name == "" {
		return nil, ErrEmptyName
	}
	c := *b
	c.id.Name = name
	return &c, nil
}

// Compare orders bundles by name, then version.
func (b *Bundle) Compare(other *Bundle) int {
	return b.id.Compare(other.id)
}

func (b *Bundle) String() string {
	return b.id.String()
}
