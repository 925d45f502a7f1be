package goosgimod

import (
	"fmt"
	"maps"
	"slices"

	"github.com/albertocavalcante/go-osgimod/version"
)

// Duplicates controls what happens when the same bundle name and version is
// added to a universe twice.
type Duplicates int

const (
	// DuplicatesOverwrite accepts the second bundle. Its package exports
	// replace the first bundle's for the same package version.
	DuplicatesOverwrite Duplicates = iota

	// DuplicatesForbid rejects the second bundle with a *DuplicateBundleError.
	DuplicatesForbid
)

// String returns the policy name as accepted by ParseDuplicates.
func (d Duplicates) String() string {
	switch d {
	case DuplicatesOverwrite:
		return "overwrite"
	case DuplicatesForbid:
		return "forbid"
	default:
		return fmt.Sprintf("Duplicates(%d)", int(d))
	}
}

// ParseDuplicates parses "overwrite" or "forbid".
func ParseDuplicates(s string) (Duplicates, error) {
	switch s {
	case "overwrite", "":
		return DuplicatesOverwrite, nil
	case "forbid":
		return DuplicatesForbid, nil
	default:
		return 0, fmt.Errorf("unknown duplicates policy %q (want overwrite or forbid)", s)
	}
}

// PackageExport is one version of a package and the bundle exporting it.
type PackageExport struct {
	Version version.Version
	Bundle  Versioned
}

// UniverseBuilder collects bundles during the population phase. It is not
// safe for concurrent use. Call Freeze once all bundles are added.
type UniverseBuilder struct {
	duplicates Duplicates
	bundles    map[string][]version.Version
	packages   map[string][]PackageExport
}

// NewUniverseBuilder returns an empty builder using the given duplicate policy.
func NewUniverseBuilder(d Duplicates) *UniverseBuilder {
	return &UniverseBuilder{
		duplicates: d,
		bundles:    make(map[string][]version.Version),
		packages:   make(map[string][]PackageExport),
	}
}

// With adds a bundle to both the bundle and the package index.
//
// Version sets compare without suffix: a version already present under the
// same ordering is kept, while a package export at such a version is
// reassigned to the newer bundle.
func (ub *UniverseBuilder) With(b *Bundle) error {
	versions := ub.bundles[b.Name()]
	i, found := slices.BinarySearchFunc(versions, b.Version(), version.Compare)
	if found && ub.duplicates == DuplicatesForbid {
		return &DuplicateBundleError{Name: b.Name(), Version: b.Version()}
	}
	if !found {
		ub.bundles[b.Name()] = slices.Insert(versions, i, b.Version())
	}

	for _, exp := range b.exports {
		exporters := ub.packages[exp.Name]
		j, ok := slices.BinarySearchFunc(exporters, exp.Version, func(pe PackageExport, v version.Version) int {
			return pe.Version.Compare(v)
		})
		if ok {
			exporters[j].Bundle = b.id
			continue
		}
		ub.packages[exp.Name] = slices.Insert(exporters, j, PackageExport{Version: exp.Version, Bundle: b.id})
	}
	return nil
}

// WithAll adds bundles in order, stopping at the first error.
func (ub *UniverseBuilder) WithAll(bundles []*Bundle) error {
	for _, b := range bundles {
		if err := ub.With(b); err != nil {
			return err
		}
	}
	return nil
}

// Len returns the number of distinct bundle identities added so far.
func (ub *UniverseBuilder) Len() int {
	n := 0
	for _, vs := range ub.bundles {
		n += len(vs)
	}
	return n
}

// Freeze returns a read-only snapshot of the builder. Later additions to the
// builder do not affect the snapshot.
func (ub *UniverseBuilder) Freeze() *Universe {
	u := &Universe{
		bundles:  make(map[string][]version.Version, len(ub.bundles)),
		packages: make(map[string][]PackageExport, len(ub.packages)),
	}
	for name, vs := range ub.bundles {
		u.bundles[name] = slices.Clone(vs)
	}
	for name, exps := range ub.packages {
		u.packages[name] = slices.Clone(exps)
	}
	return u
}

// Universe is the frozen set of bundles and exported packages known to one
// analysis run. It is safe for concurrent use. All query results are copies.
type Universe struct {
	bundles  map[string][]version.Version
	packages map[string][]PackageExport
}

// NewUniverse builds a frozen universe from bundles in one step.
func NewUniverse(d Duplicates, bundles ...*Bundle) (*Universe, error) {
	ub := NewUniverseBuilder(d)
	if err := ub.WithAll(bundles); err != nil {
		return nil, err
	}
	return ub.Freeze(), nil
}

// BundleNames returns the known bundle names, sorted.
func (u *Universe) BundleNames() []string {
	return slices.Sorted(maps.Keys(u.bundles))
}

// BundleVersions returns the known versions of a bundle in ascending order,
// or an empty slice if the name is unknown.
func (u *Universe) BundleVersions(name string) []version.Version {
	return slices.Clone(u.bundles[name])
}

// PackageNames returns the names of all exported packages, sorted.
func (u *Universe) PackageNames() []string {
	return slices.Sorted(maps.Keys(u.packages))
}

// PackageExporters returns every exported version of a package with the
// bundle exporting it, in ascending version order.
func (u *Universe) PackageExporters(pkg string) []PackageExport {
	return slices.Clone(u.packages[pkg])
}

// Len returns the number of distinct bundle identities.
func (u *Universe) Len() int {
	n := 0
	for _, vs := range u.bundles {
		n += len(vs)
	}
	return n
}
