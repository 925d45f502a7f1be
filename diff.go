package goosgimod

import (
	"fmt"
	"sort"

	"github.com/albertocavalcante/go-osgimod/lockfile"
	"github.com/albertocavalcante/go-osgimod/version"
)

// DependencyChange is an added or removed dependency.
type DependencyChange struct {
	Name    string `json:"name" yaml:"name"`
	Version string `json:"version" yaml:"version"`
}

// DependencyUpgrade is a dependency pinned to another version.
type DependencyUpgrade struct {
	Name       string `json:"name" yaml:"name"`
	OldVersion string `json:"old_version" yaml:"old_version"`
	NewVersion string `json:"new_version" yaml:"new_version"`
}

// DependencyDiff describes how the resolved dependencies of one bundle
// changed between two runs.
//
//	before, _ := resolver.ResolveFor(b)
//	after, _ := otherResolver.ResolveFor(b)
//	d := DiffDependencies(before, after)
type DependencyDiff struct {
	Added      []DependencyChange  `json:"added,omitempty" yaml:"added,omitempty"`
	Removed    []DependencyChange  `json:"removed,omitempty" yaml:"removed,omitempty"`
	Upgraded   []DependencyUpgrade `json:"upgraded,omitempty" yaml:"upgraded,omitempty"`
	Downgraded []DependencyUpgrade `json:"downgraded,omitempty" yaml:"downgraded,omitempty"`
}

// IsEmpty reports whether nothing changed.
func (d *DependencyDiff) IsEmpty() bool {
	return d.TotalChanges() == 0
}

// TotalChanges returns the number of added, removed, upgraded and
// downgraded dependencies.
func (d *DependencyDiff) TotalChanges() int {
	return len(d.Added) + len(d.Removed) + len(d.Upgraded) + len(d.Downgraded)
}

// DiffDependencies compares two dependency lists by bundle name.
//
// Versions are ordered numerically. A change of the qualifier alone is
// reported as an upgrade. Results are sorted by name.
func DiffDependencies(old, new []Dependency) *DependencyDiff {
	diff := &DependencyDiff{}

	oldDeps := make(map[string]version.Version, len(old))
	for _, d := range old {
		oldDeps[d.Name] = d.Version
	}
	newDeps := make(map[string]version.Version, len(new))
	for _, d := range new {
		newDeps[d.Name] = d.Version
	}

	for name, nv := range newDeps {
		ov, existed := oldDeps[name]
		switch {
		case !existed:
			diff.Added = append(diff.Added, DependencyChange{Name: name, Version: nv.String()})
		case ov.String() == nv.String():
		case nv.Compare(ov) >= 0:
			diff.Upgraded = append(diff.Upgraded, DependencyUpgrade{Name: name, OldVersion: ov.String(), NewVersion: nv.String()})
		default:
			diff.Downgraded = append(diff.Downgraded, DependencyUpgrade{Name: name, OldVersion: ov.String(), NewVersion: nv.String()})
		}
	}
	for name, ov := range oldDeps {
		if _, ok := newDeps[name]; !ok {
			diff.Removed = append(diff.Removed, DependencyChange{Name: name, Version: ov.String()})
		}
	}

	sortChanges(diff.Added)
	sortChanges(diff.Removed)
	sortUpgrades(diff.Upgraded)
	sortUpgrades(diff.Downgraded)
	return diff
}

// LockfileDiff is the difference between two lockfiles, with the dependency
// changes of every bundle present in both.
type LockfileDiff struct {
	lockfile.Diff `yaml:",inline"`

	// Dependencies maps "name@version" of each changed bundle to its
	// dependency changes.
	Dependencies map[string]*DependencyDiff `json:"dependencies,omitempty" yaml:"dependencies,omitempty"`
}

// DiffLockfiles compares two lockfiles. Nil lockfiles are treated as empty.
func DiffLockfiles(old, new *lockfile.Lockfile) (*LockfileDiff, error) {
	if old == nil {
		old = lockfile.New()
	}
	if new == nil {
		new = lockfile.New()
	}

	diff := &LockfileDiff{Diff: *lockfile.Compare(old, new)}
	for _, key := range diff.ChangedBundles {
		before, err := dependenciesOf(old, key)
		if err != nil {
			return nil, err
		}
		after, err := dependenciesOf(new, key)
		if err != nil {
			return nil, err
		}
		if diff.Dependencies == nil {
			diff.Dependencies = make(map[string]*DependencyDiff)
		}
		diff.Dependencies[key.String()] = DiffDependencies(before, after)
	}
	return diff, nil
}

func dependenciesOf(lf *lockfile.Lockfile, key lockfile.BundleKey) ([]Dependency, error) {
	keys, _ := lf.Dependencies(key)
	deps := make([]Dependency, 0, len(keys))
	for _, k := range keys {
		v, err := version.Parse(k.Version, true)
		if err != nil {
			return nil, fmt.Errorf("lockfile entry %s: dependency %s: %w", key, k, err)
		}
		deps = append(deps, Dependency{Versioned: Versioned{Name: k.Name, Version: v}})
	}
	return deps, nil
}

func sortChanges(changes []DependencyChange) {
	sort.Slice(changes, func(i, j int) bool {
		return changes[i].Name < changes[j].Name
	})
}

func sortUpgrades(upgrades []DependencyUpgrade) {
	sort.Slice(upgrades, func(i, j int) bool {
		return upgrades[i].Name < upgrades[j].Name
	})
}
