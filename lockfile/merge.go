package lockfile

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"slices"
	"strings"
)

// MergeStrategy defines how to handle conflicts when merging lockfiles.
type MergeStrategy int

const (
	// MergePreferExisting keeps existing values on conflict.
	MergePreferExisting MergeStrategy = iota

	// MergePreferNew overwrites with new values on conflict.
	MergePreferNew

	// MergeErrorOnConflict returns an error if values differ.
	MergeErrorOnConflict
)

// MergeOptions configures lockfile merge behavior.
type MergeOptions struct {
	// Strategy determines how conflicts are resolved.
	Strategy MergeStrategy
}

// DefaultMergeOptions returns sensible defaults for merging.
func DefaultMergeOptions() MergeOptions {
	return MergeOptions{Strategy: MergePreferNew}
}

// Merge combines another lockfile into this one. Artifact hashes and bundle
// dependency lists are merged according to the strategy.
func (l *Lockfile) Merge(other *Lockfile, opts MergeOptions) error {
	if other == nil {
		return nil
	}

	if err := l.mergeArtifactHashes(other, opts); err != nil {
		return fmt.Errorf("failed to merge artifact hashes: %w", err)
	}
	if err := l.mergeBundles(other, opts); err != nil {
		return fmt.Errorf("failed to merge bundles: %w", err)
	}
	return nil
}

func (l *Lockfile) mergeArtifactHashes(other *Lockfile, opts MergeOptions) error {
	for path, newHash := range other.ArtifactHashes {
		existing, exists := l.ArtifactHashes[path]
		if !exists {
			l.ArtifactHashes[path] = newHash
			continue
		}

		if existing == newHash {
			continue
		}

		// Conflict handling
		switch opts.Strategy {
		case MergePreferExisting:
			// Keep existing
		case MergePreferNew:
			l.ArtifactHashes[path] = newHash
		case MergeErrorOnConflict:
			return fmt.Errorf("hash conflict for %s: existing=%s, new=%s", path, existing, newHash)
		}
	}
	return nil
}

func (l *Lockfile) mergeBundles(other *Lockfile, opts MergeOptions) error {
	for key, newDeps := range other.Bundles {
		existing, exists := l.Bundles[key]
		if !exists {
			l.SetDependencies(key, newDeps)
			continue
		}

		if sameKeys(existing, newDeps) {
			continue
		}

		switch opts.Strategy {
		case MergePreferExisting:
			// Keep existing
		case MergePreferNew:
			l.SetDependencies(key, newDeps)
		case MergeErrorOnConflict:
			return fmt.Errorf("dependency conflict for %s: existing=%v, new=%v", key, existing, newDeps)
		}
	}
	return nil
}

func sameKeys(a, b []BundleKey) bool {
	x, y := slices.Clone(a), slices.Clone(b)
	slices.SortFunc(x, BundleKey.Compare)
	slices.SortFunc(y, BundleKey.Compare)
	return slices.Equal(x, y)
}

// Diff describes differences between two lockfiles.
type Diff struct {
	VersionChanged bool `json:"versionChanged,omitempty" yaml:"versionChanged,omitempty"`
	OldVersion     int  `json:"oldVersion,omitempty" yaml:"oldVersion,omitempty"`
	NewVersion     int  `json:"newVersion,omitempty" yaml:"newVersion,omitempty"`

	AddedArtifacts   []string `json:"addedArtifacts,omitempty" yaml:"addedArtifacts,omitempty"`
	RemovedArtifacts []string `json:"removedArtifacts,omitempty" yaml:"removedArtifacts,omitempty"`
	ChangedArtifacts []string `json:"changedArtifacts,omitempty" yaml:"changedArtifacts,omitempty"`

	AddedBundles   []BundleKey `json:"addedBundles,omitempty" yaml:"addedBundles,omitempty"`
	RemovedBundles []BundleKey `json:"removedBundles,omitempty" yaml:"removedBundles,omitempty"`
	ChangedBundles []BundleKey `json:"changedBundles,omitempty" yaml:"changedBundles,omitempty"`
}

// Compare returns the differences from old to new. All lists are sorted.
func Compare(old, new *Lockfile) *Diff {
	diff := &Diff{}

	for path, hash := range new.ArtifactHashes {
		existing, exists := old.ArtifactHashes[path]
		if !exists {
			diff.AddedArtifacts = append(diff.AddedArtifacts, path)
		} else if existing != hash {
			diff.ChangedArtifacts = append(diff.ChangedArtifacts, path)
		}
	}
	for path := range old.ArtifactHashes {
		if _, exists := new.ArtifactHashes[path]; !exists {
			diff.RemovedArtifacts = append(diff.RemovedArtifacts, path)
		}
	}

	for key, deps := range new.Bundles {
		existing, exists := old.Bundles[key]
		if !exists {
			diff.AddedBundles = append(diff.AddedBundles, key)
		} else if !sameKeys(existing, deps) {
			diff.ChangedBundles = append(diff.ChangedBundles, key)
		}
	}
	for key := range old.Bundles {
		if _, exists := new.Bundles[key]; !exists {
			diff.RemovedBundles = append(diff.RemovedBundles, key)
		}
	}

	if old.Version != new.Version {
		diff.VersionChanged = true
		diff.OldVersion = old.Version
		diff.NewVersion = new.Version
	}

	slices.Sort(diff.AddedArtifacts)
	slices.Sort(diff.RemovedArtifacts)
	slices.Sort(diff.ChangedArtifacts)
	slices.SortFunc(diff.AddedBundles, BundleKey.Compare)
	slices.SortFunc(diff.RemovedBundles, BundleKey.Compare)
	slices.SortFunc(diff.ChangedBundles, BundleKey.Compare)
	return diff
}

// IsEmpty returns true if there are no differences.
func (d *Diff) IsEmpty() bool {
	return !d.VersionChanged &&
		len(d.AddedArtifacts) == 0 &&
		len(d.RemovedArtifacts) == 0 &&
		len(d.ChangedArtifacts) == 0 &&
		len(d.AddedBundles) == 0 &&
		len(d.RemovedBundles) == 0 &&
		len(d.ChangedBundles) == 0
}

// Summary returns a human-readable summary of the differences.
func (d *Diff) Summary() string {
	if d.IsEmpty() {
		return "no changes"
	}

	var b strings.Builder
	if d.VersionChanged {
		fmt.Fprintf(&b, "version: %d -> %d\n", d.OldVersion, d.NewVersion)
	}
	for _, c := range []struct {
		label string
		n     int
	}{
		{"added artifacts", len(d.AddedArtifacts)},
		{"removed artifacts", len(d.RemovedArtifacts)},
		{"changed artifacts", len(d.ChangedArtifacts)},
		{"added bundles", len(d.AddedBundles)},
		{"removed bundles", len(d.RemovedBundles)},
		{"changed bundles", len(d.ChangedBundles)},
	} {
		if c.n > 0 {
			fmt.Fprintf(&b, "%s: %d\n", c.label, c.n)
		}
	}
	return b.String()
}

// HashContent computes a SHA256 hash of content for use in lockfiles.
func HashContent(content []byte) string {
	hash := sha256.Sum256(content)
	return "sha256:" + hex.EncodeToString(hash[:])
}

// HashFile computes the SHA256 hash of a file without loading it whole.
func HashFile(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", fmt.Errorf("hash %s: %w", path, err)
	}
	return "sha256:" + hex.EncodeToString(h.Sum(nil)), nil
}

// VerifyHash checks if content matches the expected hash.
func VerifyHash(content []byte, expectedHash string) bool {
	return HashContent(content) == expectedHash
}
