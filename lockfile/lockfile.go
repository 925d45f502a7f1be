package lockfile

import (
	"cmp"
	"fmt"
	"maps"
	"slices"
	"strings"
)

// DefaultFileName is the lockfile name used when none is configured.
const DefaultFileName = "osgimod.lock"

// Lockfile is the snapshot of one resolution run.
type Lockfile struct {
	Version        int                       `json:"lockFileVersion"`
	ArtifactHashes map[string]string         `json:"artifactHashes"`
	Bundles        map[BundleKey][]BundleKey `json:"bundles"`
}

// BundleKey identifies a bundle by name and rendered version.
type BundleKey struct {
	Name    string
	Version string
}

// Key returns the BundleKey for name and version.
func Key(name, version string) BundleKey {
	return BundleKey{Name: name, Version: version}
}

// ParseBundleKey parses "name@version".
func ParseBundleKey(s string) (BundleKey, error) {
	i := strings.LastIndexByte(s, '@')
	if i <= 0 || i == len(s)-1 {
		return BundleKey{}, fmt.Errorf("invalid bundle key %q: want name@version", s)
	}
	return BundleKey{Name: s[:i], Version: s[i+1:]}, nil
}

// String returns "name@version".
func (k BundleKey) String() string {
	return k.Name + "@" + k.Version
}

// MarshalText implements encoding.TextMarshaler so keys can be JSON map keys.
func (k BundleKey) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (k *BundleKey) UnmarshalText(text []byte) error {
	parsed, err := ParseBundleKey(string(text))
	if err != nil {
		return err
	}
	*k = parsed
	return nil
}

// Compare orders keys by name, then by version string.
func (k BundleKey) Compare(other BundleKey) int {
	return cmp.Or(strings.Compare(k.Name, other.Name), strings.Compare(k.Version, other.Version))
}

// New creates an empty lockfile with the current version.
func New() *Lockfile {
	return &Lockfile{
		Version:        CurrentVersion,
		ArtifactHashes: make(map[string]string),
		Bundles:        make(map[BundleKey][]BundleKey),
	}
}

// SetArtifactHash records the hash of an artifact.
func (l *Lockfile) SetArtifactHash(path, hash string) {
	l.ArtifactHashes[path] = hash
}

// ArtifactHash returns the recorded hash of an artifact.
func (l *Lockfile) ArtifactHash(path string) (string, bool) {
	h, ok := l.ArtifactHashes[path]
	return h, ok
}

// SetDependencies records the resolved dependencies of a bundle. The list is
// copied and sorted.
func (l *Lockfile) SetDependencies(bundle BundleKey, deps []BundleKey) {
	sorted := slices.Clone(deps)
	if sorted == nil {
		sorted = []BundleKey{}
	}
	slices.SortFunc(sorted, BundleKey.Compare)
	l.Bundles[bundle] = sorted
}

// Dependencies returns a copy of the recorded dependencies of a bundle.
func (l *Lockfile) Dependencies(bundle BundleKey) ([]BundleKey, bool) {
	deps, ok := l.Bundles[bundle]
	return slices.Clone(deps), ok
}

// BundleKeys returns the recorded bundles in sorted order.
func (l *Lockfile) BundleKeys() []BundleKey {
	return slices.SortedFunc(maps.Keys(l.Bundles), BundleKey.Compare)
}
