package lockfile

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"slices"
)

// lockfilePermissions is the file permission mode for lockfiles.
const lockfilePermissions = 0o644

// ReadFile reads and parses a lockfile from the given path.
func ReadFile(path string) (*Lockfile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read lockfile: %w", err)
	}
	return Parse(data)
}

// Parse parses lockfile JSON data.
func Parse(data []byte) (*Lockfile, error) {
	var lf Lockfile
	if err := json.Unmarshal(data, &lf); err != nil {
		return nil, fmt.Errorf("failed to parse lockfile JSON: %w", err)
	}
	if err := CheckVersion(lf.Version); err != nil {
		return nil, err
	}

	// Initialize nil maps to empty maps for consistency
	if lf.ArtifactHashes == nil {
		lf.ArtifactHashes = make(map[string]string)
	}
	if lf.Bundles == nil {
		lf.Bundles = make(map[BundleKey][]BundleKey)
	}

	return &lf, nil
}

// WriteFile writes the lockfile to the given path with deterministic formatting.
func (l *Lockfile) WriteFile(path string) error {
	data, err := l.Marshal()
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, lockfilePermissions)
}

// WriteTo writes the lockfile to the given writer.
func (l *Lockfile) WriteTo(w io.Writer) (int64, error) {
	data, err := l.Marshal()
	if err != nil {
		return 0, err
	}
	n, err := w.Write(data)
	return int64(n), err
}

// Marshal serializes the lockfile to indented JSON. Map keys are sorted by
// encoding/json; dependency lists are sorted here so that lockfiles built by
// hand marshal the same way as ones built with SetDependencies.
func (l *Lockfile) Marshal() ([]byte, error) {
	bundles := make(map[BundleKey][]BundleKey, len(l.Bundles))
	for k, deps := range l.Bundles {
		sorted := slices.Clone(deps)
		if sorted == nil {
			sorted = []BundleKey{}
		}
		slices.SortFunc(sorted, BundleKey.Compare)
		bundles[k] = sorted
	}
	hashes := l.ArtifactHashes
	if hashes == nil {
		hashes = map[string]string{}
	}

	ordered := Lockfile{Version: l.Version, ArtifactHashes: hashes, Bundles: bundles}

	var buf bytes.Buffer
	encoder := json.NewEncoder(&buf)
	encoder.SetEscapeHTML(false)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(ordered); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Exists returns true if a lockfile exists at the given path.
func Exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
