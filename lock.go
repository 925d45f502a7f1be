package goosgimod

import (
	"fmt"

	"github.com/albertocavalcante/go-osgimod/lockfile"
)

// NewLockfile records the outcome of an analysis run: the content hash of
// every artifact, keyed by file name, and the resolved dependencies of
// every bundle.
//
// Hashes cover the manifest of exploded bundles and the whole jar
// otherwise, so a lockfile comparison shows which inputs changed.
func NewLockfile(report *Report) (*lockfile.Lockfile, error) {
	lf := lockfile.New()
	if report == nil {
		return lf, nil
	}
	for i, la := range report.Artifacts {
		hash, err := lockfile.HashFile(la.ManifestPath())
		if err != nil {
			return nil, &ArtifactError{Path: la.Path, Err: err}
		}
		lf.SetArtifactHash(la.Name, hash)

		if i >= len(report.Resolutions) || report.Resolutions[i] == nil {
			return nil, fmt.Errorf("no resolution for %s", la.Bundle)
		}
		res := report.Resolutions[i]
		deps := make([]lockfile.BundleKey, len(res.Dependencies))
		for j, d := range res.Dependencies {
			deps[j] = bundleKey(d.Versioned)
		}
		lf.SetDependencies(bundleKey(res.Bundle.Versioned()), deps)
	}
	return lf, nil
}

func bundleKey(v Versioned) lockfile.BundleKey {
	return lockfile.Key(v.Name, v.Version.String())
}
