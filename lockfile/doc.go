// Package lockfile records the outcome of one resolution run so that later
// runs can be compared against it.
//
// A lockfile captures:
//   - lockFileVersion: schema version for format compatibility
//   - artifactHashes: SHA-256 of every analyzed artifact, keyed by path
//     relative to the plugins directory
//   - bundles: the resolved direct dependencies of every bundle
//
// # Usage
//
// Read an existing lockfile:
//
//	lf, err := lockfile.ReadFile("osgimod.lock")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Printf("Lockfile version: %d\n", lf.Version)
//
// Create a new lockfile:
//
//	lf := lockfile.New()
//	lf.SetArtifactHash("org.example.core_1.0.0.jar", hash)
//	lf.SetDependencies(lockfile.Key("org.example.ui", "1.0.0"), []lockfile.BundleKey{
//	    lockfile.Key("org.example.core", "1.0.0"),
//	})
//	if err := lf.WriteFile("osgimod.lock"); err != nil {
//	    log.Fatal(err)
//	}
//
// Output is deterministic: keys are sorted and dependency lists ordered, so
// lockfiles can be committed and diffed.
package lockfile
