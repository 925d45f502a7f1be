package goosgimod

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"slices"
	"testing"

	"github.com/albertocavalcante/go-osgimod/lockfile"
	"github.com/albertocavalcante/go-osgimod/manifest"
)

func resolvePlugins(t *testing.T, plugins string) *Report {
	t.Helper()
	report, err := ResolveDir(context.Background(), plugins)
	if err != nil {
		t.Fatalf("ResolveDir() error = %v", err)
	}
	return report
}

func TestNewLockfile(t *testing.T) {
	plugins := writePlugins(t)

	lf, err := NewLockfile(resolvePlugins(t, plugins))
	if err != nil {
		t.Fatalf("NewLockfile() error = %v", err)
	}

	wantKeys := []lockfile.BundleKey{
		lockfile.Key("org.example.core", "1.0.0.v2020"),
		lockfile.Key("org.example.ui", "2.0.0"),
	}
	if got := lf.BundleKeys(); !slices.Equal(got, wantKeys) {
		t.Errorf("BundleKeys() = %v, want %v", got, wantKeys)
	}

	deps, ok := lf.Dependencies(lockfile.Key("org.example.ui", "2.0.0"))
	if !ok {
		t.Fatal("no entry for org.example.ui@2.0.0")
	}
	if want := []lockfile.BundleKey{lockfile.Key("org.example.core", "1.0.0.v2020")}; !slices.Equal(deps, want) {
		t.Errorf("Dependencies(ui) = %v, want %v", deps, want)
	}

	mf, err := os.ReadFile(filepath.Join(plugins, "org.example.core_1.0.0.v2020", filepath.FromSlash(manifest.Path)))
	if err != nil {
		t.Fatalf("failed to read manifest: %v", err)
	}
	hash, ok := lf.ArtifactHash("org.example.core_1.0.0.v2020")
	if !ok {
		t.Fatal("no hash for the exploded core bundle")
	}
	if want := lockfile.HashContent(mf); hash != want {
		t.Errorf("hash = %s, want %s", hash, want)
	}
	if _, ok := lf.ArtifactHash("org.example.ui_2.0.0.jar"); !ok {
		t.Error("no hash for the ui jar")
	}
}

func TestNewLockfileDetectsChanges(t *testing.T) {
	plugins := writePlugins(t)
	before, err := NewLockfile(resolvePlugins(t, plugins))
	if err != nil {
		t.Fatalf("NewLockfile(before) error = %v", err)
	}

	writeJarBundle(t, plugins, "org.example.util_1.0.0.jar", manifestText(
		"Bundle-SymbolicName", "org.example.util",
		"Bundle-Version", "1.0.0",
		"Export-Package", "org.missing.pkg",
	))
	after, err := NewLockfile(resolvePlugins(t, plugins))
	if err != nil {
		t.Fatalf("NewLockfile(after) error = %v", err)
	}

	d, err := DiffLockfiles(before, after)
	if err != nil {
		t.Fatalf("DiffLockfiles() error = %v", err)
	}
	if want := []string{"org.example.util_1.0.0.jar"}; !slices.Equal(d.AddedArtifacts, want) {
		t.Errorf("AddedArtifacts = %v, want %v", d.AddedArtifacts, want)
	}
	if want := []lockfile.BundleKey{lockfile.Key("org.example.util", "1.0.0")}; !slices.Equal(d.AddedBundles, want) {
		t.Errorf("AddedBundles = %v, want %v", d.AddedBundles, want)
	}
	if want := []lockfile.BundleKey{lockfile.Key("org.example.ui", "2.0.0")}; !slices.Equal(d.ChangedBundles, want) {
		t.Errorf("ChangedBundles = %v, want %v", d.ChangedBundles, want)
	}
	ui := d.Dependencies["org.example.ui@2.0.0"]
	if ui == nil {
		t.Fatalf("no dependency diff for org.example.ui@2.0.0")
	}
	if want := []DependencyChange{{Name: "org.example.util", Version: "1.0.0"}}; !reflect.DeepEqual(ui.Added, want) {
		t.Errorf("Added = %v, want %v", ui.Added, want)
	}
}

func TestNewLockfileNilReport(t *testing.T) {
	lf, err := NewLockfile(nil)
	if err != nil {
		t.Fatalf("NewLockfile(nil) error = %v", err)
	}
	if len(lf.Bundles) != 0 {
		t.Errorf("Bundles = %v, want empty", lf.Bundles)
	}
}

func TestNewLockfileEmptyPlugins(t *testing.T) {
	lf, err := NewLockfile(resolvePlugins(t, t.TempDir()))
	if err != nil {
		t.Fatalf("NewLockfile() error = %v", err)
	}
	if len(lf.Bundles) != 0 || len(lf.ArtifactHashes) != 0 {
		t.Errorf("lockfile of an empty directory should be empty: %+v", lf)
	}
}

func TestNewLockfileMissingArtifact(t *testing.T) {
	plugins := writePlugins(t)
	report := resolvePlugins(t, plugins)
	if err := os.Remove(filepath.Join(plugins, "org.example.ui_2.0.0.jar")); err != nil {
		t.Fatalf("failed to remove jar: %v", err)
	}

	_, err := NewLockfile(report)
	var artErr *ArtifactError
	if !errors.As(err, &artErr) {
		t.Errorf("NewLockfile() error = %v, want *ArtifactError", err)
	}
}
