package goosgimod

import (
	"reflect"
	"slices"
	"strings"
	"testing"

	"github.com/albertocavalcante/go-osgimod/lockfile"
)

func TestDiffDependencies(t *testing.T) {
	old := testDeps(t, "a@1.0.0", "b@1.0.0", "c@2.0.0", "d@1.0.0.v1", "same@1.0.0")
	cur := testDeps(t, "b@1.1.0", "c@1.9.0", "d@1.0.0.v2", "e@0.1.0", "same@1.0.0")

	d := DiffDependencies(old, cur)

	if want := []DependencyChange{{Name: "e", Version: "0.1.0"}}; !reflect.DeepEqual(d.Added, want) {
		t.Errorf("Added = %v, want %v", d.Added, want)
	}
	if want := []DependencyChange{{Name: "a", Version: "1.0.0"}}; !reflect.DeepEqual(d.Removed, want) {
		t.Errorf("Removed = %v, want %v", d.Removed, want)
	}
	wantUp := []DependencyUpgrade{
		{Name: "b", OldVersion: "1.0.0", NewVersion: "1.1.0"},
		{Name: "d", OldVersion: "1.0.0.v1", NewVersion: "1.0.0.v2"},
	}
	if !reflect.DeepEqual(d.Upgraded, wantUp) {
		t.Errorf("Upgraded = %v, want %v", d.Upgraded, wantUp)
	}
	if want := []DependencyUpgrade{{Name: "c", OldVersion: "2.0.0", NewVersion: "1.9.0"}}; !reflect.DeepEqual(d.Downgraded, want) {
		t.Errorf("Downgraded = %v, want %v", d.Downgraded, want)
	}
	if d.TotalChanges() != 5 {
		t.Errorf("TotalChanges() = %d, want 5", d.TotalChanges())
	}
	if d.IsEmpty() {
		t.Error("IsEmpty() = true, want false")
	}
}

func TestDiffDependenciesEmpty(t *testing.T) {
	deps := testDeps(t, "a@1.0.0")
	if !DiffDependencies(deps, deps).IsEmpty() {
		t.Error("diff of identical sets should be empty")
	}
	if !DiffDependencies(nil, nil).IsEmpty() {
		t.Error("diff of nil sets should be empty")
	}
	if n := len(DiffDependencies(nil, deps).Added); n != 1 {
		t.Errorf("Added = %d, want 1", n)
	}
}

func TestDiffLockfiles(t *testing.T) {
	old := lockfile.New()
	old.SetDependencies(lockfile.Key("ui", "2.0.0"), []lockfile.BundleKey{lockfile.Key("core", "1.0.0")})
	old.SetDependencies(lockfile.Key("core", "1.0.0"), nil)

	cur := lockfile.New()
	cur.SetDependencies(lockfile.Key("ui", "2.0.0"), []lockfile.BundleKey{lockfile.Key("core", "1.1.0"), lockfile.Key("util", "1.0.0")})
	cur.SetDependencies(lockfile.Key("core", "1.0.0"), nil)

	d, err := DiffLockfiles(old, cur)
	if err != nil {
		t.Fatalf("DiffLockfiles() error = %v", err)
	}
	if want := []lockfile.BundleKey{lockfile.Key("ui", "2.0.0")}; !slices.Equal(d.ChangedBundles, want) {
		t.Errorf("ChangedBundles = %v, want %v", d.ChangedBundles, want)
	}
	ui, ok := d.Dependencies["ui@2.0.0"]
	if !ok {
		t.Fatalf("no dependency diff for ui@2.0.0 in %v", d.Dependencies)
	}
	if want := []DependencyChange{{Name: "util", Version: "1.0.0"}}; !reflect.DeepEqual(ui.Added, want) {
		t.Errorf("Added = %v, want %v", ui.Added, want)
	}
	if want := []DependencyUpgrade{{Name: "core", OldVersion: "1.0.0", NewVersion: "1.1.0"}}; !reflect.DeepEqual(ui.Upgraded, want) {
		t.Errorf("Upgraded = %v, want %v", ui.Upgraded, want)
	}
}

func TestDiffLockfilesNil(t *testing.T) {
	cur := lockfile.New()
	cur.SetDependencies(lockfile.Key("core", "1.0.0"), nil)

	d, err := DiffLockfiles(nil, cur)
	if err != nil {
		t.Fatalf("DiffLockfiles(nil, cur) error = %v", err)
	}
	if want := []lockfile.BundleKey{lockfile.Key("core", "1.0.0")}; !slices.Equal(d.AddedBundles, want) {
		t.Errorf("AddedBundles = %v, want %v", d.AddedBundles, want)
	}
	if len(d.Dependencies) != 0 {
		t.Errorf("Dependencies = %v, want empty", d.Dependencies)
	}

	d, err = DiffLockfiles(nil, nil)
	if err != nil {
		t.Fatalf("DiffLockfiles(nil, nil) error = %v", err)
	}
	if !d.IsEmpty() {
		t.Errorf("diff of nil lockfiles should be empty: %+v", d)
	}
}

func TestDiffLockfilesInvalidVersion(t *testing.T) {
	old := lockfile.New()
	old.SetDependencies(lockfile.Key("ui", "1"), []lockfile.BundleKey{lockfile.Key("core", "bogus")})
	cur := lockfile.New()
	cur.SetDependencies(lockfile.Key("ui", "1"), nil)

	_, err := DiffLockfiles(old, cur)
	if err == nil || !strings.Contains(err.Error(), "core@bogus") {
		t.Errorf("DiffLockfiles() error = %v, want mention of core@bogus", err)
	}
}
