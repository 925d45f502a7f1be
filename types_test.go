package goosgimod

import (
	"encoding/json"
	"errors"
	"reflect"
	"slices"
	"testing"

	"gopkg.in/yaml.v3"

	"github.com/albertocavalcante/go-osgimod/version"
)

func TestRequirementMatches(t *testing.T) {
	r := NewRequirement("core", version.MustParse("1.0.0"))
	if got := r.String(); got != "core:[1.0.0,2.0.0)" {
		t.Errorf("String() = %q, want %q", got, "core:[1.0.0,2.0.0)")
	}

	tests := []struct {
		v    string
		want bool
	}{
		{"0.9.9", false},
		{"1.0.0", true},
		{"1.9.9", true},
		{"1.9.9.zzz", true},
		{"2.0.0", false},
	}
	for _, tt := range tests {
		if got := r.Matches(version.MustParse(tt.v)); got != tt.want {
			t.Errorf("Matches(%s) = %v, want %v", tt.v, got, tt.want)
		}
	}
}

func TestNewDependency(t *testing.T) {
	d, err := NewDependency("any name/with odd chars", version.MustParse("1.0"))
	if err != nil {
		t.Fatalf("NewDependency() error = %v", err)
	}
	if got := d.String(); got != "any name/with odd chars@1.0" {
		t.Errorf("String() = %q", got)
	}
	if d.Optional {
		t.Error("Optional = true, want false")
	}

	if _, err := NewDependency("", version.Default); !errors.Is(err, ErrEmptyName) {
		t.Errorf("NewDependency(\"\") error = %v, want ErrEmptyName", err)
	}
}

func TestSortDependencies(t *testing.T) {
	deps := []Dependency{
		{Versioned: Versioned{Name: "b", Version: version.MustParse("1.0")}},
		{Versioned: Versioned{Name: "a", Version: version.MustParse("2.0")}},
		{Versioned: Versioned{Name: "a", Version: version.MustParse("1.0")}},
	}
	sortDependencies(deps)

	want := []string{"a@1.0", "a@2.0", "b@1.0"}
	if got := depStrings(deps); !slices.Equal(got, want) {
		t.Errorf("sorted = %v, want %v", got, want)
	}
}

func TestBundleAccessorsReturnCopies(t *testing.T) {
	b := testBundle(t, "a@1.0.0", []string{"p@2.0", "p@2.0", "o"}, []string{"x"}, []string{"y"})

	exports := b.ExportedPackages()
	if len(exports) != 2 {
		t.Fatalf("len(ExportedPackages()) = %d, want 2 (duplicates collapse)", len(exports))
	}
	if exports[0].Name != "o" {
		t.Errorf("ExportedPackages()[0] = %q, want %q", exports[0].Name, "o")
	}
	exports[0].Name = "mutated"
	if got := b.ExportedPackages()[0].Name; got != "o" {
		t.Errorf("exports mutated through copy: %q", got)
	}

	imports := b.ImportedPackages()
	imports[0].Name = "mutated"
	if got := b.ImportedPackages()[0].Name; got != "x" {
		t.Errorf("imports mutated through copy: %q", got)
	}

	requires := b.RequiredBundles()
	requires[0].Name = "mutated"
	if got := b.RequiredBundles()[0].Name; got != "y" {
		t.Errorf("requires mutated through copy: %q", got)
	}

	if !b.Exports("p") {
		t.Error("Exports(p) = false, want true")
	}
	if b.Exports("x") {
		t.Error("Exports(x) = true, want false")
	}
}

func TestBundleRename(t *testing.T) {
	b := testBundle(t, "org.example.core@1.2.3", []string{"p"}, nil, nil)

	renamed, err := b.Rename("core")
	if err != nil {
		t.Fatalf("Rename() error = %v", err)
	}
	if got := renamed.String(); got != "core@1.2.3" {
		t.Errorf("renamed = %q, want %q", got, "core@1.2.3")
	}
	if b.Name() != "org.example.core" {
		t.Errorf("original renamed to %q", b.Name())
	}
	if !reflect.DeepEqual(b.ExportedPackages(), renamed.ExportedPackages()) {
		t.Errorf("exports = %v, want %v", renamed.ExportedPackages(), b.ExportedPackages())
	}

	if _, err := b.Rename(""); !errors.Is(err, ErrEmptyName) {
		t.Errorf("Rename(\"\") error = %v, want ErrEmptyName", err)
	}
}

func TestBundleCompare(t *testing.T) {
	a1 := testBundle(t, "a@1.0.0", nil, nil, nil)
	a2 := testBundle(t, "a@2.0.0", nil, nil, nil)
	b1 := testBundle(t, "b@1.0.0", nil, nil, nil)

	if a1.Compare(a2) >= 0 {
		t.Error("a@1.0.0 should sort before a@2.0.0")
	}
	if a2.Compare(b1) >= 0 {
		t.Error("a@2.0.0 should sort before b@1.0.0")
	}
	if c := a1.Compare(testBundle(t, "a@1.0.0.rc1", nil, nil, nil)); c != 0 {
		t.Errorf("Compare with suffix-only difference = %d, want 0", c)
	}
}

func TestDependencyEncoding(t *testing.T) {
	d := Dependency{Versioned: Versioned{Name: "core", Version: version.MustParse("1.2.3.qualifier")}}

	j, err := json.Marshal(d)
	if err != nil {
		t.Fatalf("json.Marshal() error = %v", err)
	}
	if want := `{"name":"core","version":"1.2.3.qualifier"}`; string(j) != want {
		t.Errorf("json = %s, want %s", j, want)
	}

	y, err := yaml.Marshal(d)
	if err != nil {
		t.Fatalf("yaml.Marshal() error = %v", err)
	}
	if want := "name: core\nversion: 1.2.3.qualifier\n"; string(y) != want {
		t.Errorf("yaml = %q, want %q", y, want)
	}
}
