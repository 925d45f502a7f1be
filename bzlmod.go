package goosgimod

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/bazelbuild/buildtools/build"

	"github.com/albertocavalcante/go-osgimod/internal/buildutil"
	"github.com/albertocavalcante/go-osgimod/version"
)

// BzlmodExporter writes MODULE.bazel style descriptors named
// "{name}-{version}.MODULE.bazel": one module() call for the bundle and one
// bazel_dep() per resolved dependency.
//
// Bundle names are lowered and characters outside [a-z0-9._-] replaced with
// '_' to form valid module names. The organisation is not part of a Bazel
// module identity and is ignored.
type BzlmodExporter struct{}

// FileName returns "{name}-{version}.MODULE.bazel".
func (BzlmodExporter) FileName(b *Bundle) string {
	return b.Name() + "-" + b.Version().String() + ".MODULE.bazel"
}

// Render returns the formatted descriptor for b. It fails when a name
// cannot be mapped onto a valid module name.
func (e BzlmodExporter) Render(b *Bundle, deps []Dependency) ([]byte, error) {
	call := func(fn string, v Versioned) (*build.CallExpr, error) {
		name, err := BazelModuleName(v.Name)
		if err != nil {
			return nil, err
		}
		return buildutil.Call(fn,
			buildutil.StringArg("name", name),
			buildutil.StringArg("version", v.Version.String()),
		), nil
	}

	module, err := call("module", b.Versioned())
	if err != nil {
		return nil, err
	}
	stmts := []build.Expr{module}
	for _, d := range deps {
		dep, err := call("bazel_dep", d.Versioned)
		if err != nil {
			return nil, fmt.Errorf("dependency of %s: %w", b, err)
		}
		stmts = append(stmts, dep)
	}
	return build.Format(buildutil.ModuleFile(e.FileName(b), stmts...)), nil
}

// Export writes the descriptor into dir.
func (e BzlmodExporter) Export(b *Bundle, _ string, deps []Dependency, dir string) error {
	data, err := e.Render(b, deps)
	if err != nil {
		return err
	}
	return writeDescriptor(dir, e.FileName(b), data)
}

// ParseBzlmodDescriptor reads back a descriptor written by BzlmodExporter.
func ParseBzlmodDescriptor(filename string, data []byte) (Versioned, []Dependency, error) {
	f, err := build.ParseModule(filename, data)
	if err != nil {
		return Versioned{}, nil, fmt.Errorf("failed to parse %s: %w", filename, err)
	}

	modules := buildutil.Calls(f, "module")
	if len(modules) != 1 {
		return Versioned{}, nil, fmt.Errorf("%s: want exactly one module() call, got %d", filename, len(modules))
	}
	id, err := versionedFromCall(modules[0])
	if err != nil {
		return Versioned{}, nil, fmt.Errorf("%s: %w", filename, err)
	}

	var deps []Dependency
	for _, call := range buildutil.Calls(f, "bazel_dep") {
		v, err := versionedFromCall(call)
		if err != nil {
			return Versioned{}, nil, fmt.Errorf("%s: %w", filename, err)
		}
		deps = append(deps, Dependency{Versioned: v})
	}
	return id, deps, nil
}

func versionedFromCall(call *build.CallExpr) (Versioned, error) {
	name := buildutil.String(call, "name")
	if name == "" {
		return Versioned{}, fmt.Errorf("%s(): %w", buildutil.FuncName(call), ErrEmptyName)
	}
	v, err := version.Parse(buildutil.String(call, "version"), true)
	if err != nil {
		return Versioned{}, fmt.Errorf("%s(name = %q): %w", buildutil.FuncName(call), name, err)
	}
	return Versioned{Name: name, Version: v}, nil
}

var moduleNameRegex = regexp.MustCompile(`^[a-z]([a-z0-9._-]*[a-z0-9])?$`)

// BazelModuleName maps a bundle name onto the Bazel module name alphabet:
// letters are lowered and anything outside [a-z0-9._-] becomes '_'. The
// result must still start with a letter and end with a letter or digit.
func BazelModuleName(name string) (string, error) {
	mapped := strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '.', r == '_', r == '-':
			return r
		case r >= 'A' && r <= 'Z':
			return r + ('a' - 'A')
		default:
			return '_'
		}
	}, name)
	if !moduleNameRegex.MatchString(mapped) {
		return "", fmt.Errorf("bundle name %q does not map to a valid module name (got %q)", name, mapped)
	}
	return mapped, nil
}

var _ MetadataExporter = BzlmodExporter{}
