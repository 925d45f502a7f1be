package goosgimod

import (
	"errors"
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/albertocavalcante/go-osgimod/version"
)

// Status classifies the outcome of resolving one requirement.
type Status int

const (
	// StatusOk means a candidate was found inside the requested range.
	StatusOk Status = iota
	// StatusIgnored means the requirement was skipped: optional,
	// self-satisfied or in an ignored namespace.
	StatusIgnored
	// StatusVersionMismatch means candidates exist, but none inside the
	// range. The resolver falls back to all of them.
	StatusVersionMismatch
	// StatusMissing means no candidate exists at all.
	StatusMissing
)

func (s Status) String() string {
	switch s {
	case StatusOk:
		return "ok"
	case StatusIgnored:
		return "ignored"
	case StatusVersionMismatch:
		return "version-mismatch"
	case StatusMissing:
		return "missing"
	default:
		return fmt.Sprintf("Status(%d)", int(s))
	}
}

// MarshalText renders the status name.
func (s Status) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText parses a status name written by MarshalText.
func (s *Status) UnmarshalText(text []byte) error {
	for _, c := range []Status{StatusOk, StatusIgnored, StatusVersionMismatch, StatusMissing} {
		if c.String() == string(text) {
			*s = c
			return nil
		}
	}
	return fmt.Errorf("unknown status %q", text)
}

// Subject tells which manifest header a diagnostic comes from.
type Subject string

const (
	SubjectBundle  Subject = "bundle"
	SubjectPackage Subject = "package"
)

// Diagnostic describes a requirement that did not resolve cleanly.
// Diagnostics never abort resolution.
type Diagnostic struct {
	Kind        Status      `json:"kind" yaml:"kind"`
	Subject     Subject     `json:"subject" yaml:"subject"`
	Requirement Requirement `json:"requirement" yaml:"requirement"`

	// Target is the bundle chosen for a version mismatch.
	Target string `json:"target,omitempty" yaml:"target,omitempty"`

	// Candidates are the versions of Target used instead of the requested
	// range, in ascending order.
	Candidates []version.Version `json:"candidates,omitempty" yaml:"candidates,omitempty"`
}

func (d Diagnostic) String() string {
	switch d.Kind {
	case StatusVersionMismatch:
		return fmt.Sprintf("%s %s: using %s %v", d.Subject, d.Requirement, d.Target, d.Candidates)
	default:
		return fmt.Sprintf("%s %s: %s", d.Subject, d.Requirement, d.Kind)
	}
}

// Resolution is the outcome of resolving one bundle.
type Resolution struct {
	Bundle       *Bundle
	Dependencies []Dependency
	Diagnostics  []Diagnostic
}

// Missing returns the diagnostics of kind StatusMissing.
func (r *Resolution) Missing() []Diagnostic {
	return r.filter(StatusMissing)
}

// Mismatches returns the diagnostics of kind StatusVersionMismatch.
func (r *Resolution) Mismatches() []Diagnostic {
	return r.filter(StatusVersionMismatch)
}

func (r *Resolution) filter(kind Status) []Diagnostic {
	var out []Diagnostic
	for _, d := range r.Diagnostics {
		if d.Kind == kind {
			out = append(out, d)
		}
	}
	return out
}

// DependencyResolver maps a bundle's requirements onto concrete bundles of a
// frozen Universe.
//
// Resolution runs in two passes over the bundle manifest:
//  1. Require-Bundle: every mandatory requirement is matched against the
//     known versions of the named bundle.
//  2. Import-Package: every mandatory import is matched against the
//     exporters of the package; the bundle exporting the highest matching
//     version wins.
//
// Results of the second pass overwrite the first for the same target bundle.
// Each target is pinned to the highest eligible version.
//
// A DependencyResolver holds no mutable state and is safe for concurrent use.
type DependencyResolver struct {
	universe *Universe
	cfg      *analysisConfig
}

// NewDependencyResolver returns a resolver over u.
func NewDependencyResolver(u *Universe, opts ...Option) (*DependencyResolver, error) {
	if u == nil {
		return nil, errors.New("universe is nil")
	}
	cfg, err := newAnalysisConfig(opts...)
	if err != nil {
		return nil, err
	}
	return &DependencyResolver{universe: u, cfg: cfg}, nil
}

// ResolveFor returns the direct dependencies of b sorted by name.
func (r *DependencyResolver) ResolveFor(b *Bundle) []Dependency {
	return r.Resolve(b).Dependencies
}

// Resolve returns the direct dependencies of b with diagnostics for the
// requirements that could not be matched exactly.
func (r *DependencyResolver) Resolve(b *Bundle) *Resolution {
	res := &Resolution{Bundle: b}
	candidates := make(map[string][]version.Version)

	for _, req := range b.requires {
		if req.Optional || req.Name == b.Name() || hasAnyPrefix(req.Name, r.cfg.ignoredBundlePrefixes) {
			continue
		}
		all := r.universe.BundleVersions(req.Name)
		switch ok := req.Range().Filter(all); {
		case len(ok) > 0:
			candidates[req.Name] = ok
		case len(all) > 0:
			candidates[req.Name] = all
			res.Diagnostics = append(res.Diagnostics, Diagnostic{
				Kind:        StatusVersionMismatch,
				Subject:     SubjectBundle,
				Requirement: req,
				Target:      req.Name,
				Candidates:  all,
			})
		default:
			res.Diagnostics = append(res.Diagnostics, Diagnostic{
				Kind:        StatusMissing,
				Subject:     SubjectBundle,
				Requirement: req,
			})
		}
	}

	var missing []Requirement
	for _, req := range b.imports {
		status, target, versions := r.resolvePackage(b, req)
		switch status {
		case StatusOk:
			candidates[target] = versions
		case StatusVersionMismatch:
			candidates[target] = versions
			res.Diagnostics = append(res.Diagnostics, Diagnostic{
				Kind:        StatusVersionMismatch,
				Subject:     SubjectPackage,
				Requirement: req,
				Target:      target,
				Candidates:  versions,
			})
		case StatusMissing:
			missing = append(missing, req)
		}
	}
	for _, req := range suppressSubPackages(missing) {
		res.Diagnostics = append(res.Diagnostics, Diagnostic{
			Kind:        StatusMissing,
			Subject:     SubjectPackage,
			Requirement: req,
		})
	}

	res.Dependencies = make([]Dependency, 0, len(candidates))
	for _, name := range slices.Sorted(maps.Keys(candidates)) {
		highest, _ := version.Highest(candidates[name])
		res.Dependencies = append(res.Dependencies, Dependency{Versioned: Versioned{Name: name, Version: highest}})
	}

	r.logResolution(res)
	return res
}

// resolvePackage resolves one Import-Package requirement. On success it
// returns the exporting bundle name and all of its versions that export the
// package within the accepted range.
func (r *DependencyResolver) resolvePackage(b *Bundle, req Requirement) (Status, string, []version.Version) {
	if req.Optional || hasAnyPrefix(req.Name, r.cfg.ignoredPackagePrefixes) || b.Exports(req.Name) {
		return StatusIgnored, "", nil
	}

	var exporters []PackageExport
	for _, pe := range r.universe.PackageExporters(req.Name) {
		if pe.Bundle.Name != b.Name() {
			exporters = append(exporters, pe)
		}
	}
	if len(exporters) == 0 {
		return StatusMissing, "", nil
	}

	status := StatusOk
	matching := slices.DeleteFunc(slices.Clone(exporters), func(pe PackageExport) bool {
		return !req.Matches(pe.Version)
	})
	if len(matching) == 0 {
		status = StatusVersionMismatch
		matching = exporters
	}

	// Exporters are ordered by package version, so the last one provides
	// the highest version.
	winner := matching[len(matching)-1].Bundle.Name
	var versions []version.Version
	for _, pe := range matching {
		if pe.Bundle.Name != winner {
			continue
		}
		if !slices.ContainsFunc(versions, pe.Bundle.Version.Equal) {
			versions = append(versions, pe.Bundle.Version)
		}
	}
	version.Sort(versions)
	return status, winner, versions
}

func (r *DependencyResolver) logResolution(res *Resolution) {
	logger := r.cfg.log()
	bundle := res.Bundle.String()

	for _, d := range res.Diagnostics {
		switch d.Kind {
		case StatusMissing:
			logger.Error("missing "+string(d.Subject), "bundle", bundle, "requirement", d.Requirement.String())
		case StatusVersionMismatch:
			logger.Warn(string(d.Subject)+" version mismatch", "bundle", bundle,
				"requirement", d.Requirement.String(), "using", d.Target, "versions", fmt.Sprint(d.Candidates))
		}
	}
	if len(res.Dependencies) > 0 {
		deps := make([]string, len(res.Dependencies))
		for i, d := range res.Dependencies {
			deps[i] = d.String()
		}
		logger.Debug("dependency set", "bundle", bundle, "dependencies", deps)
	}
}

// suppressSubPackages drops requirements on packages nested under another
// missing package: when a.b is missing, a.b.c is not reported separately.
// The result is sorted by package name.
func suppressSubPackages(missing []Requirement) []Requirement {
	var out []Requirement
	for _, req := range missing {
		nested := slices.ContainsFunc(missing, func(other Requirement) bool {
			return other.Name != req.Name && strings.HasPrefix(req.Name, other.Name+".")
		})
		if !nested && !slices.ContainsFunc(out, func(o Requirement) bool { return o.Name == req.Name }) {
			out = append(out, req)
		}
	}
	slices.SortStableFunc(out, func(a, b Requirement) int { return strings.Compare(a.Name, b.Name) })
	return out
}

func hasAnyPrefix(name string, prefixes []string) bool {
	for _, p := range prefixes {
		if strings.HasPrefix(name, p) {
			return true
		}
	}
	return false
}
