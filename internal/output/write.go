package output

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	goosgimod "github.com/albertocavalcante/go-osgimod"
)

// Summary is the printable outcome of a resolve run.
type Summary struct {
	Bundles      int `json:"bundles" yaml:"bundles"`
	Dependencies int `json:"dependencies" yaml:"dependencies"`
	Missing      int `json:"missing" yaml:"missing"`
	Mismatches   int `json:"mismatches" yaml:"mismatches"`

	Problems []BundleProblems `json:"problems,omitempty" yaml:"problems,omitempty"`
}

// BundleProblems lists the diagnostics of one bundle.
type BundleProblems struct {
	Bundle      string                 `json:"bundle" yaml:"bundle"`
	Diagnostics []goosgimod.Diagnostic `json:"diagnostics" yaml:"diagnostics"`
}

// NewSummary condenses a report. Bundles without diagnostics are omitted
// from Problems.
func NewSummary(r *goosgimod.Report) *Summary {
	s := &Summary{
		Bundles:      r.Bundles,
		Dependencies: r.Dependencies,
		Missing:      r.Missing,
		Mismatches:   r.Mismatches,
	}
	for _, res := range r.Resolutions {
		if len(res.Diagnostics) == 0 {
			continue
		}
		s.Problems = append(s.Problems, BundleProblems{
			Bundle:      res.Bundle.String(),
			Diagnostics: res.Diagnostics,
		})
	}
	return s
}

// Write encodes v as YAML or JSON.
func Write(w io.Writer, f Format, v any) error {
	switch f {
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return fmt.Errorf("encode yaml: %w", err)
		}
		return enc.Close()
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		enc.SetEscapeHTML(false)
		return enc.Encode(v)
	case FormatNone:
		return nil
	default:
		return fmt.Errorf("format %s cannot encode values", f)
	}
}

// WriteSummary prints s in format f. Text output is a table of problems
// followed by a totals line.
func WriteSummary(w io.Writer, f Format, s *Summary) error {
	if f != FormatText {
		return Write(w, f, s)
	}

	if len(s.Problems) > 0 {
		t := NewTable("BUNDLE", "STATUS", "KIND", "REQUIREMENT", "RESOLVED TO")
		for _, p := range s.Problems {
			for _, d := range p.Diagnostics {
				t.Row(
					StyleNoun.Render(p.Bundle),
					StatusStyle(d.Kind).Render(d.Kind.String()),
					string(d.Subject),
					d.Requirement.String(),
					resolvedTo(d),
				)
			}
		}
		if _, err := fmt.Fprintln(w, t.String()); err != nil {
			return err
		}
	}

	_, err := fmt.Fprintln(w, StyleSummary.Render(fmt.Sprintf(
		"%d bundles, %d dependencies, %d missing, %d version mismatches",
		s.Bundles, s.Dependencies, s.Missing, s.Mismatches)))
	return err
}

func resolvedTo(d goosgimod.Diagnostic) string {
	if d.Target == "" {
		return StyleDim.Render("-")
	}
	vs := make([]string, len(d.Candidates))
	for i, v := range d.Candidates {
		vs[i] = v.String()
	}
	return d.Target + "@" + strings.Join(vs, ",")
}

// WriteDiff prints a lockfile diff in format f.
func WriteDiff(w io.Writer, f Format, d *goosgimod.LockfileDiff) error {
	if f != FormatText {
		return Write(w, f, d)
	}

	var b strings.Builder
	b.WriteString(d.Summary())
	if !strings.HasSuffix(b.String(), "\n") {
		b.WriteByte('\n')
	}

	keys := make([]string, 0, len(d.Dependencies))
	for k := range d.Dependencies {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		dd := d.Dependencies[k]
		fmt.Fprintf(&b, "\n%s\n", StyleNoun.Render(k))
		for _, c := range dd.Added {
			fmt.Fprintf(&b, "  + %s@%s\n", c.Name, c.Version)
		}
		for _, c := range dd.Removed {
			fmt.Fprintf(&b, "  - %s@%s\n", c.Name, c.Version)
		}
		for _, u := range dd.Upgraded {
			fmt.Fprintf(&b, "  ^ %s %s -> %s\n", u.Name, u.OldVersion, u.NewVersion)
		}
		for _, u := range dd.Downgraded {
			fmt.Fprintf(&b, "  v %s %s -> %s\n", u.Name, u.OldVersion, u.NewVersion)
		}
	}
	_, err := io.WriteString(w, b.String())
	return err
}
