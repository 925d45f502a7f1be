// Package goosgimod statically resolves the dependencies of a closed set of
// OSGi bundles.
//
// Every bundle's Require-Bundle and Import-Package headers are mapped onto
// the bundles of the same set, producing for each bundle its direct,
// version-pinned dependencies. Ambiguous, mismatched or missing targets are
// reported as diagnostics and never stop the run.
//
// # Overview
//
//   - ParseBundle: builds a Bundle from manifest headers
//   - Universe: indexes bundles and exported packages by name and version
//   - DependencyResolver: resolves one bundle against a frozen universe
//   - Analyzer: loads an ArtifactSource, resolves everything, emits to a Sink
//   - IvyExporter, BzlmodExporter: write one descriptor per bundle
//
// # Quick Start
//
//	// Resolve only
//	report, err := goosgimod.ResolveDir(ctx, "/opt/eclipse/plugins")
//
//	// Write Ivy descriptors, as an Ivy repository layout consumes them
//	report, err := goosgimod.ExportDir(ctx, "/opt/eclipse/plugins", goosgimod.ExportOptions{
//	    OutDir: "ivy-metadata",
//	})
//
// # Thread Safety
//
// Universe and DependencyResolver are immutable and safe for concurrent use.
// UniverseBuilder is not.
package goosgimod

import (
	"context"
	"fmt"
	"os"
)

// DefaultOrganisation is the organisation descriptors are published under
// when none is given.
const DefaultOrganisation = "eclipse"

// ExportOptions configures ExportDir.
type ExportOptions struct {
	// OutDir receives the descriptors. Required.
	OutDir string

	// Organisation defaults to DefaultOrganisation.
	Organisation string

	// Format is one of Formats; empty means FormatIvy.
	Format string

	// Clean removes OutDir before writing.
	Clean bool
}

// ResolveDir analyzes a plugins directory without writing anything.
func ResolveDir(ctx context.Context, dir string, opts ...Option) (*Report, error) {
	return AnalyzeDir(ctx, dir, nil, opts...)
}

// ExportDir analyzes a plugins directory and writes one descriptor per
// bundle into eo.OutDir.
func ExportDir(ctx context.Context, dir string, eo ExportOptions, opts ...Option) (*Report, error) {
	if eo.OutDir == "" {
		return nil, fmt.Errorf("export %s: output directory not set", dir)
	}
	exporter, err := NewExporter(eo.Format)
	if err != nil {
		return nil, err
	}
	org := eo.Organisation
	if org == "" {
		org = DefaultOrganisation
	}
	if eo.Clean {
		if err := os.RemoveAll(eo.OutDir); err != nil {
			return nil, fmt.Errorf("clean %s: %w", eo.OutDir, err)
		}
	}
	return AnalyzeDir(ctx, dir, ExportSink(exporter, org, eo.OutDir), opts...)
}
