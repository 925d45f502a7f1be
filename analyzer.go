package goosgimod

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/sync/errgroup"
)

// Sink receives the resolved dependencies of one bundle.
type Sink interface {
	Emit(ctx context.Context, b *Bundle, deps []Dependency) error
}

// SinkFunc adapts a function to the Sink interface.
type SinkFunc func(ctx context.Context, b *Bundle, deps []Dependency) error

// Emit calls f.
func (f SinkFunc) Emit(ctx context.Context, b *Bundle, deps []Dependency) error {
	return f(ctx, b, deps)
}

// MultiSink forwards every bundle to each sink in order. All sinks are
// called even if one fails; the errors are joined.
type MultiSink []Sink

// Emit forwards to every sink.
func (m MultiSink) Emit(ctx context.Context, b *Bundle, deps []Dependency) error {
	var errs []error
	for _, s := range m {
		if err := s.Emit(ctx, b, deps); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// LoadedArtifact pairs an artifact with the bundle parsed from it.
type LoadedArtifact struct {
	Artifact
	Bundle *Bundle
}

// Report summarizes an analysis run. Artifacts and Resolutions share the
// same index.
type Report struct {
	Artifacts   []LoadedArtifact
	Resolutions []*Resolution

	Bundles      int
	Dependencies int
	Missing      int
	Mismatches   int
}

// Analyzer loads every artifact of a source into one universe and resolves
// each bundle against it.
//
// The run has a strict barrier between population and resolution: the
// universe is frozen before the first bundle is resolved, so the outcome
// does not depend on artifact order or on parallelism.
type Analyzer struct {
	cfg *analysisConfig
}

// NewAnalyzer returns an analyzer configured by opts.
func NewAnalyzer(opts ...Option) (*Analyzer, error) {
	cfg, err := newAnalysisConfig(opts...)
	if err != nil {
		return nil, err
	}
	return &Analyzer{cfg: cfg}, nil
}

// Analyze loads, resolves and emits every bundle of src.
//
// A source without artifacts yields an empty report. Load and parse failures
// are fatal and wrapped in *ArtifactError, as is a duplicate bundle under
// DuplicatesForbid. Bundles are resolved in parallel
// and passed to sink one at a time in artifact order. A failing sink does not
// stop the run: each failure is wrapped in *ExportError and the joined error
// is returned together with the report.
//
// sink may be nil when only the report is needed.
func (a *Analyzer) Analyze(ctx context.Context, src ArtifactSource, sink Sink) (*Report, error) {
	logger := a.cfg.log()

	artifacts, err := src.Artifacts(ctx)
	if err != nil {
		return nil, err
	}
	if len(artifacts) == 0 {
		logger.Warn("no artifacts found")
		return &Report{}, nil
	}

	loaded, err := a.load(ctx, src, artifacts)
	if err != nil {
		return nil, err
	}
	logger.Info("loaded bundles", "count", len(loaded))

	builder := NewUniverseBuilder(a.cfg.duplicates)
	for _, la := range loaded {
		if err := builder.With(la.Bundle); err != nil {
			return nil, &ArtifactError{Path: la.Path, Err: err}
		}
	}
	resolver := &DependencyResolver{universe: builder.Freeze(), cfg: a.cfg}

	resolutions := make([]*Resolution, len(loaded))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(a.cfg.workers())
	for i, la := range loaded {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			resolutions[i] = resolver.Resolve(la.Bundle)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	report := &Report{Artifacts: loaded, Resolutions: resolutions, Bundles: len(loaded)}
	for _, res := range resolutions {
		report.Dependencies += len(res.Dependencies)
		report.Missing += len(res.Missing())
		report.Mismatches += len(res.Mismatches())
	}

	if sink == nil {
		return report, nil
	}

	var names NameMap
	if a.cfg.filePrefixNames {
		names = make(NameMap)
		for _, la := range loaded {
			names.Add(la.Bundle, la.Name)
		}
	}

	var errs []error
	for _, res := range resolutions {
		if err := ctx.Err(); err != nil {
			return report, errors.Join(append(errs, err)...)
		}
		b, deps := res.Bundle, res.Dependencies
		if names != nil {
			b, deps = names.Bundle(b), names.Dependencies(deps)
		}
		if err := sink.Emit(ctx, b, deps); err != nil {
			logger.Error("export failed", "bundle", b.String(), "error", err)
			errs = append(errs, &ExportError{Bundle: b.String(), Err: err})
		}
	}
	return report, errors.Join(errs...)
}

// load reads and parses the manifests of all artifacts in parallel,
// preserving artifact order.
func (a *Analyzer) load(ctx context.Context, src ArtifactSource, artifacts []Artifact) ([]LoadedArtifact, error) {
	loaded := make([]LoadedArtifact, len(artifacts))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(a.cfg.workers())
	for i, art := range artifacts {
		g.Go(func() error {
			headers, err := src.LoadManifest(gctx, art)
			if err != nil {
				return &ArtifactError{Path: art.Path, Err: err}
			}
			b, err := ParseBundle(headers)
			if err != nil {
				return &ArtifactError{Path: art.Path, Err: err}
			}
			loaded[i] = LoadedArtifact{Artifact: art, Bundle: b}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return loaded, nil
}

// AnalyzeDir analyzes the bundles of a plugins directory.
func AnalyzeDir(ctx context.Context, dir string, sink Sink, opts ...Option) (*Report, error) {
	src, err := NewDirSource(dir)
	if err != nil {
		return nil, err
	}
	a, err := NewAnalyzer(opts...)
	if err != nil {
		return nil, err
	}
	report, err := a.Analyze(ctx, src, sink)
	if err != nil {
		return report, fmt.Errorf("analyze %s: %w", dir, err)
	}
	return report, nil
}
