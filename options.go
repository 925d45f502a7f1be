package goosgimod

import (
	"context"
	"errors"
	"log/slog"
	"runtime"
)

// DefaultIgnoredBundlePrefixes lists bundle names never resolved locally:
// the framework bundle and the Eclipse platform itself.
var DefaultIgnoredBundlePrefixes = []string{"system.bundle", "org.eclipse"}

// DefaultIgnoredPackagePrefixes lists package namespaces provided by the
// runtime or the Eclipse platform rather than by bundles in the universe.
var DefaultIgnoredPackagePrefixes = []string{"org.eclipse", "javax", "org.w3c.dom"}

// Option configures analysis and resolution behavior.
type Option func(*analysisConfig) error

// analysisConfig holds all analysis configuration.
type analysisConfig struct {
	duplicates             Duplicates
	ignoredBundlePrefixes  []string
	ignoredPackagePrefixes []string
	concurrency            int
	filePrefixNames        bool

	// logger receives resolution diagnostics. Nil means silent.
	logger *slog.Logger
}

// WithDuplicates sets the universe duplicate policy.
func WithDuplicates(d Duplicates) Option {
	return func(c *analysisConfig) error {
		c.duplicates = d
		return nil
	}
}

// WithIgnoredBundlePrefixes replaces the bundle names skipped by
// Require-Bundle resolution.
func WithIgnoredBundlePrefixes(prefixes ...string) Option {
	return func(c *analysisConfig) error {
		c.ignoredBundlePrefixes = append([]string(nil), prefixes...)
		return nil
	}
}

// WithIgnoredPackagePrefixes replaces the package namespaces skipped by
// Import-Package resolution.
func WithIgnoredPackagePrefixes(prefixes ...string) Option {
	return func(c *analysisConfig) error {
		c.ignoredPackagePrefixes = append([]string(nil), prefixes...)
		return nil
	}
}

// WithConcurrency bounds the number of bundles resolved in parallel.
func WithConcurrency(n int) Option {
	return func(c *analysisConfig) error {
		c.concurrency = n
		return nil
	}
}

// WithFilePrefixNames renames bundles and dependencies to the file prefix
// of the artifact they were loaded from before they reach the sink.
func WithFilePrefixNames(enabled bool) Option {
	return func(c *analysisConfig) error {
		c.filePrefixNames = enabled
		return nil
	}
}

// WithLogger sets a structured logger for resolution diagnostics.
// If not set, logging is disabled (silent mode).
//
// Missing requirements are logged at error level, version mismatches at
// warn level and resolved dependency sets at debug level.
func WithLogger(l *slog.Logger) Option {
	return func(c *analysisConfig) error {
		c.logger = l
		return nil
	}
}

// validate checks the configuration for logical consistency.
func (c *analysisConfig) validate() error {
	if c.concurrency < 0 {
		return errors.New("concurrency must not be negative")
	}
	if c.duplicates != DuplicatesOverwrite && c.duplicates != DuplicatesForbid {
		return errors.New("unknown duplicates policy")
	}
	return nil
}

// log returns the configured logger, or a no-op logger if none was set.
func (c *analysisConfig) log() *slog.Logger {
	if c.logger != nil {
		return c.logger
	}
	return slog.New(discardHandler{})
}

// workers returns the effective resolution parallelism.
func (c *analysisConfig) workers() int {
	if c.concurrency > 0 {
		return c.concurrency
	}
	return runtime.GOMAXPROCS(0)
}

// discardHandler is a slog.Handler that discards all log records.
type discardHandler struct{}

func (discardHandler) Enabled(context.Context, slog.Level) bool  { return false }
func (discardHandler) Handle(context.Context, slog.Record) error { return nil }
func (d discardHandler) WithAttrs([]slog.Attr) slog.Handler      { return d }
func (d discardHandler) WithGroup(string) slog.Handler           { return d }

// newAnalysisConfig applies the options over the defaults and validates the
// result.
func newAnalysisConfig(opts ...Option) (*analysisConfig, error) {
	c := &analysisConfig{
		duplicates:             DuplicatesOverwrite,
		ignoredBundlePrefixes:  append([]string(nil), DefaultIgnoredBundlePrefixes...),
		ignoredPackagePrefixes: append([]string(nil), DefaultIgnoredPackagePrefixes...),
	}

	for _, opt := range opts {
		if err := opt(c); err != nil {
			return nil, err
		}
	}

	if err := c.validate(); err != nil {
		return nil, err
	}

	return c, nil
}
