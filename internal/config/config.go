// Package config loads osgimod CLI settings from a YAML file, OSGIMOD_*
// environment variables and command-line flags.
package config

import (
	"fmt"
	"log/slog"

	goosgimod "github.com/albertocavalcante/go-osgimod"
	"github.com/albertocavalcante/go-osgimod/internal/output"
)

// DefaultFileName is looked up in the working directory when no config
// file is given.
const DefaultFileName = "osgimod.yaml"

// Config holds the settings of the resolve command.
type Config struct {
	// Out is the descriptor output directory.
	// Env: OSGIMOD_OUT
	Out string `mapstructure:"out" yaml:"out,omitempty"`

	// Org is the organisation descriptors are published under.
	// Env: OSGIMOD_ORG, Default: eclipse
	Org string `mapstructure:"org" yaml:"org,omitempty"`

	// Format is ivy or bzlmod. Default: ivy
	Format string `mapstructure:"format" yaml:"format,omitempty"`

	// Lockfile, when set, receives a snapshot of the run.
	Lockfile string `mapstructure:"lockfile" yaml:"lockfile,omitempty"`

	// Duplicates is overwrite or forbid. Default: overwrite
	Duplicates string `mapstructure:"duplicates" yaml:"duplicates,omitempty"`

	IgnorePackages []string `mapstructure:"ignore_packages" yaml:"ignore_packages,omitempty"`
	IgnoreBundles  []string `mapstructure:"ignore_bundles" yaml:"ignore_bundles,omitempty"`

	FilePrefixNames bool `mapstructure:"file_prefix_names" yaml:"file_prefix_names,omitempty"`

	// Concurrency bounds parallel resolution. 0 means GOMAXPROCS.
	Concurrency int `mapstructure:"concurrency" yaml:"concurrency,omitempty"`

	// Summary is yaml, json, text or none. Default: text
	Summary string `mapstructure:"summary" yaml:"summary,omitempty"`

	// Clean removes Out before writing.
	Clean bool `mapstructure:"clean" yaml:"clean,omitempty"`

	// Strict fails the run when any requirement is missing.
	Strict bool `mapstructure:"strict" yaml:"strict,omitempty"`
}

// Default returns the built-in settings.
func Default() *Config {
	return &Config{
		Org:            goosgimod.DefaultOrganisation,
		Format:         goosgimod.FormatIvy,
		Duplicates:     goosgimod.DuplicatesOverwrite.String(),
		IgnorePackages: append([]string(nil), goosgimod.DefaultIgnoredPackagePrefixes...),
		IgnoreBundles:  append([]string(nil), goosgimod.DefaultIgnoredBundlePrefixes...),
		Summary:        output.FormatText.String(),
	}
}

// Validate checks enumerated values and bounds.
func (c *Config) Validate() error {
	if _, err := goosgimod.NewExporter(c.Format); err != nil {
		return err
	}
	if _, err := goosgimod.ParseDuplicates(c.Duplicates); err != nil {
		return err
	}
	if _, err := output.ParseFormat(c.Summary); err != nil {
		return err
	}
	if c.Concurrency < 0 {
		return fmt.Errorf("concurrency must be >= 0, got %d", c.Concurrency)
	}
	return nil
}

// AnalysisOptions converts the settings to library options.
func (c *Config) AnalysisOptions(logger *slog.Logger) ([]goosgimod.Option, error) {
	d, err := goosgimod.ParseDuplicates(c.Duplicates)
	if err != nil {
		return nil, err
	}
	return []goosgimod.Option{
		goosgimod.WithDuplicates(d),
		goosgimod.WithIgnoredPackagePrefixes(c.IgnorePackages...),
		goosgimod.WithIgnoredBundlePrefixes(c.IgnoreBundles...),
		goosgimod.WithFilePrefixNames(c.FilePrefixNames),
		goosgimod.WithConcurrency(c.Concurrency),
		goosgimod.WithLogger(logger),
	}, nil
}
