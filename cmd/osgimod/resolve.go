package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	goosgimod "github.com/albertocavalcante/go-osgimod"
	"github.com/albertocavalcante/go-osgimod/internal/config"
	"github.com/albertocavalcante/go-osgimod/internal/output"
)

func newResolveCmd(g *globalFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "resolve <plugins-dir>",
		Short: "Resolve bundle dependencies and write descriptors",
		Long: `Resolve the direct dependencies of every bundle in a plugins directory.

Exploded bundle directories and .jar files are read; source bundles are
skipped. With --out, one descriptor per bundle is written. Flags override
OSGIMOD_* environment variables, which override the config file.`,
		Example: `  osgimod resolve /opt/eclipse/plugins --out ivy-metadata
  osgimod resolve ./plugins --format bzlmod --out modules --lockfile osgimod.lock
  osgimod resolve ./plugins --summary yaml --strict`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runResolve(cmd, g, args[0])
		},
	}

	d := config.Default()
	f := cmd.Flags()
	f.StringP("out", "o", "", "Directory receiving the descriptors (env: OSGIMOD_OUT)")
	f.String("org", d.Org, "Organisation of the written descriptors (env: OSGIMOD_ORG)")
	f.String("format", d.Format, "Descriptor format: ivy, bzlmod")
	f.String("lockfile", "", "Write a lockfile of the run to this path")
	f.String("duplicates", d.Duplicates, "Duplicate bundle policy: overwrite, forbid")
	f.StringSlice("ignore-package", d.IgnorePackages, "Package prefixes never resolved")
	f.StringSlice("ignore-bundle", d.IgnoreBundles, "Bundle prefixes never resolved")
	f.Bool("file-prefix-names", false, "Name descriptors after artifact file prefixes")
	f.Int("concurrency", 0, "Parallel resolution workers (0 = GOMAXPROCS)")
	f.String("summary", d.Summary, "Summary output: text, yaml, json, none")
	f.Bool("clean", false, "Remove the output directory before writing")
	f.Bool("strict", false, "Fail when any requirement is missing")
	return cmd
}

func runResolve(cmd *cobra.Command, g *globalFlags, pluginsDir string) error {
	loader := config.NewLoader()
	if err := loader.BindFlags(cmd.Flags()); err != nil {
		return output.NewExitError(err, output.ExitUsageError)
	}
	cfg, err := loader.Load(g.config)
	if err != nil {
		return output.NewExitError(err, output.ExitUsageError)
	}
	if used := loader.ConfigFileUsed(); used != "" {
		output.Debug("loaded config", "file", used)
	}
	summary, err := output.ParseFormat(cfg.Summary)
	if err != nil {
		return output.NewExitError(err, output.ExitUsageError)
	}

	opts, err := cfg.AnalysisOptions(output.Slog())
	if err != nil {
		return output.NewExitError(err, output.ExitUsageError)
	}

	ctx := cmd.Context()
	var report *goosgimod.Report
	if cfg.Out != "" {
		report, err = goosgimod.ExportDir(ctx, pluginsDir, goosgimod.ExportOptions{
			OutDir:       cfg.Out,
			Organisation: cfg.Org,
			Format:       cfg.Format,
			Clean:        cfg.Clean,
		}, opts...)
	} else {
		report, err = goosgimod.ResolveDir(ctx, pluginsDir, opts...)
	}
	if report == nil {
		return err
	}
	// Export failures still leave a complete report.
	var errs []error
	if err != nil {
		errs = append(errs, err)
	}

	if cfg.Lockfile != "" {
		if err := writeLockfile(report, cfg.Lockfile); err != nil {
			errs = append(errs, err)
		} else {
			output.Info("wrote lockfile", "path", cfg.Lockfile)
		}
	}

	if err := output.WriteSummary(cmd.OutOrStdout(), summary, output.NewSummary(report)); err != nil {
		errs = append(errs, err)
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}
	if cfg.Strict && report.Missing > 0 {
		return output.NewExitError(
			fmt.Errorf("%d requirements could not be resolved", report.Missing),
			output.ExitUnresolved)
	}
	return nil
}

func writeLockfile(report *goosgimod.Report, path string) error {
	lf, err := goosgimod.NewLockfile(report)
	if err != nil {
		return fmt.Errorf("build lockfile: %w", err)
	}
	return lf.WriteFile(path)
}
