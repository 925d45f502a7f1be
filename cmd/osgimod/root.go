package main

import (
	"github.com/spf13/cobra"

	"github.com/albertocavalcante/go-osgimod/internal/output"
)

type globalFlags struct {
	config     string
	verbose    bool
	timestamps bool
}

func newRootCmd() *cobra.Command {
	g := &globalFlags{}

	root := &cobra.Command{
		Use:   "osgimod",
		Short: "Static dependency resolution for OSGi bundles",
		Long: `osgimod reads the manifests of every bundle in a plugins directory,
resolves Require-Bundle and Import-Package against the other bundles of the
same directory, and writes one dependency descriptor per bundle.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, _ []string) {
			cfg := output.LogConfig{Verbose: g.verbose, Writer: cmd.ErrOrStderr()}
			if cmd.Flags().Changed("timestamps") {
				cfg.Timestamps = output.BoolPtr(g.timestamps)
			}
			output.SetupLogging(cfg)
		},
	}

	root.PersistentFlags().StringVar(&g.config, "config", "", "Path to config file (default ./osgimod.yaml)")
	root.PersistentFlags().BoolVarP(&g.verbose, "verbose", "v", false, "Enable debug logging")
	root.PersistentFlags().BoolVar(&g.timestamps, "timestamps", false, "Show timestamps in log output")

	root.AddCommand(newResolveCmd(g))
	root.AddCommand(newDiffCmd())
	root.AddCommand(newVersionCmd())
	return root
}
