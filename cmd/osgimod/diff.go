package main

import (
	"github.com/spf13/cobra"

	goosgimod "github.com/albertocavalcante/go-osgimod"
	"github.com/albertocavalcante/go-osgimod/internal/output"
	"github.com/albertocavalcante/go-osgimod/lockfile"
)

func newDiffCmd() *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "diff <old.lock> <new.lock>",
		Short: "Compare two lockfiles",
		Long: `Compare two lockfiles written by "osgimod resolve --lockfile".

Reports added, removed and changed artifacts and bundles, and for every
changed bundle the dependencies that were added, removed, upgraded or
downgraded.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := output.ParseFormat(format)
			if err != nil {
				return output.NewExitError(err, output.ExitUsageError)
			}
			old, err := lockfile.ReadFile(args[0])
			if err != nil {
				return err
			}
			cur, err := lockfile.ReadFile(args[1])
			if err != nil {
				return err
			}
			d, err := goosgimod.DiffLockfiles(old, cur)
			if err != nil {
				return err
			}
			return output.WriteDiff(cmd.OutOrStdout(), f, d)
		},
	}
	cmd.Flags().StringVarP(&format, "output", "o", "text", "Output format: text, yaml, json")
	return cmd
}
