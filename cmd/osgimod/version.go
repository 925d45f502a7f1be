package main

import (
	"fmt"
	"runtime"
	"runtime/debug"

	"github.com/spf13/cobra"
)

// Set with -ldflags "-X main.version=... -X main.commit=...".
var (
	version = "dev"
	commit  = ""
)

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			v, c := version, commit
			if info, ok := debug.ReadBuildInfo(); ok {
				if v == "dev" && info.Main.Version != "" && info.Main.Version != "(devel)" {
					v = info.Main.Version
				}
				for _, s := range info.Settings {
					if c == "" && s.Key == "vcs.revision" {
						c = s.Value
					}
				}
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "osgimod version %s\n", v)
			if c != "" {
				fmt.Fprintf(out, "  Commit:  %s\n", c)
			}
			fmt.Fprintf(out, "  Go:      %s\n", runtime.Version())
		},
	}
}
