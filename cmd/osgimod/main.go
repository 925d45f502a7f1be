// Command osgimod resolves the dependencies of an OSGi plugins directory
// and writes Ivy or MODULE.bazel descriptors for every bundle.
package main

import (
	"fmt"
	"os"

	"github.com/albertocavalcante/go-osgimod/internal/output"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(output.ExitCode(err))
	}
}
