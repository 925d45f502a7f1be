//go:build tools

// Package lint pins the linters used on go-osgimod in a module of its own,
// so the library's go.mod only carries what the analyzer and the CLI import.
//
// The linters are declared as go.mod tool directives and run through make:
//
//	make lint         # golangci-lint with .golangci.yml
//	make staticcheck
//	make check        # build, race tests and both linters
package lint
