package goosgimod

import (
	"errors"
	"fmt"

	"github.com/albertocavalcante/go-osgimod/version"
)

// Sentinel errors for common analysis failures.
var (
	// ErrMissingHeader indicates a manifest without a mandatory bundle header.
	ErrMissingHeader = errors.New("missing manifest header")

	// ErrDuplicateBundle indicates the same bundle name and version was added
	// twice to a universe that forbids duplicates.
	ErrDuplicateBundle = errors.New("duplicate bundle")

	// ErrEmptyName indicates a bundle or dependency name that is empty.
	ErrEmptyName = errors.New("empty name")
)

// MissingHeaderError reports a mandatory header absent from a manifest.
type MissingHeaderError struct {
	Header string
}

func (e *MissingHeaderError) Error() string {
	return fmt.Sprintf("missing %s in manifest", e.Header)
}

// Is matches ErrMissingHeader.
func (e *MissingHeaderError) Is(target error) bool {
	return target == ErrMissingHeader
}

// DuplicateBundleError reports a second insertion of the same bundle identity.
type DuplicateBundleError struct {
	Name    string
	Version version.Version
}

func (e *DuplicateBundleError) Error() string {
	return fmt.Sprintf("bundle %s@%s already exists", e.Name, e.Version)
}

// Is matches ErrDuplicateBundle.
func (e *DuplicateBundleError) Is(target error) bool {
	return target == ErrDuplicateBundle
}

// ArtifactError wraps a failure to load or parse one artifact.
type ArtifactError struct {
	Path string
	Err  error
}

func (e *ArtifactError) Error() string {
	return fmt.Sprintf("artifact %s: %v", e.Path, e.Err)
}

func (e *ArtifactError) Unwrap() error {
	return e.Err
}

// ExportError wraps a sink failure for one bundle.
type ExportError struct {
	Bundle string
	Err    error
}

func (e *ExportError) Error() string {
	return fmt.Sprintf("export %s: %v", e.Bundle, e.Err)
}

func (e *ExportError) Unwrap() error {
	return e.Err
}
