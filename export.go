package goosgimod

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
)

// MetadataExporter writes one dependency descriptor per bundle.
type MetadataExporter interface {
	// Export writes the descriptor of b with its resolved dependencies
	// into dir, creating dir when needed.
	Export(b *Bundle, org string, deps []Dependency, dir string) error

	// FileName returns the descriptor file name for b.
	FileName(b *Bundle) string
}

// Descriptor formats accepted by NewExporter.
const (
	FormatIvy    = "ivy"
	FormatBzlmod = "bzlmod"
)

// Formats lists the supported descriptor formats.
var Formats = []string{FormatIvy, FormatBzlmod}

// NewExporter returns the exporter for a descriptor format.
func NewExporter(format string) (MetadataExporter, error) {
	switch format {
	case FormatIvy, "":
		return IvyExporter{}, nil
	case FormatBzlmod:
		return BzlmodExporter{}, nil
	default:
		return nil, fmt.Errorf("unknown format %q (want one of %v)", format, Formats)
	}
}

// ExportSink returns a Sink writing descriptors for organisation org into dir.
func ExportSink(e MetadataExporter, org, dir string) Sink {
	return SinkFunc(func(ctx context.Context, b *Bundle, deps []Dependency) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		return e.Export(b, org, deps, dir)
	})
}

// writeDescriptor writes data to dir/name, creating dir.
func writeDescriptor(dir, name string, data []byte) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create %s: %w", dir, err)
	}
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
