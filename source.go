package goosgimod

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/albertocavalcante/go-osgimod/manifest"
)

// Artifact is one bundle as stored on disk: an exploded directory or a jar.
type Artifact struct {
	// Path is the location of the artifact.
	Path string `json:"path" yaml:"path"`

	// Name is the base file name, used for file prefix name remapping.
	Name string `json:"name" yaml:"name"`

	// Dir reports an exploded bundle directory.
	Dir bool `json:"dir,omitempty" yaml:"dir,omitempty"`
}

// ManifestPath returns the file the artifact's manifest is read from: the
// manifest inside an exploded directory, or the jar itself.
func (a Artifact) ManifestPath() string {
	if a.Dir {
		return filepath.Join(a.Path, filepath.FromSlash(manifest.Path))
	}
	return a.Path
}

// ArtifactSource enumerates bundle artifacts and loads their manifests.
type ArtifactSource interface {
	// Artifacts lists the artifacts to analyze in a stable order.
	Artifacts(ctx context.Context) ([]Artifact, error)

	// LoadManifest returns the main manifest attributes of an artifact.
	LoadManifest(ctx context.Context, a Artifact) (manifest.Headers, error)
}

// DirSource reads bundles from a plugins directory, for example the plugins
// folder of an Eclipse target platform.
//
// Accepted entries are subdirectories (exploded bundles) and .jar files.
// Source bundles are skipped: names containing ".source_" or ending in
// "-sources" before the extension. Hidden entries are skipped too.
//
// The directory may be given as a native path or as a file:// URL:
//
//	src, _ := NewDirSource("/opt/eclipse/plugins")
//	src, _ := NewDirSource("file:///C:/eclipse/plugins")
type DirSource struct {
	root string
}

// NewDirSource returns a source over dir. The directory must exist.
func NewDirSource(dir string) (*DirSource, error) {
	if isFileURL(dir) {
		p, err := parseFileURL(dir)
		if err != nil {
			return nil, err
		}
		dir = p
	}
	dir = filepath.Clean(dir)

	info, err := os.Stat(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("plugins directory does not exist: %s", dir)
		}
		return nil, fmt.Errorf("cannot access plugins directory %s: %w", dir, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("not a directory: %s", dir)
	}
	return &DirSource{root: dir}, nil
}

// Root returns the plugins directory.
func (s *DirSource) Root() string {
	return s.root
}

// Artifacts lists the bundle artifacts in name order.
func (s *DirSource) Artifacts(ctx context.Context) ([]Artifact, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	entries, err := os.ReadDir(s.root)
	if err != nil {
		return nil, fmt.Errorf("list plugins directory %s: %w", s.root, err)
	}

	var artifacts []Artifact
	for _, e := range entries {
		name := e.Name()
		if strings.HasPrefix(name, ".") || IsSourceArtifact(name) {
			continue
		}
		dir := e.IsDir()
		if !dir && !strings.EqualFold(filepath.Ext(name), ".jar") {
			continue
		}
		artifacts = append(artifacts, Artifact{
			Path: filepath.Join(s.root, name),
			Name: name,
			Dir:  dir,
		})
	}
	return artifacts, nil
}

// LoadManifest reads the artifact's META-INF/MANIFEST.MF.
func (s *DirSource) LoadManifest(ctx context.Context, a Artifact) (manifest.Headers, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if a.Dir {
		return manifest.ReadDir(a.Path)
	}
	return manifest.ReadArchive(a.Path)
}

// IsSourceArtifact reports whether a file name denotes a source bundle,
// e.g. "org.example_1.0.0.source_1.0.0.jar" or "example-1.0-sources.jar".
func IsSourceArtifact(name string) bool {
	if strings.Contains(name, ".source_") {
		return true
	}
	base := strings.TrimSuffix(name, filepath.Ext(name))
	return strings.HasSuffix(base, "-sources")
}

// parseFileURL extracts the path from a file:// URL.
// Handles both Unix (file:///path) and Windows (file:///C:/path) formats.
//
// Examples:
//
//	Unix:    file:///tmp/plugins      -> /tmp/plugins
//	Windows: file:///C:/eclipse/plugins -> C:/eclipse/plugins
func parseFileURL(url string) (string, error) {
	if !isFileURL(url) {
		return "", fmt.Errorf("not a file:// URL: %s", url)
	}

	path := strings.TrimPrefix(url, "file://")

	// file:///C:/path -> C:/path
	if len(path) >= 3 && path[0] == '/' && isWindowsDriveLetter(path[1]) && path[2] == ':' {
		path = path[1:]
	}

	return filepath.Clean(path), nil
}

// isWindowsDriveLetter returns true if c is a valid Windows drive letter (A-Z, a-z).
func isWindowsDriveLetter(c byte) bool {
	return (c >= 'A' && c <= 'Z') || (c >= 'a' && c <= 'z')
}

// isFileURL checks if a URL is a file:// URL.
func isFileURL(url string) bool {
	return strings.HasPrefix(url, "file://")
}

var _ ArtifactSource = (*DirSource)(nil)
