package manifest

import (
	"archive/zip"
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// Path is the location of the manifest inside a bundle.
const Path = "META-INF/MANIFEST.MF"

// ErrNoManifest indicates an artifact without META-INF/MANIFEST.MF.
var ErrNoManifest = errors.New("no manifest")

// Headers holds the main attributes of a manifest. Lookups are
// case-insensitive, matching JAR manifest semantics.
type Headers map[string]string

// Lookup returns the named header and whether it was present.
func (h Headers) Lookup(name string) (string, bool) {
	if v, ok := h[name]; ok {
		return v, true
	}
	for k, v := range h {
		if strings.EqualFold(k, name) {
			return v, true
		}
	}
	return "", false
}

// Get returns the named header or "" when absent.
func (h Headers) Get(name string) string {
	v, _ := h.Lookup(name)
	return v
}

// Read parses the main section of a manifest. Continuation lines (starting
// with a single space) are joined to the previous header; reading stops at
// the first blank line.
func Read(r io.Reader) (Headers, error) {
	headers := make(Headers)
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)

	var name string
	var value strings.Builder
	flush := func() {
		if name != "" {
			headers[name] = value.String()
		}
		name = ""
		value.Reset()
	}

	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSuffix(scanner.Text(), "\r")
		if lineNo == 1 {
			line = strings.TrimPrefix(line, "\ufeff")
		}
		if line == "" {
			break
		}
		if line[0] == ' ' {
			if name == "" {
				return nil, fmt.Errorf("manifest line %d: continuation without header", lineNo)
			}
			value.WriteString(line[1:])
			continue
		}

		flush()
		k, v, ok := strings.Cut(line, ":")
		if !ok || strings.TrimSpace(k) == "" {
			return nil, fmt.Errorf("manifest line %d: invalid header %q", lineNo, line)
		}
		name = strings.TrimSpace(k)
		value.WriteString(strings.TrimPrefix(v, " "))
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read manifest: %w", err)
	}
	flush()
	return headers, nil
}

// ReadFile reads a manifest file from disk.
func ReadFile(path string) (Headers, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%s: %w", path, ErrNoManifest)
		}
		return nil, err
	}
	defer f.Close()
	return Read(f)
}

// ReadDir reads the manifest of an exploded bundle directory.
func ReadDir(dir string) (Headers, error) {
	return ReadFile(filepath.Join(dir, filepath.FromSlash(Path)))
}

// ReadArchive reads the manifest stored in a jar archive.
func ReadArchive(path string) (Headers, error) {
	zr, err := zip.OpenReader(path)
	if err != nil {
		return nil, fmt.Errorf("open archive %s: %w", path, err)
	}
	defer zr.Close()

	for _, f := range zr.File {
		if !strings.EqualFold(f.Name, Path) {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return nil, fmt.Errorf("open %s in %s: %w", f.Name, path, err)
		}
		defer rc.Close()
		return Read(rc)
	}
	return nil, fmt.Errorf("%s: %w", path, ErrNoManifest)
}
