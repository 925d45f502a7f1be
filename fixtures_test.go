package goosgimod

import (
	"archive/zip"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/albertocavalcante/go-osgimod/manifest"
)

// manifestText renders a manifest main section from alternating header
// names and values.
func manifestText(kv ...string) string {
	var b strings.Builder
	b.WriteString("Manifest-Version: 1.0\n")
	for i := 0; i+1 < len(kv); i += 2 {
		b.WriteString(kv[i] + ": " + kv[i+1] + "\n")
	}
	b.WriteString("\n")
	return b.String()
}

func writeDirBundle(t *testing.T, root, name, mf string) string {
	t.Helper()
	dir := filepath.Join(root, name)
	writeFile(t, filepath.Join(dir, filepath.FromSlash(manifest.Path)), mf)
	return dir
}

// writeFile writes content to path, creating parent directories.
func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("failed to create %s: %v", filepath.Dir(path), err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write %s: %v", path, err)
	}
}

func writeJarBundle(t *testing.T, root, name, mf string) string {
	t.Helper()
	path := filepath.Join(root, name)
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("failed to create %s: %v", path, err)
	}
	defer f.Close()

	entries := []struct {
		name string
		data []byte
	}{
		{manifest.Path, []byte(mf)},
		{"org/example/Placeholder.class", []byte{0xca, 0xfe, 0xba, 0xbe}},
	}
	zw := zip.NewWriter(f)
	for _, e := range entries {
		if e.name == manifest.Path && mf == "" {
			continue
		}
		w, err := zw.Create(e.name)
		if err != nil {
			t.Fatalf("failed to add %s to %s: %v", e.name, path, err)
		}
		if _, err := w.Write(e.data); err != nil {
			t.Fatalf("failed to write %s to %s: %v", e.name, path, err)
		}
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("failed to close %s: %v", path, err)
	}
	return path
}

// writePlugins lays out a small target platform: an exploded core bundle,
// a ui jar depending on it, and entries that must be skipped.
func writePlugins(t *testing.T) string {
	t.Helper()
	root := t.TempDir()

	writeDirBundle(t, root, "org.example.core_1.0.0.v2020", manifestText(
		"Bundle-SymbolicName", "org.example.core;singleton:=true",
		"Bundle-Version", "1.0.0.v2020",
		"Export-Package", `org.example.core;version="1.0.0",org.example.core.util`,
	))
	writeJarBundle(t, root, "org.example.ui_2.0.0.jar", manifestText(
		"Bundle-SymbolicName", "org.example.ui",
		"Bundle-Version", "2.0.0",
		"Require-Bundle", `org.example.core;bundle-version="[1.0.0,2.0.0)"`,
		"Import-Package", "org.example.core.util,javax.swing,org.missing.pkg",
	))

	writeFile(t, filepath.Join(root, "org.example.core.source_1.0.0.v2020.jar"), "not a jar")
	writeFile(t, filepath.Join(root, "readme.txt"), "hello")
	if err := os.MkdirAll(filepath.Join(root, ".metadata"), 0o755); err != nil {
		t.Fatalf("failed to create .metadata: %v", err)
	}
	return root
}
