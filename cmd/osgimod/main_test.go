package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/albertocavalcante/go-osgimod/internal/output"
	"github.com/albertocavalcante/go-osgimod/lockfile"
)

func writeBundle(t *testing.T, root, dir string, headers ...string) {
	t.Helper()
	path := filepath.Join(root, dir, "META-INF", "MANIFEST.MF")
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	content := "Manifest-Version: 1.0\n" + strings.Join(headers, "\n") + "\n\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func testPlugins(t *testing.T) string {
	t.Helper()
	root := t.TempDir()
	writeBundle(t, root, "core_1.0.0",
		"Bundle-SymbolicName: core",
		"Bundle-Version: 1.0.0",
		"Export-Package: org.example.core")
	writeBundle(t, root, "ui_2.0.0",
		"Bundle-SymbolicName: ui",
		"Bundle-Version: 2.0.0",
		"Require-Bundle: core",
		"Import-Package: org.example.missing")
	return root
}

func run(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	t.Chdir(t.TempDir())

	cmd := newRootCmd()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func TestResolveWritesDescriptors(t *testing.T) {
	plugins := testPlugins(t)
	out := filepath.Join(t.TempDir(), "ivy")

	stdout, stderr, err := run(t, "resolve", plugins, "--out", out, "--org", "acme")
	require.NoError(t, err)

	assert.Contains(t, stdout, "2 bundles, 1 dependencies, 1 missing")
	assert.Contains(t, stderr, "org.example.missing")

	data, err := os.ReadFile(filepath.Join(out, "ui-2.0.0.xml"))
	require.NoError(t, err)
	assert.Contains(t, string(data), `<dependency org="acme" name="core" rev="1.0.0"`)
	assert.FileExists(t, filepath.Join(out, "core-1.0.0.xml"))
}

func TestResolveSummaryOnly(t *testing.T) {
	stdout, _, err := run(t, "resolve", testPlugins(t), "--summary", "json")
	require.NoError(t, err)
	assert.Contains(t, stdout, `"bundles": 2`)
	assert.Contains(t, stdout, `"kind": "missing"`)
}

func TestResolveEmptyPluginsDir(t *testing.T) {
	out := filepath.Join(t.TempDir(), "ivy")

	stdout, _, err := run(t, "resolve", t.TempDir(), "--out", out, "--strict")
	require.NoError(t, err)
	assert.Contains(t, stdout, "0 bundles, 0 dependencies, 0 missing")

	entries, err := os.ReadDir(out)
	if err == nil {
		assert.Empty(t, entries)
	}
}

func TestResolveLockfileAndDiff(t *testing.T) {
	plugins := testPlugins(t)
	dir := t.TempDir()
	before := filepath.Join(dir, "before.lock")
	after := filepath.Join(dir, "after.lock")

	_, _, err := run(t, "resolve", plugins, "--lockfile", before, "--summary", "none")
	require.NoError(t, err)

	writeBundle(t, plugins, "missing_1.0.0",
		"Bundle-SymbolicName: missing",
		"Bundle-Version: 1.0.0",
		"Export-Package: org.example.missing")
	_, _, err = run(t, "resolve", plugins, "--lockfile", after, "--summary", "none")
	require.NoError(t, err)

	lf, err := lockfile.ReadFile(after)
	require.NoError(t, err)
	assert.Len(t, lf.Bundles, 3)

	stdout, _, err := run(t, "diff", before, after)
	require.NoError(t, err)
	assert.Contains(t, stdout, "added bundles: 1")
	assert.Contains(t, stdout, "+ missing@1.0.0")

	stdout, _, err = run(t, "diff", before, after, "-o", "yaml")
	require.NoError(t, err)
	assert.Contains(t, stdout, "addedBundles:")
}

func TestResolveStrict(t *testing.T) {
	_, _, err := run(t, "resolve", testPlugins(t), "--strict", "--summary", "none")
	require.Error(t, err)
	assert.Equal(t, output.ExitUnresolved, output.ExitCode(err))
}

func TestResolveConfigFile(t *testing.T) {
	plugins := testPlugins(t)
	out := filepath.Join(t.TempDir(), "modules")
	cfg := filepath.Join(t.TempDir(), "osgimod.yaml")
	require.NoError(t, os.WriteFile(cfg, []byte("format: bzlmod\nsummary: none\nout: "+out+"\n"), 0o644))

	_, _, err := run(t, "resolve", plugins, "--config", cfg)
	require.NoError(t, err)
	assert.FileExists(t, filepath.Join(out, "ui-2.0.0.MODULE.bazel"))
}

func TestResolveUsageErrors(t *testing.T) {
	_, _, err := run(t, "resolve", testPlugins(t), "--format", "maven")
	require.Error(t, err)
	assert.Equal(t, output.ExitUsageError, output.ExitCode(err))

	_, _, err = run(t, "resolve")
	assert.Error(t, err)

	_, _, err = run(t, "resolve", filepath.Join(t.TempDir(), "missing"))
	require.Error(t, err)
	assert.Equal(t, output.ExitGeneralError, output.ExitCode(err))
}

func TestVersion(t *testing.T) {
	stdout, _, err := run(t, "version")
	require.NoError(t, err)
	assert.Contains(t, stdout, "osgimod version")
}
