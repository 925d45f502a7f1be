package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	goosgimod "github.com/albertocavalcante/go-osgimod"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "osgimod.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func testFlags(t *testing.T, args ...string) *pflag.FlagSet {
	t.Helper()
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	fs.String("org", "eclipse", "")
	fs.String("format", "ivy", "")
	fs.StringSlice("ignore-package", nil, "")
	fs.Int("concurrency", 0, "")
	fs.Bool("clean", false, "")
	require.NoError(t, fs.Parse(args))
	return fs
}

func TestLoadDefaults(t *testing.T) {
	t.Chdir(t.TempDir())

	l := NewLoader()
	cfg, err := l.Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
	assert.Empty(t, l.ConfigFileUsed())
}

func TestLoadFromFile(t *testing.T) {
	path := writeConfig(t, `
out: build/ivy
org: acme
format: bzlmod
duplicates: forbid
ignore_packages: [java., sun.]
file_prefix_names: true
concurrency: 4
summary: yaml
`)
	l := NewLoader()
	cfg, err := l.Load(path)
	require.NoError(t, err)

	assert.Equal(t, "build/ivy", cfg.Out)
	assert.Equal(t, "acme", cfg.Org)
	assert.Equal(t, "bzlmod", cfg.Format)
	assert.Equal(t, "forbid", cfg.Duplicates)
	assert.Equal(t, []string{"java.", "sun."}, cfg.IgnorePackages)
	assert.Equal(t, goosgimod.DefaultIgnoredBundlePrefixes, cfg.IgnoreBundles)
	assert.True(t, cfg.FilePrefixNames)
	assert.Equal(t, 4, cfg.Concurrency)
	assert.Equal(t, "yaml", cfg.Summary)
	assert.Equal(t, path, l.ConfigFileUsed())
}

func TestLoadDefaultFileFromWorkingDir(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, DefaultFileName), []byte("org: local\n"), 0o644))
	t.Chdir(dir)

	cfg, err := NewLoader().Load("")
	require.NoError(t, err)
	assert.Equal(t, "local", cfg.Org)
}

func TestLoadExplicitMissingFile(t *testing.T) {
	_, err := NewLoader().Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorContains(t, err, "reading config file")
}

func TestLoadPrecedence(t *testing.T) {
	path := writeConfig(t, "org: from-file\nformat: bzlmod\nconcurrency: 2\nclean: true\n")

	t.Run("env over file", func(t *testing.T) {
		t.Setenv("OSGIMOD_ORG", "from-env")
		t.Setenv("OSGIMOD_IGNORE_PACKAGES", "java.,com.sun.")

		l := NewLoader()
		require.NoError(t, l.BindFlags(testFlags(t)))
		cfg, err := l.Load(path)
		require.NoError(t, err)
		assert.Equal(t, "from-env", cfg.Org)
		assert.Equal(t, []string{"java.", "com.sun."}, cfg.IgnorePackages)
		assert.Equal(t, "bzlmod", cfg.Format, "unset flag does not override file")
		assert.True(t, cfg.Clean)
	})

	t.Run("flag over env", func(t *testing.T) {
		t.Setenv("OSGIMOD_ORG", "from-env")

		l := NewLoader()
		require.NoError(t, l.BindFlags(testFlags(t, "--org", "from-flag", "--concurrency", "8")))
		cfg, err := l.Load(path)
		require.NoError(t, err)
		assert.Equal(t, "from-flag", cfg.Org)
		assert.Equal(t, 8, cfg.Concurrency)
	})
}

func TestLoadInvalid(t *testing.T) {
	tests := map[string]string{
		"format":      "format: maven\n",
		"duplicates":  "duplicates: sometimes\n",
		"summary":     "summary: xml\n",
		"concurrency": "concurrency: -1\n",
	}
	for name, content := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := NewLoader().Load(writeConfig(t, content))
			assert.ErrorContains(t, err, "invalid configuration")
		})
	}
}

func TestAnalysisOptions(t *testing.T) {
	cfg := Default()
	cfg.Concurrency = 2

	opts, err := cfg.AnalysisOptions(nil)
	require.NoError(t, err)
	_, err = goosgimod.NewAnalyzer(opts...)
	assert.NoError(t, err)

	cfg.Duplicates = "bogus"
	_, err = cfg.AnalysisOptions(nil)
	assert.Error(t, err)
}
