package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const envPrefix = "OSGIMOD"

// flagKeys maps command-line flag names to configuration keys.
var flagKeys = map[string]string{
	"out":               "out",
	"org":               "org",
	"format":            "format",
	"lockfile":          "lockfile",
	"duplicates":        "duplicates",
	"ignore-package":    "ignore_packages",
	"ignore-bundle":     "ignore_bundles",
	"file-prefix-names": "file_prefix_names",
	"concurrency":       "concurrency",
	"summary":           "summary",
	"clean":             "clean",
	"strict":            "strict",
}

// Loader merges configuration sources. Precedence, highest first:
// explicitly set flags, OSGIMOD_* environment variables, the config file,
// built-in defaults.
type Loader struct {
	v    *viper.Viper
	used string
}

// NewLoader creates a loader with defaults and environment bindings.
func NewLoader() *Loader {
	v := viper.New()
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	d := Default()
	v.SetDefault("out", d.Out)
	v.SetDefault("org", d.Org)
	v.SetDefault("format", d.Format)
	v.SetDefault("lockfile", d.Lockfile)
	v.SetDefault("duplicates", d.Duplicates)
	v.SetDefault("ignore_packages", d.IgnorePackages)
	v.SetDefault("ignore_bundles", d.IgnoreBundles)
	v.SetDefault("file_prefix_names", d.FilePrefixNames)
	v.SetDefault("concurrency", d.Concurrency)
	v.SetDefault("summary", d.Summary)
	v.SetDefault("clean", d.Clean)
	v.SetDefault("strict", d.Strict)

	return &Loader{v: v}
}

// BindFlags binds the known flags of fs. Only flags the user set override
// other sources.
func (l *Loader) BindFlags(fs *pflag.FlagSet) error {
	for name, key := range flagKeys {
		f := fs.Lookup(name)
		if f == nil {
			continue
		}
		if err := l.v.BindPFlag(key, f); err != nil {
			return fmt.Errorf("binding flag %s: %w", name, err)
		}
	}
	return nil
}

// Load reads configFile and returns the merged, validated configuration.
// An empty configFile means DefaultFileName, which may be absent; an
// explicitly named file must exist.
func (l *Loader) Load(configFile string) (*Config, error) {
	explicit := configFile != ""
	if !explicit {
		configFile = DefaultFileName
	}

	l.v.SetConfigFile(configFile)
	l.v.SetConfigType("yaml")
	if err := l.v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		missing := errors.As(err, &notFound) || errors.Is(err, fs.ErrNotExist)
		if !missing || explicit {
			return nil, fmt.Errorf("reading config file %s: %w", configFile, err)
		}
	} else {
		l.used = l.v.ConfigFileUsed()
	}

	var cfg Config
	if err := l.v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &cfg, nil
}

// ConfigFileUsed returns the file the configuration was read from, or ""
// when none was found.
func (l *Loader) ConfigFileUsed() string {
	return l.used
}
