package goosgimod

import (
	"regexp"
	"strings"
)

// NameMap maps bundle identities to the file prefix of the artifact they were
// loaded from. Eclipse plugins directories name artifacts
// "{prefix}_{version}.jar", where the prefix is usually, but not always, the
// symbolic name.
type NameMap map[string]map[string]string

// Add records the file prefix of one loaded bundle. Nothing is recorded when
// the file name does not contain the bundle version.
func (m NameMap) Add(b *Bundle, fileName string) {
	prefix := FilePrefix(fileName, b.Version().String())
	if prefix == "" {
		return
	}
	byVersion, ok := m[b.Name()]
	if !ok {
		byVersion = make(map[string]string)
		m[b.Name()] = byVersion
	}
	byVersion[b.Version().String()] = prefix
}

// Lookup returns the file prefix for name at version, or name itself when
// no prefix is known.
func (m NameMap) Lookup(v Versioned) string {
	if prefix := m[v.Name][v.Version.String()]; strings.TrimSpace(prefix) != "" {
		return prefix
	}
	return v.Name
}

// Bundle returns b renamed to its file prefix.
func (m NameMap) Bundle(b *Bundle) *Bundle {
	name := m.Lookup(b.Versioned())
	if name == b.Name() {
		return b
	}
	renamed, err := b.Rename(name)
	if err != nil {
		return b
	}
	return renamed
}

// Dependencies returns deps with every name mapped to its file prefix.
func (m NameMap) Dependencies(deps []Dependency) []Dependency {
	out := make([]Dependency, len(deps))
	for i, d := range deps {
		out[i] = d
		out[i].Name = m.Lookup(d.Versioned)
	}
	return out
}

// FilePrefix cuts fileName at the first occurrence of ver and strips a
// trailing '_' or '-'. The separators '.', '-' and '_' between version tokens
// are interchangeable, so "1.0.0.SNAPSHOT" is found in "foo-1.0.0-SNAPSHOT.jar".
// It returns "" when ver does not occur in fileName.
//
//	FilePrefix("org.eclipse.core.runtime_3.10.0.v20140318-2214.jar", "3.10.0.v20140318-2214")
//	  == "org.eclipse.core.runtime"
func FilePrefix(fileName, ver string) string {
	tokens := strings.FieldsFunc(ver, isVersionSeparator)
	if len(tokens) == 0 {
		return ""
	}
	for i, t := range tokens {
		tokens[i] = regexp.QuoteMeta(t)
	}
	loc := regexp.MustCompile(strings.Join(tokens, "[._-]")).FindStringIndex(fileName)
	if loc == nil {
		return ""
	}
	prefix := fileName[:loc[0]]
	if strings.HasSuffix(prefix, "_") || strings.HasSuffix(prefix, "-") {
		prefix = prefix[:len(prefix)-1]
	}
	return prefix
}

func isVersionSeparator(r rune) bool {
	return r == '.' || r == '-' || r == '_'
}
