// Package version implements OSGi-style bundle and package version parsing,
// ordering and range handling.
//
// Version format: MAJOR[.MINOR[.BUILD[.SUFFIX...]]]
//   - Tokens are separated by '.', '-' or '_'.
//   - MAJOR is mandatory and must be numeric.
//   - MINOR and BUILD default to 0 when absent or non-numeric.
//   - Anything after BUILD is the suffix (qualifier). It is kept for
//     rendering only and never takes part in ordering.
//
// Ordering is lexicographic over (major, minor, build):
//
//	1.2.3.rc1 == 1.2.3 < 1.10.0 < 2.0
package version

import (
	"cmp"
	"fmt"
	"math"
	"slices"
	"strconv"
	"strings"
)

// Version is a parsed bundle or package version.
type Version struct {
	Major int64
	Minor int64
	Build int64

	// Suffix is the qualifier following the build number, if any.
	Suffix string

	// Short reports that the version was written with fewer than three
	// components. It only affects String.
	Short bool
}

var (
	// Min is the lowest possible version.
	Min = Version{}

	// Max is the highest possible version and the open upper bound of
	// unbounded ranges.
	Max = Version{Major: math.MaxInt64}

	// Default is the version assumed when nothing else is known.
	Default = Version{Minor: 1}
)

// Component selects the granularity used by Format.
type Component int

const (
	ComponentMajor Component = iota
	ComponentMinor
	ComponentBuild
	ComponentSuffix
)

// New returns the version major.minor.build without suffix.
func New(major, minor, build int64) Version {
	return Version{Major: major, Minor: minor, Build: build}
}

// ParseError represents a version parsing error.
type ParseError struct {
	Version string
	Message string
}

func (e *ParseError) Error() string {
	return "bad version " + strconv.Quote(e.Version) + ": " + e.Message
}

// Parse parses a version string. The suffix (fourth and later tokens) is
// only retained when withSuffix is true; further tokens are joined with '-'.
func Parse(s string, withSuffix bool) (Version, error) {
	parts := splitTokens(strings.TrimSpace(s))

	major, err := strconv.ParseInt(parts[0], 10, 64)
	if err != nil {
		if parts[0] == "" {
			return Version{}, &ParseError{Version: s, Message: "major version is required"}
		}
		return Version{}, &ParseError{Version: s, Message: "major version is not a number"}
	}

	v := Version{Major: major}
	if len(parts) > 1 {
		v.Minor = lenientInt(parts[1])
	}
	if len(parts) > 2 {
		v.Build = lenientInt(parts[2])
	} else {
		v.Short = true
	}
	if withSuffix && len(parts) > 3 {
		v.Suffix = strings.Join(parts[3:], "-")
	}
	return v, nil
}

// MustParse is like Parse but panics on error. Intended for tests and
// package-level values.
func MustParse(s string) Version {
	v, err := Parse(s, true)
	if err != nil {
		panic(err)
	}
	return v
}

// splitTokens splits on '.', '-' and '_', keeping empty tokens.
func splitTokens(s string) []string {
	var parts []string
	start := 0
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '.', '-', '_':
			parts = append(parts, s[start:i])
			start = i + 1
		}
	}
	return append(parts, s[start:])
}

func lenientInt(s string) int64 {
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0
	}
	return n
}

// NextMajor returns (major+1).0.0.
func (v Version) NextMajor() Version {
	return New(v.Major+1, 0, 0)
}

// NextMinor returns major.(minor+1).0.
func (v Version) NextMinor() Version {
	return New(v.Major, v.Minor+1, 0)
}

// Compare returns -1, 0 or 1. The suffix is not compared.
func (v Version) Compare(other Version) int {
	if c := cmp.Compare(v.Major, other.Major); c != 0 {
		return c
	}
	if c := cmp.Compare(v.Minor, other.Minor); c != 0 {
		return c
	}
	return cmp.Compare(v.Build, other.Build)
}

// Less reports whether v orders before other.
func (v Version) Less(other Version) bool {
	return v.Compare(other) < 0
}

// Equal reports whether v and other order the same. Two versions that differ
// only in suffix are equal.
func (v Version) Equal(other Version) bool {
	return v.Compare(other) == 0
}

// String renders "major.minor" for short versions, otherwise
// "major.minor.build" followed by ".suffix" when a suffix is present.
func (v Version) String() string {
	if v.Short {
		return fmt.Sprintf("%d.%d", v.Major, v.Minor)
	}
	s := fmt.Sprintf("%d.%d.%d", v.Major, v.Minor, v.Build)
	if strings.TrimSpace(v.Suffix) != "" {
		s += "." + v.Suffix
	}
	return s
}

// Format renders the version up to the given component.
func (v Version) Format(c Component) string {
	switch c {
	case ComponentMajor:
		return strconv.FormatInt(v.Major, 10)
	case ComponentMinor:
		return fmt.Sprintf("%d.%d", v.Major, v.Minor)
	case ComponentBuild:
		if v.Short {
			return fmt.Sprintf("%d.%d", v.Major, v.Minor)
		}
		return fmt.Sprintf("%d.%d.%d", v.Major, v.Minor, v.Build)
	default:
		return v.String()
	}
}

// Compare compares two versions. Returns -1 if a < b, 0 if a == b, 1 if a > b.
func Compare(a, b Version) int {
	return a.Compare(b)
}

// Sort sorts versions in ascending order.
func Sort(versions []Version) {
	slices.SortStableFunc(versions, Compare)
}

// Highest returns the highest of the given versions and false when the
// slice is empty.
func Highest(versions []Version) (Version, bool) {
	if len(versions) == 0 {
		return Version{}, false
	}
	return slices.MaxFunc(versions, Compare), true
}

// MarshalText renders the version with String.
func (v Version) MarshalText() ([]byte, error) {
	return []byte(v.String()), nil
}

// UnmarshalText parses a version including its suffix.
func (v *Version) UnmarshalText(text []byte) error {
	parsed, err := Parse(string(text), true)
	if err != nil {
		return err
	}
	*v = parsed
	return nil
}
