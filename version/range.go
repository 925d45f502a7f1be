package version

import "strings"

// Range is a half-open version interval [From, To).
type Range struct {
	From Version
	To   Version
}

// Unbounded matches every version below Max.
var Unbounded = Range{From: Min, To: Max}

// Point returns [v, v.NextMajor()), the range implied by a bare version.
func Point(v Version) Range {
	return Range{From: v, To: v.NextMajor()}
}

// ParseRange parses a version range attribute.
//
// A bare version v means [v, nextMajor(v)). Bracketed ranges accept either
// '[' or '(' as the lower and either ']' or ')' as the upper delimiter, and
// always yield [from, to): the lower bound is inclusive and the upper bound
// exclusive regardless of bracket style. A range whose bounds are equal is
// widened to the next major version so that it is never empty.
//
// Range bounds never carry a suffix. Blank input yields Unbounded.
func ParseRange(s string) (Range, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Unbounded, nil
	}

	if !isBracketed(s) {
		v, err := Parse(s, false)
		if err != nil {
			return Range{}, err
		}
		return Point(v), nil
	}

	lower, upper, ok := strings.Cut(s[1:len(s)-1], ",")
	if !ok || strings.TrimSpace(lower) == "" || strings.TrimSpace(upper) == "" {
		return Range{}, &ParseError{Version: s, Message: "range requires a lower and an upper bound"}
	}
	from, err := Parse(lower, false)
	if err != nil {
		return Range{}, err
	}
	to, err := Parse(upper, false)
	if err != nil {
		return Range{}, err
	}
	if to.Equal(from) {
		to = from.NextMajor()
	}
	return Range{From: from, To: to}, nil
}

func isBracketed(s string) bool {
	if len(s) < 2 {
		return false
	}
	first, last := s[0], s[len(s)-1]
	return (first == '[' || first == '(') && (last == ']' || last == ')')
}

// Contains reports whether From <= v < To.
func (r Range) Contains(v Version) bool {
	return r.From.Compare(v) <= 0 && v.Compare(r.To) < 0
}

// IsEmpty reports whether no version can satisfy the range.
func (r Range) IsEmpty() bool {
	return r.From.Compare(r.To) >= 0
}

// Filter returns the versions contained in the range, preserving order.
func (r Range) Filter(versions []Version) []Version {
	var out []Version
	for _, v := range versions {
		if r.Contains(v) {
			out = append(out, v)
		}
	}
	return out
}

// String renders the range in interval notation, e.g. "[1.0.0,2.0.0)".
func (r Range) String() string {
	return "[" + r.From.String() + "," + r.To.String() + ")"
}
