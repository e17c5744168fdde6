package classify

import (
	"fmt"
	"strings"
)

// DefaultSeparator joins label tokens inside a labels field.
const DefaultSeparator = ";"

// DefaultExcludedSubstrings are the labels attached by the string extractor
// to entries that are not meant for translation.
var DefaultExcludedSubstrings = []string{"only_symbol", "compare_str", "ogk_label"}

// Kind identifies which matching rule a Mode applies.
type Kind int

const (
	// KindEmptyLabels keeps rows whose labels field is blank.
	KindEmptyLabels Kind = iota
	// KindTargetLabels keeps rows carrying at least one target label.
	KindTargetLabels
	// KindExcludeSubstrings excludes rows whose labels field contains any
	// of a list of substrings.
	KindExcludeSubstrings
)

// String returns the name used for the kind in reports and config files.
func (k Kind) String() string {
	switch k {
	case KindEmptyLabels:
		return "empty-labels"
	case KindTargetLabels:
		return "target-labels"
	case KindExcludeSubstrings:
		return "exclude-substrings"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// ParseKind converts a kind name back into a Kind.
func ParseKind(s string) (Kind, error) {
	switch strings.TrimSpace(s) {
	case "", "empty-labels":
		return KindEmptyLabels, nil
	case "target-labels":
		return KindTargetLabels, nil
	case "exclude-substrings":
		return KindExcludeSubstrings, nil
	default:
		return 0, fmt.Errorf("unknown mode %q: must be one of empty-labels, target-labels, exclude-substrings", s)
	}
}

// Mode is the matching rule for one run. The zero value is EmptyLabels.
// Build a Mode with EmptyLabels, TargetLabels or ExcludeSubstrings.
type Mode struct {
	kind       Kind
	targets    []string
	substrings []string
	sep        string
}

// EmptyLabels returns the default mode: a row is kept iff its trimmed labels
// field is empty.
func EmptyLabels() Mode {
	return Mode{kind: KindEmptyLabels}
}

// TargetLabels returns a mode keeping rows whose label tokens intersect the
// given targets. Each target is trimmed; an empty target matches rows
// without any labels.
func TargetLabels(targets ...string) Mode {
	trimmed := make([]string, 0, len(targets))
	for _, t := range targets {
		trimmed = append(trimmed, strings.TrimSpace(t))
	}

	return Mode{kind: KindTargetLabels, targets: trimmed}
}

// ExcludeSubstrings returns a mode excluding rows whose raw labels field
// contains any of subs. With no arguments DefaultExcludedSubstrings is used.
func ExcludeSubstrings(subs ...string) Mode {
	if len(subs) == 0 {
		subs = DefaultExcludedSubstrings
	}

	return Mode{kind: KindExcludeSubstrings, substrings: append([]string(nil), subs...)}
}

// WithSeparator returns a copy of m that splits label fields on sep.
func (m Mode) WithSeparator(sep string) Mode {
	m.sep = sep
	return m
}

// Kind reports which rule m applies.
func (m Mode) Kind() Kind { return m.kind }

// Targets returns the trimmed target labels of a TargetLabels mode.
func (m Mode) Targets() []string { return append([]string(nil), m.targets...) }

// Substrings returns the substrings of an ExcludeSubstrings mode.
func (m Mode) Substrings() []string { return append([]string(nil), m.substrings...) }

// Separator returns the token separator, DefaultSeparator when unset.
func (m Mode) Separator() string {
	if m.sep == "" {
		return DefaultSeparator
	}

	return m.sep
}

// QuoteAll reports whether partitions produced under m quote every field.
// The token-matching modes do; ExcludeSubstrings quotes only when needed.
func (m Mode) QuoteAll() bool {
	return m.kind != KindExcludeSubstrings
}

// WriteBOM reports whether partitions produced under m start with a UTF-8
// byte order mark.
func (m Mode) WriteBOM() bool {
	return m.kind != KindExcludeSubstrings
}

// Keep decides whether a row with the given raw labels field belongs to the
// kept partition.
func (m Mode) Keep(field string) bool {
	switch m.kind {
	case KindTargetLabels:
		return m.keepTargets(field)
	case KindExcludeSubstrings:
		for _, s := range m.substrings {
			if strings.Contains(field, s) {
				return false
			}
		}

		return true
	default:
		return strings.TrimSpace(field) == ""
	}
}

func (m Mode) keepTargets(field string) bool {
	trimmed := strings.TrimSpace(field)

	tokens := make(map[string]struct{})
	for _, tok := range ParseTokens(trimmed, m.Separator()) {
		tokens[tok] = struct{}{}
	}

	for _, t := range m.targets {
		if t == "" {
			if trimmed == "" {
				return true
			}

			continue
		}

		if _, ok := tokens[t]; ok {
			return true
		}
	}

	return false
}

// String describes m for operator-facing reports.
func (m Mode) String() string {
	switch m.kind {
	case KindTargetLabels:
		return fmt.Sprintf("%s %q", m.kind, m.targets)
	case KindExcludeSubstrings:
		return fmt.Sprintf("%s %q", m.kind, m.substrings)
	default:
		return m.kind.String()
	}
}

// ParseTokens splits a labels field on sep, trims every token and drops the
// empty ones.
func ParseTokens(field, sep string) []string {
	if sep == "" {
		sep = DefaultSeparator
	}

	parts := strings.Split(field, sep)
	out := make([]string, 0, len(parts))

	for _, p := range parts {
		if tok := strings.TrimSpace(p); tok != "" {
			out = append(out, tok)
		}
	}

	return out
}

// SplitTargets splits a single joined target-label argument. A blank
// argument yields the lone empty target, which selects unlabeled rows;
// otherwise empty tokens are dropped as in ParseTokens.
func SplitTargets(joined, sep string) []string {
	if strings.TrimSpace(joined) == "" {
		return []string{""}
	}

	return ParseTokens(joined, sep)
}
