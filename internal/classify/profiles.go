package classify

import (
	"fmt"
	"os"
	"sort"

	"sigs.k8s.io/yaml"
)

// Profile is a named, reusable mode preset that can be applied via --profile.
type Profile struct {
	// Mode is the kind name: empty-labels, target-labels or exclude-substrings.
	Mode string `json:"mode,omitempty"`
	// Labels are the targets of a target-labels profile.
	Labels []string `json:"labels,omitempty"`
	// Substrings override the excluded substrings of an exclude-substrings
	// profile.
	Substrings []string `json:"substrings,omitempty"`
	// Extends names a built-in profile whose settings this one builds on.
	Extends string `json:"extends,omitempty"`
}

var builtinProfiles = map[string]Profile{
	"unlabeled": {
		Mode: KindEmptyLabels.String(),
	},
	"extractor-noise": {
		Mode:       KindExcludeSubstrings.String(),
		Substrings: DefaultExcludedSubstrings,
	},
}

// BuiltinProfileNames returns the sorted names of the built-in profiles.
func BuiltinProfileNames() []string {
	names := make([]string, 0, len(builtinProfiles))
	for name := range builtinProfiles {
		names = append(names, name)
	}

	sort.Strings(names)

	return names
}

// ResolveProfile looks name up among the built-in profiles first, then in
// custom. A custom profile that extends a built-in inherits its mode and has
// its label and substring lists appended.
func ResolveProfile(name string, custom map[string]Profile) (Profile, error) {
	if p, ok := builtinProfiles[name]; ok {
		return p, nil
	}

	p, ok := custom[name]
	if !ok {
		return Profile{}, fmt.Errorf("unknown profile %q", name)
	}

	if p.Extends == "" {
		return p, nil
	}

	base, ok := builtinProfiles[p.Extends]
	if !ok {
		return Profile{}, fmt.Errorf("profile %q extends unknown profile %q", name, p.Extends)
	}

	return mergeProfiles(base, p), nil
}

func mergeProfiles(base, ext Profile) Profile {
	merged := Profile{
		Mode:       base.Mode,
		Labels:     append(append([]string{}, base.Labels...), ext.Labels...),
		Substrings: append(append([]string{}, base.Substrings...), ext.Substrings...),
	}

	if ext.Mode != "" {
		merged.Mode = ext.Mode
	}

	return merged
}

// BuildMode converts p into the Mode it describes.
func (p Profile) BuildMode() (Mode, error) {
	kind, err := ParseKind(p.Mode)
	if err != nil {
		return Mode{}, err
	}

	switch kind {
	case KindTargetLabels:
		if len(p.Labels) == 0 {
			return Mode{}, fmt.Errorf("mode %s requires at least one label", kind)
		}

		return TargetLabels(p.Labels...), nil
	case KindExcludeSubstrings:
		return ExcludeSubstrings(p.Substrings...), nil
	default:
		return EmptyLabels(), nil
	}
}

// LoadProfiles reads custom profile definitions from a YAML file with a
// top-level "profiles" key.
func LoadProfiles(path string) (map[string]Profile, error) {
	data, err := os.ReadFile(path) //nolint:gosec // path is the user-provided config file
	if err != nil {
		return nil, fmt.Errorf("reading profiles file: %w", err)
	}

	return ParseProfiles(data)
}

// ParseProfiles parses profile definitions from YAML bytes and checks that
// each one resolves to a valid mode.
func ParseProfiles(data []byte) (map[string]Profile, error) {
	var raw struct {
		Profiles map[string]Profile `json:"profiles"`
	}

	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parsing profiles: %w", err)
	}

	for name := range raw.Profiles {
		if _, ok := builtinProfiles[name]; ok {
			return nil, fmt.Errorf("profile %q shadows a built-in profile", name)
		}

		p, err := ResolveProfile(name, raw.Profiles)
		if err != nil {
			return nil, err
		}

		if _, err := p.BuildMode(); err != nil {
			return nil, fmt.Errorf("profile %q: %w", name, err)
		}
	}

	return raw.Profiles, nil
}
