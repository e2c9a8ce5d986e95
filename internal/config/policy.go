package config

// Policy holds audit policy for a single vault export file.
// This allows tuning thresholds and grouping behavior per source: a browser
// export full of legacy accounts may warrant looser thresholds than the
// main vault.
type Policy struct {
	// WeakEntropyBits overrides the global weak threshold for this source.
	// If zero, the global value is used.
	WeakEntropyBits int `yaml:"weakEntropyBits,omitempty"`

	// StrongEntropyBits overrides the global duplicate-exemption threshold
	// for this source. If zero, the global value is used.
	StrongEntropyBits int `yaml:"strongEntropyBits,omitempty"`

	// SubdomainPrefixes are additional host labels stripped during service
	// normalization, on top of the built-in list (www, login, accounts, ...).
	SubdomainPrefixes []string `yaml:"subdomainPrefixes,omitempty"`

	// ExtraSuffixes are additional multi-part public suffixes recognized
	// during service normalization, e.g. internal corporate zones.
	ExtraSuffixes []string `yaml:"extraSuffixes,omitempty"`

	// ExcludeTags lists vault tags whose entries are skipped entirely.
	// Useful for archived or intentionally-shared credentials.
	ExcludeTags []string `yaml:"excludeTags,omitempty"`
}

// File represents the structure of the .fetchaudit policy file.
type File struct {
	// Sources maps vault export paths to their source-specific policies.
	// Keys are matched against the input path as given on the command line.
	Sources map[string]Policy `yaml:"sources,omitempty"`

	// Defaults contains the default policy applied to all sources unless
	// overridden in the source-specific policy.
	Defaults Policy `yaml:"defaults,omitempty"`
}

// GetSourcePolicy returns the policy for a specific vault export path.
// It merges the source-specific policy with defaults.
func (cf *File) GetSourcePolicy(source string) Policy {
	// Start with defaults
	result := cf.Defaults

	// Override with source-specific policy if present
	if p, ok := cf.Sources[source]; ok {
		if p.WeakEntropyBits != 0 {
			result.WeakEntropyBits = p.WeakEntropyBits
		}
		if p.StrongEntropyBits != 0 {
			result.StrongEntropyBits = p.StrongEntropyBits
		}
		if len(p.SubdomainPrefixes) > 0 {
			result.SubdomainPrefixes = p.SubdomainPrefixes
		}
		if len(p.ExtraSuffixes) > 0 {
			result.ExtraSuffixes = p.ExtraSuffixes
		}
		if len(p.ExcludeTags) > 0 {
			result.ExcludeTags = p.ExcludeTags
		}
	}

	return result
}
