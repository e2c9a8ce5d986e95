package model

// Severity represents the risk level of a hygiene finding. The levels
// are ordered, so findings sort and compare directly.
type Severity int

const (
	// SeverityInfo indicates findings with no direct security impact.
	// Examples: incomplete entries, unparseable URLs.
	SeverityInfo Severity = iota

	// SeverityLow indicates minor issues with limited impact.
	// Example: a breach lookup that could not be completed.
	SeverityLow

	// SeverityMedium indicates moderate issues that warrant attention.
	// Example: duplicate entries for the same account.
	SeverityMedium

	// SeverityHigh indicates serious issues that should be fixed soon.
	// Example: a password weak enough to brute-force.
	SeverityHigh

	// SeverityCritical indicates issues requiring immediate action.
	// Example: a password published in a public breach corpus.
	SeverityCritical
)

var severityNames = [...]string{"INFO", "LOW", "MEDIUM", "HIGH", "CRITICAL"}

// String returns a human-readable representation of the severity level.
func (s Severity) String() string {
	if s < 0 || int(s) >= len(severityNames) {
		return "UNKNOWN"
	}
	return severityNames[s]
}

// FindingInfo contains metadata about a finding type including severity,
// impact description, and remediation recommendation.
type FindingInfo struct {
	Severity       Severity
	Impact         string
	Recommendation string
}

// findingInfoMapping maps finding types to their metadata.
// This centralized mapping ensures consistent risk assessment across the
// application: the same finding type always carries the same severity and
// remediation text regardless of which report writer renders it.
var findingInfoMapping = map[string]FindingInfo{
	// CRITICAL
	"breached_password": {
		Severity:       SeverityCritical,
		Impact:         "The password appears in a public breach corpus and is actively used in credential-stuffing attacks.",
		Recommendation: "Change this password immediately and enable two-factor authentication on the account.",
	},

	// HIGH
	"weak_password": {
		Severity:       SeverityHigh,
		Impact:         "The password's estimated strength is low enough for offline brute-force or dictionary attacks.",
		Recommendation: "Replace it with a generated password or a long passphrase.",
	},

	// MEDIUM
	"duplicate_entry": {
		Severity:       SeverityMedium,
		Impact:         "Multiple vault entries describe the same account. Stale duplicates hide which credential is current and inflate the attack surface of an export.",
		Recommendation: "Run cleanup to keep the most complete entry and remove the rest.",
	},

	// LOW
	"breach_check_failed": {
		Severity:       SeverityLow,
		Impact:         "The breach lookup for this password could not be completed, so its exposure status is unknown rather than clean.",
		Recommendation: "Re-run the audit with network access to resolve the unknown status.",
	},

	// INFO
	"incomplete_entry": {
		Severity:       SeverityInfo,
		Impact:         "The entry has neither a username nor a password and cannot be used to sign in to anything.",
		Recommendation: "Delete it, or fill in the missing credentials if the entry is still wanted.",
	},
	"unparseable_url": {
		Severity:       SeverityInfo,
		Impact:         "The entry's URL did not yield a usable service identity, so it was excluded from duplicate detection.",
		Recommendation: "Fix the URL field so the entry can participate in duplicate grouping.",
	},
}

// GetSeverity returns the severity level for a finding type.
// Returns SeverityInfo if the finding type is not in the mapping.
func GetSeverity(findingType string) Severity {
	if info, ok := findingInfoMapping[findingType]; ok {
		return info.Severity
	}
	return SeverityInfo
}

// GetFindingInfo returns the full finding information for a finding type.
// Returns a default FindingInfo with SeverityInfo if the type is unknown.
func GetFindingInfo(findingType string) FindingInfo {
	if info, ok := findingInfoMapping[findingType]; ok {
		return info
	}
	return FindingInfo{
		Severity:       SeverityInfo,
		Impact:         "Unknown finding type. Review manually.",
		Recommendation: "Investigate the finding and assess risk.",
	}
}
