package model

import (
	"fmt"
	"time"
)

// Summary is a flattened, render-ready view of a HealthReport. It turns
// the report's category lists into a single ordered list of findings with
// severities and counts.
//
// Design decision: a separate summary type rather than methods on
// HealthReport because it separates presentation from data collection.
// The report carries raw results for serialization and history storage;
// the summary is what report writers and the history delta view consume.
type Summary struct {
	// Source identifies the audited input.
	Source string `json:"source"`

	// AuditedAt is when the audit was performed.
	AuditedAt time.Time `json:"audited_at"`

	// TotalAudited is the number of entries the run examined.
	TotalAudited int `json:"total_audited"`

	// === Severity counts ===

	// CriticalCount is the number of critical findings.
	CriticalCount int `json:"critical_count"`

	// HighCount is the number of high severity findings.
	HighCount int `json:"high_count"`

	// MediumCount is the number of medium severity findings.
	MediumCount int `json:"medium_count"`

	// LowCount is the number of low severity findings.
	LowCount int `json:"low_count"`

	// InfoCount is the number of informational findings.
	InfoCount int `json:"info_count"`

	// Findings contains all categorized findings, highest severity first.
	Findings []Finding `json:"findings,omitempty"`

	// Error contains any error message if the audit was cut short.
	Error string `json:"error,omitempty"`
}

// Finding represents a single finding in the summary.
type Finding struct {
	// Type is the finding type identifier.
	// This maps to the findingInfoMapping in severity.go.
	Type string `json:"type"`

	// Severity is the risk level.
	Severity Severity `json:"severity"`

	// SeverityText is the human-readable severity.
	SeverityText string `json:"severity_text"`

	// Title is a short description of the finding.
	Title string `json:"title"`

	// Description provides more detail about the finding.
	Description string `json:"description,omitempty"`

	// Impact explains why this finding matters.
	Impact string `json:"impact,omitempty"`

	// Recommendation provides guidance on how to address the finding.
	Recommendation string `json:"recommendation,omitempty"`

	// EntryName is the display name of the affected entry, or the
	// canonical member for duplicate clusters.
	EntryName string `json:"entry_name,omitempty"`

	// Service is the normalized service identity, if known.
	Service string `json:"service,omitempty"`
}

// NewSummary builds a Summary from a HealthReport.
// Findings are appended in severity order: breached, weak, duplicates,
// failed checks, then informational, so renderers can print the list as-is.
func NewSummary(report *HealthReport) *Summary {
	s := &Summary{
		Source:       report.Source,
		AuditedAt:    report.AuditedAt,
		TotalAudited: report.TotalAudited,
	}
	if report.Error != nil {
		s.Error = report.Error.Error()
	}

	for _, b := range report.BreachedEntries {
		s.addFinding("breached_password", "Password Found in Breach Corpus",
			fmt.Sprintf("seen %d times in known breaches", b.BreachCount),
			b.Entry.Name, "")
	}
	for _, w := range report.WeakEntries {
		s.addFinding("weak_password", "Weak Password",
			fmt.Sprintf("estimated strength %d bits", w.EntropyBits),
			w.Entry.Name, "")
	}
	for _, c := range report.DuplicateClusters {
		s.addFinding("duplicate_entry", "Duplicate Entries",
			fmt.Sprintf("%d entries for the same account", c.Size()),
			c.Canonical().Name, c.ServiceIdentity)
	}
	if report.BreachChecksFailed > 0 {
		s.addFinding("breach_check_failed", "Breach Checks Incomplete",
			fmt.Sprintf("%d passwords could not be checked", report.BreachChecksFailed),
			"", "")
	}
	for _, e := range report.IncompleteEntries {
		s.addFinding("incomplete_entry", "Incomplete Entry",
			"entry has neither username nor password", e.Name, "")
	}
	for _, e := range report.UnparseableEntries {
		s.addFinding("unparseable_url", "Unparseable URL",
			fmt.Sprintf("stored URL %q yields no service identity", e.URL),
			e.Name, "")
	}

	return s
}

// addFinding appends a finding and updates the severity counters.
func (s *Summary) addFinding(findingType, title, description, entryName, service string) {
	info := GetFindingInfo(findingType)
	s.Findings = append(s.Findings, Finding{
		Type:           findingType,
		Severity:       info.Severity,
		SeverityText:   info.Severity.String(),
		Title:          title,
		Description:    description,
		Impact:         info.Impact,
		Recommendation: info.Recommendation,
		EntryName:      entryName,
		Service:        service,
	})

	switch info.Severity {
	case SeverityCritical:
		s.CriticalCount++
	case SeverityHigh:
		s.HighCount++
	case SeverityMedium:
		s.MediumCount++
	case SeverityLow:
		s.LowCount++
	case SeverityInfo:
		s.InfoCount++
	}
}

// TotalFindings returns the total number of findings.
func (s *Summary) TotalFindings() int {
	return len(s.Findings)
}

// HasFindings returns true if there are any findings.
func (s *Summary) HasFindings() bool {
	return len(s.Findings) > 0
}

// GetFindingsBySeverity returns findings filtered by severity.
func (s *Summary) GetFindingsBySeverity(severity Severity) []Finding {
	var result []Finding
	for _, f := range s.Findings {
		if f.Severity == severity {
			result = append(result, f)
		}
	}
	return result
}
