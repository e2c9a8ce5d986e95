package model

import "time"

// WeakEntry is a credential whose estimated entropy fell below the weak
// threshold.
type WeakEntry struct {
	// Entry is the flagged credential.
	Entry CredentialEntry `json:"entry"`

	// EntropyBits is the estimate that triggered the finding.
	EntropyBits int `json:"entropy_bits"`
}

// BreachedEntry is a credential whose password appeared in the public
// breach corpus.
type BreachedEntry struct {
	// Entry is the flagged credential.
	Entry CredentialEntry `json:"entry"`

	// BreachCount is how many times the password appears in the corpus.
	// Always positive: failed lookups (-1) and clean passwords (0) never
	// produce a BreachedEntry.
	BreachCount int `json:"breach_count"`
}

// HealthReport is the result of one audit run over a credential snapshot.
// It is produced fresh per invocation and never mutated after construction.
//
// Design decision: a single struct holding all finding categories rather
// than separate result types per check. The report is serialized as one
// unit into the history database and rendered as one unit by the report
// writers, so keeping it together simplifies both.
type HealthReport struct {
	// Source identifies the audited input, typically the vault export path.
	Source string `json:"source"`

	// AuditedAt is when the audit started.
	AuditedAt time.Time `json:"audited_at"`

	// TotalAudited is the number of entries with a password that the run
	// examined.
	TotalAudited int `json:"total_audited"`

	// WeakEntries are credentials below the weak entropy threshold.
	WeakEntries []WeakEntry `json:"weak_entries,omitempty"`

	// DuplicateClusters are same-service same-login groups of size > 1.
	DuplicateClusters []DuplicateCluster `json:"duplicate_clusters,omitempty"`

	// BreachedEntries are credentials found in the breach corpus.
	BreachedEntries []BreachedEntry `json:"breached_entries,omitempty"`

	// IncompleteEntries have neither username nor password.
	IncompleteEntries []CredentialEntry `json:"incomplete_entries,omitempty"`

	// UnparseableEntries have credentials but a URL that normalizes to an
	// empty service identity. Excluded from grouping, recorded for audit
	// transparency.
	UnparseableEntries []CredentialEntry `json:"unparseable_entries,omitempty"`

	// BreachChecksFailed counts distinct passwords whose breach lookup
	// returned unknown. Unknown is never reported as clean, so the count
	// is surfaced to the caller.
	BreachChecksFailed int `json:"breach_checks_failed,omitempty"`

	// Error contains any error that occurred during the run.
	// Only set if the audit was cut short (context cancellation).
	Error error `json:"-"` // Excluded from JSON

	// ErrorMessage is the string representation of Error for serialization.
	ErrorMessage string `json:"error,omitempty"`
}

// NewHealthReport creates an empty report for the given source.
func NewHealthReport(source string) *HealthReport {
	return &HealthReport{
		Source:    source,
		AuditedAt: time.Now(),
	}
}

// HasFindings reports whether the audit flagged anything at all.
func (r *HealthReport) HasFindings() bool {
	return len(r.WeakEntries) > 0 ||
		len(r.DuplicateClusters) > 0 ||
		len(r.BreachedEntries) > 0 ||
		len(r.IncompleteEntries) > 0 ||
		len(r.UnparseableEntries) > 0
}

// RedundantCount returns the total number of deletable duplicate members
// across all clusters.
func (r *HealthReport) RedundantCount() int {
	count := 0
	for _, c := range r.DuplicateClusters {
		count += len(c.Redundant())
	}
	return count
}
