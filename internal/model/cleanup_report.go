package model

import "time"

// Cleanup outcome actions.
const (
	// ActionKept means the entry survived the cleanup run.
	ActionKept = "kept"
	// ActionDeleted means the entry was removed via the store.
	ActionDeleted = "deleted"
	// ActionFailed means deletion was attempted but the store returned
	// an error. The entry still exists.
	ActionFailed = "failed"
)

// ItemOutcome records what happened to one entry during a cleanup run and
// why. The reason strings are part of the audit trail shown to users.
type ItemOutcome struct {
	// ID is the external store identifier of the entry.
	ID string `json:"id"`

	// Name is the entry's display name.
	Name string `json:"name"`

	// URL is the entry's stored URL, if any.
	URL string `json:"url,omitempty"`

	// Action is one of ActionKept, ActionDeleted, ActionFailed.
	Action string `json:"action"`

	// Reason explains the decision, e.g. "duplicate of Amazon" or
	// "missing both username and password".
	Reason string `json:"reason"`

	// Error holds the store's error text when Action is ActionFailed.
	Error string `json:"error,omitempty"`
}

// ClusterSummary is a compact view of one duplicate cluster for the
// cleanup report, without passwords.
type ClusterSummary struct {
	// ServiceIdentity is the normalized base domain of the cluster.
	ServiceIdentity string `json:"service_identity"`

	// MemberNames lists display names of all members, canonical first.
	MemberNames []string `json:"member_names"`
}

// CleanupReport is the audit trail of one cleanup run. It is built
// incrementally during execution and finalized once all deletions complete
// or the run aborts.
type CleanupReport struct {
	// Source identifies the cleaned input.
	Source string `json:"source"`

	// StartedAt is when the cleanup started.
	StartedAt time.Time `json:"started_at"`

	// DryRun indicates the run only reported decisions without deleting.
	DryRun bool `json:"dry_run"`

	// ProcessedURLs lists the stored URLs the run examined, in input order.
	ProcessedURLs []string `json:"processed_urls,omitempty"`

	// Clusters summarizes each duplicate cluster found.
	Clusters []ClusterSummary `json:"clusters,omitempty"`

	// DeletedItems are entries removed (or, in a dry run, marked for
	// removal) with their reasons.
	DeletedItems []ItemOutcome `json:"deleted_items,omitempty"`

	// KeptItems are entries that survived, with their reasons.
	KeptItems []ItemOutcome `json:"kept_items,omitempty"`

	// FailedItems are entries whose deletion was attempted and failed.
	// The run continues past failures; this list reflects what actually
	// went wrong.
	FailedItems []ItemOutcome `json:"failed_items,omitempty"`

	// Error contains any error that cut the run short.
	Error error `json:"-"` // Excluded from JSON

	// ErrorMessage is the string representation of Error for serialization.
	ErrorMessage string `json:"error,omitempty"`
}

// NewCleanupReport creates an empty report for the given source.
func NewCleanupReport(source string, dryRun bool) *CleanupReport {
	return &CleanupReport{
		Source:    source,
		StartedAt: time.Now(),
		DryRun:    dryRun,
	}
}

// TotalProcessed returns how many entries received an outcome.
func (r *CleanupReport) TotalProcessed() int {
	return len(r.DeletedItems) + len(r.KeptItems) + len(r.FailedItems)
}
