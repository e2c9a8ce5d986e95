// Package grouper clusters credential entries into duplicate groups.
//
// Two entries are duplicate candidates when they resolve to the same
// service identity (normalized base domain) and the same login identity.
// The login identity is deliberately fuzzy: the case-folded username when
// present, else the password value. It clusters by "this looks like the
// same account" rather than requiring both fields to match, because vault
// duplicates usually come from partial imports where one copy is missing a
// field.
package grouper

import (
	"sort"
	"strings"

	"golang.org/x/text/cases"

	"github.com/j-555/fetch-audit/internal/domains"
	"github.com/j-555/fetch-audit/internal/entropy"
	"github.com/j-555/fetch-audit/internal/model"
)

// Result is the outcome of one grouping pass. Every input entry lands in
// exactly one of the four lists.
type Result struct {
	// Clusters are duplicate groups of size > 1, members ranked by
	// completeness with the canonical entry first.
	Clusters []model.DuplicateCluster

	// Singletons are entries that clustered with nothing: unique accounts,
	// entries without a URL, and members of strong-password-exempt buckets.
	// Preserved in original input order.
	Singletons []model.CredentialEntry

	// Incomplete are entries with neither username nor password.
	// Unconditional deletion candidates during cleanup.
	Incomplete []model.CredentialEntry

	// Unparseable are entries whose URL normalizes to an empty service
	// identity. Excluded from grouping, reported for audit transparency.
	Unparseable []model.CredentialEntry
}

// Grouper performs duplicate clustering over a credential snapshot.
// Safe for concurrent use; all state is read-only after construction.
type Grouper struct {
	normalizer *domains.Normalizer

	// strongEntropyBits is the exemption threshold: a bucket whose shared
	// password estimates above it is treated as coincidental reuse of a
	// generated password, not a duplicate.
	strongEntropyBits int

	folder cases.Caser
}

// New creates a Grouper with the given normalizer and strong-password
// exemption threshold.
func New(normalizer *domains.Normalizer, strongEntropyBits int) *Grouper {
	return &Grouper{
		normalizer:        normalizer,
		strongEntropyBits: strongEntropyBits,
		folder:            cases.Fold(),
	}
}

// LoginIdentity derives the fuzzy account key for an entry: the
// case-folded username if present, else the password value, else empty.
func (g *Grouper) LoginIdentity(entry model.CredentialEntry) string {
	if entry.HasUsername() {
		return g.folder.String(entry.Username)
	}
	return entry.Password
}

// bucket keeps insertion order alongside the members so ties in the
// completeness ranking resolve to original input order.
type bucket struct {
	service string
	login   string
	members []model.CredentialEntry
}

// Group clusters entries by (service identity, login identity).
//
// Entries with neither username nor password are set aside as incomplete.
// Entries without a URL cannot establish a service identity and become
// singletons. A URL that normalizes to nothing makes the entry
// unparseable. The remaining entries are bucketed by the combined key;
// buckets of size > 1 become duplicate clusters unless their shared
// password is strong enough to be exempt.
func (g *Grouper) Group(entries []model.CredentialEntry) Result {
	var result Result

	buckets := make(map[string]*bucket)
	var order []string

	for _, entry := range entries {
		if entry.IsIncomplete() {
			result.Incomplete = append(result.Incomplete, entry)
			continue
		}

		if strings.TrimSpace(entry.URL) == "" {
			result.Singletons = append(result.Singletons, entry)
			continue
		}

		service := g.normalizer.BaseDomain(entry.URL)
		if service == "" {
			result.Unparseable = append(result.Unparseable, entry)
			continue
		}

		login := g.LoginIdentity(entry)
		key := service + "|" + login
		b, ok := buckets[key]
		if !ok {
			b = &bucket{service: service, login: login}
			buckets[key] = b
			order = append(order, key)
		}
		b.members = append(b.members, entry)
	}

	for _, key := range order {
		b := buckets[key]

		if len(b.members) == 1 {
			result.Singletons = append(result.Singletons, b.members[0])
			continue
		}

		if g.isStrongPasswordCoincidence(b.members) {
			result.Singletons = append(result.Singletons, b.members...)
			continue
		}

		members := make([]model.CredentialEntry, len(b.members))
		copy(members, b.members)
		// Completeness descending; SliceStable keeps input order on ties,
		// which decides the canonical entry among equally complete members.
		sort.SliceStable(members, func(i, j int) bool {
			return members[i].CompletenessScore() > members[j].CompletenessScore()
		})

		result.Clusters = append(result.Clusters, model.DuplicateCluster{
			ServiceIdentity: b.service,
			LoginIdentity:   b.login,
			Members:         members,
		})
	}

	return result
}

// isStrongPasswordCoincidence reports whether a bucket should be exempt
// from duplicate classification: all members share the same non-empty
// password and its estimated entropy exceeds the strong threshold. A
// collision between generated passwords is treated as coincidence rather
// than reuse.
func (g *Grouper) isStrongPasswordCoincidence(members []model.CredentialEntry) bool {
	shared := members[0].Password
	if shared == "" {
		return false
	}
	for _, m := range members[1:] {
		if m.Password != shared {
			return false
		}
	}
	return entropy.EstimateBits(shared) > g.strongEntropyBits
}
