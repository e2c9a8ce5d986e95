package model

// DuplicateCluster groups credential entries that look like the same
// account on the same service. Members are ordered by completeness score
// descending with ties broken by original input order, so Members[0] is
// always the canonical entry to keep.
//
// Invariant: len(Members) >= 1. Clusters of size 1 are singletons and are
// not reported as duplicates, but the cleanup executor still records their
// members as kept.
type DuplicateCluster struct {
	// ServiceIdentity is the normalized base domain shared by all members.
	ServiceIdentity string `json:"service_identity"`

	// LoginIdentity is the derived account key shared by all members:
	// the case-folded username if present, else the password value.
	// Never serialized; it may be a password.
	LoginIdentity string `json:"-"`

	// Members are the clustered entries, canonical first.
	Members []CredentialEntry `json:"members"`
}

// Canonical returns the entry to keep. Callers must only invoke this on a
// cluster that respects the non-empty invariant.
func (c DuplicateCluster) Canonical() CredentialEntry {
	return c.Members[0]
}

// Redundant returns the members that lose to the canonical entry.
// Empty for singletons.
func (c DuplicateCluster) Redundant() []CredentialEntry {
	if len(c.Members) <= 1 {
		return nil
	}
	return c.Members[1:]
}

// Size returns the number of members.
func (c DuplicateCluster) Size() int {
	return len(c.Members)
}

// IsSingleton reports whether the cluster has exactly one member.
func (c DuplicateCluster) IsSingleton() bool {
	return len(c.Members) == 1
}
