package model

import (
	"errors"
	"time"
)

// CredentialEntry errors.
var (
	// ErrEmptyEntryID is returned when an entry has no identifier.
	ErrEmptyEntryID = errors.New("credential entry id cannot be empty")
	// ErrEmptyEntryName is returned when an entry has no display name.
	ErrEmptyEntryName = errors.New("credential entry name cannot be empty")
)

// CredentialEntry is one decrypted credential from the external store.
// It is an immutable snapshot: constructed fresh each run, never mutated,
// discarded when the run ends. The opaque ID belongs to the external store;
// the engine only passes it back through deleteFn during cleanup.
type CredentialEntry struct {
	// ID is the external store's opaque identifier for this item.
	ID string `json:"id"`

	// Name is the display name ("Amazon", "Work Email").
	Name string `json:"name"`

	// Username is the login name. Optional.
	Username string `json:"username,omitempty"`

	// Password is the plaintext password. Optional.
	// Never logged and never serialized into reports.
	Password string `json:"-"`

	// URL is the service URL as stored, in whatever shape the user or a
	// browser import left it. Optional.
	URL string `json:"url,omitempty"`

	// Tags are the vault tags on this item. Optional.
	Tags []string `json:"tags,omitempty"`

	// CreatedAt is when the vault item was created. Zero if unknown.
	CreatedAt time.Time `json:"created_at,omitempty"`

	// UpdatedAt is when the vault item was last modified. Zero if unknown.
	UpdatedAt time.Time `json:"updated_at,omitempty"`

	// EntropyBits is the estimated password strength, computed during the
	// audit. It is derived data, never read from the store.
	EntropyBits int `json:"entropy_bits,omitempty"`
}

// NewCredentialEntry creates a CredentialEntry and validates its invariants:
// ID and Name must be non-empty. Username, Password, and URL may all be
// empty; incomplete entries are a finding, not an input error.
func NewCredentialEntry(id, name, username, password, url string) (CredentialEntry, error) {
	if id == "" {
		return CredentialEntry{}, ErrEmptyEntryID
	}
	if name == "" {
		return CredentialEntry{}, ErrEmptyEntryName
	}
	return CredentialEntry{
		ID:       id,
		Name:     name,
		Username: username,
		Password: password,
		URL:      url,
	}, nil
}

// MustNewCredentialEntry creates a CredentialEntry or panics if invalid.
// Use only for known-valid entries in tests.
func MustNewCredentialEntry(id, name, username, password, url string) CredentialEntry {
	e, err := NewCredentialEntry(id, name, username, password, url)
	if err != nil {
		panic(err)
	}
	return e
}

// HasUsername reports whether the entry has a username.
func (e CredentialEntry) HasUsername() bool {
	return e.Username != ""
}

// HasPassword reports whether the entry has a password.
func (e CredentialEntry) HasPassword() bool {
	return e.Password != ""
}

// IsIncomplete reports whether the entry has neither username nor password.
// Incomplete entries are unconditional deletion candidates during cleanup.
func (e CredentialEntry) IsIncomplete() bool {
	return !e.HasUsername() && !e.HasPassword()
}

// CompletenessScore counts how many of username and password are present
// (0-2). Used to rank duplicate cluster members when picking the canonical
// entry to keep.
func (e CredentialEntry) CompletenessScore() int {
	score := 0
	if e.HasUsername() {
		score++
	}
	if e.HasPassword() {
		score++
	}
	return score
}

// HasTag reports whether the entry carries the given vault tag.
func (e CredentialEntry) HasTag(tag string) bool {
	for _, t := range e.Tags {
		if t == tag {
			return true
		}
	}
	return false
}
