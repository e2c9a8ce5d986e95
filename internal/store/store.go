package store

import (
	"context"
	"errors"

	"github.com/j-555/fetch-audit/internal/model"
)

// Store errors.
var (
	// ErrEntryNotFound is returned when a delete targets an unknown id.
	ErrEntryNotFound = errors.New("entry not found in store")
)

// Store is the external credential store boundary the engine consumes.
// List returns the current decrypted snapshot; Delete removes one entry by
// its opaque id. Implementations decide what deletion means for their
// format (the CSV store marks rows so a cleaned export can be written).
type Store interface {
	// List returns all live credential entries in input order.
	List(ctx context.Context) ([]model.CredentialEntry, error)

	// Delete removes the entry with the given id.
	// Returns ErrEntryNotFound for unknown ids.
	Delete(ctx context.Context, id string) error
}
