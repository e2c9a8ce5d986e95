// Package store is the boundary to external credential stores.
//
// The engine never reads a vault directly: it consumes decrypted export
// snapshots (password-manager or browser CSV exports, or the vault's own
// decrypted JSON export) through the Store interface and deletes entries
// back through it. Stores hand out plaintext tuples that already left the
// encryption layer; nothing in this package touches ciphertext or keys.
package store
