// Package model defines the core data types for credential auditing.
//
// All types in this package are plain immutable values: a CredentialEntry
// is constructed fresh from the external store's decrypted snapshot for
// each run, reports are built once and returned to the caller, and nothing
// here maintains cross-run state. The engine never persists secrets; the
// Password field exists only for the lifetime of a single audit or cleanup
// invocation.
package model
