// Package database provides SQLite-backed storage for audit history.
//
// Each audit run is stored as a row carrying its severity counts plus the
// full summary as JSON, so past runs can be listed cheaply and compared
// against the current one without re-auditing. Passwords never reach the
// database: the summary type excludes secret material from serialization.
package database
