// Package audit orchestrates the hygiene checks over a credential
// snapshot.
//
// The Auditor produces a HealthReport (weak, duplicate, breached,
// incomplete, unparseable findings); the Executor applies the duplicate
// resolution by deleting non-canonical entries through an injected delete
// function and emits a CleanupReport audit trail. Both run a single
// logical flow of control per invocation and hold no cross-run state: a
// fresh breach cache is created inside each run and discarded with it.
// The BatchRunner fans audits of multiple inputs out over a bounded
// number of goroutines; the per-run ownership of the cache makes that
// safe without locking.
package audit
