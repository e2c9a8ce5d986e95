// Package hibp checks passwords against a public breach corpus using the
// k-anonymity range protocol.
//
// Only the first five characters of a password's SHA-1 hash ever leave the
// process: the range endpoint returns every known hash suffix under that
// prefix and the match happens locally. A lookup can therefore fail without
// leaking anything, and failures are deliberately soft - the client reports
// CountUnknown rather than an error, because breach status is advisory and
// must never stall or abort an audit.
package hibp
