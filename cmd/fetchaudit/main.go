// Package main provides the entry point for the fetchaudit CLI.
//
// fetchaudit is a credential hygiene auditor for password vault exports.
// It finds weak passwords, breached passwords, and duplicate entries, and
// can clean redundant duplicates out of an export.
//
// Usage:
//
//	fetchaudit audit <export-file>...
//	fetchaudit cleanup <export-file>
//
// See --help for all available options.
package main

// main is the entry point for fetchaudit.
func main() {
	Execute()
}
