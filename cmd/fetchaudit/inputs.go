package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/j-555/fetch-audit/internal/model"
	"github.com/j-555/fetch-audit/internal/store"
)

// openInput opens an export file as a credential store. The format is
// chosen by extension: .json loads a decrypted vault export, anything
// else is parsed as CSV.
func openInput(path string) (store.Store, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open input %s: %w", path, err)
	}
	defer f.Close()

	if strings.EqualFold(filepath.Ext(path), ".json") {
		s, err := store.NewVaultJSONStore(f, path)
		if err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", path, err)
		}
		return s, nil
	}

	s, err := store.NewCSVStore(f, path)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return s, nil
}

// openCSVInput opens an export file strictly as a CSV store. Cleanup
// output rewriting is only defined for CSV inputs.
func openCSVInput(path string) (*store.CSVStore, error) {
	if strings.EqualFold(filepath.Ext(path), ".json") {
		return nil, fmt.Errorf("%s is a vault export; cleaned output writing requires a CSV input", path)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open input %s: %w", path, err)
	}
	defer f.Close()

	s, err := store.NewCSVStore(f, path)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return s, nil
}

// filterExcludedTags drops entries carrying any of the excluded tags.
// A nil or empty tag list returns the entries unchanged.
func filterExcludedTags(entries []model.CredentialEntry, excludeTags []string) []model.CredentialEntry {
	if len(excludeTags) == 0 {
		return entries
	}

	kept := make([]model.CredentialEntry, 0, len(entries))
	for _, entry := range entries {
		excluded := false
		for _, tag := range excludeTags {
			if entry.HasTag(tag) {
				excluded = true
				break
			}
		}
		if !excluded {
			kept = append(kept, entry)
		}
	}
	return kept
}
