package store

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/j-555/fetch-audit/internal/model"
)

// Column roles resolved from CSV headers. Exports disagree on header
// names, so each role accepts several candidates in precedence order:
// dedicated password-manager columns win over generic ones, which win
// over lowercase browser-export columns.
var (
	titleHeaders    = []string{"Account", "Title", "name", "hostname"}
	usernameHeaders = []string{"Login Name", "Username", "username"}
	passwordHeaders = []string{"Password", "password"}
	urlHeaders      = []string{"Web Site", "URL", "url"}
	notesHeaders    = []string{"Comments", "Notes"}
	tagsHeaders     = []string{"Tags"}
)

// CSVStore reads a password-manager or browser CSV export.
//
// The header mapping is flexible on purpose: "Account"/"Login Name"/"Web
// Site" exports, "Title"/"Username"/"URL"/"Notes"/"Tags" exports, and
// lowercase browser exports (url/username/password/name/hostname) all
// resolve to the same entry fields. An entry with no resolvable title
// falls back to a name derived from its URL; rows with neither are
// skipped. Delete marks rows, and WriteCleaned emits the survivors so a
// cleanup run can produce a cleaned export file.
type CSVStore struct {
	source string

	header  []string
	records [][]string

	// entries holds the parsed rows in input order. The id encodes the
	// record index so Delete and WriteCleaned agree on which row is which.
	entries []model.CredentialEntry

	// rowByID maps entry id to its index in records.
	rowByID map[string]int

	deleted map[string]bool
}

// NewCSVStore parses a CSV export from r. The source string labels the
// snapshot in reports, typically the file path.
func NewCSVStore(r io.Reader, source string) (*CSVStore, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1 // exports pad rows inconsistently

	all, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to parse csv export: %w", err)
	}
	if len(all) == 0 {
		return nil, fmt.Errorf("csv export %s is empty", source)
	}

	s := &CSVStore{
		source:  source,
		header:  all[0],
		records: all[1:],
		rowByID: make(map[string]int),
		deleted: make(map[string]bool),
	}
	s.parse()
	return s, nil
}

// columnIndex returns the index of the first header matching any
// candidate, or -1. Matching is exact: "Password" and "password" are
// different columns from different export dialects.
func (s *CSVStore) columnIndex(candidates []string) int {
	for _, candidate := range candidates {
		for i, h := range s.header {
			if strings.TrimSpace(h) == candidate {
				return i
			}
		}
	}
	return -1
}

func (s *CSVStore) parse() {
	titleIdx := s.columnIndex(titleHeaders)
	usernameIdx := s.columnIndex(usernameHeaders)
	passwordIdx := s.columnIndex(passwordHeaders)
	urlIdx := s.columnIndex(urlHeaders)
	tagsIdx := s.columnIndex(tagsHeaders)

	for i, record := range s.records {
		field := func(idx int) string {
			if idx < 0 || idx >= len(record) {
				return ""
			}
			return strings.TrimSpace(record[idx])
		}

		title := field(titleIdx)
		username := field(usernameIdx)
		password := field(passwordIdx)
		url := field(urlIdx)

		if title == "" {
			title = nameFromURL(url)
		}
		// A row with no title and no URL identifies nothing; skip it.
		if title == "" {
			continue
		}
		// A row carrying no credential data at all is noise.
		if username == "" && password == "" && url == "" {
			continue
		}

		id := fmt.Sprintf("row-%d", i+1)
		entry, err := model.NewCredentialEntry(id, title, username, password, url)
		if err != nil {
			continue
		}
		entry.Tags = parseTags(field(tagsIdx))

		s.rowByID[id] = i
		s.entries = append(s.entries, entry)
	}
}

// nameFromURL derives a display name from a URL the way the vault's own
// importer does: strip the scheme and keep everything before the first
// slash.
func nameFromURL(url string) string {
	name := strings.TrimPrefix(url, "https://")
	name = strings.TrimPrefix(name, "http://")
	if i := strings.IndexByte(name, '/'); i >= 0 {
		name = name[:i]
	}
	return strings.TrimSpace(name)
}

// parseTags splits a comma-separated tag list, dropping empties.
func parseTags(raw string) []string {
	if raw == "" {
		return nil
	}
	var tags []string
	for _, t := range strings.Split(raw, ",") {
		if t = strings.TrimSpace(t); t != "" {
			tags = append(tags, t)
		}
	}
	return tags
}

// Source returns the snapshot label.
func (s *CSVStore) Source() string {
	return s.source
}

// List returns all non-deleted entries in input order.
func (s *CSVStore) List(_ context.Context) ([]model.CredentialEntry, error) {
	live := make([]model.CredentialEntry, 0, len(s.entries))
	for _, e := range s.entries {
		if !s.deleted[e.ID] {
			live = append(live, e)
		}
	}
	return live, nil
}

// Delete marks the row behind id as removed. The row disappears from List
// and from WriteCleaned output.
func (s *CSVStore) Delete(_ context.Context, id string) error {
	if _, ok := s.rowByID[id]; !ok {
		return fmt.Errorf("%w: %s", ErrEntryNotFound, id)
	}
	s.deleted[id] = true
	return nil
}

// WriteCleaned writes the header and all surviving rows to w, producing a
// cleaned export in the original column layout. Rows that never parsed
// into entries are preserved untouched; only deleted entries are omitted.
func (s *CSVStore) WriteCleaned(w io.Writer) error {
	writer := csv.NewWriter(w)
	if err := writer.Write(s.header); err != nil {
		return fmt.Errorf("failed to write csv header: %w", err)
	}

	deletedRows := make(map[int]bool, len(s.deleted))
	for id := range s.deleted {
		deletedRows[s.rowByID[id]] = true
	}

	for i, record := range s.records {
		if deletedRows[i] {
			continue
		}
		if err := writer.Write(record); err != nil {
			return fmt.Errorf("failed to write csv row: %w", err)
		}
	}

	writer.Flush()
	return writer.Error()
}
