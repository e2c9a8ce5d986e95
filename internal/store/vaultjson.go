package store

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/j-555/fetch-audit/internal/model"
)

// vaultItem mirrors one element of the vault's decrypted JSON export.
// Folders and file attachments share the same shape as credentials and
// are told apart by item_type.
type vaultItem struct {
	ID         string     `json:"id"`
	ParentID   *string    `json:"parent_id"`
	Name       string     `json:"name"`
	DataPath   *string    `json:"data_path"`
	ItemType   string     `json:"item_type"`
	FolderType *string    `json:"folder_type"`
	Tags       []string   `json:"tags"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
	DeletedAt  *time.Time `json:"deleted_at"`
	TOTPSecret *string    `json:"totp_secret"`
	Content    string     `json:"content"`
}

const credentialItemType = "key"

// VaultJSONStore reads a decrypted vault JSON export. Only live
// credential items survive parsing: folders, file attachments, and
// soft-deleted items (deleted_at set) are skipped. Each credential's
// base64 content blob decodes to the sectioned "Username:/Password:/URL:"
// text format.
type VaultJSONStore struct {
	source  string
	entries []model.CredentialEntry
	byID    map[string]bool
	deleted map[string]bool
}

// NewVaultJSONStore parses a vault JSON export from r.
func NewVaultJSONStore(r io.Reader, source string) (*VaultJSONStore, error) {
	var items []vaultItem
	if err := json.NewDecoder(r).Decode(&items); err != nil {
		return nil, fmt.Errorf("failed to parse vault export: %w", err)
	}

	s := &VaultJSONStore{
		source:  source,
		byID:    make(map[string]bool),
		deleted: make(map[string]bool),
	}

	for _, item := range items {
		if item.ItemType != credentialItemType || item.DeletedAt != nil {
			continue
		}

		var content Content
		if item.Content != "" {
			raw, err := base64.StdEncoding.DecodeString(item.Content)
			if err != nil {
				// Undecodable content means a corrupt export row; the
				// entry still exists, it just carries no fields.
				raw = nil
			}
			content = ParseContent(string(raw))
		}

		entry, err := model.NewCredentialEntry(item.ID, item.Name, content.Username, content.Password, content.URL)
		if err != nil {
			continue
		}
		entry.Tags = item.Tags
		entry.CreatedAt = item.CreatedAt
		entry.UpdatedAt = item.UpdatedAt

		s.byID[entry.ID] = true
		s.entries = append(s.entries, entry)
	}

	return s, nil
}

// Source returns the snapshot label.
func (s *VaultJSONStore) Source() string {
	return s.source
}

// List returns all non-deleted credential entries in export order.
func (s *VaultJSONStore) List(_ context.Context) ([]model.CredentialEntry, error) {
	live := make([]model.CredentialEntry, 0, len(s.entries))
	for _, e := range s.entries {
		if !s.deleted[e.ID] {
			live = append(live, e)
		}
	}
	return live, nil
}

// Delete marks the entry as removed from this snapshot.
func (s *VaultJSONStore) Delete(_ context.Context, id string) error {
	if !s.byID[id] {
		return fmt.Errorf("%w: %s", ErrEntryNotFound, id)
	}
	s.deleted[id] = true
	return nil
}
