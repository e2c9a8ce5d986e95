package store

import "strings"

// Content holds the credential fields extracted from a vault item's
// sectioned plaintext content.
type Content struct {
	Username string
	Password string
	URL      string
	Notes    string
}

// Section labels used by the vault when it writes item content.
const (
	usernameLabel = "Username:"
	passwordLabel = "Password:"
	urlLabel      = "URL:"
	notesLabel    = "Notes:"
)

// ParseContent extracts credential fields from the vault's item content
// format: labeled sections ("Username: bob", "Password: x", "URL: ...",
// "Notes: ...") separated by blank lines. Unlabeled lines extend the notes
// once the notes section has started; the first occurrence of each labeled
// field wins. Unknown labels are ignored.
func ParseContent(content string) Content {
	var c Content
	inNotes := false

	for _, line := range strings.Split(content, "\n") {
		trimmed := strings.TrimSpace(line)
		switch {
		case strings.HasPrefix(trimmed, usernameLabel):
			if c.Username == "" {
				c.Username = strings.TrimSpace(strings.TrimPrefix(trimmed, usernameLabel))
			}
			inNotes = false
		case strings.HasPrefix(trimmed, passwordLabel):
			if c.Password == "" {
				c.Password = strings.TrimSpace(strings.TrimPrefix(trimmed, passwordLabel))
			}
			inNotes = false
		case strings.HasPrefix(trimmed, urlLabel):
			if c.URL == "" {
				c.URL = strings.TrimSpace(strings.TrimPrefix(trimmed, urlLabel))
			}
			inNotes = false
		case strings.HasPrefix(trimmed, notesLabel):
			text := strings.TrimSpace(strings.TrimPrefix(trimmed, notesLabel))
			if c.Notes == "" {
				c.Notes = text
			} else if text != "" {
				c.Notes += "\n" + text
			}
			inNotes = true
		case inNotes && trimmed != "":
			if c.Notes == "" {
				c.Notes = trimmed
			} else {
				c.Notes += "\n" + trimmed
			}
		}
	}

	return c
}

// BuildContent renders credential fields back into the vault's sectioned
// content format, omitting empty fields. The inverse of ParseContent for
// single-line values.
func BuildContent(c Content) string {
	var b strings.Builder
	if c.Username != "" {
		b.WriteString(usernameLabel + " " + c.Username + "\n\n")
	}
	if c.Password != "" {
		b.WriteString(passwordLabel + " " + c.Password + "\n\n")
	}
	if c.URL != "" {
		b.WriteString(urlLabel + " " + c.URL + "\n\n")
	}
	if c.Notes != "" {
		b.WriteString(notesLabel + " " + c.Notes + "\n\n")
	}
	return strings.TrimRight(b.String(), "\n")
}
