// Package domains reduces credential URLs to a canonical service identity.
//
// Vault entries refer to the same service in wildly different shapes:
// "amazon.co.uk", "https://www.amazon.co.uk/", "signin.amazon.co.uk/ap",
// "http://AMAZON.CO.UK". Duplicate detection only works if all of these
// normalize to the same string, so BaseDomain is deliberately a small,
// deterministic text transformation rather than a full URL parser: the
// inputs are user-typed fields, not guaranteed-valid URLs, and a strict
// parser would reject exactly the entries that most need grouping.
package domains

import "strings"

// DefaultSubdomainPrefixes lists host labels that name an entry point
// rather than a service. They are stripped before the public-suffix check
// so "accounts.google.com" and "mail.google.com" resolve to the same
// identity. The list is heuristic tuning data, not logic; callers can
// replace it wholesale via WithSubdomainPrefixes.
var DefaultSubdomainPrefixes = []string{
	"www", "ww2", "web", "m", "mobile", "app", "apps", "api",
	"my", "account", "accounts", "auth", "sso", "id", "idp",
	"login", "logon", "signin", "sign-in", "signup", "register",
	"admin", "portal", "secure", "members", "member", "online",
	"shop", "store", "checkout", "billing", "pay", "payments",
	"mail", "webmail", "email", "support", "help",
}

// Normalizer converts raw credential URLs into service identities.
// It is safe for concurrent use once constructed; all state is read-only.
type Normalizer struct {
	// prefixes are host labels stripped from the front of a domain.
	prefixes map[string]bool

	// suffixes maps a multi-part public suffix ("co.uk") to its label count.
	suffixes map[string]int
}

// Option configures a Normalizer.
type Option func(*Normalizer)

// WithSubdomainPrefixes replaces the default subdomain prefix list.
func WithSubdomainPrefixes(prefixes []string) Option {
	return func(n *Normalizer) {
		n.prefixes = make(map[string]bool, len(prefixes))
		for _, p := range prefixes {
			n.prefixes[strings.ToLower(strings.TrimSuffix(p, "."))] = true
		}
	}
}

// WithExtraSuffixes adds multi-part public suffixes on top of the built-in
// table. Entries are given in normal label order, e.g. "co.uk".
func WithExtraSuffixes(suffixes []string) Option {
	return func(n *Normalizer) {
		for _, s := range suffixes {
			s = strings.ToLower(strings.Trim(s, "."))
			if s == "" {
				continue
			}
			n.suffixes[s] = strings.Count(s, ".") + 1
		}
	}
}

// NewNormalizer creates a Normalizer with the built-in prefix list and
// multi-part suffix table, then applies the given options.
func NewNormalizer(opts ...Option) *Normalizer {
	n := &Normalizer{
		suffixes: make(map[string]int, len(multiPartSuffixes)),
	}
	for _, s := range multiPartSuffixes {
		n.suffixes[s] = strings.Count(s, ".") + 1
	}
	WithSubdomainPrefixes(DefaultSubdomainPrefixes)(n)

	for _, opt := range opts {
		opt(n)
	}
	return n
}

// BaseDomain reduces rawURL to its canonical service identity.
//
// The steps, in order: lowercase and strip an http/https scheme; cut at the
// first "/" (dropping path, query, and fragment) and at any ":port"; strip
// known non-service subdomain prefixes from the front; if the remainder ends
// in a known multi-part public suffix of N labels, return the last N+1
// labels, otherwise return the last two labels. Inputs with fewer than two
// labels come back as-is after cleaning, and the empty string maps to the
// empty string.
//
// The function is pure and stable: cluster identity depends on equal inputs
// producing equal outputs across runs.
func (n *Normalizer) BaseDomain(rawURL string) string {
	host := strings.ToLower(strings.TrimSpace(rawURL))
	host = strings.TrimPrefix(host, "http://")
	host = strings.TrimPrefix(host, "https://")

	if i := strings.IndexByte(host, '/'); i >= 0 {
		host = host[:i]
	}
	// Ports and userinfo show up in pasted URLs; both would corrupt the
	// label math below.
	if i := strings.IndexByte(host, '@'); i >= 0 {
		host = host[i+1:]
	}
	if i := strings.IndexByte(host, ':'); i >= 0 {
		host = host[:i]
	}
	host = strings.Trim(host, ".")
	if host == "" {
		return ""
	}

	labels := strings.Split(host, ".")

	// Strip leading entry-point labels, but never below two labels: a bare
	// "my.com" style domain must survive intact.
	for len(labels) > 2 && n.prefixes[labels[0]] {
		labels = labels[1:]
	}

	if len(labels) < 2 {
		return strings.Join(labels, ".")
	}

	// Longest multi-part suffix match wins, so "example.sch.uk" is not
	// mistaken for a plain two-label domain when "sch.uk" is in the table.
	keep := 2
	for count := len(labels) - 1; count >= 2; count-- {
		candidate := strings.Join(labels[len(labels)-count:], ".")
		if got, ok := n.suffixes[candidate]; ok && got == count {
			keep = count + 1
			break
		}
	}

	if keep > len(labels) {
		keep = len(labels)
	}
	return strings.Join(labels[len(labels)-keep:], ".")
}
