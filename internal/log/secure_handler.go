package log

import (
	"context"
	"io"
	"log/slog"
	"regexp"
	"strings"
)

// MaskValue replaces redacted attribute values in log output.
const MaskValue = "***REDACTED***"

// redactedKeys lists attribute keys that always carry credential material
// in this tool. The audit engine works on decrypted vault snapshots, so
// "password" and "username" are real account credentials, never fixtures.
var redactedKeys = newKeySet(
	// Vault entry fields
	"password", "passwd", "username", "login", "login_name",
	"totp", "totp_secret", "master_key", "masterkey",

	// Generic secrets
	"secret", "token", "api_key", "apikey", "api-key",
	"access_token", "refresh_token",
	"private_key", "privatekey", "secret_key", "secretkey",

	// HTTP headers
	"authorization", "cookie", "set-cookie", "x-api-key",
	"proxy-authorization",

	// Sessions and credentials generically
	"session", "session_id", "sessionid", "sid",
	"credential", "credentials", "auth",
)

// redactedKeySubstrings extends the exact-key set with substring matches,
// so "dbPassword" or "oldSecret" are caught too. The bare word "key" is
// deliberately absent: it matches too much ("cluster_key", "keyboard");
// the dangerous key-suffixed names are in redactedKeys already.
var redactedKeySubstrings = []string{
	"password", "passwd", "secret", "token", "auth",
	"credential", "private", "totp",
}

// secretShapes matches values that look like secrets regardless of their
// attribute key.
var secretShapes = []*regexp.Regexp{
	regexp.MustCompile(`^eyJ[A-Za-z0-9_-]*\.eyJ[A-Za-z0-9_-]*\.[A-Za-z0-9_-]*$`), // JWT
	regexp.MustCompile(`(?i)^bearer\s+.+`),
	regexp.MustCompile(`(?i)^basic\s+[A-Za-z0-9+/=]+$`),
	regexp.MustCompile(`^[a-zA-Z0-9]{32,}$`), // API keys, generated passwords
	regexp.MustCompile(`^AKIA[0-9A-Z]{16}$`), // AWS access key IDs
	regexp.MustCompile(`(?i)-----BEGIN.*(PRIVATE|SECRET).*KEY-----`),
	regexp.MustCompile(`(?i)^otpauth://`), // provisioning URI embeds the shared secret
}

func newKeySet(keys ...string) map[string]struct{} {
	set := make(map[string]struct{}, len(keys))
	for _, k := range keys {
		set[k] = struct{}{}
	}
	return set
}

// SecureHandler is an slog.Handler middleware that masks credential
// material before records reach the wrapped handler. Wrapping at the
// handler layer means any package holding a *slog.Logger gets redaction
// without knowing about it, and the wrapped handler's format (text,
// JSON) stays the caller's choice.
type SecureHandler struct {
	next slog.Handler
}

// NewSecureHandler wraps next with attribute redaction. A nil next falls
// back to slog.Default().Handler().
func NewSecureHandler(next slog.Handler) *SecureHandler {
	if next == nil {
		next = slog.Default().Handler()
	}
	return &SecureHandler{next: next}
}

func (h *SecureHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.next.Enabled(ctx, level)
}

// Handle rebuilds the record with each attribute passed through redaction.
func (h *SecureHandler) Handle(ctx context.Context, r slog.Record) error {
	clean := slog.NewRecord(r.Time, r.Level, r.Message, r.PC)
	r.Attrs(func(a slog.Attr) bool {
		clean.AddAttrs(redactAttr(a))
		return true
	})
	return h.next.Handle(ctx, clean)
}

// WithAttrs redacts eagerly so pre-bound attributes never reach the
// wrapped handler unmasked.
func (h *SecureHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	clean := make([]slog.Attr, len(attrs))
	for i, a := range attrs {
		clean[i] = redactAttr(a)
	}
	return &SecureHandler{next: h.next.WithAttrs(clean)}
}

func (h *SecureHandler) WithGroup(name string) slog.Handler {
	return &SecureHandler{next: h.next.WithGroup(name)}
}

// redactAttr masks an attribute when its key names a credential or its
// string value looks like one. Groups are walked recursively.
func redactAttr(a slog.Attr) slog.Attr {
	if a.Value.Kind() == slog.KindGroup {
		members := a.Value.Group()
		clean := make([]slog.Attr, len(members))
		for i, m := range members {
			clean[i] = redactAttr(m)
		}
		return slog.Attr{Key: a.Key, Value: slog.GroupValue(clean...)}
	}

	if keyNamesCredential(strings.ToLower(a.Key)) {
		return slog.String(a.Key, MaskValue)
	}
	if a.Value.Kind() == slog.KindString && valueLooksSecret(a.Value.String()) {
		return slog.String(a.Key, MaskValue)
	}
	return a
}

func keyNamesCredential(key string) bool {
	if _, ok := redactedKeys[key]; ok {
		return true
	}
	for _, sub := range redactedKeySubstrings {
		if strings.Contains(key, sub) {
			return true
		}
	}
	return false
}

func valueLooksSecret(value string) bool {
	for _, shape := range secretShapes {
		if shape.MatchString(value) {
			return true
		}
	}
	return false
}

// NewSecureLogger returns a redacting text logger writing to w. Verbose
// enables Debug level; the default level is Warn so routine audits stay
// quiet on stderr.
func NewSecureLogger(w io.Writer, verbose bool) *slog.Logger {
	return slog.New(NewSecureHandler(slog.NewTextHandler(w, handlerOptions(verbose))))
}

// NewSecureJSONLogger is NewSecureLogger with JSON output, for runs whose
// stderr feeds a log aggregator.
func NewSecureJSONLogger(w io.Writer, verbose bool) *slog.Logger {
	return slog.New(NewSecureHandler(slog.NewJSONHandler(w, handlerOptions(verbose))))
}

func handlerOptions(verbose bool) *slog.HandlerOptions {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	return &slog.HandlerOptions{Level: level}
}
