package log

import (
	"context"
	"io"
	"log/slog"
	"regexp"
	"strings"

	"github.com/nao1215/scamscan/internal/model"
)

// MaskValue replaces every redacted attribute value.
const MaskValue = "***REDACTED***"

// maskedKeys are attribute keys whose values are always masked, compared
// in lower case.
var maskedKeys = keySet(
	// transport headers and classifier credentials
	"authorization", "proxy-authorization", "cookie", "set-cookie",
	"x-api-key", "x-auth-token", "api_key", "api-key", "apikey",
	"access_token", "refresh_token", "token", "secret", "secret_key",
	"password", "passwd", "credential", "credentials", "auth",
	"session", "session_id", "sessionid", "sid",

	// what scam messages ask the victim to hand over
	"otp", "otp_code", "one_time_code", "verification_code", "pin",
	"cvv", "cvc", "card_number", "pan", "iban", "account_number",
	"seed", "mnemonic", "wallet_key", "private_key",

	// raw message text; log MessageAttrs instead
	"message", "text", "body",
)

// maskedKeyParts mask any key that contains them. A bare "key" is left
// out: it would hit cache_key, sort_key and friends.
var maskedKeyParts = []string{
	"password", "passwd", "secret", "token", "auth", "credential",
	"private", "seed", "mnemonic", "cvv", "card",
}

// maskedValues mask a string value whatever its key.
var maskedValues = []*regexp.Regexp{
	regexp.MustCompile(`^eyJ[A-Za-z0-9_-]*\.eyJ[A-Za-z0-9_-]*\.[A-Za-z0-9_-]*$`), // JWT
	regexp.MustCompile(`(?i)^bearer\s+.+`),
	regexp.MustCompile(`(?i)^basic\s+[A-Za-z0-9+/=]+$`),
	regexp.MustCompile(`^[a-zA-Z0-9]{32,}$`),
	regexp.MustCompile(`^AKIA[0-9A-Z]{16}$`),
	regexp.MustCompile(`(?i)-----BEGIN.*(PRIVATE|SECRET).*KEY-----`),
	// 13 to 19 digit card numbers, spaces or dashes allowed
	regexp.MustCompile(`(?:^|\D)(?:\d[ -]?){12,18}\d(?:\D|$)`),
}

func keySet(keys ...string) map[string]struct{} {
	set := make(map[string]struct{}, len(keys))
	for _, k := range keys {
		set[k] = struct{}{}
	}
	return set
}

// SecureHandler is an slog.Handler that masks credentials, codes and
// message text before records reach the wrapped handler.
type SecureHandler struct {
	next slog.Handler
}

// NewSecureHandler wraps next. A nil next falls back to slog.Default().Handler().
func NewSecureHandler(next slog.Handler) *SecureHandler {
	if next == nil {
		next = slog.Default().Handler()
	}
	return &SecureHandler{next: next}
}

// Enabled implements slog.Handler.
func (h *SecureHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.next.Enabled(ctx, level)
}

// Handle implements slog.Handler.
func (h *SecureHandler) Handle(ctx context.Context, r slog.Record) error {
	out := slog.NewRecord(r.Time, r.Level, r.Message, r.PC)
	r.Attrs(func(a slog.Attr) bool {
		out.AddAttrs(redact(a))
		return true
	})
	return h.next.Handle(ctx, out)
}

// WithAttrs implements slog.Handler.
func (h *SecureHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &SecureHandler{next: h.next.WithAttrs(redactAll(attrs))}
}

// WithGroup implements slog.Handler.
func (h *SecureHandler) WithGroup(name string) slog.Handler {
	return &SecureHandler{next: h.next.WithGroup(name)}
}

func redactAll(attrs []slog.Attr) []slog.Attr {
	out := make([]slog.Attr, len(attrs))
	for i, a := range attrs {
		out[i] = redact(a)
	}
	return out
}

// redact masks a by key or value, descending into groups.
func redact(a slog.Attr) slog.Attr {
	a.Value = a.Value.Resolve()

	if a.Value.Kind() == slog.KindGroup {
		return slog.Attr{Key: a.Key, Value: slog.GroupValue(redactAll(a.Value.Group())...)}
	}
	if maskedKey(a.Key) {
		return slog.String(a.Key, MaskValue)
	}
	if a.Value.Kind() == slog.KindString && maskedValue(a.Value.String()) {
		return slog.String(a.Key, MaskValue)
	}
	return a
}

func maskedKey(key string) bool {
	key = strings.ToLower(key)
	if _, ok := maskedKeys[key]; ok {
		return true
	}
	for _, part := range maskedKeyParts {
		if strings.Contains(key, part) {
			return true
		}
	}
	return false
}

func maskedValue(value string) bool {
	for _, re := range maskedValues {
		if re.MatchString(value) {
			return true
		}
	}
	return false
}

// NewSecureLogger returns a text logger on w that masks sensitive values.
// verbose lowers the level from Warn to Debug.
func NewSecureLogger(w io.Writer, verbose bool) *slog.Logger {
	return slog.New(NewSecureHandler(slog.NewTextHandler(w, handlerOptions(verbose))))
}

// NewSecureJSONLogger is NewSecureLogger with JSON output.
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

// MessageAttrs returns the attributes that identify a scanned message in
// logs without revealing it: a short SHA3 digest and the character count.
// Use it wherever a message would otherwise be logged.
func MessageAttrs(message string) []any {
	return []any{
		slog.String("message_digest", model.ShortDigest(message)),
		slog.Int("message_runes", model.RuneLength(message)),
	}
}
