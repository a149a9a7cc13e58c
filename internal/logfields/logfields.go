package logfields

import "log/slog"

// Canonical log field name constants to avoid drift across packages.
const (
	KeyRunID      = "run_id"
	KeyModule     = "module"
	KeyType       = "type"
	KeyMember     = "member"
	KeySignature  = "signature"
	KeyPage       = "page"
	KeyPath       = "path"
	KeyNamespace  = "namespace"
	KeyStage      = "stage"
	KeyCount      = "count"
	KeyDurationMS = "duration_ms"
	KeyError      = "error"
)

// Simple helpers returning slog.Attr. Keeping each granular means callers can compose.
func RunID(id string) slog.Attr        { return slog.String(KeyRunID, id) }
func Module(name string) slog.Attr     { return slog.String(KeyModule, name) }
func Type(name string) slog.Attr       { return slog.String(KeyType, name) }
func Member(name string) slog.Attr     { return slog.String(KeyMember, name) }
func Signature(sig string) slog.Attr   { return slog.String(KeySignature, sig) }
func Page(name string) slog.Attr       { return slog.String(KeyPage, name) }
func Path(p string) slog.Attr          { return slog.String(KeyPath, p) }
func Namespace(ns string) slog.Attr    { return slog.String(KeyNamespace, ns) }
func Stage(name string) slog.Attr      { return slog.String(KeyStage, name) }
func Count(n int) slog.Attr            { return slog.Int(KeyCount, n) }
func DurationMS(ms float64) slog.Attr  { return slog.Float64(KeyDurationMS, ms) }
func Error(err error) slog.Attr {
	if err == nil {
		return slog.String(KeyError, "")
	}
	return slog.String(KeyError, err.Error())
}
