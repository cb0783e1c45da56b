// Package logging provides a custom slog handler that mirrors WARN and
// above into the site_events audit table.
package logging

import (
	"context"
	"database/sql"
	"log/slog"
	"strings"

	"github.com/vanlocweb/vanloc-go/internal/store"
)

// Audit event levels.
const (
	LevelWarning = "warning"
	LevelError   = "error"
)

// AuditHandler is a slog.Handler that wraps another handler and also
// writes WARN and ERROR level records to the site_events table.
type AuditHandler struct {
	inner   slog.Handler
	queries *store.Queries
	level   slog.Level
}

// NewAuditHandler creates an AuditHandler wrapping the given handler.
// Records at WARN and above are written to both the wrapped handler and
// the audit table.
func NewAuditHandler(inner slog.Handler, db *sql.DB) *AuditHandler {
	return &AuditHandler{
		inner:   inner,
		queries: store.New(db),
		level:   slog.LevelWarn,
	}
}

// Enabled implements slog.Handler.
func (h *AuditHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.inner.Enabled(ctx, level)
}

// Handle implements slog.Handler.
func (h *AuditHandler) Handle(ctx context.Context, r slog.Record) error {
	if err := h.inner.Handle(ctx, r); err != nil {
		return err
	}

	if r.Level >= h.level {
		h.writeAuditEvent(r)
	}

	return nil
}

// WithAttrs implements slog.Handler.
func (h *AuditHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &AuditHandler{
		inner:   h.inner.WithAttrs(attrs),
		queries: h.queries,
		level:   h.level,
	}
}

// WithGroup implements slog.Handler.
func (h *AuditHandler) WithGroup(name string) slog.Handler {
	return &AuditHandler{
		inner:   h.inner.WithGroup(name),
		queries: h.queries,
		level:   h.level,
	}
}

// writeAuditEvent persists one record. A background context is used so
// the event survives request cancellation; insert failures are dropped
// because logging them again would recurse.
func (h *AuditHandler) writeAuditEvent(r slog.Record) {
	level := LevelWarning
	if r.Level >= slog.LevelError {
		level = LevelError
	}

	_ = h.queries.InsertSiteEvent(context.Background(), level, r.Message, recordMetadata(r), r.Time)
}

// recordMetadata collects the record attributes into a JSON string.
func recordMetadata(r slog.Record) string {
	if r.NumAttrs() == 0 {
		return "{}"
	}

	var sb strings.Builder
	sb.WriteString("{")
	first := true

	r.Attrs(func(a slog.Attr) bool {
		if !first {
			sb.WriteString(",")
		}
		first = false
		sb.WriteString(`"`)
		sb.WriteString(escapeJSON(a.Key))
		sb.WriteString(`":"`)
		sb.WriteString(escapeJSON(a.Value.String()))
		sb.WriteString(`"`)
		return true
	})

	sb.WriteString("}")
	return sb.String()
}

// escapeJSON escapes special characters in a string for JSON.
func escapeJSON(s string) string {
	var sb strings.Builder
	for _, r := range s {
		switch r {
		case '"':
			sb.WriteString(`\"`)
		case '\\':
			sb.WriteString(`\\`)
		case '\n':
			sb.WriteString(`\n`)
		case '\r':
			sb.WriteString(`\r`)
		case '\t':
			sb.WriteString(`\t`)
		default:
			sb.WriteRune(r)
		}
	}
	return sb.String()
}
