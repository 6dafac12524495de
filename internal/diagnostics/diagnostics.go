// Package diagnostics assembles the closed Diagnostic struct the facade
// publishes to an editor (spec §7 "user-visible behavior"): each finding
// from parsing, scope construction, or resolution is normalized into a
// severity, an LSP range, a stable code, and a deterministic message.
package diagnostics

import (
	"github.com/woxQAQ/unified-sql-lsp-sub002/internal/catalog"
	"github.com/woxQAQ/unified-sql-lsp-sub002/internal/cstutil"
	"github.com/woxQAQ/unified-sql-lsp-sub002/internal/document"
	"github.com/woxQAQ/unified-sql-lsp-sub002/internal/resolver"
	"github.com/woxQAQ/unified-sql-lsp-sub002/internal/scopebuild"
)

// Severity is the closed severity tag from spec §7.
type Severity int

const (
	Error Severity = iota
	Warning
	Info
)

// Stable diagnostic codes (spec §7: "a stable code"). These are
// published to editors and must not change meaning once released.
const (
	CodeParseError      = "parse_error"
	CodeDuplicateAlias  = "duplicate_alias"
	CodeAmbiguousColumn = "ambiguous_column"
	CodeTableNotFound   = "table_not_found"
	CodeColumnNotFound  = "column_not_found"
	CodeHavingNoGroupBy = "having_without_group_by"
)

// Diagnostic is the closed struct published over the LSP
// textDocument/publishDiagnostics notification (spec §7).
type Diagnostic struct {
	Severity Severity
	Range    document.Range
	Code     string
	Message  string
}

// FromParseOutcome converts a CST parse outcome's recovered errors into
// diagnostics. A Partial outcome's errors are warnings (the tree is
// still usable); a Failed outcome's sole error is an error-severity
// diagnostic spanning the whole document, since there is no usable tree
// to anchor a narrower range.
func FromParseOutcome(text string, out cstutil.Outcome) []Diagnostic {
	if len(out.Errors) == 0 {
		return nil
	}
	sev := Warning
	if out.Kind() == cstutil.Failed {
		sev = Error
	}
	diags := make([]Diagnostic, 0, len(out.Errors))
	for _, e := range out.Errors {
		r := rangeFor(text, e.Start, e.End)
		if sev == Error {
			r = rangeFor(text, 0, len(text))
		}
		diags = append(diags, Diagnostic{
			Severity: sev,
			Range:    r,
			Code:     CodeParseError,
			Message:  e.Message,
		})
	}
	return diags
}

// FromScopeDiagnostics converts scope-construction diagnostics (spec
// §4.3: duplicate alias detection) into published diagnostics. The
// scope builder does not track source positions for its findings, so
// these diagnostics carry a zero-value Range; a caller with a CST handle
// can narrow the range itself via internal/definition before publishing.
func FromScopeDiagnostics(diags []scopebuild.Diagnostic) []Diagnostic {
	out := make([]Diagnostic, 0, len(diags))
	for _, d := range diags {
		out = append(out, Diagnostic{
			Severity: Error,
			Code:     CodeDuplicateAlias,
			Message:  d.Message,
		})
	}
	return out
}

// FromResolverError classifies a resolver error into a published
// diagnostic, or returns ok=false for an error this package does not
// recognize (e.g. a wrapped catalog error already surfaced elsewhere).
// Per SPEC_FULL.md's Open Question decision, HAVING-without-GROUP-BY is
// warning severity; every other resolver error kind is an error.
func FromResolverError(err error) (Diagnostic, bool) {
	switch {
	case resolver.ErrAmbiguousColumn.Is(err):
		return Diagnostic{Severity: Error, Code: CodeAmbiguousColumn, Message: err.Error()}, true
	case resolver.ErrTableNotFound.Is(err):
		return Diagnostic{Severity: Error, Code: CodeTableNotFound, Message: err.Error()}, true
	case resolver.ErrColumnNotFound.Is(err):
		return Diagnostic{Severity: Error, Code: CodeColumnNotFound, Message: err.Error()}, true
	case resolver.ErrWildcardTableNotFound.Is(err):
		return Diagnostic{Severity: Error, Code: CodeTableNotFound, Message: err.Error()}, true
	case resolver.ErrHavingWithoutGroupBy.Is(err):
		return Diagnostic{Severity: Warning, Code: CodeHavingNoGroupBy, Message: err.Error()}, true
	default:
		return Diagnostic{}, false
	}
}

// FromCatalogError reports whether err is a catalog-layer failure that
// the propagation policy (spec §7) says should abort the request rather
// than degrade to an empty/local diagnostic. Connection and timeout
// errors are not converted to Diagnostic values at all: callers
// propagate them to the LSP response directly unless the request was
// flagged recoverable-to-empty.
func FromCatalogError(err error) bool {
	return catalog.ErrConnectionFailed.Is(err) || catalog.ErrQueryTimeout.Is(err) || catalog.ErrTooManyConnections.Is(err)
}

func rangeFor(text string, start, end int) document.Range {
	if end < start {
		end = start
	}
	return document.Range{
		Start: document.OffsetToPosition(text, start),
		End:   document.OffsetToPosition(text, end),
	}
}
