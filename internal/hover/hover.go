// Package hover implements hover (spec §4.7): given the word at a
// cursor position and the syntactic context it sits in, render a
// markdown description of whatever it resolves to — a table's schema,
// a column's type/comment/PK/FK, or a built-in function's signature.
package hover

import (
	"context"
	"fmt"
	"strings"

	"github.com/woxQAQ/unified-sql-lsp-sub002/internal/catalog"
	"github.com/woxQAQ/unified-sql-lsp-sub002/internal/detector"
	"github.com/woxQAQ/unified-sql-lsp-sub002/internal/dialect"
	"github.com/woxQAQ/unified-sql-lsp-sub002/internal/registry"
	"github.com/woxQAQ/unified-sql-lsp-sub002/internal/resolver"
	"github.com/woxQAQ/unified-sql-lsp-sub002/internal/symbol"
)

// Result is the rendered hover payload.
type Result struct {
	Markdown string
}

// Hover resolves identifier (optionally qualifier-prefixed) against the
// scope tree, in a position determined by cc, and renders markdown for
// whatever it resolves to. It returns false if nothing resolves.
func Hover(ctx context.Context, r *resolver.Resolver, d dialect.Dialect, scopeID symbol.ScopeID, cc detector.CompletionContext, qualifier, identifier string) (Result, bool) {
	if isFromLikePosition(cc) {
		if t, err := r.ResolveTable(ctx, scopeID, identifier); err == nil {
			return Result{Markdown: renderTable(t)}, true
		}
	} else {
		if qualifier != "" {
			if col, err := r.ResolveQualifiedColumn(scopeID, qualifier, identifier); err == nil {
				return Result{Markdown: renderColumn(col)}, true
			}
		} else if col, err := r.ResolveColumn(scopeID, identifier); err == nil {
			return Result{Markdown: renderColumn(col)}, true
		}
	}

	if fn, ok := registry.Function(d, identifier); ok {
		return Result{Markdown: renderFunction(fn)}, true
	}
	return Result{}, false
}

func isFromLikePosition(cc detector.CompletionContext) bool {
	switch cc.(type) {
	case detector.FromClause, detector.JoinTarget, detector.InsertTarget, detector.UpdateTarget:
		return true
	default:
		return false
	}
}

func renderTable(t *symbol.TableSymbol) string {
	var b strings.Builder
	fmt.Fprintf(&b, "**%s**", t.TableName)
	if t.Alias != "" {
		fmt.Fprintf(&b, " (as `%s`)", t.Alias)
	}
	if t.IsCTE {
		b.WriteString(" — CTE")
	}
	if len(t.Columns) > 0 {
		b.WriteString("\n\n| column | type |\n|---|---|\n")
		for _, c := range t.Columns {
			mark := ""
			if c.IsPK {
				mark = " (PK)"
			}
			fmt.Fprintf(&b, "| %s%s | %s |\n", c.Name, mark, c.DataType)
		}
	}
	return b.String()
}

func renderColumn(c symbol.ColumnSymbol) string {
	var b strings.Builder
	owner := ""
	if c.OwningTable != nil {
		owner = c.OwningTable.DisplayName() + "."
	}
	fmt.Fprintf(&b, "**%s%s**: `%s`", owner, c.Name, c.DataType)
	if c.IsPK {
		b.WriteString(" (primary key)")
	}
	if c.IsFK {
		b.WriteString(" (foreign key)")
	}
	return b.String()
}

func renderFunction(fn catalog.FunctionMetadata) string {
	var b strings.Builder
	params := make([]string, len(fn.Parameters))
	for i, p := range fn.Parameters {
		params[i] = p.Name + " " + p.Type
	}
	fmt.Fprintf(&b, "**%s**(%s) -> `%s`\n\n%s", fn.Name, strings.Join(params, ", "), fn.ReturnType, fn.Documentation)
	return b.String()
}
