// Package scopebuild constructs the symbol.ScopeManager/Scope tree a
// Resolver walks (spec §4.3 "Scope construction") from a lowered IR
// query. It mirrors the post-order CST traversal the spec describes, but
// operates on internal/ir rather than re-walking the raw CST: lowering
// has already normalized both dialect families onto the same shape, so
// building the scope tree here avoids duplicating that normalization per
// grammar backend.
package scopebuild

import (
	"context"

	"github.com/woxQAQ/unified-sql-lsp-sub002/internal/catalog"
	"github.com/woxQAQ/unified-sql-lsp-sub002/internal/ir"
	"github.com/woxQAQ/unified-sql-lsp-sub002/internal/symbol"
)

// Diagnostic is a non-fatal issue surfaced during scope construction
// (spec §4.3: "duplicate alias -> error surfaced as a diagnostic; the
// first binding wins so resolution stays deterministic").
type Diagnostic struct {
	Message string
}

// Builder constructs scope trees, optionally consulting a Catalog to
// populate BaseTable columns. cat may be nil, in which case BaseTable
// symbols carry no column list (column resolution then always misses,
// degrading gracefully rather than failing scope construction).
type Builder struct {
	mgr   *symbol.ScopeManager
	cat   catalog.Catalog
	diags []Diagnostic
}

// New returns a Builder writing into a fresh ScopeManager.
func New(cat catalog.Catalog) *Builder {
	return &Builder{mgr: symbol.NewScopeManager(), cat: cat}
}

// Manager returns the ScopeManager the builder has populated so far.
func (b *Builder) Manager() *symbol.ScopeManager { return b.mgr }

// Diagnostics returns every non-fatal issue recorded during Build calls.
func (b *Builder) Diagnostics() []Diagnostic { return b.diags }

// Build constructs the scope tree for the top-level query q and returns
// the id of the scope the outer statement's column references resolve
// against.
func (b *Builder) Build(ctx context.Context, q *ir.Query) symbol.ScopeID {
	return b.buildQuery(ctx, q, symbol.NoScope, symbol.QueryScope)
}

func (b *Builder) buildQuery(ctx context.Context, q *ir.Query, parent symbol.ScopeID, kind symbol.Kind) symbol.ScopeID {
	if q == nil {
		return symbol.NoScope
	}

	s := b.mgr.NewScope(kind, parent)

	for _, cte := range q.With {
		b.buildCTE(ctx, s, cte)
	}

	switch {
	case q.Select != nil:
		b.buildSelect(ctx, s, q.Select)
	case q.SetOp != nil:
		// Each side of a set operation gets its own independent FROM
		// scope (a UNION's right side cannot see the left side's
		// tables); both are parented at s so they still see s's CTEs.
		b.buildQuery(ctx, q.SetOp.Left, s.ID, symbol.QueryScope)
		b.buildQuery(ctx, q.SetOp.Right, s.ID, symbol.QueryScope)
	}

	return s.ID
}

// buildCTE builds a WITH-list entry's body and registers it as a
// visible table in the enclosing scope. Per the recursive-CTE Open
// Question decision, a recursive CTE's own name is pre-registered into
// the scope created for its body before that body is walked, so a
// self-referencing UNION ALL branch resolves; non-recursive CTEs do not
// get this treatment, so a non-recursive self-reference (or a forward
// reference to a later WITH entry) correctly fails to resolve.
func (b *Builder) buildCTE(ctx context.Context, enclosing *symbol.Scope, cte ir.CTE) {
	bodyScope := b.mgr.NewScope(symbol.CTEScope, enclosing.ID)
	if cte.Recursive {
		b.mgr.AddTable(bodyScope, &symbol.TableSymbol{TableName: cte.Name, IsCTE: true})
	}

	if cte.Body != nil {
		switch {
		case cte.Body.Select != nil:
			b.buildSelect(ctx, bodyScope, cte.Body.Select)
		case cte.Body.SetOp != nil:
			b.buildQuery(ctx, cte.Body.SetOp.Left, bodyScope.ID, symbol.QueryScope)
			b.buildQuery(ctx, cte.Body.SetOp.Right, bodyScope.ID, symbol.QueryScope)
		}
	}

	if !b.mgr.AddTable(enclosing, &symbol.TableSymbol{TableName: cte.Name, IsCTE: true}) {
		b.diags = append(b.diags, Diagnostic{Message: "duplicate alias: " + cte.Name})
	}
}

func (b *Builder) buildSelect(ctx context.Context, s *symbol.Scope, sel *ir.SelectStatement) {
	if sel.From != nil {
		b.buildTableRef(ctx, s, sel.From)
	}
}

// buildTableRef walks a FROM-clause tree, adding a TableSymbol per base
// or derived table and recursing into joins and subqueries. Entering a
// subquery's body creates a Subquery scope per spec §4.3.
func (b *Builder) buildTableRef(ctx context.Context, s *symbol.Scope, ref ir.TableRef) {
	switch v := ref.(type) {
	case *ir.BaseTable:
		sym := &symbol.TableSymbol{TableName: v.Name, Alias: v.Alias}
		if b.cat != nil {
			qualified := v.Name
			if v.Schema != "" {
				qualified = v.Schema + "." + v.Name
			}
			if cols, err := b.cat.GetColumns(ctx, qualified); err == nil {
				sym.Columns = toColumnSymbols(cols)
			}
		}
		if !b.mgr.AddTable(s, sym) {
			b.diags = append(b.diags, Diagnostic{Message: "duplicate alias: " + sym.DisplayName()})
		}
	case *ir.SubqueryTable:
		b.buildQuery(ctx, v.Query, s.ID, symbol.SubqueryScope)
		// The subquery itself is also a visible "table" in the
		// enclosing scope under its alias, with no catalog-backed
		// columns of its own (its projection list would have to be
		// reflected back to synthesize those; out of scope here).
		b.mgr.AddTable(s, &symbol.TableSymbol{TableName: v.Alias, Alias: v.Alias})
	case *ir.Join:
		b.buildTableRef(ctx, s, v.Left)
		b.buildTableRef(ctx, s, v.Right)
	}
}

func toColumnSymbols(cols []catalog.ColumnMetadata) []symbol.ColumnSymbol {
	out := make([]symbol.ColumnSymbol, len(cols))
	for i, c := range cols {
		out[i] = symbol.ColumnSymbol{Name: c.Name, DataType: c.DataType, IsPK: c.IsPK, IsFK: c.IsFK}
	}
	return out
}
