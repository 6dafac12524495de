package resolver

import (
	"github.com/woxQAQ/unified-sql-lsp-sub002/internal/ir"
	"github.com/woxQAQ/unified-sql-lsp-sub002/internal/symbol"
)

// DiagnoseSelect resolves every unqualified column reference in sel's
// projection, WHERE, and GROUP BY list against scopeID, and flags a
// HAVING clause with no GROUP BY. It never touches the catalog (only
// ResolveTable does), so it is safe to run on every Diagnostics request.
func (r *Resolver) DiagnoseSelect(scopeID symbol.ScopeID, sel *ir.SelectStatement) []error {
	var errs []error

	resolve := func(e ir.Expr) {
		for _, ref := range unqualifiedColumnRefs(e) {
			if _, err := r.ResolveColumn(scopeID, ref.Name); err != nil {
				errs = append(errs, err)
			}
		}
	}

	for _, item := range sel.Projection {
		resolve(item.Expr)
	}
	resolve(sel.Where)
	for _, g := range sel.GroupBy {
		resolve(g)
	}
	resolve(sel.Having)

	if sel.Having != nil && len(sel.GroupBy) == 0 {
		errs = append(errs, ErrHavingWithoutGroupBy.New())
	}

	return errs
}

// unqualifiedColumnRefs walks e and every subexpression it contains,
// collecting each *ir.ColumnRef with no table qualifier. Qualified
// references (t.id) are skipped: they resolve directly against their
// named table and cannot be ambiguous the way a bare name can.
func unqualifiedColumnRefs(e ir.Expr) []*ir.ColumnRef {
	var out []*ir.ColumnRef
	switch v := e.(type) {
	case nil:
	case *ir.ColumnRef:
		if v.Qualifier == "" {
			out = append(out, v)
		}
	case *ir.BinaryOp:
		out = append(out, unqualifiedColumnRefs(v.Left)...)
		out = append(out, unqualifiedColumnRefs(v.Right)...)
	case *ir.UnaryOp:
		out = append(out, unqualifiedColumnRefs(v.Operand)...)
	case *ir.FuncCall:
		for _, a := range v.Args {
			out = append(out, unqualifiedColumnRefs(a)...)
		}
	case *ir.CaseExpr:
		out = append(out, unqualifiedColumnRefs(v.Operand)...)
		for _, w := range v.Whens {
			out = append(out, unqualifiedColumnRefs(w.Condition)...)
			out = append(out, unqualifiedColumnRefs(w.Result)...)
		}
		out = append(out, unqualifiedColumnRefs(v.Else)...)
	case *ir.CastExpr:
		out = append(out, unqualifiedColumnRefs(v.Operand)...)
	case *ir.ParenExpr:
		out = append(out, unqualifiedColumnRefs(v.Inner)...)
	case *ir.ListExpr:
		for _, item := range v.Items {
			out = append(out, unqualifiedColumnRefs(item)...)
		}
	}
	return out
}
