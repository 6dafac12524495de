package lowering

import (
	"github.com/dolthub/vitess/go/vt/sqlparser"

	"github.com/woxQAQ/unified-sql-lsp-sub002/internal/ir"
)

// LowerMySQL lowers a vitess-parsed statement into the IR. It operates
// directly on the typed sqlparser.Statement rather than the generic
// cstutil.Node view: vitess, unlike tree-sitter, already hands back a
// fully typed AST, so re-deriving field access through the opaque
// string-keyed Node interface would only lose type safety for no
// benefit. The context detector and definition lookup use the generic
// cstutil view (they need ERROR-node/partial-parse tolerance); lowering
// only ever runs on an already-successful or already-partial-but-typed
// parse, so it can afford to be concrete.
func LowerMySQL(stmt sqlparser.Statement) Outcome {
	switch v := stmt.(type) {
	case *sqlparser.Select:
		sel, errs := lowerSelect(v)
		return Outcome{Query: &ir.Query{Select: sel}, Errors: errs}
	case *sqlparser.Union:
		return lowerUnion(v)
	default:
		return Outcome{Errors: []Error{{Message: "unsupported statement kind for lowering"}}}
	}
}

func lowerUnion(u *sqlparser.Union) Outcome {
	leftOut := LowerMySQL(u.Left)
	rightOut := LowerMySQL(u.Right)
	if leftOut.Query == nil || rightOut.Query == nil {
		return Outcome{Errors: append(leftOut.Errors, rightOut.Errors...)}
	}
	op := ir.Union
	switch u.Type {
	case sqlparser.UnionAllStr:
		op = ir.UnionAll
	case sqlparser.ExceptStr:
		op = ir.Except
	case sqlparser.IntersectStr:
		op = ir.Intersect
	}
	q := &ir.Query{SetOp: &ir.SetOperation{Left: leftOut.Query, Op: op, Right: rightOut.Query}}
	return Outcome{Query: q, Errors: append(leftOut.Errors, rightOut.Errors...)}
}

func lowerSelect(sel *sqlparser.Select) (*ir.SelectStatement, []Error) {
	var errs []Error
	out := &ir.SelectStatement{
		Distinct: sel.Distinct != "",
	}

	for _, item := range sel.SelectExprs {
		p, e := lowerSelectExpr(item)
		if e != nil {
			errs = append(errs, *e)
			continue
		}
		out.Projection = append(out.Projection, p)
	}

	if len(sel.From) > 0 {
		ref, e := lowerTableExprs(sel.From)
		if e != nil {
			errs = append(errs, *e)
		} else {
			out.From = ref
		}
	}

	if sel.Where != nil {
		out.Where = lowerExpr(sel.Where.Expr)
	}
	if sel.Having != nil {
		out.Having = lowerExpr(sel.Having.Expr)
	}
	for _, g := range sel.GroupBy {
		out.GroupBy = append(out.GroupBy, lowerExpr(g))
	}
	for _, o := range sel.OrderBy {
		out.OrderBy = append(out.OrderBy, ir.OrderItem{
			Expr: lowerExpr(o.Expr),
			Desc: o.Direction == sqlparser.DescScr,
		})
	}
	if sel.Limit != nil {
		lc := &ir.LimitClause{}
		if sel.Limit.Rowcount != nil {
			lc.Count = lowerExpr(sel.Limit.Rowcount)
		}
		if sel.Limit.Offset != nil {
			lc.Offset = lowerExpr(sel.Limit.Offset)
		}
		out.Limit = lc
	}

	return out, errs
}

func lowerSelectExpr(e sqlparser.SelectExpr) (ir.ProjectionItem, *Error) {
	switch v := e.(type) {
	case *sqlparser.StarExpr:
		qualifier := ""
		if !v.TableName.IsEmpty() {
			qualifier = v.TableName.Name.String()
		}
		return ir.ProjectionItem{Expr: &ir.Wildcard{Qualifier: qualifier}}, nil
	case *sqlparser.AliasedExpr:
		item := ir.ProjectionItem{Expr: lowerExpr(v.Expr)}
		if !v.As.IsEmpty() {
			item.Alias = v.As.String()
		}
		return item, nil
	default:
		return ir.ProjectionItem{}, &Error{Message: "unsupported select expression"}
	}
}

func lowerTableExprs(exprs sqlparser.TableExprs) (ir.TableRef, *Error) {
	var refs []ir.TableRef
	for _, te := range exprs {
		ref, err := lowerTableExpr(te)
		if err != nil {
			return nil, err
		}
		refs = append(refs, ref)
	}
	if len(refs) == 0 {
		return nil, &Error{Message: "empty FROM clause"}
	}
	// Bare comma-joined FROM entries are an implicit CROSS JOIN chain,
	// left-to-right, matching the textual wildcard-expansion ordering.
	out := refs[0]
	for _, r := range refs[1:] {
		out = &ir.Join{Left: out, Right: r, Kind: ir.CrossJoin}
	}
	return out, nil
}

func lowerTableExpr(te sqlparser.TableExpr) (ir.TableRef, *Error) {
	switch v := te.(type) {
	case *sqlparser.AliasedTableExpr:
		alias := v.As.String()
		switch expr := v.Expr.(type) {
		case sqlparser.TableName:
			return &ir.BaseTable{Schema: expr.Qualifier.String(), Name: expr.Name.String(), Alias: alias}, nil
		case *sqlparser.Subquery:
			subOut := LowerMySQL(expr.Select)
			return &ir.SubqueryTable{Query: subOut.Query, Alias: alias}, nil
		default:
			return nil, &Error{Message: "unsupported table expression"}
		}
	case *sqlparser.JoinTableExpr:
		left, err := lowerTableExpr(v.LeftExpr)
		if err != nil {
			return nil, err
		}
		right, err := lowerTableExpr(v.RightExpr)
		if err != nil {
			return nil, err
		}
		j := &ir.Join{Left: left, Right: right, Kind: joinKind(v.Join)}
		if v.Condition.On != nil {
			j.Condition = lowerExpr(v.Condition.On)
		}
		return j, nil
	case *sqlparser.ParenTableExpr:
		return lowerTableExprs(v.Exprs)
	default:
		return nil, &Error{Message: "unsupported table expression"}
	}
}

func joinKind(s string) ir.JoinKind {
	switch s {
	case sqlparser.LeftJoinStr, sqlparser.NaturalLeftJoinStr:
		return ir.LeftJoin
	case sqlparser.RightJoinStr, sqlparser.NaturalRightJoinStr:
		return ir.RightJoin
	case sqlparser.JoinStr, sqlparser.StraightJoinStr:
		return ir.InnerJoin
	default:
		return ir.InnerJoin
	}
}

func lowerExpr(e sqlparser.Expr) ir.Expr {
	switch v := e.(type) {
	case nil:
		return nil
	case *sqlparser.ColName:
		qualifier := ""
		if !v.Qualifier.IsEmpty() {
			qualifier = v.Qualifier.Name.String()
		}
		return &ir.ColumnRef{Qualifier: qualifier, Name: v.Name.String()}
	case *sqlparser.SQLVal:
		return lowerLiteral(v)
	case *sqlparser.NullVal:
		return &ir.Literal{Kind: ir.NullLiteral, Value: "NULL"}
	case sqlparser.BoolVal:
		val := "false"
		if bool(v) {
			val = "true"
		}
		return &ir.Literal{Kind: ir.BoolLiteral, Value: val}
	case *sqlparser.ComparisonExpr:
		return &ir.BinaryOp{Op: v.Operator, Left: lowerExpr(v.Left), Right: lowerExpr(v.Right)}
	case *sqlparser.AndExpr:
		return &ir.BinaryOp{Op: "AND", Left: lowerExpr(v.Left), Right: lowerExpr(v.Right)}
	case *sqlparser.OrExpr:
		return &ir.BinaryOp{Op: "OR", Left: lowerExpr(v.Left), Right: lowerExpr(v.Right)}
	case *sqlparser.BinaryExpr:
		return &ir.BinaryOp{Op: v.Operator, Left: lowerExpr(v.Left), Right: lowerExpr(v.Right)}
	case *sqlparser.NotExpr:
		return &ir.UnaryOp{Op: "NOT", Operand: lowerExpr(v.Expr)}
	case *sqlparser.UnaryExpr:
		return &ir.UnaryOp{Op: v.Operator, Operand: lowerExpr(v.Expr)}
	case *sqlparser.ParenExpr:
		return &ir.ParenExpr{Inner: lowerExpr(v.Expr)}
	case *sqlparser.FuncExpr:
		fc := &ir.FuncCall{Name: v.Name.String(), Distinct: v.Distinct}
		for _, a := range v.Exprs {
			if aliased, ok := a.(*sqlparser.AliasedExpr); ok {
				fc.Args = append(fc.Args, lowerExpr(aliased.Expr))
			}
		}
		return fc
	case *sqlparser.CaseExpr:
		ce := &ir.CaseExpr{}
		if v.Expr != nil {
			ce.Operand = lowerExpr(v.Expr)
		}
		for _, w := range v.Whens {
			ce.Whens = append(ce.Whens, ir.WhenClause{Condition: lowerExpr(w.Cond), Result: lowerExpr(w.Val)})
		}
		if v.Else != nil {
			ce.Else = lowerExpr(v.Else)
		}
		return ce
	case *sqlparser.ConvertExpr:
		return &ir.CastExpr{Operand: lowerExpr(v.Expr), TypeName: v.Type.Type}
	case sqlparser.ValTuple:
		list := &ir.ListExpr{}
		for _, item := range v {
			list.Items = append(list.Items, lowerExpr(item))
		}
		return list
	default:
		// Unsupported expression shapes lower to an opaque literal of
		// their rendered text, so downstream consumers still have
		// something positional to point at.
		return &ir.Literal{Kind: ir.StringLiteral, Value: sqlparser.String(e)}
	}
}

func lowerLiteral(v *sqlparser.SQLVal) *ir.Literal {
	switch v.Type {
	case sqlparser.StrVal:
		return &ir.Literal{Kind: ir.StringLiteral, Value: string(v.Val)}
	case sqlparser.IntVal, sqlparser.FloatVal, sqlparser.HexNum, sqlparser.HexVal, sqlparser.BitVal:
		return &ir.Literal{Kind: ir.NumberLiteral, Value: string(v.Val)}
	default:
		return &ir.Literal{Kind: ir.StringLiteral, Value: string(v.Val)}
	}
}
