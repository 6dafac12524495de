package lowering

import (
	pgquery "github.com/pganalyze/pg_query_go/v5"

	"github.com/woxQAQ/unified-sql-lsp-sub002/internal/ir"
)

// LowerPostgres lowers a pg_query_go-parsed statement into the IR. Unlike
// vitess, pg_query_go's tree is a protobuf node graph (every concrete
// shape reached through GetXxx() oneof accessors, all nil-safe), so this
// side of lowering reads more defensively than the MySQL side: a missing
// or unhandled expression shape degrades to a NULL-literal placeholder
// (with no Error entry), and an unhandled FROM entry to an Error entry,
// rather than a panic, consistent with this package's general
// "never fail hard" contract.
func LowerPostgres(stmt *pgquery.RawStmt) Outcome {
	sel := stmt.GetStmt().GetSelectStmt()
	if sel == nil {
		return Outcome{Errors: []Error{{Message: "unsupported statement kind for lowering"}}}
	}
	q, errs := lowerPGQuery(sel)
	return Outcome{Query: q, Errors: errs}
}

func lowerPGQuery(sel *pgquery.SelectStmt) (*ir.Query, []Error) {
	if sel.GetOp() != pgquery.SetOperation_SETOP_NONE {
		left, lerrs := lowerPGQuery(sel.GetLarg())
		right, rerrs := lowerPGQuery(sel.GetRarg())
		errs := append(lerrs, rerrs...)
		if left == nil || right == nil {
			return nil, errs
		}
		op := setOpKind(sel.GetOp(), sel.GetAll())
		return &ir.Query{SetOp: &ir.SetOperation{Left: left, Op: op, Right: right}}, errs
	}

	stmt, errs := lowerPGSelect(sel)
	return &ir.Query{Select: stmt}, errs
}

func setOpKind(op pgquery.SetOperation, all bool) ir.SetOperationKind {
	switch op {
	case pgquery.SetOperation_SETOP_UNION:
		if all {
			return ir.UnionAll
		}
		return ir.Union
	case pgquery.SetOperation_SETOP_INTERSECT:
		return ir.Intersect
	case pgquery.SetOperation_SETOP_EXCEPT:
		return ir.Except
	default:
		return ir.Union
	}
}

func lowerPGSelect(sel *pgquery.SelectStmt) (*ir.SelectStatement, []Error) {
	var errs []Error
	out := &ir.SelectStatement{Distinct: sel.GetDistinctClause() != nil}

	for _, rt := range sel.GetTargetList() {
		target := rt.GetResTarget()
		if target == nil {
			continue
		}
		item := ir.ProjectionItem{Expr: lowerPGNode(target.GetVal()), Alias: target.GetName()}
		out.Projection = append(out.Projection, item)
	}

	if from := sel.GetFromClause(); len(from) > 0 {
		ref, err := lowerPGFromList(from)
		if err != nil {
			errs = append(errs, *err)
		} else {
			out.From = ref
		}
	}

	if w := sel.GetWhereClause(); w != nil {
		out.Where = lowerPGNode(w)
	}
	if h := sel.GetHavingClause(); h != nil {
		out.Having = lowerPGNode(h)
	}
	for _, g := range sel.GetGroupClause() {
		out.GroupBy = append(out.GroupBy, lowerPGNode(g))
	}
	for _, s := range sel.GetSortClause() {
		sb := s.GetSortBy()
		if sb == nil {
			continue
		}
		out.OrderBy = append(out.OrderBy, ir.OrderItem{
			Expr: lowerPGNode(sb.GetNode()),
			Desc: sb.GetSortbyDir() == pgquery.SortByDir_SORTBY_DESC,
		})
	}
	if sel.GetLimitCount() != nil || sel.GetLimitOffset() != nil {
		out.Limit = &ir.LimitClause{
			Count:  lowerPGNode(sel.GetLimitCount()),
			Offset: lowerPGNode(sel.GetLimitOffset()),
		}
	}

	return out, errs
}

func lowerPGFromList(nodes []*pgquery.Node) (ir.TableRef, *Error) {
	var refs []ir.TableRef
	for _, n := range nodes {
		ref, err := lowerPGTableExpr(n)
		if err != nil {
			return nil, err
		}
		refs = append(refs, ref)
	}
	if len(refs) == 0 {
		return nil, &Error{Message: "empty FROM clause"}
	}
	out := refs[0]
	for _, r := range refs[1:] {
		out = &ir.Join{Left: out, Right: r, Kind: ir.CrossJoin}
	}
	return out, nil
}

func lowerPGTableExpr(n *pgquery.Node) (ir.TableRef, *Error) {
	switch {
	case n.GetRangeVar() != nil:
		rv := n.GetRangeVar()
		alias := ""
		if a := rv.GetAlias(); a != nil {
			alias = a.GetAliasname()
		}
		return &ir.BaseTable{Schema: rv.GetSchemaname(), Name: rv.GetRelname(), Alias: alias}, nil
	case n.GetRangeSubselect() != nil:
		rs := n.GetRangeSubselect()
		alias := ""
		if a := rs.GetAlias(); a != nil {
			alias = a.GetAliasname()
		}
		sub := rs.GetSubquery().GetSelectStmt()
		var subQuery *ir.Query
		if sub != nil {
			subQuery, _ = lowerPGQuery(sub)
		}
		return &ir.SubqueryTable{Query: subQuery, Alias: alias, Lateral: rs.GetLateral()}, nil
	case n.GetJoinExpr() != nil:
		je := n.GetJoinExpr()
		left, err := lowerPGTableExpr(je.GetLarg())
		if err != nil {
			return nil, err
		}
		right, err := lowerPGTableExpr(je.GetRarg())
		if err != nil {
			return nil, err
		}
		j := &ir.Join{Left: left, Right: right, Kind: pgJoinKind(je.GetJointype())}
		if je.GetQuals() != nil {
			j.Condition = lowerPGNode(je.GetQuals())
		}
		return j, nil
	default:
		return nil, &Error{Message: "unsupported table expression"}
	}
}

func pgJoinKind(t pgquery.JoinType) ir.JoinKind {
	switch t {
	case pgquery.JoinType_JOIN_LEFT:
		return ir.LeftJoin
	case pgquery.JoinType_JOIN_RIGHT:
		return ir.RightJoin
	case pgquery.JoinType_JOIN_FULL:
		return ir.FullOuterJoinKind
	default:
		return ir.InnerJoin
	}
}

func lowerPGNode(n *pgquery.Node) ir.Expr {
	switch {
	case n == nil:
		return nil
	case n.GetColumnRef() != nil:
		return lowerPGColumnRef(n.GetColumnRef())
	case n.GetAConst() != nil:
		return lowerPGAConst(n.GetAConst())
	case n.GetAExpr() != nil:
		ae := n.GetAExpr()
		op := ""
		if names := ae.GetName(); len(names) > 0 {
			op = names[0].GetString_().GetSval()
		}
		return &ir.BinaryOp{Op: op, Left: lowerPGNode(ae.GetLexpr()), Right: lowerPGNode(ae.GetRexpr())}
	case n.GetBoolExpr() != nil:
		return lowerPGBoolExpr(n.GetBoolExpr())
	case n.GetFuncCall() != nil:
		fc := n.GetFuncCall()
		name := ""
		if names := fc.GetFuncname(); len(names) > 0 {
			name = names[len(names)-1].GetString_().GetSval()
		}
		call := &ir.FuncCall{Name: name, Distinct: fc.GetAggDistinct()}
		for _, a := range fc.GetArgs() {
			call.Args = append(call.Args, lowerPGNode(a))
		}
		return call
	case n.GetCaseExpr() != nil:
		ce := n.GetCaseExpr()
		out := &ir.CaseExpr{Operand: lowerPGNode(ce.GetArg())}
		for _, w := range ce.GetArgs() {
			cw := w.GetCaseWhen()
			if cw == nil {
				continue
			}
			out.Whens = append(out.Whens, ir.WhenClause{Condition: lowerPGNode(cw.GetExpr()), Result: lowerPGNode(cw.GetResult())})
		}
		out.Else = lowerPGNode(ce.GetDefresult())
		return out
	case n.GetTypeCast() != nil:
		tc := n.GetTypeCast()
		typeName := ""
		if names := tc.GetTypeName().GetNames(); len(names) > 0 {
			typeName = names[len(names)-1].GetString_().GetSval()
		}
		return &ir.CastExpr{Operand: lowerPGNode(tc.GetArg()), TypeName: typeName}
	case n.GetAStar() != nil:
		return &ir.Wildcard{}
	default:
		// Unsupported node shapes (SubLink, ParamRef, etc.) lower to a
		// nil-safe opaque literal placeholder rather than failing the
		// whole statement.
		return &ir.Literal{Kind: ir.NullLiteral, Value: "NULL"}
	}
}

func lowerPGColumnRef(cr *pgquery.ColumnRef) ir.Expr {
	fields := cr.GetFields()
	if len(fields) == 0 {
		return &ir.Wildcard{}
	}
	if len(fields) == 1 {
		if fields[0].GetAStar() != nil {
			return &ir.Wildcard{}
		}
		return &ir.ColumnRef{Name: fields[0].GetString_().GetSval()}
	}
	qualifier := fields[0].GetString_().GetSval()
	last := fields[len(fields)-1]
	if last.GetAStar() != nil {
		return &ir.Wildcard{Qualifier: qualifier}
	}
	return &ir.ColumnRef{Qualifier: qualifier, Name: last.GetString_().GetSval()}
}

func lowerPGAConst(c *pgquery.A_Const) *ir.Literal {
	switch {
	case c.GetIsnull():
		return &ir.Literal{Kind: ir.NullLiteral, Value: "NULL"}
	case c.GetIval() != nil:
		return &ir.Literal{Kind: ir.NumberLiteral, Value: c.GetIval().String()}
	case c.GetFval() != nil:
		return &ir.Literal{Kind: ir.NumberLiteral, Value: c.GetFval().GetFval()}
	case c.GetSval() != nil:
		return &ir.Literal{Kind: ir.StringLiteral, Value: c.GetSval().GetSval()}
	case c.GetBoolval() != nil:
		val := "false"
		if c.GetBoolval().GetBoolval() {
			val = "true"
		}
		return &ir.Literal{Kind: ir.BoolLiteral, Value: val}
	default:
		return &ir.Literal{Kind: ir.NullLiteral, Value: "NULL"}
	}
}

func lowerPGBoolExpr(b *pgquery.BoolExpr) ir.Expr {
	args := b.GetArgs()
	switch b.GetBoolop() {
	case pgquery.BoolExprType_NOT_EXPR:
		if len(args) == 0 {
			return nil
		}
		return &ir.UnaryOp{Op: "NOT", Operand: lowerPGNode(args[0])}
	case pgquery.BoolExprType_OR_EXPR:
		return foldBinary("OR", args)
	default:
		return foldBinary("AND", args)
	}
}

// foldBinary folds a variadic AND/OR argument list (pg_query_go's
// BoolExpr is n-ary) into the IR's binary-only BinaryOp, left-associative.
func foldBinary(op string, args []*pgquery.Node) ir.Expr {
	if len(args) == 0 {
		return nil
	}
	out := lowerPGNode(args[0])
	for _, a := range args[1:] {
		out = &ir.BinaryOp{Op: op, Left: out, Right: lowerPGNode(a)}
	}
	return out
}
