package cstutil

import (
	"fmt"
	"strings"

	"github.com/dolthub/vitess/go/vt/sqlparser"
)

// genNode is the generic CST node built by wrapping a vitess AST. Byte
// ranges are approximate: vitess's sqlparser.SQLNode carries no native
// position information, so Build locates each node's rendered text by
// scanning forward from the end of the previously visited sibling. This
// is monotonic within one statement and correct for well-formed,
// single-line-per-clause SQL; pathological whitespace/formatting can
// shift a range by a few bytes. Downstream consumers only ever need
// "smallest node containing offset" and adjacency to a keyword, both of
// which tolerate this approximation.
type genNode struct {
	kind     string
	start    int
	end      int
	parent   *genNode
	children []*genNode
	fields   map[string]*genNode
}

func (n *genNode) Kind() string                    { return n.kind }
func (n *genNode) ByteRange() (start, end int)      { return n.start, n.end }
func (n *genNode) Parent() Node {
	if n.parent == nil {
		return nil
	}
	return n.parent
}

func (n *genNode) Children() []Node {
	out := make([]Node, len(n.children))
	for i, c := range n.children {
		out[i] = c
	}
	return out
}

func (n *genNode) ChildByField(name string) (Node, bool) {
	c, ok := n.fields[name]
	if !ok {
		return nil, false
	}
	return c, true
}

// kindOf derives a grammar-style label from a vitess AST node's Go type,
// e.g. "*sqlparser.Select" -> "select_statement" via the curated table
// below, falling back to a snake_cased type name for anything unmapped
// so unknown kinds degrade gracefully per spec §4.2(d).
func kindOf(n sqlparser.SQLNode) string {
	t := fmt.Sprintf("%T", n)
	t = strings.TrimPrefix(t, "*sqlparser.")
	t = strings.TrimPrefix(t, "sqlparser.")
	if kind, ok := nodeKindTable[t]; ok {
		return kind
	}
	return toSnakeCase(t)
}

var nodeKindTable = map[string]string{
	"Select":           "select_statement",
	"Union":            "select_statement",
	"Insert":           "insert_statement",
	"Update":           "update_statement",
	"Delete":           "delete_statement",
	"Where":            "where_clause",
	"GroupBy":          "group_by_clause",
	"OrderBy":          "order_by_clause",
	"Limit":            "limit_clause",
	"JoinTableExpr":    "join_clause",
	"AliasedTableExpr": "table_reference",
	"TableName":        "table_name",
	"ColName":          "column_reference",
	"ColIdent":         "identifier",
	"TableIdent":       "identifier",
	"AliasedExpr":      "expression",
	"FuncExpr":         "function_call",
	"With":             "cte_definition_list",
	"CommonTableExpr":  "cte_definition",
	"OverClause":       "window_clause",
	"TableExprs":       "from_clause",
	"SelectExprs":      "select_clause",
}

// indexField names positional children of a slice-typed vitess node
// ("0", "1", ...) since those nodes have no natural grammar field names.
func indexField(i int) string {
	return fmt.Sprintf("%d", i)
}

// fieldOrder lists fieldsOf's named fields in the order their text
// appears in a statement. convert visits positional fields ("0", "1",
// ...) first and then these, so Children comes out in source order.
var fieldOrder = []string{"select_exprs", "from", "where", "group_by", "having", "order_by", "limit", "left", "right", "condition", "expr"}

func toSnakeCase(s string) string {
	var b strings.Builder
	for i, r := range s {
		if i > 0 && r >= 'A' && r <= 'Z' {
			b.WriteByte('_')
		}
		b.WriteRune(r)
	}
	return strings.ToLower(b.String())
}

// builder walks a vitess AST, producing a genNode tree while tracking a
// forward-scanning text cursor to approximate byte ranges.
type builder struct {
	text   string
	cursor int
}

// BuildFromStatement converts a parsed vitess statement into a generic
// CST rooted at a single genNode. It never fails: any node it cannot
// place gets the remaining unconsumed span.
func BuildFromStatement(text string, stmt sqlparser.Statement) Node {
	b := &builder{text: text}
	root := b.convert(stmt, nil)
	return root
}

func (b *builder) convert(n sqlparser.SQLNode, parent *genNode) *genNode {
	if n == nil {
		return nil
	}
	rendered := sqlparser.String(n)
	start, found := b.locate(rendered)
	end := start + len(rendered)
	if end > len(b.text) {
		end = len(b.text)
	}

	gn := &genNode{
		kind:   kindOf(n),
		start:  start,
		end:    end,
		parent: parent,
		fields: make(map[string]*genNode),
	}

	fields := fieldsOf(n)
	names := make([]string, 0, len(fields)+len(fieldOrder))
	for i := 0; i < len(fields); i++ {
		names = append(names, indexField(i))
	}
	names = append(names, fieldOrder...)
	for _, name := range names {
		child, ok := fields[name]
		if !ok || child == nil {
			continue
		}
		cn := b.convert(child, gn)
		gn.fields[name] = cn
		gn.children = append(gn.children, cn)
	}
	if found && end > b.cursor {
		b.cursor = end
	}

	return gn
}

// locate moves the cursor to the first case-insensitive occurrence of
// rendered at or after the current cursor position and reports whether
// it found one, or leaves the cursor unchanged if not found (formatting
// drift between the original text and vitess's canonical re-rendering).
// The cursor stays at the start of the match so the node's children are
// searched inside it; convert moves it past the match afterwards.
func (b *builder) locate(rendered string) (int, bool) {
	if rendered == "" {
		return b.cursor, false
	}
	for pos := b.cursor; pos+len(rendered) <= len(b.text); pos++ {
		if strings.EqualFold(b.text[pos:pos+len(rendered)], rendered) {
			b.cursor = pos
			return pos, true
		}
	}
	return b.cursor, false
}

// fieldsOf returns the grammar-field-name -> child-node mapping for the
// vitess AST node kinds the context detector and scope builder care
// about (spec §6 "CST node kinds consumed"). Unmapped node types return
// an empty map; Children() is then empty but Kind()/ByteRange() still
// work, satisfying "unknown kinds are tolerated".
func fieldsOf(n sqlparser.SQLNode) map[string]sqlparser.SQLNode {
	switch v := n.(type) {
	case *sqlparser.Select:
		m := map[string]sqlparser.SQLNode{}
		if len(v.SelectExprs) > 0 {
			m["select_exprs"] = v.SelectExprs
		}
		if len(v.From) > 0 {
			m["from"] = v.From
		}
		if v.Where != nil {
			m["where"] = v.Where
		}
		if v.GroupBy != nil {
			m["group_by"] = v.GroupBy
		}
		if v.Having != nil {
			m["having"] = v.Having
		}
		if v.OrderBy != nil {
			m["order_by"] = v.OrderBy
		}
		if v.Limit != nil {
			m["limit"] = v.Limit
		}
		return m
	case sqlparser.TableExprs:
		m := map[string]sqlparser.SQLNode{}
		for i, te := range v {
			m[indexField(i)] = te
		}
		return m
	case sqlparser.SelectExprs:
		m := map[string]sqlparser.SQLNode{}
		for i, se := range v {
			m[indexField(i)] = se
		}
		return m
	case *sqlparser.AliasedExpr:
		return map[string]sqlparser.SQLNode{"expr": v.Expr}
	case *sqlparser.JoinTableExpr:
		m := map[string]sqlparser.SQLNode{
			"left":  v.LeftExpr,
			"right": v.RightExpr,
		}
		if v.Condition.On != nil {
			m["condition"] = v.Condition.On
		}
		return m
	case *sqlparser.Where:
		return map[string]sqlparser.SQLNode{"expr": v.Expr}
	case *sqlparser.AliasedTableExpr:
		return map[string]sqlparser.SQLNode{"expr": v.Expr}
	case *sqlparser.ComparisonExpr:
		return map[string]sqlparser.SQLNode{"left": v.Left, "right": v.Right}
	case *sqlparser.AndExpr:
		return map[string]sqlparser.SQLNode{"left": v.Left, "right": v.Right}
	case *sqlparser.OrExpr:
		return map[string]sqlparser.SQLNode{"left": v.Left, "right": v.Right}
	default:
		return nil
	}
}
