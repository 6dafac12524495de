package detector

import (
	"strings"

	"github.com/woxQAQ/unified-sql-lsp-sub002/internal/cstutil"
	"github.com/woxQAQ/unified-sql-lsp-sub002/internal/dialect"
)

// anchorKind is the closed set of CST kind labels that determine the
// primary completion tag, per spec §4.2 step 2.
type anchorKind string

const (
	anchorSelect  anchorKind = "select_clause"
	anchorFrom    anchorKind = "from_clause"
	anchorJoin    anchorKind = "join_clause"
	anchorWhere   anchorKind = "where_clause"
	anchorGroupBy anchorKind = "group_by_clause"
	anchorOrderBy anchorKind = "order_by_clause"
	anchorHaving  anchorKind = "having_clause"
	anchorWindow  anchorKind = "window_clause"
	anchorCTEList anchorKind = "cte_definition_list"
	anchorCTE     anchorKind = "cte_definition"
	anchorInsert  anchorKind = "insert_statement"
	anchorUpdate  anchorKind = "update_statement"
)

// anchorTable maps every per-family anchor kind to the closed set above.
// Today both dialect families are normalized onto the same cstutil kind
// strings (only a MySQL-family CST backend exists; see DESIGN.md), so
// the table is identical across families. It is still keyed by family,
// not flattened, so a future PostgreSQL-family grammar backend that
// chooses different kind labels only needs a new table entry here, not
// a change to the algorithm below — the per-family split the context
// detector is specified to have (spec §4.2(d), §9 "multi-dialect
// sharing").
var anchorTable = map[dialect.Family]map[string]anchorKind{
	dialect.MySQLFamily: {
		"select_clause":       anchorSelect,
		"from_clause":         anchorFrom,
		"join_clause":         anchorJoin,
		"where_clause":        anchorWhere,
		"group_by_clause":     anchorGroupBy,
		"order_by_clause":     anchorOrderBy,
		"having_clause":       anchorHaving,
		"window_clause":       anchorWindow,
		"cte_definition_list": anchorCTEList,
		"cte_definition":      anchorCTE,
		"insert_statement":    anchorInsert,
		"update_statement":    anchorUpdate,
	},
	dialect.PostgreSQLFamily: {
		"select_clause":       anchorSelect,
		"from_clause":         anchorFrom,
		"join_clause":         anchorJoin,
		"where_clause":        anchorWhere,
		"group_by_clause":     anchorGroupBy,
		"order_by_clause":     anchorOrderBy,
		"having_clause":       anchorHaving,
		"window_clause":       anchorWindow,
		"cte_definition_list": anchorCTEList,
		"cte_definition":      anchorCTE,
		"insert_statement":    anchorInsert,
		"update_statement":    anchorUpdate,
	},
}

// Detect classifies the cursor at byte offset in text, walking root (a
// cstutil.Node as produced by the parser for d's family). It is a pure
// function: identical arguments always produce an identical result.
func Detect(d dialect.Dialect, root cstutil.Node, text string, offset int) CompletionContext {
	if root == nil {
		return Unknown{}
	}
	if offset < 0 {
		offset = 0
	}
	if offset > len(text) {
		offset = len(text)
	}

	if isInCommentOrString(text, offset) {
		return Unknown{}
	}

	node := smallestNodeAt(root, offset)
	if node == nil {
		return Unknown{}
	}

	table := anchorTable[d.Family()]
	qualifier := qualifierBefore(text, offset)

	for n := node; n != nil; n = n.Parent() {
		kind, ok := table[n.Kind()]
		if !ok {
			continue
		}
		switch kind {
		case anchorSelect:
			return SelectProjection{VisibleTables: enclosingVisibleTables(n, text), Qualifier: qualifier}
		case anchorFrom:
			return FromClause{ExcludeTables: visibleTables(n, text)}
		case anchorJoin:
			tables := joinSides(n, text)
			// A cursor before the ON keyword (still textually left of any
			// condition child) is completing the join target; once a
			// condition child exists and contains the cursor, it's JoinOn.
			if cond, ok := n.ChildByField("condition"); ok && containsOffset(cond, offset) {
				if len(tables) >= 2 {
					return JoinOn{LeftTable: tables[0], RightTable: tables[1]}
				}
				return JoinOn{}
			}
			return JoinTarget{ExistingTables: tables}
		case anchorWhere:
			return WherePredicate{VisibleTables: enclosingVisibleTables(n, text), Qualifier: qualifier}
		case anchorGroupBy, anchorOrderBy:
			return GroupOrderBy{VisibleTables: enclosingVisibleTables(n, text)}
		case anchorHaving:
			return Having{VisibleTables: enclosingVisibleTables(n, text), GroupKeys: groupKeys(n, text)}
		case anchorWindow:
			return WindowFunctionClause{VisibleTables: enclosingVisibleTables(n, text), Part: windowPart(text, n, offset)}
		case anchorCTEList, anchorCTE:
			return CteDefinition{}
		case anchorInsert:
			return InsertTarget{}
		case anchorUpdate:
			return UpdateTarget{}
		}
	}

	// Nothing anchored: fall back to the statement kind at the root, or
	// Unknown for out-of-statement whitespace (spec §4.2 step 6).
	if kind := statementKind(node); kind != "" {
		return Keywords{StatementKind: kind}
	}
	return Unknown{}
}

// smallestNodeAt descends from n to the smallest child whose byte range
// contains offset, walking through ERROR nodes the same as any other
// kind so a malformed statement still yields a useful anchor (spec
// §4.2(c)).
func smallestNodeAt(n cstutil.Node, offset int) cstutil.Node {
	best := n
	for {
		var next cstutil.Node
		for _, c := range best.Children() {
			if containsOffset(c, offset) {
				next = c
				break
			}
		}
		if next == nil {
			return best
		}
		best = next
	}
}

func containsOffset(n cstutil.Node, offset int) bool {
	start, end := n.ByteRange()
	return offset >= start && offset <= end
}

// visibleTables extracts the lexical table names from a from_clause (or
// join_clause) node's table_reference descendants. Per spec's "lexical
// set of visible tables" wording, this reads names directly out of the
// source text rather than going through symbol resolution (that's the
// resolver's separate job).
func visibleTables(n cstutil.Node, text string) []string {
	var out []string
	var walk func(cstutil.Node)
	walk = func(cur cstutil.Node) {
		if cur.Kind() == "table_reference" {
			if name := tableReferenceName(cur, text); name != "" {
				out = append(out, name)
			}
			return
		}
		for _, c := range cur.Children() {
			walk(c)
		}
	}
	walk(n)
	return out
}

// tableReferenceName reads the rendered span of a table_reference node
// directly out of the source text and returns its last whitespace
// token, which is the alias when present (`users u`, `users AS u`) and
// the bare table name otherwise.
func tableReferenceName(n cstutil.Node, text string) string {
	start, end := n.ByteRange()
	if start < 0 || end > len(text) || start > end {
		return ""
	}
	span := strings.TrimSpace(text[start:end])
	fields := strings.Fields(span)
	if len(fields) == 0 {
		return ""
	}
	last := fields[len(fields)-1]
	if strings.EqualFold(last, "AS") {
		return fields[0]
	}
	return strings.Trim(last, "`\"")
}

// enclosingVisibleTables climbs from a clause node to its enclosing
// select_statement and returns that statement's visible tables.
func enclosingVisibleTables(n cstutil.Node, text string) []string {
	for cur := n; cur != nil; cur = cur.Parent() {
		if cur.Kind() == "select_statement" {
			for _, c := range cur.Children() {
				if c.Kind() == "from_clause" {
					return visibleTables(c, text)
				}
			}
		}
	}
	return nil
}

func joinSides(n cstutil.Node, text string) []string {
	var out []string
	if l, ok := n.ChildByField("left"); ok {
		out = append(out, visibleTables(l, text)...)
	}
	if r, ok := n.ChildByField("right"); ok {
		out = append(out, visibleTables(r, text)...)
	}
	return out
}

func groupKeys(havingNode cstutil.Node, text string) []string {
	for cur := havingNode; cur != nil; cur = cur.Parent() {
		if cur.Kind() == "select_statement" {
			for _, c := range cur.Children() {
				if c.Kind() == "group_by_clause" {
					return groupByIdentifiers(c, text)
				}
			}
		}
	}
	return nil
}

// groupByIdentifiers reads GROUP BY's key expressions textually: the
// generic CST doesn't give group_by_clause structured field children
// (vitess's GroupBy is a flat expression list with no named fields), so
// this splits its rendered span on commas.
func groupByIdentifiers(n cstutil.Node, text string) []string {
	start, end := n.ByteRange()
	if start < 0 || end > len(text) || start > end {
		return nil
	}
	raw := strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(text[start:end]), "group by"))
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// windowPart classifies position inside a window_clause by the nearest
// keyword token textually left of the cursor (spec §4.2 step 5).
func windowPart(text string, win cstutil.Node, offset int) WindowPart {
	start, _ := win.ByteRange()
	if start > offset {
		start = 0
	}
	segment := strings.ToUpper(text[start:offset])
	partitionIdx := strings.LastIndex(segment, "PARTITION BY")
	orderIdx := strings.LastIndex(segment, "ORDER BY")
	frameIdx := -1
	for _, kw := range []string{"ROWS", "RANGE"} {
		if idx := strings.LastIndex(segment, kw); idx > frameIdx {
			frameIdx = idx
		}
	}
	switch {
	case frameIdx > orderIdx && frameIdx > partitionIdx:
		return Frame
	case orderIdx > partitionIdx:
		return OrderByPart
	default:
		return PartitionBy
	}
}

// qualifierBefore implements spec §4.2 step 4: if the text immediately
// left of offset is `ident.`, return ident.
func qualifierBefore(text string, offset int) string {
	if offset == 0 || offset > len(text) || text[offset-1] != '.' {
		return ""
	}
	i := offset - 2
	end := i + 1
	for i >= 0 && isIdentByte(text[i]) {
		i--
	}
	if end <= i {
		return ""
	}
	return text[i+1 : end]
}

func isIdentByte(b byte) bool {
	return b == '_' || (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z') || (b >= '0' && b <= '9')
}

// IdentifierAt returns the identifier touching offset (the identifier
// ending exactly at offset takes precedence, falling back to the one
// starting at offset) and, if it is qualified (`table.column`), the
// qualifier before it. Used by hover and go-to-definition to turn a
// cursor position into the same (qualifier, identifier) pair the
// completion engine already derives via qualifierBefore.
func IdentifierAt(text string, offset int) (qualifier, identifier string) {
	if offset < 0 {
		offset = 0
	}
	if offset > len(text) {
		offset = len(text)
	}

	start := offset
	for start > 0 && isIdentByte(text[start-1]) {
		start--
	}
	end := offset
	for end < len(text) && isIdentByte(text[end]) {
		end++
	}
	if start == end {
		return "", ""
	}
	identifier = text[start:end]
	qualifier = qualifierBefore(text, start)
	return qualifier, identifier
}

// statementKind returns the nearest statement-level kind ancestor's
// label, stripped of its "_statement" suffix, or "" if none is found
// (e.g. a flat ERROR-token tree with no structural ancestor at all).
func statementKind(n cstutil.Node) string {
	for cur := n; cur != nil; cur = cur.Parent() {
		k := cur.Kind()
		if strings.HasSuffix(k, "_statement") {
			return strings.TrimSuffix(k, "_statement")
		}
	}
	return ""
}

// isInCommentOrString is a lightweight textual check: SQL line/block
// comments and string literals are not represented as addressable CST
// nodes the detector anchors on, so this scans the raw source rather
// than the tree (spec's boundary case "cursor inside a comment or
// string literal").
func isInCommentOrString(text string, offset int) bool {
	inLineComment := false
	inBlockComment := false
	var quote byte
	for i := 0; i < offset && i < len(text); i++ {
		c := text[i]
		switch {
		case inLineComment:
			if c == '\n' {
				inLineComment = false
			}
		case inBlockComment:
			if c == '*' && i+1 < len(text) && text[i+1] == '/' {
				inBlockComment = false
				i++
			}
		case quote != 0:
			if c == quote {
				quote = 0
			}
		case c == '-' && i+1 < len(text) && text[i+1] == '-':
			inLineComment = true
		case c == '/' && i+1 < len(text) && text[i+1] == '*':
			inBlockComment = true
		case c == '\'' || c == '"':
			quote = c
		}
	}
	return inLineComment || inBlockComment || quote != 0
}
