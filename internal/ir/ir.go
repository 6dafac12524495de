// Package ir defines the dialect-agnostic intermediate representation
// used by semantic analyses that need more than a raw CST: the scope
// builder, the resolver, and hover's type rendering all walk this IR
// rather than re-deriving it from CST node kinds. Every sum type in this
// package is closed: callers switch on a concrete type, never a string
// tag, and new variants are added here, not bolted on via embedding.
package ir

// Query is either a SELECT statement or a set operation (UNION, etc.)
// between two queries, with an optional leading WITH clause.
type Query struct {
	With   []CTE
	Select *SelectStatement // nil if this is a set operation
	SetOp  *SetOperation    // nil if this is a plain select
}

// CTE is a single WITH-list entry: a name bound to a Query body.
type CTE struct {
	Name      string
	Recursive bool
	Body      *Query
}

// SetOperationKind is the closed set of binary query combinators.
type SetOperationKind int

const (
	Union SetOperationKind = iota
	UnionAll
	Intersect
	Except
)

// SetOperation combines two queries with a set operator.
type SetOperation struct {
	Left  *Query
	Op    SetOperationKind
	Right *Query
}

// SelectStatement is the IR form of a single SELECT, carrying every
// clause the completion engine and resolver need to reason about.
type SelectStatement struct {
	Distinct    bool
	Projection  []ProjectionItem
	From        TableRef // nil if there is no FROM clause
	Where       Expr
	GroupBy     []Expr
	Having      Expr
	OrderBy     []OrderItem
	Limit       *LimitClause
	Windows     []Window
}

// ProjectionItem is one SELECT-list entry: an expression with an
// optional alias. Wildcard("*") and Wildcard("t.*") are represented as
// Expr = *Wildcard.
type ProjectionItem struct {
	Expr  Expr
	Alias string
}

// OrderItem is one ORDER BY entry.
type OrderItem struct {
	Expr descOrAsc
	Desc bool
}

type descOrAsc = Expr

// LimitClause carries LIMIT and optional OFFSET, both as expressions
// since either may be a bound parameter.
type LimitClause struct {
	Count  Expr
	Offset Expr
}

// Window is a named or inline OVER (...) window definition.
type Window struct {
	Name       string // empty for an inline window
	PartitionBy []Expr
	OrderBy    []OrderItem
	Frame      *WindowFrame
}

// WindowFrameUnit is the closed set of frame units.
type WindowFrameUnit int

const (
	RowsFrame WindowFrameUnit = iota
	RangeFrame
)

// WindowFrame describes a ROWS/RANGE BETWEEN ... AND ... frame.
type WindowFrame struct {
	Unit  WindowFrameUnit
	Start FrameBound
	End   FrameBound
}

// FrameBound is a closed tag for window frame boundary kinds.
type FrameBound struct {
	Kind   FrameBoundKind
	Offset Expr // set only when Kind is Preceding or Following
}

type FrameBoundKind int

const (
	UnboundedPreceding FrameBoundKind = iota
	Preceding
	CurrentRow
	Following
	UnboundedFollowing
)

// TableRef is the closed sum type of FROM-clause entries: a base table,
// a derived (subquery) table, or a join combining two TableRefs.
type TableRef interface {
	isTableRef()
}

// BaseTable is a direct reference to a catalog table, optionally
// schema-qualified and optionally aliased.
type BaseTable struct {
	Schema string
	Name   string
	Alias  string
}

func (*BaseTable) isTableRef() {}

// SubqueryTable is a derived table: a nested Query given an alias.
type SubqueryTable struct {
	Query *Query
	Alias string
	// Lateral marks a LATERAL derived table, which may reference columns
	// of preceding FROM-list entries (PostgreSQL-family only).
	Lateral bool
}

func (*SubqueryTable) isTableRef() {}

// JoinKind is the closed set of join types.
type JoinKind int

const (
	InnerJoin JoinKind = iota
	LeftJoin
	RightJoin
	FullOuterJoinKind
	CrossJoin
	NaturalJoin
)

// Join combines two TableRefs under a join condition.
type Join struct {
	Left      TableRef
	Right     TableRef
	Kind      JoinKind
	Condition Expr // nil for CROSS JOIN / NATURAL JOIN
}

func (*Join) isTableRef() {}

// Expr is the closed sum type of scalar expressions.
type Expr interface {
	isExpr()
}

// ColumnRef is a (possibly qualified) column reference.
type ColumnRef struct {
	Qualifier string // table name or alias; empty if unqualified
	Name      string
}

func (*ColumnRef) isExpr() {}

// Wildcard is `*` or `t.*`.
type Wildcard struct {
	Qualifier string // empty for unqualified `*`
}

func (*Wildcard) isExpr() {}

// LiteralKind is the closed set of literal value kinds.
type LiteralKind int

const (
	StringLiteral LiteralKind = iota
	NumberLiteral
	BoolLiteral
	NullLiteral
)

// Literal is a constant value.
type Literal struct {
	Kind  LiteralKind
	Value string // verbatim source text of the literal
}

func (*Literal) isExpr() {}

// BinaryOp is a binary operator expression.
type BinaryOp struct {
	Op    string
	Left  Expr
	Right Expr
}

func (*BinaryOp) isExpr() {}

// UnaryOp is a unary operator expression.
type UnaryOp struct {
	Op      string
	Operand Expr
}

func (*UnaryOp) isExpr() {}

// FuncCall is a function invocation.
type FuncCall struct {
	Name     string
	Args     []Expr
	Distinct bool
	Over     *Window // non-nil for window function calls
}

func (*FuncCall) isExpr() {}

// CaseExpr is a CASE [expr] WHEN ... THEN ... ELSE ... END expression.
type CaseExpr struct {
	Operand Expr // nil for the searched-CASE form
	Whens   []WhenClause
	Else    Expr
}

func (*CaseExpr) isExpr() {}

// WhenClause is one WHEN/THEN pair of a CaseExpr.
type WhenClause struct {
	Condition Expr
	Result    Expr
}

// CastExpr is a CAST(expr AS type) expression.
type CastExpr struct {
	Operand  Expr
	TypeName string
}

func (*CastExpr) isExpr() {}

// ParenExpr is a parenthesized sub-expression, kept distinct from its
// child so hover/definition can report the paren span when needed.
type ParenExpr struct {
	Inner Expr
}

func (*ParenExpr) isExpr() {}

// ListExpr is a parenthesized expression list, e.g. the right side of
// `IN (1, 2, 3)`.
type ListExpr struct {
	Items []Expr
}

func (*ListExpr) isExpr() {}
