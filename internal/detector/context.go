// Package detector implements the context detector (spec §4.2): given a
// parsed CST, a cursor byte offset, and the source text, it classifies
// the cursor's syntactic role into exactly one closed CompletionContext
// variant together with the lexical set of tables visible there.
package detector

// CompletionContext is the closed tagged-union result of Detect. Callers
// switch on the concrete type, never a string tag.
type CompletionContext interface {
	isCompletionContext()
}

// WindowPart is the closed sub-classification inside a window function's
// OVER (...) clause.
type WindowPart int

const (
	PartitionBy WindowPart = iota
	OrderByPart
	Frame
)

// SelectProjection is the cursor inside a SELECT list.
type SelectProjection struct {
	VisibleTables []string
	Qualifier     string // empty if unqualified
}

func (SelectProjection) isCompletionContext() {}

// FromClause is the cursor in a FROM clause, naming tables to exclude
// (those already referenced) from completion.
type FromClause struct {
	ExcludeTables []string
}

func (FromClause) isCompletionContext() {}

// JoinTarget is the cursor naming the table side of a JOIN.
type JoinTarget struct {
	ExistingTables []string
}

func (JoinTarget) isCompletionContext() {}

// JoinOn is the cursor inside a JOIN's ON predicate.
type JoinOn struct {
	LeftTable  string
	RightTable string
}

func (JoinOn) isCompletionContext() {}

// WherePredicate is the cursor inside a WHERE clause.
type WherePredicate struct {
	VisibleTables []string
	Qualifier     string
}

func (WherePredicate) isCompletionContext() {}

// GroupOrderBy is the cursor inside a GROUP BY or ORDER BY clause.
type GroupOrderBy struct {
	VisibleTables []string
}

func (GroupOrderBy) isCompletionContext() {}

// Having is the cursor inside a HAVING clause.
type Having struct {
	VisibleTables []string
	GroupKeys     []string
}

func (Having) isCompletionContext() {}

// WindowFunctionClause is the cursor inside an OVER (...) clause.
type WindowFunctionClause struct {
	VisibleTables []string
	Part          WindowPart
}

func (WindowFunctionClause) isCompletionContext() {}

// CteDefinition is the cursor naming a WITH-list entry, between WITH and AS.
type CteDefinition struct{}

func (CteDefinition) isCompletionContext() {}

// InsertTarget is the cursor naming the target table of an INSERT.
type InsertTarget struct{}

func (InsertTarget) isCompletionContext() {}

// UpdateTarget is the cursor naming the target table of an UPDATE.
type UpdateTarget struct{}

func (UpdateTarget) isCompletionContext() {}

// ColumnList is the cursor inside an explicit column list, e.g.
// `INSERT INTO t (|)`.
type ColumnList struct {
	Table string
}

func (ColumnList) isCompletionContext() {}

// Keywords is the fallback when no more specific anchor applies: the
// cursor is somewhere in statement_kind's grammar but not inside a
// clause the detector specializes.
type Keywords struct {
	StatementKind string
}

func (Keywords) isCompletionContext() {}

// Unknown is out-of-statement whitespace, a comment, or a string literal.
type Unknown struct{}

func (Unknown) isCompletionContext() {}
