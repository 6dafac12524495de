// Package lowering converts a parsed statement into the dialect-agnostic
// IR (internal/ir) that the scope builder and resolver operate over.
// Each dialect family gets its own lowering path because the concrete
// parser backends differ (vitess's sqlparser AST for the MySQL family,
// pg_query_go's protobuf AST for the PostgreSQL family); both converge
// on the same ir.Query shape so everything above this layer is
// dialect-agnostic, mirroring the CST->IR lowering stage of the system
// this core was modeled after.
//
// Outcome mirrors cstutil.Outcome: lowering never panics on a malformed
// or partially-unsupported tree. Unsupported constructs lower to a
// best-effort placeholder (e.g. a bare SelectStatement with an empty
// Projection) plus an entry in Outcome.Errors, so a caller always gets
// something to walk rather than a hard failure.
package lowering

import "github.com/woxQAQ/unified-sql-lsp-sub002/internal/ir"

// Error describes one lowering failure or unsupported-construct
// placeholder substitution.
type Error struct {
	Message string
}

// Outcome wraps a lowered query together with any non-fatal errors
// encountered while lowering it. Query is nil only when the input could
// not be lowered at all (e.g. a statement kind lowering does not
// recognize, such as DDL).
type Outcome struct {
	Query  *ir.Query
	Errors []Error
}

// Kind is the closed parse-outcome-style tag for a lowering Outcome,
// mirroring cstutil.Kind so callers can switch on it the same way.
type Kind int

const (
	Success Kind = iota
	Partial
	Failed
)

// Kind classifies the outcome: Failed has no Query, Success has no
// Errors, Partial has both.
func (o Outcome) Kind() Kind {
	switch {
	case o.Query == nil:
		return Failed
	case len(o.Errors) == 0:
		return Success
	default:
		return Partial
	}
}
