package lowering

import (
	"github.com/dolthub/vitess/go/vt/sqlparser"
	pgquery "github.com/pganalyze/pg_query_go/v5"

	"github.com/woxQAQ/unified-sql-lsp-sub002/internal/dialect"
)

// LowerText re-parses text with the typed grammar for d's family and
// lowers the result into the IR, dispatching to LowerMySQL or
// LowerPostgres. This is a second, independent parse from the one the
// document store runs through cstutil.Parse: cstutil.Node is the
// grammar-agnostic view the context detector and definition lookup
// need, while lowering needs the fully typed tree neither vitess's nor
// pg_query_go's generic wrapping preserves (see LowerMySQL's doc
// comment). Scope/symbol resolution is the only consumer of this path,
// so paying for a second parse here — rather than threading the typed
// tree through the document store for every open document — keeps the
// store's cache shape uniform across both dialect families.
func LowerText(d dialect.Dialect, text string) Outcome {
	switch d.Family() {
	case dialect.MySQLFamily:
		stmt, err := sqlparser.Parse(text)
		if err != nil {
			return Outcome{Errors: []Error{{Message: err.Error()}}}
		}
		return LowerMySQL(stmt)
	case dialect.PostgreSQLFamily:
		result, err := pgquery.Parse(text)
		if err != nil {
			return Outcome{Errors: []Error{{Message: err.Error()}}}
		}
		if len(result.Stmts) == 0 {
			return Outcome{Errors: []Error{{Message: "empty statement"}}}
		}
		return LowerPostgres(result.Stmts[0])
	default:
		return Outcome{Errors: []Error{{Message: "unsupported dialect family"}}}
	}
}
