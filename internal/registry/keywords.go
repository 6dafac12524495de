// Package registry holds the process-wide, immutable keyword and
// built-in function tables the completion engine consults. Nothing here
// performs I/O; both tables are initialized once at package load and
// read concurrently thereafter without locking.
package registry

import (
	"strings"

	"github.com/woxQAQ/unified-sql-lsp-sub002/internal/dialect"
)

// commonKeywords are reserved words shared by every dialect family.
var commonKeywords = []string{
	"SELECT", "FROM", "WHERE", "GROUP", "BY", "HAVING", "ORDER", "LIMIT",
	"OFFSET", "JOIN", "INNER", "LEFT", "RIGHT", "OUTER", "CROSS", "ON",
	"AS", "DISTINCT", "UNION", "ALL", "INTERSECT", "EXCEPT", "WITH",
	"INSERT", "INTO", "VALUES", "UPDATE", "SET", "DELETE", "CREATE",
	"TABLE", "VIEW", "DROP", "ALTER", "AND", "OR", "NOT", "NULL", "IS",
	"IN", "EXISTS", "BETWEEN", "LIKE", "CASE", "WHEN", "THEN", "ELSE",
	"END", "CAST", "ASC", "DESC", "PARTITION", "OVER", "WINDOW",
}

var mysqlFamilyKeywords = []string{
	"STRAIGHT_JOIN", "REPLACE", "IGNORE", "LOW_PRIORITY", "HIGH_PRIORITY",
	"AUTO_INCREMENT", "ENGINE", "CHARSET", "COLLATE", "UNSIGNED",
}

var postgresFamilyKeywords = []string{
	"RETURNING", "LATERAL", "ILIKE", "SIMILAR", "ONLY", "USING",
	"CONFLICT", "NOTHING", "MATERIALIZED", "RECURSIVE",
}

// keywordsByFamily is the table-driven keyword set spec §4.6 describes:
// one dialect-agnostic list of keywords, keyed by family and filtered
// for presentation by the caller.
var keywordsByFamily = map[dialect.Family][]string{
	dialect.MySQLFamily:      append(append([]string{}, commonKeywords...), mysqlFamilyKeywords...),
	dialect.PostgreSQLFamily: append(append([]string{}, commonKeywords...), postgresFamilyKeywords...),
}

// Keywords returns the full keyword set for d's family. The returned
// slice is a defensive copy; callers may not mutate the package table.
func Keywords(d dialect.Dialect) []string {
	set := keywordsByFamily[d.Family()]
	out := make([]string, len(set))
	copy(out, set)
	return out
}

// KeywordsWithPrefix returns the subset of Keywords(d) whose text starts
// with prefix, case-insensitively, sorted as the table itself is
// ordered (common keywords first).
func KeywordsWithPrefix(d dialect.Dialect, prefix string) []string {
	prefix = strings.ToUpper(prefix)
	var out []string
	for _, kw := range keywordsByFamily[d.Family()] {
		if strings.HasPrefix(kw, prefix) {
			out = append(out, kw)
		}
	}
	return out
}
