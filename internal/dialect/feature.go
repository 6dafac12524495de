package dialect

// Feature is a bit flag representing an optional SQL syntax capability.
// Modeled on the bitflag dialect-capability pattern used throughout the
// retrieved ORM/SQL-builder corpus (e.g. uptrace/bun's dialect/feature
// package): a closed set of flags, combined per family with bitwise OR,
// queried with Supports.
type Feature uint32

const (
	// LimitOffset enables LIMIT n OFFSET m syntax.
	LimitOffset Feature = 1 << iota
	// DistinctOn enables SELECT DISTINCT ON (...) syntax.
	DistinctOn
	// Lateral enables LATERAL subqueries and joins.
	Lateral
	// WindowFunctions enables OVER (...) window function clauses.
	WindowFunctions
	// StraightJoin enables the MySQL-family STRAIGHT_JOIN hint.
	StraightJoin
	// SnapshotRead enables TiDB's AS OF SYSTEM TIME / tidb_snapshot reads.
	SnapshotRead
	// CTE enables WITH (...) common table expressions.
	CTE
	// RecursiveCTE enables WITH RECURSIVE.
	RecursiveCTE
	// FullOuterJoin enables FULL OUTER JOIN.
	FullOuterJoin
)

var featureName = map[Feature]string{
	LimitOffset:     "LimitOffset",
	DistinctOn:      "DistinctOn",
	Lateral:         "Lateral",
	WindowFunctions: "WindowFunctions",
	StraightJoin:    "StraightJoin",
	SnapshotRead:    "SnapshotRead",
	CTE:             "CTE",
	RecursiveCTE:    "RecursiveCTE",
	FullOuterJoin:   "FullOuterJoin",
}

// String returns the flag's registered name, or "unknown" if it is not a
// single recognized bit.
func (f Feature) String() string {
	if name, ok := featureName[f]; ok {
		return name
	}
	return "unknown"
}

// featuresByFamily is the table-driven feature set per grammar family
// described in spec §3: dialect-feature predicates are derived from the
// family, not scattered per-dialect.
var featuresByFamily = map[Family]Feature{
	MySQLFamily: LimitOffset | WindowFunctions | StraightJoin | CTE | RecursiveCTE,
	PostgreSQLFamily: LimitOffset | DistinctOn | Lateral | WindowFunctions |
		CTE | RecursiveCTE | FullOuterJoin,
}

// perDialectOverrides captures the few capabilities that vary *within* a
// family rather than across it (TiDB's snapshot reads have no MySQL or
// MariaDB equivalent).
var perDialectOverrides = map[Dialect]Feature{
	TiDB: SnapshotRead,
}

// Supports reports whether the dialect's family (plus any per-dialect
// override) supports the given feature.
func (d Dialect) Supports(f Feature) bool {
	set := featuresByFamily[d.Family()] | perDialectOverrides[d]
	return set&f != 0
}
