// Package resolver implements scope-tree symbol resolution: alias
// resolution, unqualified/qualified column lookup, ambiguous-column
// detection, and wildcard expansion (spec §4.3).
package resolver

import errors "gopkg.in/src-d/go-errors.v1"

var (
	// ErrTableNotFound is returned by ResolveTable when no visible
	// scope binds the name and (if a catalog was consulted) the
	// catalog has no such table either.
	ErrTableNotFound = errors.NewKind("table not found: %s")
	// ErrColumnNotFound is returned by ResolveColumn/ResolveQualifiedColumn
	// when zero candidates match.
	ErrColumnNotFound = errors.NewKind("column not found: %s")
	// ErrAmbiguousColumn is returned by ResolveColumn when two or more
	// visible tables in the effective scope expose the same column.
	ErrAmbiguousColumn = errors.NewKind("ambiguous column %q, visible in: %s")
	// ErrDuplicateAlias is surfaced as a diagnostic when a FROM/JOIN
	// introduces an alias already bound in the same scope.
	ErrDuplicateAlias = errors.NewKind("duplicate alias: %s")
	// ErrWildcardTableNotFound is returned by ResolveWildcard for a
	// qualifier that does not resolve to any visible table.
	ErrWildcardTableNotFound = errors.NewKind("wildcard qualifier not found: %s")
	// ErrHavingWithoutGroupBy flags a HAVING clause with no GROUP BY in
	// the enclosing query. Per SPEC_FULL.md's Open Question decision,
	// this is surfaced as a warning-severity diagnostic, not an error.
	ErrHavingWithoutGroupBy = errors.NewKind("HAVING without GROUP BY")
)
