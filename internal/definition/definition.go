// Package definition implements go-to-definition (spec §4.7): for a
// table reference, the range of the FROM/JOIN node that introduced it;
// for a column reference in a SELECT clause, the range of the matching
// projection item. Subqueries and CTEs are searched before falling back
// to "not found locally" (the catalog has no source position to offer).
package definition

import (
	"strings"

	"github.com/woxQAQ/unified-sql-lsp-sub002/internal/cstutil"
	"github.com/woxQAQ/unified-sql-lsp-sub002/internal/detector"
)

// Location is a half-open byte range in the document that produced root.
type Location struct {
	Start, End int
}

// Definition dispatches on cc the same way the completion engine does:
// a FROM-like position looks for the table's introducing node; anything
// else looks for a matching projection item.
func Definition(root cstutil.Node, text string, cc detector.CompletionContext, identifier string) (Location, bool) {
	switch cc.(type) {
	case detector.FromClause, detector.JoinTarget, detector.InsertTarget, detector.UpdateTarget:
		return findTableReference(root, text, identifier)
	default:
		if loc, ok := findProjectionItem(root, text, identifier); ok {
			return loc, true
		}
		// A column reference might still name a table alias (qualifier
		// position); fall back to the table search so `u.id`'s `u` still
		// resolves somewhere.
		return findTableReference(root, text, identifier)
	}
}

// findTableReference searches every table_reference node in the tree
// (FROM and JOIN entries alike — vitess normalizes both to the same
// node kind, see internal/cstutil) for one whose alias-or-base-name
// textually matches name.
func findTableReference(root cstutil.Node, text, name string) (Location, bool) {
	var found Location
	var ok bool
	var walk func(cstutil.Node)
	walk = func(n cstutil.Node) {
		if ok {
			return
		}
		if n.Kind() == "table_reference" && referenceMatches(n, text, name) {
			start, end := n.ByteRange()
			found = Location{Start: start, End: end}
			ok = true
			return
		}
		for _, c := range n.Children() {
			walk(c)
		}
	}
	walk(root)
	return found, ok
}

func referenceMatches(n cstutil.Node, text, name string) bool {
	start, end := n.ByteRange()
	if start < 0 || end > len(text) || start > end {
		return false
	}
	span := strings.TrimSpace(text[start:end])
	fields := strings.Fields(span)
	if len(fields) == 0 {
		return false
	}
	// Match either the base name (first field) or the alias (last
	// field, skipping a literal AS), mirroring the detector's own
	// table_reference text convention.
	base := strings.Trim(fields[0], "`\"")
	alias := base
	if last := fields[len(fields)-1]; !strings.EqualFold(last, "AS") {
		alias = strings.Trim(last, "`\"")
	}
	return strings.EqualFold(base, name) || strings.EqualFold(alias, name)
}

// findProjectionItem searches the nearest enclosing select_clause's
// expression children for one whose alias (or bare text, if unaliased)
// equals name.
func findProjectionItem(root cstutil.Node, text, name string) (Location, bool) {
	var found Location
	var ok bool
	var walk func(cstutil.Node)
	walk = func(n cstutil.Node) {
		if ok {
			return
		}
		if n.Kind() == "select_clause" {
			for _, item := range n.Children() {
				if projectionItemMatches(item, text, name) {
					start, end := item.ByteRange()
					found = Location{Start: start, End: end}
					ok = true
					return
				}
			}
		}
		for _, c := range n.Children() {
			walk(c)
		}
	}
	walk(root)
	return found, ok
}

func projectionItemMatches(n cstutil.Node, text, name string) bool {
	start, end := n.ByteRange()
	if start < 0 || end > len(text) || start > end {
		return false
	}
	span := strings.TrimSpace(text[start:end])
	fields := strings.Fields(span)
	if len(fields) == 0 {
		return false
	}
	last := strings.Trim(fields[len(fields)-1], "`\"")
	if strings.EqualFold(last, name) {
		return true
	}
	// Unaliased `t.col` or bare `col`: match on the trailing identifier
	// after the last dot.
	if idx := strings.LastIndex(last, "."); idx >= 0 {
		return strings.EqualFold(last[idx+1:], name)
	}
	return false
}
