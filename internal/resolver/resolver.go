package resolver

import (
	"context"
	"sort"
	"strings"

	"github.com/woxQAQ/unified-sql-lsp-sub002/internal/catalog"
	"github.com/woxQAQ/unified-sql-lsp-sub002/internal/symbol"
)

// Resolver answers resolve queries against a built scope tree. Pure
// analytical operations (ResolveTable's local-scope path, ResolveColumn,
// ResolveQualifiedColumn, ResolveWildcard) never suspend; only the
// catalog fallback inside ResolveTable performs I/O, per spec §5
// "Suspension points".
type Resolver struct {
	scopes  *symbol.ScopeManager
	catalog catalog.Catalog // may be nil: then unresolved names simply fail
}

// New returns a Resolver over scopes, optionally backed by cat for the
// catalog-fallback step of alias resolution.
func New(scopes *symbol.ScopeManager, cat catalog.Catalog) *Resolver {
	return &Resolver{scopes: scopes, catalog: cat}
}

// AliasOutcome is the closed result of alias resolution (spec §4.3
// "Alias resolution strategy").
type AliasOutcome int

const (
	Found AliasOutcome = iota
	Ambiguous
	NotFound
)

// AliasResult carries the outcome plus whichever tables were considered.
type AliasResult struct {
	Outcome    AliasOutcome
	Table      *symbol.TableSymbol // set iff Outcome == Found
	Candidates []string            // set iff Outcome == Ambiguous
}

// ResolveAlias implements the layered strategy from spec §4.3: local
// scope alias, then local scope base table name, then parent scope
// (recursively) — entirely within local scopes, never touching the
// catalog for a pure alias hit. ResolveTable below adds the catalog
// fallback on top of this for bare table references.
func (r *Resolver) ResolveAlias(scopeID symbol.ScopeID, name string) AliasResult {
	for id := scopeID; id != symbol.NoScope; {
		s := r.scopes.Scope(id)
		if s == nil {
			break
		}
		var matches []*symbol.TableSymbol
		for _, t := range s.Tables() {
			if t.Matches(name) {
				matches = append(matches, t)
			}
		}
		switch len(matches) {
		case 0:
			id = s.Parent
			continue
		case 1:
			return AliasResult{Outcome: Found, Table: matches[0]}
		default:
			names := make([]string, len(matches))
			for i, m := range matches {
				names[i] = m.DisplayName()
			}
			return AliasResult{Outcome: Ambiguous, Candidates: names}
		}
	}
	return AliasResult{Outcome: NotFound}
}

// ResolveTable resolves name against scopeID's local scopes first; only
// when the local scopes fail to find anything does it ask the catalog
// whether name might be a bare, uncorrelated table reference (spec §4.3:
// "catalog lookups are performed only when the local scopes do not
// resolve ... never for pure alias hits").
func (r *Resolver) ResolveTable(ctx context.Context, scopeID symbol.ScopeID, name string) (*symbol.TableSymbol, error) {
	switch alias := r.ResolveAlias(scopeID, name); alias.Outcome {
	case Found:
		return alias.Table, nil
	case Ambiguous:
		return nil, ErrAmbiguousColumn.New(name, strings.Join(alias.Candidates, ", "))
	}

	if r.catalog == nil {
		return nil, ErrTableNotFound.New(name)
	}
	tables, err := r.catalog.ListTables(ctx)
	if err != nil {
		return nil, err
	}
	for _, t := range tables {
		if strings.EqualFold(t.Name, name) {
			return &symbol.TableSymbol{TableName: t.Name}, nil
		}
	}
	return nil, ErrTableNotFound.New(name)
}

// ResolveColumn resolves an unqualified column reference. Ambiguity is
// computed per scope, not globally: the innermost scope with at least
// one candidate wins outright (spec §4.3, §8 "an outer-scope match may
// still be unambiguous if inner scope has none").
func (r *Resolver) ResolveColumn(scopeID symbol.ScopeID, name string) (symbol.ColumnSymbol, error) {
	for id := scopeID; id != symbol.NoScope; {
		s := r.scopes.Scope(id)
		if s == nil {
			break
		}
		var candidates []symbol.ColumnSymbol
		var owners []string
		for _, t := range s.Tables() {
			if col, ok := t.Column(name); ok {
				col.OwningTable = t
				candidates = append(candidates, col)
				owners = append(owners, t.DisplayName())
			}
		}
		switch len(candidates) {
		case 0:
			id = s.Parent
			continue
		case 1:
			return candidates[0], nil
		default:
			return symbol.ColumnSymbol{}, ErrAmbiguousColumn.New(name, strings.Join(owners, ", "))
		}
	}
	return symbol.ColumnSymbol{}, ErrColumnNotFound.New(name)
}

// ResolveQualifiedColumn resolves qualifier.name: qualifier is resolved
// as an alias-or-table-name first in the local scope, then ancestors
// (via ResolveAlias), and the column is then looked up only on that
// table.
func (r *Resolver) ResolveQualifiedColumn(scopeID symbol.ScopeID, qualifier, name string) (symbol.ColumnSymbol, error) {
	alias := r.ResolveAlias(scopeID, qualifier)
	switch alias.Outcome {
	case Ambiguous:
		return symbol.ColumnSymbol{}, ErrAmbiguousColumn.New(qualifier, strings.Join(alias.Candidates, ", "))
	case NotFound:
		return symbol.ColumnSymbol{}, ErrTableNotFound.New(qualifier)
	}
	col, ok := alias.Table.Column(name)
	if !ok {
		return symbol.ColumnSymbol{}, ErrColumnNotFound.New(name)
	}
	col.OwningTable = alias.Table
	return col, nil
}

// ResolveWildcard expands `t.*` (qualifier set) or bare `*` (qualifier
// empty) into the matching column list. Bare `*` unions every visible
// table's columns in deterministic FROM-order, left-to-right across
// joins, per spec §4.3 and the Open Question fix recorded in
// SPEC_FULL.md.
func (r *Resolver) ResolveWildcard(scopeID symbol.ScopeID, qualifier string) ([]symbol.ColumnSymbol, error) {
	if qualifier != "" {
		alias := r.ResolveAlias(scopeID, qualifier)
		switch alias.Outcome {
		case Found:
			return withOwner(alias.Table), nil
		case Ambiguous:
			return nil, ErrAmbiguousColumn.New(qualifier, strings.Join(alias.Candidates, ", "))
		default:
			return nil, ErrWildcardTableNotFound.New(qualifier)
		}
	}

	s := r.scopes.Scope(scopeID)
	if s == nil {
		return nil, ErrWildcardTableNotFound.New("*")
	}
	var out []symbol.ColumnSymbol
	for _, t := range s.Tables() {
		out = append(out, withOwner(t)...)
	}
	return out, nil
}

func withOwner(t *symbol.TableSymbol) []symbol.ColumnSymbol {
	out := make([]symbol.ColumnSymbol, len(t.Columns))
	for i, c := range t.Columns {
		c.OwningTable = t
		out[i] = c
	}
	return out
}

// sortedTableNames returns the names of a table set in sorted order,
// for deterministic diagnostic messages; nothing in the package calls it.
func sortedTableNames(tables []*symbol.TableSymbol) []string {
	names := make([]string, len(tables))
	for i, t := range tables {
		names[i] = t.DisplayName()
	}
	sort.Strings(names)
	return names
}
