package completion

import (
	"context"
	"sort"
	"strings"

	"github.com/woxQAQ/unified-sql-lsp-sub002/internal/catalog"
	"github.com/woxQAQ/unified-sql-lsp-sub002/internal/detector"
	"github.com/woxQAQ/unified-sql-lsp-sub002/internal/dialect"
	"github.com/woxQAQ/unified-sql-lsp-sub002/internal/registry"
	"github.com/woxQAQ/unified-sql-lsp-sub002/internal/symbol"
)

// Engine materializes ranked completion items from a detected context
// (spec §4.4). It is the orchestration point between the scope tree, the
// catalog, and the built-in registries; it performs no parsing or
// context detection itself.
type Engine struct {
	scopes *symbol.ScopeManager
	cat    catalog.Catalog // may be nil: catalog-backed contexts then yield no catalog items
}

// New returns an Engine resolving against scopes, optionally backed by a
// catalog for FromClause/JoinTarget/InsertTarget/UpdateTarget table
// listings.
func New(scopes *symbol.ScopeManager, cat catalog.Catalog) *Engine {
	return &Engine{scopes: scopes, cat: cat}
}

// Complete implements the dispatch table of spec §4.4. prefix is the
// partially typed identifier under/left of the cursor, used both to
// filter and to rank (spec §4.4 "Ranking").
func (e *Engine) Complete(ctx context.Context, d dialect.Dialect, scopeID symbol.ScopeID, cc detector.CompletionContext, prefix string) ([]Item, error) {
	var items []Item
	var err error

	switch c := cc.(type) {
	case detector.SelectProjection:
		items, err = e.selectProjectionItems(ctx, d, scopeID, c)
	case detector.FromClause:
		items, err = e.fromClauseItems(ctx, scopeID, c.ExcludeTables)
	case detector.JoinTarget:
		items, err = e.fromClauseItems(ctx, scopeID, c.ExistingTables)
	case detector.JoinOn:
		items = e.joinOnItems(scopeID, c)
	case detector.WherePredicate:
		items = e.clauseColumnItems(scopeID, d, false)
	case detector.GroupOrderBy:
		items = e.clauseColumnItems(scopeID, d, false)
	case detector.Having:
		items = e.clauseColumnItems(scopeID, d, true)
	case detector.WindowFunctionClause:
		items = e.windowItems(scopeID, c)
	case detector.CteDefinition:
		return nil, nil
	case detector.InsertTarget:
		items, err = e.fromClauseItems(ctx, scopeID, nil)
	case detector.UpdateTarget:
		items, err = e.fromClauseItems(ctx, scopeID, nil)
	case detector.ColumnList:
		items = e.columnListItems(scopeID, c.Table)
	case detector.Keywords:
		items = keywordItems(d, prefix)
	case detector.Unknown:
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return rank(items, prefix), nil
}

func (e *Engine) selectProjectionItems(ctx context.Context, d dialect.Dialect, scopeID symbol.ScopeID, c detector.SelectProjection) ([]Item, error) {
	if c.Qualifier != "" {
		t := e.lookupByName(scopeID, c.Qualifier)
		if t == nil {
			return nil, nil
		}
		return columnItems(t, KindAliasColumn), nil
	}

	var items []Item
	for _, t := range e.allVisible(scopeID) {
		items = append(items, columnItems(t, KindTableColumn)...)
		items = append(items, Item{Label: t.DisplayName() + ".*", InsertText: t.DisplayName() + ".*", Kind: KindTableColumn, Detail: t.TableName})
	}
	items = append(items, Item{Label: "*", InsertText: "*", Kind: KindTableColumn})
	items = append(items, functionItems(d)...)
	return items, nil
}

func (e *Engine) fromClauseItems(ctx context.Context, scopeID symbol.ScopeID, exclude []string) ([]Item, error) {
	excluded := make(map[string]bool, len(exclude))
	for _, n := range exclude {
		excluded[strings.ToLower(n)] = true
	}

	var items []Item
	if e.cat != nil {
		tables, err := e.cat.ListTables(ctx)
		if err != nil {
			return nil, err
		}
		for _, t := range tables {
			if excluded[strings.ToLower(t.Name)] {
				continue
			}
			items = append(items, Item{Label: t.Name, InsertText: t.Name, Kind: KindCatalogTable, Detail: t.Schema})
		}
	}
	for _, t := range e.allVisible(scopeID) {
		if !t.IsCTE || excluded[strings.ToLower(t.TableName)] {
			continue
		}
		items = append(items, Item{Label: t.TableName, InsertText: t.TableName, Kind: KindCTE, Detail: "CTE"})
	}
	return items, nil
}

func (e *Engine) joinOnItems(scopeID symbol.ScopeID, c detector.JoinOn) []Item {
	left := e.lookupByName(scopeID, c.LeftTable)
	right := e.lookupByName(scopeID, c.RightTable)
	var items []Item
	if left != nil {
		items = append(items, columnItems(left, KindAliasColumn)...)
	}
	if right != nil {
		items = append(items, columnItems(right, KindAliasColumn)...)
	}
	return boostFKPairs(items)
}

// boostFKPairs marks as PK (for ranking purposes) any column whose name
// is shared by both sides of the join, approximating "prefer FK/PK
// pairs at the top" without a resolved foreign-key graph.
func boostFKPairs(items []Item) []Item {
	seen := map[string]int{}
	for _, it := range items {
		seen[strings.ToLower(it.Label)]++
	}
	for i, it := range items {
		if seen[strings.ToLower(it.Label)] > 1 {
			items[i].IsPK = true
		}
		_ = it
	}
	return items
}

func (e *Engine) clauseColumnItems(scopeID symbol.ScopeID, d dialect.Dialect, having bool) []Item {
	var items []Item
	for _, t := range e.allVisible(scopeID) {
		items = append(items, columnItems(t, KindTableColumn)...)
	}
	if having {
		for _, fn := range registry.Functions(d) {
			if fn.Kind != catalog.Aggregate {
				continue
			}
			items = append(items, Item{Label: fn.Name, InsertText: fn.Name + "($1)", Kind: KindFunction, Detail: fn.ReturnType, Documentation: fn.Documentation})
		}
	} else {
		items = append(items, scalarFunctionItems(d)...)
	}
	return items
}

func (e *Engine) windowItems(scopeID symbol.ScopeID, c detector.WindowFunctionClause) []Item {
	if c.Part == detector.Frame {
		var items []Item
		for _, kw := range []string{"ROWS", "RANGE", "BETWEEN", "UNBOUNDED", "PRECEDING", "FOLLOWING", "CURRENT ROW"} {
			items = append(items, Item{Label: kw, InsertText: kw, Kind: KindKeyword})
		}
		return items
	}
	var items []Item
	for _, t := range e.allVisible(scopeID) {
		items = append(items, columnItems(t, KindTableColumn)...)
	}
	return items
}

func (e *Engine) columnListItems(scopeID symbol.ScopeID, table string) []Item {
	t := e.lookupByName(scopeID, table)
	if t == nil {
		return nil
	}
	return columnItems(t, KindTableColumn)
}

func keywordItems(d dialect.Dialect, prefix string) []Item {
	var items []Item
	for _, kw := range registry.KeywordsWithPrefix(d, prefix) {
		items = append(items, Item{Label: kw, InsertText: kw, Kind: KindKeyword})
	}
	return items
}

func functionItems(d dialect.Dialect) []Item {
	var items []Item
	for _, fn := range registry.Functions(d) {
		items = append(items, Item{Label: fn.Name, InsertText: fn.Name + "($1)", Kind: KindFunction, Detail: fn.ReturnType, Documentation: fn.Documentation})
	}
	return items
}

func scalarFunctionItems(d dialect.Dialect) []Item {
	var items []Item
	for _, fn := range registry.Functions(d) {
		if fn.Kind != catalog.Scalar {
			continue
		}
		items = append(items, Item{Label: fn.Name, InsertText: fn.Name + "($1)", Kind: KindFunction, Detail: fn.ReturnType, Documentation: fn.Documentation})
	}
	return items
}

// columnItems renders one Item per column of t. Detail always names the
// underlying table (not the query alias), so a qualified-projection
// completion on "u." still tells the caller which table "u" is.
func columnItems(t *symbol.TableSymbol, kind ItemKind) []Item {
	out := make([]Item, len(t.Columns))
	for i, c := range t.Columns {
		out[i] = Item{
			Label:      c.Name,
			InsertText: c.Name,
			Kind:       kind,
			Detail:     t.TableName,
			IsPK:       c.IsPK,
		}
	}
	return out
}

// allVisible collects the TableSymbols visible from scopeID, ascending
// the parent chain (innermost first, matching the resolver's own
// per-scope precedence).
func (e *Engine) allVisible(scopeID symbol.ScopeID) []*symbol.TableSymbol {
	var out []*symbol.TableSymbol
	for id := scopeID; id != symbol.NoScope; {
		s := e.scopes.Scope(id)
		if s == nil {
			break
		}
		out = append(out, s.Tables()...)
		id = s.Parent
	}
	return out
}

func (e *Engine) lookupByName(scopeID symbol.ScopeID, name string) *symbol.TableSymbol {
	s := e.scopes.Scope(scopeID)
	if s == nil {
		return nil
	}
	t, ok := e.scopes.Lookup(s, name)
	if !ok {
		return nil
	}
	return t
}

// rank applies spec §4.4's ranking tuple: exact-prefix match, source
// category priority, PK-ness, lexical ascending. Items not matching
// prefix at all (when prefix is non-empty) are dropped; Go's sort is
// stable, so ties beyond the tuple keep their original (catalog) order.
func rank(items []Item, prefix string) []Item {
	if prefix != "" {
		filtered := items[:0]
		lower := strings.ToLower(prefix)
		for _, it := range items {
			if strings.HasPrefix(strings.ToLower(it.Label), lower) {
				filtered = append(filtered, it)
			}
		}
		items = filtered
	}

	sort.SliceStable(items, func(i, j int) bool {
		a, b := items[i], items[j]
		aExact := strings.EqualFold(a.Label, prefix)
		bExact := strings.EqualFold(b.Label, prefix)
		if aExact != bExact {
			return aExact
		}
		if a.Kind != b.Kind {
			return a.Kind < b.Kind
		}
		if a.IsPK != b.IsPK {
			return a.IsPK
		}
		return strings.ToLower(a.Label) < strings.ToLower(b.Label)
	})
	return items
}
