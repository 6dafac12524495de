// Package completion implements the completion engine (spec §4.4): it
// dispatches on a detector.CompletionContext, gathers candidates from
// the resolver, the catalog, and the built-in registries, and ranks them
// into a CompletionItem list.
package completion

// ItemKind is the closed source category a CompletionItem comes from,
// used both for display and as the second ranking key (spec §4.4
// "source category priority").
type ItemKind int

const (
	KindAliasColumn ItemKind = iota
	KindTableColumn
	KindCatalogTable
	KindCTE
	KindKeyword
	KindFunction
)

// Item is one ranked completion candidate.
type Item struct {
	Label         string
	InsertText    string
	Kind          ItemKind
	Detail        string
	Documentation string
	IsPK          bool
}
