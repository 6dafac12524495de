package completion

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/woxQAQ/unified-sql-lsp-sub002/internal/catalog"
	"github.com/woxQAQ/unified-sql-lsp-sub002/internal/detector"
	"github.com/woxQAQ/unified-sql-lsp-sub002/internal/dialect"
	"github.com/woxQAQ/unified-sql-lsp-sub002/internal/symbol"
)

func buildScope() (*symbol.ScopeManager, symbol.ScopeID) {
	mgr := symbol.NewScopeManager()
	s := mgr.NewScope(symbol.QueryScope, symbol.NoScope)
	mgr.AddTable(s, &symbol.TableSymbol{
		TableName: "users",
		Alias:     "u",
		Columns: []symbol.ColumnSymbol{
			{Name: "id", IsPK: true},
			{Name: "name"},
		},
	})
	return mgr, s.ID
}

func TestCompleteQualifiedProjection(t *testing.T) {
	mgr, scopeID := buildScope()
	e := New(mgr, nil)
	items, err := e.Complete(context.Background(), dialect.MySQL, scopeID,
		detector.SelectProjection{Qualifier: "u"}, "")
	require.NoError(t, err)
	require.Len(t, items, 2)
	require.Equal(t, "id", items[0].Label) // PK ranks first among equal category
}

func TestCompleteFromClauseUsesCatalogMinusExcluded(t *testing.T) {
	mgr, scopeID := buildScope()
	cat := catalog.NewMock(dialect.MySQL).WithTables(
		catalog.TableMetadata{Name: "users"},
		catalog.TableMetadata{Name: "orders"},
	)
	e := New(mgr, cat)
	items, err := e.Complete(context.Background(), dialect.MySQL, scopeID,
		detector.FromClause{ExcludeTables: []string{"users"}}, "")
	require.NoError(t, err)
	var labels []string
	for _, it := range items {
		labels = append(labels, it.Label)
	}
	require.Contains(t, labels, "orders")
	require.NotContains(t, labels, "users")
}

func TestCompleteKeywordsFiltersByPrefix(t *testing.T) {
	mgr, scopeID := buildScope()
	e := New(mgr, nil)
	items, err := e.Complete(context.Background(), dialect.MySQL, scopeID,
		detector.Keywords{StatementKind: "select"}, "SEL")
	require.NoError(t, err)
	require.NotEmpty(t, items)
	require.Equal(t, "SELECT", items[0].Label)
}

func TestCompleteCteDefinitionIsEmpty(t *testing.T) {
	mgr, scopeID := buildScope()
	e := New(mgr, nil)
	items, err := e.Complete(context.Background(), dialect.MySQL, scopeID, detector.CteDefinition{}, "")
	require.NoError(t, err)
	require.Empty(t, items)
}
