package hover

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/woxQAQ/unified-sql-lsp-sub002/internal/detector"
	"github.com/woxQAQ/unified-sql-lsp-sub002/internal/dialect"
	"github.com/woxQAQ/unified-sql-lsp-sub002/internal/resolver"
	"github.com/woxQAQ/unified-sql-lsp-sub002/internal/symbol"
)

func TestHoverColumn(t *testing.T) {
	mgr := symbol.NewScopeManager()
	s := mgr.NewScope(symbol.QueryScope, symbol.NoScope)
	mgr.AddTable(s, &symbol.TableSymbol{
		TableName: "users",
		Alias:     "u",
		Columns:   []symbol.ColumnSymbol{{Name: "id", DataType: "int", IsPK: true}},
	})
	r := resolver.New(mgr, nil)
	res, ok := Hover(context.Background(), r, dialect.MySQL, s.ID, detector.SelectProjection{}, "", "id")
	require.True(t, ok)
	require.Contains(t, res.Markdown, "int")
}

func TestHoverTable(t *testing.T) {
	mgr := symbol.NewScopeManager()
	s := mgr.NewScope(symbol.QueryScope, symbol.NoScope)
	mgr.AddTable(s, &symbol.TableSymbol{TableName: "users", Alias: "u"})
	r := resolver.New(mgr, nil)
	res, ok := Hover(context.Background(), r, dialect.MySQL, s.ID, detector.FromClause{}, "", "u")
	require.True(t, ok)
	require.Contains(t, res.Markdown, "users")
}

func TestHoverFunction(t *testing.T) {
	mgr := symbol.NewScopeManager()
	s := mgr.NewScope(symbol.QueryScope, symbol.NoScope)
	r := resolver.New(mgr, nil)
	res, ok := Hover(context.Background(), r, dialect.MySQL, s.ID, detector.WherePredicate{}, "", "COUNT")
	require.True(t, ok)
	require.Contains(t, res.Markdown, "COUNT")
}

func TestHoverUnknownIdentifier(t *testing.T) {
	mgr := symbol.NewScopeManager()
	s := mgr.NewScope(symbol.QueryScope, symbol.NoScope)
	r := resolver.New(mgr, nil)
	_, ok := Hover(context.Background(), r, dialect.MySQL, s.ID, detector.WherePredicate{}, "", "nonexistent")
	require.False(t, ok)
}
