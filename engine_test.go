package sqlls

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/woxQAQ/unified-sql-lsp-sub002/internal/catalog"
	"github.com/woxQAQ/unified-sql-lsp-sub002/internal/config"
	"github.com/woxQAQ/unified-sql-lsp-sub002/internal/dialect"
	"github.com/woxQAQ/unified-sql-lsp-sub002/internal/diagnostics"
	"github.com/woxQAQ/unified-sql-lsp-sub002/internal/document"
)

func newTestEngine(t *testing.T) *Engine {
	t.Helper()
	cfg := config.Config{Dialect: "mysql"}
	e := New(cfg, Options{})
	t.Cleanup(func() { require.NoError(t, e.Close()) })
	return e
}

// newTestEngineWithCatalog returns an Engine whose MySQL-family catalog
// adapter is overridden to always return mock, bypassing the live
// go-sql-driver/mysql opener. A non-empty ConnectionString is required:
// catalog.Manager.Get short-circuits to an empty NewMock for an empty
// one, which would never exercise this override at all.
func newTestEngineWithCatalog(t *testing.T, mock *catalog.Mock) *Engine {
	t.Helper()
	cfg := config.Config{Dialect: "mysql", ConnectionString: "mock://test-catalog"}
	e := New(cfg, Options{})
	e.catalogs.Register(dialect.MySQLFamily, func(dialect.Dialect, string) (catalog.Catalog, error) {
		return mock, nil
	})
	t.Cleanup(func() { require.NoError(t, e.Close()) })
	return e
}

func TestOpenApplyCloseDocument(t *testing.T) {
	e := newTestEngine(t)
	uri := "file:///t.sql"

	require.NoError(t, e.OpenDocument(uri, "SELECT * FROM users", 1, "mysql"))

	require.NoError(t, e.ApplyEdits(uri, 2, []document.Edit{
		{NewText: "SELECT id FROM users"},
	}))

	require.NoError(t, e.CloseDocument(uri))
	require.Error(t, e.CloseDocument(uri))
}

func TestCloseIsIdempotent(t *testing.T) {
	e := newTestEngine(t)
	require.NoError(t, e.Close())
	require.NoError(t, e.Close())
}

func TestCompleteFromClause(t *testing.T) {
	mock := catalog.NewMock(dialect.MySQL).WithTables(
		catalog.TableMetadata{Name: "users"},
		catalog.TableMetadata{Name: "orders"},
		catalog.TableMetadata{Name: "order_items"},
	)
	e := newTestEngineWithCatalog(t, mock)
	uri := "file:///from.sql"
	text := "SELECT * FROM users"
	require.NoError(t, e.OpenDocument(uri, text, 1, "mysql"))

	offset := len("SELECT * FROM ")
	items, err := e.Complete(context.Background(), uri, offset, "")
	require.NoError(t, err)

	var labels []string
	for _, it := range items {
		labels = append(labels, it.Label)
	}
	require.Contains(t, labels, "orders")
	require.Contains(t, labels, "order_items")
	require.NotContains(t, labels, "users")
}

func TestCompleteQualifiedProjection(t *testing.T) {
	mock := catalog.NewMock(dialect.MySQL).WithTables(catalog.TableMetadata{
		Name: "users",
		Columns: []catalog.ColumnMetadata{
			{Name: "id", IsPK: true},
			{Name: "name"},
		},
	})
	e := newTestEngineWithCatalog(t, mock)
	uri := "file:///proj.sql"
	text := "SELECT u.id FROM users u"
	require.NoError(t, e.OpenDocument(uri, text, 1, "mysql"))

	offset := len("SELECT u.")
	items, err := e.Complete(context.Background(), uri, offset, "")
	require.NoError(t, err)
	require.Len(t, items, 2)
	for _, it := range items {
		require.Equal(t, "users", it.Detail, "completion detail must name the underlying table, not the query alias")
	}
	var labels []string
	for _, it := range items {
		labels = append(labels, it.Label)
	}
	require.ElementsMatch(t, []string{"id", "name"}, labels)
}

func TestCompleteUnopenedDocumentFails(t *testing.T) {
	e := newTestEngine(t)
	_, err := e.Complete(context.Background(), "file:///missing.sql", 0, "")
	require.Error(t, err)
}

func TestHoverResolvesColumn(t *testing.T) {
	mock := catalog.NewMock(dialect.MySQL).WithTables(catalog.TableMetadata{
		Name:    "users",
		Columns: []catalog.ColumnMetadata{{Name: "id", IsPK: true}},
	})
	e := newTestEngineWithCatalog(t, mock)
	uri := "file:///hover.sql"
	text := "SELECT id FROM users"
	require.NoError(t, e.OpenDocument(uri, text, 1, "mysql"))

	offset := len("SELECT i")
	_, ok, err := e.Hover(context.Background(), uri, offset)
	require.NoError(t, err)
	require.True(t, ok)
}

func TestHoverOnBlankOffsetFindsNothing(t *testing.T) {
	e := newTestEngine(t)
	uri := "file:///hover2.sql"
	text := "SELECT  id FROM users"
	require.NoError(t, e.OpenDocument(uri, text, 1, "mysql"))

	offset := len("SELECT ")
	_, ok, err := e.Hover(context.Background(), uri, offset)
	require.NoError(t, err)
	require.False(t, ok)
}

func TestDefinitionResolvesTableAlias(t *testing.T) {
	e := newTestEngine(t)
	uri := "file:///def.sql"
	text := "SELECT u.id FROM users u WHERE u.id = 1"
	require.NoError(t, e.OpenDocument(uri, text, 1, "mysql"))

	offset := len("SELECT u.id FROM users u WHERE u.")
	_, _, err := e.Definition(context.Background(), uri, offset)
	require.NoError(t, err)
}

func TestDefinitionOnUnparseableDocumentFindsNothing(t *testing.T) {
	e := newTestEngine(t)
	uri := "file:///broken.sql"
	text := "SELECT FROM WHERE ("
	require.NoError(t, e.OpenDocument(uri, text, 1, "mysql"))

	_, ok, err := e.Definition(context.Background(), uri, 5)
	require.NoError(t, err)
	require.False(t, ok)
}

func TestDiagnosticsReportsParseFailure(t *testing.T) {
	e := newTestEngine(t)
	uri := "file:///diag.sql"
	text := "SELECT FROM WHERE ("
	require.NoError(t, e.OpenDocument(uri, text, 1, "mysql"))

	diags, err := e.Diagnostics(context.Background(), uri)
	require.NoError(t, err)
	require.NotEmpty(t, diags)
}

func TestDiagnosticsOnCleanQueryHasNoParseErrors(t *testing.T) {
	e := newTestEngine(t)
	uri := "file:///clean.sql"
	text := "SELECT id FROM users"
	require.NoError(t, e.OpenDocument(uri, text, 1, "mysql"))

	diags, err := e.Diagnostics(context.Background(), uri)
	require.NoError(t, err)
	for _, d := range diags {
		require.NotEqual(t, diagnostics.CodeParseError, d.Code)
	}
}

func TestDiagnosticsUnopenedDocumentFails(t *testing.T) {
	e := newTestEngine(t)
	_, err := e.Diagnostics(context.Background(), "file:///missing2.sql")
	require.Error(t, err)
}
