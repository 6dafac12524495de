package catalog

import (
	"context"
	"testing"

	"github.com/woxQAQ/unified-sql-lsp-sub002/internal/dialect"
)

func TestMockListTables(t *testing.T) {
	m := NewMock(dialect.MySQL).WithTables(
		TableMetadata{Name: "users"},
		TableMetadata{Name: "orders"},
	)
	tables, err := m.ListTables(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(tables) != 2 {
		t.Fatalf("expected 2 tables, got %d", len(tables))
	}
}

func TestMockGetColumnsNotFound(t *testing.T) {
	m := NewMock(dialect.MySQL)
	_, err := m.GetColumns(context.Background(), "missing")
	if !ErrTableNotFound.Is(err) {
		t.Fatalf("expected ErrTableNotFound, got %v", err)
	}
}

func TestMockGetColumnsQualified(t *testing.T) {
	m := NewMock(dialect.MySQL).WithTables(TableMetadata{
		Schema: "app",
		Name:   "users",
		Columns: []ColumnMetadata{
			{Name: "id", DataType: "int", IsPK: true},
			{Name: "email", DataType: "varchar"},
		},
	})
	cols, err := m.GetColumns(context.Background(), "app.users")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(cols) != 2 {
		t.Fatalf("expected 2 columns, got %d", len(cols))
	}
	cols2, err := m.GetColumns(context.Background(), "users")
	if err != nil || len(cols2) != 2 {
		t.Fatalf("bare name lookup should also succeed: %v %v", cols2, err)
	}
}
