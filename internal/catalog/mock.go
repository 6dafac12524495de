package catalog

import (
	"context"
	"strings"

	"github.com/woxQAQ/unified-sql-lsp-sub002/internal/dialect"
)

// Mock is a static, in-memory Catalog used when no connection string is
// configured and by tests. Adapted from the reference engine's
// test.Catalog, which wraps a fixed sql.DatabaseProvider the same way:
// a thin read-only facade over data supplied at construction time.
type Mock struct {
	d         dialect.Dialect
	tables    []TableMetadata
	functions []FunctionMetadata
}

// NewMock returns an empty Mock catalog for dialect d.
func NewMock(d dialect.Dialect) *Mock {
	return &Mock{d: d}
}

// WithTables adds tables to the mock and returns it for chaining.
func (m *Mock) WithTables(tables ...TableMetadata) *Mock {
	m.tables = append(m.tables, tables...)
	return m
}

// WithFunctions adds functions to the mock and returns it for chaining.
func (m *Mock) WithFunctions(fns ...FunctionMetadata) *Mock {
	m.functions = append(m.functions, fns...)
	return m
}

func (m *Mock) Dialect() dialect.Dialect { return m.d }

func (m *Mock) ListTables(ctx context.Context) ([]TableMetadata, error) {
	out := make([]TableMetadata, len(m.tables))
	copy(out, m.tables)
	return out, nil
}

func (m *Mock) GetColumns(ctx context.Context, table string) ([]ColumnMetadata, error) {
	schema, name := splitQualified(table)
	for _, t := range m.tables {
		if !strings.EqualFold(t.Name, name) {
			continue
		}
		if schema != "" && !strings.EqualFold(t.Schema, schema) {
			continue
		}
		out := make([]ColumnMetadata, len(t.Columns))
		copy(out, t.Columns)
		return out, nil
	}
	return nil, ErrTableNotFound.New(schema, name)
}

func (m *Mock) ListFunctions(ctx context.Context) ([]FunctionMetadata, error) {
	out := make([]FunctionMetadata, len(m.functions))
	copy(out, m.functions)
	return out, nil
}

func (m *Mock) Close() error { return nil }

// splitQualified splits a possibly schema-qualified table reference
// ("schema.table" or "table") into its two parts.
func splitQualified(table string) (schema, name string) {
	if i := strings.IndexByte(table, '.'); i >= 0 {
		return table[:i], table[i+1:]
	}
	return "", table
}
