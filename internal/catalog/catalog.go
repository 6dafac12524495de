// Package catalog defines the external schema-source interface the
// completion, hover, and resolver components query against, plus a
// manager that caches one adapter per (dialect, connection string) pair.
// Concrete database drivers are collaborators behind this interface; the
// interface itself must stay idempotent and side-effect-free under
// concurrent reads.
package catalog

import (
	"context"

	"github.com/woxQAQ/unified-sql-lsp-sub002/internal/dialect"
)

// TableType is the closed set of catalog relation kinds.
type TableType int

const (
	BaseTable TableType = iota
	View
	MaterializedView
)

// TableMetadata describes one catalog relation.
type TableMetadata struct {
	Schema          string
	Name            string
	Type            TableType
	Columns         []ColumnMetadata
	RowCountEstimate *int64
	Comment         string
}

// ColumnMetadata describes one column of a TableMetadata.
type ColumnMetadata struct {
	Name       string
	DataType   string
	Nullable   bool
	Default    string
	Comment    string
	IsPK       bool
	IsFK       bool
	FKRefTable string
	FKRefCol   string
}

// FunctionKind is the closed set of SQL function roles.
type FunctionKind int

const (
	Scalar FunctionKind = iota
	Aggregate
	WindowFunc
)

// Parameter describes one function parameter.
type Parameter struct {
	Name     string
	Type     string
	HasDefault bool
	Default  string
}

// FunctionMetadata describes one catalog or built-in function.
type FunctionMetadata struct {
	Name          string
	Kind          FunctionKind
	Parameters    []Parameter
	ReturnType    string
	Documentation string
}

// Catalog is the async schema-source contract. Implementations must be
// safe for concurrent use and must never mutate shared state on a read.
type Catalog interface {
	ListTables(ctx context.Context) ([]TableMetadata, error)
	// GetColumns returns the columns of table, which may be
	// schema-qualified ("schema.table") or bare.
	GetColumns(ctx context.Context, table string) ([]ColumnMetadata, error)
	ListFunctions(ctx context.Context) ([]FunctionMetadata, error)
	// Dialect reports which dialect this adapter was constructed for.
	Dialect() dialect.Dialect
	// Close releases any held connections. Close is idempotent.
	Close() error
}
