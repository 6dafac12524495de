package catalog

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/lib/pq"

	"github.com/woxQAQ/unified-sql-lsp-sub002/internal/dialect"
)

// PostgresAdapter is the live catalog adapter for the PostgreSQL family
// (PostgreSQL, CockroachDB), backed by database/sql and lib/pq.
type PostgresAdapter struct {
	d  dialect.Dialect
	db *sql.DB
}

// OpenPostgres opens a PostgresAdapter for dialect d using
// connectionString as a lib/pq connection string or URL.
func OpenPostgres(d dialect.Dialect, connectionString string) (Catalog, error) {
	db, err := sql.Open("postgres", connectionString)
	if err != nil {
		return nil, ErrConfiguration.New(err.Error())
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, mapPostgresErr(err)
	}
	return &PostgresAdapter{d: d, db: db}, nil
}

func (a *PostgresAdapter) Dialect() dialect.Dialect { return a.d }

func (a *PostgresAdapter) ListTables(ctx context.Context) ([]TableMetadata, error) {
	const q = `
SELECT table_schema, table_name, table_type
FROM information_schema.tables
WHERE table_schema NOT IN ('pg_catalog', 'information_schema')`

	rows, err := a.db.QueryContext(ctx, q)
	if err != nil {
		return nil, mapPostgresErr(err)
	}
	defer rows.Close()

	var out []TableMetadata
	for rows.Next() {
		var schema, name, kind string
		if err := rows.Scan(&schema, &name, &kind); err != nil {
			return nil, ErrSerialization.New(err.Error())
		}
		tt := BaseTable
		if kind == "VIEW" {
			tt = View
		}
		out = append(out, TableMetadata{Schema: schema, Name: name, Type: tt})
	}
	if err := rows.Err(); err != nil {
		return nil, mapPostgresErr(err)
	}
	return out, nil
}

func (a *PostgresAdapter) GetColumns(ctx context.Context, table string) ([]ColumnMetadata, error) {
	schema, name := splitQualified(table)
	if schema == "" {
		schema = "public"
	}

	const q = `
SELECT column_name, data_type, is_nullable, column_default,
       EXISTS (
         SELECT 1 FROM information_schema.key_column_usage kcu
         JOIN information_schema.table_constraints tc
           ON tc.constraint_name = kcu.constraint_name AND tc.constraint_type = 'PRIMARY KEY'
         WHERE kcu.table_schema = c.table_schema AND kcu.table_name = c.table_name
           AND kcu.column_name = c.column_name
       ) AS is_pk
FROM information_schema.columns c
WHERE table_schema = $1 AND table_name = $2
ORDER BY ordinal_position`

	rows, err := a.db.QueryContext(ctx, q, schema, name)
	if err != nil {
		return nil, mapPostgresErr(err)
	}
	defer rows.Close()

	var out []ColumnMetadata
	for rows.Next() {
		var colName, dataType, nullable string
		var def sql.NullString
		var isPK bool
		if err := rows.Scan(&colName, &dataType, &nullable, &def, &isPK); err != nil {
			return nil, ErrSerialization.New(err.Error())
		}
		out = append(out, ColumnMetadata{
			Name:     colName,
			DataType: dataType,
			Nullable: nullable == "YES",
			Default:  def.String,
			IsPK:     isPK,
		})
	}
	if err := rows.Err(); err != nil {
		return nil, mapPostgresErr(err)
	}
	if len(out) == 0 {
		return nil, ErrTableNotFound.New(schema, name)
	}
	return out, nil
}

func (a *PostgresAdapter) ListFunctions(ctx context.Context) ([]FunctionMetadata, error) {
	const q = `
SELECT routine_name, routine_type
FROM information_schema.routines
WHERE routine_schema NOT IN ('pg_catalog', 'information_schema')`

	rows, err := a.db.QueryContext(ctx, q)
	if err != nil {
		return nil, mapPostgresErr(err)
	}
	defer rows.Close()

	var out []FunctionMetadata
	for rows.Next() {
		var name, kind string
		if err := rows.Scan(&name, &kind); err != nil {
			return nil, ErrSerialization.New(err.Error())
		}
		out = append(out, FunctionMetadata{Name: name, Kind: Scalar})
	}
	if err := rows.Err(); err != nil {
		return nil, mapPostgresErr(err)
	}
	return out, nil
}

func (a *PostgresAdapter) Close() error {
	return a.db.Close()
}

// mapPostgresErr maps lib/pq errors into the closed catalog error
// taxonomy using the SQLSTATE class, following the Code/Class naming
// scheme of pq.Error / pq.ErrorCode / pq.ErrorClass.
func mapPostgresErr(err error) error {
	if err == nil {
		return nil
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		class := pqErr.Code.Class().Name()
		switch {
		case strings.Contains(class, "invalid_schema_name"):
			return ErrInvalidSchema.New(pqErr.Message)
		case strings.Contains(class, "insufficient_privilege"):
			return ErrPermissionDenied.New(pqErr.Message)
		case strings.Contains(class, "connection_exception"):
			return ErrConnectionFailed.New(pqErr.Message)
		default:
			return ErrSerialization.New(pqErr.Message)
		}
	}
	return ErrConnectionFailed.New(err.Error())
}
