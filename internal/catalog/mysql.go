package catalog

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/go-sql-driver/mysql"

	"github.com/woxQAQ/unified-sql-lsp-sub002/internal/dialect"
)

// MySQLAdapter is the live catalog adapter for the MySQL family
// (MySQL, MariaDB, TiDB), backed by database/sql and the pure-Go
// go-sql-driver/mysql driver — the driver the skeema, tengo, and
// dbsafe examples all use for live schema introspection.
type MySQLAdapter struct {
	d  dialect.Dialect
	db *sql.DB
}

// OpenMySQL opens a MySQLAdapter for dialect d using connectionString as
// a go-sql-driver/mysql DSN.
func OpenMySQL(d dialect.Dialect, connectionString string) (Catalog, error) {
	db, err := sql.Open("mysql", connectionString)
	if err != nil {
		return nil, ErrConfiguration.New(err.Error())
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, ErrConnectionFailed.New(err.Error())
	}
	return &MySQLAdapter{d: d, db: db}, nil
}

func (a *MySQLAdapter) Dialect() dialect.Dialect { return a.d }

func (a *MySQLAdapter) ListTables(ctx context.Context) ([]TableMetadata, error) {
	const q = `
SELECT table_schema, table_name, table_type, table_comment, table_rows
FROM information_schema.tables
WHERE table_schema NOT IN ('mysql', 'information_schema', 'performance_schema', 'sys')`

	rows, err := a.db.QueryContext(ctx, q)
	if err != nil {
		return nil, mapMySQLErr(err)
	}
	defer rows.Close()

	var out []TableMetadata
	for rows.Next() {
		var schema, name, kind, comment string
		var rowCount int64
		if err := rows.Scan(&schema, &name, &kind, &comment, &rowCount); err != nil {
			return nil, ErrSerialization.New(err.Error())
		}
		tm := TableMetadata{
			Schema:  schema,
			Name:    name,
			Type:    tableTypeFromInformationSchema(kind),
			Comment: comment,
		}
		if rowCount > 0 {
			rc := rowCount
			tm.RowCountEstimate = &rc
		}
		out = append(out, tm)
	}
	if err := rows.Err(); err != nil {
		return nil, mapMySQLErr(err)
	}
	return out, nil
}

func (a *MySQLAdapter) GetColumns(ctx context.Context, table string) ([]ColumnMetadata, error) {
	schema, name := splitQualified(table)

	const q = `
SELECT c.column_name, c.column_type, c.is_nullable, c.column_default, c.column_comment,
       c.column_key = 'PRI' AS is_pk
FROM information_schema.columns c
WHERE c.table_name = ? AND (? = '' OR c.table_schema = ?)
ORDER BY c.ordinal_position`

	rows, err := a.db.QueryContext(ctx, q, name, schema, schema)
	if err != nil {
		return nil, mapMySQLErr(err)
	}
	defer rows.Close()

	var out []ColumnMetadata
	for rows.Next() {
		var colName, colType, nullable, comment string
		var def sql.NullString
		var isPK bool
		if err := rows.Scan(&colName, &colType, &nullable, &def, &comment, &isPK); err != nil {
			return nil, ErrSerialization.New(err.Error())
		}
		out = append(out, ColumnMetadata{
			Name:     colName,
			DataType: colType,
			Nullable: nullable == "YES",
			Default:  def.String,
			Comment:  comment,
			IsPK:     isPK,
		})
	}
	if err := rows.Err(); err != nil {
		return nil, mapMySQLErr(err)
	}
	if len(out) == 0 {
		return nil, ErrTableNotFound.New(schema, name)
	}
	return out, nil
}

func (a *MySQLAdapter) ListFunctions(ctx context.Context) ([]FunctionMetadata, error) {
	const q = `
SELECT routine_name, routine_type
FROM information_schema.routines
WHERE routine_schema NOT IN ('mysql', 'information_schema', 'performance_schema', 'sys')`

	rows, err := a.db.QueryContext(ctx, q)
	if err != nil {
		return nil, mapMySQLErr(err)
	}
	defer rows.Close()

	var out []FunctionMetadata
	for rows.Next() {
		var name, kind string
		if err := rows.Scan(&name, &kind); err != nil {
			return nil, ErrSerialization.New(err.Error())
		}
		fk := Scalar
		if kind == "AGGREGATE" {
			fk = Aggregate
		}
		out = append(out, FunctionMetadata{Name: name, Kind: fk})
	}
	if err := rows.Err(); err != nil {
		return nil, mapMySQLErr(err)
	}
	return out, nil
}

func (a *MySQLAdapter) Close() error {
	return a.db.Close()
}

func tableTypeFromInformationSchema(kind string) TableType {
	switch kind {
	case "VIEW":
		return View
	case "SYSTEM VIEW":
		return MaterializedView
	default:
		return BaseTable
	}
}

// mapMySQLErr maps go-sql-driver/mysql errors into the closed catalog
// error taxonomy.
func mapMySQLErr(err error) error {
	if err == nil {
		return nil
	}
	if err == context.DeadlineExceeded {
		return ErrQueryTimeout.New(0)
	}
	return ErrConnectionFailed.New(fmt.Sprintf("%v", err))
}
