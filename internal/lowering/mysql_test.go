package lowering

import (
	"testing"

	"github.com/dolthub/vitess/go/vt/sqlparser"
	"github.com/stretchr/testify/require"

	"github.com/woxQAQ/unified-sql-lsp-sub002/internal/ir"
)

func parseSelect(t *testing.T, sql string) *sqlparser.Select {
	t.Helper()
	stmt, err := sqlparser.Parse(sql)
	require.NoError(t, err)
	sel, ok := stmt.(*sqlparser.Select)
	require.True(t, ok)
	return sel
}

func TestLowerMySQLSimpleSelect(t *testing.T) {
	sel := parseSelect(t, "select u.id, u.name as n from users u where u.id = 1")
	out := LowerMySQL(sel)
	require.Equal(t, Success, out.Kind())
	require.NotNil(t, out.Query.Select)
	q := out.Query.Select
	require.Len(t, q.Projection, 2)
	require.Equal(t, "n", q.Projection[1].Alias)

	base, ok := q.From.(*ir.BaseTable)
	require.True(t, ok)
	require.Equal(t, "users", base.Name)
	require.Equal(t, "u", base.Alias)

	where, ok := q.Where.(*ir.BinaryOp)
	require.True(t, ok)
	require.Equal(t, "=", where.Op)
}

func TestLowerMySQLJoin(t *testing.T) {
	sel := parseSelect(t, "select * from a join b on a.id = b.a_id")
	out := LowerMySQL(sel)
	require.Equal(t, Success, out.Kind())
	join, ok := out.Query.Select.From.(*ir.Join)
	require.True(t, ok)
	require.Equal(t, ir.InnerJoin, join.Kind)
	require.NotNil(t, join.Condition)
}

func TestLowerMySQLUnsupportedStatement(t *testing.T) {
	stmt, err := sqlparser.Parse("create table t (id int)")
	require.NoError(t, err)
	out := LowerMySQL(stmt)
	require.Equal(t, Failed, out.Kind())
	require.Len(t, out.Errors, 1)
}
