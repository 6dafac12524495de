package lowering

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/woxQAQ/unified-sql-lsp-sub002/internal/dialect"
	"github.com/woxQAQ/unified-sql-lsp-sub002/internal/ir"
)

func TestLowerTextMySQL(t *testing.T) {
	out := LowerText(dialect.MySQL, "select id from users where id = 1")
	require.Equal(t, Success, out.Kind())
	base, ok := out.Query.Select.From.(*ir.BaseTable)
	require.True(t, ok)
	require.Equal(t, "users", base.Name)
}

func TestLowerTextMySQLFamilyMariaDB(t *testing.T) {
	out := LowerText(dialect.MariaDB, "select id from users")
	require.Equal(t, Success, out.Kind())
}

func TestLowerTextUnknownDialect(t *testing.T) {
	out := LowerText(dialect.Unknown, "select 1")
	require.Equal(t, Failed, out.Kind())
}

func TestLowerTextMySQLSyntaxError(t *testing.T) {
	out := LowerText(dialect.MySQL, "select from where")
	require.Equal(t, Failed, out.Kind())
}
