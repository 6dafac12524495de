package definition

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/woxQAQ/unified-sql-lsp-sub002/internal/cstutil"
	"github.com/woxQAQ/unified-sql-lsp-sub002/internal/detector"
	"github.com/woxQAQ/unified-sql-lsp-sub002/internal/dialect"
)

func TestDefinitionTableReference(t *testing.T) {
	text := "SELECT u.id FROM users u"
	out := cstutil.Parse(dialect.MySQL, text)
	require.True(t, out.IsUsable())
	loc, ok := Definition(out.Root, text, detector.FromClause{}, "u")
	require.True(t, ok)
	require.Equal(t, "users u", text[loc.Start:loc.End])
}

func TestDefinitionProjectionAlias(t *testing.T) {
	text := "SELECT id AS user_id FROM users"
	out := cstutil.Parse(dialect.MySQL, text)
	require.True(t, out.IsUsable())
	loc, ok := Definition(out.Root, text, detector.WherePredicate{}, "user_id")
	require.True(t, ok)
	require.Contains(t, text[loc.Start:loc.End], "user_id")
}

func TestDefinitionNotFound(t *testing.T) {
	text := "SELECT id FROM users"
	out := cstutil.Parse(dialect.MySQL, text)
	require.True(t, out.IsUsable())
	_, ok := Definition(out.Root, text, detector.WherePredicate{}, "nonexistent")
	require.False(t, ok)
}
