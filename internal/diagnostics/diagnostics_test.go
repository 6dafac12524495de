package diagnostics

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/woxQAQ/unified-sql-lsp-sub002/internal/catalog"
	"github.com/woxQAQ/unified-sql-lsp-sub002/internal/cstutil"
	"github.com/woxQAQ/unified-sql-lsp-sub002/internal/resolver"
	"github.com/woxQAQ/unified-sql-lsp-sub002/internal/scopebuild"
)

func TestFromParseOutcomePartialIsWarning(t *testing.T) {
	out := cstutil.Outcome{
		Root:   &fakeNode{},
		Errors: []cstutil.ParseError{{Message: "unexpected token", Start: 5, End: 8}},
	}
	diags := FromParseOutcome("SELECT FROM users", out)
	require.Len(t, diags, 1)
	require.Equal(t, Warning, diags[0].Severity)
	require.Equal(t, CodeParseError, diags[0].Code)
}

func TestFromParseOutcomeFailedIsError(t *testing.T) {
	out := cstutil.Outcome{Errors: []cstutil.ParseError{{Message: "syntax error"}}}
	diags := FromParseOutcome("not sql at all {{{", out)
	require.Len(t, diags, 1)
	require.Equal(t, Error, diags[0].Severity)
}

func TestFromParseOutcomeEmptyOnSuccess(t *testing.T) {
	out := cstutil.Outcome{Root: &fakeNode{}}
	require.Empty(t, FromParseOutcome("SELECT 1", out))
}

func TestFromScopeDiagnostics(t *testing.T) {
	diags := FromScopeDiagnostics([]scopebuild.Diagnostic{{Message: "duplicate alias: t"}})
	require.Len(t, diags, 1)
	require.Equal(t, CodeDuplicateAlias, diags[0].Code)
	require.Equal(t, Error, diags[0].Severity)
}

func TestFromResolverErrorClassifiesKnownKinds(t *testing.T) {
	d, ok := FromResolverError(resolver.ErrAmbiguousColumn.New("id", "users, orders"))
	require.True(t, ok)
	require.Equal(t, CodeAmbiguousColumn, d.Code)

	d, ok = FromResolverError(resolver.ErrHavingWithoutGroupBy.New())
	require.True(t, ok)
	require.Equal(t, Warning, d.Severity)
}

func TestFromResolverErrorUnknown(t *testing.T) {
	_, ok := FromResolverError(catalog.ErrConnectionFailed.New("dsn"))
	require.False(t, ok)
}

func TestFromCatalogError(t *testing.T) {
	require.True(t, FromCatalogError(catalog.ErrConnectionFailed.New("dsn")))
	require.True(t, FromCatalogError(catalog.ErrQueryTimeout.New(5)))
	require.False(t, FromCatalogError(catalog.ErrTableNotFound.New("s", "t")))
}

// fakeNode is a minimal cstutil.Node stand-in for outcomes where only
// Root-non-nil-ness matters.
type fakeNode struct{}

func (f *fakeNode) Kind() string               { return "root" }
func (f *fakeNode) ByteRange() (int, int)      { return 0, 0 }
func (f *fakeNode) Children() []cstutil.Node   { return nil }
func (f *fakeNode) Parent() cstutil.Node       { return nil }
func (f *fakeNode) ChildByField(name string) (cstutil.Node, bool) {
	return nil, false
}
