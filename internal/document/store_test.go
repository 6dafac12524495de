package document

import (
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"

	"github.com/woxQAQ/unified-sql-lsp-sub002/internal/cstutil"
)

func newTestStore() *Store {
	logger := logrus.New()
	logger.SetLevel(logrus.PanicLevel) // keep test output quiet
	return New(logger)
}

func TestOpenAndSnapshot(t *testing.T) {
	s := newTestStore()
	err := s.Open("file:///a.sql", "SELECT id FROM users", 1, "mysql")
	require.NoError(t, err)

	snap, ok := s.Snapshot("file:///a.sql")
	require.True(t, ok)
	require.Equal(t, 1, snap.Version)
	require.Equal(t, "SELECT id FROM users", snap.Text)
	require.Equal(t, cstutil.Success, snap.Outcome.Kind())
}

func TestOpenRejectsDuplicate(t *testing.T) {
	s := newTestStore()
	require.NoError(t, s.Open("file:///a.sql", "SELECT 1", 1, "mysql"))
	err := s.Open("file:///a.sql", "SELECT 2", 1, "mysql")
	require.Error(t, err)
}

func TestApplyEditsFullText(t *testing.T) {
	s := newTestStore()
	require.NoError(t, s.Open("file:///a.sql", "SELECT 1", 1, "mysql"))

	err := s.ApplyEdits("file:///a.sql", 2, []Edit{{NewText: "SELECT id FROM users"}})
	require.NoError(t, err)

	snap, ok := s.Snapshot("file:///a.sql")
	require.True(t, ok)
	require.Equal(t, 2, snap.Version)
	require.Equal(t, "SELECT id FROM users", snap.Text)
}

func TestApplyEditsRangeAnchored(t *testing.T) {
	s := newTestStore()
	text := "SELECT id FROM users"
	require.NoError(t, s.Open("file:///a.sql", text, 1, "mysql"))

	// Replace "id" with "id, name".
	start := OffsetToPosition(text, 7)
	end := OffsetToPosition(text, 9)
	err := s.ApplyEdits("file:///a.sql", 2, []Edit{{
		Range:   &Range{Start: start, End: end},
		NewText: "id, name",
	}})
	require.NoError(t, err)

	snap, ok := s.Snapshot("file:///a.sql")
	require.True(t, ok)
	require.Equal(t, "SELECT id, name FROM users", snap.Text)
}

func TestApplyEditsRejectsStaleVersion(t *testing.T) {
	s := newTestStore()
	require.NoError(t, s.Open("file:///a.sql", "SELECT 1", 5, "mysql"))

	err := s.ApplyEdits("file:///a.sql", 5, []Edit{{NewText: "SELECT 2"}})
	require.Error(t, err)

	err = s.ApplyEdits("file:///a.sql", 4, []Edit{{NewText: "SELECT 2"}})
	require.Error(t, err)
}

func TestApplyEditsRequiresOpenDocument(t *testing.T) {
	s := newTestStore()
	err := s.ApplyEdits("file:///missing.sql", 2, []Edit{{NewText: "SELECT 1"}})
	require.Error(t, err)
}

func TestClose(t *testing.T) {
	s := newTestStore()
	require.NoError(t, s.Open("file:///a.sql", "SELECT 1", 1, "mysql"))
	require.NoError(t, s.Close("file:///a.sql"))

	_, ok := s.Snapshot("file:///a.sql")
	require.False(t, ok)

	require.Error(t, s.Close("file:///a.sql"))
}

func TestOpenRecordsPartialParseOutcome(t *testing.T) {
	s := newTestStore()
	// Unbalanced parens: vitess fails to build a tree and falls back to
	// the flat token-level recovery root.
	require.NoError(t, s.Open("file:///broken.sql", "SELECT * FROM users WHERE (", 1, "mysql"))

	snap, ok := s.Snapshot("file:///broken.sql")
	require.True(t, ok)
	require.NotEqual(t, cstutil.Success, snap.Outcome.Kind())
}
