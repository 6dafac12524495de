package catalog

import (
	"testing"

	"github.com/woxQAQ/unified-sql-lsp-sub002/internal/dialect"
)

func TestManagerEmptyConnectionStringReturnsMock(t *testing.T) {
	m := NewManager(0)
	c, err := m.Get(dialect.MySQL, "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := c.(*Mock); !ok {
		t.Fatalf("expected a Mock adapter, got %T", c)
	}
}

func TestManagerUnregisteredFamilyNotSupported(t *testing.T) {
	m := NewManager(0)
	_, err := m.Get(dialect.PostgreSQL, "host=localhost")
	if !ErrNotSupported.Is(err) {
		t.Fatalf("expected ErrNotSupported, got %v", err)
	}
}

func TestManagerCachesAdapter(t *testing.T) {
	m := NewManager(0)
	opens := 0
	m.Register(dialect.MySQLFamily, func(d dialect.Dialect, cs string) (Catalog, error) {
		opens++
		return NewMock(d), nil
	})

	c1, err := m.Get(dialect.MySQL, "dsn")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	c2, err := m.Get(dialect.MySQL, "dsn")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if c1 != c2 {
		t.Fatalf("expected cached adapter to be reused")
	}
	if opens != 1 {
		t.Fatalf("expected exactly one open, got %d", opens)
	}
}

func TestManagerBoundsConnections(t *testing.T) {
	m := NewManager(1)
	m.Register(dialect.MySQLFamily, func(d dialect.Dialect, cs string) (Catalog, error) {
		return NewMock(d), nil
	})

	if _, err := m.Get(dialect.MySQL, "dsn-a"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := m.Get(dialect.MySQL, "dsn-b"); !ErrTooManyConnections.Is(err) {
		t.Fatalf("expected ErrTooManyConnections, got %v", err)
	}
}

func TestManagerClose(t *testing.T) {
	m := NewManager(0)
	m.Register(dialect.MySQLFamily, func(d dialect.Dialect, cs string) (Catalog, error) {
		return NewMock(d), nil
	})
	if _, err := m.Get(dialect.MySQL, "dsn"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := m.Close(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}
