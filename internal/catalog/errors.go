package catalog

import errors "gopkg.in/src-d/go-errors.v1"

// Error kinds for the catalog subsystem, following the closed
// errors.NewKind taxonomy pattern used throughout the corpus for stable,
// greppable error identities (see e.g. auth.ErrNotAuthorized in the
// reference engine this core was modeled after).
var (
	// ErrConnectionFailed is returned when an adapter cannot reach its
	// backing database.
	ErrConnectionFailed = errors.NewKind("catalog: connection failed: %s")
	// ErrQueryTimeout is returned when a catalog operation exceeds its
	// configured per-request timeout.
	ErrQueryTimeout = errors.NewKind("catalog: query timed out after %d seconds")
	// ErrTableNotFound is returned by GetColumns for an unknown table.
	ErrTableNotFound = errors.NewKind("catalog: table not found: %s.%s")
	// ErrInvalidSchema is returned when a schema-qualified name cannot be
	// parsed or the named schema does not exist.
	ErrInvalidSchema = errors.NewKind("catalog: invalid schema: %s")
	// ErrSerialization is returned when decoding driver rows into
	// TableMetadata/ColumnMetadata fails.
	ErrSerialization = errors.NewKind("catalog: serialization error: %s")
	// ErrConfiguration is returned for a malformed connection string or
	// unsupported adapter configuration.
	ErrConfiguration = errors.NewKind("catalog: configuration error: %s")
	// ErrPermissionDenied is returned when the backing database rejects
	// the catalog query on authorization grounds.
	ErrPermissionDenied = errors.NewKind("catalog: permission denied: %s")
	// ErrNotSupported is returned for a dialect or feature the catalog
	// layer does not implement.
	ErrNotSupported = errors.NewKind("catalog: not supported: %s")
	// ErrTooManyConnections is returned when a catalog manager's
	// connection pool bound is exceeded; back-pressure is explicit, per
	// spec, never a silent drop.
	ErrTooManyConnections = errors.NewKind("catalog: connection pool exhausted for %s")
)
