// Package dialect defines the closed set of SQL dialects the core supports,
// their grouping into grammar families, and table-driven feature
// predicates. Dialect grammars themselves are out of scope for this
// package; it only tags which family a dialect belongs to and which
// optional syntax features that family supports.
package dialect

import "strings"

// Dialect is a closed tag set of the SQL dialects the core understands.
type Dialect int

const (
	Unknown Dialect = iota
	MySQL
	PostgreSQL
	TiDB
	MariaDB
	CockroachDB
)

// Family is the grammar group a Dialect belongs to. All dialects in a
// family share one parser.
type Family int

const (
	UnknownFamily Family = iota
	MySQLFamily
	PostgreSQLFamily
)

var familyByDialect = map[Dialect]Family{
	MySQL:       MySQLFamily,
	TiDB:        MySQLFamily,
	MariaDB:     MySQLFamily,
	PostgreSQL:  PostgreSQLFamily,
	CockroachDB: PostgreSQLFamily,
}

var nameByDialect = map[Dialect]string{
	MySQL:       "mysql",
	PostgreSQL:  "postgresql",
	TiDB:        "tidb",
	MariaDB:     "mariadb",
	CockroachDB: "cockroachdb",
}

var dialectByName = map[string]Dialect{
	"mysql":       MySQL,
	"postgresql":  PostgreSQL,
	"tidb":        TiDB,
	"mariadb":     MariaDB,
	"cockroachdb": CockroachDB,
}

// Family returns the grammar family this dialect belongs to.
func (d Dialect) Family() Family {
	return familyByDialect[d]
}

// String returns the canonical lowercase name of the dialect.
func (d Dialect) String() string {
	if s, ok := nameByDialect[d]; ok {
		return s
	}
	return "unknown"
}

// Parse resolves a dialect tag from a case-insensitive name, as accepted
// from client settings or a config file. Parse("") returns Unknown.
func Parse(name string) Dialect {
	d, ok := dialectByName[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return Unknown
	}
	return d
}

// LanguageID maps an LSP textDocument languageId to a dialect family's
// default dialect. Only "mysql" and "postgresql" are recognized per the
// external interface contract; everything else is Unknown.
func LanguageID(id string) Dialect {
	switch strings.ToLower(id) {
	case "mysql":
		return MySQL
	case "postgresql":
		return PostgreSQL
	default:
		return Unknown
	}
}
