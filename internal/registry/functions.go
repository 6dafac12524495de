package registry

import (
	"strconv"
	"strings"
	"sync"

	"github.com/woxQAQ/unified-sql-lsp-sub002/internal/catalog"
	"github.com/woxQAQ/unified-sql-lsp-sub002/internal/dialect"
)

// FunctionRegistry is a process-wide Dialect -> []FunctionMetadata
// mapping, initialized once and immutable thereafter. Lookup is
// case-insensitive, per spec §4.6.
type FunctionRegistry struct {
	once  sync.Once
	byKey map[string]catalog.FunctionMetadata
	all   map[dialect.Family][]catalog.FunctionMetadata
}

var defaultRegistry = newFunctionRegistry()

func newFunctionRegistry() *FunctionRegistry {
	r := &FunctionRegistry{}
	r.init()
	return r
}

func (r *FunctionRegistry) init() {
	r.once.Do(func() {
		r.byKey = make(map[string]catalog.FunctionMetadata)
		r.all = map[dialect.Family][]catalog.FunctionMetadata{
			dialect.MySQLFamily:      mysqlBuiltins(),
			dialect.PostgreSQLFamily: postgresBuiltins(),
		}
		for fam, fns := range r.all {
			for _, fn := range fns {
				r.byKey[registryKey(fam, fn.Name)] = fn
			}
		}
	})
}

func registryKey(f dialect.Family, name string) string {
	return strings.ToUpper(name) + "@" + strconv.Itoa(int(f))
}

// Functions returns every built-in function known for d's family.
func Functions(d dialect.Dialect) []catalog.FunctionMetadata {
	defaultRegistry.init()
	fns := defaultRegistry.all[d.Family()]
	out := make([]catalog.FunctionMetadata, len(fns))
	copy(out, fns)
	return out
}

// Function looks up a single built-in function by name, case-insensitive.
func Function(d dialect.Dialect, name string) (catalog.FunctionMetadata, bool) {
	defaultRegistry.init()
	fn, ok := defaultRegistry.byKey[registryKey(d.Family(), name)]
	return fn, ok
}

func scalarFn(name, ret, doc string, params ...catalog.Parameter) catalog.FunctionMetadata {
	return catalog.FunctionMetadata{Name: name, Kind: catalog.Scalar, ReturnType: ret, Documentation: doc, Parameters: params}
}

func aggFn(name, ret, doc string, params ...catalog.Parameter) catalog.FunctionMetadata {
	return catalog.FunctionMetadata{Name: name, Kind: catalog.Aggregate, ReturnType: ret, Documentation: doc, Parameters: params}
}

func windowFn(name, ret, doc string, params ...catalog.Parameter) catalog.FunctionMetadata {
	return catalog.FunctionMetadata{Name: name, Kind: catalog.WindowFunc, ReturnType: ret, Documentation: doc, Parameters: params}
}

// mysqlBuiltins is the curated built-in list for the MySQL family
// (MySQL, MariaDB, TiDB).
func mysqlBuiltins() []catalog.FunctionMetadata {
	return []catalog.FunctionMetadata{
		scalarFn("CONCAT", "varchar", "Concatenates its arguments.", catalog.Parameter{Name: "str", Type: "varchar"}),
		scalarFn("IFNULL", "any", "Returns the first non-NULL argument."),
		scalarFn("NOW", "datetime", "Current date and time."),
		scalarFn("DATE_FORMAT", "varchar", "Formats a date per a format string."),
		scalarFn("CAST", "any", "Converts a value to the given type."),
		scalarFn("COALESCE", "any", "Returns the first non-NULL argument."),
		scalarFn("LENGTH", "int", "Byte length of a string."),
		scalarFn("SUBSTRING", "varchar", "Extracts a substring."),
		scalarFn("JSON_EXTRACT", "json", "Extracts a value from a JSON document."),
		aggFn("COUNT", "bigint", "Number of rows."),
		aggFn("SUM", "decimal", "Sum of a numeric expression."),
		aggFn("AVG", "decimal", "Average of a numeric expression."),
		aggFn("MIN", "any", "Minimum value."),
		aggFn("MAX", "any", "Maximum value."),
		aggFn("GROUP_CONCAT", "varchar", "Concatenates grouped values."),
		windowFn("ROW_NUMBER", "bigint", "Sequential row number within the partition."),
		windowFn("RANK", "bigint", "Rank with gaps for ties."),
		windowFn("DENSE_RANK", "bigint", "Rank without gaps for ties."),
		windowFn("LAG", "any", "Value from a preceding row in the partition."),
		windowFn("LEAD", "any", "Value from a following row in the partition."),
	}
}

// postgresBuiltins is the curated built-in list for the PostgreSQL
// family (PostgreSQL, CockroachDB).
func postgresBuiltins() []catalog.FunctionMetadata {
	return []catalog.FunctionMetadata{
		scalarFn("COALESCE", "any", "Returns the first non-NULL argument."),
		scalarFn("NOW", "timestamptz", "Current date and time."),
		scalarFn("TO_CHAR", "text", "Formats a value per a format string."),
		aggFn("ARRAY_AGG", "anyarray", "Aggregates values into an array."),
		scalarFn("LENGTH", "int", "Character length of a string."),
		scalarFn("SUBSTRING", "text", "Extracts a substring."),
		scalarFn("JSONB_EXTRACT_PATH", "jsonb", "Extracts a value from a JSONB document."),
		scalarFn("GENERATE_SERIES", "setof any", "Generates a series of values."),
		aggFn("COUNT", "bigint", "Number of rows."),
		aggFn("SUM", "numeric", "Sum of a numeric expression."),
		aggFn("AVG", "numeric", "Average of a numeric expression."),
		aggFn("MIN", "any", "Minimum value."),
		aggFn("MAX", "any", "Maximum value."),
		aggFn("STRING_AGG", "text", "Concatenates grouped values with a delimiter."),
		windowFn("ROW_NUMBER", "bigint", "Sequential row number within the partition."),
		windowFn("RANK", "bigint", "Rank with gaps for ties."),
		windowFn("DENSE_RANK", "bigint", "Rank without gaps for ties."),
		windowFn("LAG", "any", "Value from a preceding row in the partition."),
		windowFn("LEAD", "any", "Value from a following row in the partition."),
		windowFn("NTILE", "int", "Bucket number within the partition."),
	}
}
