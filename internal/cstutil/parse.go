package cstutil

import (
	"time"

	"github.com/dolthub/vitess/go/vt/sqlparser"

	"github.com/woxQAQ/unified-sql-lsp-sub002/internal/dialect"
)

// Parse produces a parse Outcome for text under the MySQL-family
// grammar (all MySQL-family dialects share the vitess parser, per
// spec §3 "grammars are selected by family"). d is not consulted:
// PostgreSQL-family dialects are parsed with the same vitess grammar,
// and there is no separate PostgreSQL-family CST builder.
func Parse(d dialect.Dialect, text string) Outcome {
	start := time.Now()
	stmt, err := sqlparser.Parse(text)
	elapsed := time.Since(start).Nanoseconds()

	if err == nil {
		return Outcome{
			Root:          BuildFromStatement(text, stmt),
			DurationNanos: elapsed,
		}
	}

	// vitess's recursive-descent parser fails the whole statement on a
	// syntax error rather than emitting a CST with ERROR/MISSING nodes,
	// so Partial recovery here falls back to a flat token-level tree:
	// enough for the context detector's "nearest token left of cursor"
	// fallback path, not a full structural recovery.
	root, tokErrs := tokenizeRecover(text)
	errs := append(tokErrs, ParseError{Message: err.Error()})
	if root == nil {
		return Outcome{Errors: errs, DurationNanos: elapsed}
	}
	return Outcome{Root: root, Errors: errs, DurationNanos: elapsed}
}

// tokenizeRecover builds a flat root CST node of kind "ERROR" whose
// children are single-token leaves, giving the context detector
// something to walk even when the grammar could not build a tree.
func tokenizeRecover(text string) (Node, []ParseError) {
	tz := sqlparser.NewStringTokenizer(text)
	root := &genNode{kind: "ERROR", start: 0, end: len(text)}

	pos := 0
	for {
		typ, val := tz.Scan()
		if typ == 0 { // EOF sentinel used by vitess's tokenizer
			break
		}
		tokText := string(val)
		tokStart := indexFrom(text, tokText, pos)
		if tokStart < 0 {
			tokStart = pos
		}
		tokEnd := tokStart + len(tokText)
		leaf := &genNode{kind: "token", start: tokStart, end: tokEnd, parent: root}
		root.children = append(root.children, leaf)
		pos = tokEnd
	}

	if len(root.children) == 0 {
		return nil, nil
	}
	return root, nil
}

func indexFrom(s, substr string, from int) int {
	if from > len(s) {
		return -1
	}
	idx := indexOf(s[from:], substr)
	if idx < 0 {
		return -1
	}
	return from + idx
}

func indexOf(s, substr string) int {
	if substr == "" {
		return 0
	}
	for i := 0; i+len(substr) <= len(s); i++ {
		if s[i:i+len(substr)] == substr {
			return i
		}
	}
	return -1
}
